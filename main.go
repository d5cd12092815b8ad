// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/LilVoxy/flowmap/ETL/pipeline"
	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/LilVoxy/flowmap/metrics"
	"github.com/LilVoxy/flowmap/routes"
	"github.com/LilVoxy/flowmap/websocket"
	"github.com/gorilla/mux"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML-файлу конфигурации")
	flag.Parse()

	fmt.Println("Запуск сервера карты потоков...")

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Не удалось загрузить конфигурацию: %v", err)
	}

	logger, err := utils.NewFileETLLogger(cfg.LogFile, cfg.EnableDetailedLogging)
	if err != nil {
		log.Fatalf("❌ Не удалось создать логгер: %v", err)
	}
	defer logger.Close()

	// Подготавливаем исходные данные
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Minute)
	source, closeSource, err := pipeline.Bootstrap(bootstrapCtx, cfg.Source, logger)
	cancelBootstrap()
	if err != nil {
		var missing *models.MissingSourcesError
		if errors.As(err, &missing) {
			log.Fatalf("❌ Отсутствуют исходные файлы: %v", missing.Missing)
		}
		log.Fatalf("❌ Не удалось подготовить источник данных: %v", err)
	}
	defer closeSource()
	log.Printf("✅ Источник данных %s готов", cfg.Source.Backend)

	registry := metrics.DefaultRegistry()
	runner, err := pipeline.NewRunner(cfg.Pipeline, source, logger, registry)
	if err != nil {
		log.Fatalf("❌ Не удалось создать конвейер: %v", err)
	}

	// Загружаем данные заранее, чтобы первый запрос не ждал чтения файлов
	if _, err := runner.Options(context.Background()); err != nil {
		log.Fatalf("❌ Не удалось загрузить исходные данные: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Создаем менеджер WebSocket и запускаем его
	wsManager := websocket.NewManager(runner, registry)
	go wsManager.Run(ctx)

	// Создаем маршрутизатор
	router := mux.NewRouter()
	routes.SetupRoutes(router, runner, wsManager, registry, cfg.PublicDir)

	// Настраиваем сервер
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("✅ Сервер запущен на http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	// Канал для сигналов завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Ожидаем сигнал завершения
	<-stop
	log.Println("⚠️ Получен сигнал завершения, закрываем соединения...")

	// Останавливаем сессии панели
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Ошибка остановки сервера: %v", err)
	}

	log.Println("👋 Сервер остановлен")
}
