package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// ETLLogger представляет логгер для конвейера обработки потоков
type ETLLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	closer      io.Closer
}

// NewETLLogger создает логгер, пишущий в указанный поток
func NewETLLogger(out io.Writer, verbose bool) *ETLLogger {
	if out == nil {
		out = os.Stdout
	}

	// Инициализируем логгеры для разных уровней
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &ETLLogger{
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(out, "ERROR: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
		isVerbose:   verbose,
	}
}

// NewFileETLLogger создает логгер, дублирующий сообщения в файл и стандартный вывод
func NewFileETLLogger(path string, verbose bool) (*ETLLogger, error) {
	if path == "" {
		return NewETLLogger(os.Stdout, verbose), nil
	}

	// Создаем или открываем лог-файл для записи
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть или создать файл лога: %w", err)
	}

	logger := NewETLLogger(io.MultiWriter(os.Stdout, file), verbose)
	logger.closer = file
	return logger, nil
}

// NewDiscardLogger создает логгер, отбрасывающий все сообщения
func NewDiscardLogger() *ETLLogger {
	return NewETLLogger(io.Discard, false)
}

// Close закрывает файл журнала, если он был открыт
func (l *ETLLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Verbose сообщает, включен ли подробный режим
func (l *ETLLogger) Verbose() bool {
	return l.isVerbose
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	l.infoLogger.Println(fmt.Sprintf(format, v...))
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	l.errorLogger.Println(fmt.Sprintf(format, v...))
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.debugLogger.Println(fmt.Sprintf(format, v...))
}

// LogPhaseStart логирует начало фазы конвейера
func (l *ETLLogger) LogPhaseStart(phase string) {
	l.Info("Начало фазы %s", phase)
}

// LogPhaseComplete логирует завершение фазы конвейера
func (l *ETLLogger) LogPhaseComplete(phase string, rows int, startTime time.Time) {
	l.Info("Фаза %s завершена. Строк: %d, длительность: %v", phase, rows, time.Since(startTime))
}

// LogRunComplete логирует завершение запуска конвейера
func (l *ETLLogger) LogRunComplete(runID string, startTime time.Time, pairs, flows, bubbles int) {
	l.Info("Запуск %s завершён. Длительность: %v", runID, time.Since(startTime))
	l.Info("Пар в рейтинге: %d, потоков на карте: %d, пузырьков: %d", pairs, flows, bubbles)
}
