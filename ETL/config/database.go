package config

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// DatabaseConfig содержит настройки подключения к базе данных-источнику
type DatabaseConfig struct {
	Driver   string `json:"driver" yaml:"driver" validate:"omitempty,oneof=mysql sqlite"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"dbname" yaml:"dbname"`

	// Путь к файлу для sqlite
	Path string `json:"path" yaml:"path"`

	// Готовая строка подключения, имеет приоритет над остальными полями
	RawDSN string `json:"dsn" yaml:"dsn"`

	// Имена таблиц с исходными данными
	FlowsTable     string `json:"flows_table" yaml:"flows_table"`
	CountriesTable string `json:"countries_table" yaml:"countries_table"`
	SectorsTable   string `json:"sectors_table" yaml:"sectors_table"`
}

// DefaultDatabaseConfig значения по умолчанию для источника sql
var DefaultDatabaseConfig = DatabaseConfig{
	Driver:         "mysql",
	Host:           "localhost",
	Port:           3306,
	User:           "root",
	DBName:         "trade_flows",
	FlowsTable:     "flows",
	CountriesTable: "countries",
	SectorsTable:   "nace",
}

// DSN возвращает строку подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.RawDSN != "" {
		return c.RawDSN
	}

	switch c.Driver {
	case "sqlite":
		return c.Path
	case "mysql":
		if c.Host == "" || c.DBName == "" {
			return ""
		}
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		cfg.DBName = c.DBName
		cfg.ParseTime = true
		return cfg.FormatDSN()
	}
	return ""
}

// ConnectDatabase устанавливает подключение к базе данных-источнику
func ConnectDatabase(config DatabaseConfig) (*sql.DB, error) {
	dsn := config.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("не задана строка подключения для драйвера %q", config.Driver)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Настройка параметров подключения
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с базой данных: %w", err)
	}

	log.Printf("Успешное подключение к базе данных-источнику (%s)", config.Driver)
	return db, nil
}

// CloseDatabase закрывает подключение к базе данных
func CloseDatabase(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии соединения с базой данных: %v", err)
		return
	}
	log.Println("Соединение с базой данных закрыто")
}
