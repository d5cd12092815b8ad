package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Поддерживаемые источники исходных данных
const (
	BackendDrive = "drive"
	BackendS3    = "s3"
	BackendLocal = "local"
	BackendSQL   = "sql"
)

// Имена обязательных файлов в общей папке
const (
	FlowsFileName     = "flatfile_eu-ic-io_ind-by-ind_23ed_2021.csv"
	CountriesFileName = "Map of routes data.csv"
	SectorsFileName   = "nace.csv"
)

// Config содержит конфигурацию сервиса карты потоков
type Config struct {
	// Адрес HTTP-сервера
	Addr string `json:"addr" yaml:"addr" validate:"required"`

	// Каталог статических файлов панели
	PublicDir string `json:"public_dir" yaml:"public_dir"`

	// Настройки источников данных
	Source SourceConfig `json:"source" yaml:"source"`

	// Параметры конвейера
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging" yaml:"enable_detailed_logging"`

	// Файл журнала (пусто - только стандартный вывод)
	LogFile string `json:"log_file" yaml:"log_file"`
}

// SourceConfig описывает, откуда берутся три исходные таблицы
type SourceConfig struct {
	Backend  string `json:"backend" yaml:"backend" validate:"oneof=drive s3 local sql"`
	CacheDir string `json:"cache_dir" yaml:"cache_dir" validate:"required"`

	FlowsFile     string `json:"flows_file" yaml:"flows_file" validate:"required"`
	CountriesFile string `json:"countries_file" yaml:"countries_file" validate:"required"`
	SectorsFile   string `json:"sectors_file" yaml:"sectors_file" validate:"required"`

	// Google Drive
	DriveFolderID string `json:"drive_folder_id" yaml:"drive_folder_id" validate:"required_if=Backend drive"`
	DriveAPIKey   string `json:"drive_api_key" yaml:"drive_api_key"`

	// S3
	S3Bucket string `json:"s3_bucket" yaml:"s3_bucket" validate:"required_if=Backend s3"`
	S3Prefix string `json:"s3_prefix" yaml:"s3_prefix"`
	S3Region string `json:"s3_region" yaml:"s3_region"`

	// Локальный каталог
	LocalDir string `json:"local_dir" yaml:"local_dir" validate:"required_if=Backend local"`

	// База данных
	Database DatabaseConfig `json:"database" yaml:"database"`
}

// RequiredFiles возвращает имена обязательных файлов
func (s SourceConfig) RequiredFiles() []string {
	return []string{s.FlowsFile, s.CountriesFile, s.SectorsFile}
}

// PipelineConfig параметры слияния и ранжирования
type PipelineConfig struct {
	// Список допустимых стран
	AllowedCountries []string `json:"allowed_countries" yaml:"allowed_countries" validate:"min=1,dive,len=2"`

	// Ограничение количества строк перед слиянием (0 - без ограничения)
	MaxMergeRows int `json:"max_merge_rows" yaml:"max_merge_rows" validate:"min=0"`

	// Порог числа пар, ниже которого используется локальный отраслевой рейтинг
	FallbackMinPairs int `json:"fallback_min_pairs" yaml:"fallback_min_pairs" validate:"min=1"`

	DefaultTopN int `json:"default_top_n" yaml:"default_top_n" validate:"min=1,ltefield=MaxTopN"`
	MaxTopN     int `json:"max_top_n" yaml:"max_top_n" validate:"min=1"`

	// Размер кэша результатов слияния
	MergeCacheSize int `json:"merge_cache_size" yaml:"merge_cache_size" validate:"min=1"`

	// Емкость журнала запусков
	RunLogCapacity int `json:"run_log_capacity" yaml:"run_log_capacity" validate:"min=1"`
}

// Значения конфигурации по умолчанию
var (
	// DefaultAllowedCountries 27 стран ЕС, Норвегия и Швейцария
	DefaultAllowedCountries = []string{
		"AT", "BE", "BG", "CY", "CZ", "DE", "DK", "EE", "ES", "FI",
		"FR", "GR", "HR", "HU", "IE", "IT", "LT", "LU", "LV", "MT",
		"NL", "PL", "PT", "RO", "SE", "SI", "SK", "NO", "CH",
	}

	DefaultSourceConfig = SourceConfig{
		Backend:       BackendDrive,
		CacheDir:      "gdown_temp",
		FlowsFile:     FlowsFileName,
		CountriesFile: CountriesFileName,
		SectorsFile:   SectorsFileName,
		DriveFolderID: "16CaF7Qlnk-524nD9afUrUs3OtQoKna3v",
		S3Region:      "eu-central-1",
		Database:      DefaultDatabaseConfig,
	}

	DefaultPipelineConfig = PipelineConfig{
		AllowedCountries: DefaultAllowedCountries,
		MaxMergeRows:     500000,
		FallbackMinPairs: 5,
		DefaultTopN:      25,
		MaxTopN:          50,
		MergeCacheSize:   32,
		RunLogCapacity:   200,
	}

	DefaultConfig = Config{
		Addr:                  ":8080",
		PublicDir:             "public",
		Source:                DefaultSourceConfig,
		Pipeline:              DefaultPipelineConfig,
		EnableDetailedLogging: false,
	}
)

var validate = validator.New()

// GetConfig возвращает конфигурацию по умолчанию
func GetConfig() Config {
	config := DefaultConfig

	// Копируем срез, чтобы изменения не затрагивали значения по умолчанию
	config.Pipeline.AllowedCountries = append([]string(nil), DefaultAllowedCountries...)

	return config
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл, затем .env и переменные окружения
func Load(path string) (Config, error) {
	config := GetConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
		}
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if err := applyEnv(&config); err != nil {
		return config, err
	}

	if err := Validate(config); err != nil {
		return config, err
	}
	return config, nil
}

// Validate проверяет конфигурацию
func Validate(config Config) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}
	if config.Source.Backend == BackendSQL && config.Source.Database.DSN() == "" {
		return fmt.Errorf("некорректная конфигурация: для источника sql требуется DSN")
	}
	return nil
}

// applyEnv переопределяет значения из переменных окружения FLOWMAP_*
func applyEnv(config *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("некорректное значение %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("FLOWMAP_ADDR", &config.Addr)
	setString("FLOWMAP_PUBLIC_DIR", &config.PublicDir)
	setString("FLOWMAP_LOG_FILE", &config.LogFile)
	setString("FLOWMAP_SOURCE_BACKEND", &config.Source.Backend)
	setString("FLOWMAP_CACHE_DIR", &config.Source.CacheDir)
	setString("FLOWMAP_DRIVE_FOLDER_ID", &config.Source.DriveFolderID)
	setString("GOOGLE_API_KEY", &config.Source.DriveAPIKey)
	setString("FLOWMAP_S3_BUCKET", &config.Source.S3Bucket)
	setString("FLOWMAP_S3_PREFIX", &config.Source.S3Prefix)
	setString("FLOWMAP_S3_REGION", &config.Source.S3Region)
	setString("FLOWMAP_LOCAL_DIR", &config.Source.LocalDir)
	setString("FLOWMAP_DB_DRIVER", &config.Source.Database.Driver)
	setString("FLOWMAP_DB_DSN", &config.Source.Database.RawDSN)

	if v, ok := os.LookupEnv("FLOWMAP_ALLOWED_COUNTRIES"); ok && v != "" {
		var codes []string
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, strings.ToUpper(c))
			}
		}
		config.Pipeline.AllowedCountries = codes
	}

	if v, ok := os.LookupEnv("FLOWMAP_VERBOSE"); ok && v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("некорректное значение FLOWMAP_VERBOSE: %w", err)
		}
		config.EnableDetailedLogging = verbose
	}

	for key, dst := range map[string]*int{
		"FLOWMAP_MAX_MERGE_ROWS":     &config.Pipeline.MaxMergeRows,
		"FLOWMAP_FALLBACK_MIN_PAIRS": &config.Pipeline.FallbackMinPairs,
		"FLOWMAP_DEFAULT_TOP_N":      &config.Pipeline.DefaultTopN,
		"FLOWMAP_MERGE_CACHE_SIZE":   &config.Pipeline.MergeCacheSize,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}
