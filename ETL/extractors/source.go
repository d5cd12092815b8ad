package extractors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LilVoxy/flowmap/ETL/config"
	"github.com/LilVoxy/flowmap/ETL/models"
)

// Tables три исходные таблицы до нормализации
type Tables struct {
	Flows     *models.RawTable
	Countries *models.RawTable
	Sectors   *models.RawTable
}

// Source источник исходных таблиц
type Source interface {
	// Identity возвращает идентичность данных без их чтения
	Identity(ctx context.Context) (models.SourceIdentity, error)
	// ReadTables читает все три таблицы
	ReadTables(ctx context.Context) (*Tables, error)
}

// DirSource читает CSV-файлы из каталога (каталог кэша загрузчика)
type DirSource struct {
	backend string
	dir     string
	files   config.SourceConfig
}

// NewDirSource создает источник для каталога с файлами
func NewDirSource(backend, dir string, files config.SourceConfig) *DirSource {
	return &DirSource{
		backend: backend,
		dir:     dir,
		files:   files,
	}
}

// Identity строится по имени, размеру и времени изменения файлов
func (s *DirSource) Identity(ctx context.Context) (models.SourceIdentity, error) {
	identity := models.SourceIdentity{Backend: s.backend}
	var missing []string
	for _, name := range s.files.RequiredFiles() {
		info, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			missing = append(missing, name)
			continue
		}
		identity.Files = append(identity.Files, models.SourceFile{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	if len(missing) > 0 {
		return identity, &models.MissingSourcesError{Missing: missing}
	}
	return identity, nil
}

// ReadTables читает три CSV-файла
func (s *DirSource) ReadTables(ctx context.Context) (*Tables, error) {
	read := func(name string) (*models.RawTable, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ReadCSVFile(filepath.Join(s.dir, name))
	}

	var tables Tables
	var err error
	if tables.Flows, err = read(s.files.FlowsFile); err != nil {
		return nil, err
	}
	if tables.Countries, err = read(s.files.CountriesFile); err != nil {
		return nil, err
	}
	if tables.Sectors, err = read(s.files.SectorsFile); err != nil {
		return nil, err
	}
	return &tables, nil
}

// SQLSource читает таблицы из базы данных
type SQLSource struct {
	extractor *SQLExtractor
	config    config.DatabaseConfig
}

// NewSQLSource создает источник для базы данных
func NewSQLSource(extractor *SQLExtractor, cfg config.DatabaseConfig) *SQLSource {
	return &SQLSource{
		extractor: extractor,
		config:    cfg,
	}
}

func (s *SQLSource) tableNames() []string {
	return []string{s.config.FlowsTable, s.config.CountriesTable, s.config.SectorsTable}
}

// Identity строится по количеству строк таблиц, время изменения в БД недоступно
func (s *SQLSource) Identity(ctx context.Context) (models.SourceIdentity, error) {
	identity := models.SourceIdentity{Backend: config.BackendSQL}
	for _, table := range s.tableNames() {
		count, err := s.extractor.CountRows(ctx, table)
		if err != nil {
			return identity, err
		}
		identity.Files = append(identity.Files, models.SourceFile{Name: table, Size: count})
	}
	return identity, nil
}

// ReadTables читает три таблицы
func (s *SQLSource) ReadTables(ctx context.Context) (*Tables, error) {
	var tables Tables
	var err error
	if tables.Flows, err = s.extractor.ReadTable(ctx, s.config.FlowsTable); err != nil {
		return nil, fmt.Errorf("таблица потоков: %w", err)
	}
	if tables.Countries, err = s.extractor.ReadTable(ctx, s.config.CountriesTable); err != nil {
		return nil, fmt.Errorf("таблица координат: %w", err)
	}
	if tables.Sectors, err = s.extractor.ReadTable(ctx, s.config.SectorsTable); err != nil {
		return nil, fmt.Errorf("таблица отраслей: %w", err)
	}
	return &tables, nil
}
