package extractors

import (
	"context"
	"fmt"

	"github.com/LilVoxy/flowmap/ETL/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveFetcher загружает файлы из общей папки Google Drive
type DriveFetcher struct {
	service  *drive.Service
	folderID string
	logger   *utils.ETLLogger
}

// NewDriveFetcher создает клиент Drive. Без ключа API используется анонимный доступ.
func NewDriveFetcher(ctx context.Context, folderID, apiKey string, logger *utils.ETLLogger, opts ...option.ClientOption) (*DriveFetcher, error) {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Google Drive: %w", err)
	}

	return &DriveFetcher{
		service:  service,
		folderID: folderID,
		logger:   logger,
	}, nil
}

// Fetch находит файлы в папке по именам и скачивает их
func (f *DriveFetcher) Fetch(ctx context.Context, names []string, dir string) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	// Имя файла -> ID в Drive
	found := make(map[string]string)
	query := fmt.Sprintf("'%s' in parents and trashed = false", f.folderID)
	err := f.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name)").
		PageSize(1000).
		Pages(ctx, func(page *drive.FileList) error {
			for _, file := range page.Files {
				if wanted[file.Name] {
					if _, dup := found[file.Name]; !dup {
						found[file.Name] = file.Id
					}
				}
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("ошибка получения списка файлов папки %s: %w", f.folderID, err)
	}

	for _, name := range names {
		id, ok := found[name]
		if !ok {
			f.logger.Error("Файл %s не найден в папке Google Drive %s", name, f.folderID)
			continue
		}

		f.logger.Debug("Скачивание %s (%s)", name, id)
		resp, err := f.service.Files.Get(id).Context(ctx).Download()
		if err != nil {
			return fmt.Errorf("ошибка скачивания %s: %w", name, err)
		}
		err = writeFileAtomic(dir, name, resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
