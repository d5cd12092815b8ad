package extractors

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/LilVoxy/flowmap/ETL/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API подмножество клиента S3, используемое загрузчиком
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher загружает файлы-источники из бакета S3
type S3Fetcher struct {
	client S3API
	bucket string
	prefix string
	logger *utils.ETLLogger
}

// NewS3Fetcher создает загрузчик с конфигурацией AWS по умолчанию
func NewS3Fetcher(ctx context.Context, bucket, prefix, region string, logger *utils.ETLLogger) (*S3Fetcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации AWS: %w", err)
	}
	return NewS3FetcherWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3FetcherWithClient создает загрузчик с готовым клиентом
func NewS3FetcherWithClient(client S3API, bucket, prefix string, logger *utils.ETLLogger) *S3Fetcher {
	return &S3Fetcher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Fetch скачивает объекты prefix/name
func (f *S3Fetcher) Fetch(ctx context.Context, names []string, dir string) error {
	for _, name := range names {
		key := path.Join(f.prefix, name)
		out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(f.bucket),
			Key:    aws.String(key),
		})
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			f.logger.Error("Объект s3://%s/%s не найден", f.bucket, key)
			continue
		}
		if err != nil {
			return fmt.Errorf("ошибка скачивания s3://%s/%s: %w", f.bucket, key, err)
		}

		err = writeFileAtomic(dir, name, out.Body)
		out.Body.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
