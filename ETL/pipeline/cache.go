package pipeline

import (
	"fmt"

	"github.com/LilVoxy/flowmap/ETL/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MergeCache хранит результаты слияния по ключу (идентичность источника + выбор стран)
type MergeCache struct {
	cache *lru.Cache[string, *models.TransformedData]
}

// NewMergeCache создает кэш заданного размера
func NewMergeCache(size int) (*MergeCache, error) {
	cache, err := lru.New[string, *models.TransformedData](size)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания кэша слияния: %w", err)
	}
	return &MergeCache{cache: cache}, nil
}

// Get возвращает результат слияния из кэша
func (c *MergeCache) Get(sourceKey, filterKey string) (*models.TransformedData, bool) {
	return c.cache.Get(sourceKey + "#" + filterKey)
}

// Add сохраняет результат слияния
func (c *MergeCache) Add(sourceKey, filterKey string, data *models.TransformedData) {
	c.cache.Add(sourceKey+"#"+filterKey, data)
}

// Purge очищает кэш
func (c *MergeCache) Purge() {
	c.cache.Purge()
}

// Len возвращает число записей в кэше
func (c *MergeCache) Len() int {
	return c.cache.Len()
}
