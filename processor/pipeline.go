package processor

import (
	"encoding/json"
	"fmt"
)

// ProcessOutboundMessage сериализует сообщение в JSON и, если нужно, сжимает его Snappy
func ProcessOutboundMessage(v interface{}, compress bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации сообщения: %w", err)
	}
	if compress {
		return CompressMessage(data), nil
	}
	return data, nil
}

// ProcessInboundMessage выполняет обратное преобразование: распаковка (если сжато) и разбор JSON
func ProcessInboundMessage(data []byte, compressed bool, v interface{}) error {
	if compressed {
		plain, err := DecompressMessage(data)
		if err != nil {
			return err
		}
		data = plain
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("ошибка разбора сообщения: %w", err)
	}
	return nil
}
