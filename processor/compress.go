package processor

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// SnappyFramedEncoding значение Accept-Encoding/Content-Encoding для потокового формата Snappy
const SnappyFramedEncoding = "x-snappy-framed"

// CompressMessage сжимает сообщение блочным форматом Snappy
func CompressMessage(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressMessage распаковывает сообщение блочного формата Snappy
func DecompressMessage(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки сообщения: %w", err)
	}
	return decompressed, nil
}

// NewFramedWriter оборачивает поток в потоковый формат Snappy. Писатель нужно закрыть.
func NewFramedWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}

// NewFramedReader читает поток в потоковом формате Snappy
func NewFramedReader(r io.Reader) io.Reader {
	return snappy.NewReader(r)
}
