package offline

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// Codec алгоритм сжатия офлайн-снимка на диске.
type Codec string

// Поддерживаемые кодеки
const (
	CodecNone   Codec = "none"
	CodecSnappy Codec = "snappy"
	CodecGzip   Codec = "gzip"
)

// Однобайтовые маркеры кодека в заголовке кадра. Значения состоят в
// формате хранения, менять нельзя.
const (
	markerNone   byte = 0
	markerSnappy byte = 1
	markerGzip   byte = 2
)

// Кадр снимка: маркер кодека, длина исходных данных (big-endian uint64),
// SHA-256 исходных данных, затем сжатое тело.
const frameHeaderSize = 1 + 8 + sha256.Size

// Valid сообщает, поддерживается ли кодек.
func (c Codec) Valid() bool {
	switch c {
	case CodecNone, CodecSnappy, CodecGzip:
		return true
	}
	return false
}

func (c Codec) marker() (byte, error) {
	switch c {
	case CodecNone:
		return markerNone, nil
	case CodecSnappy:
		return markerSnappy, nil
	case CodecGzip:
		return markerGzip, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, string(c))
}

func codecFromMarker(b byte) (Codec, error) {
	switch b {
	case markerNone:
		return CodecNone, nil
	case markerSnappy:
		return CodecSnappy, nil
	case markerGzip:
		return CodecGzip, nil
	}
	return "", fmt.Errorf("%w: marker 0x%02x", ErrUnknownCodec, b)
}

// encodeFrame упаковывает полезную нагрузку в кадр снимка. Контрольная
// сумма считается по исходным данным, до сжатия.
func encodeFrame(c Codec, payload []byte) ([]byte, error) {
	marker, err := c.marker()
	if err != nil {
		return nil, err
	}

	compressed, err := compress(c, payload)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(payload)

	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(compressed))
	frame[0] = marker
	binary.BigEndian.PutUint64(frame[1:9], uint64(len(payload)))
	copy(frame[9:], sum[:])

	return append(frame, compressed...), nil
}

// decodeFrame распаковывает кадр снимка и сверяет длину с контрольной
// суммой.
func decodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, fmt.Errorf("%w: frame of %d bytes is too short", ErrChecksumMismatch, len(frame))
	}

	codec, err := codecFromMarker(frame[0])
	if err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint64(frame[1:9])

	var want [sha256.Size]byte
	copy(want[:], frame[9:frameHeaderSize])

	payload, err := decompress(codec, frame[frameHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	if uint64(len(payload)) != length {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrChecksumMismatch, len(payload), length)
	}
	if sha256.Sum256(payload) != want {
		return nil, ErrChecksumMismatch
	}

	return payload, nil
}

func compress(c Codec, data []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return data, nil
	case CodecSnappy:
		return snappy.Encode(nil, data), nil
	case CodecGzip:
		var buf bytes.Buffer

		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("failed to compress snapshot: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("failed to compress snapshot: %w", err)
		}

		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(c))
}

func decompress(c Codec, data []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return data, nil
	case CodecSnappy:
		return snappy.Decode(nil, data)
	case CodecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()

		return io.ReadAll(zr)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(c))
}
