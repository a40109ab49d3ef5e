package offline

import "errors"

var (
	// ErrUnknownCodec снимок сжат неизвестным кодеком
	ErrUnknownCodec = errors.New("unknown snapshot codec")

	// ErrChecksumMismatch содержимое снимка не сходится с контрольной суммой
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)
