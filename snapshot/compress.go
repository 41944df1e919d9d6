package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the body compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the body uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBody compresses data. It returns nil when the body should be stored
// uncompressed: either compression was off, the data is incompressible, or the
// saving is too small to bother (ratio above 0.9).
func compressBody(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone || len(data) == 0 {
		return nil, nil
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compression failed: %w", err)
		}
		if n == 0 {
			return nil, nil // incompressible
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		compressed = enc.EncodeAll(data, nil)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	if float64(len(compressed)) > float64(len(data))*0.9 {
		return nil, nil
	}
	return compressed, nil
}

// decompressBody decompresses a stored body back to uncompressedLen bytes.
func decompressBody(data []byte, uncompressedLen uint64, c Compression) ([]byte, error) {
	result := make([]byte, uncompressedLen)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(data, result)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(n) != uncompressedLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBody)
		}
		return result, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		decoded, err := dec.DecodeAll(data, result[:0])
		if err != nil {
			return nil, fmt.Errorf("zstd decompression failed: %w", err)
		}
		if uint64(len(decoded)) != uncompressedLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBody)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}
