// Package hash provides the checksum helpers shared by the snapshot format.
package hash

import (
	"hash"
	"hash/crc32"
)

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial so repeated
// MakeTable calls are avoided.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data. Uses hardware
// acceleration when available.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}
