package snapshot

import "errors"

// Snapshot file layout:
//
//	[0:4]   magic "GAR1"
//	[4:6]   format version (uint16 LE)
//	[6:8]   flags (uint16 LE, reserved)
//	[8]     compression type
//	[9]     codec name length
//	[10:16] reserved
//	...     codec name bytes
//	8 bytes body uncompressed length (uint64 LE)
//	8 bytes body stored length (uint64 LE, 0 means body stored uncompressed)
//	...     body bytes
//	4 bytes CRC32-Castagnoli (uint32 LE) over everything above
//
// The header is self-describing: a reader needs no out-of-band configuration
// to pick the codec or compression.
var (
	snapshotMagic  = [4]byte{'G', 'A', 'R', '1'}
	formatVersion  = uint16(1)
	headerFixedLen = 16 // excludes variable codec name bytes
)

var (
	// ErrInvalidMagic is returned when the input does not start with the
	// snapshot magic bytes.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// format revision.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")
	// ErrUnknownCodec is returned when the header names a codec this build
	// cannot resolve.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
	// ErrUnknownCompression is returned when the header carries a compression
	// type this build cannot decompress.
	ErrUnknownCompression = errors.New("snapshot: unknown compression type")
	// ErrCorruptBody is returned when the body bytes cannot be decoded back
	// into slot records.
	ErrCorruptBody = errors.New("snapshot: corrupt body")
)
