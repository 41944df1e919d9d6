package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/genarena"
	"github.com/hupe1980/genarena/codec"
	"github.com/hupe1980/genarena/internal/hash"
)

// Options configures snapshot encoding and decoding.
type Options struct {
	// Codec encodes slot values. Defaults to codec.Default.
	Codec codec.Codec

	// Compression selects the body compression. Defaults to CompressionNone.
	Compression Compression
}

// Option mutates Options.
type Option func(*Options)

// WithCodec sets the value codec. On read it is only consulted when the
// header names a codec that ByName cannot resolve (custom codecs).
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithCompression sets the body compression. Ignored on read, where the
// header decides.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

func applyOptions(optFns []Option) Options {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Write serializes the arena to w and returns the number of bytes written.
// The output preserves slot order, generations, the free-list chain, and
// retired slots, so an arena read back keeps every outstanding handle valid
// and every stale handle stale.
func Write[T any](w io.Writer, a *genarena.Arena[T], optFns ...Option) (int64, error) {
	opts := applyOptions(optFns)

	records, freeHead := a.ExportSlots()
	body, err := encodeBody(records, freeHead, opts.Codec)
	if err != nil {
		return 0, err
	}

	compressed, err := compressBody(body, opts.Compression)
	if err != nil {
		return 0, err
	}

	header := make([]byte, 0, headerFixedLen+len(opts.Codec.Name())+16)
	header = append(header, snapshotMagic[:]...)
	var fixed [12]byte
	binary.LittleEndian.PutUint16(fixed[0:2], formatVersion)
	binary.LittleEndian.PutUint16(fixed[2:4], 0) // flags, reserved
	fixed[4] = byte(opts.Compression)
	fixed[5] = byte(len(opts.Codec.Name()))
	// fixed[6:12] reserved
	header = append(header, fixed[:]...)
	header = append(header, opts.Codec.Name()...)

	var lengths [16]byte
	binary.LittleEndian.PutUint64(lengths[0:8], uint64(len(body)))
	binary.LittleEndian.PutUint64(lengths[8:16], uint64(len(compressed)))
	header = append(header, lengths[:]...)

	stored := compressed
	if stored == nil {
		stored = body
	}

	cw := hash.NewChecksumWriter(w)
	var written int64
	for _, chunk := range [][]byte{header, stored} {
		n, err := cw.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	n, err := w.Write(trailer[:])
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("failed to write snapshot trailer: %w", err)
	}
	return written, nil
}

// Read deserializes an arena from r, verifying the trailing checksum and the
// free-list structure before any handle can observe the result.
func Read[T any](r io.Reader, optFns ...Option) (*genarena.Arena[T], error) {
	opts := applyOptions(optFns)

	cr := hash.NewChecksumReader(r)

	fixed := make([]byte, headerFixedLen)
	if _, err := io.ReadFull(cr, fixed); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if !bytes.Equal(fixed[0:4], snapshotMagic[:]) {
		return nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint16(fixed[4:6]); version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	compression := Compression(fixed[8])
	nameLen := int(fixed[9])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(cr, name); err != nil {
		return nil, fmt.Errorf("failed to read snapshot codec name: %w", err)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		if opts.Codec != nil && opts.Codec.Name() == string(name) {
			c = opts.Codec
		} else {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
		}
	}

	var lengths [16]byte
	if _, err := io.ReadFull(cr, lengths[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot body lengths: %w", err)
	}
	uncompressedLen := binary.LittleEndian.Uint64(lengths[0:8])
	storedLen := binary.LittleEndian.Uint64(lengths[8:16])

	bodyLen := storedLen
	if bodyLen == 0 {
		bodyLen = uncompressedLen
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(cr, body); err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot trailer: %w", err)
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	if storedLen != 0 {
		body, err := decompressBody(body, uncompressedLen, compression)
		if err != nil {
			return nil, err
		}
		return decodeArena[T](body, c)
	}
	return decodeArena[T](body, c)
}

func encodeBody[T any](records []genarena.SlotRecord[T], freeHead uint32, c codec.Codec) ([]byte, error) {
	var buf bytes.Buffer
	var scratch [8]byte

	binary.LittleEndian.PutUint64(scratch[:], uint64(len(records)))
	buf.Write(scratch[:])
	binary.LittleEndian.PutUint32(scratch[:4], freeHead)
	buf.Write(scratch[:4])

	var live uint64
	for _, rec := range records {
		if rec.State == genarena.SlotOccupied {
			live++
		}
	}
	binary.LittleEndian.PutUint64(scratch[:], live)
	buf.Write(scratch[:])

	for i, rec := range records {
		buf.WriteByte(byte(rec.State))
		binary.LittleEndian.PutUint32(scratch[:4], rec.Generation)
		buf.Write(scratch[:4])

		switch rec.State {
		case genarena.SlotFree:
			binary.LittleEndian.PutUint32(scratch[:4], rec.NextFree)
			buf.Write(scratch[:4])
		case genarena.SlotOccupied:
			data, err := c.Marshal(rec.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode value at slot %d: %w", i, err)
			}
			buf.Write(binary.AppendUvarint(nil, uint64(len(data))))
			buf.Write(data)
		case genarena.SlotRetired:
			// generation only
		}
	}
	return buf.Bytes(), nil
}

func decodeArena[T any](body []byte, c codec.Codec) (*genarena.Arena[T], error) {
	r := bytes.NewReader(body)
	var scratch [8]byte

	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("%w: missing slot count", ErrCorruptBody)
	}
	slotCount := binary.LittleEndian.Uint64(scratch[:])
	if slotCount > uint64(len(body)) {
		// Each record is at least 5 bytes, so this cannot be a valid body.
		return nil, fmt.Errorf("%w: implausible slot count %d", ErrCorruptBody, slotCount)
	}
	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return nil, fmt.Errorf("%w: missing free-list head", ErrCorruptBody)
	}
	freeHead := binary.LittleEndian.Uint32(scratch[:4])
	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("%w: missing live count", ErrCorruptBody)
	}
	declaredLive := binary.LittleEndian.Uint64(scratch[:])

	var occupied uint64
	records := make([]genarena.SlotRecord[T], slotCount)
	for i := range records {
		state, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated at slot %d", ErrCorruptBody, i)
		}
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return nil, fmt.Errorf("%w: truncated at slot %d", ErrCorruptBody, i)
		}
		rec := genarena.SlotRecord[T]{
			State:      genarena.SlotState(state),
			Generation: binary.LittleEndian.Uint32(scratch[:4]),
			NextFree:   genarena.NoSlot,
		}

		switch rec.State {
		case genarena.SlotFree:
			if _, err := io.ReadFull(r, scratch[:4]); err != nil {
				return nil, fmt.Errorf("%w: truncated at slot %d", ErrCorruptBody, i)
			}
			rec.NextFree = binary.LittleEndian.Uint32(scratch[:4])
		case genarena.SlotOccupied:
			size, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated at slot %d", ErrCorruptBody, i)
			}
			if size > uint64(r.Len()) {
				return nil, fmt.Errorf("%w: value at slot %d extends beyond body", ErrCorruptBody, i)
			}
			data := make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("%w: truncated at slot %d", ErrCorruptBody, i)
			}
			if err := c.Unmarshal(data, &rec.Value); err != nil {
				return nil, fmt.Errorf("failed to decode value at slot %d: %w", i, err)
			}
			occupied++
		case genarena.SlotRetired:
			// generation only
		default:
			return nil, fmt.Errorf("%w: unknown slot state %d at slot %d", ErrCorruptBody, state, i)
		}
		records[i] = rec
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptBody, r.Len())
	}
	if occupied != declaredLive {
		return nil, fmt.Errorf("%w: body declares %d live entries, found %d",
			ErrCorruptBody, declaredLive, occupied)
	}

	return genarena.FromSlots(records, freeHead)
}
