package dhcpv4

import (
	"errors"
	"fmt"
	"iter"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// MaxOptionLength is the largest data length a single option can declare.
const MaxOptionLength = 255

// ErrOptionTooLong is returned when option data does not fit in the length
// byte or in the space left in the options area.
var ErrOptionTooLong = errors.New("dhcpv4: option data too long")

// OptionsBuffer is a view over the options area of a message and the two
// header fields that option overload (RFC 2132 §9.3) can spill into.
//
// Writes are append-only: every write method takes the offset to write at
// and the caller advances its own cursor. Writes are not bounds-checked
// beyond Go slice bounds. Reads tolerate arbitrary bytes.
type OptionsBuffer struct {
	options []byte
	file    []byte
	sname   []byte
}

// NewOptionsBuffer returns a view over the given regions. file and sname may
// be nil when overload is not needed.
func NewOptionsBuffer(options, file, sname []byte) OptionsBuffer {
	return OptionsBuffer{options: options, file: file, sname: sname}
}

// Len returns the size of the primary options region.
func (b OptionsBuffer) Len() int { return len(b.options) }

// Slice writes the tag and length header at start and returns the length
// bytes following it for the caller to fill.
func (b OptionsBuffer) Slice(start int, tag OptionTag, length int) []byte {
	b.options[start] = byte(tag)
	b.options[start+1] = byte(length)
	return b.options[start+2 : start+2+length]
}

// Write encodes text into the data area of an option at start and sets the
// length byte to the encoded size. A nil enc copies the bytes of text as is.
// A non-nil enc builds a new encoder on every call; use WriteText with a
// TextEncoder on hot paths.
func (b OptionsBuffer) Write(start int, tag OptionTag, text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return b.WriteText(start, tag, text, nil)
	}
	return b.WriteText(start, tag, text, NewTextEncoder(enc))
}

// TextEncoder transcodes option text through a reused encoder and source
// buffer so that repeated writes do not allocate. It is not safe for
// concurrent use.
type TextEncoder struct {
	enc *encoding.Encoder
	src [MaxOptionLength]byte
}

// NewTextEncoder returns a TextEncoder for e.
func NewTextEncoder(e encoding.Encoding) *TextEncoder {
	return &TextEncoder{enc: e.NewEncoder()}
}

// WriteText is Write with a caller-owned TextEncoder. A nil te copies the
// bytes of text as is.
func (b OptionsBuffer) WriteText(start int, tag OptionTag, text string, te *TextEncoder) ([]byte, error) {
	room := min(len(b.options)-start-2, MaxOptionLength)
	if room < 0 {
		return nil, ErrOptionTooLong
	}
	dst := b.options[start+2 : start+2+room]

	var n int
	if te == nil {
		if len(text) > room {
			return nil, ErrOptionTooLong
		}
		n = copy(dst, text)
	} else {
		var err error
		if n, err = te.transform(dst, text); err != nil {
			if errors.Is(err, transform.ErrShortDst) {
				return nil, ErrOptionTooLong
			}
			return nil, fmt.Errorf("encoding option %d: %w", tag, err)
		}
	}

	b.options[start] = byte(tag)
	b.options[start+1] = byte(n)
	return dst[:n], nil
}

// transform encodes text into dst in chunks of at most len(te.src) bytes.
func (te *TextEncoder) transform(dst []byte, text string) (int, error) {
	te.enc.Reset()
	nDst := 0
	for {
		k := copy(te.src[:], text)
		atEOF := k == len(text)
		d, s, err := te.enc.Transform(dst[nDst:], te.src[:k], atEOF)
		nDst += d
		text = text[s:]
		switch {
		case err == nil && atEOF:
			return nDst, nil
		case err == nil, errors.Is(err, transform.ErrShortSrc) && s > 0:
			continue
		default:
			return nDst, err
		}
	}
}

// Pad zero-fills length bytes at start. Pad options have no length byte.
func (b OptionsBuffer) Pad(start, length int) {
	clear(b.options[start : start+length])
}

// End writes the End tag at start.
func (b OptionsBuffer) End(start int) {
	b.options[start] = byte(OptionEnd)
}

// BeginContainer writes a container option header with a placeholder length
// and returns start, which must later be passed to EndContainer.
func (b OptionsBuffer) BeginContainer(start int, tag OptionTag) int {
	b.options[start] = byte(tag)
	b.options[start+1] = 0
	return start
}

// SubOptionHeader writes a sub-option code and length at start and returns
// the data bytes that follow.
func (b OptionsBuffer) SubOptionHeader(start int, code byte, length int) []byte {
	b.options[start] = code
	b.options[start+1] = byte(length)
	return b.options[start+2 : start+2+length]
}

// EndContainer patches the length of the container that begins at
// containerStart so that it spans everything up to cursor.
func (b OptionsBuffer) EndContainer(containerStart, cursor int) {
	b.options[containerStart+1] = byte(cursor - containerStart - 2)
}

// Options returns a fresh iterator over all options, following overload into
// the file and sname regions.
func (b OptionsBuffer) Options() OptionIterator {
	return OptionIterator{buf: b, data: b.options}
}

// All returns the options as a range-over-func sequence.
func (b OptionsBuffer) All() iter.Seq[Option] {
	return func(yield func(Option) bool) {
		it := b.Options()
		for it.Next() {
			if !yield(it.Option()) {
				return
			}
		}
	}
}

// Find returns the first option with the given tag.
func (b OptionsBuffer) Find(tag OptionTag) (Option, bool) {
	it := b.Options()
	for it.Next() {
		if o := it.Option(); o.Tag == tag {
			return o, true
		}
	}
	return Option{}, false
}

type optionRegion uint8

const (
	regionPrimary optionRegion = iota
	regionFile
	regionSName
	regionDone
)

// OptionIterator walks the options of an OptionsBuffer. It is single pass:
// start again with OptionsBuffer.Options.
//
// Pad is skipped. End is yielded with empty data and exhausts the current
// region. An Overload option in the primary region selects which header
// fields are read once the primary region is exhausted. RFC 2132 §9.3 only
// permits Overload in the options field, so one seen in file or sname is
// yielded but ignored.
//
// A tag without a length byte is yielded with empty data and a length that
// runs past the region is clamped to the bytes remaining. Both exhaust the
// region.
type OptionIterator struct {
	buf     OptionsBuffer
	data    []byte
	pos     int
	region  optionRegion
	pending Overload
	cur     Option
}

// Next advances to the next option and reports whether there is one.
func (it *OptionIterator) Next() bool {
	for it.region != regionDone {
		if it.pos >= len(it.data) {
			it.nextRegion()
			continue
		}

		tag := OptionTag(it.data[it.pos])
		switch tag {
		case OptionPad:
			it.pos++
			continue
		case OptionEnd:
			it.cur = Option{Tag: OptionEnd}
			it.pos = len(it.data)
			return true
		}

		if it.pos+1 >= len(it.data) {
			it.cur = Option{Tag: tag}
			it.pos = len(it.data)
			return true
		}

		start := it.pos + 2
		end := min(start+int(it.data[it.pos+1]), len(it.data))
		it.cur = Option{Tag: tag, Data: it.data[start:end:end]}
		it.pos = start + int(it.data[it.pos+1])

		if tag == OptionOverload && it.region == regionPrimary && len(it.cur.Data) > 0 {
			it.pending = Overload(it.cur.Data[0])
		}
		return true
	}
	it.cur = Option{}
	return false
}

// Option returns the option at the current position.
func (it *OptionIterator) Option() Option { return it.cur }

func (it *OptionIterator) nextRegion() {
	it.pos = 0
	switch it.pending {
	case OverloadNone:
		it.region = regionDone
		it.data = nil
	case OverloadFile:
		it.region = regionFile
		it.data = it.buf.file
		it.pending = OverloadNone
	case OverloadSName:
		it.region = regionSName
		it.data = it.buf.sname
		it.pending = OverloadNone
	default:
		it.region = regionFile
		it.data = it.buf.file
		it.pending = OverloadSName
	}
}
