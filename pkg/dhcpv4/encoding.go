package dhcpv4

import "encoding/binary"

// RawBuffer reads and writes big-endian integers at fixed offsets. Offsets
// are not validated beyond Go's slice bounds; callers only pass header
// offsets that lie inside the fixed 240-byte region.
type RawBuffer []byte

// Uint8 returns the byte at off.
func (b RawBuffer) Uint8(off int) uint8 { return b[off] }

// Uint16 returns the big-endian uint16 at off.
func (b RawBuffer) Uint16(off int) uint16 { return binary.BigEndian.Uint16(b[off : off+2]) }

// Uint32 returns the big-endian uint32 at off.
func (b RawBuffer) Uint32(off int) uint32 { return binary.BigEndian.Uint32(b[off : off+4]) }

// SetUint8 stores v at off.
func (b RawBuffer) SetUint8(off int, v uint8) { b[off] = v }

// SetUint16 stores v big-endian at off.
func (b RawBuffer) SetUint16(off int, v uint16) { binary.BigEndian.PutUint16(b[off:off+2], v) }

// SetUint32 stores v big-endian at off.
func (b RawBuffer) SetUint32(off int, v uint32) { binary.BigEndian.PutUint32(b[off:off+4], v) }

// IPv4 returns the four bytes at off as an address.
func (b RawBuffer) IPv4(off int) IPv4Address {
	return IPv4Address(b[off : off+4])
}

// SetIPv4 stores a at off.
func (b RawBuffer) SetIPv4(off int, a IPv4Address) {
	copy(b[off:off+4], a[:])
}
