package dhcpv4

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Option is one tag-length-value record. Data aliases the message buffer and
// is only valid until the buffer is loaded or saved again.
type Option struct {
	Tag  OptionTag
	Data []byte
}

// Uint8 returns the single-byte value of the option.
func (o Option) Uint8() (uint8, bool) {
	if len(o.Data) != 1 {
		return 0, false
	}
	return o.Data[0], true
}

// Uint16 returns the big-endian 16-bit value of the option.
func (o Option) Uint16() (uint16, bool) {
	if len(o.Data) != 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(o.Data), true
}

// Uint32 returns the big-endian 32-bit value of the option.
func (o Option) Uint32() (uint32, bool) {
	if len(o.Data) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(o.Data), true
}

// Duration interprets a 32-bit option value as seconds (options 51, 58, 59).
func (o Option) Duration() (time.Duration, bool) {
	v, ok := o.Uint32()
	if !ok {
		return 0, false
	}
	return time.Duration(v) * time.Second, true
}

// IPv4 returns the option value as a single address.
func (o Option) IPv4() (IPv4Address, bool) {
	if len(o.Data) != 4 {
		return IPv4Address{}, false
	}
	return IPv4Address(o.Data), true
}

// IPv4List returns the number of addresses in an address-list option; use
// IPv4At to read them without allocating.
func (o Option) IPv4List() (n int, ok bool) {
	if len(o.Data) == 0 || len(o.Data)%4 != 0 {
		return 0, false
	}
	return len(o.Data) / 4, true
}

// IPv4At returns the i-th address of an address-list option.
func (o Option) IPv4At(i int) IPv4Address {
	return IPv4Address(o.Data[i*4 : i*4+4])
}

// MessageType returns the value of a DHCP message type option.
func (o Option) MessageType() (MessageType, bool) {
	v, ok := o.Uint8()
	return MessageType(v), ok && o.Tag == OptionDHCPMessageType
}

// Overload returns the value of an option overload option.
func (o Option) Overload() (Overload, bool) {
	v, ok := o.Uint8()
	return Overload(v), ok && o.Tag == OptionOverload
}

// ClasslessRoute is one RFC 3442 route from option 121.
type ClasslessRoute struct {
	Destination IPv4Address
	PrefixLen   int
	Router      IPv4Address
}

func (r ClasslessRoute) String() string {
	return fmt.Sprintf("%s/%d via %s", r.Destination, r.PrefixLen, r.Router)
}

// ClasslessRoutes decodes the routes of option 121 into dst.
func (o Option) ClasslessRoutes(dst []ClasslessRoute) ([]ClasslessRoute, error) {
	b := o.Data
	i := 0
	for i < len(b) {
		prefixLen := int(b[i])
		i++
		if prefixLen > 32 {
			return dst, fmt.Errorf("invalid prefix length %d at offset %d", prefixLen, i-1)
		}
		sig := (prefixLen + 7) / 8
		if i+sig+4 > len(b) {
			return dst, fmt.Errorf("truncated route at offset %d", i-1)
		}
		var r ClasslessRoute
		copy(r.Destination[:], b[i:i+sig])
		i += sig
		r.PrefixLen = prefixLen
		r.Router = IPv4Address(b[i : i+4])
		i += 4
		dst = append(dst, r)
	}
	return dst, nil
}

// AppendClasslessRoute appends the RFC 3442 encoding of r to dst. Prefix
// lengths outside 0..32 are clamped.
func AppendClasslessRoute(dst []byte, r ClasslessRoute) []byte {
	r.PrefixLen = max(0, min(r.PrefixLen, 32))
	sig := (r.PrefixLen + 7) / 8
	dst = append(dst, byte(r.PrefixLen))
	dst = append(dst, r.Destination[:sig]...)
	return append(dst, r.Router[:]...)
}
