package dhcpv4

import "iter"

// SubOption is one (code, length, data) record inside a container option.
type SubOption struct {
	Code byte
	Data []byte
}

// SubOptionIterator walks the sub-options of a container option such as
// Vendor Specific (43). There is no Pad or End handling: code 255 is an
// ordinary record. Truncation follows the same rules as OptionIterator.
type SubOptionIterator struct {
	data []byte
	pos  int
	cur  SubOption
}

// SubOptions returns an iterator over the sub-options carried in o.Data.
func (o Option) SubOptions() SubOptionIterator {
	return NewSubOptionIterator(o.Data)
}

// NewSubOptionIterator returns an iterator over data.
func NewSubOptionIterator(data []byte) SubOptionIterator {
	return SubOptionIterator{data: data}
}

// Next advances to the next sub-option and reports whether there is one.
func (it *SubOptionIterator) Next() bool {
	code, data, ok := nextTLV(it.data, &it.pos)
	it.cur = SubOption{Code: code, Data: data}
	return ok
}

// SubOption returns the sub-option at the current position.
func (it *SubOptionIterator) SubOption() SubOption { return it.cur }

// All returns the remaining sub-options as a sequence.
func (it SubOptionIterator) All() iter.Seq[SubOption] {
	return func(yield func(SubOption) bool) {
		for it.Next() {
			if !yield(it.SubOption()) {
				return
			}
		}
	}
}

// nextTLV reads one code/length/data record at *pos. A record without a
// length byte has empty data; a length past the end is clamped. Either
// leaves *pos at len(b).
func nextTLV(b []byte, pos *int) (code byte, data []byte, ok bool) {
	p := *pos
	if p >= len(b) {
		return 0, nil, false
	}
	code = b[p]
	if p+1 >= len(b) {
		*pos = len(b)
		return code, nil, true
	}
	start := p + 2
	end := min(start+int(b[p+1]), len(b))
	*pos = end
	return code, b[start:end:end], true
}

// RelayAgentSubOption is one sub-option of Relay Agent Information (82).
type RelayAgentSubOption struct {
	Code RelayAgentSubOptionCode
	Data []byte
}

// LinkSelection returns the RFC 3527 link selection address.
func (s RelayAgentSubOption) LinkSelection() (IPv4Address, bool) {
	if s.Code != RelayAgentLinkSelection || len(s.Data) != 4 {
		return IPv4Address{}, false
	}
	return IPv4Address(s.Data), true
}

// ServerIdentifierOverride returns the RFC 5107 override address.
func (s RelayAgentSubOption) ServerIdentifierOverride() (IPv4Address, bool) {
	if s.Code != RelayAgentServerIdentifierOverride || len(s.Data) != 4 {
		return IPv4Address{}, false
	}
	return IPv4Address(s.Data), true
}

// RADIUSAttributes returns an iterator over the RFC 4014 attributes. It is
// empty for any other sub-option code.
func (s RelayAgentSubOption) RADIUSAttributes() RADIUSAttributeIterator {
	if s.Code != RelayAgentRADIUSAttributes {
		return RADIUSAttributeIterator{}
	}
	return NewRADIUSAttributeIterator(s.Data)
}

// RelayAgentIterator walks the sub-options of a Relay Agent Information
// option.
type RelayAgentIterator struct {
	inner SubOptionIterator
}

// RelayAgentInformation returns an iterator over the sub-options of o. It
// is empty unless o is option 82.
func (o Option) RelayAgentInformation() RelayAgentIterator {
	if o.Tag != OptionRelayAgentInformation {
		return RelayAgentIterator{}
	}
	return RelayAgentIterator{inner: NewSubOptionIterator(o.Data)}
}

// Next advances to the next sub-option and reports whether there is one.
func (it *RelayAgentIterator) Next() bool { return it.inner.Next() }

// SubOption returns the sub-option at the current position.
func (it *RelayAgentIterator) SubOption() RelayAgentSubOption {
	s := it.inner.SubOption()
	return RelayAgentSubOption{Code: RelayAgentSubOptionCode(s.Code), Data: s.Data}
}

// All returns the remaining sub-options as a sequence.
func (it RelayAgentIterator) All() iter.Seq[RelayAgentSubOption] {
	return func(yield func(RelayAgentSubOption) bool) {
		for it.Next() {
			if !yield(it.SubOption()) {
				return
			}
		}
	}
}
