package dhcpv4

import (
	"iter"

	"layeh.com/radius"
)

// RADIUSAttributeNone is the type reported for the raw remainder of a
// corrupt attribute list.
const RADIUSAttributeNone radius.Type = 0

// RADIUSAttribute is one attribute carried in relay agent sub-option 7
// (RFC 4014). Unlike DHCP options, the stored length counts the two header
// bytes.
type RADIUSAttribute struct {
	Type radius.Type
	Data []byte
}

// RADIUSAttributeIterator walks a RADIUS attribute list. An attribute with a
// truncated header, a stored length below 2, or a payload that overruns the
// list is reported once as RADIUSAttributeNone carrying every byte from its
// start to the end, and iteration stops.
type RADIUSAttributeIterator struct {
	data []byte
	pos  int
	cur  RADIUSAttribute
}

// NewRADIUSAttributeIterator returns an iterator over data.
func NewRADIUSAttributeIterator(data []byte) RADIUSAttributeIterator {
	return RADIUSAttributeIterator{data: data}
}

// Next advances to the next attribute and reports whether there is one.
func (it *RADIUSAttributeIterator) Next() bool {
	p := it.pos
	if p >= len(it.data) {
		it.cur = RADIUSAttribute{}
		return false
	}
	if p+1 < len(it.data) {
		stored := int(it.data[p+1])
		if stored >= 2 && p+stored <= len(it.data) {
			end := p + stored
			it.cur = RADIUSAttribute{Type: radius.Type(it.data[p]), Data: it.data[p+2 : end : end]}
			it.pos = end
			return true
		}
	}
	it.cur = RADIUSAttribute{Type: RADIUSAttributeNone, Data: it.data[p:len(it.data):len(it.data)]}
	it.pos = len(it.data)
	return true
}

// Attribute returns the attribute at the current position.
func (it *RADIUSAttributeIterator) Attribute() RADIUSAttribute { return it.cur }

// All returns the remaining attributes as a sequence.
func (it RADIUSAttributeIterator) All() iter.Seq[RADIUSAttribute] {
	return func(yield func(RADIUSAttribute) bool) {
		for it.Next() {
			if !yield(it.Attribute()) {
				return
			}
		}
	}
}

// Attributes collects the remaining well-formed attributes into a
// radius.Attributes so the layeh.com/radius dictionaries can read them. A
// corrupt tail is dropped. The values alias the message buffer.
func (it RADIUSAttributeIterator) Attributes() radius.Attributes {
	var attrs radius.Attributes
	for it.Next() {
		a := it.Attribute()
		if a.Type == RADIUSAttributeNone {
			continue
		}
		attrs.Add(a.Type, radius.Attribute(a.Data))
	}
	return attrs
}

// AppendRADIUSAttribute appends one attribute in RADIUS wire form to dst.
// Values longer than 253 bytes are truncated.
func AppendRADIUSAttribute(dst []byte, typ radius.Type, value radius.Attribute) []byte {
	if len(value) > 253 {
		value = value[:253]
	}
	dst = append(dst, byte(typ), byte(len(value)+2))
	return append(dst, value...)
}
