package dhcpv4

import (
	"encoding/binary"
	"math"
	"time"
)

// FindOption returns the first option with the given tag.
func (m *MessageBuffer) FindOption(tag OptionTag) (Option, bool) {
	return m.opts.Find(tag)
}

// MessageType returns the value of option 53, or MessageTypeNone.
func (m *MessageBuffer) MessageType() MessageType {
	o, ok := m.FindOption(OptionDHCPMessageType)
	if !ok {
		return MessageTypeNone
	}
	t, _ := o.MessageType()
	return t
}

// RequestedIPAddress returns option 50.
func (m *MessageBuffer) RequestedIPAddress() (IPv4Address, bool) {
	return m.findIPv4(OptionRequestedIPAddress)
}

// ServerIdentifier returns option 54.
func (m *MessageBuffer) ServerIdentifier() (IPv4Address, bool) {
	return m.findIPv4(OptionServerIdentifier)
}

// HostName returns the raw bytes of option 12.
func (m *MessageBuffer) HostName() ([]byte, bool) {
	o, ok := m.FindOption(OptionHostName)
	return o.Data, ok
}

// ParameterRequestList returns the requested tags of option 55.
func (m *MessageBuffer) ParameterRequestList() ([]byte, bool) {
	o, ok := m.FindOption(OptionParameterRequestList)
	return o.Data, ok
}

func (m *MessageBuffer) findIPv4(tag OptionTag) (IPv4Address, bool) {
	o, ok := m.FindOption(tag)
	if !ok {
		return IPv4Address{}, false
	}
	return o.IPv4()
}

func (m *MessageBuffer) writeUint8(tag OptionTag, v byte) {
	m.WriteOptionHeader(tag, 1)[0] = v
}

func (m *MessageBuffer) writeUint16(tag OptionTag, v uint16) {
	binary.BigEndian.PutUint16(m.WriteOptionHeader(tag, 2), v)
}

func (m *MessageBuffer) writeUint32(tag OptionTag, v uint32) {
	binary.BigEndian.PutUint32(m.WriteOptionHeader(tag, 4), v)
}

func (m *MessageBuffer) writeIPv4(tag OptionTag, a IPv4Address) {
	copy(m.WriteOptionHeader(tag, 4), a[:])
}

func (m *MessageBuffer) writeIPv4List(tag OptionTag, addrs []IPv4Address) {
	data := m.WriteOptionHeader(tag, 4*len(addrs))
	for i, a := range addrs {
		copy(data[i*4:], a[:])
	}
}

func (m *MessageBuffer) writeSeconds(tag OptionTag, d time.Duration) {
	s := d / time.Second
	if d < 0 || s > math.MaxUint32 {
		m.writeUint32(tag, math.MaxUint32)
		return
	}
	m.writeUint32(tag, uint32(s))
}

// WriteMessageTypeOption writes option 53.
func (m *MessageBuffer) WriteMessageTypeOption(t MessageType) {
	m.writeUint8(OptionDHCPMessageType, byte(t))
}

// WriteSubnetMaskOption writes option 1.
func (m *MessageBuffer) WriteSubnetMaskOption(mask IPv4Address) {
	m.writeIPv4(OptionSubnetMask, mask)
}

// WriteRouterOption writes option 3.
func (m *MessageBuffer) WriteRouterOption(routers ...IPv4Address) {
	m.writeIPv4List(OptionRouter, routers)
}

// WriteDomainNameServerOption writes option 6.
func (m *MessageBuffer) WriteDomainNameServerOption(servers ...IPv4Address) {
	m.writeIPv4List(OptionDomainNameServer, servers)
}

// WriteNTPServerOption writes option 42.
func (m *MessageBuffer) WriteNTPServerOption(servers ...IPv4Address) {
	m.writeIPv4List(OptionNTPServers, servers)
}

// WriteHostNameOption writes option 12.
func (m *MessageBuffer) WriteHostNameOption(name string) error {
	return m.WriteStringOption(OptionHostName, name, nil)
}

// WriteDomainNameOption writes option 15.
func (m *MessageBuffer) WriteDomainNameOption(name string) error {
	return m.WriteStringOption(OptionDomainName, name, nil)
}

// WriteInterfaceMTUOption writes option 26.
func (m *MessageBuffer) WriteInterfaceMTUOption(mtu uint16) {
	m.writeUint16(OptionInterfaceMTU, mtu)
}

// WriteBroadcastAddressOption writes option 28.
func (m *MessageBuffer) WriteBroadcastAddressOption(a IPv4Address) {
	m.writeIPv4(OptionBroadcastAddress, a)
}

// WriteRequestedIPAddressOption writes option 50.
func (m *MessageBuffer) WriteRequestedIPAddressOption(a IPv4Address) {
	m.writeIPv4(OptionRequestedIPAddress, a)
}

// WriteLeaseTimeOption writes option 51. Negative or oversized durations
// are written as infinite.
func (m *MessageBuffer) WriteLeaseTimeOption(d time.Duration) {
	m.writeSeconds(OptionIPAddressLeaseTime, d)
}

// WriteOverloadOption writes option 52.
func (m *MessageBuffer) WriteOverloadOption(o Overload) {
	m.writeUint8(OptionOverload, byte(o))
}

// WriteServerIdentifierOption writes option 54.
func (m *MessageBuffer) WriteServerIdentifierOption(a IPv4Address) {
	m.writeIPv4(OptionServerIdentifier, a)
}

// WriteParameterRequestListOption writes option 55.
func (m *MessageBuffer) WriteParameterRequestListOption(tags ...OptionTag) {
	data := m.WriteOptionHeader(OptionParameterRequestList, len(tags))
	for i, t := range tags {
		data[i] = byte(t)
	}
}

// WriteMessageOption writes option 56.
func (m *MessageBuffer) WriteMessageOption(text string) error {
	return m.WriteStringOption(OptionMessage, text, nil)
}

// WriteMaxMessageSizeOption writes option 57.
func (m *MessageBuffer) WriteMaxMessageSizeOption(size uint16) {
	m.writeUint16(OptionMaxDHCPMessageSize, size)
}

// WriteRenewalTimeOption writes option 58.
func (m *MessageBuffer) WriteRenewalTimeOption(d time.Duration) {
	m.writeSeconds(OptionRenewalTime, d)
}

// WriteRebindingTimeOption writes option 59.
func (m *MessageBuffer) WriteRebindingTimeOption(d time.Duration) {
	m.writeSeconds(OptionRebindingTime, d)
}

// WriteVendorClassIdentifierOption writes option 60.
func (m *MessageBuffer) WriteVendorClassIdentifierOption(id string) error {
	return m.WriteStringOption(OptionVendorClassIdentifier, id, nil)
}

// WriteClientIdentifierOption writes option 61 as a type byte followed by id.
func (m *MessageBuffer) WriteClientIdentifierOption(typ HardwareType, id []byte) {
	data := m.WriteOptionHeader(OptionClientIdentifier, 1+len(id))
	data[0] = byte(typ)
	copy(data[1:], id)
}

// WriteClientFQDNOption writes option 81 with name in DNS wire format. The
// E flag is always set.
func (m *MessageBuffer) WriteClientFQDNOption(flags byte, name string) error {
	var scratch [MaxOptionLength]byte
	data := append(scratch[:0], flags|FQDNFlagCanonical, 0, 0)
	data, err := AppendDomainName(data, name)
	if err != nil {
		return err
	}
	if len(data) > MaxOptionLength {
		return ErrOptionTooLong
	}
	m.WriteOption(OptionClientFQDN, data)
	return nil
}

// WriteClasslessStaticRouteOption writes option 121.
func (m *MessageBuffer) WriteClasslessStaticRouteOption(routes ...ClasslessRoute) error {
	var scratch [MaxOptionLength]byte
	data := scratch[:0]
	for _, r := range routes {
		data = AppendClasslessRoute(data, r)
	}
	if len(data) > MaxOptionLength {
		return ErrOptionTooLong
	}
	m.WriteOption(OptionClasslessStaticRoute, data)
	return nil
}
