package dhcpv4

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// IPv4Address is a fixed-size, comparable IPv4 address.
type IPv4Address [4]byte

// IPv4AddressFromUint32 returns the address whose big-endian value is v.
func IPv4AddressFromUint32(v uint32) IPv4Address {
	var a IPv4Address
	binary.BigEndian.PutUint32(a[:], v)
	return a
}

// IPv4AddressFromIP converts a net.IP. Non-IPv4 addresses map to the zero value.
func IPv4AddressFromIP(ip net.IP) IPv4Address {
	ip4 := ip.To4()
	if ip4 == nil {
		return IPv4Address{}
	}
	return IPv4Address(ip4)
}

// ParseIPv4Address parses a dotted-decimal address.
func ParseIPv4Address(s string) (IPv4Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPv4Address{}, err
	}
	if !addr.Is4() {
		return IPv4Address{}, fmt.Errorf("%q is not an IPv4 address", s)
	}
	return addr.As4(), nil
}

// Uint32 returns the big-endian value of a.
func (a IPv4Address) Uint32() uint32 { return binary.BigEndian.Uint32(a[:]) }

// IsZero reports whether a is 0.0.0.0.
func (a IPv4Address) IsZero() bool { return a == IPv4Address{} }

// IP returns a as a freshly allocated net.IP.
func (a IPv4Address) IP() net.IP { return net.IPv4(a[0], a[1], a[2], a[3]) }

// Addr returns a as a netip.Addr.
func (a IPv4Address) Addr() netip.Addr { return netip.AddrFrom4(a) }

// AppendText appends the dotted-decimal form of a to dst.
func (a IPv4Address) AppendText(dst []byte) []byte {
	for i, b := range a {
		if i > 0 {
			dst = append(dst, '.')
		}
		dst = AppendBase10(dst, uint32(b))
	}
	return dst
}

func (a IPv4Address) String() string {
	var buf [15]byte
	return string(a.AppendText(buf[:0]))
}

// MACAddress is a fixed-size, comparable 48-bit hardware address.
type MACAddress [6]byte

// ParseMACAddress parses a 48-bit address in any form net.ParseMAC accepts.
func ParseMACAddress(s string) (MACAddress, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MACAddress{}, err
	}
	if len(hw) != 6 {
		return MACAddress{}, fmt.Errorf("%q is not a 48-bit hardware address", s)
	}
	return MACAddress(hw), nil
}

// HardwareAddr returns m as a freshly allocated net.HardwareAddr.
func (m MACAddress) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, len(m))
	copy(hw, m[:])
	return hw
}

// AppendText appends m as colon-separated lower-case hex to dst.
func (m MACAddress) AppendText(dst []byte) []byte {
	return AppendHexBytes(dst, m[:], ':')
}

func (m MACAddress) String() string {
	var buf [17]byte
	return string(m.AppendText(buf[:0]))
}

// IPv4Endpoint is an IPv4 address and UDP port.
type IPv4Endpoint struct {
	Address IPv4Address
	Port    uint16
}

// IPv4EndpointFromAddr converts a *net.UDPAddr. ok is false for any other
// address type or a non-IPv4 address.
func IPv4EndpointFromAddr(addr net.Addr) (ep IPv4Endpoint, ok bool) {
	ua, isUDP := addr.(*net.UDPAddr)
	if !isUDP || ua.IP.To4() == nil {
		return IPv4Endpoint{}, false
	}
	return IPv4Endpoint{Address: IPv4AddressFromIP(ua.IP), Port: uint16(ua.Port)}, true
}

// ParseIPv4Endpoint parses "a.b.c.d:port".
func ParseIPv4Endpoint(s string) (IPv4Endpoint, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return IPv4Endpoint{}, err
	}
	addr, err := ParseIPv4Address(host)
	if err != nil {
		return IPv4Endpoint{}, err
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return IPv4Endpoint{}, fmt.Errorf("invalid port %q: %w", port, err)
	}
	return IPv4Endpoint{Address: addr, Port: uint16(p)}, nil
}

// UDPAddr returns e as a freshly allocated *net.UDPAddr.
func (e IPv4Endpoint) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: e.Address.IP(), Port: int(e.Port)}
}

// AddrPort returns e as a netip.AddrPort.
func (e IPv4Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Address.Addr(), e.Port)
}

// AppendText appends "a.b.c.d:port" to dst.
func (e IPv4Endpoint) AppendText(dst []byte) []byte {
	dst = e.Address.AppendText(dst)
	dst = append(dst, ':')
	return AppendBase10(dst, uint32(e.Port))
}

func (e IPv4Endpoint) String() string {
	var buf [21]byte
	return string(e.AppendText(buf[:0]))
}
