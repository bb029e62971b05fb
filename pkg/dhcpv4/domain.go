package dhcpv4

import (
	"fmt"

	"github.com/miekg/dns"
)

// Client FQDN flag bits (RFC 4702 §2.1).
const (
	FQDNFlagServerUpdate   byte = 0x01 // S
	FQDNFlagOverride       byte = 0x02 // O
	FQDNFlagCanonical      byte = 0x04 // E: name is in DNS wire format
	FQDNFlagNoServerUpdate byte = 0x08 // N
)

// ClientFQDN is the decoded value of option 81.
type ClientFQDN struct {
	Flags  byte
	RCode1 byte
	RCode2 byte
	Name   string
}

// ClientFQDN decodes option 81. With the E flag set the name is read as DNS
// wire format, otherwise as deprecated ASCII.
func (o Option) ClientFQDN() (ClientFQDN, error) {
	if o.Tag != OptionClientFQDN {
		return ClientFQDN{}, fmt.Errorf("option %d is not client FQDN", o.Tag)
	}
	if len(o.Data) < 3 {
		return ClientFQDN{}, fmt.Errorf("client FQDN too short: %d bytes", len(o.Data))
	}
	f := ClientFQDN{Flags: o.Data[0], RCode1: o.Data[1], RCode2: o.Data[2]}
	name := o.Data[3:]
	if len(name) == 0 {
		return f, nil
	}
	if f.Flags&FQDNFlagCanonical == 0 {
		f.Name = string(name)
		return f, nil
	}
	s, _, err := dns.UnpackDomainName(name, 0)
	if err != nil {
		return ClientFQDN{}, fmt.Errorf("decoding client FQDN: %w", err)
	}
	f.Name = s
	return f, nil
}

// DomainSearch decodes the RFC 3397 domain search list of option 119.
// Compression pointers are relative to the start of the option data.
func (o Option) DomainSearch() ([]string, error) {
	if o.Tag != OptionDomainSearch {
		return nil, fmt.Errorf("option %d is not domain search", o.Tag)
	}
	var names []string
	for off := 0; off < len(o.Data); {
		name, next, err := dns.UnpackDomainName(o.Data, off)
		if err != nil {
			return names, fmt.Errorf("decoding domain search at offset %d: %w", off, err)
		}
		names = append(names, name)
		off = next
	}
	return names, nil
}

// AppendDomainName appends name in uncompressed DNS wire format to dst.
func AppendDomainName(dst []byte, name string) ([]byte, error) {
	start := len(dst)
	buf := append(dst, make([]byte, len(name)+2)...)
	off, err := dns.PackDomainName(dns.Fqdn(name), buf, start, nil, false)
	if err != nil {
		return dst, fmt.Errorf("encoding domain name %q: %w", name, err)
	}
	return buf[:off], nil
}
