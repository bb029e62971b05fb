package dhcpv4

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/text/encoding/charmap"
)

var ignoreBuffer = cmpopts.IgnoreUnexported(MessageBuffer{})

// request1 is a BOOTREQUEST carrying a DHCPDISCOVER from a Windows client.
func request1() []byte {
	pkt := make([]byte, 272)
	pkt[0] = byte(OpCodeBootRequest)
	pkt[1] = byte(HardwareTypeEthernet)
	pkt[2] = 6
	pkt[6] = 0x3D
	pkt[7] = 0x1D
	copy(pkt[28:], []byte{0x00, 0x0B, 0x82, 0x01, 0xFC, 0x42})
	copy(pkt[236:], []byte{0x63, 0x82, 0x53, 0x63})
	copy(pkt[240:], []byte{
		53, 1, 1,
		61, 7, 0x01, 0x00, 0x0B, 0x82, 0x01, 0xFC, 0x42,
		50, 4, 0, 0, 0, 0,
		55, 4, 1, 3, 6, 42,
		255,
	})
	return pkt
}

func TestNewMessageBufferTooSmall(t *testing.T) {
	_, err := NewMessageBuffer(make([]byte, HeaderLength-1))
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("error = %v, want ErrBufferTooSmall", err)
	}
	if _, err := NewMessageBuffer(make([]byte, HeaderLength)); err != nil {
		t.Errorf("NewMessageBuffer(240) error: %v", err)
	}
}

func TestLoadRequest1(t *testing.T) {
	pkt := request1()
	m, err := NewMessageBuffer(pkt)
	if err != nil {
		t.Fatalf("NewMessageBuffer error: %v", err)
	}
	if !m.Load(len(pkt)) {
		t.Fatal("Load = false, want true")
	}

	if m.Opcode != OpCodeBootRequest {
		t.Errorf("Opcode = %v, want BOOTREQUEST", m.Opcode)
	}
	if m.TransactionID != 0x00003D1D {
		t.Errorf("TransactionID = 0x%08X, want 0x00003D1D", m.TransactionID)
	}
	if m.HardwareAddressLength != 6 {
		t.Errorf("HardwareAddressLength = %d, want 6", m.HardwareAddressLength)
	}
	if m.MagicCookie != MagicCookieDHCP {
		t.Errorf("MagicCookie = 0x%08X, want 0x%08X", m.MagicCookie, MagicCookieDHCP)
	}
	if mac, ok := m.ClientMACAddress(); !ok || mac.String() != "00:0b:82:01:fc:42" {
		t.Errorf("ClientMACAddress = %v, %v, want 00:0b:82:01:fc:42, true", mac, ok)
	}
	if m.MessageType() != MessageTypeDiscover {
		t.Errorf("MessageType = %v, want DHCPDISCOVER", m.MessageType())
	}

	var got []Option
	for o := range m.AllOptions() {
		got = append(got, o)
	}
	want := []Option{
		{Tag: OptionDHCPMessageType, Data: []byte{0x01}},
		{Tag: OptionClientIdentifier, Data: []byte{0x01, 0x00, 0x0B, 0x82, 0x01, 0xFC, 0x42}},
		{Tag: OptionRequestedIPAddress, Data: []byte{0x00, 0x00, 0x00, 0x00}},
		{Tag: OptionParameterRequestList, Data: []byte{0x01, 0x03, 0x06, 0x2A}},
		{Tag: OptionEnd},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadLength(t *testing.T) {
	pkt := request1()
	m, _ := NewMessageBuffer(pkt)
	for _, n := range []int{0, HeaderLength - 1, len(pkt) + 1} {
		if !m.Load(len(pkt)) {
			t.Fatal("Load(full) = false, want true")
		}
		if m.Load(n) {
			t.Errorf("Load(%d) = true, want false", n)
		}
		if diff := cmp.Diff(MessageBuffer{}, *m, ignoreBuffer); diff != "" {
			t.Errorf("Load(%d) left header fields set (-want +got):\n%s", n, diff)
		}
		if _, ok := m.FindOption(OptionDHCPMessageType); ok {
			t.Errorf("Load(%d) left the previous options visible", n)
		}
		if it := m.Options(); it.Next() {
			t.Errorf("Load(%d): Options yielded %v, want none", n, it.Option())
		}
		if m.Len() != 0 {
			t.Errorf("Load(%d): Len = %d, want 0", n, m.Len())
		}
	}
}

func TestLoadShrinksOptionsRegion(t *testing.T) {
	pkt := request1()
	m, _ := NewMessageBuffer(pkt)
	// Cut the message inside the client identifier option.
	if !m.Load(HeaderLength + 6) {
		t.Fatal("Load = false, want true")
	}
	var got []Option
	for o := range m.AllOptions() {
		got = append(got, o)
	}
	want := []Option{
		{Tag: OptionDHCPMessageType, Data: []byte{0x01}},
		{Tag: OptionClientIdentifier, Data: []byte{0x01}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSubnetMask(t *testing.T) {
	buf := make([]byte, DefaultPacketSize)
	m, _ := NewMessageBuffer(buf)
	m.WriteSubnetMaskOption(IPv4Address{1, 2, 3, 4})
	m.WriteEndOption()
	n := m.Save()

	if n != HeaderLength+7 {
		t.Errorf("Save = %d, want %d", n, HeaderLength+7)
	}
	if want := []byte{0x63, 0x82, 0x53, 0x63}; !bytes.Equal(buf[236:240], want) {
		t.Errorf("cookie = % x, want % x", buf[236:240], want)
	}
	if want := []byte{0x01, 0x04, 0x01, 0x02, 0x03, 0x04, 0xFF}; !bytes.Equal(buf[240:247], want) {
		t.Errorf("options = % x, want % x", buf[240:247], want)
	}
	if m.WrittenOptions() != 0 {
		t.Errorf("WrittenOptions after Save = %d, want 0", m.WrittenOptions())
	}
}

func TestMessageRoundTrip(t *testing.T) {
	buf := make([]byte, DefaultPacketSize)
	w, _ := NewMessageBuffer(buf)
	w.Opcode = OpCodeBootReply
	w.Hops = 2
	w.TransactionID = 0xDEADBEEF
	w.Seconds = 12
	w.Flags = FlagsBroadcast
	w.ClientIPAddress = IPv4Address{10, 0, 0, 9}
	w.YourIPAddress = IPv4Address{10, 0, 0, 10}
	w.ServerIPAddress = IPv4Address{10, 0, 0, 1}
	w.GatewayIPAddress = IPv4Address{10, 0, 0, 254}
	w.SetClientMACAddress(MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	w.SetServerHostName("srv")

	w.WriteContainerOptionHeader(OptionRelayAgentInformation)
	w.WriteSubOption(byte(RelayAgentCircuitID), []byte("eth0"))
	copy(w.WriteSubOptionHeader(byte(RelayAgentLinkSelection), 4), []byte{10, 0, 0, 0})
	w.EndContainerOption()
	w.WriteMessageTypeOption(MessageTypeAck)
	w.WriteServerIdentifierOption(IPv4Address{10, 0, 0, 1})
	w.WriteLeaseTimeOption(time.Hour)
	w.WriteRouterOption(IPv4Address{10, 0, 0, 254}, IPv4Address{10, 0, 0, 253})
	if err := w.WriteHostNameOption("client"); err != nil {
		t.Fatalf("WriteHostNameOption error: %v", err)
	}
	w.WritePadding(3)
	w.WriteInterfaceMTUOption(1500)
	w.WriteEndOption()
	n := w.Save()

	r, _ := NewMessageBuffer(buf)
	if !r.Load(n) {
		t.Fatal("Load = false, want true")
	}
	if diff := cmp.Diff(*w, *r, ignoreBuffer); diff != "" {
		t.Errorf("header mismatch (-write +read):\n%s", diff)
	}
	if got := string(bytes.TrimRight(r.ServerHostName(), "\x00")); got != "srv" {
		t.Errorf("ServerHostName = %q, want srv", got)
	}

	var got []Option
	for o := range r.AllOptions() {
		got = append(got, o)
	}
	want := []Option{
		{Tag: OptionRelayAgentInformation, Data: []byte{1, 4, 'e', 't', 'h', '0', 5, 4, 10, 0, 0, 0}},
		{Tag: OptionDHCPMessageType, Data: []byte{5}},
		{Tag: OptionServerIdentifier, Data: []byte{10, 0, 0, 1}},
		{Tag: OptionIPAddressLeaseTime, Data: []byte{0, 0, 0x0E, 0x10}},
		{Tag: OptionRouter, Data: []byte{10, 0, 0, 254, 10, 0, 0, 253}},
		{Tag: OptionHostName, Data: []byte("client")},
		{Tag: OptionInterfaceMTU, Data: []byte{0x05, 0xDC}},
		{Tag: OptionEnd},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	if id, ok := r.ServerIdentifier(); !ok || id != (IPv4Address{10, 0, 0, 1}) {
		t.Errorf("ServerIdentifier = %v, %v, want 10.0.0.1, true", id, ok)
	}
	relay, _ := r.FindOption(OptionRelayAgentInformation)
	it := relay.RelayAgentInformation()
	it.Next()
	it.Next()
	if link, ok := it.SubOption().LinkSelection(); !ok || link != (IPv4Address{10, 0, 0, 0}) {
		t.Errorf("LinkSelection = %v, %v, want 10.0.0.0, true", link, ok)
	}
}

func TestMessageOverloadFile(t *testing.T) {
	buf := make([]byte, 300)
	w, _ := NewMessageBuffer(buf)
	w.Opcode = OpCodeBootRequest
	w.WriteMessageTypeOption(MessageTypeRequest)
	w.WriteOverloadOption(OverloadFile)
	w.WriteEndOption()
	copy(w.BootFileName(), []byte{12, 2, 'h', 'i', 50, 4, 10, 0, 0, 7, 255})
	n := w.Save()

	r, _ := NewMessageBuffer(buf)
	if !r.Load(n) {
		t.Fatal("Load = false, want true")
	}
	if name, ok := r.HostName(); !ok || string(name) != "hi" {
		t.Errorf("HostName = %q, %v, want hi, true", name, ok)
	}
	if ip, ok := r.RequestedIPAddress(); !ok || ip != (IPv4Address{10, 0, 0, 7}) {
		t.Errorf("RequestedIPAddress = %v, %v, want 10.0.0.7, true", ip, ok)
	}
}

func TestClientHardwareAddressClamped(t *testing.T) {
	pkt := request1()
	pkt[2] = 20
	m, _ := NewMessageBuffer(pkt)
	m.Load(len(pkt))
	if got := len(m.ClientHardwareAddress()); got != 16 {
		t.Errorf("len(ClientHardwareAddress) = %d, want 16", got)
	}
	if _, ok := m.ClientMACAddress(); ok {
		t.Error("ClientMACAddress ok = true for 20-byte address, want false")
	}

	pkt[2] = 6
	m.Load(len(pkt))
	if got := m.ClientHardwareAddress(); !bytes.Equal(got, []byte{0x00, 0x0B, 0x82, 0x01, 0xFC, 0x42}) {
		t.Errorf("ClientHardwareAddress = % x", got)
	}
}

func TestSetBootFileNameTruncates(t *testing.T) {
	m, _ := NewMessageBuffer(make([]byte, 300))
	m.SetBootFileName(string(bytes.Repeat([]byte{'x'}, 200)))
	f := m.BootFileName()
	if f[lengthBootFile-2] != 'x' || f[lengthBootFile-1] != 0 {
		t.Errorf("file tail = % x, want 78 00", f[lengthBootFile-2:])
	}
}

func TestWriteHelpers(t *testing.T) {
	buf := make([]byte, DefaultPacketSize)
	m, _ := NewMessageBuffer(buf)
	m.WriteParameterRequestListOption(OptionSubnetMask, OptionRouter, OptionDomainNameServer)
	m.WriteClientIdentifierOption(HardwareTypeEthernet, []byte{0xAA, 0xBB})
	m.WriteMaxMessageSizeOption(1500)
	m.WriteRenewalTimeOption(30 * time.Minute)
	m.WriteRebindingTimeOption(-1)
	if err := m.WriteClientFQDNOption(FQDNFlagServerUpdate, "a.b"); err != nil {
		t.Fatalf("WriteClientFQDNOption error: %v", err)
	}
	if err := m.WriteClasslessStaticRouteOption(ClasslessRoute{PrefixLen: 0, Router: IPv4Address{10, 0, 0, 1}}); err != nil {
		t.Fatalf("WriteClasslessStaticRouteOption error: %v", err)
	}
	m.WriteEndOption()
	n := m.Save()

	want := []byte{
		55, 3, 1, 3, 6,
		61, 3, 1, 0xAA, 0xBB,
		57, 2, 0x05, 0xDC,
		58, 4, 0, 0, 0x07, 0x08,
		59, 4, 0xFF, 0xFF, 0xFF, 0xFF,
		81, 8, 0x05, 0, 0, 1, 'a', 1, 'b', 0,
		121, 5, 0, 10, 0, 0, 1,
		255,
	}
	if !bytes.Equal(buf[HeaderLength:n], want) {
		t.Errorf("options = % x, want % x", buf[HeaderLength:n], want)
	}

	r, _ := NewMessageBuffer(buf)
	r.Load(n)
	o, _ := r.FindOption(OptionClientFQDN)
	f, err := o.ClientFQDN()
	if err != nil || f.Name != "a.b." {
		t.Errorf("ClientFQDN = %+v, %v, want a.b.", f, err)
	}
	if prl, ok := r.ParameterRequestList(); !ok || !bytes.Equal(prl, []byte{1, 3, 6}) {
		t.Errorf("ParameterRequestList = %v, %v", prl, ok)
	}
}

func TestWriteStringOptionErrorLeavesCursor(t *testing.T) {
	m, _ := NewMessageBuffer(make([]byte, HeaderLength+8))
	if err := m.WriteHostNameOption("far-too-long-for-this"); !errors.Is(err, ErrOptionTooLong) {
		t.Errorf("error = %v, want ErrOptionTooLong", err)
	}
	if m.WrittenOptions() != 0 {
		t.Errorf("WrittenOptions = %d, want 0", m.WrittenOptions())
	}
}

func TestLoadAndIterateNoAlloc(t *testing.T) {
	pkt := request1()
	m, _ := NewMessageBuffer(pkt)
	allocs := testing.AllocsPerRun(100, func() {
		m.Load(len(pkt))
		it := m.Options()
		for it.Next() {
			_ = it.Option()
		}
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}

func TestWriteTextOptionNoAlloc(t *testing.T) {
	m, _ := NewMessageBuffer(make([]byte, MinPacketSize))
	te := NewTextEncoder(charmap.ISO8859_1)
	allocs := testing.AllocsPerRun(100, func() {
		m.Reset()
		if err := m.WriteTextOption(OptionHostName, "café", te); err != nil {
			t.Fatalf("WriteTextOption error: %v", err)
		}
		m.WriteEndOption()
		m.Save()
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
	if name, ok := m.HostName(); !ok || string(name) != "caf\xe9" {
		t.Errorf("HostName = %q, %v, want %q", name, ok, "caf\xe9")
	}
}
