package dhcpv4

import (
	"errors"
	"fmt"
	"iter"

	"golang.org/x/text/encoding"
)

// ErrBufferTooSmall is returned when a buffer cannot hold the fixed header.
var ErrBufferTooSmall = errors.New("dhcpv4: buffer shorter than header")

// MessageBuffer overlays a DHCP message on a caller-owned byte slice.
//
// The exported fields mirror the fixed header. Load decodes them from the
// buffer and Save encodes them back. Options are read in place through
// Options and written in place through the Write methods, which share a
// single cursor into the options area.
//
// A MessageBuffer is not safe for concurrent use. Slices it returns alias
// the buffer and are invalidated by the next Load or write.
//
// Writes follow a fixed order: any number of containers (each
// WriteContainerOptionHeader, at least one sub-option, EndContainerOption),
// then plain options and padding, then WriteEndOption and Save. Ending a
// container with no sub-options or writing past the end of the buffer is a
// programming error and may panic.
type MessageBuffer struct {
	Opcode                OpCode
	HardwareAddressType   HardwareType
	HardwareAddressLength byte
	Hops                  byte
	TransactionID         uint32
	Seconds               uint16
	Flags                 Flags
	ClientIPAddress       IPv4Address
	YourIPAddress         IPv4Address
	ServerIPAddress       IPv4Address
	GatewayIPAddress      IPv4Address
	MagicCookie           MagicCookie

	buf       RawBuffer
	length    int
	opts      OptionsBuffer
	next      int
	container int
}

// NewMessageBuffer returns a message over buf, ready for writing with the
// DHCP magic cookie set.
func NewMessageBuffer(buf []byte) (*MessageBuffer, error) {
	if len(buf) < HeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooSmall, len(buf))
	}
	m := &MessageBuffer{buf: buf}
	m.Reset()
	return m, nil
}

// Reset clears the header fields and the write cursor and rebinds the
// options area to the whole buffer.
func (m *MessageBuffer) Reset() {
	m.resetHeader()
	m.MagicCookie = MagicCookieDHCP
	m.bind(len(m.buf))
}

// Load decodes the first length bytes of the buffer. It reports false when
// length is shorter than the header or longer than the buffer, leaving
// every header field zeroed and no options visible; call Reset before
// writing again. Options are not validated here.
func (m *MessageBuffer) Load(length int) bool {
	m.resetHeader()
	if length < HeaderLength || length > len(m.buf) {
		m.length = 0
		m.opts = OptionsBuffer{}
		return false
	}
	m.bind(length)

	b := m.buf
	m.Opcode = OpCode(b.Uint8(offsetOpcode))
	m.HardwareAddressType = HardwareType(b.Uint8(offsetHardwareType))
	m.HardwareAddressLength = b.Uint8(offsetHardwareLen)
	m.Hops = b.Uint8(offsetHops)
	m.TransactionID = b.Uint32(offsetTransactionID)
	m.Seconds = b.Uint16(offsetSeconds)
	m.Flags = Flags(b.Uint16(offsetFlags))
	m.ClientIPAddress = b.IPv4(offsetClientIP)
	m.YourIPAddress = b.IPv4(offsetYourIP)
	m.ServerIPAddress = b.IPv4(offsetServerIP)
	m.GatewayIPAddress = b.IPv4(offsetGatewayIP)
	m.MagicCookie = MagicCookie(b.Uint32(offsetMagicCookie))
	return true
}

// Save encodes the header fields, resets the write cursor and returns the
// length of the message: the header plus every option byte written.
func (m *MessageBuffer) Save() int {
	b := m.buf
	b.SetUint8(offsetOpcode, byte(m.Opcode))
	b.SetUint8(offsetHardwareType, byte(m.HardwareAddressType))
	b.SetUint8(offsetHardwareLen, m.HardwareAddressLength)
	b.SetUint8(offsetHops, m.Hops)
	b.SetUint32(offsetTransactionID, m.TransactionID)
	b.SetUint16(offsetSeconds, m.Seconds)
	b.SetUint16(offsetFlags, uint16(m.Flags))
	b.SetIPv4(offsetClientIP, m.ClientIPAddress)
	b.SetIPv4(offsetYourIP, m.YourIPAddress)
	b.SetIPv4(offsetServerIP, m.ServerIPAddress)
	b.SetIPv4(offsetGatewayIP, m.GatewayIPAddress)
	b.SetUint32(offsetMagicCookie, uint32(m.MagicCookie))

	n := HeaderLength + m.next
	m.next = 0
	return n
}

func (m *MessageBuffer) resetHeader() {
	m.Opcode = OpCodeNone
	m.HardwareAddressType = HardwareTypeNone
	m.HardwareAddressLength = 0
	m.Hops = 0
	m.TransactionID = 0
	m.Seconds = 0
	m.Flags = 0
	m.ClientIPAddress = IPv4Address{}
	m.YourIPAddress = IPv4Address{}
	m.ServerIPAddress = IPv4Address{}
	m.GatewayIPAddress = IPv4Address{}
	m.MagicCookie = 0
	m.next = 0
	m.container = 0
}

func (m *MessageBuffer) bind(length int) {
	m.length = length
	m.opts = NewOptionsBuffer(
		m.buf[HeaderLength:length],
		m.buf[offsetBootFile:offsetBootFile+lengthBootFile],
		m.buf[offsetServerName:offsetServerName+lengthServerName],
	)
}

// Bytes returns the whole underlying buffer.
func (m *MessageBuffer) Bytes() []byte { return m.buf }

// Len returns the length passed to the last successful Load, zero after a
// failed one, or the buffer length after Reset.
func (m *MessageBuffer) Len() int { return m.length }

// ClientHardwareAddress returns chaddr clamped to the hardware address
// length (at most 16 bytes).
func (m *MessageBuffer) ClientHardwareAddress() []byte {
	n := min(int(m.HardwareAddressLength), lengthClientHWAddr)
	return m.buf[offsetClientHWAddr : offsetClientHWAddr+n]
}

// ClientMACAddress returns chaddr as a MAC address when the hardware type
// is Ethernet with a 6-byte address.
func (m *MessageBuffer) ClientMACAddress() (MACAddress, bool) {
	if m.HardwareAddressType != HardwareTypeEthernet || m.HardwareAddressLength != 6 {
		return MACAddress{}, false
	}
	return MACAddress(m.buf[offsetClientHWAddr : offsetClientHWAddr+6]), true
}

// SetClientMACAddress stores mac in chaddr and sets the Ethernet hardware
// type and length.
func (m *MessageBuffer) SetClientMACAddress(mac MACAddress) {
	m.HardwareAddressType = HardwareTypeEthernet
	m.HardwareAddressLength = 6
	chaddr := m.buf[offsetClientHWAddr : offsetClientHWAddr+lengthClientHWAddr]
	clear(chaddr)
	copy(chaddr, mac[:])
}

// ServerHostName returns the 64-byte sname field.
func (m *MessageBuffer) ServerHostName() []byte {
	return m.buf[offsetServerName : offsetServerName+lengthServerName]
}

// BootFileName returns the 128-byte file field.
func (m *MessageBuffer) BootFileName() []byte {
	return m.buf[offsetBootFile : offsetBootFile+lengthBootFile]
}

// SetServerHostName zero-fills sname and copies as much of s as fits,
// leaving room for a terminating NUL.
func (m *MessageBuffer) SetServerHostName(s string) {
	setCString(m.ServerHostName(), s)
}

// SetBootFileName zero-fills file and copies as much of s as fits, leaving
// room for a terminating NUL.
func (m *MessageBuffer) SetBootFileName(s string) {
	setCString(m.BootFileName(), s)
}

func setCString(dst []byte, s string) {
	clear(dst)
	copy(dst[:len(dst)-1], s)
}

// OptionsBuffer returns the options view bound by the last Load or Reset.
func (m *MessageBuffer) OptionsBuffer() OptionsBuffer { return m.opts }

// Options returns a fresh iterator over the options.
func (m *MessageBuffer) Options() OptionIterator { return m.opts.Options() }

// AllOptions returns the options as a sequence.
func (m *MessageBuffer) AllOptions() iter.Seq[Option] { return m.opts.All() }

// WrittenOptions returns the number of option bytes written since the last
// Save.
func (m *MessageBuffer) WrittenOptions() int { return m.next }

// WriteOptionHeader writes a tag and length and returns the data bytes for
// the caller to fill.
func (m *MessageBuffer) WriteOptionHeader(tag OptionTag, length int) []byte {
	data := m.opts.Slice(m.next, tag, length)
	m.next += 2 + length
	return data
}

// WriteOption writes a complete option.
func (m *MessageBuffer) WriteOption(tag OptionTag, data []byte) {
	copy(m.WriteOptionHeader(tag, len(data)), data)
}

// WriteStringOption writes text as an option, encoded with enc when it is
// not nil. Nothing is written on error.
func (m *MessageBuffer) WriteStringOption(tag OptionTag, text string, enc encoding.Encoding) error {
	data, err := m.opts.Write(m.next, tag, text, enc)
	if err != nil {
		return err
	}
	m.next += 2 + len(data)
	return nil
}

// WriteTextOption writes text as an option, encoded through te when it is
// not nil. It does not allocate. Nothing is written on error.
func (m *MessageBuffer) WriteTextOption(tag OptionTag, text string, te *TextEncoder) error {
	data, err := m.opts.WriteText(m.next, tag, text, te)
	if err != nil {
		return err
	}
	m.next += 2 + len(data)
	return nil
}

// WritePadding writes length Pad bytes.
func (m *MessageBuffer) WritePadding(length int) {
	m.opts.Pad(m.next, length)
	m.next += length
}

// WriteEndOption writes the End tag.
func (m *MessageBuffer) WriteEndOption() {
	m.opts.End(m.next)
	m.next++
}

// WriteContainerOptionHeader starts a container option whose length is
// filled in by EndContainerOption.
func (m *MessageBuffer) WriteContainerOptionHeader(tag OptionTag) {
	m.container = m.opts.BeginContainer(m.next, tag)
	m.next += 2
}

// WriteSubOptionHeader writes a sub-option code and length inside the open
// container and returns the data bytes for the caller to fill.
func (m *MessageBuffer) WriteSubOptionHeader(code byte, length int) []byte {
	data := m.opts.SubOptionHeader(m.next, code, length)
	m.next += 2 + length
	return data
}

// WriteSubOption writes a complete sub-option inside the open container.
func (m *MessageBuffer) WriteSubOption(code byte, data []byte) {
	copy(m.WriteSubOptionHeader(code, len(data)), data)
}

// EndContainerOption closes the open container.
func (m *MessageBuffer) EndContainerOption() {
	m.opts.EndContainer(m.container, m.next)
}
