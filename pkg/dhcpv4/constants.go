// Package dhcpv4 provides an allocation-free codec for DHCPv4 messages.
//
// A MessageBuffer overlays a caller-owned byte slice: the fixed 240-byte
// header is decoded into typed fields and the options area is read lazily
// through value-typed iterators that borrow the same bytes. Nothing retains
// the buffer beyond the Load/Save cycle that produced a view.
package dhcpv4

// OpCode is the BOOTP message op code (RFC 2131 §2).
type OpCode byte

const (
	OpCodeNone        OpCode = 0
	OpCodeBootRequest OpCode = 1 // BOOTREQUEST
	OpCodeBootReply   OpCode = 2 // BOOTREPLY
)

func (o OpCode) String() string {
	switch o {
	case OpCodeBootRequest:
		return "BOOTREQUEST"
	case OpCodeBootReply:
		return "BOOTREPLY"
	default:
		return "UNKNOWN"
	}
}

// HardwareType is the htype header field (RFC 1700 ARP hardware types).
type HardwareType byte

const (
	HardwareTypeNone     HardwareType = 0
	HardwareTypeEthernet HardwareType = 1
	HardwareTypeIEEE802  HardwareType = 6
)

// Flags is the BOOTP flags header field.
type Flags uint16

// FlagsBroadcast asks servers and relays to broadcast replies (RFC 2131 §2).
const FlagsBroadcast Flags = 0x8000

// Broadcast reports whether the broadcast bit is set.
func (f Flags) Broadcast() bool { return f&FlagsBroadcast != 0 }

// MagicCookie is the 4-byte value that precedes the options area.
type MagicCookie uint32

// MagicCookieDHCP marks a DHCP (as opposed to plain BOOTP) options area.
const MagicCookieDHCP MagicCookie = 0x63825363

// MessageType is the value of option 53 (RFC 2132 §9.6).
type MessageType byte

const (
	MessageTypeNone     MessageType = 0
	MessageTypeDiscover MessageType = 1 // DHCPDISCOVER
	MessageTypeOffer    MessageType = 2 // DHCPOFFER
	MessageTypeRequest  MessageType = 3 // DHCPREQUEST
	MessageTypeDecline  MessageType = 4 // DHCPDECLINE
	MessageTypeAck      MessageType = 5 // DHCPACK
	MessageTypeNak      MessageType = 6 // DHCPNAK
	MessageTypeRelease  MessageType = 7 // DHCPRELEASE
	MessageTypeInform   MessageType = 8 // DHCPINFORM
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeDiscover:
		return "DHCPDISCOVER"
	case MessageTypeOffer:
		return "DHCPOFFER"
	case MessageTypeRequest:
		return "DHCPREQUEST"
	case MessageTypeDecline:
		return "DHCPDECLINE"
	case MessageTypeAck:
		return "DHCPACK"
	case MessageTypeNak:
		return "DHCPNAK"
	case MessageTypeRelease:
		return "DHCPRELEASE"
	case MessageTypeInform:
		return "DHCPINFORM"
	default:
		return "UNKNOWN"
	}
}

// OptionTag identifies a top-level option (RFC 2132 and extensions).
type OptionTag byte

const (
	OptionPad                    OptionTag = 0
	OptionSubnetMask             OptionTag = 1
	OptionTimeOffset             OptionTag = 2
	OptionRouter                 OptionTag = 3
	OptionTimeServer             OptionTag = 4
	OptionNameServer             OptionTag = 5
	OptionDomainNameServer       OptionTag = 6
	OptionLogServer              OptionTag = 7
	OptionCookieServer           OptionTag = 8
	OptionLPRServer              OptionTag = 9
	OptionImpressServer          OptionTag = 10
	OptionResourceLocationServer OptionTag = 11
	OptionHostName               OptionTag = 12
	OptionBootFileSize           OptionTag = 13
	OptionMeritDumpFile          OptionTag = 14
	OptionDomainName             OptionTag = 15
	OptionSwapServer             OptionTag = 16
	OptionRootPath               OptionTag = 17
	OptionExtensionsPath         OptionTag = 18
	OptionIPForwarding           OptionTag = 19
	OptionNonLocalSourceRouting  OptionTag = 20
	OptionPolicyFilter           OptionTag = 21
	OptionMaxDatagramReassembly  OptionTag = 22
	OptionDefaultIPTTL           OptionTag = 23
	OptionPathMTUAgingTimeout    OptionTag = 24
	OptionPathMTUPlateauTable    OptionTag = 25
	OptionInterfaceMTU           OptionTag = 26
	OptionAllSubnetsLocal        OptionTag = 27
	OptionBroadcastAddress       OptionTag = 28
	OptionPerformMaskDiscovery   OptionTag = 29
	OptionMaskSupplier           OptionTag = 30
	OptionPerformRouterDiscovery OptionTag = 31
	OptionRouterSolicitAddr      OptionTag = 32
	OptionStaticRoute            OptionTag = 33
	OptionTrailerEncapsulation   OptionTag = 34
	OptionARPCacheTimeout        OptionTag = 35
	OptionEthernetEncapsulation  OptionTag = 36
	OptionTCPDefaultTTL          OptionTag = 37
	OptionTCPKeepaliveInterval   OptionTag = 38
	OptionTCPKeepaliveGarbage    OptionTag = 39
	OptionNISDomain              OptionTag = 40
	OptionNISServers             OptionTag = 41
	OptionNTPServers             OptionTag = 42
	OptionVendorSpecific         OptionTag = 43
	OptionNetBIOSNameServer      OptionTag = 44
	OptionNetBIOSDatagramDist    OptionTag = 45
	OptionNetBIOSNodeType        OptionTag = 46
	OptionNetBIOSScope           OptionTag = 47
	OptionXWindowFontServer      OptionTag = 48
	OptionXWindowDisplayManager  OptionTag = 49
	OptionRequestedIPAddress     OptionTag = 50
	OptionIPAddressLeaseTime     OptionTag = 51
	OptionOverload               OptionTag = 52
	OptionDHCPMessageType        OptionTag = 53
	OptionServerIdentifier       OptionTag = 54
	OptionParameterRequestList   OptionTag = 55
	OptionMessage                OptionTag = 56
	OptionMaxDHCPMessageSize     OptionTag = 57
	OptionRenewalTime            OptionTag = 58
	OptionRebindingTime          OptionTag = 59
	OptionVendorClassIdentifier  OptionTag = 60
	OptionClientIdentifier       OptionTag = 61
	OptionNetWareIPDomain        OptionTag = 62
	OptionNetWareIPOption        OptionTag = 63
	OptionTFTPServerName         OptionTag = 66
	OptionBootFileName           OptionTag = 67
	OptionUserClass              OptionTag = 77
	OptionClientFQDN             OptionTag = 81
	OptionRelayAgentInformation  OptionTag = 82
	OptionClientSystemArch       OptionTag = 93
	OptionDomainSearch           OptionTag = 119
	OptionClasslessStaticRoute   OptionTag = 121
	OptionVIVendorClass          OptionTag = 124
	OptionVIVendorSpecific       OptionTag = 125
	OptionTFTPServerAddress      OptionTag = 150
	OptionEnd                    OptionTag = 255
)

// Overload is the value of option 52 (RFC 2132 §9.3): which of the
// header's file and sname fields carry additional options.
type Overload byte

const (
	OverloadNone  Overload = 0
	OverloadFile  Overload = 1
	OverloadSName Overload = 2
	OverloadBoth  Overload = 3 // file first, then sname
)

// RelayAgentSubOptionCode identifies a sub-option of option 82 (RFC 3046
// and the registries that extend it).
type RelayAgentSubOptionCode byte

const (
	RelayAgentCircuitID                RelayAgentSubOptionCode = 1
	RelayAgentRemoteID                 RelayAgentSubOptionCode = 2
	RelayAgentDOCSISDeviceClass        RelayAgentSubOptionCode = 4   // RFC 3256
	RelayAgentLinkSelection            RelayAgentSubOptionCode = 5   // RFC 3527
	RelayAgentSubscriberID             RelayAgentSubOptionCode = 6   // RFC 3993
	RelayAgentRADIUSAttributes         RelayAgentSubOptionCode = 7   // RFC 4014
	RelayAgentAuthentication           RelayAgentSubOptionCode = 8   // RFC 4030
	RelayAgentVendorSpecific           RelayAgentSubOptionCode = 9   // RFC 4243
	RelayAgentFlags                    RelayAgentSubOptionCode = 10  // RFC 5010
	RelayAgentServerIdentifierOverride RelayAgentSubOptionCode = 11  // RFC 5107
	RelayAgentVirtualSubnetSelection   RelayAgentSubOptionCode = 151 // RFC 6607
)

// Fixed header layout (RFC 2131 §2).
const (
	offsetOpcode        = 0
	offsetHardwareType  = 1
	offsetHardwareLen   = 2
	offsetHops          = 3
	offsetTransactionID = 4
	offsetSeconds       = 8
	offsetFlags         = 10
	offsetClientIP      = 12
	offsetYourIP        = 16
	offsetServerIP      = 20
	offsetGatewayIP     = 24
	offsetClientHWAddr  = 28
	offsetServerName    = 44
	offsetBootFile      = 108
	offsetMagicCookie   = 236

	lengthClientHWAddr = 16
	lengthServerName   = 64
	lengthBootFile     = 128
)

// HeaderLength is the size of the fixed header including the magic cookie.
const HeaderLength = 240

// Datagram size limits.
const (
	MinPacketSize     = 300   // BOOTP minimum, RFC 951
	DefaultPacketSize = 576   // RFC 2131 §2
	MaxPacketSize     = 1500  // Ethernet MTU
	MaxDatagramLength = 65535 // largest UDP payload length field
)

// DHCP ports.
const (
	ServerPort = 67
	ClientPort = 68
)
