package dhcpv4

import "testing"

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		mt   MessageType
		want string
	}{
		{MessageTypeDiscover, "DHCPDISCOVER"},
		{MessageTypeOffer, "DHCPOFFER"},
		{MessageTypeRequest, "DHCPREQUEST"},
		{MessageTypeDecline, "DHCPDECLINE"},
		{MessageTypeAck, "DHCPACK"},
		{MessageTypeNak, "DHCPNAK"},
		{MessageTypeRelease, "DHCPRELEASE"},
		{MessageTypeInform, "DHCPINFORM"},
		{MessageType(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.want {
			t.Errorf("MessageType(%d).String() = %q, want %q", tt.mt, got, tt.want)
		}
	}
}

func TestOpCodeString(t *testing.T) {
	if got := OpCodeBootRequest.String(); got != "BOOTREQUEST" {
		t.Errorf("OpCodeBootRequest.String() = %q, want BOOTREQUEST", got)
	}
	if got := OpCodeBootReply.String(); got != "BOOTREPLY" {
		t.Errorf("OpCodeBootReply.String() = %q, want BOOTREPLY", got)
	}
	if got := OpCode(7).String(); got != "UNKNOWN" {
		t.Errorf("OpCode(7).String() = %q, want UNKNOWN", got)
	}
}

func TestOptionTagValues(t *testing.T) {
	// Verify key option tags match RFC 2132 values
	tests := []struct {
		tag  OptionTag
		want byte
	}{
		{OptionPad, 0},
		{OptionSubnetMask, 1},
		{OptionRouter, 3},
		{OptionDomainNameServer, 6},
		{OptionHostName, 12},
		{OptionDomainName, 15},
		{OptionRequestedIPAddress, 50},
		{OptionIPAddressLeaseTime, 51},
		{OptionOverload, 52},
		{OptionDHCPMessageType, 53},
		{OptionServerIdentifier, 54},
		{OptionParameterRequestList, 55},
		{OptionRenewalTime, 58},
		{OptionRebindingTime, 59},
		{OptionClientIdentifier, 61},
		{OptionClientFQDN, 81},
		{OptionRelayAgentInformation, 82},
		{OptionClasslessStaticRoute, 121},
		{OptionEnd, 255},
	}
	for _, tt := range tests {
		if byte(tt.tag) != tt.want {
			t.Errorf("OptionTag %d: got %d, want %d", tt.tag, byte(tt.tag), tt.want)
		}
	}
}

func TestHeaderLayout(t *testing.T) {
	if HeaderLength != 240 {
		t.Errorf("HeaderLength = %d, want 240", HeaderLength)
	}
	if offsetMagicCookie+4 != HeaderLength {
		t.Errorf("magic cookie ends at %d, want %d", offsetMagicCookie+4, HeaderLength)
	}
	if offsetBootFile+lengthBootFile != offsetMagicCookie {
		t.Errorf("file ends at %d, want %d", offsetBootFile+lengthBootFile, offsetMagicCookie)
	}
	if uint32(MagicCookieDHCP) != 0x63825363 {
		t.Errorf("MagicCookieDHCP = %#x, want 0x63825363", uint32(MagicCookieDHCP))
	}
}
