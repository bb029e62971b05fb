package main

import (
	"fmt"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/bobbymcr/DhcpServer-sub000/internal/config"
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// buildDiscover writes a DHCPDISCOVER described by cfg into buf and returns
// its length.
func buildDiscover(buf []byte, cfg config.ProbeConfig, xid uint32, mac dhcpv4.MACAddress) (int, error) {
	m, err := dhcpv4.NewMessageBuffer(buf)
	if err != nil {
		return 0, err
	}
	enc, err := cfg.Encoding()
	if err != nil {
		return 0, err
	}
	var te *dhcpv4.TextEncoder
	if enc != nil {
		te = dhcpv4.NewTextEncoder(enc)
	}

	m.Opcode = dhcpv4.OpCodeBootRequest
	m.TransactionID = xid
	m.SetClientMACAddress(mac)
	if cfg.Broadcast {
		m.Flags |= dhcpv4.FlagsBroadcast
	}

	// Relay agent information has to be written before any plain option.
	if cfg.CircuitID != "" || cfg.RemoteID != "" || cfg.RADIUSUser != "" {
		m.WriteContainerOptionHeader(dhcpv4.OptionRelayAgentInformation)
		if cfg.CircuitID != "" {
			m.WriteSubOption(byte(dhcpv4.RelayAgentCircuitID), []byte(cfg.CircuitID))
		}
		if cfg.RemoteID != "" {
			m.WriteSubOption(byte(dhcpv4.RelayAgentRemoteID), []byte(cfg.RemoteID))
		}
		if cfg.RADIUSUser != "" {
			attr, err := radius.NewString(cfg.RADIUSUser)
			if err != nil {
				return 0, fmt.Errorf("radius_user: %w", err)
			}
			m.WriteSubOption(byte(dhcpv4.RelayAgentRADIUSAttributes),
				dhcpv4.AppendRADIUSAttribute(nil, rfc2865.UserName_Type, attr))
		}
		m.EndContainerOption()
	}

	m.WriteMessageTypeOption(dhcpv4.MessageTypeDiscover)
	m.WriteClientIdentifierOption(dhcpv4.HardwareTypeEthernet, mac[:])
	if cfg.RequestedIP != "" {
		ip, err := dhcpv4.ParseIPv4Address(cfg.RequestedIP)
		if err != nil {
			return 0, fmt.Errorf("requested_ip: %w", err)
		}
		m.WriteRequestedIPAddressOption(ip)
	}
	if cfg.Hostname != "" {
		if err := m.WriteTextOption(dhcpv4.OptionHostName, cfg.Hostname, te); err != nil {
			return 0, fmt.Errorf("hostname: %w", err)
		}
	}
	if cfg.VendorClass != "" {
		if err := m.WriteTextOption(dhcpv4.OptionVendorClassIdentifier, cfg.VendorClass, te); err != nil {
			return 0, fmt.Errorf("vendor_class: %w", err)
		}
	}
	if cfg.ClientFQDN != "" {
		if err := m.WriteClientFQDNOption(dhcpv4.FQDNFlagServerUpdate, cfg.ClientFQDN); err != nil {
			return 0, fmt.Errorf("client_fqdn: %w", err)
		}
	}
	if len(cfg.ParamRequest) > 0 {
		tags := make([]dhcpv4.OptionTag, len(cfg.ParamRequest))
		for i, t := range cfg.ParamRequest {
			tags[i] = dhcpv4.OptionTag(t)
		}
		m.WriteParameterRequestListOption(tags...)
	}
	m.WriteMaxMessageSizeOption(uint16(cfg.MaxDHCPSize))
	m.WriteEndOption()

	n := m.Save()
	if n < dhcpv4.MinPacketSize {
		n = dhcpv4.MinPacketSize
	}
	return n, nil
}
