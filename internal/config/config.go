// Package config handles TOML configuration parsing and validation for the
// DHCP monitor and probe commands.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// Config is the top-level configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Metrics     MetricsConfig     `toml:"metrics"`
	LogThrottle LogThrottleConfig `toml:"log_throttle"`
	Probe       ProbeConfig       `toml:"probe"`
}

// ServerConfig holds receive pipeline settings.
type ServerConfig struct {
	Interface   string `toml:"interface"`
	BindAddress string `toml:"bind_address"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	LogOptions  bool   `toml:"log_options"`
	Channels    int    `toml:"channels"`
	BufferSize  int    `toml:"buffer_size"`
	MACVendorDB string `toml:"mac_vendor_db"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// LogThrottleConfig limits per-message log lines.
type LogThrottleConfig struct {
	Enabled            bool `toml:"enabled"`
	GlobalPerSecond    int  `toml:"global_per_second"`
	PerClientPerSecond int  `toml:"per_client_per_second"`
}

// ProbeConfig holds settings for dhcp4probe.
type ProbeConfig struct {
	Target       string `toml:"target"`
	BindAddress  string `toml:"bind_address"`
	ClientMAC    string `toml:"client_mac"`
	Hostname     string `toml:"hostname"`
	VendorClass  string `toml:"vendor_class"`
	Charset      string `toml:"charset"`
	MaxDHCPSize  int    `toml:"max_dhcp_size"`
	Timeout      string `toml:"timeout"`
	Broadcast    bool   `toml:"broadcast"`
	RequestedIP  string `toml:"requested_ip"`
	CircuitID    string `toml:"circuit_id"`
	RemoteID     string `toml:"remote_id"`
	RADIUSUser   string `toml:"radius_user"`
	ClientFQDN   string `toml:"client_fqdn"`
	ParamRequest []int  `toml:"param_request"`
}

// Load reads, parses, defaults and validates the TOML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BindAddress == "" {
		cfg.Server.BindAddress = DefaultBindAddress
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = DefaultLogLevel
	}
	if cfg.Server.LogFormat == "" {
		cfg.Server.LogFormat = DefaultLogFormat
	}
	if cfg.Server.Channels == 0 {
		cfg.Server.Channels = DefaultChannels
	}
	if cfg.Server.BufferSize == 0 {
		cfg.Server.BufferSize = DefaultBufferSize
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}

	if cfg.LogThrottle.GlobalPerSecond == 0 {
		cfg.LogThrottle.GlobalPerSecond = DefaultThrottleGlobal
	}
	if cfg.LogThrottle.PerClientPerSecond == 0 {
		cfg.LogThrottle.PerClientPerSecond = DefaultThrottlePerClient
	}

	if cfg.Probe.Target == "" {
		cfg.Probe.Target = DefaultProbeTarget
	}
	if cfg.Probe.BindAddress == "" {
		cfg.Probe.BindAddress = DefaultProbeBind
	}
	if cfg.Probe.Timeout == "" {
		cfg.Probe.Timeout = DefaultProbeTimeout.String()
	}
	if cfg.Probe.Charset == "" {
		cfg.Probe.Charset = DefaultProbeCharset
	}
	if cfg.Probe.MaxDHCPSize == 0 {
		cfg.Probe.MaxDHCPSize = DefaultProbeMaxDHCPSize
	}
}

func validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.BindAddress); err != nil {
		return fmt.Errorf("server.bind_address %q: %w", cfg.Server.BindAddress, err)
	}
	switch strings.ToLower(cfg.Server.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("server.log_format must be \"json\" or \"text\", got %q", cfg.Server.LogFormat)
	}
	if cfg.Server.Channels < 1 || cfg.Server.Channels > MaxChannels {
		return fmt.Errorf("server.channels must be between 1 and %d, got %d", MaxChannels, cfg.Server.Channels)
	}
	if cfg.Server.BufferSize < MinBufferSize || cfg.Server.BufferSize > MaxBufferSize {
		return fmt.Errorf("server.buffer_size must be between %d and %d, got %d", MinBufferSize, MaxBufferSize, cfg.Server.BufferSize)
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen %q: %w", cfg.Metrics.Listen, err)
		}
	}

	if cfg.LogThrottle.GlobalPerSecond < 0 || cfg.LogThrottle.PerClientPerSecond < 0 {
		return fmt.Errorf("log_throttle rates must not be negative")
	}

	if _, err := dhcpv4.ParseIPv4Endpoint(cfg.Probe.Target); err != nil {
		return fmt.Errorf("probe.target: %w", err)
	}
	if cfg.Probe.ClientMAC != "" {
		if _, err := dhcpv4.ParseMACAddress(cfg.Probe.ClientMAC); err != nil {
			return fmt.Errorf("probe.client_mac: %w", err)
		}
	}
	if cfg.Probe.RequestedIP != "" {
		if _, err := dhcpv4.ParseIPv4Address(cfg.Probe.RequestedIP); err != nil {
			return fmt.Errorf("probe.requested_ip: %w", err)
		}
	}
	if _, err := ParseDuration(cfg.Probe.Timeout); err != nil {
		return fmt.Errorf("probe.timeout: %w", err)
	}
	if _, err := cfg.Probe.Encoding(); err != nil {
		return fmt.Errorf("probe.charset: %w", err)
	}
	if cfg.Probe.MaxDHCPSize < dhcpv4.DefaultPacketSize || cfg.Probe.MaxDHCPSize > MaxBufferSize {
		return fmt.Errorf("probe.max_dhcp_size must be between %d and %d, got %d", dhcpv4.DefaultPacketSize, MaxBufferSize, cfg.Probe.MaxDHCPSize)
	}
	for i, tag := range cfg.Probe.ParamRequest {
		if tag < 1 || tag > 254 {
			return fmt.Errorf("probe.param_request[%d]: option %d out of range", i, tag)
		}
	}
	return nil
}

// ParseDuration parses a duration string, with a helpful error.
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// Encoding resolves the probe charset. UTF-8 and ASCII resolve to nil so
// that text is copied without transcoding.
func (p ProbeConfig) Encoding() (encoding.Encoding, error) {
	switch strings.ToLower(p.Charset) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return nil, nil
	}
	enc, err := htmlindex.Get(p.Charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", p.Charset, err)
	}
	return enc, nil
}

// TimeoutDuration returns the parsed probe timeout, falling back to the
// default on a malformed value.
func (p ProbeConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return DefaultProbeTimeout
	}
	return d
}
