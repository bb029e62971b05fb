package config

import "time"

// Default configuration values.
const (
	DefaultBindAddress       = "0.0.0.0:67"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultChannels          = 4
	DefaultBufferSize        = 1500
	DefaultMetricsListen     = "127.0.0.1:9167"
	DefaultThrottleGlobal    = 100
	DefaultThrottlePerClient = 5
	DefaultProbeTarget       = "255.255.255.255:67"
	DefaultProbeBind         = "0.0.0.0:68"
	DefaultProbeTimeout      = 5 * time.Second
	DefaultProbeCharset      = "utf-8"
	DefaultProbeMaxDHCPSize  = 1500
	MaxChannels              = 64
	MinBufferSize            = 240
	MaxBufferSize            = 65535
)
