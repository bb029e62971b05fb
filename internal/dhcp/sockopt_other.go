//go:build !unix

package dhcp

import "syscall"

func controlBroadcast(network, address string, c syscall.RawConn) error { return nil }
