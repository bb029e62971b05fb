// dhcp4probe sends a DHCPDISCOVER and logs any replies.
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobbymcr/DhcpServer-sub000/internal/config"
	"github.com/bobbymcr/DhcpServer-sub000/internal/dhcp"
	"github.com/bobbymcr/DhcpServer-sub000/internal/logging"
	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults are used when empty)")
	wait := flag.Bool("wait", true, "wait for replies until the probe timeout")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := probe(ctx, cfg.Probe, *wait, logger); err != nil {
		logger.Error("probe failed", "error", err)
		os.Exit(1)
	}
}

func probe(ctx context.Context, cfg config.ProbeConfig, wait bool, logger *slog.Logger) error {
	target, err := dhcpv4.ParseIPv4Endpoint(cfg.Target)
	if err != nil {
		return fmt.Errorf("probe.target: %w", err)
	}
	mac, err := probeMAC(cfg.ClientMAC)
	if err != nil {
		return err
	}
	var xidBytes [4]byte
	if _, err := rand.Read(xidBytes[:]); err != nil {
		return fmt.Errorf("generating xid: %w", err)
	}
	xid := binary.BigEndian.Uint32(xidBytes[:])

	buf := make([]byte, cfg.MaxDHCPSize)
	n, err := buildDiscover(buf, cfg, xid, mac)
	if err != nil {
		return fmt.Errorf("building discover: %w", err)
	}

	sock, err := dhcp.ListenUDP(cfg.BindAddress)
	if err != nil {
		return err
	}
	defer sock.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.TimeoutDuration())
	defer cancel()

	if err := sock.Send(ctx, buf[:n], target); err != nil {
		return err
	}
	logger.Info("discover sent",
		"target", target.String(),
		"xid", fmt.Sprintf("%08x", xid),
		"mac", mac.String(),
		"length", n)

	if !wait {
		return nil
	}

	ch, err := dhcp.NewChannel(sock, dhcpv4.MaxDatagramLength)
	if err != nil {
		return err
	}
	monitor := dhcp.NewMonitor(logger, dhcp.WithOptionLogging(true))
	replies := 0
	for {
		msg, err := ch.Receive(ctx)
		if err != nil {
			var rerr *dhcp.Error
			if errors.As(err, &rerr) && rerr.Kind != dhcp.ErrorSocket {
				_ = monitor.OnError(ctx, rerr)
				continue
			}
			if ctx.Err() != nil {
				logger.Info("probe finished", "replies", replies)
				return nil
			}
			return err
		}
		if msg.TransactionID != xid || msg.Opcode != dhcpv4.OpCodeBootReply {
			continue
		}
		replies++
		_ = monitor.OnReceive(ctx, msg, ch.Peer())
	}
}

// probeMAC parses s, or returns a random locally administered unicast
// address when s is empty.
func probeMAC(s string) (dhcpv4.MACAddress, error) {
	if s != "" {
		mac, err := dhcpv4.ParseMACAddress(s)
		if err != nil {
			return dhcpv4.MACAddress{}, fmt.Errorf("probe.client_mac: %w", err)
		}
		return mac, nil
	}
	var mac dhcpv4.MACAddress
	if _, err := rand.Read(mac[:]); err != nil {
		return mac, fmt.Errorf("generating client mac: %w", err)
	}
	mac[0] = mac[0]&^0x01 | 0x02
	return mac, nil
}
