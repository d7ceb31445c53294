package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

// Printer sends a finished ESC/POS job to a device.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Type reports which kind of device backs the printer.
	Type() string
	IsConnected(ctx context.Context) bool
}

// usbPrinter writes to a device file such as /dev/usb/lp0.
type usbPrinter struct {
	path string
	mu   sync.Mutex
}

func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// one job at a time so lines from two receipts never interleave
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Type() string { return TypeUSB }

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter dials a raw TCP port, e.g. 192.168.1.100:9100.
type networkPrinter struct {
	address      string
	dialer       net.Dialer
	writeTimeout time.Duration
}

func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialer:       net.Dialer{Timeout: 5 * time.Second},
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Type() string { return TypeNetwork }

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter drops every job. Used when no hardware is configured.
type nullPrinter struct{}

func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (nullPrinter) Type() string { return TypeNone }

func (nullPrinter) IsConnected(context.Context) bool { return false }

// NewPrinterFromConfig picks the printer for printerType ("usb", "network" or "none").
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case TypeUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case TypeNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
