// Package printer delivers rendered tickets to a physical or virtual printer.
package printer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"tablesync/internal/pkg/errs"
)

const (
	DriverStdout  = "stdout"
	DriverFile    = "file"
	DriverNetwork = "network"
)

// escposCut feeds three lines and performs a full cut on ESC/POS printers.
var escposCut = []byte("\n\n\n\x1dV\x00")

// WriterPrinter prints to any writer, one ticket after another.
type WriterPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterPrinter(w io.Writer) *WriterPrinter {
	return &WriterPrinter{w: w}
}

func (p *WriterPrinter) Print(ctx context.Context, ticket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, terminate(ticket)+"\n")
	return err
}

// FilePrinter appends tickets to a file, which is handy for a spooler or for
// a device without a printer attached.
type FilePrinter struct {
	mu   sync.Mutex
	path string
}

func NewFilePrinter(path string) (*FilePrinter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errs.NewValueIsRequiredError("printer file")
	}
	return &FilePrinter{path: path}, nil
}

func (p *FilePrinter) Print(ctx context.Context, ticket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(f, terminate(ticket)+"\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// NetworkPrinter sends raw ESC/POS data to a printer listening on TCP,
// usually port 9100. Each ticket uses its own connection.
type NetworkPrinter struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
}

func NewNetworkPrinter(address string, timeout time.Duration) (*NetworkPrinter, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("printer address", err)
	}
	return &NetworkPrinter{address: address, timeout: timeout}, nil
}

func (p *NetworkPrinter) Print(ctx context.Context, ticket string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer %s unreachable: %w", p.address, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err = io.WriteString(conn, terminate(ticket)); err != nil {
		return fmt.Errorf("printer %s write failed: %w", p.address, err)
	}
	if _, err = conn.Write(escposCut); err != nil {
		return fmt.Errorf("printer %s write failed: %w", p.address, err)
	}
	return nil
}

func terminate(ticket string) string {
	if strings.HasSuffix(ticket, "\n") {
		return ticket
	}
	return ticket + "\n"
}
