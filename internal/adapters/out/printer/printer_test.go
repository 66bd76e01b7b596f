package printer_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tablesync/internal/adapters/out/printer"
	"tablesync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewWriterPrinter(&buf)

	require.NoError(t, p.Print(t.Context(), "TABLE 12"))
	require.NoError(t, p.Print(t.Context(), "TABLE 4\n"))

	assert.Equal(t, "TABLE 12\n\nTABLE 4\n\n", buf.String())
}

func TestWriterPrinter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := printer.NewWriterPrinter(&buf).Print(ctx, "TABLE 12")

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestFilePrinter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.txt")
	p, err := printer.NewFilePrinter(path)
	require.NoError(t, err)

	require.NoError(t, p.Print(t.Context(), "first"))
	require.NoError(t, p.Print(t.Context(), "second"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond\n\n", string(content))

	_, err = printer.NewFilePrinter(" ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNetworkPrinter_SendsTicketAndCut(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := printer.NewNetworkPrinter(listener.Addr().String(), time.Second)
	require.NoError(t, err)
	require.NoError(t, p.Print(t.Context(), "TABLE 12"))

	select {
	case data := <-received:
		assert.Equal(t, "TABLE 12\n\n\n\n\x1dV\x00", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("printer received nothing")
	}
}

func TestNetworkPrinter_Unreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	p, err := printer.NewNetworkPrinter(address, 500*time.Millisecond)
	require.NoError(t, err)

	require.Error(t, p.Print(t.Context(), "TABLE 12"))

	_, err = printer.NewNetworkPrinter("no-port", time.Second)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
