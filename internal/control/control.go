// Package control implements the selection protocol on the control fifo.
//
// A single text message selects the metrics for the run: names separated
// by commas, each trimmed of surrounding whitespace. A first field of "1"
// asks for the catalog listing instead of monitoring.
package control

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/hostpulse/monitor/internal/catalog"
	internalerrors "github.com/hostpulse/monitor/internal/errors"
)

// ListSentinel is the reserved first field meaning "enumerate the catalog
// and exit".
const ListSentinel = "1"

// EnsureFIFO creates the named pipe if it does not exist yet.
func EnsureFIFO(path string) error {
	if err := unix.Mkfifo(path, 0666); err != nil && !os.IsExist(err) {
		return fmt.Errorf("%w: mkfifo %s: %v", internalerrors.ErrChannelUnavailable, path, err)
	}
	return nil
}

// ReadSelection blocks until one selection message arrives on the fifo
// and returns its parsed fields. The fifo is created if missing.
func ReadSelection(path string) ([]string, error) {
	if err := EnsureFIFO(path); err != nil {
		return nil, err
	}

	// Opening the read side blocks until a writer connects.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", internalerrors.ErrChannelUnavailable, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", internalerrors.ErrChannelUnavailable, path, err)
	}
	return ParseSelection(string(data)), nil
}

// ParseSelection splits a comma-separated selection message into trimmed
// fields, dropping empty ones.
func ParseSelection(message string) []string {
	var fields []string
	for _, field := range strings.Split(message, ",") {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// IsListRequest reports whether the selection asks for the catalog
// listing rather than monitoring.
func IsListRequest(fields []string) bool {
	return len(fields) > 0 && fields[0] == ListSentinel
}

// SendSelection writes one selection message into the fifo. It blocks
// until a reader has the other end open.
func SendSelection(path, message string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", internalerrors.ErrChannelUnavailable, path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(message); err != nil {
		return fmt.Errorf("%w: write %s: %v", internalerrors.ErrChannelUnavailable, path, err)
	}
	return nil
}

// WriteCatalogList dumps every catalog entry to path, one metric per
// line, in declaration order.
func WriteCatalogList(path string, cat *catalog.Catalog) error {
	var b strings.Builder
	for _, entry := range cat.Entries() {
		fmt.Fprintf(&b, "Metric: %s - %s\n", entry.Name, entry.Help)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing metrics listing: %w", err)
	}
	return nil
}
