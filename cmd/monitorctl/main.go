// Command monitorctl drives a running monitor over its control fifo:
// it sends a metric selection or requests the catalog listing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hostpulse/monitor/internal/control"
)

func main() {
	fifoPath := flag.String("f", "/tmp/monitor_fifo", "path to the selection fifo")
	metricsFile := flag.String("m", "/tmp/monitor_metrics", "path to the metrics listing file")
	list := flag.Bool("list", false, "request the catalog listing and print it")
	timeout := flag.Duration("t", 5*time.Second, "how long to wait for the listing file")
	flag.Parse()

	if err := run(*fifoPath, *metricsFile, *list, *timeout, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(fifoPath, metricsFile string, list bool, timeout time.Duration, args []string) error {
	if list {
		if err := control.SendSelection(fifoPath, control.ListSentinel); err != nil {
			return err
		}
		listing, err := awaitFile(metricsFile, timeout)
		if err != nil {
			return err
		}
		fmt.Print(listing)
		return nil
	}

	selection := strings.Join(args, ",")
	if strings.TrimSpace(selection) == "" {
		return fmt.Errorf("no metrics given; pass metric names or -list")
	}
	return control.SendSelection(fifoPath, selection)
}

// awaitFile polls for path until it appears with content or the timeout
// elapses. The monitor writes the listing right after reading the fifo,
// so the wait is normally a single poll.
func awaitFile(path string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return string(data), nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("timed out waiting for %s", path)
		}
		<-ticker.C
	}
}
