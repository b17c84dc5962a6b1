// Package status publishes one-line lifecycle status messages.
//
// It implements a publish-subscribe pipeline: a Reporter feeds events
// into a channel, a Broadcaster fans them out, and subscribers deliver
// them to a status file or an HTTP endpoint. The status surface is
// purely observational; a slow or broken subscriber never blocks the
// monitor.
package status

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	models "github.com/hostpulse/monitor/internal/model"
)

// Reporter publishes lifecycle status messages.
type Reporter interface {
	// Report sends a status message; it never blocks.
	Report(message string)
}

type reporter struct {
	events chan<- models.StatusEvent
	logger *zap.SugaredLogger
}

// NewReporter creates a Reporter sending events to the provided channel.
func NewReporter(events chan<- models.StatusEvent, logger *zap.SugaredLogger) Reporter {
	return &reporter{events: events, logger: logger}
}

// Report sends a status event, dropping it if the channel is full.
func (r *reporter) Report(message string) {
	event := models.StatusEvent{
		TS:      time.Now().Format(time.RFC3339),
		Message: message,
	}

	select {
	case r.events <- event:
	default:
		r.logger.Warnw("status event dropped, channel full", "message", message)
	}
}

// Broadcaster distributes status events to the subscriber channels,
// discarding events for subscribers that cannot keep up.
func Broadcaster(source <-chan models.StatusEvent, subs ...chan<- models.StatusEvent) {
	for evt := range source {
		for _, subChan := range subs {
			select {
			case subChan <- evt:
			default:
			}
		}
	}
	for _, subChan := range subs {
		close(subChan)
	}
}

// FileSubscriber writes each event's message to path, replacing the
// previous content, so the file always holds the current status line.
func FileSubscriber(events <-chan models.StatusEvent, path string, logger *zap.SugaredLogger) {
	for evt := range events {
		if err := os.WriteFile(path, []byte(evt.Message+"\n"), 0644); err != nil {
			logger.Errorw("writing status file", "path", path, "error", err)
		}
	}
}

// URLSubscriber posts each event as JSON to an HTTP endpoint.
func URLSubscriber(events <-chan models.StatusEvent, url string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorw("marshaling status event", "error", err)
			continue
		}
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
		if err != nil {
			logger.Errorw("posting status event", "url", url, "error", err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
