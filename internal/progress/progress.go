// Package progress carries generation progress events from the generator to
// whoever narrates them.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/tordrt/kqlgen/internal/schema"
)

// EventType identifies a step of a generation run
type EventType string

const (
	DatabaseStarted EventType = "database_started"
	EntitiesFound   EventType = "entities_found"
	EntityStarted   EventType = "entity_started"
	EntityFinished  EventType = "entity_finished"
	ContextStarted  EventType = "context_started"
	ContextFinished EventType = "context_finished"
)

// Event is a single progress notification.
//
// Kind and Name are set for entity events, Total for EntitiesFound and
// ContextStarted (the number of entities after filtering, or of artifacts).
type Event struct {
	Type     EventType
	Database string
	Kind     schema.Kind
	Name     string
	Total    int
}

// Reporter receives progress events. Report must not block for long; it is
// called from the generator's only goroutine.
type Reporter interface {
	Report(Event)
}

// Nop discards every event
type Nop struct{}

// Report implements Reporter
func (Nop) Report(Event) {}

// Multi fans each event out to several reporters in order
type Multi []Reporter

// Report implements Reporter
func (m Multi) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// LogReporter writes one structured log entry per event
type LogReporter struct {
	Logger logrus.FieldLogger
}

// NewLogReporter creates a reporter logging through logger
func NewLogReporter(logger logrus.FieldLogger) *LogReporter {
	return &LogReporter{Logger: logger}
}

// Report implements Reporter
func (r *LogReporter) Report(e Event) {
	entry := r.Logger.WithField("event", string(e.Type))
	if e.Database != "" {
		entry = entry.WithField("database", e.Database)
	}

	switch e.Type {
	case DatabaseStarted:
		entry.Info("Processing database")
	case EntitiesFound:
		entry.WithFields(logrus.Fields{"kind": e.Kind, "total": e.Total}).Infof("Found %d %ss", e.Total, e.Kind)
	case EntityStarted:
		entry.WithFields(logrus.Fields{"kind": e.Kind, "name": e.Name}).Debug("Generating model")
	case EntityFinished:
		entry.WithFields(logrus.Fields{"kind": e.Kind, "name": e.Name}).Info("Generated model")
	case ContextStarted:
		entry.WithField("total", e.Total).Info("Generating context")
	case ContextFinished:
		entry.Info("Generated context")
	}
}

// BarReporter draws one progress bar per batch of entities
type BarReporter struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewBarReporter creates a reporter drawing bars to w
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{writer: w}
}

// Report implements Reporter
func (r *BarReporter) Report(e Event) {
	switch e.Type {
	case EntitiesFound:
		r.finish()
		if e.Total == 0 {
			return
		}
		r.bar = progressbar.NewOptions(e.Total,
			progressbar.OptionSetWriter(r.writer),
			progressbar.OptionSetDescription(fmt.Sprintf("%s %ss", e.Database, e.Kind)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(r.writer) }),
		)
	case EntityFinished:
		if r.bar != nil {
			_ = r.bar.Add(1)
		}
	case ContextStarted, DatabaseStarted:
		r.finish()
	}
}

func (r *BarReporter) finish() {
	if r.bar == nil {
		return
	}
	if !r.bar.IsFinished() {
		_ = r.bar.Finish()
	}
	r.bar = nil
}

// Recorder keeps every event it receives
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report implements Reporter
func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
