// Package notify carries success and failure signals to the presentation layer.
package notify

import (
	"github.com/sqve/branchlink/internal/logger"
)

// Notifier receives user-facing outcome signals.
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

// Console prints notifications through the console printer and records
// failures in the structured log.
type Console struct{}

func (Console) Success(message string) {
	logger.Successf("%s", message)
}

func (Console) Failure(message string, err error) {
	if err != nil {
		logger.Failuref("%s: %v", message, err)
	} else {
		logger.Failuref("%s", message)
	}
	logger.WithComponent("notify").Debug("failure notified", "message", message, "error", err)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string)        {}
func (Discard) Failure(string, error) {}

// Event is a notification captured by Recorder.
type Event struct {
	Success bool
	Message string
	Err     error
}

// Recorder keeps notifications in memory, in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Success(message string) {
	r.Events = append(r.Events, Event{Success: true, Message: message})
}

func (r *Recorder) Failure(message string, err error) {
	r.Events = append(r.Events, Event{Message: message, Err: err})
}

// Failures returns the recorded failure events.
func (r *Recorder) Failures() []Event {
	var out []Event
	for _, e := range r.Events {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out
}
