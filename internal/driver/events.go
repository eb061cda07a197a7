package driver

import "time"

// Stage describes what a mission check is doing.
type Stage string

const (
	// StageCache is the cache lookup.
	StageCache Stage = "cache"
	// StageCheck is the review itself.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the mission is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the mission is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the mission finished.
	StatusDone Status = "done"
	// StatusError indicates the review could not complete.
	StatusError Status = "error"
)

// Event reports progress for one mission (or the whole run when Mission is empty).
type Event struct {
	Mission string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Set on the final event only.
	Cached bool
	Errors int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
