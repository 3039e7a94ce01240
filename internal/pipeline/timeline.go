package pipeline

import (
	"sync"
	"time"

	"github.com/jonathan/copydesk/internal/types"
)

// Recorder collects timestamped timeline events for one run. Offsets are
// relative to run start. Safe for concurrent use: variants may run in
// parallel, and each variant's own events stay in order because a variant
// records sequentially.
type Recorder struct {
	start      time.Time
	mu         sync.Mutex
	events     []types.TimelineEvent
	onProgress func(types.TimelineEvent)
}

// NewRecorder starts a recorder anchored at now.
func NewRecorder(onProgress func(types.TimelineEvent)) *Recorder {
	return &Recorder{start: time.Now(), onProgress: onProgress}
}

// Record appends one event. Use variant -1 for run-level events.
func (r *Recorder) Record(variant int, kind, message string) {
	event := types.TimelineEvent{
		OffsetMS: time.Since(r.start).Milliseconds(),
		Variant:  variant,
		Kind:     kind,
		Message:  message,
	}

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	if r.onProgress != nil {
		r.onProgress(event)
	}
}

// Events returns a copy of the recorded events in append order.
func (r *Recorder) Events() []types.TimelineEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.TimelineEvent(nil), r.events...)
}
