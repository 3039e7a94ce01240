package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copydesk/internal/types"
)

func TestRecorderOrderAndOffsets(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Record(-1, types.EventRunStarted, "starting")
	rec.Record(0, types.EventDraftRequest, "drafting variant 0")
	rec.Record(0, types.EventDraftResult, "draft received")

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, types.EventRunStarted, events[0].Kind)
	assert.Equal(t, -1, events[0].Variant)
	assert.Equal(t, 0, events[1].Variant)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].OffsetMS, events[i-1].OffsetMS)
	}
}

func TestRecorderOnProgressCallback(t *testing.T) {
	var seen []types.TimelineEvent
	rec := NewRecorder(func(e types.TimelineEvent) { seen = append(seen, e) })

	rec.Record(1, types.EventScored, "score 1100.0")

	require.Len(t, seen, 1)
	assert.Equal(t, types.EventScored, seen[0].Kind)
	assert.Equal(t, 1, seen[0].Variant)
}

func TestRecorderEventsReturnsCopy(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Record(-1, types.EventRunStarted, "starting")

	events := rec.Events()
	events[0].Message = "mutated"

	assert.Equal(t, "starting", rec.Events()[0].Message)
}

func TestRecorderConcurrentRecords(t *testing.T) {
	rec := NewRecorder(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				rec.Record(i, types.EventDraftResult, "draft received")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Events(), 200)
}
