// Event ingestion pipeline tests in Argus.

package event

import (
	"Argus/internal/entity"
	"Argus/pkg/log"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Global instance of log.Logger to be used during event testing.
var logger log.Logger

// Global context
var ctx context.Context = context.Background()

func TestMain(m *testing.M) {
	logger = log.New("test")
	RegisterCustomValidations(ctx, logger)
	m.Run()
}

// recordingDispatcher captures every fan-out and optionally probes the store
// at dispatch time.
type recordingDispatcher struct {
	mu     sync.Mutex
	toUser map[string][]interface{}
	toAll  []interface{}
	onSend func(message interface{})
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{toUser: map[string][]interface{}{}}
}

func (d *recordingDispatcher) SendToUser(ctx context.Context, userID string, message interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.onSend != nil {
		d.onSend(message)
	}
	d.toUser[userID] = append(d.toUser[userID], message)
}

func (d *recordingDispatcher) SendToAll(ctx context.Context, message interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.onSend != nil {
		d.onSend(message)
	}
	d.toAll = append(d.toAll, message)
}

// recordingSnapshots captures snapshots handed over by the pipeline.
type recordingSnapshots struct {
	recorded []entity.CameraStats
}

func (s *recordingSnapshots) Record(ctx context.Context, stats entity.CameraStats) error {
	s.recorded = append(s.recorded, stats)
	return nil
}

func setupService() (Service, *Store, *recordingDispatcher, *recordingSnapshots) {
	store := NewStore()
	dispatcher := newRecordingDispatcher()
	snapshots := &recordingSnapshots{}
	return NewService(store, dispatcher, snapshots, logger), store, dispatcher, snapshots
}

func TestIngestRejectsMalformedEvents(t *testing.T) {
	service, store, dispatcher, _ := setupService()

	malformed := []entity.Event{
		{CameraID: "cam-1", Message: "m"},                                              // missing type
		{Type: entity.EventTypeFaceDetected, Message: "m"},                             // missing camera id
		{Type: entity.EventTypeFaceDetected, CameraID: "cam-1"},                        // missing message
		{Type: "meteor_strike", CameraID: "cam-1", Message: "m"},                       // unknown type
		{Type: entity.EventTypeFaceDetected, CameraID: "cam-1", Message: "m", Confidence: 1.5}, // confidence out of range
	}
	for _, e := range malformed {
		_, err := service.Ingest(ctx, e)
		assert.Error(t, err)
	}

	// Nothing was partially stored or dispatched
	_, total := store.Query(entity.EventSearch{Page: 1, Limit: 10})
	assert.Zero(t, total)
	assert.Empty(t, dispatcher.toAll)
}

func TestIngestAssignsIdAndTimestamp(t *testing.T) {
	service, _, _, _ := setupService()

	normalized, err := service.Ingest(ctx, entity.Event{
		Type:       entity.EventTypeFaceDetected,
		CameraID:   "cam-1",
		Message:    "Face detected in camera feed",
		Confidence: 0.87,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, normalized.ID)
	assert.False(t, normalized.Timestamp.IsZero())
}

func TestIngestAppendsBeforeDispatch(t *testing.T) {
	service, store, dispatcher, _ := setupService()

	// A query fired at dispatch time must already find the event committed
	dispatcher.onSend = func(message interface{}) {
		e := message.(entity.Event)
		_, geterr := store.Get(e.ID)
		assert.NoError(t, geterr)
	}

	_, err := service.Ingest(ctx, entity.Event{Type: entity.EventTypeFaceDetected, CameraID: "cam-1", Message: "m"})
	assert.NoError(t, err)
	assert.Len(t, dispatcher.toAll, 1)
}

func TestIngestRoutesAudience(t *testing.T) {
	service, _, dispatcher, _ := setupService()

	_, err := service.Ingest(ctx, entity.Event{Type: entity.EventTypeStreamError, CameraID: "cam-1", Message: "m", UserID: "u1"})
	assert.NoError(t, err)
	assert.Len(t, dispatcher.toUser["u1"], 1)
	assert.Empty(t, dispatcher.toAll)
}

func TestIngestCameraStatsBypassesTheLog(t *testing.T) {
	service, store, dispatcher, snapshots := setupService()

	_, err := service.Ingest(ctx, entity.Event{
		Type:     entity.EventTypeCameraStats,
		CameraID: "cam-1",
		Message:  "Camera stats snapshot",
		Metadata: map[string]interface{}{
			"frameRate": 29.5,
			"bitrate":   float64(2000),
			"online":    true,
		},
	})
	assert.NoError(t, err)

	// Ephemeral snapshots never land in the event log
	_, total := store.Query(entity.EventSearch{Page: 1, Limit: 10})
	assert.Zero(t, total)
	assert.Empty(t, dispatcher.toAll)

	assert.Len(t, snapshots.recorded, 1)
	assert.Equal(t, "cam-1", snapshots.recorded[0].CameraID)
	assert.Equal(t, 29.5, snapshots.recorded[0].FrameRate)
	assert.Equal(t, int64(2000), snapshots.recorded[0].Bitrate)
	assert.True(t, snapshots.recorded[0].Online)
}

func TestSearchComputesPagination(t *testing.T) {
	service, store, _, _ := setupService()
	seedEvents(store, 25, time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC))

	items, page, err := service.Search(ctx, entity.EventSearch{Page: 3, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	items, page, err = service.Search(ctx, entity.EventSearch{Page: 4, Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, page.HasNext)

	_, _, err = service.Search(ctx, entity.EventSearch{Page: 0, Limit: 10})
	assert.Error(t, err)
	_, _, err = service.Search(ctx, entity.EventSearch{Page: 1, Limit: 0})
	assert.Error(t, err)
}
