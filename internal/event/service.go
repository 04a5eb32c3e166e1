// Service layer of the internal package event, the ingestion pipeline of Argus.

package event

import (
	"Argus/internal/entity"
	"Argus/internal/errors"
	"Argus/pkg/log"
	"context"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
)

// Dispatcher is the fan-out collaborator the pipeline hands committed events to.
type Dispatcher interface {
	// SendToUser delivers the message to every live connection of userID.
	SendToUser(ctx context.Context, userID string, message interface{})
	// SendToAll delivers the message to every authenticated connection.
	SendToAll(ctx context.Context, message interface{})
}

// Snapshots caches and distributes ephemeral per-camera health snapshots,
// which bypass the event log entirely.
type Snapshots interface {
	Record(ctx context.Context, stats entity.CameraStats) error
}

// Service layer of internal package event which encapsulates the event
// ingestion and query logic of Argus.
type Service interface {
	// Ingest validates and normalizes a raw producer event, appends it to the
	// log and fans it out to its audience. The append is committed before the
	// fan-out starts.
	Ingest(ctx context.Context, e entity.Event) (entity.Event, error)
	// Search returns one page of the filtered event log, newest first.
	Search(ctx context.Context, query entity.EventSearch) ([]entity.Event, entity.Pagination, error)
	// Get fetches a single event by id.
	Get(ctx context.Context, id string) (entity.Event, error)
	// Remove deletes a single event by id, administrative path.
	Remove(ctx context.Context, id string) error
	// Summary computes the windowed aggregate statistics as of now.
	Summary(ctx context.Context) (entity.EventSummary, error)
}

// Object of this will be passed around from main to routers to API.
// Helps to access the service layer interface and call methods.
// Also helps to pass objects to be used from outer layer.
type service struct {
	store      *Store
	dispatcher Dispatcher
	snapshots  Snapshots
	logger     log.Logger
}

// Helps to access the service layer interface and call methods. Service object is passed from main.
func NewService(store *Store, dispatcher Dispatcher, snapshots Snapshots, logger log.Logger) Service {
	return service{store, dispatcher, snapshots, logger}
}

func (s service) Ingest(ctx context.Context, e entity.Event) (entity.Event, error) {
	// Validate the received producer data which is serialized to entity.Event struct
	if _, valerr := govalidator.ValidateStruct(e); valerr != nil {
		return entity.Event{}, errors.GenerateValidationErrorResponse(valerr.(govalidator.Errors).Errors())
	}

	// Normalize, producers may omit id and timestamp
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if e.Type == entity.EventTypeCameraStats {
		// Health snapshots are ephemeral, they are cached and pushed live but
		// never appended to the log.
		if snaperr := s.snapshots.Record(ctx, snapshotFromEvent(e)); snaperr != nil {
			return entity.Event{}, snaperr
		}
		return e, nil
	}

	// Append has to be committed before the fan-out starts so that a query
	// issued right after a received push already finds the event.
	s.store.Append(e)
	if e.UserID != "" {
		s.dispatcher.SendToUser(ctx, e.UserID, e)
	} else {
		s.dispatcher.SendToAll(ctx, e)
	}
	s.logger.WithCtx(ctx).Info().Msgf("Ingested %s event %s from camera %s", e.Type, e.ID, e.CameraID)
	return e, nil
}

func (s service) Search(ctx context.Context, query entity.EventSearch) ([]entity.Event, entity.Pagination, error) {
	if query.Page < 1 || query.Limit < 1 {
		return nil, entity.Pagination{}, errors.BadRequest("page and limit have to be positive")
	}
	items, total := s.store.Query(query)

	totalPages := total / int64(query.Limit)
	if total%int64(query.Limit) != 0 {
		totalPages++
	}
	page := entity.Pagination{
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(query.Page) < totalPages,
		HasPrev:    query.Page > 1,
	}
	return items, page, nil
}

func (s service) Get(ctx context.Context, id string) (entity.Event, error) {
	return s.store.Get(id)
}

func (s service) Remove(ctx context.Context, id string) error {
	if delerr := s.store.Delete(id); delerr != nil {
		return delerr
	}
	s.logger.WithCtx(ctx).Info().Msgf("Deleted event %s", id)
	return nil
}

func (s service) Summary(ctx context.Context) (entity.EventSummary, error) {
	return s.store.Stats(time.Now()), nil
}

// snapshotFromEvent lifts a camera_stats event payload into the snapshot shape.
// Producers carry the gauges in the event metadata.
func snapshotFromEvent(e entity.Event) entity.CameraStats {
	stats := entity.CameraStats{
		Type:      entity.EventTypeCameraStats,
		CameraID:  e.CameraID,
		Online:    true,
		Timestamp: e.Timestamp,
	}
	if v, ok := e.Metadata["frameRate"].(float64); ok {
		stats.FrameRate = v
	}
	if v, ok := e.Metadata["bitrate"].(float64); ok {
		stats.Bitrate = int64(v)
	}
	if v, ok := e.Metadata["online"].(bool); ok {
		stats.Online = v
	}
	return stats
}
