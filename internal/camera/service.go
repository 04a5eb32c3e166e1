// Service layer of the internal package camera.

package camera

import (
	"Argus/internal/entity"
	"Argus/pkg/log"
	"context"
	"time"
)

// Broadcaster pushes a snapshot to every live dashboard.
type Broadcaster interface {
	SendToAll(ctx context.Context, message interface{})
}

// Service layer of internal package camera which encapsulates the camera
// health snapshot logic of Argus.
type Service interface {
	// Record caches the snapshot as latest-known for its camera and pushes it
	// to every live dashboard. Snapshots are superseded in place, no history
	// is retained.
	Record(ctx context.Context, stats entity.CameraStats) error
	// Latest returns the latest known snapshot of the camera, serves late
	// subscribers which missed the live push.
	Latest(ctx context.Context, cameraID string) (entity.CameraStats, error)
}

// Object of this will be passed around from main to routers to API.
// Helps to access the service layer interface and call methods.
// Also helps to pass objects to be used from outer layer.
type service struct {
	cameraRepo  Repository
	broadcaster Broadcaster
	logger      log.Logger
}

// Helps to access the service layer interface and call methods. Service object is passed from main.
func NewService(cameraRepo Repository, broadcaster Broadcaster, logger log.Logger) Service {
	return service{cameraRepo, broadcaster, logger}
}

func (s service) Record(ctx context.Context, stats entity.CameraStats) error {
	stats.Type = entity.EventTypeCameraStats
	if stats.Timestamp.IsZero() {
		stats.Timestamp = time.Now()
	}
	// Cache before pushing so a dashboard reacting to the push already finds
	// the snapshot. A cache failure doesn't block the live path.
	if dberr := s.cameraRepo.SetStats(ctx, s.logger, stats); dberr != nil {
		s.logger.WithCtx(ctx).Warn().Msgf("Couldn't cache snapshot for camera %s", stats.CameraID)
	}
	s.broadcaster.SendToAll(ctx, stats)
	return nil
}

func (s service) Latest(ctx context.Context, cameraID string) (entity.CameraStats, error) {
	return s.cameraRepo.GetStats(ctx, s.logger, cameraID)
}
