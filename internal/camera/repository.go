// Camera repository encapsulates the data access logic (interactions with the DB) related to camera health snapshots in Argus.

package camera

import (
	"Argus/internal/entity"
	"Argus/internal/errors"
	"Argus/pkg/db"
	"Argus/pkg/log"
	"context"
	"time"
)

// Snapshots live this long without a refresh before the camera is considered unknown again.
const snapshotTTL = 24 * time.Hour

type Repository interface {
	// SetStats caches the snapshot as the latest known one for its camera,
	// superseding the previous snapshot in place.
	SetStats(ctx context.Context, logger log.Logger, stats entity.CameraStats) error
	// GetStats returns the latest known snapshot for the camera if available.
	GetStats(ctx context.Context, logger log.Logger, cameraID string) (entity.CameraStats, error)
}

// repository struct of camera Repository.
// Object of this will be passed around from main to internal.
// Helps to access the repository layer interface and call methods.
type repository struct {
	db *db.RedisDB
}

// Returns a new instance of camera repository for other packages to access its interface.
func NewRepository(dbwrp *db.RedisDB) Repository {
	return repository{db: dbwrp}
}

// Returns nil if the snapshot got successfully cached in the DB.
func (r repository) SetStats(ctx context.Context, logger log.Logger, stats entity.CameraStats) error {
	key := "camera_stats:" + stats.CameraID
	dberr := r.db.Client().HSet(ctx, key,
		"camera_id", stats.CameraID,
		"frame_rate", stats.FrameRate,
		"bitrate", stats.Bitrate,
		"online", stats.Online,
		"timestamp", stats.Timestamp.Format(time.RFC3339Nano),
	).Err()
	if dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of HSet in camera.SetStats")
		return errors.InternalServerError("")
	}
	if dberr = r.db.Client().Expire(ctx, key, snapshotTTL).Err(); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of Expire in camera.SetStats")
		return errors.InternalServerError("")
	}
	return nil
}

// Returns the latest cached snapshot of the camera if one exists in the DB.
func (r repository) GetStats(ctx context.Context, logger log.Logger, cameraID string) (entity.CameraStats, error) {
	stats := entity.CameraStats{}
	key := "camera_stats:" + cameraID
	cmd := r.db.Client().HGetAll(ctx, key)
	fields, dberr := cmd.Result()
	if dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of HGetAll in camera.GetStats")
		return stats, errors.InternalServerError("")
	} else if len(fields) == 0 {
		// No snapshot cached for this camera
		return stats, errors.NotFound("No stats known for this camera")
	}
	if dberr = cmd.Scan(&stats); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of HGetAll scan in camera.GetStats")
		return stats, errors.InternalServerError("")
	}
	stats.Type = entity.EventTypeCameraStats
	if ts, prserr := time.Parse(time.RFC3339Nano, fields["timestamp"]); prserr == nil {
		stats.Timestamp = ts
	}
	return stats, nil
}
