// ws repository encapsulates the data access logic (interactions with the DB) related to live clients in Argus.

package ws

import (
	"Argus/internal/errors"
	"Argus/pkg/db"
	"Argus/pkg/log"
	"context"
)

type Repository interface {
	// AddClient adds an authenticated client userID to DB.
	// Helpful to observe connected dashboards or scale if the server has to reload.
	AddClient(ctx context.Context, logger log.Logger, userID string) error
	// RemoveClient removes a disconnected client userID from DB.
	RemoveClient(ctx context.Context, logger log.Logger, userID string) error
}

// repository struct of ws Repository.
// Object of this will be passed around from main to internal.
// Helps to access the repository layer interface and call methods.
type repository struct {
	db *db.RedisDB
}

// Returns a new instance of ws repository for other packages to access its interface.
func NewRepository(dbwrp *db.RedisDB) Repository {
	return repository{db: dbwrp}
}

// Returns nil if client with userID got successfully added into the DB.
func (r repository) AddClient(ctx context.Context, logger log.Logger, userID string) error {
	dberr := r.db.Client().SAdd(ctx, "live_clients", userID).Err()
	if dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of SAdd in ws.AddClient")
		return errors.InternalServerError("")
	}
	return dberr
}

// Returns nil if client with userID got successfully removed from the DB.
func (r repository) RemoveClient(ctx context.Context, logger log.Logger, userID string) error {
	dberr := r.db.Client().SRem(ctx, "live_clients", userID).Err()
	if dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of SRem in ws.RemoveClient")
		return errors.InternalServerError("")
	}
	return dberr
}
