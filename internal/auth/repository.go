// Auth repository encapsulates the data access logic (interactions with the DB) related to issued tokens in Argus.

package auth

import (
	"Argus/internal/errors"
	"Argus/pkg/db"
	"Argus/pkg/log"
	"context"

	"github.com/go-redis/redis/v8"
)

type Repository interface {
	// TokenExists checks whether tokenUUID:userID exists in the DB.
	// Tokens are issued and revoked by the external identity service, Argus
	// only reads the registry it maintains.
	TokenExists(ctx context.Context, logger log.Logger, tokenUUID, userID string) (bool, error)
}

// repository struct of auth Repository.
// Object of this will be passed around from main to internal.
// Helps to access the repository layer interface and call methods.
type repository struct {
	db *db.RedisDB
}

// Returns a new instance of auth repository for other packages to access its interface.
func NewRepository(dbwrp *db.RedisDB) Repository {
	return repository{db: dbwrp}
}

// Returns boolean if tokenUUID:userID exists in the DB or not.
func (r repository) TokenExists(ctx context.Context, logger log.Logger, tokenUUID, userID string) (bool, error) {
	val, dberr := r.db.Client().Get(ctx, "token:"+tokenUUID).Result()
	if dberr != nil && dberr != redis.Nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of redis.Get in auth.TokenExists")
		return false, errors.InternalServerError("")
	} else if dberr == redis.Nil {
		// Key doesn't exist, maybe got expired
		return false, nil
	}
	return val == userID, nil
}
