// Token verification used by both the REST middleware and the live channel in Argus.
// The verifier is the boundary to the external identity issuer, the rest of the
// application only ever sees the userID it returns.

package auth

import (
	"Argus/internal/errors"
	"Argus/pkg/log"
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Verifier resolves a bearer credential to a user identity.
type Verifier interface {
	// Verify returns the userID bound to the token or an error if the token is invalid,
	// expired or revoked.
	Verify(ctx context.Context, token string) (string, error)
}

type jwtVerifier struct {
	signingKey string
	authRepo   Repository
	logger     log.Logger
}

// NewVerifier returns a Verifier which checks HMAC signed JWTs against the token registry.
func NewVerifier(signingKey string, authRepo Repository, logger log.Logger) Verifier {
	return jwtVerifier{signingKey: signingKey, authRepo: authRepo, logger: logger}
}

func (v jwtVerifier) Verify(ctx context.Context, token string) (string, error) {
	vrftoken, valerr := parseIntoJWT(ctx, v.logger, v.signingKey, token)
	if valerr != nil || !vrftoken.Valid {
		return "", errors.Unauthorized("")
	}
	tokenclaims, ok := vrftoken.Claims.(jwt.MapClaims)
	if !ok {
		// Type assertion error
		return "", errors.Unauthorized("")
	}
	tokenUUID, ok := tokenclaims["access_token_uuid"].(string)
	if !ok {
		return "", errors.Unauthorized("")
	}
	userID, ok := tokenclaims["user_id"].(string)
	if !ok {
		return "", errors.Unauthorized("")
	}
	// Verify that tokenUUID:userID is still available in the DB, issued tokens
	// disappear from there on logout or expiry.
	valid, dberr := v.authRepo.TokenExists(ctx, v.logger, tokenUUID, userID)
	if dberr != nil {
		return "", dberr
	} else if !valid {
		return "", errors.Unauthorized("")
	}
	return userID, nil
}

// Helper to parse and return token string fetched from the request.
func parseIntoJWT(ctx context.Context, logger log.Logger, secret string, token string) (*jwt.Token, error) {
	return jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		// Check the signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			err := errors.New(fmt.Sprintf("Unexpected signing method found: %s", t.Header["alg"]))
			logger.WithCtx(ctx).Error().Err(err).Msg("")
			return nil, err
		}
		return []byte(secret), nil
	})
}
