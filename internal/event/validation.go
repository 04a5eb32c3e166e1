// All custom validations related to event entity in Argus are defined here.

package event

import (
	"Argus/internal/entity"
	"Argus/pkg/log"
	"context"

	"github.com/asaskevich/govalidator"
)

func RegisterCustomValidations(ctx context.Context, logger log.Logger) {
	// Event type validation.
	// Producers are only allowed to push the enumerated event types.
	govalidator.TagMap["eventtype"] = govalidator.Validator(func(str string) bool {
		switch str {
		case entity.EventTypeFaceDetected,
			entity.EventTypeCameraOffline,
			entity.EventTypeStreamError,
			entity.EventTypeCameraStats:
			return true
		}
		return false
	})

	// Confidence score validation, has to stay inside [0, 1].
	govalidator.CustomTypeTagMap.Set("confidencerange", func(i interface{}, o interface{}) bool {
		score, ok := i.(float64)
		if !ok {
			return false
		}
		return score >= 0 && score <= 1
	})

	logger.WithCtx(ctx).Info().Msg("Successfully registered event related custom validations.")
}
