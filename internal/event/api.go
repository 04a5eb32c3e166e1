// Exposes all of the REST APIs related to events in Argus.

package event

import (
	"Argus/internal/entity"
	"Argus/internal/errors"
	"Argus/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Registers all of the REST API handlers related to internal package event onto the gin server.
func APIHandlers(router *gin.Engine, service Service, authWithAcc gin.HandlerFunc, logger log.Logger) {
	eventGroup := router.Group("/api/events", authWithAcc)
	{
		eventGroup.GET("", searchEvents(service, logger))
		eventGroup.POST("", ingestEvent(service, logger))
		eventGroup.GET("/:id", getEvent(service, logger))
		eventGroup.DELETE("/:id", deleteEvent(service, logger))
	}
	statsGroup := router.Group("/api/stats", authWithAcc)
	{
		statsGroup.GET("/summary", statsSummary(service, logger))
	}
}

// searchEvents returns a handler which serves the filtered, paginated event listing.
func searchEvents(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var query entity.EventSearch

		// Serialize received filter params into EventSearch struct
		if binderr := gctx.ShouldBindQuery(&query); binderr != nil {
			logger.WithCtx(gctx).Error().Err(binderr).Msg("Binding error occured with EventSearch struct.")
			gctx.AbortWithStatusJSON(http.StatusBadRequest, errors.BadRequest(""))
			return
		}

		events, pagination, err := service.Search(gctx, query)
		if err != nil {
			err, ok := err.(errors.ErrorResponse)
			if !ok {
				// Type assertion error
				gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
				return
			}
			gctx.AbortWithStatusJSON(err.Status, err)
			return
		}

		gctx.JSON(http.StatusOK, gin.H{
			"events":     events,
			"pagination": pagination,
		})
	}
}

// ingestEvent returns a handler which accepts raw producer events into the pipeline.
func ingestEvent(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var e entity.Event

		// Serialize received data into Event struct
		if binderr := gctx.ShouldBindJSON(&e); binderr != nil {
			logger.WithCtx(gctx).Error().Err(binderr).Msg("Binding error occured with Event struct.")
			gctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, errors.UnprocessableEntity(""))
			return
		}

		normalized, err := service.Ingest(gctx, e)
		if err != nil {
			// Error occured, might be validation or server error
			err, ok := err.(errors.ErrorResponse)
			if !ok {
				// Type assertion error
				gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
				return
			}
			gctx.AbortWithStatusJSON(err.Status, err)
			return
		}

		gctx.JSON(http.StatusCreated, gin.H{"event": normalized})
	}
}

// getEvent returns a handler which fetches a single event by id.
func getEvent(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		e, err := service.Get(gctx, gctx.Param("id"))
		if err != nil {
			err, ok := err.(errors.ErrorResponse)
			if !ok {
				gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
				return
			}
			gctx.AbortWithStatusJSON(err.Status, err)
			return
		}

		gctx.JSON(http.StatusOK, gin.H{"event": e})
	}
}

// deleteEvent returns a handler which serves the administrative event removal.
func deleteEvent(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		if err := service.Remove(gctx, gctx.Param("id")); err != nil {
			err, ok := err.(errors.ErrorResponse)
			if !ok {
				gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
				return
			}
			gctx.AbortWithStatusJSON(err.Status, err)
			return
		}

		gctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
	}
}

// statsSummary returns a handler which serves the windowed aggregate statistics.
func statsSummary(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		summary, err := service.Summary(gctx)
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
			return
		}

		gctx.JSON(http.StatusOK, gin.H{"stats": summary})
	}
}
