// Exposes all of the REST APIs related to camera health snapshots in Argus.

package camera

import (
	"Argus/internal/errors"
	"Argus/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Registers all of the REST API handlers related to internal package camera onto the gin server.
func APIHandlers(router *gin.Engine, service Service, authWithAcc gin.HandlerFunc, logger log.Logger) {
	cameraGroup := router.Group("/api/cameras", authWithAcc)
	{
		cameraGroup.GET("/:id/stats/latest", latestStats(service, logger))
	}
}

// latestStats returns a handler which serves the latest cached snapshot of a camera.
func latestStats(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		stats, err := service.Latest(gctx, gctx.Param("id"))
		if err != nil {
			err, ok := err.(errors.ErrorResponse)
			if !ok {
				gctx.AbortWithStatusJSON(http.StatusInternalServerError, errors.InternalServerError(""))
				return
			}
			gctx.AbortWithStatusJSON(err.Status, err)
			return
		}

		gctx.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}
