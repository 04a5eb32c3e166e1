// List of all REST API endpoints being used by Argus can be found here.

package main

import (
	"Argus/internal/auth"
	"Argus/internal/camera"
	"Argus/internal/event"
	"Argus/internal/ws"
	"Argus/pkg/db"
	"Argus/pkg/log"
	"Argus/pkg/middlewares"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// Router wires every layer of Argus together and registers all of the REST API
// groups and paths onto the gin server. Returns the event service so that main
// can hand it to the simulated producer.
func Router(router *gin.Engine, dbConnWrp *db.RedisDB, wsConfig ws.Config, logger log.Logger) event.Service {
	router.Use(middlewares.CORSMiddleware(os.Getenv("CLIENT_ORIGIN")))
	router.Use(middlewares.CorrelationMiddleware())

	// Repositories needed by the services below to work
	authRepo := auth.NewRepository(dbConnWrp)
	wsRepo := ws.NewRepository(dbConnWrp)
	cameraRepo := camera.NewRepository(dbConnWrp)

	// Token verification is an external collaborator from the core's point of
	// view. Without a signing key Argus runs in demo mode and trusts the
	// client-supplied identity on the live channel.
	var verifier auth.Verifier
	authWithAcc := auth.NoopMiddleware()
	if secret := os.Getenv("ACCESS_SECRET_KEY"); secret != "" {
		verifier = auth.NewVerifier(secret, authRepo, logger)
		authWithAcc = auth.Middleware(logger, verifier)
	} else {
		logger.Warn().Msg("No ACCESS_SECRET_KEY configured, running in demo mode with trusted identities.")
	}

	// The real-time event distribution core
	registry := ws.NewRegistry(logger)
	dispatcher := ws.NewDispatcher(registry, logger)
	cameraService := camera.NewService(cameraRepo, dispatcher, logger)
	eventStore := event.NewStore()
	eventService := event.NewService(eventStore, dispatcher, cameraService, logger)

	// Register handlers of every API group
	ws.APIHandlers(router, registry, verifier, wsRepo, wsConfig, logger)
	event.APIHandlers(router, eventService, authWithAcc, logger)
	camera.APIHandlers(router, cameraService, authWithAcc, logger)

	// This is the route to default path
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return eventService
}
