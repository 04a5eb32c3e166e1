// The main file of Argus.

package main

import (
	"Argus/internal/config"
	"Argus/internal/event"
	"Argus/internal/producer"
	"Argus/internal/ws"
	"Argus/pkg/cleanup"
	"Argus/pkg/db"
	"Argus/pkg/log"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	// Indicates the current version of Argus.
	Version = "1.0.0"
	// Address and Port to be used by gin.
	srvaddr, srvport string
)

func main() {
	// This is the preferred mode used by gin server in DEV environment.
	if os.Getenv("ENV") == "DEV" {
		config.LoadDevConfig()
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.New(Version)
	if len(os.Getenv("ENV")) == 0 {
		logger.Fatal().Err(errors.New("os couldn't load ENV.")).Msg("")
	}
	logger.Info().Msg(fmt.Sprintf("Welcome to Argus: v%s", Version))
	logger.Info().Msg(fmt.Sprintf("Argus Environment: %s", os.Getenv("ENV")))

	ctx := context.Background()

	// Db client instance
	dbConnWrp, dberr := db.NewDbConnection(ctx, logger)
	if dberr != nil {
		logger.Fatal().Err(dberr).Msg("Couldn't initialize the DB connection.")
	}
	// Sending a PING request to DB for connection status check
	if dberr = dbConnWrp.CheckDbConnection(ctx, logger); dberr != nil {
		logger.Fatal().Err(dberr).Msg("Redis client couldn't PING the redis-server.")
	}

	// Register the custom validation tags used during event ingestion
	event.RegisterCustomValidations(ctx, logger)

	// Fetching addr and port depending upon env flag.
	srvaddr, srvport = os.Getenv("SRV_ADDR"), os.Getenv("SRV_PORT")

	// Initializing the gin server.
	server := gin.New()

	// Forcing gin to use custom Logger instead of the default one.
	server.Use(log.LoggerGinExtension(logger))
	server.Use(gin.Recovery())

	// Live channel tunables
	wsConfig := ws.Config{
		AuthGracePeriod: durationEnv(logger, "WS_AUTH_GRACE_PERIOD", 30*time.Second),
		WriteTimeout:    durationEnv(logger, "WS_WRITE_TIMEOUT", 10*time.Second),
		PongTimeout:     durationEnv(logger, "WS_PONG_TIMEOUT", 60*time.Second),
	}

	// Running Router() which routes all of the REST API groups and paths.
	eventService := Router(server, dbConnWrp, wsConfig, logger)

	// Running the server with defined addr and port.
	srv := &http.Server{
		Addr:    srvaddr + ":" + srvport,
		Handler: server,
	}

	// ListenAndServe is a blocking operation, putting it a goroutine
	go func() {
		logger.Info().Msg(fmt.Sprintf("Argus service running at: %s", srvaddr+":"+srvport))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Error in ListenAndServe()")
		}
	}()

	// Simulated producer stands in for the real inference workers in demos.
	simCtx, stopSim := context.WithCancel(ctx)
	if os.Getenv("SIMULATE") == "true" {
		sim := producer.NewSimulator(eventService, producer.DemoCameras, durationEnv(logger, "SIMULATE_INTERVAL", 5*time.Second), logger)
		go sim.Run(simCtx)
	}

	// Graceful shutdown of Argus server triggered due to system interruptions.
	wait := cleanup.GracefulShutdown(ctx, logger, 5*time.Second, map[string]cleanup.Operation{
		"Simulated-producer": func(ctx context.Context) error {
			stopSim()
			return nil
		},
		"Redis-server": func(ctx context.Context) error {
			return dbConnWrp.CloseDbConnection(ctx)
		},
		"Gin": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	<-wait
}

// Helper to parse a duration typed ENV with a fallback default.
func durationEnv(logger log.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, prserr := time.ParseDuration(raw)
	if prserr != nil {
		logger.Fatal().Err(prserr).Msg(fmt.Sprintf("Couldn't parse ENV: %s", key))
	}
	return d
}
