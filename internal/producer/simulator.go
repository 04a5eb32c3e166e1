// Simulated event producer of Argus. Stands in for the real inference workers
// during demos and local development, pushing fake detections and health
// snapshots through the same ingestion pipeline the workers would use.

package producer

import (
	"Argus/internal/entity"
	"Argus/pkg/log"
	"context"
	"math/rand"
	"time"
)

// Ingestor is the slice of the event pipeline the simulator produces into.
type Ingestor interface {
	Ingest(ctx context.Context, e entity.Event) (entity.Event, error)
}

// Camera identifies one simulated feed.
type Camera struct {
	ID   string
	Name string
}

// DemoCameras is the fixed feed set used when no camera list is configured.
var DemoCameras = []Camera{
	{ID: "cam-1", Name: "Front Entrance"},
	{ID: "cam-2", Name: "Parking Lot"},
	{ID: "cam-3", Name: "Loading Dock"},
}

// Simulator periodically produces fake face detections and camera stats.
type Simulator struct {
	ingestor Ingestor
	cameras  []Camera
	interval time.Duration
	rng      *rand.Rand
	logger   log.Logger
}

// NewSimulator returns a simulator pushing into the given ingestor.
func NewSimulator(ingestor Ingestor, cameras []Camera, interval time.Duration, logger log.Logger) *Simulator {
	return &Simulator{
		ingestor: ingestor,
		cameras:  cameras,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
}

// Run produces events until the context is cancelled.
// Meant to be launched in its own goroutine from main.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info().Msgf("Simulated producer running with %d cameras at %s intervals", len(s.cameras), s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Simulated producer stopped.")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	for _, cam := range s.cameras {
		// Occasional detection, detections are rarer than health snapshots
		if s.rng.Float64() > 0.7 {
			s.produce(ctx, s.detection(cam))
		}
		s.produce(ctx, s.stats(cam))
	}
}

func (s *Simulator) produce(ctx context.Context, e entity.Event) {
	if _, err := s.ingestor.Ingest(ctx, e); err != nil {
		s.logger.WithCtx(ctx).Error().Err(err).Msgf("Simulated %s event got rejected by the pipeline", e.Type)
	}
}

// detection fakes one face detection with 70-100% confidence and a random bounding box.
func (s *Simulator) detection(cam Camera) entity.Event {
	return entity.Event{
		Type:       entity.EventTypeFaceDetected,
		CameraID:   cam.ID,
		CameraName: cam.Name,
		Message:    "Face detected in camera feed",
		Confidence: 0.7 + s.rng.Float64()*0.3,
		Metadata: map[string]interface{}{
			"boundingBox": map[string]interface{}{
				"x":      s.rng.Intn(400),
				"y":      s.rng.Intn(300),
				"width":  80 + s.rng.Intn(40),
				"height": 100 + s.rng.Intn(50),
			},
		},
	}
}

// stats fakes one camera health snapshot.
func (s *Simulator) stats(cam Camera) entity.Event {
	return entity.Event{
		Type:       entity.EventTypeCameraStats,
		CameraID:   cam.ID,
		CameraName: cam.Name,
		Message:    "Camera stats snapshot",
		Metadata: map[string]interface{}{
			"frameRate": 24 + s.rng.Float64()*6,
			"bitrate":   float64(1500 + s.rng.Intn(1000)),
			"online":    true,
		},
	}
}
