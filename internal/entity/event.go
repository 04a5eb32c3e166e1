// Structure of Event Model in Argus.

package entity

import "time"

// Types of events produced by the inference pipeline.
const (
	EventTypeFaceDetected  = "face_detected"
	EventTypeCameraOffline = "camera_offline"
	EventTypeStreamError   = "stream_error"
	EventTypeCameraStats   = "camera_stats"
)

// Event is an immutable, timestamped record of a detection or status change, keyed to a camera.
// ID and Timestamp are assigned during ingestion if the producer left them empty.
type Event struct {
	ID         string                 `json:"id" valid:"-"`
	Type       string                 `json:"type" valid:"required,eventtype~type:Unknown event type"`
	CameraID   string                 `json:"cameraId" valid:"required,printableascii~cameraId:Couldn't validate camera id"`
	CameraName string                 `json:"cameraName,omitempty" valid:"-"`
	Message    string                 `json:"message" valid:"required"`
	Confidence float64                `json:"confidence,omitempty" valid:"confidencerange~confidence:Confidence has to be in range [0 - 1]"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" valid:"-"`
	Timestamp  time.Time              `json:"timestamp" valid:"-"`
	// Optional audience, targets the push to a single user instead of every dashboard.
	UserID string `json:"userId,omitempty" valid:"-"`
}

// EventSearch carries the filter and pagination parameters of an event listing query.
// Filters form a conjunction, zero-values are skipped.
type EventSearch struct {
	Type      string    `form:"type" json:"type,omitempty"`
	CameraID  string    `form:"cameraId" json:"cameraId,omitempty"`
	StartDate time.Time `form:"startDate" json:"startDate,omitempty" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   time.Time `form:"endDate" json:"endDate,omitempty" time_format:"2006-01-02T15:04:05Z07:00"`
	Page      int       `form:"page,default=1" json:"page"`
	Limit     int       `form:"limit,default=20" json:"limit"`
}

// Pagination block returned alongside every event listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// EventSummary holds the windowed aggregate counters served by the stats endpoint.
// The four time windows are computed independently, an event can count in several.
type EventSummary struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ThisWeek  int64            `json:"thisWeek"`
	ThisMonth int64            `json:"thisMonth"`
	ByType    map[string]int64 `json:"byType"`
	ByCamera  map[string]int64 `json:"byCamera"`
}
