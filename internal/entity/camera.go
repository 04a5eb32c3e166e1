// Structure of Camera statistics Model in Argus.

package entity

import "time"

// CameraStats is the latest-known health snapshot of a single camera.
// Superseded in place by the next snapshot for the same camera id, never historized.
// Saved in DB as camera_stats:<camera_id>
type CameraStats struct {
	Type      string    `json:"type" redis:"-"`
	CameraID  string    `json:"cameraId" redis:"camera_id" valid:"required"`
	FrameRate float64   `json:"frameRate" redis:"frame_rate"`
	Bitrate   int64     `json:"bitrate" redis:"bitrate"`
	Online    bool      `json:"online" redis:"online"`
	Timestamp time.Time `json:"timestamp" redis:"-"`
}
