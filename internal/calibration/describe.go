package calibration

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// RangeDescription is shown under the reset button regardless of calibration state.
const RangeDescription = "Range within (pitch) ↕ 5˚ (yaw) ↔ 4˚"

// Location returns pitch and yaw in degrees.
func (c LiveCalibration) Location() (pitch, yaw float64) {
	if len(c.RPY) < 3 {
		return 0, 0
	}

	return float64(c.RPY[1]) * 180 / math.Pi, float64(c.RPY[2]) * 180 / math.Pi
}

// Describe appends the current calibration location to base when blob holds a calibrated
// liveCalibration event. Undecodable blobs are logged and leave base untouched.
func Describe(base string, blob []byte, logger *slog.Logger) string {
	if len(blob) == 0 {
		return base
	}
	if logger == nil {
		logger = slog.Default()
	}

	cal, err := Decode(blob)
	if err != nil {
		logger.Info("calibration status is invalid", "error", err)
		return base
	}
	if cal.Status == 0 {
		return base
	}

	pitch, yaw := cal.Location()

	return base + fmt.Sprintf("\nThe current calibration location is [ %s %s° / %s %s° ]",
		arrow(pitch, "↑", "↓"), formatAngle(pitch),
		arrow(yaw, "→", "←"), formatAngle(yaw),
	)
}

func arrow(v float64, positive, negative string) string {
	if v > 0 {
		return positive
	}

	return negative
}

// formatAngle prints |v| with one significant digit.
func formatAngle(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'g', 1, 64)
}
