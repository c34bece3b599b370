// Package sensors converts raw sensor readings into the planar measurements
// the factor layer consumes: GPS fixes become absolute pose priors and
// successive wheel-odometry poses become relative pose measurements.
package sensors

import (
	"context"
	"math"
	"time"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.viam.com/rdk/logging"
	goutils "go.viam.com/utils"

	"github.com/viam-modules/planar-slam/geometry"
)

const kmToM = 1000.0

// TimedFixReadingResponse represents a GPS fix with the time the reading is
// from. CompassHeading is in degrees clockwise from north.
type TimedFixReadingResponse struct {
	Fix            *geo.Point
	CompassHeading float64
	ReadingTime    time.Time
}

// TimedFixSource describes a sensor producing timestamped GPS fixes.
type TimedFixSource interface {
	TimedFixReading(ctx context.Context) (TimedFixReadingResponse, error)
}

// ValidateFixSource checks every interval whether the provided source returns
// a valid fix, until either success or timeout has elapsed. Returns an error
// if no valid fix was returned.
func ValidateFixSource(
	ctx context.Context,
	src TimedFixSource,
	timeout time.Duration,
	interval time.Duration,
	logger logging.Logger,
) error {
	ctx, span := trace.StartSpan(ctx, "planarslam::sensors::ValidateFixSource")
	defer span.End()

	startTime := time.Now().UTC()

	for {
		_, err := src.TimedFixReading(ctx)
		if err == nil {
			break
		}

		logger.Debugw("ValidateFixSource hit error: ", "error", err)
		if time.Since(startTime) >= timeout {
			return errors.Wrap(err, "ValidateFixSource timeout")
		}
		if !goutils.SelectContextOrWait(ctx, interval) {
			return ctx.Err()
		}
	}

	return nil
}

// Origin fixes the local planar frame a trajectory is estimated in: the
// reference GPS point maps to (0, 0), x points east, y points north, and
// headings are counterclockwise from +x.
type Origin struct {
	reference *geo.Point
}

// NewOrigin returns an origin at the given latitude and longitude.
func NewOrigin(lat, lng float64) Origin {
	return Origin{reference: geo.NewPoint(lat, lng)}
}

// Planar expresses a fix in the origin's local frame, in meters.
func (o Origin) Planar(fix *geo.Point) geometry.Point2 {
	distance := o.reference.GreatCircleDistance(fix) * kmToM
	bearing := geometry.DegToRad(o.reference.BearingTo(fix)) // clockwise from north
	return geometry.Point2{X: distance * math.Sin(bearing), Y: distance * math.Cos(bearing)}
}

// PlanarPose expresses a fix plus compass heading as a planar pose in the
// origin's local frame.
func (o Origin) PlanarPose(fix *geo.Point, compassHeadingDeg float64) geometry.Pose2 {
	p := o.Planar(fix)
	return geometry.Pose2{
		X: p.X, Y: p.Y,
		Theta: geometry.StandardizeRadians(math.Pi/2 - geometry.DegToRad(compassHeadingDeg)),
	}
}
