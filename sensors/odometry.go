package sensors

import (
	"github.com/viam-modules/planar-slam/geometry"
)

// Odometry accumulates successive absolute wheel-odometry poses and emits the
// relative measurement between consecutive ones, which is what a relative
// pose factor consumes.
type Odometry struct {
	last *geometry.Pose2
}

// Update records the next absolute pose. It returns the relative pose since
// the previous update, expressed in the previous pose's frame; ok is false on
// the first update, when there is no previous pose yet.
func (o *Odometry) Update(pose geometry.Pose2) (rel geometry.Pose2, ok bool) {
	if o.last == nil {
		p := pose
		o.last = &p
		return geometry.Pose2{}, false
	}
	rel = pose.Ominus(*o.last)
	p := pose
	o.last = &p
	return rel, true
}

// Reset forgets the previous pose, e.g. after a tracking loss.
func (o *Odometry) Reset() {
	o.last = nil
}
