// Package main builds a small demonstration planar SLAM factor graph (a
// prior, an odometry chain, landmark observations and a two-session anchored
// merge) and writes its textual form to stdout.
package main

import (
	"context"
	"math"
	"os"

	"go.viam.com/rdk/logging"
	goutils "go.viam.com/utils"

	"github.com/viam-modules/planar-slam/config"
	"github.com/viam-modules/planar-slam/factor"
	"github.com/viam-modules/planar-slam/geometry"
	"github.com/viam-modules/planar-slam/graph"
	"github.com/viam-modules/planar-slam/telemetry"
)

// Versioning variables which are replaced by LD flags.
var (
	Version     = "development"
	GitRevision = ""
)

func main() {
	goutils.ContextualMain(mainWithArgs, logging.NewLogger("planar-slam"))
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	if Version != "" {
		logger.Infow("planar-slam demo", "version", Version, "git_rev", GitRevision)
	}

	exporter, err := telemetry.SetupTelemetry()
	if err != nil {
		return err
	}
	defer exporter.Stop()

	poseInf, err := config.SqrtInfFromSigmas([]float64{0.1, 0.1, 0.01})
	if err != nil {
		return err
	}
	pointInf, err := config.SqrtInfFromSigmas([]float64{0.2, 0.2})
	if err != nil {
		return err
	}

	g := graph.NewGraph(logger)

	// session one: a prior fixes the gauge, odometry extends the chain
	p0 := g.NewPose2Node()
	prior, err := factor.NewPosePrior(p0, geometry.Pose2{}, poseInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, prior); err != nil {
		return err
	}

	previous := p0
	steps := []geometry.Pose2{
		{X: 1},
		{X: 1, Theta: math.Pi / 2},
		{X: 1, Theta: math.Pi / 2},
	}
	for _, step := range steps {
		next := g.NewPose2Node()
		odo, err := factor.NewPosePose(previous, next, step, poseInf)
		if err != nil {
			return err
		}
		if err := g.AddFactor(ctx, odo); err != nil {
			return err
		}
		previous = next
	}

	// a landmark seen from the first and last pose
	lm := g.NewPoint2Node()
	obs0, err := factor.NewPosePoint(p0, lm, geometry.Point2{X: 2, Y: 1}, pointInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, obs0); err != nil {
		return err
	}
	obs1, err := factor.NewPosePoint(previous, lm, geometry.Point2{X: 1, Y: -1}, pointInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, obs1); err != nil {
		return err
	}

	// session two lives in its own relative frame; an encounter with session
	// one ties the frames together through a pair of anchors
	anchor1 := g.NewPose2Node()
	anchorPrior, err := factor.NewPosePrior(anchor1, geometry.Pose2{}, poseInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, anchorPrior); err != nil {
		return err
	}

	anchor2 := g.NewPose2Node()
	s2p0 := g.NewPose2Node()
	s2prior, err := factor.NewPosePrior(s2p0, geometry.Pose2{}, poseInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, s2prior); err != nil {
		return err
	}

	merge, err := factor.NewAnchoredPosePose(p0, s2p0, anchor1, anchor2,
		geometry.Pose2{X: 0.5, Y: 0.5, Theta: math.Pi / 4}, poseInf)
	if err != nil {
		return err
	}
	if err := g.AddFactor(ctx, merge); err != nil {
		return err
	}

	logger.Infof("built graph with %d nodes and %d factors", len(g.Nodes()), len(g.Factors()))
	return g.Write(os.Stdout)
}
