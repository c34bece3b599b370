// Package graph owns the construction of a planar SLAM factor graph: node
// creation, factor insertion and the one-time initialization that seeds each
// new node from its already-estimated neighbors. Construction is
// single-threaded by contract; the ordering discipline (reference nodes
// initialized strictly before dependent ones) is what keeps initialization
// safe without locking.
package graph

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.viam.com/rdk/logging"

	"github.com/viam-modules/planar-slam/factor"
	"github.com/viam-modules/planar-slam/node"
)

// Graph is the construction authority of the estimation problem. It
// exclusively owns node creation and hands out non-owning references for
// factors to couple.
type Graph struct {
	logger  logging.Logger
	nextID  int64
	nodes   []node.Node
	factors []factor.Factor
}

// NewGraph returns an empty graph.
func NewGraph(logger logging.Logger) *Graph {
	return &Graph{logger: logger}
}

// NewPose2Node creates an uninitialized pose node owned by the graph.
func (g *Graph) NewPose2Node() *node.Pose2Node {
	n := node.NewPose2Node(g.nextID)
	g.nextID++
	g.nodes = append(g.nodes, n)
	return n
}

// NewPoint2Node creates an uninitialized point node owned by the graph.
func (g *Graph) NewPoint2Node() *node.Point2Node {
	n := node.NewPoint2Node(g.nextID)
	g.nextID++
	g.nodes = append(g.nodes, n)
	return n
}

// AddFactor runs the factor's one-time initialization hook and retains the
// factor. A factor whose preconditions fail (a reference node that should
// already be initialized is not) is rejected and not retained; that always
// indicates a bug in the construction order upstream.
func (g *Graph) AddFactor(ctx context.Context, f factor.Factor) error {
	_, span := trace.StartSpan(ctx, "planarslam::graph::AddFactor")
	defer span.End()

	if err := f.Initialize(); err != nil {
		return errors.Wrapf(err, "adding %s factor", f.Tag())
	}
	g.factors = append(g.factors, f)
	g.logger.Debugf("added %s factor coupling %d nodes", f.Tag(), len(f.Nodes()))
	return nil
}

// Nodes returns the graph's nodes in creation order.
func (g *Graph) Nodes() []node.Node {
	return g.nodes
}

// Factors returns the graph's factors in insertion order.
func (g *Graph) Factors() []factor.Factor {
	return g.factors
}

// Relinearize moves every node's linearization point to its current value,
// typically after the solver has applied an update step.
func (g *Graph) Relinearize() {
	for _, n := range g.nodes {
		n.Relinearize()
	}
}

// Write emits the textual form of the whole graph, nodes then factors, one
// per line.
func (g *Graph) Write(w io.Writer) error {
	for _, n := range g.nodes {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	for _, f := range g.factors {
		if err := f.Write(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
