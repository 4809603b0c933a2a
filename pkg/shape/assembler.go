// Package shape chains a Shape's oriented half-edges into closed (or
// diagnosed-open) subpaths per fill index.
package shape

import (
	"math"

	"xflscene/pkg/scene"
)

// epsilon is the endpoint-coincidence tolerance used while chaining,
// measured with the L1 (taxicab) metric.
const epsilon = 1.0

// Contribution is one oriented traversal of an edge contributing to a
// single fill index.
type Contribution struct {
	EdgeIndex int
	Commands  []scene.PathCommand
	StartX, StartY float64
	EndX, EndY     float64
}

// Chain is an ordered sequence of contributions forming one subpath.
type Chain struct {
	Contributions []Contribution
	Closed        bool
}

// Diagnostic records a subpath that could not be closed within epsilon.
type Diagnostic struct {
	FillIndex int
	ChainIndex int
	GapX, GapY float64
}

// Result is the per-fill output of Assemble.
type Result struct {
	Chains      map[int][]Chain
	Diagnostics []Diagnostic
}

// Assemble derives contributions for every fill index referenced by s's
// edges and chains them into subpaths via nearest-endpoint matching.
func Assemble(s scene.Shape) Result {
	byFill := deriveContributions(s)

	result := Result{Chains: make(map[int][]Chain)}
	for fill, contributions := range byFill {
		chains, diags := chainContributions(fill, contributions)
		result.Chains[fill] = chains
		result.Diagnostics = append(result.Diagnostics, diags...)
	}
	return result
}

// deriveContributions implements the oriented half-edge contribution rule
// (§4.2): fillStyle1 contributes the edge forward, fillStyle0 contributes
// it reversed, provided the two differ.
func deriveContributions(s scene.Shape) map[int][]Contribution {
	out := make(map[int][]Contribution)
	for idx, e := range s.Edges {
		if e.FillStyle1 != 0 {
			if c, ok := forwardContribution(idx, e); ok {
				out[e.FillStyle1] = append(out[e.FillStyle1], c)
			}
		}
		if e.FillStyle0 != 0 && e.FillStyle0 != e.FillStyle1 {
			if c, ok := reverseContribution(idx, e); ok {
				out[e.FillStyle0] = append(out[e.FillStyle0], c)
			}
		}
	}
	return out
}

func forwardContribution(edgeIndex int, e scene.Edge) (Contribution, bool) {
	sx, sy, ok1 := e.FirstPoint()
	ex, ey, ok2 := e.LastPoint()
	if !ok1 || !ok2 {
		return Contribution{}, false
	}
	return Contribution{
		EdgeIndex: edgeIndex,
		Commands:  e.Commands,
		StartX:    sx, StartY: sy,
		EndX: ex, EndY: ey,
	}, true
}

// reverseContribution walks e's commands backwards, mirroring curve control
// points per PathCommand.Reverse, so the contribution's start is e's last
// point and its end is e's first point.
func reverseContribution(edgeIndex int, e scene.Edge) (Contribution, bool) {
	sx, sy, ok1 := e.LastPoint()
	ex, ey, ok2 := e.FirstPoint()
	if !ok1 || !ok2 {
		return Contribution{}, false
	}

	// Collect the endpoints of every command with one (skipping Close),
	// paired with the command preceding it, then walk that list backwards
	// emitting reversed commands whose new endpoint is the prior point.
	type step struct {
		cmd       scene.PathCommand
		prevX, prevY float64
	}
	var steps []step
	px, py := 0.0, 0.0
	for _, c := range e.Commands {
		if x, y, ok := c.EndPoint(); ok {
			steps = append(steps, step{cmd: c, prevX: px, prevY: py})
			px, py = x, y
		}
	}

	reversed := make([]scene.PathCommand, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		newEnd := scene.PathCommand{X: s.prevX, Y: s.prevY}
		reversed = append(reversed, s.cmd.Reverse(newEnd))
	}

	return Contribution{
		EdgeIndex: edgeIndex,
		Commands:  reversed,
		StartX:    sx, StartY: sy,
		EndX: ex, EndY: ey,
	}, true
}

// chainContributions implements the nearest-endpoint chaining algorithm
// (§4.2 steps 1-3): repeatedly extend the current chain by the unused
// contribution whose start is closest (L1) to the chain's running end,
// breaking ties by smallest |dx|+|dy|; start a new chain when none match
// within epsilon.
func chainContributions(fill int, contributions []Contribution) ([]Chain, []Diagnostic) {
	used := make([]bool, len(contributions))
	var chains []Chain
	var diags []Diagnostic

	for {
		start := firstUnused(used)
		if start == -1 {
			break
		}
		used[start] = true
		chain := Chain{Contributions: []Contribution{contributions[start]}}
		endX, endY := contributions[start].EndX, contributions[start].EndY

		for {
			next, dist := nearestUnused(contributions, used, endX, endY)
			if next == -1 || dist > epsilon {
				break
			}
			used[next] = true
			chain.Contributions = append(chain.Contributions, contributions[next])
			endX, endY = contributions[next].EndX, contributions[next].EndY
		}

		startX, startY := chain.Contributions[0].StartX, chain.Contributions[0].StartY
		gapX, gapY := endX-startX, endY-startY
		if math.Abs(gapX)+math.Abs(gapY) <= epsilon {
			chain.Closed = true
		} else {
			diags = append(diags, Diagnostic{
				FillIndex: fill, ChainIndex: len(chains),
				GapX: gapX, GapY: gapY,
			})
		}
		chains = append(chains, chain)
	}
	return chains, diags
}

func firstUnused(used []bool) int {
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// nearestUnused finds the lowest-L1-distance unused contribution start to
// (x, y), at any distance (the caller applies the epsilon check), and
// returns its index and distance, ties broken by index order (which the
// linear scan already preserves since it only replaces on strictly-smaller
// distance).
func nearestUnused(contributions []Contribution, used []bool, x, y float64) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range contributions {
		if used[i] {
			continue
		}
		d := math.Abs(c.StartX-x) + math.Abs(c.StartY-y)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}
