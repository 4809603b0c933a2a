// Package resolve maps a parent timeline frame to the inner frame of a
// referenced symbol, under loop/playOnce/singleFrame semantics (§4.6). It
// is a pure function of its inputs: no archive or registry access.
package resolve

import "xflscene/pkg/scene"

// maxDepth caps symbol-instance recursion (§4.6, §9): authored data can
// contain cyclic symbol references, so depth replaces cycle detection.
const maxDepth = 10

// Instance is the subset of scene.SymbolInstance the resolver needs.
type Instance struct {
	SymbolType scene.SymbolType
	Loop       scene.LoopMode
	FirstFrame int
	LastFrame  int // -1 means absent
}

// Frame resolves instance's inner frame given the parent timeline's current
// frame index and the index at which the containing keyframe started.
// totalFrames is the referenced symbol's totalFrames (must be >= 1).
func Frame(instance Instance, parentFrameIndex, keyframeStartIndex, totalFrames int) int {
	if totalFrames < 1 {
		totalFrames = 1
	}

	first := instance.FirstFrame
	if first < 0 {
		first = 0
	}
	last := totalFrames - 1
	if instance.LastFrame >= 0 && instance.LastFrame < last {
		last = instance.LastFrame
	}
	rang := last - first + 1
	if rang < 1 {
		rang = 1
	}

	offset := parentFrameIndex - keyframeStartIndex

	loop := instance.Loop
	if instance.SymbolType == scene.SymbolMovieClip || instance.SymbolType == scene.SymbolButton {
		loop = scene.LoopSingleFrame
	}

	var inner int
	switch loop {
	case scene.LoopSingleFrame:
		inner = mod(first, totalFrames)
	case scene.LoopPlayOnce:
		inner = first + offset
		if inner > last {
			inner = last
		}
	default: // LoopLoop
		if instance.LastFrame >= 0 {
			inner = first + mod(offset, rang)
		} else {
			inner = mod(first+offset, totalFrames)
		}
	}

	return clamp(inner, 0, totalFrames-1)
}

// RecursiveFrame is Frame plus the depth cap from §4.6/§9: beyond maxDepth
// nested symbol instances, resolution returns -1 (callers should treat that
// as "no inner element list").
func RecursiveFrame(instance Instance, parentFrameIndex, keyframeStartIndex, totalFrames, depth int) int {
	if depth > maxDepth {
		return -1
	}
	return Frame(instance, parentFrameIndex, keyframeStartIndex, totalFrames)
}

func mod(a, m int) int {
	if m <= 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
