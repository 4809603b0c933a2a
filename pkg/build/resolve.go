package build

import (
	"fmt"
	"strings"

	"xflscene/pkg/registry"
	"xflscene/pkg/resolve"
	"xflscene/pkg/scene"
	"xflscene/pkg/shape"
)

const maxResolveDepth = 10

// Drawable is one flattened, paint-ordered record of ResolveFrame's output:
// a DisplayElement with its matrix/colorTransform/blendMode/filters already
// composed down from every enclosing symbol instance, per §6.
type Drawable struct {
	Kind           scene.ElementKind
	Matrix         scene.Matrix
	ColorTransform scene.ColorTransform
	BlendMode      scene.BlendMode
	Filters        []scene.Filter

	Shape *scene.Shape
	Text  *scene.Text

	LibraryItemName string // set for Bitmap/Video kinds
	BitmapItem      *scene.BitmapItem
	VideoItem       *scene.VideoItem
}

// ShapeGap is one unclosed-subpath diagnostic surfaced from shape assembly
// (§4.2) while flattening a frame.
type ShapeGap struct {
	Drawable int // index into ResolvedFrame.Drawables
	shape.Diagnostic
}

// ResolvedFrame is ResolveFrame's output: the renderer's entry point.
type ResolvedFrame struct {
	Drawables []Drawable

	// ShapeGaps collects every unclosed-gap diagnostic (§4.2) across every
	// shape drawable, so a host can surface fidelity warnings without
	// re-walking the Document.
	ShapeGaps []ShapeGap

	// FailedBitmaps names every library path whose BitmapItem carries no
	// raster (ErrBitmapRecoveryFailed or SkipBitmaps), referenced by a
	// drawable in this frame.
	FailedBitmaps []string
}

// ResolveFrame flattens timelinePath's frame at frameIndex into paint order,
// recursing into nested symbol instances under loop/playOnce/singleFrame
// semantics (§4.6) up to a depth of 10. timelinePath is either empty (the
// document's main stage), the Name of one of doc.Timelines, or a library
// item name resolving through doc.Symbols.
func ResolveFrame(doc *scene.Document, timelinePath string, frameIndex int) (*ResolvedFrame, error) {
	timeline, err := findTimeline(doc, timelinePath)
	if err != nil {
		return nil, err
	}

	out := &ResolvedFrame{}
	flattenTimeline(doc, timeline, frameIndex, scene.Identity(), scene.IdentityColorTransform(), scene.BlendNormal, nil, 0, out)
	return out, nil
}

func findTimeline(doc *scene.Document, timelinePath string) (scene.Timeline, error) {
	if timelinePath == "" {
		if len(doc.Timelines) == 0 {
			return scene.Timeline{}, fmt.Errorf("document has no timelines")
		}
		return doc.Timelines[0], nil
	}
	for _, t := range doc.Timelines {
		if t.Name == timelinePath {
			return t, nil
		}
	}
	if symbol, ok := lookupSymbol(doc, timelinePath); ok {
		return symbol.Timeline, nil
	}
	return scene.Timeline{}, fmt.Errorf("timeline %q not found", timelinePath)
}

func lookupSymbol(doc *scene.Document, name string) (*scene.Symbol, bool) {
	if s, ok := doc.Symbols[name]; ok {
		return s, true
	}
	target := registry.Normalise(name)
	if s, ok := doc.Symbols[target]; ok {
		return s, true
	}
	for key, s := range doc.Symbols {
		if strings.EqualFold(registry.Normalise(key), target) {
			return s, true
		}
	}
	return nil, false
}

// flattenTimeline walks every non-reference layer's frame at frameIndex,
// accumulating matrix/colorTransform/blendMode/filters down through nested
// symbol instances (§4.4 document order, §4.6 frame resolution). Layers
// paint bottom-up: highest index first.
func flattenTimeline(
	doc *scene.Document,
	timeline scene.Timeline,
	frameIndex int,
	accMatrix scene.Matrix,
	accColor scene.ColorTransform,
	accBlend scene.BlendMode,
	accFilters []scene.Filter,
	depth int,
	out *ResolvedFrame,
) {
	if depth > maxResolveDepth {
		return
	}

	for i := len(timeline.Layers) - 1; i >= 0; i-- {
		layer := timeline.Layers[i]
		if timeline.IsReferenceLayer(i) || !layer.Visible {
			continue
		}
		frame, ok := layer.FrameAt(frameIndex)
		if !ok {
			continue
		}
		for _, el := range frame.Elements {
			flattenElement(doc, el, frameIndex, frame.Index, accMatrix, accColor, accBlend, accFilters, depth, out)
		}
	}
}

func flattenElement(
	doc *scene.Document,
	el scene.DisplayElement,
	parentFrameIndex, keyframeStart int,
	accMatrix scene.Matrix,
	accColor scene.ColorTransform,
	accBlend scene.BlendMode,
	accFilters []scene.Filter,
	depth int,
	out *ResolvedFrame,
) {
	switch el.Kind {
	case scene.ElementShape:
		if el.Shape == nil {
			return
		}
		m := el.Shape.Matrix.Compose(accMatrix)
		idx := len(out.Drawables)
		out.Drawables = append(out.Drawables, Drawable{
			Kind: scene.ElementShape, Matrix: m,
			ColorTransform: accColor, BlendMode: accBlend, Filters: accFilters,
			Shape: el.Shape,
		})
		result := shape.Assemble(*el.Shape)
		for _, diag := range result.Diagnostics {
			out.ShapeGaps = append(out.ShapeGaps, ShapeGap{Drawable: idx, Diagnostic: diag})
		}

	case scene.ElementBitmap:
		if el.Bitmap == nil {
			return
		}
		m := el.Bitmap.Matrix.Compose(accMatrix)
		item, _ := lookupBitmap(doc, el.Bitmap.LibraryItemName)
		if item != nil && item.Raster == nil {
			out.FailedBitmaps = append(out.FailedBitmaps, el.Bitmap.LibraryItemName)
		}
		out.Drawables = append(out.Drawables, Drawable{
			Kind: scene.ElementBitmap, Matrix: m,
			ColorTransform: accColor, BlendMode: accBlend, Filters: accFilters,
			LibraryItemName: el.Bitmap.LibraryItemName, BitmapItem: item,
		})

	case scene.ElementText:
		if el.Text == nil {
			return
		}
		m := el.Text.Matrix.Compose(accMatrix)
		out.Drawables = append(out.Drawables, Drawable{
			Kind: scene.ElementText, Matrix: m,
			ColorTransform: accColor, BlendMode: accBlend, Filters: accFilters,
			Text: el.Text,
		})

	case scene.ElementVideo:
		if el.Video == nil {
			return
		}
		m := el.Video.Matrix.Compose(accMatrix)
		out.Drawables = append(out.Drawables, Drawable{
			Kind: scene.ElementVideo, Matrix: m,
			ColorTransform: accColor, BlendMode: accBlend, Filters: accFilters,
			LibraryItemName: el.Video.LibraryItemName,
		})

	case scene.ElementSymbol:
		flattenSymbolInstance(doc, el.Symbol, parentFrameIndex, keyframeStart, accMatrix, accColor, accBlend, accFilters, depth, out)
	}
}

func flattenSymbolInstance(
	doc *scene.Document,
	inst *scene.SymbolInstance,
	parentFrameIndex, keyframeStart int,
	accMatrix scene.Matrix,
	accColor scene.ColorTransform,
	accBlend scene.BlendMode,
	accFilters []scene.Filter,
	depth int,
	out *ResolvedFrame,
) {
	if inst == nil || !inst.IsVisible {
		return
	}
	symbol, ok := lookupSymbol(doc, inst.LibraryItemName)
	if !ok {
		return
	}

	inner := resolve.RecursiveFrame(resolve.Instance{
		SymbolType: inst.SymbolType,
		Loop:       inst.Loop,
		FirstFrame: inst.FirstFrame,
		LastFrame:  inst.LastFrame,
	}, parentFrameIndex, keyframeStart, symbol.Timeline.TotalFrames, depth)
	if inner < 0 {
		return
	}

	matrix := inst.Matrix.Compose(accMatrix)
	colorTransform := inst.ColorTransform.Compose(accColor)
	blend := accBlend
	if inst.BlendMode != scene.BlendNormal {
		blend = inst.BlendMode
	}
	filters := accFilters
	if len(inst.Filters) > 0 {
		filters = append(append([]scene.Filter{}, accFilters...), inst.Filters...)
	}

	flattenTimeline(doc, symbol.Timeline, inner, matrix, colorTransform, blend, filters, depth+1, out)
}

func lookupBitmap(doc *scene.Document, name string) (*scene.BitmapItem, bool) {
	if item, ok := doc.Bitmaps[name]; ok {
		return item, true
	}
	target := registry.Normalise(name)
	if item, ok := doc.Bitmaps[target]; ok {
		return item, true
	}
	for key, item := range doc.Bitmaps {
		if strings.EqualFold(registry.Normalise(key), target) {
			return item, true
		}
	}
	return nil, false
}
