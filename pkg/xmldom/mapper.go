package xmldom

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"xflscene/pkg/edge"
	"xflscene/pkg/scene"
	"xflscene/pkg/xflerr"
)

// Options carries the feature flags named in §6: ImplicitMoveAfterClose is
// passed to the edge decoder, and edge splitting on style change is applied
// by mapShape after decoding.
type Options struct {
	EnableImplicitMoveAfterClose     bool
	EnableEdgeSplittingOnStyleChange bool
}

// MapDocument parses DOMDocument.xml into the Document's top-level fields
// and its single embedded timeline (symbol timelines are mapped separately
// via MapSymbol, called by package registry).
func MapDocument(data []byte, opts Options) (*scene.Document, error) {
	var dom DOMDocument
	if err := xml.Unmarshal(data, &dom); err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrMalformed, err)
	}

	doc := scene.NewDocument()
	doc.Width = dom.Width
	doc.Height = dom.Height
	doc.FrameRate = dom.FrameRate
	doc.BackgroundColor = parseColor(dom.BackgroundColor, nil)

	timeline := mapTimeline(dom.Timeline, dom.Width, dom.Height, opts)
	doc.Timelines = append(doc.Timelines, timeline)
	return doc, nil
}

// MapSymbol parses a LIBRARY/*.xml document into a Symbol. It is the
// ParseSymbolFunc the registry loads every library entry with.
func MapSymbol(data []byte, opts Options) (*scene.Symbol, error) {
	var dom DOMSymbolItem
	if err := xml.Unmarshal(data, &dom); err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrMalformed, err)
	}

	symbolType := scene.SymbolGraphic
	switch dom.SymbolType {
	case "movie clip":
		symbolType = scene.SymbolMovieClip
	case "button":
		symbolType = scene.SymbolButton
	}

	timeline := mapTimeline(dom.Timeline, 0, 0, opts)
	symbol := &scene.Symbol{
		Name:       dom.Name,
		ItemID:     dom.ItemID,
		SymbolType: symbolType,
		Timeline:   timeline,
	}
	if symbolType == scene.SymbolButton {
		if frame := findHitFrame(timeline); frame != nil {
			symbol.HitAreaFrame = frame
		}
	}
	return symbol, nil
}

func mapTimeline(dom domTimeline, docWidth, docHeight int, opts Options) scene.Timeline {
	timeline := scene.Timeline{
		Name:            dom.Name,
		ReferenceLayers: make(map[int]struct{}),
		TotalFrames:     1,
	}

	layers := make([]scene.Layer, len(dom.Layers))
	for i, dl := range dom.Layers {
		layers[i] = mapLayer(dl, opts)
		if end := layerEnd(layers[i]); end > timeline.TotalFrames {
			timeline.TotalFrames = end
		}
	}

	resolveMasks(layers)
	markReferenceLayers(layers, timeline.ReferenceLayers)
	if docWidth > 0 && docHeight > 0 {
		if camIdx := detectCameraLayer(layers, docWidth, docHeight); camIdx != nil {
			timeline.CameraLayerIndex = camIdx
			timeline.ReferenceLayers[*camIdx] = struct{}{}
		}
	}

	timeline.Layers = layers
	return timeline
}

func layerEnd(l scene.Layer) int {
	end := 0
	for _, f := range l.Frames {
		if e := f.End(); e > end {
			end = e
		}
	}
	return end
}

func mapLayer(dl domLayer, opts Options) scene.Layer {
	kind := scene.LayerNormal
	switch dl.LayerType {
	case "guide":
		kind = scene.LayerGuide
	case "folder":
		kind = scene.LayerFolder
	case "mask":
		kind = scene.LayerMask
	}

	visible := dl.Visible == nil || *dl.Visible
	layer := scene.Layer{
		Name:         dl.Name,
		Color:        parseColor(dl.Color, nil),
		Visible:      visible,
		Locked:       dl.Locked,
		Outline:      dl.Outline,
		Transparent:  dl.AlphaPercent > 0 && dl.AlphaPercent < 100,
		AlphaPercent: int(dl.AlphaPercent),
		Kind:         kind,
	}
	layer.ParentLayerIndex = dl.ParentLayerIndex

	index := 0
	for _, df := range dl.Frames {
		frame := mapFrame(df, opts)
		if frame.Index == 0 && len(layer.Frames) > 0 {
			frame.Index = index
		}
		index = frame.Index + frame.Duration
		layer.Frames = append(layer.Frames, frame)
	}
	return layer
}

func mapFrame(df domFrame, opts Options) scene.Frame {
	duration := df.Duration
	if duration < 1 {
		duration = 1
	}
	tween := scene.TweenNone
	switch df.TweenType {
	case "motion":
		tween = scene.TweenMotion
	case "shape":
		tween = scene.TweenShape
	}

	frame := scene.Frame{
		Index:     df.Index,
		Duration:  duration,
		KeyMode:   scene.KeyMode(df.KeyMode),
		TweenType: tween,
		Elements:  mapElements(df.Elements, scene.Identity(), opts),
	}
	if df.Name != "" {
		frame.Label = df.Name
		frame.LabelKind = parseLabelKind(df.LabelType)
	}
	return frame
}

func parseLabelKind(labelType string) scene.LabelKind {
	switch labelType {
	case "comment":
		return scene.LabelComment
	case "anchor":
		return scene.LabelAnchor
	default:
		return scene.LabelName
	}
}

// mapElements flattens a DOM element list into document-order
// DisplayElements, applying the matrix-composition rule (§4.4): a
// matrix-bearing child uses its matrix directly; a child without one
// inherits the accumulated ancestor*group composition.
func mapElements(elements domElements, inherited scene.Matrix, opts Options) []scene.DisplayElement {
	var out []scene.DisplayElement

	for _, s := range elements.DOMShape {
		m := resolveMatrix(s.Matrix, inherited)
		out = append(out, scene.DisplayElement{
			Kind:  scene.ElementShape,
			Shape: mapShape(s, m, opts),
		})
	}
	for _, si := range elements.DOMSymbolInstance {
		m := resolveMatrix(si.Matrix, inherited)
		out = append(out, scene.DisplayElement{
			Kind:   scene.ElementSymbol,
			Symbol: mapSymbolInstance(si, m),
		})
	}
	for _, bi := range elements.DOMBitmapInstance {
		m := resolveMatrix(bi.Matrix, inherited)
		out = append(out, scene.DisplayElement{
			Kind: scene.ElementBitmap,
			Bitmap: &scene.BitmapInstance{
				Matrix:          m,
				LibraryItemName: bi.LibraryItemName,
			},
		})
	}
	for _, vi := range elements.DOMVideoInstance {
		m := resolveMatrix(vi.Matrix, inherited)
		out = append(out, scene.DisplayElement{
			Kind: scene.ElementVideo,
			Video: &scene.VideoInstance{
				Matrix:          m,
				LibraryItemName: vi.LibraryItemName,
			},
		})
	}
	for _, t := range elements.DOMStaticText {
		m := resolveMatrix(t.Matrix, inherited)
		out = append(out, scene.DisplayElement{Kind: scene.ElementText, Text: mapText(t, m)})
	}
	for _, t := range elements.DOMDynamicText {
		m := resolveMatrix(t.Matrix, inherited)
		out = append(out, scene.DisplayElement{Kind: scene.ElementText, Text: mapText(t, m)})
	}
	for _, t := range elements.DOMInputText {
		m := resolveMatrix(t.Matrix, inherited)
		out = append(out, scene.DisplayElement{Kind: scene.ElementText, Text: mapText(t, m)})
	}
	for _, g := range elements.DOMGroup {
		// The group itself is flattened out; its own matrix becomes the
		// composition basis for matrix-less children (§4.4).
		groupMatrix := inherited
		if g.Matrix != nil {
			groupMatrix = resolveMatrix(g.Matrix, inherited).Compose(inherited)
		}
		out = append(out, mapElements(g.domElements, groupMatrix, opts)...)
	}

	return out
}

// resolveMatrix implements the child-matrix rule: an explicit matrix is
// used as-is; absence means "inherit the accumulated composition".
func resolveMatrix(explicit *domMatrix, inherited scene.Matrix) scene.Matrix {
	if explicit == nil {
		return inherited
	}
	return scene.Matrix{
		A:  deref(explicit.A, 1),
		B:  deref(explicit.B, 0),
		C:  deref(explicit.C, 0),
		D:  deref(explicit.D, 1),
		Tx: deref(explicit.Tx, 0),
		Ty: deref(explicit.Ty, 0),
	}
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func mapText(t domText, m scene.Matrix) *scene.Text {
	text := &scene.Text{Matrix: m, Width: t.Width, Height: t.Height}
	for _, r := range t.Runs {
		text.Runs = append(text.Runs, scene.TextRun{
			Text:     r.Characters,
			FontName: r.Attrs.Face,
			FontSize: r.Attrs.Size,
			Color:    parseColor(r.Attrs.FillColor, r.Attrs.Alpha),
		})
	}
	return text
}

func mapShape(s domShape, m scene.Matrix, opts Options) *scene.Shape {
	shape := &scene.Shape{Matrix: m}

	for _, f := range s.FillStyles {
		shape.FillStyles = append(shape.FillStyles, mapFillStyle(f))
	}
	for _, st := range s.StrokeStyles {
		shape.StrokeStyles = append(shape.StrokeStyles, mapStrokeStyle(st))
	}

	decodeOpts := edge.Options{ImplicitMoveAfterClose: opts.EnableImplicitMoveAfterClose}
	for _, e := range s.Edges {
		raw := e.Edges
		if raw == "" {
			raw = e.Cubics
		}
		result := edge.Decode(raw, decodeOpts)
		sceneEdge := scene.Edge{
			FillStyle0:   derefInt(e.FillStyle0),
			FillStyle1:   derefInt(e.FillStyle1),
			StrokeStyle:  derefInt(e.StrokeStyle),
			Commands:     result.Commands,
			StyleChanges: result.StyleChanges,
		}
		if opts.EnableEdgeSplittingOnStyleChange && len(sceneEdge.StyleChanges) > 0 {
			shape.Edges = append(shape.Edges, splitEdgeOnStyleChanges(sceneEdge)...)
			continue
		}
		shape.Edges = append(shape.Edges, sceneEdge)
	}

	return shape
}

// splitEdgeOnStyleChanges implements the optional feature flag (§4.1,
// §6): each "S N" marker starts a new Edge with fillStyle1 switched to N.
func splitEdgeOnStyleChanges(e scene.Edge) []scene.Edge {
	var out []scene.Edge
	start := 0
	fillStyle1 := e.FillStyle1
	for _, sc := range e.StyleChanges {
		if sc.CommandIndex > start {
			out = append(out, scene.Edge{
				FillStyle0:  e.FillStyle0,
				FillStyle1:  fillStyle1,
				StrokeStyle: e.StrokeStyle,
				Commands:    e.Commands[start:sc.CommandIndex],
			})
		}
		start = sc.CommandIndex
		fillStyle1 = sc.FillStyle1
	}
	if start < len(e.Commands) {
		out = append(out, scene.Edge{
			FillStyle0:  e.FillStyle0,
			FillStyle1:  fillStyle1,
			StrokeStyle: e.StrokeStyle,
			Commands:    e.Commands[start:],
		})
	}
	return out
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func mapFillStyle(f domFillStyle) scene.FillStyle {
	switch {
	case f.SolidColor != nil:
		return scene.FillStyle{Kind: scene.FillSolid, Color: parseColor(f.SolidColor.Color, f.SolidColor.Alpha)}
	case f.LinearGradient != nil:
		return mapGradient(scene.FillLinearGradient, f.LinearGradient)
	case f.RadialGradient != nil:
		return mapGradient(scene.FillRadialGradient, f.RadialGradient)
	case f.BitmapFill != nil:
		return scene.FillStyle{
			Kind:       scene.FillBitmap,
			BitmapName: f.BitmapFill.BitmapPath,
			Clipped:    f.BitmapFill.IsClipped,
			Smoothed:   f.BitmapFill.IsSmoothed,
		}
	default:
		return scene.FillStyle{Kind: scene.FillSolid}
	}
}

func mapGradient(kind scene.FillKind, g *domGradient) scene.FillStyle {
	fs := scene.FillStyle{
		Kind:            kind,
		FocalPointRatio: g.FocalPointRatio,
	}
	fs.Matrix = resolveMatrix(g.Matrix, scene.Identity())
	switch g.Spread {
	case "reflect":
		fs.Spread = scene.SpreadReflect
	case "repeat":
		fs.Spread = scene.SpreadRepeat
	}
	if g.Interpolation == "linearRGB" {
		fs.Interpolation = scene.InterpolationLinearRGB
	}
	for _, e := range g.Entries {
		fs.Stops = append(fs.Stops, scene.GradientStop{
			Ratio: e.Ratio,
			Color: parseColor(e.Color, e.Alpha),
		})
	}
	return fs
}

func mapStrokeStyle(st domStrokeStyle) scene.StrokeStyle {
	if st.SolidStroke == nil {
		return scene.StrokeStyle{}
	}
	s := st.SolidStroke
	out := scene.StrokeStyle{
		Weight:       s.Weight,
		MiterLimit:   s.MiterLimit,
		PixelHinting: s.PixelHinting,
	}
	switch s.Caps {
	case "none":
		out.Caps = scene.CapNone
	case "square":
		out.Caps = scene.CapSquare
	}
	switch s.Joints {
	case "bevel":
		out.Joints = scene.JoinBevel
	case "miter":
		out.Joints = scene.JoinMiter
	}
	switch s.ScaleMode {
	case "horizontal":
		out.ScaleMode = scene.ScaleHorizontal
	case "vertical":
		out.ScaleMode = scene.ScaleVertical
	case "none":
		out.ScaleMode = scene.ScaleNone
	}
	if s.Fill.SolidColor != nil {
		out.Fill = scene.FillStyle{Kind: scene.FillSolid, Color: parseColor(s.Fill.SolidColor.Color, s.Fill.SolidColor.Alpha)}
	}
	return out
}

func mapSymbolInstance(si domSymbolInstance, m scene.Matrix) *scene.SymbolInstance {
	symbolType := scene.SymbolGraphic
	switch si.SymbolType {
	case "movie clip":
		symbolType = scene.SymbolMovieClip
	case "button":
		symbolType = scene.SymbolButton
	}

	loop := scene.LoopLoop
	switch si.Loop {
	case "play once":
		loop = scene.LoopPlayOnce
	case "single frame":
		loop = scene.LoopSingleFrame
	}

	inst := &scene.SymbolInstance{
		LibraryItemName: si.LibraryItemName,
		SymbolType:      symbolType,
		Matrix:          m,
		Loop:            loop,
		FirstFrame:      si.FirstFrame,
		LastFrame:       -1,
		IsVisible:       si.Visible == nil || *si.Visible,
		CacheAsBitmap:   si.CacheAsBitmap,
		ColorTransform:  scene.IdentityColorTransform(),
	}
	if si.LastFrame != nil {
		inst.LastFrame = *si.LastFrame
	}
	if si.TransformationPoint != nil {
		inst.TransformationPointX = si.TransformationPoint.Point.X
		inst.TransformationPointY = si.TransformationPoint.Point.Y
	}
	inst.BlendMode = parseBlendMode(si.BlendMode)
	if si.Filters != nil {
		inst.Filters = mapFilters(*si.Filters)
	}
	if si.Color != nil {
		inst.ColorTransform = mapColorTransform(si.Color)
	}
	return inst
}

func parseBlendMode(name string) scene.BlendMode {
	switch name {
	case "layer":
		return scene.BlendLayer
	case "multiply":
		return scene.BlendMultiply
	case "screen":
		return scene.BlendScreen
	case "lighten":
		return scene.BlendLighten
	case "darken":
		return scene.BlendDarken
	case "difference":
		return scene.BlendDifference
	case "add":
		return scene.BlendAdd
	case "subtract":
		return scene.BlendSubtract
	case "invert":
		return scene.BlendInvert
	case "alpha":
		return scene.BlendAlpha
	case "erase":
		return scene.BlendErase
	case "overlay":
		return scene.BlendOverlay
	case "hardlight":
		return scene.BlendHardLight
	default:
		return scene.BlendNormal
	}
}

// mapFilters flattens the known filter kinds in a fixed kind order
// (DropShadow, Blur, Glow, Bevel, GradientGlow, GradientBevel, Convolution,
// AdjustColor). encoding/xml preserves each slice's own relative order, so
// filters of the same kind keep their document order; the document order
// of filters of different kinds is not preserved.
func mapFilters(list domFilterList) []scene.Filter {
	var out []scene.Filter
	for _, f := range list.DropShadowFilter {
		filter := mapFilter(scene.FilterDropShadow, f)
		filter.Inner = f.Inner
		filter.Knockout = f.Knockout
		out = append(out, filter)
	}
	for _, f := range list.BlurFilter {
		out = append(out, mapFilter(scene.FilterBlur, f))
	}
	for _, f := range list.GlowFilter {
		filter := mapFilter(scene.FilterGlow, f)
		filter.Inner = f.Inner
		filter.Knockout = f.Knockout
		out = append(out, filter)
	}
	for _, f := range list.BevelFilter {
		out = append(out, mapBevelFilter(scene.FilterBevel, f))
	}
	for _, f := range list.GradientGlowFilter {
		out = append(out, mapGradientFilter(scene.FilterGradientGlow, f))
	}
	for _, f := range list.GradientBevelFilter {
		out = append(out, mapGradientFilter(scene.FilterGradientBevel, f))
	}
	for _, f := range list.ConvolutionFilter {
		out = append(out, mapConvolutionFilter(f))
	}
	for _, f := range list.AdjustColorFilter {
		out = append(out, scene.Filter{
			Kind:   scene.FilterColorMatrix,
			Matrix: scene.ColorMatrixFromAdjustments(f.Brightness, f.Contrast, f.Saturation, f.Hue),
		})
	}
	return out
}

func mapFilter(kind scene.FilterKind, f domFilter) scene.Filter {
	return scene.Filter{
		Kind:     kind,
		BlurX:    f.BlurX,
		BlurY:    f.BlurY,
		Strength: f.Strength / 255,
		Quality:  f.Quality,
		Angle:    f.Angle,
		Distance: f.Distance,
		Color:    parseColor(f.Color, f.Alpha),
	}
}

func mapBevelFilter(kind scene.FilterKind, f domFilter) scene.Filter {
	filter := mapFilter(kind, f)
	filter.Knockout = f.Knockout
	filter.ShadowColor = parseColor(f.ShadowColor, f.ShadowAlpha)
	filter.HighlightColor = parseColor(f.HighlightColor, f.HighlightAlpha)
	return filter
}

func mapGradientFilter(kind scene.FilterKind, f domFilter) scene.Filter {
	filter := mapFilter(kind, f)
	filter.Knockout = f.Knockout
	for _, e := range f.Entries {
		filter.Stops = append(filter.Stops, scene.GradientStop{Ratio: e.Ratio, Color: parseColor(e.Color, e.Alpha)})
	}
	return filter
}

func mapConvolutionFilter(f domFilter) scene.Filter {
	return scene.Filter{
		Kind:              scene.FilterConvolution,
		MatrixX:           f.MatrixX,
		MatrixY:           f.MatrixY,
		ConvolutionValues: parseFloatList(f.Matrix),
		Divisor:           f.Divisor,
		Bias:              f.Bias,
		EdgeClamp:         f.EdgeClamp,
		PreserveAlpha:     f.PreserveAlpha,
	}
}

func parseFloatList(csv string) []float64 {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func mapColorTransform(c *domColor) scene.ColorTransform {
	switch {
	case c.TintMultiplier != nil:
		return scene.ColorTransformFromTint(*c.TintMultiplier, parseColor(c.TintColor, nil))
	case c.Brightness != nil:
		return scene.ColorTransformFromBrightness(*c.Brightness)
	default:
		ct := scene.IdentityColorTransform()
		if c.RedMultiplier != nil {
			ct.RedMultiplier = *c.RedMultiplier
		}
		if c.GreenMultiplier != nil {
			ct.GreenMultiplier = *c.GreenMultiplier
		}
		if c.BlueMultiplier != nil {
			ct.BlueMultiplier = *c.BlueMultiplier
		}
		if c.AlphaMultiplier != nil {
			ct.AlphaMultiplier = *c.AlphaMultiplier
		}
		if c.RedOffset != nil {
			ct.RedOffset = *c.RedOffset
		}
		if c.GreenOffset != nil {
			ct.GreenOffset = *c.GreenOffset
		}
		if c.BlueOffset != nil {
			ct.BlueOffset = *c.BlueOffset
		}
		if c.AlphaOffset != nil {
			ct.AlphaOffset = *c.AlphaOffset
		}
		return ct
	}
}

// parseColor decodes a "#RRGGBB" string plus an optional 0..1 alpha into
// an RGBA. A missing or malformed color defaults to opaque black.
func parseColor(hex string, alpha *float64) scene.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) < 6 {
		v = 0
	}
	a := byte(255)
	if alpha != nil {
		a = byte(math.Round(clamp01(*alpha) * 255))
	}
	return scene.RGBA{
		R: byte(v >> 16),
		G: byte(v >> 8),
		B: byte(v),
		A: a,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolveMasks rewrites masked layers per §4.4: any layer whose
// parentLayerIndex points at a mask layer becomes kind=masked.
func resolveMasks(layers []scene.Layer) {
	for i := range layers {
		p := layers[i].ParentLayerIndex
		if p == nil || *p < 0 || *p >= len(layers) {
			continue
		}
		if layers[*p].Kind == scene.LayerMask {
			layers[i].Kind = scene.LayerMasked
			idx := *p
			layers[i].MaskLayerIndex = &idx
		}
	}
}

var referenceLayerNames = map[string]bool{
	"ramka": true, "camera": true, "cam": true, "viewport": true,
}

// markReferenceLayers implements the conservative reference-layer
// detection rule of §4.4.
func markReferenceLayers(layers []scene.Layer, out map[int]struct{}) {
	for i, l := range layers {
		switch {
		case l.Kind == scene.LayerGuide || l.Kind == scene.LayerFolder || l.Kind == scene.LayerCamera:
			out[i] = struct{}{}
		case l.Transparent && l.AlphaPercent < 50:
			out[i] = struct{}{}
		case referenceLayerNames[strings.ToLower(l.Name)] && l.Outline:
			out[i] = struct{}{}
		}
	}
}

// detectCameraLayer implements the conjunctive camera-layer heuristic of
// §4.4: camera-ish name, guide-or-hidden-or-outline, exactly one
// shape-free frame with exactly one SymbolInstance whose transformation
// point sits within 15% of document center.
func detectCameraLayer(layers []scene.Layer, docWidth, docHeight int) *int {
	for i, l := range layers {
		if !referenceLayerNames[strings.ToLower(l.Name)] {
			continue
		}
		if !(l.Kind == scene.LayerGuide || !l.Visible || l.Outline) {
			continue
		}
		if !isSingleCameraFrame(l, docWidth, docHeight) {
			continue
		}
		idx := i
		return &idx
	}
	return nil
}

func isSingleCameraFrame(l scene.Layer, docWidth, docHeight int) bool {
	if len(l.Frames) != 1 {
		return false
	}
	f := l.Frames[0]
	var symbolCount, shapeCount int
	var inst *scene.SymbolInstance
	for _, el := range f.Elements {
		switch el.Kind {
		case scene.ElementSymbol:
			symbolCount++
			inst = el.Symbol
		case scene.ElementShape:
			shapeCount++
		}
	}
	if shapeCount != 0 || symbolCount != 1 || inst == nil {
		return false
	}

	cx, cy := float64(docWidth)/2, float64(docHeight)/2
	px, py := inst.Matrix.Apply(inst.TransformationPointX, inst.TransformationPointY)
	dx, dy := math.Abs(px-cx), math.Abs(py-cy)
	return dx <= 0.15*float64(docWidth) && dy <= 0.15*float64(docHeight)
}

// findHitFrame implements the button hit-frame rule of §4.4: the first
// frame in any layer labeled hit/_hit, else frame 3 if any layer has
// content there, else nil.
func findHitFrame(timeline scene.Timeline) *int {
	for _, l := range timeline.Layers {
		for _, f := range l.Frames {
			if f.Label == "hit" || f.Label == "_hit" {
				idx := f.Index
				return &idx
			}
		}
	}
	const fallback = 3
	for _, l := range timeline.Layers {
		if f, ok := l.FrameAt(fallback); ok && len(f.Elements) > 0 {
			v := fallback
			return &v
		}
	}
	return nil
}
