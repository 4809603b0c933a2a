package scene

// Shape is a DisplayElement variant holding vector artwork: a local matrix,
// indexed style tables, and the raw edges the shape assembler chains into
// closed subpaths per fill.
type Shape struct {
	Matrix       Matrix
	FillStyles   []FillStyle   // 1-based: FillStyles[i-1] is referenced by index i.
	StrokeStyles []StrokeStyle // 1-based, same convention.
	Edges        []Edge
}

// FillStyleAt returns the fill style for a 1-based index, and whether it exists.
func (s Shape) FillStyleAt(index int) (FillStyle, bool) {
	if index < 1 || index > len(s.FillStyles) {
		return FillStyle{}, false
	}
	return s.FillStyles[index-1], true
}

// StrokeStyleAt returns the stroke style for a 1-based index, and whether it exists.
func (s Shape) StrokeStyleAt(index int) (StrokeStyle, bool) {
	if index < 1 || index > len(s.StrokeStyles) {
		return StrokeStyle{}, false
	}
	return s.StrokeStyles[index-1], true
}

// MorphShape holds the start/end shapes of a shape tween; resolving the
// in-between geometry at an arbitrary ratio is a renderer concern, out of
// scope here (§1).
type MorphShape struct {
	Start Shape
	End   Shape
}
