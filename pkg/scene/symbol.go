package scene

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Symbol is a library item: a named, independently-timed Timeline.
type Symbol struct {
	Name       string
	ItemID     string
	SymbolType SymbolType
	Timeline   Timeline

	// Scale9Grid is the optional 9-slice scaling rectangle.
	Scale9Grid *Rect

	// HitAreaFrame is the button hit-test frame index (§4.4), nil if undetermined.
	HitAreaFrame *int
}
