package scene

// SpreadMethod controls how a gradient extends beyond its defined stops.
type SpreadMethod uint8

// Spread methods.
const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

// Interpolation controls color-space interpolation of a gradient.
type Interpolation uint8

// Interpolation modes.
const (
	InterpolationRGB Interpolation = iota
	InterpolationLinearRGB
)

// GradientStop is one color stop of a linear/radial gradient.
type GradientStop struct {
	Ratio float64 // 0..1
	Color RGBA
}

// RGBA is a straight (non-premultiplied) 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// FillKind tags a FillStyle variant.
type FillKind uint8

// Fill kinds.
const (
	FillSolid FillKind = iota
	FillLinearGradient
	FillRadialGradient
	FillBitmap
)

// FillStyle is a tagged variant; only the fields relevant to Kind are populated.
type FillStyle struct {
	Kind FillKind

	// FillSolid.
	Color RGBA

	// FillLinearGradient / FillRadialGradient.
	Matrix          Matrix
	Stops           []GradientStop
	Spread          SpreadMethod
	Interpolation   Interpolation
	FocalPointRatio float64 // FillRadialGradient only.

	// FillBitmap.
	BitmapName string // key into Document.Bitmaps
	Smoothed   bool
	Clipped    bool
}

// CapStyle is a stroke's line cap.
type CapStyle uint8

// Cap styles.
const (
	CapRound CapStyle = iota
	CapNone
	CapSquare
)

// JoinStyle is a stroke's line join.
type JoinStyle uint8

// Join styles.
const (
	JoinRound JoinStyle = iota
	JoinBevel
	JoinMiter
)

// ScaleMode controls how a stroke's weight reacts to non-uniform scaling.
type ScaleMode uint8

// Scale modes.
const (
	ScaleNormal ScaleMode = iota
	ScaleHorizontal
	ScaleVertical
	ScaleNone
)

// StrokeStyle describes the pen used to draw an Edge's StrokeStyle reference.
type StrokeStyle struct {
	Weight       float64
	Caps         CapStyle
	Joints       JoinStyle
	MiterLimit   float64
	ScaleMode    ScaleMode
	PixelHinting bool

	// Fill sub-variant: reuses FillStyle (solid/linear/radial/bitmap).
	Fill FillStyle
}
