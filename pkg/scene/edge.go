package scene

// CommandKind tags a PathCommand variant.
type CommandKind uint8

// Path command kinds.
const (
	CommandMoveTo CommandKind = iota
	CommandLineTo
	CommandQuadTo
	CommandCubicTo
	CommandClose
)

// PathCommand is one step of a drawable path. Only the fields relevant to
// Kind are populated; see package edge for emission rules and coordinate
// bounds (|coord| <= 10000px, finite).
type PathCommand struct {
	Kind CommandKind

	// End point, valid for MoveTo/LineTo/QuadTo/CubicTo.
	X, Y float64

	// Control point, valid for QuadTo.
	CX, CY float64

	// First control point, valid for CubicTo.
	C1X, C1Y float64
	// Second control point, valid for CubicTo.
	C2X, C2Y float64
}

// MoveTo constructs a move command.
func MoveTo(x, y float64) PathCommand { return PathCommand{Kind: CommandMoveTo, X: x, Y: y} }

// LineTo constructs a line command.
func LineTo(x, y float64) PathCommand { return PathCommand{Kind: CommandLineTo, X: x, Y: y} }

// QuadTo constructs a quadratic curve command.
func QuadTo(cx, cy, x, y float64) PathCommand {
	return PathCommand{Kind: CommandQuadTo, CX: cx, CY: cy, X: x, Y: y}
}

// CubicTo constructs a cubic curve command.
func CubicTo(c1x, c1y, c2x, c2y, x, y float64) PathCommand {
	return PathCommand{Kind: CommandCubicTo, C1X: c1x, C1Y: c1y, C2X: c2x, C2Y: c2y, X: x, Y: y}
}

// Close constructs a close-subpath command.
func Close() PathCommand { return PathCommand{Kind: CommandClose} }

// EndPoint returns the command's terminal coordinate. For Close it returns
// (0, 0, false): callers track subpath start separately.
func (c PathCommand) EndPoint() (x, y float64, ok bool) {
	if c.Kind == CommandClose {
		return 0, 0, false
	}
	return c.X, c.Y, true
}

// Reverse returns a copy of c suitable for traversing a contribution
// backwards: control points are mirrored per §4.2 of the shape assembler.
// start/end swap happens at the contribution level (see the shape
// package's reverseContribution).
func (c PathCommand) Reverse(newEnd PathCommand) PathCommand {
	switch c.Kind {
	case CommandCubicTo:
		return PathCommand{
			Kind: CommandCubicTo,
			C1X:  c.C2X, C1Y: c.C2Y,
			C2X: c.C1X, C2Y: c.C1Y,
			X: newEnd.X, Y: newEnd.Y,
		}
	case CommandQuadTo:
		return PathCommand{Kind: CommandQuadTo, CX: c.CX, CY: c.CY, X: newEnd.X, Y: newEnd.Y}
	case CommandLineTo:
		return PathCommand{Kind: CommandLineTo, X: newEnd.X, Y: newEnd.Y}
	case CommandMoveTo:
		return PathCommand{Kind: CommandMoveTo, X: newEnd.X, Y: newEnd.Y}
	default:
		return c
	}
}

// Edge is an oriented half-edge: a run of path commands optionally bounding
// a fill on each side and/or carrying a stroke.
type Edge struct {
	// FillStyle0/FillStyle1 are 1-based indices into the owning Shape's
	// FillStyles, or 0 if absent. FillStyle1 is on the right of the
	// oriented curve, FillStyle0 on the left (the fill-winding contract).
	FillStyle0 int
	FillStyle1 int
	// StrokeStyle is a 1-based index into the owning Shape's StrokeStyles, or 0.
	StrokeStyle int

	Commands []PathCommand

	// StyleChanges records "S N" markers found mid-string: CommandIndex is
	// the index into Commands at which the marker occurred, FillStyle1 is
	// the style it switched to. Populated when the edge-splitting feature
	// flag is off; with it on, the edge is split at each marker and the
	// split edges carry no StyleChanges.
	StyleChanges []StyleChange
}

// StyleChange is a recorded "S N" marker inside an edge/cubics string.
type StyleChange struct {
	CommandIndex int
	FillStyle1   int
}

// FirstPoint returns the end point of the edge's first command that has
// one (normally its leading MoveTo), if any.
func (e Edge) FirstPoint() (x, y float64, ok bool) {
	for _, c := range e.Commands {
		if x, y, ok = c.EndPoint(); ok {
			return x, y, true
		}
	}
	return 0, 0, false
}

// LastPoint returns the coordinate of the edge's final command with an
// endpoint (skipping Close, which carries none).
func (e Edge) LastPoint() (x, y float64, ok bool) {
	for i := len(e.Commands) - 1; i >= 0; i-- {
		if x, y, ok = e.Commands[i].EndPoint(); ok {
			return x, y, true
		}
	}
	return 0, 0, false
}
