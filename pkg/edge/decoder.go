package edge

import (
	"math"

	"xflscene/pkg/scene"
)

// Options controls the decoder's one experimental feature flag (§6); the
// other, edge splitting on style change, is applied by the caller to the
// StyleChanges in Result.
type Options struct {
	// ImplicitMoveAfterClose inserts a synthetic MoveTo at the subpath
	// start when a drawing command follows a Close without its own MoveTo.
	ImplicitMoveAfterClose bool
}

// epsilon is the point-coincidence tolerance used for MoveTo/LineTo
// suppression and subpath-closure detection (§4.1).
const epsilon = 0.5

// Result is the output of Decode: the emitted commands and any "S N"
// style-change markers found along the way (§4.1).
type Result struct {
	Commands     []scene.PathCommand
	StyleChanges []scene.StyleChange
}

// Decode tokenises and decodes an `edges` or `cubics` attribute string into
// an ordered PathCommand sequence. It never errors: malformed tokens and
// out-of-bounds coordinates are dropped per-command (§4.1, §7).
func Decode(raw string, opts Options) Result {
	d := &decoderState{opts: opts}
	d.run(tokenize(raw))
	return Result{Commands: d.commands, StyleChanges: d.styleChanges}
}

type decoderState struct {
	opts Options

	commands     []scene.PathCommand
	styleChanges []scene.StyleChange

	curX, curY          float64
	subpathStartX, subY float64
	haveSubpath         bool
	justClosed          bool
}

func (d *decoderState) run(tokens []token) {
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok.kind != tokenCommand {
			// Stray numeric token with no governing command: ignore it.
			i++
			continue
		}
		switch tok.ch {
		case '!':
			i++
			d.handleMoveTo(tokens, &i)
		case '|':
			i++
			d.handleLineTo(tokens, &i)
		case '[':
			i++
			d.handleQuadTo(tokens, &i)
		case 'S':
			i++
			d.handleStyleChange(tokens, &i)
		case '/':
			i++
			d.handleClose()
		case 'q', 'Q':
			i++
			skipUntilCommand(tokens, &i)
		case '(':
			i++
			d.handleCubicBlock(tokens, &i)
		case ')', ';':
			// Stray block delimiter outside a cubic block: ignore.
			i++
		default:
			i++
		}
	}
	d.closeIfNeeded()
}

// readCoords consumes n numeric tokens starting at *i (advancing *i by n
// regardless of outcome, to guarantee forward progress) and reports whether
// all n decoded to finite in-bounds values.
func readCoords(tokens []token, i *int, n int) ([]float64, bool) {
	vals := make([]float64, 0, n)
	ok := true
	for k := 0; k < n; k++ {
		if *i >= len(tokens) || tokens[*i].kind != tokenNumber {
			ok = false
			break
		}
		v, err := decodeCoord(tokens[*i].text)
		*i++
		if err != nil || !withinBounds(v) {
			ok = false
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) != n {
		ok = false
	}
	return vals, ok
}

func skipUntilCommand(tokens []token, i *int) {
	for *i < len(tokens) && tokens[*i].kind != tokenCommand {
		*i++
	}
}

func (d *decoderState) handleMoveTo(tokens []token, i *int) {
	vals, ok := readCoords(tokens, i, 2)
	if !ok {
		return
	}
	x, y := vals[0], vals[1]

	if dist(d.curX, d.curY, x, y) > epsilon || !d.haveSubpath {
		d.commands = append(d.commands, scene.MoveTo(x, y))
	}
	d.curX, d.curY = x, y
	d.subpathStartX, d.subY = x, y
	d.haveSubpath = true
	d.justClosed = false
}

func (d *decoderState) handleLineTo(tokens []token, i *int) {
	vals, ok := readCoords(tokens, i, 2)
	if !ok {
		return
	}
	d.maybeImplicitMove()
	x, y := vals[0], vals[1]
	if dist(d.curX, d.curY, x, y) > epsilon {
		d.commands = append(d.commands, scene.LineTo(x, y))
	}
	d.curX, d.curY = x, y
}

func (d *decoderState) handleQuadTo(tokens []token, i *int) {
	vals, ok := readCoords(tokens, i, 4)
	if !ok {
		return
	}
	d.maybeImplicitMove()
	cx, cy, x, y := vals[0], vals[1], vals[2], vals[3]
	d.commands = append(d.commands, scene.QuadTo(cx, cy, x, y))
	d.curX, d.curY = x, y
}

func (d *decoderState) handleCubicTo(vals []float64) {
	d.maybeImplicitMove()
	c1x, c1y, c2x, c2y, x, y := vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
	d.commands = append(d.commands, scene.CubicTo(c1x, c1y, c2x, c2y, x, y))
	d.curX, d.curY = x, y
}

func (d *decoderState) handleStyleChange(tokens []token, i *int) {
	if *i >= len(tokens) || tokens[*i].kind != tokenNumber {
		return
	}
	n, err := decodeInt(tokens[*i].text)
	*i++
	if err != nil {
		return
	}
	d.styleChanges = append(d.styleChanges, scene.StyleChange{
		CommandIndex: len(d.commands),
		FillStyle1:   n,
	})
}

func (d *decoderState) handleClose() {
	d.commands = append(d.commands, scene.Close())
	d.curX, d.curY = d.subpathStartX, d.subY
	d.justClosed = true
}

// maybeImplicitMove inserts a synthetic MoveTo at the subpath start if the
// previous command was a Close and the feature flag is enabled (§6).
func (d *decoderState) maybeImplicitMove() {
	if d.opts.ImplicitMoveAfterClose && d.justClosed {
		d.commands = append(d.commands, scene.MoveTo(d.subpathStartX, d.subY))
	}
	d.justClosed = false
}

// closeIfNeeded implements the trailing-closure rule: if the path ended
// near its subpath start without an explicit Close, append one (§4.1, §8
// property 2).
func (d *decoderState) closeIfNeeded() {
	if !d.haveSubpath || len(d.commands) == 0 {
		return
	}
	last := d.commands[len(d.commands)-1]
	if last.Kind == scene.CommandClose {
		return
	}
	if dist(d.curX, d.curY, d.subpathStartX, d.subY) <= epsilon {
		d.commands = append(d.commands, scene.Close())
	}
}

// handleCubicBlock parses a "(;"/"( anchor ;" ... ");"/")" group per §4.1:
// an optional anchor move, then runs of 6-coordinate CubicTo groups until a
// terminator.
func (d *decoderState) handleCubicBlock(tokens []token, i *int) {
	if hasAnchor(tokens, *i) {
		vals, ok := readCoords(tokens, i, 2)
		if ok {
			d.anchorMoveTo(vals[0], vals[1])
		}
	}
	if *i < len(tokens) && tokens[*i].kind == tokenCommand && tokens[*i].ch == ';' {
		*i++
	}

	for *i < len(tokens) {
		if tokens[*i].kind == tokenCommand {
			switch tokens[*i].ch {
			case 'q', 'Q':
				*i++
				skipUntilCommand(tokens, i)
				return
			case ')':
				*i++
				if *i < len(tokens) && tokens[*i].kind == tokenCommand && tokens[*i].ch == ';' {
					*i++
				}
				return
			default:
				// Any other command token mid-block: stop per §4.1 ("each
				// group must contain no command tokens; otherwise, stop").
				return
			}
		}

		start := *i
		vals, ok := readCoordsNoCommand(tokens, i, 6)
		if !ok {
			*i = start
			return
		}
		d.handleCubicTo(vals)
	}
}

// readCoordsNoCommand behaves like readCoords but refuses to cross a
// command token: if fewer than n numeric tokens are available before one,
// it reports failure without consuming anything (the cubic block parser
// needs to distinguish "ran out mid-group" from "a normal command follows").
func readCoordsNoCommand(tokens []token, i *int, n int) ([]float64, bool) {
	if *i+n > len(tokens) {
		return nil, false
	}
	for k := 0; k < n; k++ {
		if tokens[*i+k].kind != tokenNumber {
			return nil, false
		}
	}
	return readCoords(tokens, i, n)
}

func hasAnchor(tokens []token, i int) bool {
	return i+1 < len(tokens) && tokens[i].kind == tokenNumber && tokens[i+1].kind == tokenNumber
}

// anchorMoveTo applies the same point-coincidence and subpath bookkeeping
// as handleMoveTo, for a cubic block's already-decoded leading anchor pair.
func (d *decoderState) anchorMoveTo(x, y float64) {
	if dist(d.curX, d.curY, x, y) > epsilon || !d.haveSubpath {
		d.commands = append(d.commands, scene.MoveTo(x, y))
	}
	d.curX, d.curY = x, y
	d.subpathStartX, d.subY = x, y
	d.haveSubpath = true
	d.justClosed = false
}

func dist(x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	return math.Hypot(dx, dy)
}
