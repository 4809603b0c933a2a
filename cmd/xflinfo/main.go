// Package main is a CLI utility that opens an XFL archive and prints a
// summary of its scene graph.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"xflscene/pkg/build"
	"xflscene/pkg/xflerr"
)

const usage = `print a summary of an XFL archive's scene graph
example: xflinfo movie.xfl
example: xflinfo movie.xfl 12    (also resolve frame 12 of the main stage)`

// Exit codes, per §6.
const (
	exitOK                   = 0
	exitMalformedArchive     = 2
	exitMalformedXML         = 3
	exitBitmapRecoveryFailed = 4
	exitCancelled            = 5
)

func main() {
	os.Exit(run())
}

func run() int {
	args := os.Args
	if len(args) < 2 {
		fmt.Println(usage)
		return exitOK
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitMalformedArchive
	}

	doc, err := build.Open(data, build.ParseOptions{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	fmt.Printf("%dx%d @ %.2f fps, %d timeline(s), %d symbol(s), %d bitmap(s)\n",
		doc.Width, doc.Height, doc.FrameRate, len(doc.Timelines), len(doc.Symbols), len(doc.Bitmaps))

	failed := 0
	for _, b := range doc.Bitmaps {
		if b.Raster == nil {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("%d bitmap(s) missing a raster (recovery failed or skipped)\n", failed)
	}

	if len(args) < 3 {
		if failed > 0 {
			return exitBitmapRecoveryFailed
		}
		return exitOK
	}

	frameIndex, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid frame index:", err)
		return exitMalformedXML
	}

	resolved, err := build.ResolveFrame(doc, "", frameIndex)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitMalformedXML
	}
	fmt.Printf("frame %d: %d drawable(s), %d shape gap(s), %d failed bitmap reference(s)\n",
		frameIndex, len(resolved.Drawables), len(resolved.ShapeGaps), len(resolved.FailedBitmaps))

	if failed > 0 {
		return exitBitmapRecoveryFailed
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, xflerr.ErrCancelled):
		return exitCancelled
	case errors.Is(err, xflerr.ErrArchiveRepairFailed):
		return exitMalformedArchive
	case errors.Is(err, xflerr.ErrMalformed):
		return exitMalformedXML
	default:
		return exitMalformedArchive
	}
}
