// Package build orchestrates ArchiveReader, XmlMapper, SymbolRegistry and
// LosslessBitmapDecoder into the SceneBuilder entry point, §2/§6: Open
// parses a whole archive into a Document, ResolveFrame flattens one frame
// of it (including nested symbol instances) into paint-ordered drawables.
package build

import (
	"xflscene/pkg/log"
	"xflscene/pkg/registry"
)

// ProgressEvent reports one suspension point reached during Open, per §5.
// Stage is one of "archive", "symbol", "bitmap".
type ProgressEvent struct {
	Stage string
	Path  string
	Done  int
	Total int
}

// ParseOptions configures Open, per §6.
type ParseOptions struct {
	// SkipBitmaps disables .dat decoding; BitmapItems carry metadata only.
	SkipBitmaps bool

	// EnableImplicitMoveAfterClose and EnableEdgeSplittingOnStyleChange are
	// the two experimental edge-decoder flags of §6, passed through to
	// xmldom.Options.
	EnableImplicitMoveAfterClose     bool
	EnableEdgeSplittingOnStyleChange bool

	// Debug routes RecoverableMalformedData events (§7) through Logger
	// instead of silently skipping them. Logger must already be running
	// (Logger.Start) or log events will block; nil disables sink entirely.
	Debug  bool
	Logger *log.Logger

	// SuspendEveryMillis is a time budget in milliseconds between yields
	// during tight parsing loops; pkg/config sets it from suspendEvery.
	// Open does not read it: the progress and cancellation hooks run only
	// at the per-entry, per-symbol and per-bitmap suspension points.
	SuspendEveryMillis int

	// Cancelled is checked at every suspension point (§5); a true result
	// aborts Open with xflerr.ErrCancelled.
	Cancelled func() bool

	// OnProgress is called at every suspension point, if set.
	OnProgress func(ProgressEvent)

	// SymbolCache, if set, is consulted before parsing each LIBRARY/*.xml
	// entry and populated after a successful parse, so repeat calls to Open
	// over an unchanged LIBRARY/ directory skip re-parsing entirely.
	SymbolCache *registry.DiskCache
}
