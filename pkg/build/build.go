package build

import (
	"context"
	"fmt"
	"strings"

	"xflscene/pkg/archivereader"
	"xflscene/pkg/bitmap"
	"xflscene/pkg/registry"
	"xflscene/pkg/scene"
	"xflscene/pkg/xflerr"
	"xflscene/pkg/xmldom"
)

const domDocumentEntry = "DOMDocument.xml"

// Open parses archiveBytes into a Document, per §2/§6. Failure to open or
// repair the ZIP, or to parse DOMDocument.xml, is fatal (xflerr.ErrMalformed
// or xflerr.ErrArchiveRepairFailed); a single unparseable symbol or bitmap
// is skipped (its error is logged at Warn when Debug and Logger are set, not
// returned) so the Document is still usable, per §7.
func Open(archiveBytes []byte, options ParseOptions) (*scene.Document, error) {
	reader, err := archivereader.Open(archiveBytes)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	if cancelled(options) {
		return nil, xflerr.ErrCancelled
	}

	domData, err := reader.ReadFile(domDocumentEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s missing: %v", xflerr.ErrMalformed, domDocumentEntry, err)
	}
	progress(options, ProgressEvent{Stage: "archive", Path: domDocumentEntry, Done: 1, Total: 1})

	mapOpts := xmldom.Options{
		EnableImplicitMoveAfterClose:     options.EnableImplicitMoveAfterClose,
		EnableEdgeSplittingOnStyleChange: options.EnableEdgeSplittingOnStyleChange,
	}
	doc, err := xmldom.MapDocument(domData, mapOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", xflerr.ErrMalformed, domDocumentEntry, err)
	}

	if cancelled(options) {
		return nil, xflerr.ErrCancelled
	}
	if err := loadSymbols(doc, reader, mapOpts, options); err != nil {
		return nil, err
	}

	if cancelled(options) {
		return nil, xflerr.ErrCancelled
	}
	if err := loadBitmaps(doc, reader, options); err != nil {
		return nil, err
	}

	loadMedia(doc, reader)

	return doc, nil
}

// loadSymbols runs the registry over LIBRARY/*.xml, closing over mapOpts so
// xmldom.MapSymbol matches registry.ParseSymbolFunc's exact signature, then
// copies the resulting symbols into doc.Symbols under both original and
// normalised keys (§4.6 invariant 4).
func loadSymbols(doc *scene.Document, reader *archivereader.Reader, mapOpts xmldom.Options, options ParseOptions) error {
	reg := registry.New()
	parse := func(data []byte) (*scene.Symbol, error) {
		symbol, err := xmldom.MapSymbol(data, mapOpts)
		if err != nil && options.Debug && options.Logger != nil {
			options.Logger.Warn().Msgf("skipped malformed symbol: %v", err)
		}
		return symbol, err
	}

	debugSink := func(path string, err error) {
		if !options.Debug || options.Logger == nil {
			return
		}
		options.Logger.Warn().Msgf("skipped malformed symbol %s: %v", path, err)
	}

	archiveEntry := libraryXMLOnly{reader, debugSink}
	var err error
	if options.SymbolCache != nil {
		err = reg.LoadCached(archiveEntry, options.SymbolCache, parse, options.Cancelled)
	} else {
		err = reg.Load(context.Background(), archiveEntry, parse, options.Cancelled)
	}
	if err != nil {
		return fmt.Errorf("loading library symbols: %w", err)
	}

	for _, path := range reader.ListLibrary() {
		if !strings.HasSuffix(strings.ToLower(path), ".xml") {
			continue
		}
		if symbol, ok := reg.Lookup(path); ok {
			doc.Symbols[path] = symbol
			doc.Symbols[registry.Normalise(path)] = symbol
		}
		progress(options, ProgressEvent{Stage: "symbol", Path: path})
	}
	return nil
}

// libraryXMLOnly adapts archivereader.Reader to registry.ArchiveEntry while
// reporting per-file read failures through debugSink (§7's "log if debug").
type libraryXMLOnly struct {
	*archivereader.Reader
	debugSink func(path string, err error)
}

func (a libraryXMLOnly) ReadFile(path string) ([]byte, error) {
	data, err := a.Reader.ReadFile(path)
	if err != nil {
		a.debugSink(path, err)
	}
	return data, err
}

// loadBitmaps decodes every bin/*.dat blob into a BitmapItem, skipping the
// decode step entirely under ParseOptions.SkipBitmaps (metadata-only items).
// A blob that exhausts the decompression cascade keeps its metadata with a
// nil Raster (xflerr.ErrBitmapRecoveryFailed, §7) rather than aborting.
func loadBitmaps(doc *scene.Document, reader *archivereader.Reader, options ParseOptions) error {
	entries := reader.ListBin()
	for i, path := range entries {
		if !strings.HasSuffix(strings.ToLower(path), ".dat") {
			continue
		}
		if cancelled(options) {
			return xflerr.ErrCancelled
		}

		item := &scene.BitmapItem{
			Name:           baseName(path),
			Href:           path,
			BitmapDataHref: path,
		}

		if !options.SkipBitmaps {
			data, err := reader.ReadFile(path)
			if err == nil {
				raster, derr := bitmap.Decode(data)
				switch {
				case derr == nil:
					item.Width, item.Height = raster.Width, raster.Height
					item.Raster = raster.ToImage()
				case options.Debug && options.Logger != nil:
					options.Logger.Warn().Msgf("bitmap recovery failed for %s: %v", path, derr)
				}
			}
		}

		doc.Bitmaps[path] = item
		doc.Bitmaps[registry.Normalise(path)] = item
		progress(options, ProgressEvent{Stage: "bitmap", Path: path, Done: i + 1, Total: len(entries)})
	}
	return nil
}

// loadMedia populates Document.Videos/Sounds from bin/*, the only place an
// embedded video or raw sound blob lives (§4.4's DOMVideoInstance and
// FrameSound elements reference library items by the same name/path
// convention DOMBitmapInstance does). Decoding the FLV/audio payload itself
// is out of scope; only the metadata a scene graph needs is kept.
func loadMedia(doc *scene.Document, reader *archivereader.Reader) {
	for _, path := range reader.ListBin() {
		lower := strings.ToLower(path)
		switch {
		case strings.HasSuffix(lower, ".flv"):
			item := &scene.VideoItem{Name: baseName(path), Href: path}
			doc.Videos[path] = item
			doc.Videos[registry.Normalise(path)] = item
		case strings.HasSuffix(lower, ".wav"), strings.HasSuffix(lower, ".mp3"):
			item := &scene.SoundItem{Name: baseName(path), Href: path}
			doc.Sounds[path] = item
			doc.Sounds[registry.Normalise(path)] = item
		}
	}
}

func baseName(path string) string {
	norm := strings.ReplaceAll(path, `\`, "/")
	if i := strings.LastIndexByte(norm, '/'); i >= 0 {
		return norm[i+1:]
	}
	return norm
}

func cancelled(options ParseOptions) bool {
	return options.Cancelled != nil && options.Cancelled()
}

func progress(options ParseOptions, event ProgressEvent) {
	if options.OnProgress != nil {
		options.OnProgress(event)
	}
}
