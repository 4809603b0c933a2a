package scene

import "image"

// BitmapItem is a library bitmap asset. Raster is nil when the parser ran
// with ParseOptions.SkipBitmaps, or when decoding exhausted the recovery
// cascade (xflerr.ErrBitmapRecoveryFailed) — the item's metadata is still
// valid in both cases.
type BitmapItem struct {
	Name           string
	Href           string
	BitmapDataHref string // archive path of the bin/*.dat blob holding the pixels.
	Width, Height  int

	Raster *image.RGBA
}

// SoundItem is a library sound asset. Audio decoding (ADPCM, FLV demux) is
// out of scope (§1); only metadata needed for scene-graph bookkeeping is kept.
type SoundItem struct {
	Name string
	Href string
}

// VideoItem is a library embedded-video asset. The FLV/MP4 stream itself is
// an external collaborator's concern (§1); only metadata is kept here.
type VideoItem struct {
	Name   string
	Href   string
	Width  int
	Height int
}
