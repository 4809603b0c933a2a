// Package archivereader opens an XFL archive (a ZIP file) and exposes
// case/separator-insensitive entry lookup. A central directory that
// archive/zip rejects is repaired on a copy of the input, per §4.5, before
// retrying; the caller's bytes are not modified.
package archivereader

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"xflscene/pkg/xflerr"
)

const (
	eocdSignature    = 0x06054b50
	eocdMinSize      = 22
	cdSizeOffset     = 12
	cdOffsetOffset   = 16
	commentLenOffset = 20
)

// Reader is an opened XFL archive. It satisfies registry.ArchiveEntry.
type Reader struct {
	zr    *zip.Reader
	index map[string]*zip.File // normalised (lowercase, forward-slash) -> file
}

// Open parses raw as a ZIP archive, attempting the two EOCD repairs of
// §4.5 if the initial open fails.
func Open(raw []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		repaired, rerr := repair(raw)
		if rerr != nil {
			return nil, fmt.Errorf("%w: %v (repair: %v)", xflerr.ErrArchiveRepairFailed, err, rerr)
		}
		zr, err = zip.NewReader(bytes.NewReader(repaired), int64(len(repaired)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", xflerr.ErrArchiveRepairFailed, err)
		}
	}

	r := &Reader{zr: zr, index: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		r.index[normaliseKey(f.Name)] = f
	}
	return r, nil
}

// repair applies the two fallback strategies of §4.5 in order, returning
// the first repaired buffer archive/zip might accept.
func repair(raw []byte) ([]byte, error) {
	eocdOffset := findEOCD(raw)
	if eocdOffset < 0 {
		return nil, fmt.Errorf("no end-of-central-directory record found")
	}

	if truncated, ok := truncateToEOCD(raw, eocdOffset); ok {
		if _, err := zip.NewReader(bytes.NewReader(truncated), int64(len(truncated))); err == nil {
			return truncated, nil
		}
	}

	if patched, ok := patchCDSize(raw, eocdOffset); ok {
		if _, err := zip.NewReader(bytes.NewReader(patched), int64(len(patched))); err == nil {
			return patched, nil
		}
	}

	return nil, fmt.Errorf("central directory repair exhausted both strategies")
}

// findEOCD scans backwards for the EOCD signature (50 4B 05 06).
func findEOCD(raw []byte) int {
	sig := []byte{0x50, 0x4b, 0x05, 0x06}
	for i := len(raw) - eocdMinSize; i >= 0; i-- {
		if bytes.Equal(raw[i:i+4], sig) {
			return i
		}
	}
	return -1
}

// truncateToEOCD implements repair strategy 1: if the EOCD's comment
// length implies the archive should end before the file actually does,
// drop the trailing garbage.
func truncateToEOCD(raw []byte, eocdOffset int) ([]byte, bool) {
	if eocdOffset+commentLenOffset+2 > len(raw) {
		return nil, false
	}
	commentLen := binary.LittleEndian.Uint16(raw[eocdOffset+commentLenOffset:])
	expectedEnd := eocdOffset + eocdMinSize + int(commentLen)
	if expectedEnd >= len(raw) || expectedEnd <= 0 {
		return nil, false
	}
	return raw[:expectedEnd], true
}

// patchCDSize implements repair strategy 2: if the EOCD's recorded
// central-directory size doesn't match eocdOffset-cdOffset, patch it.
func patchCDSize(raw []byte, eocdOffset int) ([]byte, bool) {
	if eocdOffset+cdOffsetOffset+4 > len(raw) {
		return nil, false
	}
	cdSize := binary.LittleEndian.Uint32(raw[eocdOffset+cdSizeOffset:])
	cdOffset := binary.LittleEndian.Uint32(raw[eocdOffset+cdOffsetOffset:])
	computed := uint32(eocdOffset) - cdOffset
	if computed == cdSize {
		return nil, false
	}

	patched := make([]byte, len(raw))
	copy(patched, raw)
	binary.LittleEndian.PutUint32(patched[eocdOffset+cdSizeOffset:], computed)
	return patched, true
}

// normaliseKey lowercases and forward-slashes a path for lookup purposes.
func normaliseKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, `\`, "/"))
}

// ListLibrary returns every archive entry path under LIBRARY/ (any case).
func (r *Reader) ListLibrary() []string {
	return r.listUnder("library/")
}

// ListBin returns every archive entry path under bin/ (any case) — the
// proprietary .dat bitmap blobs and raw sound data, per §6.
func (r *Reader) ListBin() []string {
	return r.listUnder("bin/")
}

func (r *Reader) listUnder(prefix string) []string {
	var out []string
	for _, f := range r.zr.File {
		if strings.HasPrefix(normaliseKey(f.Name), prefix) {
			out = append(out, f.Name)
		}
	}
	return out
}

// ReadFile locates path per §4.5's lookup order: exact match, then
// case/separator-insensitive, then a basename scan of every entry.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	f := r.find(path)
	if f == nil {
		return nil, fmt.Errorf("%w: entry %q not found", xflerr.ErrMalformed, path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %q: %v", xflerr.ErrMalformed, path, err)
	}
	defer rc.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("%w: could not read %q: %v", xflerr.ErrMalformed, path, err)
	}
	return buf.Bytes(), nil
}

func (r *Reader) find(path string) *zip.File {
	if f, ok := r.index[normaliseKey(path)]; ok {
		return f
	}

	base := baseName(normaliseKey(path))
	for _, f := range r.zr.File {
		if baseName(normaliseKey(f.Name)) == base {
			return f
		}
	}
	return nil
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
