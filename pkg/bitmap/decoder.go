// Package bitmap decodes the proprietary lossless `.dat` bitmap blobs found
// under an XFL archive's bin/ directory into RGBA8 rasters.
package bitmap

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/icza/bitio"

	"xflscene/pkg/xflerr"
)

const (
	magic32Bit  = 0x0503
	magicPal8Bit = 0x0303

	headerSize = 26
)

// Raster is a decoded bitmap. Height may be less than the header's declared
// height when decompression only recovered a partial payload (§4.3).
type Raster struct {
	Width, Height int
	Pix           []byte // RGBA8, row-major, stride = Width*4
}

// Decode parses a .dat blob per the header layout and magic-specific pixel
// layout described in the format notes, applying the decompression
// recovery cascade when the payload is deflate-compressed.
func Decode(blob []byte) (*Raster, error) {
	if len(blob) < headerSize {
		return nil, fmt.Errorf("%w: blob too short", xflerr.ErrInvalidHeader)
	}

	r := bitio.NewReader(bytes.NewReader(blob))
	magic, err := readUint16LE(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}
	if magic != magic32Bit && magic != magicPal8Bit {
		return nil, fmt.Errorf("%w: %#04x", xflerr.ErrInvalidMagic, magic)
	}

	if _, err := readUint16LE(r); err != nil { // row stride, unused
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}
	width, err := readUint16LE(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}
	height, err := readUint16LE(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}
	for i := 0; i < 4; i++ { // frameLeft/Right/Top/Bottom, unused
		if _, err := readUint32LE(r); err != nil {
			return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
		}
	}
	hasAlpha, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}
	variant, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xflerr.ErrInvalidHeader, err)
	}

	payload := blob[headerSize:]
	w, h := int(width), int(height)

	var raw []byte
	switch magic {
	case magic32Bit:
		expected := w * h * 4
		compressed := extractCompressed(payload, variant)
		raw, err = decompressCascade(compressed, expected, 4)
		if err != nil {
			return nil, err
		}
		return decode32Bit(raw, w, hasAlpha != 0)
	case magicPal8Bit:
		expected := w * h // one index byte per pixel, decompressed first
		compressed := extractCompressed(payload, variant)
		raw, err = decompressCascade(compressed, expected+2+256*4, 1) // generous upper bound incl. palette
		if err != nil {
			return nil, err
		}
		return decodePalette(raw, w, h, hasAlpha != 0)
	}
	return nil, fmt.Errorf("%w: unreachable magic %#04x", xflerr.ErrInvalidMagic, magic)
}

func readUint16LE(r *bitio.Reader) (uint16, error) {
	lo, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func readUint32LE(r *bitio.Reader) (uint32, error) {
	var b [4]byte
	for i := range b {
		v, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		b[i] = v
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// extractCompressed reassembles the compressed stream from the chunked
// payload format (variant=1: repeating [uint16 len][bytes], 0-length
// terminated) or returns the payload unchanged for variant=0.
func extractCompressed(payload []byte, variant byte) []byte {
	if variant != 1 {
		return payload
	}
	var out []byte
	i := 0
	for i+2 <= len(payload) {
		chunkLen := int(binary.LittleEndian.Uint16(payload[i : i+2]))
		i += 2
		if chunkLen == 0 {
			break
		}
		if i+chunkLen > len(payload) {
			out = append(out, payload[i:]...)
			break
		}
		out = append(out, payload[i:i+chunkLen]...)
		i += chunkLen
	}
	return out
}

// stripZlibHeader removes a leading zlib header ("78 xx") so the remainder
// can be fed to a raw (headerless) deflate reader.
func stripZlibHeader(data []byte) []byte {
	if len(data) >= 2 && data[0] == 0x78 {
		return data[2:]
	}
	return data
}

var zeroDict = make([]byte, 32*1024)

// decompressCascade attempts the five recovery strategies in order (§4.3),
// taking the first whose output meets or exceeds expected bytes. If none
// reach the full expected size, the best partial result is still returned
// (the caller builds a reduced-height raster from it) as long as it clears
// minBytes — one pixel's worth of data. Below that, recovery has failed.
func decompressCascade(compressed []byte, expected, minBytes int) ([]byte, error) {
	raw := stripZlibHeader(compressed)

	if out, ok := tryRawDeflate(raw, nil); ok && len(out) >= expected {
		return truncate(out, expected), nil
	}
	if out, ok := tryRawDeflate(raw, zeroDict); ok && len(out) >= expected {
		return truncate(out, expected), nil
	}

	streamOut := streamingInflate(raw, nil)
	if len(streamOut) >= expected {
		return truncate(streamOut, expected), nil
	}
	streamOutDict := streamingInflate(raw, zeroDict)
	if len(streamOutDict) >= expected {
		return truncate(streamOutDict, expected), nil
	}

	best := streamOut
	if len(streamOutDict) > len(best) {
		best = streamOutDict
	}

	recovered := multiSegmentRecovery(raw, best, expected)
	if len(recovered) < minBytes {
		return nil, xflerr.ErrDecompressionFailed
	}
	return truncate(recovered, expected), nil
}

func truncate(data []byte, expected int) []byte {
	if len(data) > expected {
		return data[:expected]
	}
	return data
}

func tryRawDeflate(data []byte, dict []byte) ([]byte, bool) {
	var r io.ReadCloser
	if dict == nil {
		r = flate.NewReader(bytes.NewReader(data))
	} else {
		r = flate.NewReaderDict(bytes.NewReader(data), dict)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	return out, err == nil
}

// streamingInflate captures every byte produced before the first decode
// error, rather than discarding a partial read outright (§4.3 strategy 3/4).
func streamingInflate(data []byte, dict []byte) []byte {
	var r io.ReadCloser
	if dict == nil {
		r = flate.NewReader(bytes.NewReader(data))
	} else {
		r = flate.NewReaderDict(bytes.NewReader(data), dict)
	}
	defer r.Close()

	var out bytes.Buffer
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return out.Bytes()
}

// multiSegmentRecovery implements strategy 5: combine the best streaming
// result with stored-block scans and a resynchronisation scan, in
// discovery order, capping total scan attempts.
func multiSegmentRecovery(data []byte, best []byte, expected int) []byte {
	segments := [][]byte{best}
	seen := map[int]bool{len(best): true}

	for _, block := range scanStoredBlocks(data) {
		if !seen[len(block)] {
			segments = append(segments, block)
			seen[len(block)] = true
		}
	}

	for offset := 1000; offset < len(data); offset += 500 {
		if seg, ok := resyncAttempt(data, offset); ok && len(seg) > 50000 && !seen[len(seg)] {
			segments = append(segments, seg)
			seen[len(seg)] = true
		}
		if totalLen(segments) >= expected {
			break
		}
	}

	var combined []byte
	for _, s := range segments {
		combined = append(combined, s...)
	}
	return combined
}

func totalLen(segments [][]byte) int {
	n := 0
	for _, s := range segments {
		n += len(s)
	}
	return n
}

func resyncAttempt(data []byte, offset int) ([]byte, bool) {
	if offset >= len(data) {
		return nil, false
	}
	if out, ok := tryRawDeflate(data[offset:], nil); ok {
		return out, true
	}
	if out, ok := tryRawDeflate(data[offset:], zeroDict); ok {
		return out, true
	}
	return nil, false
}

// scanStoredBlocks looks for uncompressed ("stored", BTYPE=00) deflate
// blocks: a byte whose low 3 bits are 000 (final-block-unset, BTYPE 00),
// followed by a 4-byte LEN/NLEN pair where NLEN is LEN's one's complement
// and LEN indicates at least 1000 bytes of payload.
func scanStoredBlocks(data []byte) [][]byte {
	var blocks [][]byte
	for i := 0; i+5 < len(data); i++ {
		if data[i]&0x07 != 0x00 {
			continue
		}
		lenField := binary.LittleEndian.Uint16(data[i+1 : i+3])
		nlenField := binary.LittleEndian.Uint16(data[i+3 : i+5])
		if lenField^0xFFFF != nlenField {
			continue
		}
		if int(lenField) < 1000 {
			continue
		}
		start := i + 5
		end := start + int(lenField)
		if end > len(data) {
			continue
		}
		blocks = append(blocks, data[start:end])
	}
	return blocks
}

// decode32Bit reorders source ABGR premultiplied bytes into straight RGBA.
func decode32Bit(raw []byte, width int, hasAlpha bool) (*Raster, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: non-positive width", xflerr.ErrInvalidHeader)
	}
	rowBytes := width * 4
	if rowBytes == 0 {
		return &Raster{Width: width, Height: 0}, nil
	}
	h := len(raw) / rowBytes
	pix := make([]byte, h*rowBytes)

	for i := 0; i < h*width; i++ {
		srcOff := i * 4
		a, b, g, rr := raw[srcOff], raw[srcOff+1], raw[srcOff+2], raw[srcOff+3]
		if !hasAlpha {
			a = 255
		}
		r, g2, b2 := unpremultiply(rr, a), unpremultiply(g, a), unpremultiply(b, a)
		dstOff := i * 4
		pix[dstOff], pix[dstOff+1], pix[dstOff+2], pix[dstOff+3] = r, g2, b2, a
	}

	return &Raster{Width: width, Height: h, Pix: pix}, nil
}

// unpremultiply reverses premultiplied-alpha encoding (§4.3): c_out =
// min(255, floor(c*256/alpha)) for 0 < alpha < 255; unchanged otherwise.
func unpremultiply(c, alpha byte) byte {
	if alpha == 0 || alpha == 255 {
		return c
	}
	v := (int(c) * 256) / int(alpha)
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// decodePalette decodes the 8-bit indexed format (magic 03 03): a
// uint16 palette count, then ABGR palette entries, then one index byte
// per pixel.
func decodePalette(raw []byte, width, height int, hasAlpha bool) (*Raster, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: truncated palette count", xflerr.ErrInvalidHeader)
	}
	count := int(binary.LittleEndian.Uint16(raw[0:2]))
	paletteStart := 2
	paletteEnd := paletteStart + count*4
	if paletteEnd > len(raw) {
		return nil, fmt.Errorf("%w: truncated palette", xflerr.ErrInvalidHeader)
	}
	palette := make([][4]byte, count)
	for i := 0; i < count; i++ {
		off := paletteStart + i*4
		a, b, g, r := raw[off], raw[off+1], raw[off+2], raw[off+3]
		if !hasAlpha {
			a = 255
		}
		palette[i] = [4]byte{r, g, b, a}
	}

	indices := raw[paletteEnd:]
	total := width * height
	if len(indices) < total {
		total = len(indices)
	}
	rows := 0
	if width > 0 {
		rows = total / width
	}

	pix := make([]byte, rows*width*4)
	for i := 0; i < rows*width; i++ {
		idx := int(indices[i])
		var c [4]byte
		if idx < len(palette) {
			c = palette[idx]
		} else {
			c = [4]byte{0, 0, 0, 255} // out-of-range resolves to opaque black
		}
		off := i * 4
		copy(pix[off:off+4], c[:])
	}

	return &Raster{Width: width, Height: rows, Pix: pix}, nil
}

// ToImage converts a Raster into a standard library RGBA image, for
// callers that want to hand decoded pixels to the image package directly.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}
