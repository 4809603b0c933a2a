package bitmap

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildHeader assembles the 26-byte .dat header for the given magic/size.
func buildHeader(magic uint16, width, height int, hasAlpha, variant byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, magic)
	binary.Write(&buf, binary.LittleEndian, uint16(width*4))
	binary.Write(&buf, binary.LittleEndian, uint16(width))
	binary.Write(&buf, binary.LittleEndian, uint16(height))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(width*20))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(height*20))
	buf.WriteByte(hasAlpha)
	buf.WriteByte(variant)
	return buf.Bytes()
}

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecode2x2OpaqueRed(t *testing.T) {
	// 2x2 opaque red pixels: source byte order is A,B,G,R premultiplied.
	pixel := []byte{255, 0, 0, 255}
	raw := bytes.Repeat(pixel, 4)
	compressed := zlibCompress(t, raw)

	blob := append(buildHeader(magic32Bit, 2, 2, 0, 0), compressed...)

	raster, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, 2, raster.Width)
	require.Equal(t, 2, raster.Height)

	for i := 0; i < 4; i++ {
		off := i * 4
		require.Equal(t, []byte{255, 0, 0, 255}, raster.Pix[off:off+4])
	}
}

func TestDecodeChunkedPayload(t *testing.T) {
	pixel := []byte{255, 0, 0, 255}
	raw := bytes.Repeat(pixel, 4)
	compressed := zlibCompress(t, raw)

	var chunked bytes.Buffer
	mid := len(compressed) / 2
	writeChunk(&chunked, compressed[:mid])
	writeChunk(&chunked, compressed[mid:])
	writeChunk(&chunked, nil) // terminator

	blob := append(buildHeader(magic32Bit, 2, 2, 0, 1), chunked.Bytes()...)

	raster, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, 2, raster.Height)
}

func writeChunk(buf *bytes.Buffer, data []byte) {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(data)))
	buf.Write(lenBuf[:])
	buf.Write(data)
}

func TestDecodeUnpremultipliesAlpha(t *testing.T) {
	// alpha=128, premultiplied red channel = 128 -> unpremultiplied ~255.
	pixel := []byte{128, 0, 0, 128}
	raw := bytes.Repeat(pixel, 1)
	compressed := zlibCompress(t, raw)

	blob := append(buildHeader(magic32Bit, 1, 1, 1, 0), compressed...)

	raster, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, byte(128), raster.Pix[3])
	require.Equal(t, byte(255), raster.Pix[0])
}

func TestDecodeInvalidMagic(t *testing.T) {
	blob := buildHeader(0x1234, 1, 1, 0, 0)
	_, err := Decode(blob)
	require.Error(t, err)
}

func TestDecodePaletteOutOfRangeIndexIsOpaqueBlack(t *testing.T) {
	var palettePayload bytes.Buffer
	binary.Write(&palettePayload, binary.LittleEndian, uint16(1)) // 1 palette entry
	palettePayload.Write([]byte{255, 0, 0, 200})                  // A,B,G,R: opaque red-ish... arbitrary
	palettePayload.WriteByte(5)                                   // out-of-range index for a 1x1 image

	compressed := zlibCompress(t, palettePayload.Bytes())
	blob := append(buildHeader(magicPal8Bit, 1, 1, 1, 0), compressed...)

	raster, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 255}, raster.Pix[0:4])
}
