package edge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"xflscene/pkg/scene"
)

func TestDecodeQuadraticSquare(t *testing.T) {
	result := Decode("!100 200 | 300 200 | 300 400 | 100 400 /", Options{})

	expected := []scene.PathCommand{
		scene.MoveTo(5, 10),
		scene.LineTo(15, 10),
		scene.LineTo(15, 20),
		scene.LineTo(5, 20),
		scene.Close(),
	}
	require.Equal(t, expected, result.Commands)
}

func TestDecodeQuadraticCurves(t *testing.T) {
	raw := "!0 0 [200 0 200 200 [200 400 0 400 [-200 400 -200 200 [-200 0 0 0"
	result := Decode(raw, Options{})

	require.Len(t, result.Commands, 6)
	require.Equal(t, scene.CommandMoveTo, result.Commands[0].Kind)
	for i := 1; i <= 4; i++ {
		require.Equal(t, scene.CommandQuadTo, result.Commands[i].Kind)
	}
	last := result.Commands[len(result.Commands)-1]
	require.Equal(t, scene.CommandClose, last.Kind)

	final := result.Commands[4]
	require.InDelta(t, 0, final.X, 1e-9)
	require.InDelta(t, 0, final.Y, 1e-9)
}

func TestDecodeHexEdge(t *testing.T) {
	result := Decode("!#FFBA70 #0 | #45F0 #0", Options{})

	expected := []scene.PathCommand{
		scene.MoveTo(-17808.0/20, 0),
		scene.LineTo(17904.0/20, 0),
	}
	require.Equal(t, expected, result.Commands)
}

func TestDecodeHexSignRule(t *testing.T) {
	cases := map[string]struct {
		raw      string
		expected float64
	}{
		"signed-ffffff":    {"#FFFFFF", -1.0 / 20},
		"unsigned-short":   {"#81B9", 33209.0 / 20},
		"signed-24bit":     {"#FFBA70", -17808.0 / 20},
		"fraction":         {"#7F.80", (127.0 + 128.0/256.0) / 20},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := decodeCoord(tc.raw)
			require.NoError(t, err)
			require.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestDecodeCoordinateBounds(t *testing.T) {
	result := Decode("!100 200 | 300000 200 | 300 400", Options{})
	for _, c := range result.Commands {
		require.False(t, math.IsNaN(c.X) || math.IsInf(c.X, 0))
		require.True(t, math.Abs(c.X) <= maxCoord)
	}
}

func TestDecodeDropsOutOfBoundsCommand(t *testing.T) {
	// 300000/20 = 15000px exceeds the 10000px bound and must be dropped
	// entirely, leaving the well-formed commands intact.
	result := Decode("!100 200 | 300000 200 | 300 400", Options{})

	require.Len(t, result.Commands, 2)
	require.Equal(t, scene.MoveTo(5, 10), result.Commands[0])
	require.Equal(t, scene.LineTo(15, 20), result.Commands[1])
}

func TestDecodeEmitsCloseWhenEndingNearSubpathStart(t *testing.T) {
	result := Decode("!100 200 | 300 200 | 100 200", Options{})

	last := result.Commands[len(result.Commands)-1]
	require.Equal(t, scene.CommandClose, last.Kind)
}

func TestDecodeNoSpuriousCloseOnOpenPath(t *testing.T) {
	result := Decode("!100 200 | 300 200 | 300 5000", Options{})

	last := result.Commands[len(result.Commands)-1]
	require.NotEqual(t, scene.CommandClose, last.Kind)
}

func TestDecodeStyleChangeMarker(t *testing.T) {
	result := Decode("!0 0 S2 | 100 0", Options{})

	require.Len(t, result.StyleChanges, 1)
	require.Equal(t, 2, result.StyleChanges[0].FillStyle1)
	require.Equal(t, 1, result.StyleChanges[0].CommandIndex)
}

func TestDecodeCubicBlock(t *testing.T) {
	raw := "!0 0 (; 10 10 20 20 30 0 );"
	result := Decode(raw, Options{})

	require.Len(t, result.Commands, 2)
	require.Equal(t, scene.CommandCubicTo, result.Commands[1].Kind)
	require.InDelta(t, 1.5, result.Commands[1].X, 1e-9)
}

func TestDecodeAnchoredCubicBlock(t *testing.T) {
	raw := "(5 5 ; 10 10 20 20 30 0 );"
	result := Decode(raw, Options{})

	require.Len(t, result.Commands, 2)
	require.Equal(t, scene.CommandMoveTo, result.Commands[0].Kind)
	require.Equal(t, scene.CommandCubicTo, result.Commands[1].Kind)
}

func TestDecodeQuadraticApproximationSkipped(t *testing.T) {
	raw := "!0 0 q 999 999 999 999 Q | 100 0"
	result := Decode(raw, Options{})

	require.Len(t, result.Commands, 2)
	require.Equal(t, scene.CommandLineTo, result.Commands[1].Kind)
}

func TestDecodeInvalidHexDiscardsCommand(t *testing.T) {
	result := Decode("!0 0 | #ZZ 0 | 100 0", Options{})

	require.Len(t, result.Commands, 2)
	require.Equal(t, scene.LineTo(5, 0), result.Commands[1])
}

func TestDecodeImplicitMoveAfterClose(t *testing.T) {
	raw := "!0 0 | 100 0 / | 200 0"
	withoutFlag := Decode(raw, Options{})
	withFlag := Decode(raw, Options{ImplicitMoveAfterClose: true})

	require.Len(t, withoutFlag.Commands, 4)
	require.Len(t, withFlag.Commands, 5)
	require.Equal(t, scene.CommandMoveTo, withFlag.Commands[3].Kind)
}
