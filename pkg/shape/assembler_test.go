package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xflscene/pkg/scene"
)

// square returns four edges forming a 10x10 square in CCW order, each
// contributing to fill 1 in the forward direction (fillStyle1=1).
func square() scene.Shape {
	return scene.Shape{
		FillStyles: []scene.FillStyle{{Kind: scene.FillSolid}},
		Edges: []scene.Edge{
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(0, 0), scene.LineTo(10, 0),
			}},
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(10, 0), scene.LineTo(10, 10),
			}},
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(10, 10), scene.LineTo(0, 10),
			}},
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(0, 10), scene.LineTo(0, 0),
			}},
		},
	}
}

func TestAssembleSquareSingleClosedChain(t *testing.T) {
	result := Assemble(square())

	chains := result.Chains[1]
	require.Len(t, chains, 1)
	require.True(t, chains[0].Closed)
	require.Len(t, chains[0].Contributions, 4)
	require.Empty(t, result.Diagnostics)
}

func TestAssembleUsesEveryContributionExactlyOnce(t *testing.T) {
	result := Assemble(square())

	seen := make(map[int]bool)
	for _, chain := range result.Chains[1] {
		for _, c := range chain.Contributions {
			require.False(t, seen[c.EdgeIndex], "edge %d reused", c.EdgeIndex)
			seen[c.EdgeIndex] = true
		}
	}
	require.Len(t, seen, 4)
}

func TestAssembleTwoSidedEdgeContributesBothFills(t *testing.T) {
	s := scene.Shape{
		Edges: []scene.Edge{
			{FillStyle0: 2, FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(0, 0), scene.LineTo(10, 0),
			}},
		},
	}
	result := Assemble(s)

	require.Len(t, result.Chains[1], 1)
	require.Len(t, result.Chains[2], 1)

	fwd := result.Chains[1][0].Contributions[0]
	require.Equal(t, 0.0, fwd.StartX)
	require.Equal(t, 10.0, fwd.EndX)

	rev := result.Chains[2][0].Contributions[0]
	require.Equal(t, 10.0, rev.StartX)
	require.Equal(t, 0.0, rev.EndX)
}

func TestAssembleSameFillOnBothSidesContributesOnce(t *testing.T) {
	s := scene.Shape{
		Edges: []scene.Edge{
			{FillStyle0: 1, FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(0, 0), scene.LineTo(10, 0),
			}},
		},
	}
	result := Assemble(s)

	require.Len(t, result.Chains[1], 1)
	require.Len(t, result.Chains[1][0].Contributions, 1)
}

func TestAssembleOpenPathRecordsDiagnostic(t *testing.T) {
	s := scene.Shape{
		Edges: []scene.Edge{
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(0, 0), scene.LineTo(10, 0),
			}},
			{FillStyle1: 1, Commands: []scene.PathCommand{
				scene.MoveTo(10, 0), scene.LineTo(100, 100),
			}},
		},
	}
	result := Assemble(s)

	require.Len(t, result.Chains[1], 1)
	require.False(t, result.Chains[1][0].Closed)
	require.Len(t, result.Diagnostics, 1)
}
