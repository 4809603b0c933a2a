package xmldom

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"xflscene/pkg/scene"
)

func TestMapDocumentBasics(t *testing.T) {
	raw := `<DOMDocument width="550" height="400" frameRate="24" backgroundColor="#FFFFFF">
		<timelines>
			<DOMTimeline name="Scene 1">
				<layers>
					<DOMLayer name="Layer 1">
						<frames>
							<DOMFrame index="0" duration="1">
								<elements>
									<DOMShape>
										<fills>
											<FillStyle index="1"><SolidColor color="#FF0000"/></FillStyle>
										</fills>
										<edges>
											<Edge fillStyle1="1" edges="!0 0 | 200 0 | 200 200 | 0 200 /"/>
										</edges>
									</DOMShape>
								</elements>
							</DOMFrame>
						</frames>
					</DOMLayer>
				</layers>
			</DOMTimeline>
		</timelines>
	</DOMDocument>`

	doc, err := MapDocument([]byte(raw), Options{})
	require.NoError(t, err)
	require.Equal(t, 550, doc.Width)
	require.Equal(t, 400, doc.Height)
	require.InDelta(t, 24, doc.FrameRate, 1e-9)
	require.Equal(t, scene.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, doc.BackgroundColor)

	require.Len(t, doc.Timelines, 1)
	layer := doc.Timelines[0].Layers[0]
	require.Len(t, layer.Frames, 1)

	elements := layer.Frames[0].Elements
	require.Len(t, elements, 1)
	require.Equal(t, scene.ElementShape, elements[0].Kind)

	shape := elements[0].Shape
	require.Len(t, shape.FillStyles, 1)
	require.Equal(t, scene.RGBA{R: 0xFF, A: 0xFF}, shape.FillStyles[0].Color)

	require.Len(t, shape.Edges, 1)
	require.Equal(t, 1, shape.Edges[0].FillStyle1)
	require.Len(t, shape.Edges[0].Commands, 5) // move + 3 lines + close
}

func TestMapSymbolMovieClipButtonHitFrame(t *testing.T) {
	raw := `<DOMSymbolItem name="Button1" itemID="abc" symbolType="button">
		<timeline>
			<DOMTimeline name="Button1">
				<layers>
					<DOMLayer name="hit area">
						<frames>
							<DOMFrame index="0" duration="1" name="hit" labelType="name">
								<elements/>
							</DOMFrame>
						</frames>
					</DOMLayer>
				</layers>
			</DOMTimeline>
		</timeline>
	</DOMSymbolItem>`

	symbol, err := MapSymbol([]byte(raw), Options{})
	require.NoError(t, err)
	require.Equal(t, scene.SymbolButton, symbol.SymbolType)
	require.NotNil(t, symbol.HitAreaFrame)
	require.Equal(t, 0, *symbol.HitAreaFrame)
}

func TestMapSymbolGraphicNoHitFrame(t *testing.T) {
	raw := `<DOMSymbolItem name="Star" itemID="xyz" symbolType="graphic">
		<timeline>
			<DOMTimeline name="Star">
				<layers>
					<DOMLayer name="Layer 1">
						<frames>
							<DOMFrame index="0" duration="1"><elements/></DOMFrame>
						</frames>
					</DOMLayer>
				</layers>
			</DOMTimeline>
		</timeline>
	</DOMSymbolItem>`

	symbol, err := MapSymbol([]byte(raw), Options{})
	require.NoError(t, err)
	require.Equal(t, scene.SymbolGraphic, symbol.SymbolType)
	require.Nil(t, symbol.HitAreaFrame)
}

func TestMapGroupFlattensAndComposesMatrix(t *testing.T) {
	raw := `<DOMDocument width="100" height="100" frameRate="24" backgroundColor="#000000">
		<timelines>
			<DOMTimeline name="Scene 1">
				<layers>
					<DOMLayer name="Layer 1">
						<frames>
							<DOMFrame index="0" duration="1">
								<elements>
									<DOMGroup>
										<Matrix><matrix a="2" d="2" tx="50" ty="50"/></Matrix>
										<DOMBitmapInstance libraryItemName="art.png"/>
									</DOMGroup>
								</elements>
							</DOMFrame>
						</frames>
					</DOMLayer>
				</layers>
			</DOMTimeline>
		</timelines>
	</DOMDocument>`

	doc, err := MapDocument([]byte(raw), Options{})
	require.NoError(t, err)

	elements := doc.Timelines[0].Layers[0].Frames[0].Elements
	require.Len(t, elements, 1) // the group itself is flattened away
	require.Equal(t, scene.ElementBitmap, elements[0].Kind)
	require.Equal(t, "art.png", elements[0].Bitmap.LibraryItemName)
	// The bitmap carries no matrix of its own, so it inherits the group's.
	require.Equal(t, scene.Matrix{A: 2, D: 2, Tx: 50, Ty: 50}, elements[0].Bitmap.Matrix)
}

func TestMapSymbolInstanceExplicitMatrixOverridesGroup(t *testing.T) {
	raw := `<DOMDocument width="100" height="100" frameRate="24" backgroundColor="#000000">
		<timelines>
			<DOMTimeline name="Scene 1">
				<layers>
					<DOMLayer name="Layer 1">
						<frames>
							<DOMFrame index="0" duration="1">
								<elements>
									<DOMGroup>
										<Matrix><matrix a="2" d="2" tx="50" ty="50"/></Matrix>
										<DOMSymbolInstance libraryItemName="hero" symbolType="graphic">
											<Matrix><matrix a="1" d="1" tx="9" ty="9"/></Matrix>
										</DOMSymbolInstance>
									</DOMGroup>
								</elements>
							</DOMFrame>
						</frames>
					</DOMLayer>
				</layers>
			</DOMTimeline>
		</timelines>
	</DOMDocument>`

	doc, err := MapDocument([]byte(raw), Options{})
	require.NoError(t, err)

	el := doc.Timelines[0].Layers[0].Frames[0].Elements[0]
	require.Equal(t, scene.ElementSymbol, el.Kind)
	require.Equal(t, scene.Matrix{A: 1, D: 1, Tx: 9, Ty: 9}, el.Symbol.Matrix)
}

func TestMapLayerMaskResolution(t *testing.T) {
	raw := `<DOMTimeline name="Scene 1">
		<layers>
			<DOMLayer name="Mask" layerType="mask">
				<frames><DOMFrame index="0" duration="1"><elements/></DOMFrame></frames>
			</DOMLayer>
			<DOMLayer name="Masked" parentLayerIndex="0">
				<frames><DOMFrame index="0" duration="1"><elements/></DOMFrame></frames>
			</DOMLayer>
		</layers>
	</DOMTimeline>`

	var dom domTimeline
	require.NoError(t, xml.Unmarshal([]byte(raw), &dom))

	timeline := mapTimeline(dom, 0, 0, Options{})
	require.Equal(t, scene.LayerMask, timeline.Layers[0].Kind)
	require.Equal(t, scene.LayerMasked, timeline.Layers[1].Kind)
	require.NotNil(t, timeline.Layers[1].MaskLayerIndex)
	require.Equal(t, 0, *timeline.Layers[1].MaskLayerIndex)
	require.False(t, timeline.IsReferenceLayer(0)) // a mask layer itself still renders as the clip
}

func TestMapColorTransformBrightness(t *testing.T) {
	brightness := 0.5
	c := &domColor{Brightness: &brightness}
	ct := mapColorTransform(c)
	require.InDelta(t, 0.5, ct.RedMultiplier, 1e-9)
	require.InDelta(t, 127.5, ct.RedOffset, 1e-9)
}

func TestParseColorDefaults(t *testing.T) {
	require.Equal(t, scene.RGBA{A: 255}, parseColor("", nil))
	require.Equal(t, scene.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}, parseColor("#123456", nil))
	half := 0.5
	require.Equal(t, byte(128), parseColor("#000000", &half).A)
}

func TestMapElementsTextAndVideo(t *testing.T) {
	elements := domElements{
		DOMStaticText: []domText{{
			Width: 100, Height: 20,
			Runs: []domTextRun{{
				Characters: "hello",
				Attrs:      domTextAttrs{Face: "Arial", Size: 12, FillColor: "#FF0000"},
			}},
		}},
		DOMVideoInstance: []domVideoInstance{{LibraryItemName: "bin/clip.flv"}},
	}

	out := mapElements(elements, scene.Identity(), Options{})
	require.Len(t, out, 2)

	require.Equal(t, scene.ElementText, out[1].Kind)
	require.Equal(t, 100.0, out[1].Text.Width)
	require.Len(t, out[1].Text.Runs, 1)
	require.Equal(t, "hello", out[1].Text.Runs[0].Text)
	require.Equal(t, "Arial", out[1].Text.Runs[0].FontName)
	require.Equal(t, scene.RGBA{R: 0xFF, A: 0xFF}, out[1].Text.Runs[0].Color)

	require.Equal(t, scene.ElementVideo, out[0].Kind)
	require.Equal(t, "bin/clip.flv", out[0].Video.LibraryItemName)
}

// A wide, thin document (1000x100) is the case where a combined-radius
// tolerance check and two independent per-axis checks diverge: a point 20
// units off-center on the short axis is well within a combined-radius
// circle sized against the document's diagonal, but outside this axis's
// own 15%-of-height tolerance.
func TestDetectCameraLayerUsesPerAxisTolerance(t *testing.T) {
	makeLayer := func(px, py float64) []scene.Layer {
		inst := &scene.SymbolInstance{
			Matrix: scene.Matrix{A: 1, D: 1, Tx: px, Ty: py},
		}
		return []scene.Layer{{
			Name:    "camera",
			Kind:    scene.LayerGuide,
			Visible: true,
			Frames: []scene.Frame{{
				Index: 0, Duration: 1,
				Elements: []scene.DisplayElement{{Kind: scene.ElementSymbol, Symbol: inst}},
			}},
		}}
	}

	// Center: (500, 50). Within 15% on both axes (x<=150, y<=15).
	require.NotNil(t, detectCameraLayer(makeLayer(600, 60), 1000, 100))

	// 20 units off on y (> 15% of 100) but only 100 off on x: well inside a
	// combined-radius circle (dist≈101.98 < 0.15*hypot(1000,100)≈150.75),
	// but outside the y-axis's own tolerance — must be rejected.
	require.Nil(t, detectCameraLayer(makeLayer(600, 70), 1000, 100))
}
