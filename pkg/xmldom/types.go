// Package xmldom walks the XFL DOM XML tree (DOMDocument, DOMSymbolItem,
// and the element/layer/frame schema shared by both) into the typed
// records of package scene.
package xmldom

import "encoding/xml"

// domMatrix mirrors the XFL <matrix> element; absent fields default to the
// identity values per the published schema.
type domMatrix struct {
	A  *float64 `xml:"a,attr"`
	B  *float64 `xml:"b,attr"`
	C  *float64 `xml:"c,attr"`
	D  *float64 `xml:"d,attr"`
	Tx *float64 `xml:"tx,attr"`
	Ty *float64 `xml:"ty,attr"`
}

type domMatrixWrapper struct {
	Matrix *domMatrix `xml:"Matrix>matrix"`
}

type domColorRGBA struct {
	Color   string  `xml:"color,attr"`
	Alpha   *float64 `xml:"alpha,attr"`
}

type domGradientEntry struct {
	Ratio float64 `xml:"ratio,attr"`
	Color string  `xml:"color,attr"`
	Alpha *float64 `xml:"alpha,attr"`
}

type domFillStyle struct {
	Index int `xml:"index,attr"`

	SolidColor *domColorRGBA `xml:"SolidColor"`

	LinearGradient *domGradient `xml:"LinearGradient"`
	RadialGradient *domGradient `xml:"RadialGradient"`

	BitmapFill *domBitmapFill `xml:"BitmapFill"`
}

type domGradient struct {
	Matrix          *domMatrix         `xml:"matrix>Matrix>matrix"`
	Spread          string             `xml:"spreadMethod,attr"`
	Interpolation   string             `xml:"interpolationMethod,attr"`
	FocalPointRatio float64            `xml:"focalPointRatio,attr"`
	Entries         []domGradientEntry `xml:"GradientEntry"`
}

type domBitmapFill struct {
	BitmapPath string `xml:"bitmapPath,attr"`
	IsClipped  bool   `xml:"isClipped,attr"`
	IsSmoothed bool   `xml:"isSmoothed,attr"`
}

type domStrokeStyle struct {
	Index int `xml:"index,attr"`

	SolidStroke *domSolidStroke `xml:"SolidStroke"`
}

type domSolidStroke struct {
	Weight       float64        `xml:"weight,attr"`
	ScaleMode    string         `xml:"scaleMode,attr"`
	Caps         string         `xml:"caps,attr"`
	Joints       string         `xml:"joints,attr"`
	MiterLimit   float64        `xml:"miterLimit,attr"`
	PixelHinting bool           `xml:"pixelHinting,attr"`
	Fill         domFillOnStroke `xml:"fill"`
}

type domFillOnStroke struct {
	SolidColor *domColorRGBA `xml:"SolidColor"`
}

type domEdge struct {
	FillStyle0  *int   `xml:"fillStyle0,attr"`
	FillStyle1  *int   `xml:"fillStyle1,attr"`
	StrokeStyle *int   `xml:"strokeStyle,attr"`
	Edges       string `xml:"edges,attr"`
	Cubics      string `xml:"cubics,attr"`
}

type domShape struct {
	domMatrixWrapper
	FillStyles   []domFillStyle   `xml:"fills>FillStyle"`
	StrokeStyles []domStrokeStyle `xml:"strokes>StrokeStyle"`
	Edges        []domEdge        `xml:"edges>Edge"`
}

type domFilter struct {
	XMLName    xml.Name
	BlurX      float64  `xml:"blurX,attr"`
	BlurY      float64  `xml:"blurY,attr"`
	Strength   float64  `xml:"strength,attr"`
	Quality    int      `xml:"quality,attr"`
	Angle      float64  `xml:"angle,attr"`
	Distance   float64  `xml:"distance,attr"`
	Color      string   `xml:"color,attr"`
	Alpha      *float64 `xml:"alpha,attr"`
	Brightness float64  `xml:"brightness,attr"`
	Contrast   float64  `xml:"contrast,attr"`
	Saturation float64  `xml:"saturation,attr"`
	Hue        float64  `xml:"hue,attr"`
	// Matrix doubles as the ConvolutionFilter's flattened kernel (a
	// comma-separated value list) and is otherwise unused.
	Matrix string `xml:"matrix,attr"`

	Inner           bool               `xml:"innerShadow,attr"`
	Knockout        bool               `xml:"knockout,attr"`
	ShadowColor     string             `xml:"shadowColor,attr"`
	ShadowAlpha     *float64           `xml:"shadowAlpha,attr"`
	HighlightColor  string             `xml:"highlightColor,attr"`
	HighlightAlpha  *float64           `xml:"highlightAlpha,attr"`
	Entries         []domGradientEntry `xml:"GradientEntry"`

	MatrixX       int     `xml:"matrixX,attr"`
	MatrixY       int     `xml:"matrixY,attr"`
	Divisor       float64 `xml:"divisor,attr"`
	Bias          float64 `xml:"bias,attr"`
	EdgeClamp     bool    `xml:"clamp,attr"`
	PreserveAlpha bool    `xml:"preserveAlpha,attr"`
}

// domFilterList captures the known filter element names of the XFL
// <filters> container; encoding/xml has no wildcard child matcher, so each
// possible filter kind gets its own named, ordinarily-empty slice and
// mapFilters concatenates them in a fixed kind order.
type domFilterList struct {
	DropShadowFilter   []domFilter `xml:"DropShadowFilter"`
	BlurFilter         []domFilter `xml:"BlurFilter"`
	GlowFilter         []domFilter `xml:"GlowFilter"`
	BevelFilter        []domFilter `xml:"BevelFilter"`
	GradientGlowFilter []domFilter `xml:"GradientGlowFilter"`
	GradientBevelFilter []domFilter `xml:"GradientBevelFilter"`
	ConvolutionFilter  []domFilter `xml:"ConvolutionFilter"`
	AdjustColorFilter  []domFilter `xml:"AdjustColorFilter"`
}

type domColor struct {
	Brightness     *float64 `xml:"brightness,attr"`
	TintMultiplier *float64 `xml:"tintMultiplier,attr"`
	TintColor      string   `xml:"tintColor,attr"`

	RedMultiplier   *float64 `xml:"redMultiplier,attr"`
	GreenMultiplier *float64 `xml:"greenMultiplier,attr"`
	BlueMultiplier  *float64 `xml:"blueMultiplier,attr"`
	AlphaMultiplier *float64 `xml:"alphaMultiplier,attr"`
	RedOffset       *float64 `xml:"redOffset,attr"`
	GreenOffset     *float64 `xml:"greenOffset,attr"`
	BlueOffset      *float64 `xml:"blueOffset,attr"`
	AlphaOffset     *float64 `xml:"alphaOffset,attr"`
}

type domPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

type domTransformationPoint struct {
	Point domPoint `xml:"Point"`
}

type domSymbolInstance struct {
	domMatrixWrapper
	LibraryItemName      string                   `xml:"libraryItemName,attr"`
	SymbolType           string                   `xml:"symbolType,attr"`
	TransformationPoint  *domTransformationPoint  `xml:"transformationPoint"`
	Loop                 string                   `xml:"loop,attr"`
	FirstFrame           int                      `xml:"firstFrame,attr"`
	LastFrame            *int                     `xml:"lastFrame,attr"`
	BlendMode            string                   `xml:"blendMode,attr"`
	Visible              *bool                    `xml:"isVisible,attr"`
	CacheAsBitmap        bool                     `xml:"cacheAsBitmap,attr"`

	Filters *domFilterList `xml:"filters"`
	Color   *domColor      `xml:"color>Color"`
}

type domBitmapInstance struct {
	domMatrixWrapper
	LibraryItemName string `xml:"libraryItemName,attr"`
}

type domVideoInstance struct {
	domMatrixWrapper
	LibraryItemName string `xml:"libraryItemName,attr"`
}

type domTextAttrs struct {
	Face      string   `xml:"face,attr"`
	Size      float64  `xml:"size,attr"`
	FillColor string   `xml:"fillColor,attr"`
	Alpha     *float64 `xml:"alpha,attr"`
}

type domTextRun struct {
	Characters string       `xml:"characters"`
	Attrs      domTextAttrs `xml:"textAttrs>DOMTextAttrs"`
}

// domText backs DOMStaticText/DOMDynamicText/DOMInputText, which share one
// schema (textRuns/width/height/matrix) and differ only in editability,
// which the scene graph doesn't need to render a frame.
type domText struct {
	domMatrixWrapper
	Width  float64      `xml:"width,attr"`
	Height float64      `xml:"height,attr"`
	Runs   []domTextRun `xml:"textRuns>DOMTextRun"`
}

type domElements struct {
	DOMShape          []domShape          `xml:"DOMShape"`
	DOMSymbolInstance []domSymbolInstance `xml:"DOMSymbolInstance"`
	DOMBitmapInstance []domBitmapInstance `xml:"DOMBitmapInstance"`
	DOMVideoInstance  []domVideoInstance  `xml:"DOMVideoInstance"`
	DOMStaticText     []domText           `xml:"DOMStaticText"`
	DOMDynamicText    []domText           `xml:"DOMDynamicText"`
	DOMInputText      []domText           `xml:"DOMInputText"`
	DOMGroup          []domGroup          `xml:"DOMGroup"`
}

type domGroup struct {
	domMatrixWrapper
	domElements // anonymous: group members flatten into this struct's own tags
}

type domFrame struct {
	Index      int    `xml:"index,attr"`
	Duration   int    `xml:"duration,attr"`
	KeyMode    int    `xml:"keyMode,attr"`
	TweenType  string `xml:"tweenType,attr"`
	Name       string `xml:"name,attr"`
	LabelType  string `xml:"labelType,attr"`
	Elements   domElements `xml:"elements"`
}

type domLayer struct {
	Name         string     `xml:"name,attr"`
	Color        string     `xml:"color,attr"`
	Visible      *bool      `xml:"visible,attr"`
	Locked       bool       `xml:"locked,attr"`
	Outline      bool       `xml:"outline,attr"`
	Current      bool       `xml:"current,attr"`
	LayerType    string     `xml:"layerType,attr"`
	ParentLayerIndex *int   `xml:"parentLayerIndex,attr"`
	AlphaPercent float64    `xml:"alphaPercent,attr"`
	Frames       []domFrame `xml:"frames>DOMFrame"`
}

type domTimeline struct {
	Name   string     `xml:"name,attr"`
	Layers []domLayer `xml:"layers>DOMLayer"`
}

// DOMDocument is the root of DOMDocument.xml.
type DOMDocument struct {
	XMLName         xml.Name `xml:"DOMDocument"`
	Width           int      `xml:"width,attr"`
	Height          int      `xml:"height,attr"`
	FrameRate       float64  `xml:"frameRate,attr"`
	BackgroundColor string   `xml:"backgroundColor,attr"`
	Timeline        domTimeline `xml:"timelines>DOMTimeline"`
}

// DOMSymbolItem is the root of a LIBRARY/*.xml symbol document.
type DOMSymbolItem struct {
	XMLName    xml.Name    `xml:"DOMSymbolItem"`
	Name       string      `xml:"name,attr"`
	ItemID     string      `xml:"itemID,attr"`
	SymbolType string      `xml:"symbolType,attr"`
	Timeline   domTimeline `xml:"timeline>DOMTimeline"`
}
