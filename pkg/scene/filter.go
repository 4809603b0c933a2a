package scene

import "math"

// FilterKind tags a Filter variant.
type FilterKind uint8

// Filter kinds, per §4.4.
const (
	FilterBlur FilterKind = iota
	FilterGlow
	FilterDropShadow
	FilterBevel
	FilterColorMatrix
	FilterConvolution
	FilterGradientGlow
	FilterGradientBevel
)

// Filter is a tagged variant; only the fields relevant to Kind are populated.
// Strength-like attributes are already normalised from [0,255] to [0,1] by
// the XML mapper.
type Filter struct {
	Kind FilterKind

	// Blur / Glow / DropShadow / Bevel / GradientGlow / GradientBevel.
	BlurX, BlurY float64
	Strength     float64
	Quality      int
	Inner        bool
	Knockout     bool
	Color        RGBA
	// DropShadow / Bevel / GradientBevel.
	Angle, Distance float64
	// Bevel / GradientBevel.
	ShadowColor    RGBA
	HighlightColor RGBA
	// GradientGlow / GradientBevel.
	Stops []GradientStop

	// ColorMatrix: 4x5 row-major matrix (RGBA + offset column).
	Matrix [20]float64

	// Convolution.
	MatrixX, MatrixY int
	ConvolutionValues []float64
	Divisor           float64
	Bias              float64
	EdgeClamp         bool
	PreserveAlpha     bool
}

// LuminanceWeights are the standard Rec.601-style weights used to derive a
// ColorMatrix filter from brightness/contrast/saturation/hue adjustments (§4.4).
var LuminanceWeights = struct{ R, G, B float64 }{R: 0.299, G: 0.587, B: 0.114}

// ColorMatrixFromAdjustments builds the 4x5 matrix for brightness/contrast/
// saturation/hue sliders, using the standard luminance-weighted composition.
// brightness/contrast/saturation are in [-1, 1]; hue is in degrees.
func ColorMatrixFromAdjustments(brightness, contrast, saturation, hue float64) [20]float64 {
	m := identityColorMatrix()
	m = saturateColorMatrix(m, saturation)
	m = hueRotateColorMatrix(m, hue)
	m = contrastColorMatrix(m, contrast)
	m = brightnessColorMatrix(m, brightness)
	return m
}

func identityColorMatrix() [20]float64 {
	return [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func saturateColorMatrix(m [20]float64, saturation float64) [20]float64 {
	s := saturation
	lr, lg, lb := LuminanceWeights.R, LuminanceWeights.G, LuminanceWeights.B
	sat := [20]float64{
		lr + (1-lr)*s, lg * (1 - s), lb * (1 - s), 0, 0,
		lr * (1 - s), lg + (1-lg)*s, lb * (1 - s), 0, 0,
		lr * (1 - s), lg * (1 - s), lb + (1-lb)*s, 0, 0,
		0, 0, 0, 1, 0,
	}
	return multiplyColorMatrix(sat, m)
}

func multiplyColorMatrix(a, b [20]float64) [20]float64 {
	var out [20]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			if col == 4 {
				sum += a[row*5+4]
			}
			out[row*5+col] = sum
		}
	}
	return out
}

func hueRotateColorMatrix(m [20]float64, degrees float64) [20]float64 {
	if degrees == 0 {
		return m
	}
	// Rotation around the gray axis; cos/sin applied via the standard
	// luminance-preserving hue-rotation matrix.
	rad := degrees * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	lr, lg, lb := LuminanceWeights.R, LuminanceWeights.G, LuminanceWeights.B
	rot := [20]float64{
		lr + c*(1-lr) + s*(-lr), lg + c*(-lg) + s*(-lg), lb + c*(-lb) + s*(1-lb), 0, 0,
		lr + c*(-lr) + s*(0.143), lg + c*(1-lg) + s*(0.140), lb + c*(-lb) + s*(-0.283), 0, 0,
		lr + c*(-lr) + s*(-(1 - lr)), lg + c*(-lg) + s*(lg), lb + c*(1-lb) + s*(lb), 0, 0,
		0, 0, 0, 1, 0,
	}
	return multiplyColorMatrix(rot, m)
}

func contrastColorMatrix(m [20]float64, contrast float64) [20]float64 {
	c := 1 + contrast
	t := (1 - c) * 0.5 * 255
	con := [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
	return multiplyColorMatrix(con, m)
}

func brightnessColorMatrix(m [20]float64, brightness float64) [20]float64 {
	b := brightness * 255
	bri := [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
	return multiplyColorMatrix(bri, m)
}
