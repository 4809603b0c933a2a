package scene

// ColorTransform holds the per-channel multiplier/offset pairs applied to a
// DisplayElement's rendered pixels: out = in*Mult + Offset, each channel
// independently, per §4.4.
type ColorTransform struct {
	RedMultiplier   float64
	GreenMultiplier float64
	BlueMultiplier  float64
	AlphaMultiplier float64

	RedOffset   float64
	GreenOffset float64
	BlueOffset  float64
	AlphaOffset float64
}

// IdentityColorTransform returns the no-op transform.
func IdentityColorTransform() ColorTransform {
	return ColorTransform{RedMultiplier: 1, GreenMultiplier: 1, BlueMultiplier: 1, AlphaMultiplier: 1}
}

// ColorTransformFromBrightness derives a ColorTransform from a brightness
// slider in [-1, 1]: positive brightness reduces the multiplier and adds an
// offset toward white; negative brightness only reduces the multiplier
// (fades toward black), per §4.4.
func ColorTransformFromBrightness(brightness float64) ColorTransform {
	ct := IdentityColorTransform()
	if brightness >= 0 {
		mult := 1 - brightness
		offset := brightness * 255
		ct.RedMultiplier, ct.GreenMultiplier, ct.BlueMultiplier = mult, mult, mult
		ct.RedOffset, ct.GreenOffset, ct.BlueOffset = offset, offset, offset
	} else {
		mult := 1 + brightness
		ct.RedMultiplier, ct.GreenMultiplier, ct.BlueMultiplier = mult, mult, mult
	}
	return ct
}

// ColorTransformFromTint derives a ColorTransform that lerps the element's
// color toward tintColor by tintMultiplier (0 = no change, 1 = fully tinted).
func ColorTransformFromTint(tintMultiplier float64, tintColor RGBA) ColorTransform {
	mult := 1 - tintMultiplier
	return ColorTransform{
		RedMultiplier:   mult,
		GreenMultiplier: mult,
		BlueMultiplier:  mult,
		AlphaMultiplier: 1,
		RedOffset:       float64(tintColor.R) * tintMultiplier,
		GreenOffset:     float64(tintColor.G) * tintMultiplier,
		BlueOffset:      float64(tintColor.B) * tintMultiplier,
	}
}

// Compose returns the transform equivalent to applying c first, then outer.
func (c ColorTransform) Compose(outer ColorTransform) ColorTransform {
	return ColorTransform{
		RedMultiplier:   c.RedMultiplier * outer.RedMultiplier,
		GreenMultiplier: c.GreenMultiplier * outer.GreenMultiplier,
		BlueMultiplier:  c.BlueMultiplier * outer.BlueMultiplier,
		AlphaMultiplier: c.AlphaMultiplier * outer.AlphaMultiplier,
		RedOffset:       c.RedOffset*outer.RedMultiplier + outer.RedOffset,
		GreenOffset:     c.GreenOffset*outer.GreenMultiplier + outer.GreenOffset,
		BlueOffset:      c.BlueOffset*outer.BlueMultiplier + outer.BlueOffset,
		AlphaOffset:     c.AlphaOffset*outer.AlphaMultiplier + outer.AlphaOffset,
	}
}
