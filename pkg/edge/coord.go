package edge

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"xflscene/pkg/xflerr"
)

// maxCoord is the per-axis bound enforced on every decoded coordinate (§3
// invariant 5, §8 property 1).
const maxCoord = 10000.0

// decodeCoord converts a raw twip/hex token into pixels, applying the sign
// rule described in §4.1 and tested by §8 property 4.
func decodeCoord(raw string) (float64, error) {
	if strings.HasPrefix(raw, "#") {
		return decodeHexCoord(raw[1:])
	}
	return decodeDecimalCoord(raw)
}

func decodeDecimalCoord(raw string) (float64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", xflerr.ErrInvalidHex, raw)
	}
	return float64(v) / 20, nil
}

// decodeHexCoord parses "HEX[.FRAC]". HEX is two's-complement signed only
// when it has >= 6 hex digits (>= 24 bits); shorter values are unsigned.
// FRAC is a positive base-16 fraction whose magnitude is added (intPart >= 0)
// or subtracted (intPart < 0), preserving the integer part's sign. The
// combined value is divided by 20.
func decodeHexCoord(raw string) (float64, error) {
	intText, fracText, hasFrac := strings.Cut(raw, ".")

	if intText == "" {
		return 0, fmt.Errorf("%w: %q", xflerr.ErrInvalidHex, raw)
	}

	unsigned, err := strconv.ParseUint(intText, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", xflerr.ErrInvalidHex, raw)
	}

	digits := len(intText)
	intValue := int64(unsigned)
	if digits >= 6 {
		bits := uint(digits * 4)
		signBit := uint64(1) << (bits - 1)
		if unsigned&signBit != 0 {
			intValue = int64(unsigned) - int64(uint64(1)<<bits)
		}
	}

	combined := float64(intValue)
	if hasFrac && fracText != "" {
		fracUnsigned, err := strconv.ParseUint(fracText, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", xflerr.ErrInvalidHex, raw)
		}
		fracValue := float64(fracUnsigned) / math.Pow(16, float64(len(fracText)))
		if intValue < 0 {
			combined -= fracValue
		} else {
			combined += fracValue
		}
	}

	return combined / 20, nil
}

// decodeInt parses a plain base-10 style index token (used by "S N" style
// markers).
func decodeInt(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", xflerr.ErrInvalidHex, raw)
	}
	return int(v), nil
}

// withinBounds reports whether coord satisfies invariant 5: finite and
// |coord| <= maxCoord.
func withinBounds(coord float64) bool {
	return !math.IsNaN(coord) && !math.IsInf(coord, 0) && math.Abs(coord) <= maxCoord
}
