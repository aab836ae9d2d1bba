package numio

import (
	"strings"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// Format renders v as Scheme-readable text in the given radix.
// Flonums always print in base 10 regardless of radix: the
// shortest-round-trip digit string strconv produces has no defined
// meaning in another base, and no numeric tower exposes non-decimal
// flonum literals either.
func Format(v wispval.Value, radix int, uppercase bool) string {
	s := formatValue(v, radix)
	if uppercase {
		return strings.ToUpper(s)
	}
	return s
}

func formatValue(v wispval.Value, radix int) string {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return bignum.ToBigInt(v).Text(radix)
	case *wispval.Rational:
		return bignum.ToBigInt(n.Numer).Text(radix) + "/" + bignum.ToBigInt(n.Denom).Text(radix)
	case wispval.Flonum:
		return FormatFlonum(float64(n))
	case *wispval.Compnum:
		im := FormatFlonum(n.Im)
		if n.Im >= 0 && !strings.HasPrefix(im, "+") {
			im = "+" + im
		}
		return FormatFlonum(n.Re) + im + "i"
	default:
		return "#<non-number>"
	}
}
