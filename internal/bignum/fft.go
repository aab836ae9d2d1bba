package bignum

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"

	"wisp/internal/wispval"
)

// fftThreshold is the operand size, in limbs, above which Mul switches
// from schoolbook multiplication to bigfft's FFT-based algorithm.
// Component B permits this without requiring it; schoolbook is O(n²),
// which dominates quickly once both factors run into the thousands of
// limbs a large `expt` or bignum-heavy benchmark can produce.
const fftThreshold = 192

// mulMagFFT multiplies two magnitudes via bigfft, going through
// math/big.Int only as bigfft's required input/output representation,
// big.Word and wispval.Limb are both the platform's native unsigned
// word, so the conversion is a reinterpretation of the limb slice, not
// an arithmetic transformation.
func mulMagFFT(a, b []wispval.Limb) []wispval.Limb {
	x := new(big.Int).SetBits(limbsToWords(a))
	y := new(big.Int).SetBits(limbsToWords(b))
	z := bigfft.Mul(x, y)
	return wordsToLimbs(z.Bits())
}

func limbsToWords(limbs []wispval.Limb) []big.Word {
	words := make([]big.Word, len(limbs))
	for i, l := range limbs {
		words[i] = big.Word(l)
	}
	return words
}

func wordsToLimbs(words []big.Word) []wispval.Limb {
	limbs := make([]wispval.Limb, len(words))
	for i, w := range words {
		limbs[i] = wispval.Limb(w)
	}
	return limbs
}
