package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Script classifies a character for width estimation.
type Script int

const (
	ScriptOther Script = iota
	ScriptCJK
	ScriptLetter
	ScriptDigit
	ScriptSpace
)

// widthFactors is the advance of one character as a fraction of the font
// size, per script.
var widthFactors = [...]float64{
	ScriptOther:  0.70,
	ScriptCJK:    0.55,
	ScriptLetter: 0.55,
	ScriptDigit:  0.60,
	ScriptSpace:  0.30,
}

// spacingFactor accounts for inter-character spacing.
const spacingFactor = 1.05

const cjkPunctuation = "，。！？；：“”‘’（）【】《》、"

// Classify returns the script class of r.
func Classify(r rune) Script {
	switch {
	case unicode.Is(unicode.Han, r), strings.ContainsRune(cjkPunctuation, r):
		return ScriptCJK
	case unicode.IsPunct(r) && isWide(r):
		return ScriptCJK
	case unicode.IsLetter(r):
		return ScriptLetter
	case unicode.IsDigit(r):
		return ScriptDigit
	case r == ' ':
		return ScriptSpace
	}
	return ScriptOther
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// EstimateWidth returns the approximate rendered width of text at fontSize
// points, in EMU. Text is NFC-normalized first so that composed and
// decomposed forms measure the same.
func EstimateWidth(text string, fontSize float64) int64 {
	var pt float64
	for _, r := range norm.NFC.String(text) {
		pt += fontSize * widthFactors[Classify(r)]
	}
	pt *= spacingFactor
	return int64(pt * EMUPerInch / 72)
}
