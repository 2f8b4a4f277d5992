package textproc

import (
	"strings"
	"unicode/utf8"
)

// EMU conversion factors.
const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700
)

// perCharWidth is the nominal width of one character used to estimate how
// many characters fit on a line (7pt).
const perCharWidth = 7 * EMUPerPoint

// DefaultSuffix is appended by [Truncate] when text is cut.
const DefaultSuffix = "..."

// FontRange is the floor, default and ceiling font size for a text role.
type FontRange struct {
	Min     int `toml:"min"`
	Default int `toml:"default"`
	Max     int `toml:"max"`
}

// Inches converts inches to EMU.
func Inches(in float64) int64 { return int64(in * EMUPerInch) }

// Points converts points to EMU.
func Points(pt float64) int64 { return int64(pt * EMUPerPoint) }

// EstimateFontSize picks a font size for text bound into a box of the given
// size (EMU). It estimates the number of lines from the character count and
// the characters per line, then steps down from the role's roomy size toward
// its floor as the line count grows:
//
//	> 20 lines  -> Min
//	> 10 lines  -> halfway between Min and Default
//	>  5 lines  -> Default
//	otherwise   -> min(Max, Default+4)
//
// boxH does not affect the estimate.
func EstimateFontSize(text string, boxW, boxH int64, r FontRange) int {
	if text == "" || boxW <= 0 {
		return r.Default
	}

	chars := utf8.RuneCountInString(text)
	perLine := max(1, int(boxW/perCharWidth))
	lines := max(1.0, float64(chars)/float64(perLine))

	switch {
	case lines > 20:
		return r.Min
	case lines > 10:
		return int(float64(r.Min) + float64(r.Default-r.Min)*0.5)
	case lines > 5:
		return r.Default
	default:
		return min(r.Max, r.Default+4)
	}
}

// Truncate shortens s to at most n runes, ending in [DefaultSuffix] when
// anything was cut.
func Truncate(s string, n int) string {
	return TruncateWith(s, n, DefaultSuffix)
}

// TruncateWith shortens s to at most n runes. When s is cut, the kept
// prefix is followed by suffix; if n leaves no room for the suffix, the
// first n runes are returned without it.
func TruncateWith(s string, n int, suffix string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	keep := n - utf8.RuneCountInString(suffix)
	if keep <= 0 {
		return string(runes[:n])
	}
	return string(runes[:keep]) + suffix
}

// cjkTerminators end a sentence whether or not whitespace follows.
const cjkTerminators = "。？！"

// SplitSentences splits s after sentence-terminal punctuation. ASCII
// terminators (. ! ?) end a sentence only when followed by a space; CJK
// terminators always do. Sentences are trimmed and empty ones dropped.
func SplitSentences(s string) []string {
	var out []string
	emit := func(part string) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	start := 0
	for i, r := range s {
		next := i + utf8.RuneLen(r)
		switch {
		case strings.ContainsRune(cjkTerminators, r):
		case r == '.' || r == '!' || r == '?':
			if next >= len(s) || s[next] != ' ' {
				continue
			}
		default:
			continue
		}
		emit(s[start:next])
		start = next
	}
	emit(s[start:])
	return out
}

// joinSentences joins sentences with a single space, except after a CJK
// terminator where no space is inserted.
func joinSentences(sentences []string) string {
	var b strings.Builder
	for i, s := range sentences {
		if i > 0 && !endsCJK(sentences[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

func endsCJK(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(cjkTerminators, r)
}

// Chunk splits s into chunks of at most n runes along sentence boundaries.
// Sentences are accumulated greedily; a chunk is closed when the next
// sentence would push it past n. A single sentence longer than n becomes
// its own chunk and is never split. Empty or blank input yields nil.
func Chunk(s string, n int) []string {
	sentences := SplitSentences(s)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks []string
		cur    []string
		size   int
	)
	for _, sent := range sentences {
		l := utf8.RuneCountInString(sent)
		sep := 0
		if len(cur) > 0 && !endsCJK(cur[len(cur)-1]) {
			sep = 1
		}
		if len(cur) > 0 && size+sep+l > n {
			chunks = append(chunks, joinSentences(cur))
			cur, size, sep = nil, 0, 0
		}
		cur = append(cur, sent)
		size += sep + l
	}
	if len(cur) > 0 {
		chunks = append(chunks, joinSentences(cur))
	}
	return chunks
}

// SplitAtMidpoint divides s into two halves at its middle sentence
// boundary. Text with fewer than two sentences is returned whole as the
// first half.
func SplitAtMidpoint(s string) (string, string) {
	sentences := SplitSentences(s)
	if len(sentences) < 2 {
		return strings.TrimSpace(s), ""
	}
	mid := len(sentences) / 2
	return joinSentences(sentences[:mid]), joinSentences(sentences[mid:])
}
