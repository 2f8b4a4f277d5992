package textproc

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  hello world  ", "hello world"},
		{"tags", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"nested", "<p>a <span class=\"x\">b</span> c</p>", "a b c"},
		{"entities", "Fish &amp; Chips", "Fish & Chips"},
		{"comment", "a<!-- hidden -->b", "ab"},
		{"lone angle", "a < b", "a < b"},
		{"self closing", "line<br/>break", "linebreak"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripMarkupAny(t *testing.T) {
	if got := StripMarkupAny("<b>x</b>"); got != "x" {
		t.Errorf("StripMarkupAny(string) = %q, want %q", got, "x")
	}
	for _, v := range []any{nil, 42, []string{"x"}, map[string]any{"text": "x"}} {
		if got := StripMarkupAny(v); got != "" {
			t.Errorf("StripMarkupAny(%v) = %q, want empty", v, got)
		}
	}
}

func TestEstimateFontSize(t *testing.T) {
	content := FontRange{Min: 12, Default: 18, Max: 24}
	// 10 characters per line.
	box := int64(10 * perCharWidth)

	tests := []struct {
		name  string
		chars int
		want  int
	}{
		{"empty", 0, 18},
		{"one line", 5, 22},
		{"five lines", 50, 22},
		{"six lines", 60, 18},
		{"eleven lines", 110, 15},
		{"twenty one lines", 210, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("x", tt.chars)
			if got := EstimateFontSize(text, box, box, content); got != tt.want {
				t.Errorf("EstimateFontSize(%d chars) = %d, want %d", tt.chars, got, tt.want)
			}
		})
	}
}

func TestEstimateFontSizeCapsAtMax(t *testing.T) {
	small := FontRange{Min: 10, Default: 14, Max: 16}
	if got := EstimateFontSize("hi", Inches(5), Inches(1), small); got != 16 {
		t.Errorf("EstimateFontSize() = %d, want 16", got)
	}
}

func TestEstimateFontSizeNarrowBox(t *testing.T) {
	r := FontRange{Min: 12, Default: 18, Max: 24}
	// A box narrower than one character still counts one per line.
	if got := EstimateFontSize(strings.Repeat("x", 30), 1, 1, r); got != 12 {
		t.Errorf("EstimateFontSize() = %d, want 12", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"within budget", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"runes", "你好世界你好世界", 5, "你好..."},
		{"no room for suffix", "hello", 2, "he"},
		{"suffix only", "hello", 3, "hel"},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if tt.n >= 0 && utf8.RuneCountInString(got) > tt.n {
				t.Errorf("Truncate(%q, %d) has %d runes", tt.in, tt.n, utf8.RuneCountInString(got))
			}
		})
	}
}

func TestTruncateInvariant(t *testing.T) {
	inputs := []string{"", "a", "short", strings.Repeat("word ", 40), strings.Repeat("字", 90)}
	for _, in := range inputs {
		for n := 0; n <= 100; n += 7 {
			got := Truncate(in, n)
			if utf8.RuneCountInString(got) > n {
				t.Fatalf("Truncate(%q, %d) = %q exceeds budget", in, n, got)
			}
			if utf8.RuneCountInString(in) <= n && got != in {
				t.Fatalf("Truncate(%q, %d) = %q, want unchanged", in, n, got)
			}
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"ascii", "One. Two! Three? Four", []string{"One.", "Two!", "Three?", "Four"}},
		{"no space after dot", "Version 1.2 is out. Done.", []string{"Version 1.2 is out.", "Done."}},
		{"cjk without space", "第一句。第二句！第三句？", []string{"第一句。", "第二句！", "第三句？"}},
		{"cjk with space", "第一句。 第二句。", []string{"第一句。", "第二句。"}},
		{"multiple spaces", "A.   B.", []string{"A.", "B."}},
		{"newline kept", "Intro.\n1. Item", []string{"Intro.\n1.", "Item"}},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences(%q) = %q, want %q", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want []string
	}{
		{"empty", "", 10, nil},
		{"blank", " \n\t ", 10, nil},
		{"single chunk", "One. Two.", 100, []string{"One. Two."}},
		{"split", "Aaaa. Bbbb. Cccc.", 11, []string{"Aaaa. Bbbb.", "Cccc."}},
		{"oversized sentence", "Short. This sentence is far too long. End.", 10,
			[]string{"Short.", "This sentence is far too long.", "End."}},
		{"cjk", "甲乙丙。丁戊己。庚辛壬。", 8, []string{"甲乙丙。丁戊己。", "庚辛壬。"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.in, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Chunk(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkBound(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60) +
		"This last sentence is deliberately written to be longer than the tiny budget used below."
	const n = 80
	for _, c := range Chunk(text, n) {
		if c == "" || c != strings.TrimSpace(c) {
			t.Fatalf("chunk %q is empty or untrimmed", c)
		}
		if utf8.RuneCountInString(c) > n && len(SplitSentences(c)) > 1 {
			t.Errorf("chunk of %d runes holds several sentences", utf8.RuneCountInString(c))
		}
	}
}

func TestChunkStableUnderRechunk(t *testing.T) {
	texts := []string{
		strings.Repeat("Alpha beta gamma. ", 100),
		"First point! Second point? Third point. " + strings.Repeat("第一句很长。", 50),
		"One sentence only",
	}
	for _, text := range texts {
		for _, n := range []int{20, 150, 800} {
			first := Chunk(text, n)
			again := Chunk(strings.Join(first, " "), n)
			if strings.Join(first, "|") != strings.Join(again, "|") {
				t.Errorf("re-chunking changed result for n=%d:\n%q\n%q", n, first, again)
			}
		}
	}
}

func TestChunkPreservesContent(t *testing.T) {
	text := "Alpha one.  Beta two!   Gamma three? Delta"
	got := strings.Join(Chunk(text, 12), " ")
	if strings.Join(strings.Fields(got), " ") != strings.Join(strings.Fields(text), " ") {
		t.Errorf("joined chunks %q do not reconstruct %q", got, text)
	}
}

func TestSplitAtMidpoint(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		first, last string
	}{
		{"two", "One. Two.", "One.", "Two."},
		{"three", "One. Two. Three.", "One.", "Two. Three."},
		{"four", "A. B. C. D.", "A. B.", "C. D."},
		{"single", "Only one sentence", "Only one sentence", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitAtMidpoint(tt.in)
			if first != tt.first || last != tt.last {
				t.Errorf("SplitAtMidpoint(%q) = (%q, %q), want (%q, %q)", tt.in, first, last, tt.first, tt.last)
			}
		})
	}
}

func TestUnits(t *testing.T) {
	if Inches(1) != 914400 {
		t.Errorf("Inches(1) = %d", Inches(1))
	}
	if Points(72) != 914400 {
		t.Errorf("Points(72) = %d", Points(72))
	}
}
