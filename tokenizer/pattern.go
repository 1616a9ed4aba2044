package tokenizer

import "github.com/dlclark/regexp2"

// The two pre-tokenization patterns used across the tiktoken family.
// Go's standard regexp (RE2) rejects both of these: RE2 deliberately
// has no lookaround or backreferences, and these patterns need a
// negative lookahead (`(?!\S)`) plus inline case-insensitivity
// (`(?i:...)`). dlclark/regexp2 is a backtracking, .NET-style engine
// that accepts the pattern text verbatim and, critically, matches
// alternatives in written order rather than picking the longest
// overall match — the same left-to-right alternation bias the
// reference tokenizer relies on.
const (
	gpt2PatternStr = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

	cl100kPatternStr = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`
)

// Pattern is a compiled pre-tokenization regex.
type Pattern struct {
	re *regexp2.Regexp
}

func compilePattern(expr string) (*Pattern, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, &PatternCompileError{Pattern: expr, Err: err}
	}
	return &Pattern{re: re}, nil
}

// CompileCustomPattern exposes pattern compilation to callers that
// extend the registry with their own pre-tokenization regex.
func CompileCustomPattern(expr string) (*Pattern, error) { return compilePattern(expr) }

// patternSource returns the canonical pattern text for a built-in
// encoder name. ok is false for names outside the five-encoder
// family; the caller (the builder, in the root package) is
// responsible for turning that into an UnknownEncoder error.
func patternSource(encoderName string) (string, bool) {
	switch encoderName {
	case "gpt2", "r50k_base", "p50k_base", "p50k_edit":
		return gpt2PatternStr, true
	case "cl100k_base":
		return cl100kPatternStr, true
	default:
		return "", false
	}
}

// PatternForEncoder returns the compiled pattern for one of the five
// built-in encoder names.
func PatternForEncoder(encoderName string) (*Pattern, bool, error) {
	src, ok := patternSource(encoderName)
	if !ok {
		return nil, false, nil
	}
	p, err := compilePattern(src)
	if err != nil {
		return nil, true, err
	}
	return p, true, nil
}

// Segments splits s into ordinary pre-tokenization pieces in order,
// matching alternatives left-to-right and taking the first match at
// each position (never longest-overall-match). Pieces are contiguous
// and exhaustive: concatenating them reproduces s exactly. If the
// pattern cannot make progress at some position — which should not
// happen for the two built-in patterns on valid UTF-8 input, but
// could for a malformed custom pattern — the remaining bytes are
// emitted one at a time so the caller always makes forward progress.
func (p *Pattern) Segments(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	covered := 0
	runePos := 0 // regexp2 reports match positions in runes

	m, err := p.re.FindStringMatch(s)
	if err != nil {
		return nil, err
	}
	for m != nil {
		if m.Length == 0 || m.Index != runePos {
			break
		}
		piece := m.String()
		out = append(out, piece)
		covered += len(piece)
		runePos += m.Length
		m, err = p.re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	if covered < len(s) {
		tail := s[covered:]
		for i := 0; i < len(tail); i++ {
			out = append(out, tail[i:i+1])
		}
	}
	return out, nil
}
