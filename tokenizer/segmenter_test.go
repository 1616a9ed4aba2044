package tokenizer

import "testing"

func mustPattern(t *testing.T, encoderName string) *Pattern {
	t.Helper()
	p, ok, err := PatternForEncoder(encoderName)
	if err != nil {
		t.Fatalf("PatternForEncoder(%q): %v", encoderName, err)
	}
	if !ok {
		t.Fatalf("PatternForEncoder(%q): no pattern registered", encoderName)
	}
	return p
}

func TestPatternSegmentsContraction(t *testing.T) {
	p := mustPattern(t, "cl100k_base")
	got, err := p.Segments("I'll go")
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	want := []string{"I", "'ll", " go"}
	if !equalStrings(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestPatternSegmentsTrailingWhitespaceNotFollowedByNonSpace(t *testing.T) {
	p := mustPattern(t, "gpt2")
	got, err := p.Segments("a  ")
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	want := []string{"a", "  "}
	if !equalStrings(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestPatternSegmentsDigitsCappedAtThreeForCl100k(t *testing.T) {
	p := mustPattern(t, "cl100k_base")
	got, err := p.Segments("12345")
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	want := []string{"123", "45"}
	if !equalStrings(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSegmentTextInterleavesSpecials(t *testing.T) {
	p := mustPattern(t, "cl100k_base")
	specials := map[string]Rank{"<|endoftext|>": 9999}
	trie := newSpecialTrie(specials)
	allowed := map[string]struct{}{"<|endoftext|>": {}}

	segs, err := segmentText("hello<|endoftext|>world", p, trie, allowed)
	if err != nil {
		t.Fatalf("segmentText: %v", err)
	}

	var sawSpecial bool
	var rebuilt string
	for _, s := range segs {
		rebuilt += s.Text
		if s.Special {
			sawSpecial = true
			if s.Rank != 9999 {
				t.Fatalf("expected special rank 9999, got %d", s.Rank)
			}
			if s.Text != "<|endoftext|>" {
				t.Fatalf("expected special literal, got %q", s.Text)
			}
		}
	}
	if !sawSpecial {
		t.Fatalf("expected a special segment, got %+v", segs)
	}
	if rebuilt != "hello<|endoftext|>world" {
		t.Fatalf("segments do not reconstruct input: %q", rebuilt)
	}
}

func TestSegmentTextDisallowedSpecialFallsThroughToPattern(t *testing.T) {
	p := mustPattern(t, "cl100k_base")
	specials := map[string]Rank{"<|endoftext|>": 9999}
	trie := newSpecialTrie(specials)

	segs, err := segmentText("hello<|endoftext|>world", p, trie, nil)
	if err != nil {
		t.Fatalf("segmentText: %v", err)
	}
	for _, s := range segs {
		if s.Special {
			t.Fatalf("did not expect a special segment when allowed is empty, got %+v", segs)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
