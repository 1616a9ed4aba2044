package gotiktoken

import "testing"

func TestEncoderForModelExactNames(t *testing.T) {
	cases := map[Model]EncoderName{
		"text-davinci-003":      EncoderP50kBase,
		"text-davinci-edit-001": EncoderP50kEdit,
		"davinci":               EncoderR50kBase,
		"text-ada-001":          EncoderR50kBase,
		"gpt2":                  EncoderGPT2,
	}
	for model, want := range cases {
		got, ok := encoderForModel(model)
		if !ok {
			t.Fatalf("encoderForModel(%q): expected a match", model)
		}
		if got != want {
			t.Fatalf("encoderForModel(%q) = %q, want %q", model, got, want)
		}
	}
}

func TestEncoderForModelPrefixes(t *testing.T) {
	cases := map[Model]EncoderName{
		"gpt-4":                         EncoderCl100kBase,
		"gpt-4-32k":                     EncoderCl100kBase,
		"gpt-3.5-turbo":                 EncoderCl100kBase,
		"gpt-3.5-turbo-16k":             EncoderCl100kBase,
		"text-similarity-davinci-001":   EncoderR50kBase,
		"text-search-ada-doc-001":       EncoderR50kBase,
		"code-search-babbage-code-001":  EncoderR50kBase,
	}
	for model, want := range cases {
		got, ok := encoderForModel(model)
		if !ok {
			t.Fatalf("encoderForModel(%q): expected a match", model)
		}
		if got != want {
			t.Fatalf("encoderForModel(%q) = %q, want %q", model, got, want)
		}
	}
}

func TestEncoderForModelUnknown(t *testing.T) {
	if _, ok := encoderForModel("not-a-real-model"); ok {
		t.Fatalf("expected no match for an unknown model name")
	}
}

func TestDefaultSpecialsCl100kHasFimFamily(t *testing.T) {
	specials := defaultSpecials(EncoderCl100kBase)
	for _, lit := range []string{"<|endoftext|>", "<|fim_prefix|>", "<|fim_middle|>", "<|fim_suffix|>", "<|endofprompt|>"} {
		if _, ok := specials[lit]; !ok {
			t.Fatalf("expected cl100k_base default specials to include %q", lit)
		}
	}
}

func TestDefaultSpecialsOthersOnlyEndOfText(t *testing.T) {
	for _, name := range []EncoderName{EncoderGPT2, EncoderR50kBase, EncoderP50kBase, EncoderP50kEdit} {
		specials := defaultSpecials(name)
		if len(specials) != 1 {
			t.Fatalf("expected exactly one default special for %q, got %v", name, specials)
		}
		if _, ok := specials["<|endoftext|>"]; !ok {
			t.Fatalf("expected %q to carry <|endoftext|>, got %v", name, specials)
		}
	}
}

func TestNewEncodingForModelUnknownModel(t *testing.T) {
	_, err := NewEncodingForModel("definitely-not-a-model", nil)
	if err == nil {
		t.Fatalf("expected UnknownModelError")
	}
	if _, ok := err.(*UnknownModelError); !ok {
		t.Fatalf("expected *UnknownModelError, got %T: %v", err, err)
	}
}

func TestBuildEncodingUnknownEncoderName(t *testing.T) {
	_, err := NewEncodingByName("not-a-real-encoder")
	if err == nil {
		t.Fatalf("expected UnknownEncoderError")
	}
	if _, ok := err.(*UnknownEncoderError); !ok {
		t.Fatalf("expected *UnknownEncoderError, got %T: %v", err, err)
	}
}
