package gotiktoken

import (
	"strings"

	"github.com/gotiktoken/gotiktoken/tokenizer"
)

// EncoderName identifies one of the five reference vocabularies.
type EncoderName string

const (
	EncoderGPT2       EncoderName = "gpt2"
	EncoderR50kBase   EncoderName = "r50k_base"
	EncoderP50kBase   EncoderName = "p50k_base"
	EncoderP50kEdit   EncoderName = "p50k_edit"
	EncoderCl100kBase EncoderName = "cl100k_base"
)

// Model is an opaque human-facing model name (e.g. "gpt-4") resolved
// to an EncoderName through modelEncoderTable/modelPrefixTable.
type Model string

// defaultSpecials returns an encoder's built-in special-token table:
// cl100k_base carries the FIM family, every other encoder carries
// only <|endoftext|>.
func defaultSpecials(name EncoderName) map[string]tokenizer.Rank {
	if name == EncoderCl100kBase {
		return map[string]tokenizer.Rank{
			"<|endoftext|>":   100257,
			"<|fim_prefix|>":  100258,
			"<|fim_middle|>":  100259,
			"<|fim_suffix|>":  100260,
			"<|endofprompt|>": 100276,
		}
	}
	return map[string]tokenizer.Rank{"<|endoftext|>": 50256}
}

// modelEncoderTable resolves exact model names to an encoder.
var modelEncoderTable = map[Model]EncoderName{
	"gpt-3.5-turbo":         EncoderCl100kBase,
	"text-davinci-003":      EncoderP50kBase,
	"text-davinci-002":      EncoderP50kBase,
	"code-davinci-002":      EncoderP50kBase,
	"code-davinci-001":      EncoderP50kBase,
	"code-cushman-002":      EncoderP50kBase,
	"code-cushman-001":      EncoderP50kBase,
	"davinci-codex":         EncoderP50kBase,
	"cushman-codex":         EncoderP50kBase,
	"text-davinci-edit-001": EncoderP50kEdit,
	"code-davinci-edit-001": EncoderP50kEdit,
	"davinci":               EncoderR50kBase,
	"curie":                 EncoderR50kBase,
	"babbage":               EncoderR50kBase,
	"ada":                   EncoderR50kBase,
	"text-davinci-001":      EncoderR50kBase,
	"text-curie-001":        EncoderR50kBase,
	"text-babbage-001":      EncoderR50kBase,
	"text-ada-001":          EncoderR50kBase,
	"gpt2":                  EncoderGPT2,
}

// modelPrefixTable resolves model name prefixes where the table above
// has no exact entry (gpt-4 and gpt-3.5-turbo variants, and the
// text-similarity-*/text-search-*/code-search-* families).
var modelPrefixTable = []struct {
	prefix  string
	encoder EncoderName
}{
	{"gpt-4", EncoderCl100kBase},
	{"gpt-3.5-turbo", EncoderCl100kBase},
	{"text-similarity-", EncoderR50kBase},
	{"text-search-", EncoderR50kBase},
	{"code-search-", EncoderR50kBase},
}

func encoderForModel(model Model) (EncoderName, bool) {
	if enc, ok := modelEncoderTable[model]; ok {
		return enc, true
	}
	for _, p := range modelPrefixTable {
		if strings.HasPrefix(string(model), p.prefix) {
			return p.encoder, true
		}
	}
	return "", false
}

// NewEncodingByName builds an Encoding for an explicit encoder name
// (createByEncoderName of the spec's Builder).
func NewEncodingByName(name EncoderName) (*Encoding, error) {
	return buildEncoding(name, nil)
}

// NewEncodingForModel resolves modelName to an encoder via the static
// table, then builds an Encoding with extraSpecials merged into (and
// overriding on key collision) the encoder's default special table
// (createByModelName of the spec's Builder).
func NewEncodingForModel(modelName Model, extraSpecials map[string]uint32) (*Encoding, error) {
	name, ok := encoderForModel(modelName)
	if !ok {
		return nil, &UnknownModelError{Model: string(modelName)}
	}
	return buildEncoding(name, extraSpecials)
}

func buildEncoding(name EncoderName, extraSpecials map[string]uint32) (*Encoding, error) {
	pattern, ok, err := tokenizer.PatternForEncoder(string(name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnknownEncoderError{Name: string(name)}
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	f := newFetcher(cfg)
	r, err := f.Fetch(string(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	pairs, err := tokenizer.ParseVocabulary(r)
	if err != nil {
		return nil, err
	}

	specials := defaultSpecials(name)
	merged := make(map[string]tokenizer.Rank, len(specials)+len(extraSpecials))
	for lit, rank := range specials {
		merged[lit] = rank
	}
	for lit, rank := range extraSpecials {
		merged[lit] = tokenizer.Rank(rank)
	}

	core, err := tokenizer.NewCore(pairs, merged, pattern)
	if err != nil {
		return nil, err
	}
	return &Encoding{name: name, core: core}, nil
}
