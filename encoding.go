package gotiktoken

import "github.com/gotiktoken/gotiktoken/tokenizer"

// Encoding is the immutable façade over one encoder's vocabulary,
// pattern and special-token table (component E). It is a pure value
// after construction: concurrent calls to Encode/Decode/trim methods
// on the same Encoding from multiple goroutines are safe.
type Encoding struct {
	name EncoderName
	core *tokenizer.Core
}

// Name reports which reference vocabulary this Encoding was built
// from.
func (e *Encoding) Name() EncoderName { return e.name }

// Encode tokenizes text, honoring only the special literals named in
// allowedSpecial. A nil or empty allowedSpecial treats every special
// literal as ordinary text.
func (e *Encoding) Encode(text string, allowedSpecial map[string]struct{}) ([]uint32, error) {
	ids, err := e.core.Encode(text, allowedSpecial)
	if err != nil {
		return nil, err
	}
	return ranksToUint32(ids), nil
}

// EncodeAll tokenizes text with every special literal known to this
// Encoding enabled (applyAllSpecial=true).
func (e *Encoding) EncodeAll(text string) ([]uint32, error) {
	return e.Encode(text, e.core.AllSpecials())
}

// EncodeOrdinary tokenizes text with no special literals enabled
// (applyAllSpecial=false): any special-looking substring is segmented
// as ordinary text instead.
func (e *Encoding) EncodeOrdinary(text string) ([]uint32, error) {
	return e.Encode(text, nil)
}

// Decode concatenates the byte sequence for each id (ordinary token or
// special literal) and returns it as a string. Decode never fails on
// ids produced by this Encoding's own Encode.
func (e *Encoding) Decode(ids []uint32) (string, error) {
	var buf []byte
	if err := e.core.DecodeBytesInto(&buf, uint32sToRanks(ids)); err != nil {
		return "", err
	}
	return string(buf), nil
}

// TrimResult is the output of a budget-constrained encoding mode: Ids
// has at most maxTokens entries, and Text is the byte prefix/suffix of
// the input whose encoding is exactly Ids.
type TrimResult struct {
	Ids  []uint32
	Text string
}

// EncodeTrimSuffix encodes text and, if doing so would exceed
// maxTokens, discards ids from the tail, reporting the input prefix
// whose encoding equals the kept ids.
func (e *Encoding) EncodeTrimSuffix(text string, allowedSpecial map[string]struct{}, maxTokens int) (TrimResult, error) {
	if maxTokens < 0 {
		return TrimResult{}, &ArgumentError{Reason: "maxTokens must be >= 0"}
	}
	if maxTokens == 0 {
		return TrimResult{}, nil
	}
	ids, offsets, err := e.core.EncodeWithOffsets(text, allowedSpecial)
	if err != nil {
		return TrimResult{}, err
	}
	if len(ids) <= maxTokens {
		return TrimResult{Ids: ranksToUint32(ids), Text: text}, nil
	}
	cut := offsets[maxTokens][0]
	return TrimResult{Ids: ranksToUint32(ids[:maxTokens]), Text: text[:cut]}, nil
}

// EncodeTrimSuffixAll is EncodeTrimSuffix with every special literal
// enabled.
func (e *Encoding) EncodeTrimSuffixAll(text string, maxTokens int) (TrimResult, error) {
	return e.EncodeTrimSuffix(text, e.core.AllSpecials(), maxTokens)
}

// EncodeTrimPrefix is the symmetric trim mode: discards ids from the
// head, keeping the most recently emitted maxTokens ids and reporting
// the input suffix whose encoding equals them.
func (e *Encoding) EncodeTrimPrefix(text string, allowedSpecial map[string]struct{}, maxTokens int) (TrimResult, error) {
	if maxTokens < 0 {
		return TrimResult{}, &ArgumentError{Reason: "maxTokens must be >= 0"}
	}
	if maxTokens == 0 {
		return TrimResult{}, nil
	}
	ids, offsets, err := e.core.EncodeWithOffsets(text, allowedSpecial)
	if err != nil {
		return TrimResult{}, err
	}
	if len(ids) <= maxTokens {
		return TrimResult{Ids: ranksToUint32(ids), Text: text}, nil
	}
	start := len(ids) - maxTokens
	cut := offsets[start][0]
	return TrimResult{Ids: ranksToUint32(ids[start:]), Text: text[cut:]}, nil
}

// EncodeTrimPrefixAll is EncodeTrimPrefix with every special literal
// enabled.
func (e *Encoding) EncodeTrimPrefixAll(text string, maxTokens int) (TrimResult, error) {
	return e.EncodeTrimPrefix(text, e.core.AllSpecials(), maxTokens)
}

func ranksToUint32(ranks []tokenizer.Rank) []uint32 {
	if ranks == nil {
		return nil
	}
	out := make([]uint32, len(ranks))
	for i, r := range ranks {
		out[i] = uint32(r)
	}
	return out
}

func uint32sToRanks(ids []uint32) []tokenizer.Rank {
	if ids == nil {
		return nil
	}
	out := make([]tokenizer.Rank, len(ids))
	for i, v := range ids {
		out[i] = tokenizer.Rank(v)
	}
	return out
}
