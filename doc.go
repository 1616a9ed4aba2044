// Package gotiktoken implements a byte-pair encoding tokenizer
// compatible with the tiktoken vocabularies used by the GPT-2, GPT-3
// and GPT-4 model lineages (gpt2, r50k_base, p50k_base, p50k_edit,
// cl100k_base).
//
// It encodes UTF-8 text into ranked token ids and decodes ids back
// into the original bytes, matching the reference Python
// implementation's pre-tokenization, special-token handling and
// merge order exactly.
package gotiktoken
