package gotiktoken

import "fmt"

// UnknownEncoderError is returned when an encoder name does not match
// any of the five reference vocabularies (gpt2, r50k_base, p50k_base,
// p50k_edit, cl100k_base).
type UnknownEncoderError struct {
	Name string
}

func (e *UnknownEncoderError) Error() string {
	return fmt.Sprintf("gotiktoken: unknown encoder %q", e.Name)
}

// UnknownModelError is returned when a model name has no entry (exact
// or prefix) in the model-to-encoder table.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("gotiktoken: unknown model %q", e.Model)
}

// ArgumentError reports an invalid argument to a façade call, e.g. a
// negative maxTokens.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("gotiktoken: invalid argument: %s", e.Reason)
}
