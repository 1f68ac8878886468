package summary

import "errors"

var (
	// ErrEmptyCorpus indicates an extraction over zero documents, for which
	// matches per document is undefined.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrConfiguration indicates an invalid label, parameter or pattern.
	ErrConfiguration = errors.New("invalid configuration")
)
