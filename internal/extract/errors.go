package extract

import (
	"github.com/fyrsmithlabs/entitystats/internal/summary"
)

// Errors returned by the engine and the extractors. They are the summary
// sentinels so errors.Is works against either package.
var (
	ErrConfiguration = summary.ErrConfiguration
	ErrEmptyCorpus   = summary.ErrEmptyCorpus
)
