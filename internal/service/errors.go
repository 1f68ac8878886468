package service

import (
	"fmt"

	"github.com/fyrsmithlabs/entitystats/internal/extract"
)

// ErrUnknownEntity is returned for an entity name with no builder. It
// matches extract.ErrConfiguration.
var ErrUnknownEntity = fmt.Errorf("%w: unknown entity", extract.ErrConfiguration)
