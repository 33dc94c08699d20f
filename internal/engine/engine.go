// Package engine defines the contract shared by the three pipeline engines.
package engine

import (
	"context"

	"github.com/AurisAASI/backend-core/internal/model"
)

// Engine is a single pipeline stage. Run executes one invocation end to end
// and always returns a terminal outcome; expected failure modes are encoded
// in the outcome status, not in the error. A non-nil error means the engine
// itself could not produce an outcome.
type Engine interface {
	Name() string
	Run(ctx context.Context) (*model.Outcome, error)
}
