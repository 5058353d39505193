package driving

import (
	"context"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// ConnectivityService answers whether the network is reachable.
type ConnectivityService interface {
	// Check runs a bounded probe. It never returns an error:
	// a timeout resolves to domain.ConnectivityOffline.
	Check(ctx context.Context) domain.ConnectivityState

	// State returns the current authoritative state.
	State() domain.ConnectivityState

	// Subscribe delivers the current state, then each state transition.
	Subscribe() (<-chan domain.ConnectivityState, func())
}

// FeatureGate exposes whether optional network-dependent features may activate.
type FeatureGate interface {
	// Enabled returns the current gate value.
	Enabled() bool

	// Subscribe delivers the current value, then each change.
	Subscribe() (<-chan bool, func())
}
