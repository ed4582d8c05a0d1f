package agents

import (
	"errors"

	"github.com/JaimeStill/agent-studio/pkg/bridge"
	"github.com/JaimeStill/agent-studio/pkg/guard"
)

// Domain errors for agent operations.
var (
	ErrNotFound      = errors.New("agent not found")
	ErrDuplicate     = errors.New("agent name already exists")
	ErrDuplicateID   = errors.New("agent id already in use")
	ErrInvalidStatus = errors.New("invalid agent status")
	ErrLockFailure   = errors.New("agent registry lock failed")
)

// MapKind maps domain errors to bridge error kinds.
func MapKind(err error) string {
	if errors.Is(err, ErrNotFound) {
		return bridge.KindNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrDuplicateID) {
		return bridge.KindConflict
	}
	if errors.Is(err, ErrInvalidStatus) {
		return bridge.KindInvalidInput
	}
	if errors.Is(err, ErrLockFailure) || errors.Is(err, guard.ErrPoisoned) {
		return bridge.KindLockFailure
	}
	return bridge.KindInternal
}
