package embeddings

import (
	"errors"

	"github.com/JaimeStill/agent-studio/internal/storage"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
	"github.com/JaimeStill/agent-studio/pkg/guard"
)

// Domain errors for file embedding operations.
var (
	ErrInvalidInput = errors.New("invalid file reference")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrIO           = errors.New("file storage failed")
	ErrEmbedding    = errors.New("embedding failed")
	ErrLockFailure  = errors.New("embedding store lock failed")
)

// MapKind maps domain errors to bridge error kinds.
func MapKind(err error) string {
	if errors.Is(err, ErrLockFailure) || errors.Is(err, guard.ErrPoisoned) {
		return bridge.KindLockFailure
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrFileTooLarge) {
		return bridge.KindInvalidInput
	}
	var ioErr *storage.IOError
	if errors.Is(err, ErrIO) || errors.As(err, &ioErr) {
		return bridge.KindIOFailure
	}
	if errors.Is(err, ErrEmbedding) {
		return bridge.KindEmbeddingFailure
	}
	return bridge.KindInternal
}
