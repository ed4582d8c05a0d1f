package storage

import "context"

// System writes uploaded file bytes beneath a base directory.
type System interface {
	// Store writes data at key, replacing any existing file. Missing parent
	// directories are created. Filesystem failures are returned as *IOError;
	// keys that are empty, absolute or escape the base are ErrInvalidKey.
	Store(ctx context.Context, key string, data []byte) error

	// Path resolves key to its absolute location without touching the disk.
	Path(key string) (string, error)
}
