package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/agent-studio/internal/config"
)

type filesystem struct {
	root   string
	logger *slog.Logger
}

// New resolves cfg.BasePath to an absolute directory and creates it. The
// directory must exist before any upload is accepted, so a failure here is
// returned as *IOError for the caller to treat as fatal.
func New(cfg *config.StorageConfig, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	root, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &IOError{Op: OpCreateDir, Path: root, Err: err}
	}

	logger = logger.With("system", "storage")
	logger.Info("storage directory ready", "base_path", root)

	return &filesystem{root: root, logger: logger}, nil
}

func (f *filesystem) Path(key string) (string, error) {
	return f.resolve(key)
}

// Store writes to a uniquely named hidden temp file in the target directory
// and renames it into place.
func (f *filesystem) Store(ctx context.Context, key string, data []byte) error {
	target, err := f.resolve(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: OpCreateDir, Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return &IOError{Op: OpWriteFile, Path: target, Err: err}
	}

	if err := writeAndClose(tmp, data); err != nil {
		os.Remove(tmp.Name())
		return &IOError{Op: OpWriteFile, Path: target, Err: err}
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return &IOError{Op: OpWriteFile, Path: target, Err: err}
	}

	f.logger.Debug("file stored", "path", target, "bytes", len(data))
	return nil
}

func writeAndClose(file *os.File, data []byte) error {
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Chmod(0o644); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (f *filesystem) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	rel := filepath.Clean(filepath.FromSlash(key))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return filepath.Join(f.root, rel), nil
}
