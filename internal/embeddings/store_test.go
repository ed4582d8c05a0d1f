package embeddings_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/internal/embedder"
	"github.com/JaimeStill/agent-studio/internal/embeddings"
	"github.com/JaimeStill/agent-studio/internal/index"
	"github.com/JaimeStill/agent-studio/internal/storage"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type stubEmbedder struct {
	dims  int
	err   error
	panic bool
}

func (s *stubEmbedder) Embed(ctx context.Context, data []byte) ([]float32, error) {
	if s.panic {
		panic("embedder exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, s.dims), nil
}

func (s *stubEmbedder) Dimensions() int {
	return config.DefaultDimensions
}

type fixture struct {
	sys   embeddings.System
	base  string
	index index.System
}

func newFixture(t *testing.T, e embeddings.Embedder) fixture {
	t.Helper()

	base := t.TempDir()
	blobs, err := storage.New(&config.StorageConfig{BasePath: base}, testLogger())
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}

	idx := index.New(testLogger())

	sys, err := embeddings.New(blobs, e, idx, testLogger())
	if err != nil {
		t.Fatalf("embeddings.New() failed: %v", err)
	}

	return fixture{sys: sys, base: base, index: idx}
}

func hashFixture(t *testing.T) fixture {
	return newFixture(t, embedder.NewHash(config.DefaultDimensions))
}

func TestUploadAndEmbed(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	rec, err := f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("UploadAndEmbed() failed: %v", err)
	}

	wantPath := filepath.Join(f.base, "a1", "f.txt")
	if rec.AgentID != "a1" || rec.FileName != "f.txt" || rec.FilePath != wantPath {
		t.Errorf("record = %+v, want a1/f.txt at %s", rec, wantPath)
	}
	if len(rec.Vector) != config.DefaultDimensions {
		t.Errorf("len(Vector) = %d, want %d", len(rec.Vector), config.DefaultDimensions)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}

	list, err := f.sys.ListForAgent(ctx, "a1")
	if err != nil {
		t.Fatalf("ListForAgent() failed: %v", err)
	}
	if len(list) != 1 || list[0].FileName != "f.txt" {
		t.Errorf("ListForAgent() = %+v, want [f.txt]", list)
	}
}

func TestUploadAndEmbed_EmptyFile(t *testing.T) {
	f := hashFixture(t)

	rec, err := f.sys.UploadAndEmbed(context.Background(), "a1", "empty.bin", nil)
	if err != nil {
		t.Fatalf("UploadAndEmbed() failed: %v", err)
	}

	info, err := os.Stat(rec.FilePath)
	if err != nil || info.Size() != 0 {
		t.Errorf("empty file not written: %v", err)
	}
}

func TestUploadAndEmbed_SameNameTwice(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("first"))
	if _, err := f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("second")); err != nil {
		t.Fatalf("second UploadAndEmbed() failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(f.base, "a1", "f.txt"))
	if string(data) != "second" {
		t.Errorf("file content = %q, want overwritten %q", data, "second")
	}

	list, _ := f.sys.ListForAgent(ctx, "a1")
	if len(list) != 2 {
		t.Fatalf("len(ListForAgent()) = %d, want 2", len(list))
	}
	for _, rec := range list {
		if rec.FileName != "f.txt" {
			t.Errorf("FileName = %s, want f.txt", rec.FileName)
		}
	}

	if got := f.index.Count("a1"); got != 1 {
		t.Errorf("index.Count() = %d, want 1", got)
	}
}

func TestListForAgent_OrderAndIsolation(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	f.sys.UploadAndEmbed(ctx, "a1", "one.txt", []byte("1"))
	f.sys.UploadAndEmbed(ctx, "a2", "other.txt", []byte("x"))
	f.sys.UploadAndEmbed(ctx, "a1", "two.txt", []byte("2"))
	f.sys.UploadAndEmbed(ctx, "a1", "three.txt", []byte("3"))

	list, err := f.sys.ListForAgent(ctx, "a1")
	if err != nil {
		t.Fatalf("ListForAgent() failed: %v", err)
	}

	want := []string{"one.txt", "two.txt", "three.txt"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i].FileName != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].FileName, name)
		}
		if list[i].AgentID != "a1" {
			t.Errorf("list[%d].AgentID = %s, want a1", i, list[i].AgentID)
		}
	}
}

func TestListForAgent_Unknown(t *testing.T) {
	f := hashFixture(t)

	list, err := f.sys.ListForAgent(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListForAgent() failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListForAgent() = %v, want empty non-nil slice", list)
	}
}

func TestListForAgent_ReturnsCopies(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("x"))

	list, _ := f.sys.ListForAgent(ctx, "a1")
	original := list[0].Vector[0]
	list[0].Vector[0] = 42

	again, _ := f.sys.ListForAgent(ctx, "a1")
	if again[0].Vector[0] != original {
		t.Error("mutating a listed vector changed stored state")
	}
}

func TestUploadAndEmbed_InvalidComponents(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	tests := []struct {
		agentID  string
		fileName string
	}{
		{"a1", "../x"},
		{"a1", "sub/x"},
		{"a1", ".."},
		{"a1", ""},
		{"..", "x"},
		{"", "x"},
		{"a/b", "x"},
		{"a1", `dir\x`},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s|%s", tt.agentID, tt.fileName), func(t *testing.T) {
			_, err := f.sys.UploadAndEmbed(ctx, tt.agentID, tt.fileName, []byte("x"))
			if !errors.Is(err, embeddings.ErrInvalidInput) {
				t.Fatalf("error = %v, want %v", err, embeddings.ErrInvalidInput)
			}
			if kind := embeddings.MapKind(err); kind != bridge.KindInvalidInput {
				t.Errorf("MapKind() = %s, want %s", kind, bridge.KindInvalidInput)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(f.base), "x")); !os.IsNotExist(err) {
		t.Error("file written outside base directory")
	}

	entries, _ := os.ReadDir(f.base)
	if len(entries) != 0 {
		t.Errorf("base directory has %d entries, want 0", len(entries))
	}
	if f.index.Count("a1") != 0 {
		t.Error("rejected upload was indexed")
	}
}

func TestUploadAndEmbed_DirectoryFailure(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	blocker := filepath.Join(f.base, "a1")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("x"))

	var ioErr *storage.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *storage.IOError", err)
	}
	if ioErr.Path != blocker {
		t.Errorf("IOError.Path = %s, want %s", ioErr.Path, blocker)
	}
	if kind := embeddings.MapKind(err); kind != bridge.KindIOFailure {
		t.Errorf("MapKind() = %s, want %s", kind, bridge.KindIOFailure)
	}

	list, _ := f.sys.ListForAgent(ctx, "a1")
	if len(list) != 0 {
		t.Errorf("failed upload appended %d records", len(list))
	}
}

func TestUploadAndEmbed_EmbedderFailure(t *testing.T) {
	f := newFixture(t, &stubEmbedder{err: errors.New("model offline")})
	ctx := context.Background()

	_, err := f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("x"))
	if !errors.Is(err, embeddings.ErrEmbedding) {
		t.Fatalf("error = %v, want %v", err, embeddings.ErrEmbedding)
	}
	if kind := embeddings.MapKind(err); kind != bridge.KindEmbeddingFailure {
		t.Errorf("MapKind() = %s, want %s", kind, bridge.KindEmbeddingFailure)
	}

	list, _ := f.sys.ListForAgent(ctx, "a1")
	if len(list) != 0 {
		t.Errorf("failed upload appended %d records", len(list))
	}
}

func TestUploadAndEmbed_DimensionMismatch(t *testing.T) {
	f := newFixture(t, &stubEmbedder{dims: 3})

	_, err := f.sys.UploadAndEmbed(context.Background(), "a1", "f.txt", []byte("x"))
	if !errors.Is(err, embeddings.ErrEmbedding) {
		t.Errorf("error = %v, want %v", err, embeddings.ErrEmbedding)
	}
}

func TestUploadAndEmbed_PanicPoisonsStore(t *testing.T) {
	f := newFixture(t, &stubEmbedder{panic: true})
	ctx := context.Background()

	_, err := f.sys.UploadAndEmbed(ctx, "a1", "f.txt", []byte("x"))
	if !errors.Is(err, embeddings.ErrLockFailure) {
		t.Fatalf("error = %v, want %v", err, embeddings.ErrLockFailure)
	}

	_, err = f.sys.ListForAgent(ctx, "a1")
	if kind := embeddings.MapKind(err); kind != bridge.KindLockFailure {
		t.Errorf("ListForAgent() after panic kind = %s, want %s", kind, bridge.KindLockFailure)
	}
}

func TestSearch(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	f.sys.UploadAndEmbed(ctx, "a1", "alpha.txt", []byte("alpha contents"))
	f.sys.UploadAndEmbed(ctx, "a1", "beta.txt", []byte("beta contents"))
	f.sys.UploadAndEmbed(ctx, "a1", "gamma.txt", []byte("gamma contents"))

	matches, err := f.sys.Search(ctx, "a1", []byte("beta contents"), 2)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].FileName != "beta.txt" {
		t.Errorf("matches[0].FileName = %s, want beta.txt", matches[0].FileName)
	}
	if matches[0].Similarity < 0.999 {
		t.Errorf("matches[0].Similarity = %f, want ~1", matches[0].Similarity)
	}
}

func TestSearch_UnknownAgent(t *testing.T) {
	f := hashFixture(t)

	matches, err := f.sys.Search(context.Background(), "nobody", []byte("q"), 5)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("Search() = %v, want empty non-nil slice", matches)
	}
}

func TestUploadAndEmbed_Concurrent(t *testing.T) {
	f := hashFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("f%02d.txt", i)
			if _, err := f.sys.UploadAndEmbed(ctx, "a1", name, []byte(name)); err != nil {
				t.Errorf("UploadAndEmbed(%s) failed: %v", name, err)
			}
		}()
	}
	wg.Wait()

	list, _ := f.sys.ListForAgent(ctx, "a1")
	if len(list) != 20 {
		t.Errorf("len(ListForAgent()) = %d, want 20", len(list))
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := embeddings.New(nil, embedder.NewHash(8), index.New(testLogger()), testLogger()); err == nil {
		t.Error("New() without storage succeeded, want error")
	}
}

func TestMapKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{embeddings.ErrInvalidInput, bridge.KindInvalidInput},
		{embeddings.ErrFileTooLarge, bridge.KindInvalidInput},
		{embeddings.ErrIO, bridge.KindIOFailure},
		{&storage.IOError{Op: storage.OpWriteFile, Path: "p", Err: os.ErrPermission}, bridge.KindIOFailure},
		{embeddings.ErrEmbedding, bridge.KindEmbeddingFailure},
		{embeddings.ErrLockFailure, bridge.KindLockFailure},
		{errors.New("other"), bridge.KindInternal},
	}

	for _, tt := range tests {
		if got := embeddings.MapKind(tt.err); got != tt.want {
			t.Errorf("MapKind(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
