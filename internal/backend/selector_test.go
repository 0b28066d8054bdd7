package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snomiao/glob-watch/internal/diff"
)

func TestSelect_Oneshot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.ts"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sess, initial, err := Select(context.Background(), "oneshot", Params{
		Cwd:       root,
		Patterns:  []string{"**/*.ts"},
		OnlyFiles: true,
	}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	defer sess.Close()

	if _, ok := initial.Added["a.ts"]; !ok {
		t.Fatalf("expected a.ts in initial batch, got %+v", initial)
	}
	if sess.Kind != KindOneshot {
		t.Fatalf("expected KindOneshot, got %v", sess.Kind)
	}
	// destroy for oneshot must be a no-op (spec §4.6).
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
}

func TestSelect_ExternalFallsBackToNative(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.ts"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events := make(chan diff.FileChanges, 4)
	sess, initial, err := Select(ctx, "external", Params{
		Cwd:                root,
		Patterns:           []string{"**/*.ts"},
		OnlyFiles:          true,
		ExternalSocketPath: filepath.Join(root, "nonexistent.sock"),
	}, func(c diff.FileChanges) { events <- c })
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	defer sess.Close()

	if sess.Kind != KindNative {
		t.Fatalf("expected fallback to KindNative, got %v", sess.Kind)
	}
	if _, ok := initial.Added["a.ts"]; !ok {
		t.Fatalf("expected a.ts in initial batch, got %+v", initial)
	}
}

func TestSelect_InvalidMode(t *testing.T) {
	if _, _, err := Select(context.Background(), "bogus", Params{Cwd: t.TempDir()}, nil); err == nil {
		t.Error("expected error for invalid mode")
	}
}
