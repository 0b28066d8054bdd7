package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/snomiao/glob-watch/internal/glob"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func relSet(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Rel)
	}
	sort.Strings(out)
	return out
}

func TestWalk_BasicGlob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"README.md",
		"package.json",
		"src/index.ts",
		"src/components/button.ts",
		"src/components/card.ts",
	})

	m, err := glob.New([]string{"**/*.ts"}, nil, glob.Option{OnlyFiles: true})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}

	entries, err := Walk(root, m, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSet(entries)
	want := []string{"src/components/button.ts", "src/components/card.ts", "src/index.ts"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestWalk_OnlyDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"README.md",
		"package.json",
		"src/index.ts",
		"src/components/button.ts",
		"src/components/card.ts",
	})

	m, err := glob.New([]string{"**/*"}, nil, glob.Option{OnlyDirectories: true})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}

	entries, err := Walk(root, m, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relSet(entries)
	want := []string{"src", "src/components"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestWalk_DotPolicy(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		".gitignore",
		"package.json",
		"src/index.ts",
		"src/components/.hidden.ts",
		"src/components/card.ts",
	})

	m, err := glob.New([]string{"**/*.ts"}, nil, glob.Option{OnlyFiles: true, Dot: false})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}

	entries, err := Walk(root, m, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relSet(entries)
	want := []string{"src/components/card.ts", "src/index.ts"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	mDot, err := glob.New([]string{"**/*.ts"}, nil, glob.Option{OnlyFiles: true, Dot: true})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}
	entriesDot, err := Walk(root, mDot, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	gotDot := relSet(entriesDot)
	wantDot := []string{"src/components/.hidden.ts", "src/components/card.ts", "src/index.ts"}
	if len(gotDot) != len(wantDot) {
		t.Fatalf("got %v, want %v", gotDot, wantDot)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	m, err := glob.New([]string{"**/*"}, nil, glob.Option{})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}
	if _, err := Walk(filepath.Join(t.TempDir(), "does-not-exist"), m, Options{}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWalk_StatFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a.txt"})

	m, err := glob.New([]string{"*.txt"}, nil, glob.Option{OnlyFiles: true})
	if err != nil {
		t.Fatalf("glob.New: %v", err)
	}

	entries, err := Walk(root, m, Options{Stat: true})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Size == 0 {
		t.Error("expected non-zero size when Stat requested")
	}
	if entries[0].ModMS == 0 {
		t.Error("expected non-zero mtime when Stat requested")
	}
}
