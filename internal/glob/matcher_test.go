package glob

import "testing"

func TestMatcher_PatternMatch(t *testing.T) {
	m, err := New([]string{"**/*.ts"}, nil, Option{OnlyFiles: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	cases := map[string]bool{
		"src/index.ts":                true,
		"src/components/button.ts":    true,
		"README.md":                   false,
		"package.json":                false,
		"src/components/card.ts":      true,
	}

	for rel, want := range cases {
		if got := m.PatternMatch(rel); got != want {
			t.Errorf("PatternMatch(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestMatcher_DotPolicy(t *testing.T) {
	m, err := New([]string{"**/*.ts"}, nil, Option{Dot: false, OnlyFiles: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if !m.DotExcluded("src/components/.hidden.ts") {
		t.Error("expected dotfile to be excluded when dot=false")
	}
	if m.DotExcluded("src/index.ts") {
		t.Error("did not expect non-dotfile to be excluded")
	}

	mDot, err := New([]string{"**/*.ts"}, nil, Option{Dot: true, OnlyFiles: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if mDot.DotExcluded("src/components/.hidden.ts") {
		t.Error("did not expect dotfile to be excluded when dot=true")
	}
}

func TestMatcher_Ignore(t *testing.T) {
	m, err := New([]string{"**/*"}, []string{"**/new-file.demo.ts"}, Option{OnlyFiles: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if !m.Ignored("src/components/new-file.demo.ts") {
		t.Error("expected ignore pattern to match")
	}
	if m.Ignored("src/components/new.ts") {
		t.Error("did not expect ignore pattern to match unrelated file")
	}
}

func TestMatcher_TypeFilter(t *testing.T) {
	onlyFiles, err := New([]string{"**/*"}, nil, Option{OnlyFiles: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if d := onlyFiles.TypeFilter(true, false, true); d != Reject {
		t.Errorf("onlyFiles should reject a directory, got %v", d)
	}
	if d := onlyFiles.TypeFilter(false, true, true); d != Admit {
		t.Errorf("onlyFiles should admit a file, got %v", d)
	}
	if d := onlyFiles.TypeFilter(false, false, false); d != Defer {
		t.Errorf("unknown type should defer, got %v", d)
	}

	onlyDirs, err := New([]string{"**/*"}, nil, Option{OnlyDirectories: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if d := onlyDirs.TypeFilter(false, true, true); d != Reject {
		t.Errorf("onlyDirectories should reject a file, got %v", d)
	}
	if d := onlyDirs.TypeFilter(true, false, true); d != Admit {
		t.Errorf("onlyDirectories should admit a directory, got %v", d)
	}
}

func TestMatcher_InvalidPattern(t *testing.T) {
	if _, err := New([]string{"["}, nil, Option{}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
