package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cellbars/pkg/cache"
)

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"artifact:a", "artifact:b", "source:c"} {
		if err := fc.Set(ctx, k, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearCache(dir)
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 3 {
		t.Errorf("clearCache() = %d, want 3", n)
	}
	if _, ok, _ := fc.Get(ctx, "artifact:a"); ok {
		t.Error("entry survived clearCache")
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	n, err := clearCache(filepath.Join(t.TempDir(), "absent"))
	if err != nil || n != 0 {
		t.Errorf("clearCache(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	cmd := testCLI().cachePathCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join("/tmp/xdg", appName)
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}
