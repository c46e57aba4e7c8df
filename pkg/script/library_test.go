package script

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/actionlist/pkg/embedded"
)

func assetFS() fstest.MapFS {
	return fstest.MapFS{
		"data/assets/bell.yaml": {Data: []byte("name: bell\nsteps:\n  - action: wait\n")},
		"data/assets/gust.yaml": {Data: []byte("name: gust\nmultipleInstances: true\nsteps:\n  - action: wait\n")},
		"data/assets/bad.txt":   {Data: []byte("name: [")},
	}
}

// TestLoadFilesExpandsPatterns 通配符展开后去重
func TestLoadFilesExpandsPatterns(t *testing.T) {
	embedded.Init(assetFS())
	t.Cleanup(func() { embedded.Init(nil) })

	lib, err := LoadLibrary([]string{"data/assets/bell.yaml", "data/assets/*.yaml"}, NewRegistry(), nil)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if lib.LookupDefinition("bell") == nil || lib.LookupDefinition("gust") == nil {
		t.Fatal("expected bell and gust definitions")
	}
	if !lib.LookupDefinition("gust").AllowsMultipleInstances() {
		t.Error("gust should allow multiple instances")
	}
}

func TestLoadFilesErrors(t *testing.T) {
	embedded.Init(assetFS())
	t.Cleanup(func() { embedded.Init(nil) })

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"no matches", []string{"data/assets/*.json"}, "matches no files"},
		{"missing file", []string{"data/assets/none.yaml"}, "failed to read"},
		{"malformed", []string{"data/assets/bad.txt"}, "invalid asset list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := NewLibrary()
			err := lib.LoadFiles(tt.paths, NewRegistry(), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadFiles error = %v, want %q", err, tt.want)
			}
		})
	}
}

// TestLoadFilesSkipsLoadedFiles 重复加载同一文件时保留原定义和正在运行的列表
func TestLoadFilesSkipsLoadedFiles(t *testing.T) {
	embedded.Init(assetFS())
	t.Cleanup(func() { embedded.Init(nil) })

	te := newTestEnv(t)
	if err := te.library.LoadFiles([]string{"data/assets/bell.yaml"}, NewRegistry(), te.env); err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	bell, _ := te.library.Get("bell")
	seq := te.manager.Assets.Run(bell, false)

	if err := te.library.LoadFiles([]string{"data/assets/*.yaml"}, NewRegistry(), te.env); err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if again, _ := te.library.Get("bell"); again != bell {
		t.Error("Loaded file should not be rebuilt")
	}
	if !seq.IsRunning() {
		t.Error("Reloading files must not stop running asset lists")
	}
	if te.library.LookupDefinition("gust") == nil {
		t.Error("New files from the pattern should still be loaded")
	}
}
