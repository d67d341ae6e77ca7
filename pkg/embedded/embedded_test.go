package embedded

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// reset 重置包状态，避免测试之间互相影响
func reset() {
	dataFS = nil
	overrideFS = nil
	initialized = false
}

func TestReadFileNotInitialized(t *testing.T) {
	reset()

	_, err := ReadFile("data/race.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	reset()
	defer reset()

	Init(fstest.MapFS{
		"data/race.yaml": {Data: []byte("world: {}")},
	})
	if !IsInitialized() {
		t.Fatal("Expected IsInitialized() to return true after Init()")
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "plain path", path: "data/race.yaml", want: "world: {}"},
		{name: "dot prefix", path: "./data/race.yaml", want: "world: {}"},
		{name: "missing file", path: "data/board.yaml", wantErr: true},
		{name: "unknown prefix", path: "assets/race.yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%s) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestOverrideDir(t *testing.T) {
	reset()
	defer reset()

	Init(fstest.MapFS{
		"data/race.yaml":  {Data: []byte("embedded race")},
		"data/board.yaml": {Data: []byte("embedded board")},
	})

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "race.yaml"), []byte("disk race"), 0644); err != nil {
		t.Fatalf("failed to write override: %v", err)
	}
	SetOverrideDir(dir)

	got, err := ReadFile("data/race.yaml")
	if err != nil || string(got) != "disk race" {
		t.Errorf("expected override content, got %q (%v)", got, err)
	}
	// 覆盖目录中没有的文件回退到嵌入版本
	got, err = ReadFile("data/board.yaml")
	if err != nil || string(got) != "embedded board" {
		t.Errorf("expected embedded fallback, got %q (%v)", got, err)
	}

	SetOverrideDir("")
	got, _ = ReadFile("data/race.yaml")
	if string(got) != "embedded race" {
		t.Errorf("expected embedded content after clearing override, got %q", got)
	}
	if !Exists("data/board.yaml") || Exists("data/none.yaml") {
		t.Error("Exists() returned unexpected result")
	}
}
