package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/attachtree/attach"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
schema:
  attachmentsKey: children
watch:
  debounce: 250ms
`))
	if err != nil {
		t.Fatal(err)
	}
	want := attach.DefaultSchema
	want.AttachmentsKey = "children"
	if diff := cmp.Diff(want, *cfg.Schema); diff != "" {
		t.Errorf("schema (-want +got):\n%s", diff)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce %s", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	tr, err := New(nil, cfg.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Load([]byte("children:\n- type: ITEM\n")); err != nil {
		t.Fatal(err)
	}
	if got := tr.Root().Child(0).Path().String(); got != "children[0]" {
		t.Errorf("path %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := cfg.WatchOptions().Debounce; got != defaultDebounce {
		t.Errorf("debounce %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
		ok   bool
	}{
		{"default", "", true},
		{"key clash", "schema: {attachmentsKey: type}", false},
		{"name clash", "schema: {typeKey: modelName}", false},
		{"negative debounce", "watch: {debounce: -1s}", false},
	}
	for _, test := range tests {
		cfg, err := ParseConfig([]byte(test.cfg))
		if err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		if err := cfg.Validate(); (err == nil) != test.ok {
			t.Errorf("%s: Validate = %v", test.name, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	if err := os.WriteFile(path, []byte("watch:\n  debounce: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Watch.Debounce != time.Second || cfg.Schema.AttachmentsKey != "attachments" {
		t.Errorf("got %+v %+v", cfg.Watch, cfg.Schema)
	}
}
