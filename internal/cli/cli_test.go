package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/kazin-kharizma/element-call/pkg/grid"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := map[string]bool{
		"layout":     false,
		"demo":       false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}

func TestLayoutCommandWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.json")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"layout", "-n", "3", "--width", "1280", "--height", "720", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	l, err := grid.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(l.Tiles) != 3 {
		t.Errorf("got %d tiles, want 3", len(l.Tiles))
	}
	if l.Mode != string(grid.ModeFreedom) {
		t.Errorf("mode = %q, want freedom", l.Mode)
	}
}

func TestLayoutCommandPresentersForceSpotlight(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.json")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"layout", "-n", "4", "--presenters", "1", "--width", "1280", "--height", "720", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	l, err := grid.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.Mode != string(grid.ModeSpotlight) {
		t.Errorf("mode = %q, want spotlight with a presenter", l.Mode)
	}
	if !l.Tiles[0].Presenter {
		t.Errorf("first tile %+v, want the presenter leading", l.Tiles[0])
	}
}

func TestLayoutCommandRejectsUnknownMode(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"layout", "--mode", "carousel"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Gap != grid.DefaultGap {
		t.Errorf("gap = %g, want %g", cfg.Gap, grid.DefaultGap)
	}
}
