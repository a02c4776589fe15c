package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8930 || cfg.Server.Host != "localhost" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Engine.TopK != 5 || cfg.Engine.Mode != "physics" {
		t.Errorf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Engine.IncludeEdges == nil || !*cfg.Engine.IncludeEdges {
		t.Error("edges default to included")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := `server:
  port: 9000
data:
  snapshot: ./graph.json
  watch: true
engine:
  top_k: 8
  mode: fixed
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("unset host should keep the default, got %q", cfg.Server.Host)
	}
	if cfg.Data.Snapshot != "./graph.json" || cfg.Data.Watch == nil || !*cfg.Data.Watch {
		t.Errorf("data = %+v", cfg.Data)
	}
	if cfg.Engine.TopK != 8 || cfg.Engine.Mode != "fixed" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.Width != 1280 || cfg.Engine.Height != 800 {
		t.Errorf("unset surface should keep defaults, got %vx%v", cfg.Engine.Width, cfg.Engine.Height)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("\t: nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestDataWatchDefaultSurvivesPartialSection(t *testing.T) {
	dir := t.TempDir()
	raw := `data:
  snapshot: ./graph.json
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Watch == nil || !*cfg.Data.Watch {
		t.Error("data section without a watch key must keep the default true")
	}
}

func TestDataWatchFalseSurvivesMerge(t *testing.T) {
	dir := t.TempDir()
	raw := `data:
  snapshot: ./graph.json
  watch: false
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Watch == nil || *cfg.Data.Watch {
		t.Error("explicit false must override the default true")
	}
}

func TestEngineIncludeEdgesFalseSurvivesMerge(t *testing.T) {
	dir := t.TempDir()
	raw := `engine:
  include_edges: false
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.IncludeEdges == nil || *cfg.Engine.IncludeEdges {
		t.Error("explicit false must override the default true")
	}
}
