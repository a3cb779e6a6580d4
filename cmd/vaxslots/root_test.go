package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := buildRootCmd(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "vaxslots ") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\ndefault_slots: 3\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VAXSLOTS_LOG_LEVEL", "error")

	cfg, err := resolveConfig(&options{configPath: path, addr: ":9100", corsOrigins: "http://a, http://b"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Fatalf("flag should win, addr=%q", cfg.Addr)
	}
	if cfg.DefaultSlots != 3 {
		t.Fatalf("file value lost, default_slots=%d", cfg.DefaultSlots)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env should override file, log_level=%q", cfg.LogLevel)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("cors=%v", cfg.CORSOrigins)
	}
	if cfg.DBPath != "vaxslots.db" {
		t.Fatalf("default lost, db_path=%q", cfg.DBPath)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	if _, err := resolveConfig(&options{logFormat: "xml"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"service":"vaxslots"`) {
		t.Fatalf("output=%q", buf.String())
	}
	if log.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level=%v", log.GetLevel())
	}

	buf.Reset()
	console := newLogger(&buf, "bogus", "console")
	console.Info().Msg("plain")
	if !strings.Contains(buf.String(), "plain") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("console output=%q", buf.String())
	}
}
