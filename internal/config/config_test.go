package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "GOOGLE_API_KEY", "SECRET_MY", "POSTGRES_DSN", "VERCEL", "AWS_REGION"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3000 || cfg.Storage.Backend != BackendFile || cfg.Storage.MatchesFile != "matches.json" {
		t.Errorf("defaults = %+v %+v", cfg.Server, cfg.Storage)
	}
	if cfg.Logo.MaxDistance != 3 || cfg.Logo.URLPrefix != "logo" {
		t.Errorf("logo defaults = %+v", cfg.Logo)
	}
	if cfg.Board.PastDays != 7 || cfg.Board.NextDays != 7 {
		t.Errorf("board defaults = %+v", cfg.Board)
	}
	if cfg.Agent.Model != "gemini-2.5-flash" || cfg.Agent.APIVersion != "v1" {
		t.Errorf("agent defaults = %+v", cfg.Agent)
	}
	if cfg.Storage.ReadOnly {
		t.Error("read-only without VERCEL")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := `
server:
  port: 8080
storage:
  backend: postgres
logo:
  max_distance: 2
board:
  timezone: Asia/Jakarta
postgres:
  conn_max_lifetime: 30m
`
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9000")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("SECRET_MY", "shh")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/x")
	t.Setenv("VERCEL", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, env should win", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendPostgres || cfg.Logo.MaxDistance != 2 {
		t.Errorf("yaml values lost: %+v %+v", cfg.Storage, cfg.Logo)
	}
	if cfg.Postgres.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("conn_max_lifetime = %v", cfg.Postgres.ConnMaxLifetime)
	}
	if cfg.Agent.APIKey != "key" || cfg.Security.APISecret != "shh" || cfg.Postgres.DSN != "postgres://localhost/x" {
		t.Errorf("env overrides = %+v %+v", cfg.Agent, cfg.Security)
	}
	if !cfg.Storage.ReadOnly {
		t.Error("VERCEL should force read-only storage")
	}
	if loc := cfg.Board.Location(); loc.String() != "Asia/Jakarta" {
		t.Errorf("location = %v", loc)
	}
}

func TestBoardLocationFallback(t *testing.T) {
	if loc := (&BoardConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Errorf("invalid timezone = %v, want Local", loc)
	}
	if loc := (&BoardConfig{}).Location(); loc != time.Local {
		t.Errorf("empty timezone = %v, want Local", loc)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
