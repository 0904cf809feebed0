package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "cost", 10, cfg.Cost)
	assert.Equal(t, "log level", "info", cfg.LogLevel)
	assert.Equal(t, "max concurrent", int64(runtime.NumCPU()), cfg.MaxConcurrent)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "cost: 12\nlog_level: debug\nmax_concurrent: 3\n"

	if err := os.WriteFile(filepath.Join(dir, "bcrypt.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "cost", 12, cfg.Cost)
	assert.Equal(t, "log level", "debug", cfg.LogLevel)
	assert.Equal(t, "max concurrent", int64(3), cfg.MaxConcurrent)
}

func TestLoadConfigEnv(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "bcrypt.yaml"), []byte("cost: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BCRYPT_COST", "14")

	cfg, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "cost", 14, cfg.Cost)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "bcrypt.yaml"), []byte("max_concurrent: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(dir); err == nil {
		t.Error("loadConfig accepted max_concurrent of 0")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	log, err := newLogger("warn", os.Stderr)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "level", "warning", log.Level.String())

	if _, err := newLogger("loud", os.Stderr); err == nil {
		t.Error("newLogger accepted an unknown level")
	}
}
