package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBReportsAdminCreation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_URL", "sqlite:///"+filepath.Join(dir, "cli.db"))
	t.Setenv("APP_ENV", "test")
	t.Setenv("SECRET_KEY", "cli-test-secret")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "rootPass1")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "uploads"))

	run := func() string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"init-db", "--config", filepath.Join(dir, "missing.yaml")})
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	assert.Contains(t, run(), "Admin account created: root@example.com")
	assert.Contains(t, run(), "Admin account already exists: root@example.com")
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_URL", "sqlite:///"+filepath.Join(dir, "migrate.db"))
	t.Setenv("APP_ENV", "test")
	t.Setenv("SECRET_KEY", "cli-test-secret")

	for i := 0; i < 2; i++ {
		rootCmd.SetArgs([]string{"migrate", "--config", filepath.Join(dir, "missing.yaml")})
		require.NoError(t, rootCmd.Execute())
	}
}
