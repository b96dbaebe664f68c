package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points the CLI at in-memory rows and a temporary blob directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REPOSITORY_DRIVER", "memory")
	t.Setenv("BLOB_STORAGE_DRIVER", "fs")
	t.Setenv("BLOB_STORAGE_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReconcile_Consistent(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "reconcile", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "stores are consistent")
}

func TestReconcile_OrphanDocuments(t *testing.T) {
	dir := setupEnv(t)
	orphan := uuid.New()
	require.NoError(t, os.WriteFile(filepath.Join(dir, orphan.String()+".xml"), []byte("<NFe/>"), 0o644))

	out, err := execute(t, "reconcile", "--json")
	require.NoError(t, err)

	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.BlobsScanned)
	assert.Equal(t, []string{orphan.String()}, report.OrphanBlobs)
	assert.Empty(t, report.DeletedBlobs)

	_, err = execute(t, "reconcile", "--strict")
	assert.ErrorIs(t, err, errInconsistent)

	out, err = execute(t, "reconcile", "--delete-orphans")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted:          "+orphan.String())
	assert.NoFileExists(t, filepath.Join(dir, orphan.String()+".xml"))
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPOSITORY_DRIVER=postgres")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("BLOB_STORAGE_DRIVER", "ftp")

	_, err := execute(t, "reconcile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOB_STORAGE_DRIVER")
}
