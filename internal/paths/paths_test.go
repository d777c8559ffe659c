// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AUTHOR_SCAN_CONFIG_DIR", dir)
	assert.Equal(t, filepath.Clean(dir), GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
}

func TestGetTempDir(t *testing.T) {
	t.Setenv("AUTHOR_SCAN_TEMP_DIR", "")
	assert.Equal(t, os.TempDir(), GetTempDir())

	dir := t.TempDir()
	t.Setenv("AUTHOR_SCAN_TEMP_DIR", dir)
	assert.Equal(t, filepath.Clean(dir), GetTempDir())
}

func TestNormalizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, "books"), NormalizePath("~/books"))
	}
	assert.Equal(t, filepath.Clean("a/b"), NormalizePath("a//b/"))
	assert.Equal(t, "", NormalizePath(""))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("/tmp/x"))
	assert.Error(t, ValidatePath("bad\x00path"))
}
