// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user configuration directory
const AppName = "author-scan"

// GetConfigDir returns the author-scan configuration directory
func GetConfigDir() string {
	if dir := os.Getenv("AUTHOR_SCAN_CONFIG_DIR"); dir != "" {
		return NormalizePath(dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+AppName)
	}
	return ""
}

// GetConfigFile returns the path to the per-user config file
func GetConfigFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// GetTempDir returns the directory for temporary document copies
func GetTempDir() string {
	if dir := os.Getenv("AUTHOR_SCAN_TEMP_DIR"); dir != "" {
		return NormalizePath(dir)
	}
	return os.TempDir()
}

// NormalizePath expands a leading ~ and cleans the path
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

// ValidatePath rejects paths that cannot name a file on this platform
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	return nil
}
