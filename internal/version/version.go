// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version reports the author-scan build stamped in by the linker.
package version

import (
	"fmt"
	"runtime"
)

// Build information, overridden with -ldflags -X at release time
var (
	// Version is the author-scan release, or a development marker
	Version = "0.0.0-development"

	// GitCommit is the commit the binary was built from
	GitCommit = "unknown"

	// BuildDate is when the binary was built
	BuildDate = "unknown"

	// GoVersion is the version of Go used to build
	GoVersion = runtime.Version()

	// Platform is the OS/Arch combination
	Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// Info returns the one-line banner printed by -version
func Info() string {
	return fmt.Sprintf("author-scan %s (commit: %s, built: %s, go: %s, platform: %s)",
		Version, GitCommit, BuildDate, GoVersion, Platform)
}

// Short returns the release only
func Short() string {
	return Version
}

// Full returns every build field keyed by name
func Full() map[string]string {
	return map[string]string{
		"version":   Version,
		"commit":    GitCommit,
		"buildDate": BuildDate,
		"goVersion": GoVersion,
		"platform":  Platform,
	}
}
