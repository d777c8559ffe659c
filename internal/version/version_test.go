// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, "author-scan "+Version))
	assert.Contains(t, info, GitCommit)
	assert.Contains(t, info, Platform)
	assert.Equal(t, Version, Short())
}

func TestFull(t *testing.T) {
	full := Full()
	for _, key := range []string{"version", "commit", "buildDate", "goVersion", "platform"} {
		assert.NotEmpty(t, full[key], key)
	}
	assert.Equal(t, Version, full["version"])
}
