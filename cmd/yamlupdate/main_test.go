package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunSafelyRecoversPanics(t *testing.T) {
	var errOut bytes.Buffer
	code := runSafely(nil, func([]string) int { panic("boom") }, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "panic recovered: boom")
}

func TestRunSafelyPassesExitCode(t *testing.T) {
	var errOut bytes.Buffer
	assert.Equal(t, 3, runSafely(nil, func([]string) int { return 3 }, &errOut))
	assert.Empty(t, errOut.String())
}

func TestRunWithArgs(t *testing.T) {
	assert.Equal(t, 0, runWithArgs([]string{"compare", "1.2", "1.3"}))
	assert.Equal(t, 1, runWithArgs([]string{"compare", "1.2"}))
}
