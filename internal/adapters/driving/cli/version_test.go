package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	t.Cleanup(func() { version = "dev" })

	version = "dev"
	SetVersion("")
	assert.Equal(t, "dev", version)

	SetVersion("0.4.0")
	assert.Equal(t, "0.4.0", resolvedVersion())
}

func TestResolvedVersion_DevFallsBackToBuildInfo(t *testing.T) {
	version = "dev"

	// Test binaries report "(devel)" or nothing, so dev is kept.
	assert.NotEmpty(t, resolvedVersion())
}
