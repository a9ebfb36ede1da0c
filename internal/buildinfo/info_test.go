package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.0"
	assert.Equal(t, "v1.2.0 (commit: none, built: unknown)", String())
}
