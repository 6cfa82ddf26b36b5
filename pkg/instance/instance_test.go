package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetID(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("WORKER_ID", "")
	assert.Equal(t, "local", GetID())

	t.Setenv("WORKER_ID", "worker-3")
	assert.Equal(t, "worker-3", GetID())

	t.Setenv("DYNO", "web.1")
	assert.Equal(t, "web.1", GetID())
}
