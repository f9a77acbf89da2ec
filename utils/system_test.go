package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunStats(t *testing.T) {
	start := time.Now().Add(-1500 * time.Millisecond)
	rs := NewRunStats(start)
	assert.GreaterOrEqual(t, rs.Elapsed, 1500*time.Millisecond)
	assert.GreaterOrEqual(t, rs.NumGoroutine, 1)
	assert.GreaterOrEqual(t, rs.SysMiB, rs.AllocMiB)
	assert.True(t, strings.HasPrefix(rs.String(), "Elapsed = "))
}
