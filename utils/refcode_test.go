package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReferenceCodeFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^TKT-2026-\d{4}$`, NewTicketNumber(now))
		assert.Regexp(t, `^REQ-2026-\d{4}$`, NewRequestNumber(now))
	}
}
