package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

func TestWithdrawalReason(t *testing.T) {
	cases := []struct {
		entry  models.AuditLogEntry
		want   string
		wantOK bool
	}{
		{models.AuditLogEntry{Detail: "Student 12 withdrawn: salud"}, "salud", true},
		{models.AuditLogEntry{Detail: "at 10:30 withdrawn: family: moved abroad"}, "moved abroad", true},
		{models.AuditLogEntry{Detail: "withdrawn"}, "", false},
		{models.AuditLogEntry{Detail: "withdrawn:   "}, "", false},
		{models.AuditLogEntry{Detail: "withdrawn: legacy", Reason: strPtr("structured")}, "structured", true},
		{models.AuditLogEntry{Detail: "withdrawn: legacy", Reason: strPtr(" ")}, "legacy", true},
	}

	for _, tc := range cases {
		got, ok := withdrawalReason(tc.entry)
		assert.Equal(t, tc.wantOK, ok, tc.entry.Detail)
		assert.Equal(t, tc.want, got, tc.entry.Detail)
	}
}

func TestMostCommonReason(t *testing.T) {
	assert.Nil(t, mostCommonReason(nil))

	reason := mostCommonReason([]string{"b", "a", "a", "b", "c"})
	require.NotNil(t, reason)
	assert.Equal(t, "b", *reason)

	reason = mostCommonReason([]string{"c", "a", "a"})
	require.NotNil(t, reason)
	assert.Equal(t, "a", *reason)

	reason = mostCommonReason([]string{"a", "b", "b", "a"})
	require.NotNil(t, reason)
	assert.Equal(t, "a", *reason)

	reason = mostCommonReason([]string{"Salud", "salud"})
	require.NotNil(t, reason)
	assert.Equal(t, "Salud", *reason)
}
