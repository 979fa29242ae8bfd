package service

import (
	"strings"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// withdrawalReason extracts the reason recorded on an audit entry. The structured column
// wins; otherwise the text after the last colon of the detail is used. Entries yielding
// no reason return false.
func withdrawalReason(entry models.AuditLogEntry) (string, bool) {
	if entry.Reason != nil {
		if reason := strings.TrimSpace(*entry.Reason); reason != "" {
			return reason, true
		}
	}
	idx := strings.LastIndex(entry.Detail, ":")
	if idx < 0 {
		return "", false
	}
	reason := strings.TrimSpace(entry.Detail[idx+1:])
	return reason, reason != ""
}

func auditReasons(entries []models.AuditLogEntry) []string {
	reasons := make([]string, 0, len(entries))
	for _, entry := range entries {
		if reason, ok := withdrawalReason(entry); ok {
			reasons = append(reasons, reason)
		}
	}
	return reasons
}

func dropoutReasons(records []models.DropoutRecord) []string {
	reasons := make([]string, 0, len(records))
	for _, record := range records {
		if record.Reason == nil {
			continue
		}
		if reason := strings.TrimSpace(*record.Reason); reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return reasons
}

// mostCommonReason returns the most frequent reason. Candidates must be ordered most recent
// first; on a tie the reason first seen in that order wins. Nil when there are no candidates.
func mostCommonReason(candidates []string) *string {
	if len(candidates) == 0 {
		return nil
	}
	counts := make(map[string]int, len(candidates))
	order := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, seen := counts[candidate]; !seen {
			order = append(order, candidate)
		}
		counts[candidate]++
	}

	best, bestCount := "", 0
	for _, reason := range order {
		if counts[reason] > bestCount {
			best, bestCount = reason, counts[reason]
		}
	}
	return &best
}
