package models

import "time"

// AuditActionStudentWithdraw marks an institution-level student withdrawal.
const AuditActionStudentWithdraw = "STUDENT_WITHDRAW"

// AuditLogEntry is a read-only audit trail row. Older rows embed the withdrawal reason as
// the text after the last colon of Detail; newer rows also fill Reason.
type AuditLogEntry struct {
	Action    string    `db:"action" json:"action"`
	Detail    string    `db:"detail" json:"detail"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
