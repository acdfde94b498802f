package models

import "time"

// Submission actions recorded in the audit log.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// SubmissionRecord is one successful stock-entry submission, stored in MongoDB.
type SubmissionRecord struct {
	EntryID     int64        `bson:"entry_id" json:"entry_id"`
	Action      string       `bson:"action" json:"action"`
	Payload     EntryPayload `bson:"-" json:"payload"`
	DroppedRows int          `bson:"dropped_rows" json:"dropped_rows"`
	SubmittedAt time.Time    `bson:"submitted_at" json:"submitted_at"`
}
