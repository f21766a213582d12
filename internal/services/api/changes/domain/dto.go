// Package domain holds DTOs for changes http and service contracts
package domain

import "encoding/json"

// ChangesInput filters the change history listing
type ChangesInput struct {
	Source string `query:"source" json:"source" validate:"required,slug"`
	Limit  int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=1000" example:"50"`
}

// ChangeRow is one archived change event in API form. Detail nests the
// kind-specific payload: changed fields for updates, the record for new
// rows, message and record count for baselines
type ChangeRow struct {
	RunID      string          `json:"run_id" example:"0d9160ad-2b07-4f0e-9a8c-4f6ad6a3adad"`
	OccurredAt string          `json:"occurred_at" example:"2026-08-25T06:00:00Z"`
	Source     string          `json:"source" example:"claude"`
	Kind       string          `json:"kind" example:"updated"`
	RecordKey  string          `json:"record_key" example:"claude||claude-3-sonnet"`
	Detail     json.RawMessage `json:"detail"`
}

// ChangesResponse wraps the history listing for one source
type ChangesResponse struct {
	Source  string      `json:"source" example:"claude"`
	Count   int         `json:"count" example:"3"`
	Changes []ChangeRow `json:"changes"`
}
