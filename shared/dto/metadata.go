package dto

import (
	"spacebook/shared/constant"
	"spacebook/shared/model"
	"spacebook/shared/timezone"
	"time"
)

// Metadata is the audit block embedded in every response.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

// FromModel renders the audit timestamps in the application timezone. A row that was never
// touched after insert leaves ModifiedAt and ModifiedBy empty.
func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = stamp(src.CreatedAt)
	m.CreatedBy = src.CreatedBy

	if src.ModifiedAt.After(src.CreatedAt) {
		m.ModifiedAt = stamp(src.ModifiedAt)
		m.ModifiedBy = src.ModifiedBy
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
