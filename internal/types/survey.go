package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SurveyStatus is the closed set of lifecycle states a survey can be in.
// Every state may transition to every other state; DRAFT is the initial one.
type SurveyStatus string

const (
	SurveyStatusDraft    SurveyStatus = "DRAFT"
	SurveyStatusActive   SurveyStatus = "ACTIVE"
	SurveyStatusClosed   SurveyStatus = "CLOSED"
	SurveyStatusArchived SurveyStatus = "ARCHIVED"
)

// ParseSurveyStatus matches a status string case-insensitively against the
// enumeration. The ok result is false for anything outside the closed set;
// callers ignore unrecognized values rather than erroring.
func ParseSurveyStatus(s string) (SurveyStatus, bool) {
	switch status := SurveyStatus(strings.ToUpper(s)); status {
	case SurveyStatusDraft, SurveyStatusActive, SurveyStatusClosed, SurveyStatusArchived:
		return status, true
	}
	return "", false
}

// Survey mixes relational fields with an opaque JSON question schema stored
// verbatim in a jsonb column. CreatedBy and CreatedAt are immutable after
// creation; UpdatedAt is refreshed on every mutating write.
type Survey struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      SurveyStatus    `json:"status"`
	SchemaJSON  json.RawMessage `json:"schemaJson"`
	CreatedBy   uuid.UUID       `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateSurveyRequest is the expected JSON body for creating a survey.
type CreateSurveyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	SchemaJSON  json.RawMessage `json:"schemaJson,omitempty"`
	Status      string          `json:"status,omitempty"`
}

// UpdateSurveyParams carries partial-update fields; nil pointers (and a nil
// schema) leave the stored value untouched.
type UpdateSurveyParams struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	SchemaJSON  json.RawMessage `json:"schemaJson,omitempty"`
	Status      *string         `json:"status,omitempty"`
}
