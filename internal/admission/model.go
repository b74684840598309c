package admission

import (
	"encoding/json"
	"time"
)

// Status is the externally visible outcome of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Recommendation is the principal's first-stage decision.
type Recommendation string

const (
	RecommendationPending  Recommendation = "pending"
	RecommendationApproved Recommendation = "approved"
	RecommendationRejected Recommendation = "rejected"
)

// Confirmation is the admin's second-stage marker.
type Confirmation string

const (
	ConfirmationPending   Confirmation = "pending"
	ConfirmationConfirmed Confirmation = "confirmed"
)

// Outcome is a decision handed to either workflow step.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Valid returns true for approved or rejected.
func (o Outcome) Valid() bool {
	return o == OutcomeApproved || o == OutcomeRejected
}

// Stage names where an application sits in the approval workflow.
type Stage string

const (
	StageNew               Stage = "new"
	StagePrincipalReviewed Stage = "principal_reviewed"
	StageAdminDecided      Stage = "admin_decided"
)

// Application is one child's admission request and its approval state.
type Application struct {
	ID                      int64          `json:"id"`
	StudentName             string         `json:"student_name"`
	ParentName              string         `json:"parent_name"`
	Email                   string         `json:"email"`
	Phone                   string         `json:"phone"`
	DateOfBirth             string         `json:"date_of_birth"`
	Address                 string         `json:"address"`
	ProgramInterest         string         `json:"program_interest"`
	Status                  Status         `json:"status"`
	PrincipalRecommendation Recommendation `json:"principal_recommendation"`
	AdminConfirmation       Confirmation   `json:"admin_confirmation"`
	CreatedAt               time.Time      `json:"created_at"`
}

// MarshalJSON adds the derived workflow stage to the stored fields.
func (a Application) MarshalJSON() ([]byte, error) {
	type stored Application
	return json.Marshal(struct {
		stored
		Stage Stage `json:"stage"`
	}{stored(a), a.Stage()})
}

// Stage derives the workflow stage from the stored fields.
func (a Application) Stage() Stage {
	switch {
	case a.AdminConfirmation == ConfirmationConfirmed:
		return StageAdminDecided
	case a.PrincipalRecommendation != RecommendationPending:
		return StagePrincipalReviewed
	default:
		return StageNew
	}
}

// NewApplication is the public admissions form.
type NewApplication struct {
	StudentName     string `json:"student_name" validate:"required"`
	ParentName      string `json:"parent_name"`
	Email           string `json:"email" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	DateOfBirth     string `json:"date_of_birth"`
	Address         string `json:"address"`
	ProgramInterest string `json:"program_interest" validate:"required,program"`
}
