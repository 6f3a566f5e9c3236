package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the review lifecycle shared by roads and POIs.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// CanTransitionTo reports whether a submission in status s may move to next.
// Only pending submissions can be reviewed, and review is one-way.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

// ReviewDecision is the action an administrator takes on a pending submission.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

func (d ReviewDecision) Status() SubmissionStatus {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Road types accepted for a road submission.
const (
	RoadTypeMainStreet = "خیابان اصلی"
	RoadTypeSideStreet = "خیابان فرعی"
	RoadTypeAlley      = "کوچه"
	RoadTypeHighway    = "بزرگراه"
)

var RoadTypes = []string{RoadTypeMainStreet, RoadTypeSideStreet, RoadTypeAlley, RoadTypeHighway}

type RoadSubmission struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	RoadName    string           `json:"road_name"`
	RoadType    string           `json:"road_type"`
	Coordinates [][]float64      `json:"coordinates"`
	Status      SubmissionStatus `json:"status"`
	CoinAwarded bool             `json:"coin_awarded"`
	CreatedAt   time.Time        `json:"created_at"`
}

type CreateRoadRequest struct {
	RoadName    string      `json:"road_name" validate:"required,min=2,max=200"`
	RoadType    string      `json:"road_type" validate:"required,road_type"`
	Coordinates [][]float64 `json:"coordinates" validate:"required,min=2,max=1000,dive,len=2,lat,lng"`
}

// POI categories.
const (
	CategoryPublic  = "عمومی"
	CategoryPrivate = "خصوصی"
)

var POICategories = []string{CategoryPublic, CategoryPrivate}

type POI struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	POIType   string           `json:"poi_type"`
	Location  []float64        `json:"location"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type CreatePOIRequest struct {
	Name     string    `json:"name" validate:"required,min=2,max=200"`
	Category string    `json:"category" validate:"required,poi_category"`
	POIType  string    `json:"poi_type"`
	Location []float64 `json:"location" validate:"required,len=2,lat,lng"`
}

// SubmissionFilter holds the optional equality filters of the public list endpoints.
type SubmissionFilter struct {
	Status   SubmissionStatus
	Category string
}

func (r *CreateRoadRequest) Normalize() {
	r.RoadName = strings.TrimSpace(r.RoadName)
	r.RoadType = strings.TrimSpace(r.RoadType)
}

func (r *CreatePOIRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.POIType = strings.TrimSpace(r.POIType)
}

// ParseStatusFilter accepts an empty filter or one of the three statuses.
func ParseStatusFilter(s string) (SubmissionStatus, error) {
	switch st := SubmissionStatus(strings.TrimSpace(s)); st {
	case "", StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", WithDetail(ErrValidation, "وضعیت باید یکی از pending، approved یا rejected باشد")
}
