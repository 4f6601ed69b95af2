package model

import (
	"time"
)

type ChallengeStatus string

const (
	ChallengeInProgress ChallengeStatus = "IN_PROGRESS"
	ChallengeClosed     ChallengeStatus = "CLOSED"
)

func (s ChallengeStatus) Valid() bool {
	return s == ChallengeInProgress || s == ChallengeClosed
}

type DocType string

const (
	DocTypeOfficialDocument DocType = "OFFICIAL_DOCUMENT"
	DocTypeBlog             DocType = "BLOG"
)

func (d DocType) Valid() bool {
	return d == DocTypeOfficialDocument || d == DocTypeBlog
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

type Challenge struct {
	BaseModel
	UserID             int64           `gorm:"column:user_id;not null;index" json:"userId"`
	ChallengeRequestID *int64          `gorm:"column:challenge_request_id;index" json:"challengeRequestId"`
	Title              string          `gorm:"column:title;type:varchar(255);not null" json:"title"`
	SourceURL          string          `gorm:"column:source_url;type:varchar(2048);not null" json:"sourceUrl"`
	Field              string          `gorm:"column:field;type:varchar(100);not null" json:"field"`
	DocType            DocType         `gorm:"column:doc_type;type:varchar(30);not null" json:"docType"`
	DeadlineAt         time.Time       `gorm:"column:deadline_at;not null" json:"deadlineAt"`
	MaxParticipants    int             `gorm:"column:max_participants;not null" json:"maxParticipants"`
	Content            string          `gorm:"column:content;type:text;not null" json:"content"`
	ChallengeStatus    ChallengeStatus `gorm:"column:challenge_status;type:varchar(20);default:IN_PROGRESS" json:"challengeStatus"`
	AdminReason        *string         `gorm:"column:admin_reason;type:text" json:"adminReason"`
	DeletedAt          *time.Time      `gorm:"column:deleted_at" json:"deletedAt"` // audit stamp written just before admin hard-delete
}

func (Challenge) TableName() string {
	return "t_challenge"
}

// EffectivelyClosed reports whether the challenge should be treated as
// finished: either explicitly closed or past its deadline. The stored
// enum is never rewritten when the deadline lapses.
func (c *Challenge) EffectivelyClosed(now time.Time) bool {
	return c.ChallengeStatus == ChallengeClosed || now.After(c.DeadlineAt)
}

type ChallengeRequest struct {
	BaseModel
	UserID          int64         `gorm:"column:user_id;not null;index" json:"userId"`
	Title           string        `gorm:"column:title;type:varchar(255);not null" json:"title"`
	SourceURL       string        `gorm:"column:source_url;type:varchar(2048);not null" json:"sourceUrl"`
	Field           string        `gorm:"column:field;type:varchar(100);not null" json:"field"`
	DocType         DocType       `gorm:"column:doc_type;type:varchar(30);not null" json:"docType"`
	DeadlineAt      time.Time     `gorm:"column:deadline_at;not null" json:"deadlineAt"`
	MaxParticipants int           `gorm:"column:max_participants;not null" json:"maxParticipants"`
	Content         string        `gorm:"column:content;type:text;not null" json:"content"`
	RequestStatus   RequestStatus `gorm:"column:request_status;type:varchar(20);default:PENDING" json:"requestStatus"`
	AdminReason     *string       `gorm:"column:admin_reason;type:text" json:"adminReason"`
	ProcessedAt     *time.Time    `gorm:"column:processed_at" json:"processedAt"`
}

func (ChallengeRequest) TableName() string {
	return "t_challenge_request"
}

type CreateChallengeReq struct {
	ChallengeRequestID *int64 `json:"challengeRequestId"`
	Title              string `json:"title"`
	SourceURL          string `json:"sourceUrl"`
	Field              string `json:"field"`
	DocType            string `json:"docType"`
	DeadlineAt         string `json:"deadlineAt"`
	MaxParticipants    int    `json:"maxParticipants"`
	Content            string `json:"content"`
}

// UpdateChallengeReq is a partial patch; nil fields are left untouched.
type UpdateChallengeReq struct {
	Title           *string `json:"title"`
	SourceURL       *string `json:"sourceUrl"`
	Field           *string `json:"field"`
	DocType         *string `json:"docType"`
	DeadlineAt      *string `json:"deadlineAt"`
	MaxParticipants *int    `json:"maxParticipants"`
	Content         *string `json:"content"`
	ChallengeStatus *string `json:"challengeStatus"`
}

func (r *UpdateChallengeReq) Empty() bool {
	return r.Title == nil && r.SourceURL == nil && r.Field == nil && r.DocType == nil &&
		r.DeadlineAt == nil && r.MaxParticipants == nil && r.Content == nil && r.ChallengeStatus == nil
}

type CreateChallengeRequestReq struct {
	Title           string `json:"title"`
	SourceURL       string `json:"sourceUrl"`
	Field           string `json:"field"`
	DocType         string `json:"docType"`
	DeadlineAt      string `json:"deadlineAt"`
	MaxParticipants int    `json:"maxParticipants"`
	Content         string `json:"content"`
}

type UpdateChallengeRequestReq struct {
	Title           *string `json:"title"`
	SourceURL       *string `json:"sourceUrl"`
	Field           *string `json:"field"`
	DocType         *string `json:"docType"`
	DeadlineAt      *string `json:"deadlineAt"`
	MaxParticipants *int    `json:"maxParticipants"`
	Content         *string `json:"content"`
}

func (r *UpdateChallengeRequestReq) Empty() bool {
	return r.Title == nil && r.SourceURL == nil && r.Field == nil && r.DocType == nil &&
		r.DeadlineAt == nil && r.MaxParticipants == nil && r.Content == nil
}

type ProcessChallengeRequestReq struct {
	Status      string `json:"status"`
	AdminReason string `json:"adminReason"`
}

type AdminReasonReq struct {
	AdminReason string `json:"adminReason"`
}

// ChallengeDetail decorates a challenge row with its owner, counts and
// the derived deadline state.
type ChallengeDetail struct {
	Challenge
	User                UserSummary `json:"user"`
	ParticipantCount    int64       `json:"participantCount"`
	WorkCount           int64       `json:"workCount"`
	IsEffectivelyClosed bool        `json:"isEffectivelyClosed"`
}

type ChallengeRequestDetail struct {
	ChallengeRequest
	User        UserSummary `json:"user"`
	ChallengeID *int64      `json:"challengeId"` // linked challenge once approved
}

// ProcessResult is the outcome of an admin decision on a request:
// approval carries the created challenge, rejection the updated request.
type ProcessResult struct {
	Approved         bool              `json:"approved"`
	Challenge        *Challenge        `json:"challenge,omitempty"`
	ChallengeRequest *ChallengeRequest `json:"challengeRequest,omitempty"`
}

// MigrateResult reports a backfill sweep of approved requests that lost
// their challenge row.
type MigrateResult struct {
	Migrated  int     `json:"migrated"`
	Skipped   int     `json:"skipped"`
	CreatedID []int64 `json:"createdIds"`
}

type ListChallengesQuery struct {
	UserID          *int64
	ChallengeStatus string
	Field           string
	DocType         string
	Page            int
	Limit           int
}
