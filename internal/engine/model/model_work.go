package model

import (
	"time"
)

type WorkStatus string

const (
	WorkDraft WorkStatus = "draft"
	WorkDone  WorkStatus = "done"
)

func (s WorkStatus) Valid() bool {
	return s == WorkDraft || s == WorkDone
}

// Work is a submission artifact against a challenge. Drafting is free;
// transitioning to done is the gated action that auto-approves the
// author's participation.
type Work struct {
	BaseModel
	UserID      int64      `gorm:"column:user_id;not null;index" json:"userId"`
	ChallengeID int64      `gorm:"column:challenge_id;not null;index" json:"challengeId"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content     string     `gorm:"column:content;type:text;not null" json:"content"`
	OriginalURL *string    `gorm:"column:original_url;type:varchar(2048)" json:"originalUrl"`
	WorkStatus  WorkStatus `gorm:"column:work_status;type:varchar(10);default:draft" json:"workStatus"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submittedAt"`
}

func (Work) TableName() string {
	return "t_work"
}

type CreateWorkReq struct {
	ChallengeID int64   `json:"challengeId"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	OriginalURL *string `json:"originalUrl"`
}

type UpdateWorkReq struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	OriginalURL *string `json:"originalUrl"`
	WorkStatus  *string `json:"workStatus"`
}

func (r *UpdateWorkReq) Empty() bool {
	return r.Title == nil && r.Content == nil && r.OriginalURL == nil && r.WorkStatus == nil
}

type ListWorksQuery struct {
	ChallengeID *int64
	UserID      *int64
	WorkStatus  string
}

type Feedback struct {
	BaseModel
	UserID  int64  `gorm:"column:user_id;not null;index" json:"userId"`
	WorkID  int64  `gorm:"column:work_id;not null;index" json:"workId"`
	Content string `gorm:"column:content;type:text;not null" json:"content"`
}

func (Feedback) TableName() string {
	return "t_feedback"
}

type CreateFeedbackReq struct {
	Content string `json:"content"`
}

type UpdateFeedbackReq struct {
	Content *string `json:"content"`
}

// Like is a pure membership relation; the composite primary key makes
// concurrent duplicate inserts fail at the constraint layer.
type Like struct {
	UserID    int64     `gorm:"column:user_id;primaryKey" json:"userId"`
	WorkID    int64     `gorm:"column:work_id;primaryKey" json:"workId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Like) TableName() string {
	return "t_like"
}

type LikeCountResp struct {
	Count   int64 `json:"count"`
	IsLiked *bool `json:"isLiked,omitempty"`
}
