package model

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type Grade string

const (
	GradeNormal Grade = "NORMAL"
	GradeExpert Grade = "EXPERT"
)

type User struct {
	BaseModel
	Email        string  `gorm:"column:email;uniqueIndex;type:varchar(255);not null" json:"email"`
	Password     *string `gorm:"column:password;type:varchar(255)" json:"-"` // null for OAuth-only accounts
	Nickname     string  `gorm:"column:nickname;type:varchar(100);not null" json:"nickname"`
	ProfileImage string  `gorm:"column:profile_image;type:varchar(50)" json:"profileImage"`
	Role         Role    `gorm:"column:role;type:varchar(20);default:USER" json:"role"`
	Grade        Grade   `gorm:"column:grade;type:varchar(20);default:NORMAL" json:"grade"`

	ChallengeParticipations int `gorm:"column:challenge_participations;default:0" json:"challengeParticipations"`
	RecommendedCount        int `gorm:"column:recommended_count;default:0" json:"recommendedCount"`

	// TokenVersion only ever increases; a token is valid only while its
	// embedded version equals this counter.
	TokenVersion int `gorm:"column:token_version;default:0" json:"-"`
}

func (User) TableName() string {
	return "t_user"
}

// OAuthAccount links an external identity to a user. Created lazily on
// first social login.
type OAuthAccount struct {
	BaseModel
	Provider   string `gorm:"column:provider;type:varchar(50);not null;uniqueIndex:uniq_provider_account" json:"provider"`
	ProviderID string `gorm:"column:provider_id;type:varchar(255);not null;uniqueIndex:uniq_provider_account" json:"providerId"`
	Email      string `gorm:"column:email;type:varchar(255)" json:"email"`
	UserID     int64  `gorm:"column:user_id;not null;index" json:"userId"`
}

func (OAuthAccount) TableName() string {
	return "t_oauth_account"
}

// Admin is a separate credential entity from User; admin tokens are
// tagged type "admin" and carry no revocation counter.
type Admin struct {
	BaseModel
	Email    string `gorm:"column:email;uniqueIndex;type:varchar(255);not null" json:"email"`
	Password string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Nickname string `gorm:"column:nickname;type:varchar(100);not null" json:"nickname"`
}

func (Admin) TableName() string {
	return "t_admin"
}

type SignupReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginReq struct {
	IDToken string `json:"idToken"`
}

type AuthResp struct {
	AccessToken string       `json:"accessToken"`
	User        *UserProfile `json:"user"`
}

type AdminAuthResp struct {
	AccessToken string        `json:"accessToken"`
	Admin       *AdminProfile `json:"admin"`
}

// UserProfile is the authenticated user's own view of their account.
type UserProfile struct {
	ID                      int64     `json:"id"`
	Email                   string    `json:"email"`
	Nickname                string    `json:"nickname"`
	ProfileImage            string    `json:"profileImage"`
	Role                    Role      `json:"role"`
	Grade                   Grade     `json:"grade"`
	ChallengeParticipations int       `json:"challengeParticipations"`
	RecommendedCount        int       `json:"recommendedCount"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type AdminProfile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:                      u.ID,
		Email:                   u.Email,
		Nickname:                u.Nickname,
		ProfileImage:            u.ProfileImage,
		Role:                    u.Role,
		Grade:                   u.Grade,
		ChallengeParticipations: u.ChallengeParticipations,
		RecommendedCount:        u.RecommendedCount,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (a *Admin) Profile() *AdminProfile {
	return &AdminProfile{
		ID:        a.ID,
		Email:     a.Email,
		Nickname:  a.Nickname,
		CreatedAt: a.CreatedAt,
	}
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Nickname: u.Nickname, ProfileImage: u.ProfileImage}
}
