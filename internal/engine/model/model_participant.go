package model

type ParticipantStatus string

const (
	ParticipantPending          ParticipantStatus = "PENDING"
	ParticipantRejected         ParticipantStatus = "REJECTED"
	ParticipantApproved         ParticipantStatus = "APPROVED"
	ParticipantChallengeDeleted ParticipantStatus = "CHALLENGE_DELETED"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantPending, ParticipantRejected, ParticipantApproved, ParticipantChallengeDeleted:
		return true
	}
	return false
}

// ChallengeParticipant is the (user, challenge) membership row. The
// composite unique index is the hard backstop against concurrent
// duplicate join requests.
type ChallengeParticipant struct {
	BaseModel
	UserID            int64             `gorm:"column:user_id;not null;uniqueIndex:uniq_user_challenge" json:"userId"`
	ChallengeID       int64             `gorm:"column:challenge_id;not null;uniqueIndex:uniq_user_challenge;index" json:"challengeId"`
	ParticipantStatus ParticipantStatus `gorm:"column:participant_status;type:varchar(30);default:PENDING" json:"participantStatus"`
}

func (ChallengeParticipant) TableName() string {
	return "t_challenge_participant"
}

type ParticipantDetail struct {
	ChallengeParticipant
	User UserSummary `json:"user"`
}

type UpdateParticipantStatusReq struct {
	Status string `json:"status"`
}
