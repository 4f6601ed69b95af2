package repo

import (
	"errors"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IParticipantRepository interface {
	GetByID(id int64) (*model.ChallengeParticipant, error)
	FindByUserAndChallenge(userID, challengeID int64) (*model.ChallengeParticipant, error)
	CountApproved(challengeID int64) (int64, error)
	CreatePending(userID, challengeID int64) (*model.ChallengeParticipant, error)
	ResetToPending(id int64) (*model.ChallengeParticipant, error)
	ListByChallenge(challengeID int64) ([]model.ParticipantDetail, error)
	UpdateStatus(id int64, status model.ParticipantStatus) (*model.ChallengeParticipant, error)
	ApproveWithCapacity(id, challengeID int64) (*model.ChallengeParticipant, error)
	AutoApprove(userID, challengeID int64) (*model.ChallengeParticipant, bool, error)
	Delete(id int64) error
}

type ParticipantRepo struct {
	db *gorm.DB
}

func NewParticipantRepo(c *ctx.Context) IParticipantRepository {
	return &ParticipantRepo{db: c.DB}
}

// ErrChallengeFull reports an approval that would exceed maxParticipants.
var ErrChallengeFull = errors.New("challenge is at capacity")

func (pr *ParticipantRepo) GetByID(id int64) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := pr.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *ParticipantRepo) FindByUserAndChallenge(userID, challengeID int64) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := pr.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *ParticipantRepo) CountApproved(challengeID int64) (int64, error) {
	var n int64
	err := pr.db.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ? AND participant_status = ?", challengeID, model.ParticipantApproved).
		Count(&n).Error
	return n, err
}

func (pr *ParticipantRepo) CreatePending(userID, challengeID int64) (*model.ChallengeParticipant, error) {
	p := &model.ChallengeParticipant{
		UserID:            userID,
		ChallengeID:       challengeID,
		ParticipantStatus: model.ParticipantPending,
	}
	if err := pr.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (pr *ParticipantRepo) ResetToPending(id int64) (*model.ChallengeParticipant, error) {
	return pr.UpdateStatus(id, model.ParticipantPending)
}

func (pr *ParticipantRepo) ListByChallenge(challengeID int64) ([]model.ParticipantDetail, error) {
	var rows []model.ChallengeParticipant
	err := pr.db.Where("challenge_id = ?", challengeID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.ParticipantDetail{}, nil
	}

	userIDs := make([]int64, 0, len(rows))
	for _, p := range rows {
		userIDs = append(userIDs, p.UserID)
	}
	var users []model.UserSummary
	if err := pr.db.Model(&model.User{}).
		Select("id, nickname, profile_image").
		Where("id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}
	userByID := make(map[int64]model.UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	details := make([]model.ParticipantDetail, 0, len(rows))
	for _, p := range rows {
		details = append(details, model.ParticipantDetail{
			ChallengeParticipant: p,
			User:                 userByID[p.UserID],
		})
	}
	return details, nil
}

func (pr *ParticipantRepo) UpdateStatus(id int64, status model.ParticipantStatus) (*model.ChallengeParticipant, error) {
	if err := pr.db.Model(&model.ChallengeParticipant{}).
		Where("id = ?", id).
		Update("participant_status", status).Error; err != nil {
		return nil, err
	}
	return pr.GetByID(id)
}

// ApproveWithCapacity flips a participant to APPROVED while holding a
// row lock on the challenge, so concurrent approvals cannot push the
// approved count past maxParticipants.
func (pr *ParticipantRepo) ApproveWithCapacity(id, challengeID int64) (*model.ChallengeParticipant, error) {
	err := pr.db.Transaction(func(tx *gorm.DB) error {
		var c model.Challenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, challengeID).Error; err != nil {
			return err
		}

		var approved int64
		if err := tx.Model(&model.ChallengeParticipant{}).
			Where("challenge_id = ? AND participant_status = ?", challengeID, model.ParticipantApproved).
			Count(&approved).Error; err != nil {
			return err
		}
		if approved >= int64(c.MaxParticipants) {
			return ErrChallengeFull
		}

		var p model.ChallengeParticipant
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ChallengeParticipant{}).
			Where("id = ?", id).
			Update("participant_status", model.ParticipantApproved).Error; err != nil {
			return err
		}
		if p.ParticipantStatus != model.ParticipantApproved {
			if err := tx.Model(&model.User{}).
				Where("id = ?", p.UserID).
				UpdateColumn("challenge_participations", gorm.Expr("challenge_participations + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pr.GetByID(id)
}

// AutoApprove ensures a user is an approved participant of a challenge,
// creating or promoting their row when a seat remains. Returns the row
// and whether it ended up approved; when the challenge is full the row
// is left (or created) PENDING instead of failing.
func (pr *ParticipantRepo) AutoApprove(userID, challengeID int64) (*model.ChallengeParticipant, bool, error) {
	var out model.ChallengeParticipant
	approvedNow := false
	err := pr.db.Transaction(func(tx *gorm.DB) error {
		var c model.Challenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, challengeID).Error; err != nil {
			return err
		}

		var p model.ChallengeParticipant
		err := tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&p).Error
		exists := true
		if errors.Is(err, gorm.ErrRecordNotFound) {
			exists = false
		} else if err != nil {
			return err
		}
		if exists && p.ParticipantStatus == model.ParticipantApproved {
			out = p
			approvedNow = true
			return nil
		}

		var approved int64
		if err := tx.Model(&model.ChallengeParticipant{}).
			Where("challenge_id = ? AND participant_status = ?", challengeID, model.ParticipantApproved).
			Count(&approved).Error; err != nil {
			return err
		}
		hasSeat := approved < int64(c.MaxParticipants)

		status := model.ParticipantPending
		if hasSeat {
			status = model.ParticipantApproved
		}

		if exists {
			if err := tx.Model(&model.ChallengeParticipant{}).
				Where("id = ?", p.ID).
				Update("participant_status", status).Error; err != nil {
				return err
			}
			p.ParticipantStatus = status
		} else {
			p = model.ChallengeParticipant{
				UserID:            userID,
				ChallengeID:       challengeID,
				ParticipantStatus: status,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}

		if hasSeat {
			if err := tx.Model(&model.User{}).
				Where("id = ?", userID).
				UpdateColumn("challenge_participations", gorm.Expr("challenge_participations + 1")).Error; err != nil {
				return err
			}
			approvedNow = true
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, approvedNow, nil
}

func (pr *ParticipantRepo) Delete(id int64) error {
	return pr.db.Delete(&model.ChallengeParticipant{}, id).Error
}
