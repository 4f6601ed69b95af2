package repo

import (
	"errors"
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IChallengeRepository interface {
	CreateChallenge(challenge *model.Challenge) error
	GetChallengeByID(id int64) (*model.Challenge, error)
	GetChallengeDetail(id int64, now time.Time) (*model.ChallengeDetail, error)
	ListChallenges(q model.ListChallengesQuery, now time.Time) ([]model.ChallengeDetail, int64, error)
	UpdateChallenge(id int64, updates map[string]any) (*model.Challenge, error)
	DeleteChallenge(id int64) error
	AdminDeleteChallenge(id int64, reason string, now time.Time) error

	CreateRequest(request *model.ChallengeRequest) error
	GetRequestByID(id int64) (*model.ChallengeRequest, error)
	GetRequestDetail(id int64) (*model.ChallengeRequestDetail, error)
	ListRequests(userID *int64, status model.RequestStatus) ([]model.ChallengeRequestDetail, error)
	UpdateRequest(id int64, updates map[string]any) (*model.ChallengeRequest, error)
	CancelRequest(id int64) (*model.ChallengeRequest, error)
	RejectRequest(id int64, reason string, now time.Time) (*model.ChallengeRequest, error)
	ApproveRequest(request *model.ChallengeRequest, reason string, now time.Time) (*model.Challenge, error)
	ListApprovedWithoutChallenge() ([]model.ChallengeRequest, error)
	BackfillChallenge(request *model.ChallengeRequest) (*model.Challenge, bool, error)
}

type ChallengeRepo struct {
	db *gorm.DB
}

func NewChallengeRepo(c *ctx.Context) IChallengeRepository {
	return &ChallengeRepo{db: c.DB}
}

func (cr *ChallengeRepo) CreateChallenge(challenge *model.Challenge) error {
	return cr.db.Create(challenge).Error
}

func (cr *ChallengeRepo) GetChallengeByID(id int64) (*model.Challenge, error) {
	var c model.Challenge
	err := cr.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (cr *ChallengeRepo) GetChallengeDetail(id int64, now time.Time) (*model.ChallengeDetail, error) {
	c, err := cr.GetChallengeByID(id)
	if err != nil || c == nil {
		return nil, err
	}

	details, err := cr.decorate([]model.Challenge{*c}, now)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (cr *ChallengeRepo) ListChallenges(q model.ListChallengesQuery, now time.Time) ([]model.ChallengeDetail, int64, error) {
	tx := cr.db.Model(&model.Challenge{})
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.ChallengeStatus != "" {
		tx = tx.Where("challenge_status = ?", q.ChallengeStatus)
	}
	if q.Field != "" {
		tx = tx.Where("field = ?", q.Field)
	}
	if q.DocType != "" {
		tx = tx.Where("doc_type = ?", q.DocType)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Challenge
	err := tx.Order("created_at DESC, id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	details, err := cr.decorate(rows, now)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// decorate attaches owner summaries, participant/work counts and the
// derived deadline state to challenge rows.
func (cr *ChallengeRepo) decorate(rows []model.Challenge, now time.Time) ([]model.ChallengeDetail, error) {
	if len(rows) == 0 {
		return []model.ChallengeDetail{}, nil
	}

	userIDs := make([]int64, 0, len(rows))
	challengeIDs := make([]int64, 0, len(rows))
	for _, c := range rows {
		userIDs = append(userIDs, c.UserID)
		challengeIDs = append(challengeIDs, c.ID)
	}

	var owners []model.UserSummary
	if err := cr.db.Model(&model.User{}).
		Select("id, nickname, profile_image").
		Where("id IN ?", userIDs).
		Find(&owners).Error; err != nil {
		return nil, err
	}
	ownerByID := make(map[int64]model.UserSummary, len(owners))
	for _, o := range owners {
		ownerByID[o.ID] = o
	}

	type countRow struct {
		ChallengeID int64
		N           int64
	}
	participantCounts := make(map[int64]int64, len(rows))
	workCounts := make(map[int64]int64, len(rows))

	var pc []countRow
	if err := cr.db.Model(&model.ChallengeParticipant{}).
		Select("challenge_id, COUNT(*) AS n").
		Where("challenge_id IN ?", challengeIDs).
		Group("challenge_id").
		Find(&pc).Error; err != nil {
		return nil, err
	}
	for _, r := range pc {
		participantCounts[r.ChallengeID] = r.N
	}

	var wc []countRow
	if err := cr.db.Model(&model.Work{}).
		Select("challenge_id, COUNT(*) AS n").
		Where("challenge_id IN ?", challengeIDs).
		Group("challenge_id").
		Find(&wc).Error; err != nil {
		return nil, err
	}
	for _, r := range wc {
		workCounts[r.ChallengeID] = r.N
	}

	details := make([]model.ChallengeDetail, 0, len(rows))
	for _, c := range rows {
		details = append(details, model.ChallengeDetail{
			Challenge:           c,
			User:                ownerByID[c.UserID],
			ParticipantCount:    participantCounts[c.ID],
			WorkCount:           workCounts[c.ID],
			IsEffectivelyClosed: c.EffectivelyClosed(now),
		})
	}
	return details, nil
}

func (cr *ChallengeRepo) UpdateChallenge(id int64, updates map[string]any) (*model.Challenge, error) {
	if err := cr.db.Model(&model.Challenge{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return cr.GetChallengeByID(id)
}

// DeleteChallenge removes the row, keeping participant rows around in
// CHALLENGE_DELETED state so affected users may re-request elsewhere.
func (cr *ChallengeRepo) DeleteChallenge(id int64) error {
	return cr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ChallengeParticipant{}).
			Where("challenge_id = ?", id).
			Update("participant_status", model.ParticipantChallengeDeleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Challenge{}, id).Error
	})
}

// AdminDeleteChallenge persists the reason and timestamp immediately
// before removal so the audit trail survives the hard delete in logs
// and binlogs.
func (cr *ChallengeRepo) AdminDeleteChallenge(id int64, reason string, now time.Time) error {
	return cr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Challenge{}).
			Where("id = ?", id).
			Updates(map[string]any{"admin_reason": reason, "deleted_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ChallengeParticipant{}).
			Where("challenge_id = ?", id).
			Update("participant_status", model.ParticipantChallengeDeleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Challenge{}, id).Error
	})
}

func (cr *ChallengeRepo) CreateRequest(request *model.ChallengeRequest) error {
	return cr.db.Create(request).Error
}

func (cr *ChallengeRepo) GetRequestByID(id int64) (*model.ChallengeRequest, error) {
	var r model.ChallengeRequest
	err := cr.db.First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (cr *ChallengeRepo) GetRequestDetail(id int64) (*model.ChallengeRequestDetail, error) {
	r, err := cr.GetRequestByID(id)
	if err != nil || r == nil {
		return nil, err
	}
	details, err := cr.decorateRequests([]model.ChallengeRequest{*r})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (cr *ChallengeRepo) ListRequests(userID *int64, status model.RequestStatus) ([]model.ChallengeRequestDetail, error) {
	tx := cr.db.Model(&model.ChallengeRequest{})
	if userID != nil {
		tx = tx.Where("user_id = ?", *userID)
	}
	if status != "" {
		tx = tx.Where("request_status = ?", status)
	}

	var rows []model.ChallengeRequest
	if err := tx.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return cr.decorateRequests(rows)
}

func (cr *ChallengeRepo) decorateRequests(rows []model.ChallengeRequest) ([]model.ChallengeRequestDetail, error) {
	if len(rows) == 0 {
		return []model.ChallengeRequestDetail{}, nil
	}

	userIDs := make([]int64, 0, len(rows))
	requestIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		userIDs = append(userIDs, r.UserID)
		requestIDs = append(requestIDs, r.ID)
	}

	var owners []model.UserSummary
	if err := cr.db.Model(&model.User{}).
		Select("id, nickname, profile_image").
		Where("id IN ?", userIDs).
		Find(&owners).Error; err != nil {
		return nil, err
	}
	ownerByID := make(map[int64]model.UserSummary, len(owners))
	for _, o := range owners {
		ownerByID[o.ID] = o
	}

	type linkRow struct {
		ID                 int64
		ChallengeRequestID int64
	}
	var links []linkRow
	if err := cr.db.Model(&model.Challenge{}).
		Select("id, challenge_request_id").
		Where("challenge_request_id IN ?", requestIDs).
		Find(&links).Error; err != nil {
		return nil, err
	}
	challengeByRequest := make(map[int64]int64, len(links))
	for _, l := range links {
		challengeByRequest[l.ChallengeRequestID] = l.ID
	}

	details := make([]model.ChallengeRequestDetail, 0, len(rows))
	for _, r := range rows {
		d := model.ChallengeRequestDetail{
			ChallengeRequest: r,
			User:             ownerByID[r.UserID],
		}
		if cid, ok := challengeByRequest[r.ID]; ok {
			d.ChallengeID = &cid
		}
		details = append(details, d)
	}
	return details, nil
}

func (cr *ChallengeRepo) UpdateRequest(id int64, updates map[string]any) (*model.ChallengeRequest, error) {
	if err := cr.db.Model(&model.ChallengeRequest{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return cr.GetRequestByID(id)
}

func (cr *ChallengeRepo) CancelRequest(id int64) (*model.ChallengeRequest, error) {
	return cr.UpdateRequest(id, map[string]any{"request_status": model.RequestCancelled})
}

func (cr *ChallengeRepo) RejectRequest(id int64, reason string, now time.Time) (*model.ChallengeRequest, error) {
	return cr.UpdateRequest(id, map[string]any{
		"request_status": model.RequestRejected,
		"admin_reason":   reason,
		"processed_at":   now,
	})
}

// ApproveRequest marks the request consumed and creates the challenge
// copying its fields, atomically.
func (cr *ChallengeRepo) ApproveRequest(request *model.ChallengeRequest, reason string, now time.Time) (*model.Challenge, error) {
	challenge := challengeFromRequest(request)
	err := cr.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"request_status": model.RequestApproved,
			"processed_at":   now,
		}
		if reason != "" {
			updates["admin_reason"] = reason
		}
		if err := tx.Model(&model.ChallengeRequest{}).Where("id = ?", request.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

func (cr *ChallengeRepo) ListApprovedWithoutChallenge() ([]model.ChallengeRequest, error) {
	var rows []model.ChallengeRequest
	err := cr.db.Where("request_status = ?", model.RequestApproved).
		Where("id NOT IN (?)", cr.db.Model(&model.Challenge{}).
			Select("challenge_request_id").
			Where("challenge_request_id IS NOT NULL")).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// BackfillChallenge recreates the challenge for an approved request,
// re-checking inside the transaction that none exists yet so the sweep
// is safe to re-run.
func (cr *ChallengeRepo) BackfillChallenge(request *model.ChallengeRequest) (*model.Challenge, bool, error) {
	challenge := challengeFromRequest(request)
	created := false
	err := cr.db.Transaction(func(tx *gorm.DB) error {
		var r model.ChallengeRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, request.ID).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.Challenge{}).
			Where("challenge_request_id = ?", request.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !created {
		return nil, false, nil
	}
	return challenge, true, nil
}

func challengeFromRequest(request *model.ChallengeRequest) *model.Challenge {
	requestID := request.ID
	return &model.Challenge{
		UserID:             request.UserID,
		ChallengeRequestID: &requestID,
		Title:              request.Title,
		SourceURL:          request.SourceURL,
		Field:              request.Field,
		DocType:            request.DocType,
		DeadlineAt:         request.DeadlineAt,
		MaxParticipants:    request.MaxParticipants,
		Content:            request.Content,
		ChallengeStatus:    model.ChallengeInProgress,
	}
}
