package service

import (
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/log"
)

type WorkService struct {
	workRepo        repo.IWorkRepository
	challengeRepo   repo.IChallengeRepository
	participantRepo repo.IParticipantRepository
	now             func() time.Time
}

func NewWorkService(workRepo repo.IWorkRepository,
	challengeRepo repo.IChallengeRepository,
	participantRepo repo.IParticipantRepository) *WorkService {
	return &WorkService{
		workRepo:        workRepo,
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		now:             time.Now,
	}
}

// Create starts a draft. Drafting is free: no membership or capacity
// precondition, only that the challenge exists.
func (ws *WorkService) Create(userID int64, req *model.CreateWorkReq) (*model.Work, error) {
	if req.Title == "" || req.Content == "" {
		return nil, errs.New(errs.BadRequest, "title and content are required")
	}
	challenge, err := ws.challengeRepo.GetChallengeByID(req.ChallengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}

	work := &model.Work{
		UserID:      userID,
		ChallengeID: req.ChallengeID,
		Title:       req.Title,
		Content:     req.Content,
		OriginalURL: req.OriginalURL,
		WorkStatus:  model.WorkDraft,
	}
	if err := ws.workRepo.Create(work); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to create work", err)
	}
	return work, nil
}

func (ws *WorkService) Get(id int64) (*model.Work, error) {
	work, err := ws.workRepo.GetByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load work", err)
	}
	if work == nil {
		return nil, errs.New(errs.NotFound, "work not found")
	}
	return work, nil
}

func (ws *WorkService) List(q model.ListWorksQuery) ([]model.Work, error) {
	if q.WorkStatus != "" && !model.WorkStatus(q.WorkStatus).Valid() {
		return nil, errs.New(errs.BadRequest, "invalid workStatus filter")
	}
	works, err := ws.workRepo.List(q)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list works", err)
	}
	return works, nil
}

// Update patches an owned work. Setting workStatus to done stamps
// submittedAt and auto-approves the author's participation; that side
// effect is best-effort and never fails the update itself.
func (ws *WorkService) Update(actorUserID, id int64, req *model.UpdateWorkReq) (*model.Work, error) {
	if req.Empty() {
		return nil, errs.New(errs.BadRequest, "no fields to update")
	}

	work, err := ws.workRepo.GetByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load work", err)
	}
	if work == nil {
		return nil, errs.New(errs.NotFound, "work not found")
	}
	if work.UserID != actorUserID {
		return nil, errs.New(errs.Forbidden, "not your work")
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errs.New(errs.BadRequest, "title cannot be empty")
		}
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, errs.New(errs.BadRequest, "content cannot be empty")
		}
		updates["content"] = *req.Content
	}
	if req.OriginalURL != nil {
		updates["original_url"] = *req.OriginalURL
	}

	markedDone := false
	if req.WorkStatus != nil {
		status := model.WorkStatus(*req.WorkStatus)
		if !status.Valid() {
			return nil, errs.New(errs.BadRequest, "workStatus must be draft or done")
		}
		updates["work_status"] = status
		switch status {
		case model.WorkDone:
			markedDone = true
			if work.SubmittedAt == nil {
				updates["submitted_at"] = ws.now()
			}
		case model.WorkDraft:
			updates["submitted_at"] = nil
		}
	}

	updated, err := ws.workRepo.Update(id, updates)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update work", err)
	}

	if markedDone {
		ws.autoApprove(work.UserID, work.ChallengeID, id)
	}
	return updated, nil
}

func (ws *WorkService) Delete(actorUserID, id int64) error {
	work, err := ws.workRepo.GetByID(id)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to load work", err)
	}
	if work == nil {
		return errs.New(errs.NotFound, "work not found")
	}
	if work.UserID != actorUserID {
		return errs.New(errs.Forbidden, "not your work")
	}
	if err := ws.workRepo.Delete(id); err != nil {
		return errs.Wrap(errs.Internal, "failed to delete work", err)
	}
	return nil
}

// autoApprove promotes the author to an approved participant when a
// seat remains; when the challenge is full the row stays PENDING and a
// warning is logged. Errors are swallowed so the submission survives.
func (ws *WorkService) autoApprove(userID, challengeID, workID int64) {
	_, approved, err := ws.participantRepo.AutoApprove(userID, challengeID)
	if err != nil {
		log.Errorw("failed to auto-approve participation on submission",
			"userId", userID, "challengeId", challengeID, "workId", workID, "err", err)
		return
	}
	if !approved {
		log.Warnw("submission accepted but challenge is full, participation left pending",
			"userId", userID, "challengeId", challengeID, "workId", workID)
	}
}
