package service

import (
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
)

// DefaultFeedbackLimit is the fixed page size of the feedback list.
const DefaultFeedbackLimit = 3

type FeedbackService struct {
	feedbackRepo repo.IFeedbackRepository
	workRepo     repo.IWorkRepository
}

func NewFeedbackService(feedbackRepo repo.IFeedbackRepository, workRepo repo.IWorkRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, workRepo: workRepo}
}

func (fs *FeedbackService) Create(userID, workID int64, req *model.CreateFeedbackReq) (*model.Feedback, error) {
	if req.Content == "" {
		return nil, errs.New(errs.BadRequest, "content is required")
	}
	if err := fs.requireWork(workID); err != nil {
		return nil, err
	}

	feedback := &model.Feedback{
		UserID:  userID,
		WorkID:  workID,
		Content: req.Content,
	}
	if err := fs.feedbackRepo.Create(feedback); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to create feedback", err)
	}
	return feedback, nil
}

func (fs *FeedbackService) List(workID int64, page, limit int) ([]model.Feedback, int64, int, int, error) {
	if err := fs.requireWork(workID); err != nil {
		return nil, 0, 0, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFeedbackLimit
	}

	rows, total, err := fs.feedbackRepo.ListByWork(workID, page, limit)
	if err != nil {
		return nil, 0, 0, 0, errs.Wrap(errs.Internal, "failed to list feedback", err)
	}
	return rows, total, page, limit, nil
}

func (fs *FeedbackService) Update(actorUserID, id int64, req *model.UpdateFeedbackReq) (*model.Feedback, error) {
	if req.Content == nil || *req.Content == "" {
		return nil, errs.New(errs.BadRequest, "content is required")
	}

	feedback, err := fs.load(id)
	if err != nil {
		return nil, err
	}
	if feedback.UserID != actorUserID {
		return nil, errs.New(errs.Forbidden, "not your feedback")
	}

	updated, err := fs.feedbackRepo.Update(id, *req.Content)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update feedback", err)
	}
	return updated, nil
}

func (fs *FeedbackService) Delete(actorUserID, id int64) error {
	feedback, err := fs.load(id)
	if err != nil {
		return err
	}
	if feedback.UserID != actorUserID {
		return errs.New(errs.Forbidden, "not your feedback")
	}
	if err := fs.feedbackRepo.Delete(id); err != nil {
		return errs.Wrap(errs.Internal, "failed to delete feedback", err)
	}
	return nil
}

func (fs *FeedbackService) requireWork(workID int64) error {
	work, err := fs.workRepo.GetByID(workID)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to load work", err)
	}
	if work == nil {
		return errs.New(errs.NotFound, "work not found")
	}
	return nil
}

func (fs *FeedbackService) load(id int64) (*model.Feedback, error) {
	feedback, err := fs.feedbackRepo.GetByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load feedback", err)
	}
	if feedback == nil {
		return nil, errs.New(errs.NotFound, "feedback not found")
	}
	return feedback, nil
}
