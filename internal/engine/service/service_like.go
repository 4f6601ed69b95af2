package service

import (
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
)

type LikeService struct {
	likeRepo repo.ILikeRepository
	workRepo repo.IWorkRepository
}

func NewLikeService(likeRepo repo.ILikeRepository, workRepo repo.IWorkRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, workRepo: workRepo}
}

// Add is idempotent: liking twice leaves a single row. The count is
// computed in the same transaction as the insert so it is never stale.
func (ls *LikeService) Add(userID, workID int64) (*model.LikeCountResp, error) {
	if err := ls.requireWork(workID); err != nil {
		return nil, err
	}
	count, err := ls.likeRepo.Add(userID, workID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to add like", err)
	}
	return &model.LikeCountResp{Count: count}, nil
}

// Remove is idempotent: unliking a work never liked is a no-op.
func (ls *LikeService) Remove(userID, workID int64) (*model.LikeCountResp, error) {
	if err := ls.requireWork(workID); err != nil {
		return nil, err
	}
	count, err := ls.likeRepo.Remove(userID, workID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to remove like", err)
	}
	return &model.LikeCountResp{Count: count}, nil
}

// Count reports the total; when a viewer is known the response also
// carries whether that viewer has liked the work.
func (ls *LikeService) Count(workID int64, viewerID *int64) (*model.LikeCountResp, error) {
	if err := ls.requireWork(workID); err != nil {
		return nil, err
	}
	count, err := ls.likeRepo.Count(workID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to count likes", err)
	}

	resp := &model.LikeCountResp{Count: count}
	if viewerID != nil {
		liked, err := ls.likeRepo.Exists(*viewerID, workID)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to check like state", err)
		}
		resp.IsLiked = &liked
	}
	return resp, nil
}

func (ls *LikeService) requireWork(workID int64) error {
	work, err := ls.workRepo.GetByID(workID)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to load work", err)
	}
	if work == nil {
		return errs.New(errs.NotFound, "work not found")
	}
	return nil
}
