// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/log"
)

type ChallengeService struct {
	challengeRepo repo.IChallengeRepository
	now           func() time.Time
}

func NewChallengeService(challengeRepo repo.IChallengeRepository) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo, now: time.Now}
}

func (cs *ChallengeService) Create(userID int64, req *model.CreateChallengeReq) (*model.Challenge, error) {
	deadline, err := validateChallengeFields(req.Title, req.SourceURL, req.Field, req.DocType,
		req.DeadlineAt, req.MaxParticipants, req.Content)
	if err != nil {
		return nil, err
	}

	challenge := &model.Challenge{
		UserID:             userID,
		ChallengeRequestID: req.ChallengeRequestID,
		Title:              req.Title,
		SourceURL:          req.SourceURL,
		Field:              req.Field,
		DocType:            model.DocType(req.DocType),
		DeadlineAt:         deadline,
		MaxParticipants:    req.MaxParticipants,
		Content:            req.Content,
		ChallengeStatus:    model.ChallengeInProgress,
	}
	if err := cs.challengeRepo.CreateChallenge(challenge); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to create challenge", err)
	}
	return challenge, nil
}

func (cs *ChallengeService) Get(id int64) (*model.ChallengeDetail, error) {
	detail, err := cs.challengeRepo.GetChallengeDetail(id, cs.now())
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if detail == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}
	return detail, nil
}

func (cs *ChallengeService) List(q model.ListChallengesQuery) ([]model.ChallengeDetail, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.ChallengeStatus != "" && !model.ChallengeStatus(q.ChallengeStatus).Valid() {
		return nil, 0, errs.New(errs.BadRequest, "invalid challengeStatus filter")
	}
	if q.DocType != "" && !model.DocType(q.DocType).Valid() {
		return nil, 0, errs.New(errs.BadRequest, "invalid docType filter")
	}

	details, total, err := cs.challengeRepo.ListChallenges(q, cs.now())
	if err != nil {
		return nil, 0, errs.Wrap(errs.Internal, "failed to list challenges", err)
	}
	return details, total, nil
}

// Update patches a challenge. Only the owner may touch it, and a
// challenge that is closed or past its deadline is frozen.
func (cs *ChallengeService) Update(userID, id int64, req *model.UpdateChallengeReq) (*model.Challenge, error) {
	if req.Empty() {
		return nil, errs.New(errs.BadRequest, "no fields to update")
	}

	challenge, err := cs.challengeRepo.GetChallengeByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}
	if challenge.UserID != userID {
		return nil, errs.New(errs.Forbidden, "only the owner can update this challenge")
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errs.New(errs.BadRequest, "title cannot be empty")
		}
		updates["title"] = *req.Title
	}
	if req.SourceURL != nil {
		if !validURL(*req.SourceURL) {
			return nil, errs.New(errs.BadRequest, "sourceUrl must be a valid http(s) url")
		}
		updates["source_url"] = *req.SourceURL
	}
	if req.Field != nil {
		if *req.Field == "" {
			return nil, errs.New(errs.BadRequest, "field cannot be empty")
		}
		updates["field"] = *req.Field
	}
	if req.DocType != nil {
		if !model.DocType(*req.DocType).Valid() {
			return nil, errs.New(errs.BadRequest, "invalid docType")
		}
		updates["doc_type"] = *req.DocType
	}
	if req.DeadlineAt != nil {
		deadline, err := parseDeadline(*req.DeadlineAt)
		if err != nil {
			return nil, err
		}
		updates["deadline_at"] = deadline
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return nil, errs.New(errs.BadRequest, "maxParticipants must be at least 1")
		}
		updates["max_participants"] = *req.MaxParticipants
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, errs.New(errs.BadRequest, "content cannot be empty")
		}
		updates["content"] = *req.Content
	}
	if req.ChallengeStatus != nil {
		if !model.ChallengeStatus(*req.ChallengeStatus).Valid() {
			return nil, errs.New(errs.BadRequest, "invalid challengeStatus")
		}
		updates["challenge_status"] = *req.ChallengeStatus
	}

	// Closing is allowed on a frozen challenge; everything else is not.
	onlyClosing := len(updates) == 1 && req.ChallengeStatus != nil
	if challenge.EffectivelyClosed(cs.now()) && !onlyClosing {
		return nil, errs.New(errs.BadRequest, "challenge is closed")
	}

	updated, err := cs.challengeRepo.UpdateChallenge(id, updates)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update challenge", err)
	}
	return updated, nil
}

func (cs *ChallengeService) Delete(userID, id int64) error {
	challenge, err := cs.challengeRepo.GetChallengeByID(id)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return errs.New(errs.NotFound, "challenge not found")
	}
	if challenge.UserID != userID {
		return errs.New(errs.Forbidden, "only the owner can delete this challenge")
	}
	if err := cs.challengeRepo.DeleteChallenge(id); err != nil {
		return errs.Wrap(errs.Internal, "failed to delete challenge", err)
	}
	return nil
}

// AdminDelete removes any challenge with a mandatory reason recorded
// for the audit trail.
func (cs *ChallengeService) AdminDelete(id int64, req *model.AdminReasonReq) error {
	if strings.TrimSpace(req.AdminReason) == "" {
		return errs.New(errs.BadRequest, "adminReason is required")
	}
	challenge, err := cs.challengeRepo.GetChallengeByID(id)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return errs.New(errs.NotFound, "challenge not found")
	}
	if err := cs.challengeRepo.AdminDeleteChallenge(id, req.AdminReason, cs.now()); err != nil {
		return errs.Wrap(errs.Internal, "failed to delete challenge", err)
	}
	log.Infow("challenge removed by admin", "challengeId", id)
	return nil
}

// AdminReject forces a challenge CLOSED with a mandatory reason.
func (cs *ChallengeService) AdminReject(id int64, req *model.AdminReasonReq) (*model.Challenge, error) {
	if strings.TrimSpace(req.AdminReason) == "" {
		return nil, errs.New(errs.BadRequest, "adminReason is required")
	}
	challenge, err := cs.challengeRepo.GetChallengeByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}

	updated, err := cs.challengeRepo.UpdateChallenge(id, map[string]any{
		"challenge_status": model.ChallengeClosed,
		"admin_reason":     req.AdminReason,
	})
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to reject challenge", err)
	}
	return updated, nil
}

func (cs *ChallengeService) CreateRequest(userID int64, req *model.CreateChallengeRequestReq) (*model.ChallengeRequest, error) {
	deadline, err := validateChallengeFields(req.Title, req.SourceURL, req.Field, req.DocType,
		req.DeadlineAt, req.MaxParticipants, req.Content)
	if err != nil {
		return nil, err
	}

	request := &model.ChallengeRequest{
		UserID:          userID,
		Title:           req.Title,
		SourceURL:       req.SourceURL,
		Field:           req.Field,
		DocType:         model.DocType(req.DocType),
		DeadlineAt:      deadline,
		MaxParticipants: req.MaxParticipants,
		Content:         req.Content,
		RequestStatus:   model.RequestPending,
	}
	if err := cs.challengeRepo.CreateRequest(request); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to create challenge request", err)
	}
	return request, nil
}

func (cs *ChallengeService) GetRequest(userID int64, isAdmin bool, id int64) (*model.ChallengeRequestDetail, error) {
	detail, err := cs.challengeRepo.GetRequestDetail(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge request", err)
	}
	if detail == nil {
		return nil, errs.New(errs.NotFound, "challenge request not found")
	}
	if !isAdmin && detail.UserID != userID {
		return nil, errs.New(errs.Forbidden, "not your challenge request")
	}
	return detail, nil
}

// ListRequests scopes regular users to their own rows; admins see all.
func (cs *ChallengeService) ListRequests(userID int64, isAdmin bool, status string) ([]model.ChallengeRequestDetail, error) {
	if status != "" && !model.RequestStatus(status).Valid() {
		return nil, errs.New(errs.BadRequest, "invalid status filter")
	}
	var scope *int64
	if !isAdmin {
		scope = &userID
	}
	details, err := cs.challengeRepo.ListRequests(scope, model.RequestStatus(status))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list challenge requests", err)
	}
	return details, nil
}

// UpdateRequest patches an owned request while it is still pending.
func (cs *ChallengeService) UpdateRequest(userID, id int64, req *model.UpdateChallengeRequestReq) (*model.ChallengeRequest, error) {
	if req.Empty() {
		return nil, errs.New(errs.BadRequest, "no fields to update")
	}

	request, err := cs.challengeRepo.GetRequestByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge request", err)
	}
	if request == nil {
		return nil, errs.New(errs.NotFound, "challenge request not found")
	}
	if request.UserID != userID {
		return nil, errs.New(errs.Forbidden, "not your challenge request")
	}
	if request.RequestStatus != model.RequestPending {
		return nil, errs.New(errs.BadRequest, "only pending requests can be updated")
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errs.New(errs.BadRequest, "title cannot be empty")
		}
		updates["title"] = *req.Title
	}
	if req.SourceURL != nil {
		if !validURL(*req.SourceURL) {
			return nil, errs.New(errs.BadRequest, "sourceUrl must be a valid http(s) url")
		}
		updates["source_url"] = *req.SourceURL
	}
	if req.Field != nil {
		if *req.Field == "" {
			return nil, errs.New(errs.BadRequest, "field cannot be empty")
		}
		updates["field"] = *req.Field
	}
	if req.DocType != nil {
		if !model.DocType(*req.DocType).Valid() {
			return nil, errs.New(errs.BadRequest, "invalid docType")
		}
		updates["doc_type"] = *req.DocType
	}
	if req.DeadlineAt != nil {
		deadline, err := parseDeadline(*req.DeadlineAt)
		if err != nil {
			return nil, err
		}
		updates["deadline_at"] = deadline
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return nil, errs.New(errs.BadRequest, "maxParticipants must be at least 1")
		}
		updates["max_participants"] = *req.MaxParticipants
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, errs.New(errs.BadRequest, "content cannot be empty")
		}
		updates["content"] = *req.Content
	}

	updated, err := cs.challengeRepo.UpdateRequest(id, updates)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update challenge request", err)
	}
	return updated, nil
}

// CancelRequest is the owner withdrawing a pending request. The row is
// kept in CANCELLED state rather than deleted.
func (cs *ChallengeService) CancelRequest(userID, id int64) (*model.ChallengeRequest, error) {
	request, err := cs.challengeRepo.GetRequestByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge request", err)
	}
	if request == nil {
		return nil, errs.New(errs.NotFound, "challenge request not found")
	}
	if request.UserID != userID {
		return nil, errs.New(errs.Forbidden, "not your challenge request")
	}
	if request.RequestStatus != model.RequestPending {
		return nil, errs.New(errs.BadRequest, "only pending requests can be cancelled")
	}

	cancelled, err := cs.challengeRepo.CancelRequest(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to cancel challenge request", err)
	}
	return cancelled, nil
}

// ProcessRequest is the admin decision. Approval atomically marks the
// request consumed and creates the linked challenge; rejection demands
// a reason.
func (cs *ChallengeService) ProcessRequest(id int64, req *model.ProcessChallengeRequestReq) (*model.ProcessResult, error) {
	status := model.RequestStatus(req.Status)
	if status != model.RequestApproved && status != model.RequestRejected {
		return nil, errs.New(errs.BadRequest, "status must be APPROVED or REJECTED")
	}

	request, err := cs.challengeRepo.GetRequestByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge request", err)
	}
	if request == nil {
		return nil, errs.New(errs.NotFound, "challenge request not found")
	}
	if request.RequestStatus != model.RequestPending {
		return nil, errs.New(errs.BadRequest,
			fmt.Sprintf("request has already been processed (status %s)", request.RequestStatus))
	}

	if status == model.RequestRejected {
		if strings.TrimSpace(req.AdminReason) == "" {
			return nil, errs.New(errs.BadRequest, "adminReason is required when rejecting")
		}
		rejected, err := cs.challengeRepo.RejectRequest(id, req.AdminReason, cs.now())
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to reject challenge request", err)
		}
		return &model.ProcessResult{Approved: false, ChallengeRequest: rejected}, nil
	}

	challenge, err := cs.challengeRepo.ApproveRequest(request, req.AdminReason, cs.now())
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to approve challenge request", err)
	}
	return &model.ProcessResult{Approved: true, Challenge: challenge}, nil
}

// MigrateApprovedRequests backfills challenge rows for approved
// requests that lost theirs. Safe to run repeatedly.
func (cs *ChallengeService) MigrateApprovedRequests() (*model.MigrateResult, error) {
	orphans, err := cs.challengeRepo.ListApprovedWithoutChallenge()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to scan approved requests", err)
	}

	result := &model.MigrateResult{CreatedID: []int64{}}
	for i := range orphans {
		challenge, created, err := cs.challengeRepo.BackfillChallenge(&orphans[i])
		if err != nil {
			log.Errorf("failed to backfill challenge for request %d: %v", orphans[i].ID, err)
			return nil, errs.Wrap(errs.Internal, "failed to backfill challenge", err)
		}
		if created {
			result.Migrated++
			result.CreatedID = append(result.CreatedID, challenge.ID)
		} else {
			result.Skipped++
		}
	}
	log.Infow("approved request migration finished", "migrated", result.Migrated, "skipped", result.Skipped)
	return result, nil
}

func validateChallengeFields(title, sourceURL, field, docType, deadlineAt string, maxParticipants int, content string) (time.Time, error) {
	if title == "" || sourceURL == "" || field == "" || docType == "" || deadlineAt == "" || content == "" {
		return time.Time{}, errs.New(errs.BadRequest,
			"title, sourceUrl, field, docType, deadlineAt and content are required")
	}
	if !validURL(sourceURL) {
		return time.Time{}, errs.New(errs.BadRequest, "sourceUrl must be a valid http(s) url")
	}
	if !model.DocType(docType).Valid() {
		return time.Time{}, errs.New(errs.BadRequest, "invalid docType")
	}
	if maxParticipants < 1 {
		return time.Time{}, errs.New(errs.BadRequest, "maxParticipants must be at least 1")
	}
	return parseDeadline(deadlineAt)
}

func parseDeadline(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errs.New(errs.BadRequest, "deadlineAt must be an RFC 3339 timestamp")
	}
	return t, nil
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
