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
	"errors"
	"fmt"
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/log"
	"gorm.io/gorm"
)

type ParticipantService struct {
	participantRepo  repo.IParticipantRepository
	challengeRepo    repo.IChallengeRepository
	notificationRepo repo.INotificationRepository
	now              func() time.Time
}

func NewParticipantService(participantRepo repo.IParticipantRepository,
	challengeRepo repo.IChallengeRepository,
	notificationRepo repo.INotificationRepository) *ParticipantService {
	return &ParticipantService{
		participantRepo:  participantRepo,
		challengeRepo:    challengeRepo,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// Request joins a user to a challenge. The capacity check deliberately
// runs before the duplicate check: "full" is the scarcer signal and the
// one worth surfacing first.
func (ps *ParticipantService) Request(userID, challengeID int64) (*model.ChallengeParticipant, error) {
	challenge, err := ps.challengeRepo.GetChallengeByID(challengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}
	if challenge.EffectivelyClosed(ps.now()) {
		return nil, errs.New(errs.BadRequest, "challenge is closed")
	}

	approved, err := ps.participantRepo.CountApproved(challengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to count participants", err)
	}
	if approved >= int64(challenge.MaxParticipants) {
		return nil, errs.New(errs.BadRequest, "max participants reached")
	}

	existing, err := ps.participantRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to look up participation", err)
	}
	if existing != nil {
		switch existing.ParticipantStatus {
		case model.ParticipantApproved:
			return nil, errs.New(errs.BadRequest, "already approved for this challenge")
		case model.ParticipantPending:
			return nil, errs.New(errs.BadRequest, "participation already requested")
		default:
			// REJECTED and CHALLENGE_DELETED may try again.
			reset, err := ps.participantRepo.ResetToPending(existing.ID)
			if err != nil {
				return nil, errs.Wrap(errs.Internal, "failed to reset participation", err)
			}
			return reset, nil
		}
	}

	created, err := ps.participantRepo.CreatePending(userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.Conflict, "participation already requested")
		}
		return nil, errs.Wrap(errs.Internal, "failed to create participation", err)
	}
	return created, nil
}

// SetStatus is the owner or admin decision on a participant. Approval
// re-checks capacity inside a locked transaction.
func (ps *ParticipantService) SetStatus(actorUserID int64, actorIsAdmin bool,
	challengeID, participantID int64, req *model.UpdateParticipantStatusReq) (*model.ChallengeParticipant, error) {

	status := model.ParticipantStatus(req.Status)
	if !status.Valid() {
		return nil, errs.New(errs.BadRequest, "invalid participant status")
	}

	challenge, participant, err := ps.loadPair(challengeID, participantID)
	if err != nil {
		return nil, err
	}
	if challenge.UserID != actorUserID && !actorIsAdmin {
		return nil, errs.New(errs.Forbidden, "only the challenge owner or an admin can change participant status")
	}

	var updated *model.ChallengeParticipant
	if status == model.ParticipantApproved {
		updated, err = ps.participantRepo.ApproveWithCapacity(participantID, challengeID)
		if errors.Is(err, repo.ErrChallengeFull) {
			return nil, errs.New(errs.BadRequest, "max participants reached")
		}
	} else {
		updated, err = ps.participantRepo.UpdateStatus(participantID, status)
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update participant status", err)
	}

	ps.notifyDecision(participant.UserID, challenge, status)
	return updated, nil
}

// Withdraw deletes the actor's own participation row. Approved
// participants cannot leave through this path.
func (ps *ParticipantService) Withdraw(actorUserID, challengeID, participantID int64) error {
	_, participant, err := ps.loadPair(challengeID, participantID)
	if err != nil {
		return err
	}
	if participant.UserID != actorUserID {
		return errs.New(errs.Forbidden, "only the participant can withdraw")
	}
	if participant.ParticipantStatus == model.ParticipantApproved {
		return errs.New(errs.BadRequest, "approved participants cannot withdraw")
	}
	if err := ps.participantRepo.Delete(participantID); err != nil {
		return errs.Wrap(errs.Internal, "failed to withdraw participation", err)
	}
	return nil
}

func (ps *ParticipantService) List(actorUserID int64, actorIsAdmin bool, challengeID int64) ([]model.ParticipantDetail, error) {
	challenge, err := ps.challengeRepo.GetChallengeByID(challengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errs.New(errs.NotFound, "challenge not found")
	}
	if challenge.UserID != actorUserID && !actorIsAdmin {
		return nil, errs.New(errs.Forbidden, "only the challenge owner or an admin can list participants")
	}

	details, err := ps.participantRepo.ListByChallenge(challengeID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list participants", err)
	}
	return details, nil
}

func (ps *ParticipantService) loadPair(challengeID, participantID int64) (*model.Challenge, *model.ChallengeParticipant, error) {
	challenge, err := ps.challengeRepo.GetChallengeByID(challengeID)
	if err != nil {
		return nil, nil, errs.Wrap(errs.Internal, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, nil, errs.New(errs.NotFound, "challenge not found")
	}

	participant, err := ps.participantRepo.GetByID(participantID)
	if err != nil {
		return nil, nil, errs.Wrap(errs.Internal, "failed to load participant", err)
	}
	if participant == nil || participant.ChallengeID != challengeID {
		return nil, nil, errs.New(errs.NotFound, "participant not found")
	}
	return challenge, participant, nil
}

// notifyDecision writes the feed entry best-effort; a failed insert
// must not fail the decision itself.
func (ps *ParticipantService) notifyDecision(userID int64, challenge *model.Challenge, status model.ParticipantStatus) {
	var typ, message string
	switch status {
	case model.ParticipantApproved:
		typ = model.NotificationParticipantApproved
		message = fmt.Sprintf("Your participation in %q was approved.", challenge.Title)
	case model.ParticipantRejected:
		typ = model.NotificationParticipantRejected
		message = fmt.Sprintf("Your participation in %q was rejected.", challenge.Title)
	default:
		return
	}

	challengeID := challenge.ID
	err := ps.notificationRepo.Create(&model.Notification{
		UserID:      userID,
		Type:        typ,
		Message:     message,
		ChallengeID: &challengeID,
	})
	if err != nil {
		log.Errorw("failed to write participation notification",
			"userId", userID, "challengeId", challenge.ID, "err", err)
	}
}
