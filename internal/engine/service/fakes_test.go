package service

import (
	"context"
	"sort"
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the persistence contracts
// closely enough for the state-machine and invariant tests: unique
// constraints surface gorm.ErrDuplicatedKey, absent rows are (nil, nil),
// and the capacity-gated transitions count APPROVED rows the same way
// the real transactions do.

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fakeUserRepo struct {
	nextID   int64
	users    map[int64]*model.User
	admins   map[int64]*model.Admin
	accounts []*model.OAuthAccount
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		users:  map[int64]*model.User{},
		admins: map[int64]*model.Admin{},
	}
}

var _ repo.IUserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) CreateUserWithOAuth(user *model.User, account *model.OAuthAccount) error {
	if err := f.CreateUser(user); err != nil {
		return err
	}
	account.UserID = user.ID
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindUserByID(id int64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FetchUserSummary(_ context.Context, id int64) (*model.UserSummary, error) {
	u := f.users[id]
	if u == nil {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	s := u.Summary()
	return &s, nil
}

func (f *fakeUserRepo) IncrementTokenVersion(userID int64) (int, error) {
	u := f.users[userID]
	if u == nil {
		return 0, errs.New(errs.NotFound, "user not found")
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (f *fakeUserRepo) TokenVersion(_ context.Context, typ string, id int64) (int, error) {
	if typ == "admin" {
		if f.admins[id] == nil {
			return 0, errs.New(errs.NotFound, "admin not found")
		}
		return 0, nil
	}
	u := f.users[id]
	if u == nil {
		return 0, errs.New(errs.NotFound, "user not found")
	}
	return u.TokenVersion, nil
}

func (f *fakeUserRepo) FindOAuthAccount(provider, providerID string) (*model.OAuthAccount, error) {
	for _, a := range f.accounts {
		if a.Provider == provider && a.ProviderID == providerID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateOAuthAccount(account *model.OAuthAccount) error {
	for _, a := range f.accounts {
		if a.Provider == account.Provider && a.ProviderID == account.ProviderID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeUserRepo) CreateAdmin(admin *model.Admin) error {
	for _, a := range f.admins {
		if a.Email == admin.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	admin.ID = f.nextID
	f.nextID++
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeUserRepo) FindAdminByEmail(email string) (*model.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAdminByID(id int64) (*model.Admin, error) {
	return f.admins[id], nil
}

type fakeChallengeRepo struct {
	nextID     int64
	challenges map[int64]*model.Challenge
	requests   map[int64]*model.ChallengeRequest
	users      *fakeUserRepo
	parts      *fakeParticipantRepo
}

func newFakeChallengeRepo(users *fakeUserRepo) *fakeChallengeRepo {
	return &fakeChallengeRepo{
		nextID:     1,
		challenges: map[int64]*model.Challenge{},
		requests:   map[int64]*model.ChallengeRequest{},
		users:      users,
	}
}

var _ repo.IChallengeRepository = (*fakeChallengeRepo)(nil)

func (f *fakeChallengeRepo) CreateChallenge(challenge *model.Challenge) error {
	challenge.ID = f.nextID
	f.nextID++
	challenge.CreatedAt = time.Now()
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) GetChallengeByID(id int64) (*model.Challenge, error) {
	c := f.challenges[id]
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChallengeRepo) GetChallengeDetail(id int64, now time.Time) (*model.ChallengeDetail, error) {
	c := f.challenges[id]
	if c == nil {
		return nil, nil
	}
	return f.detail(c, now), nil
}

func (f *fakeChallengeRepo) detail(c *model.Challenge, now time.Time) *model.ChallengeDetail {
	d := &model.ChallengeDetail{
		Challenge:           *c,
		IsEffectivelyClosed: c.EffectivelyClosed(now),
	}
	if f.users != nil {
		if u := f.users.users[c.UserID]; u != nil {
			d.User = u.Summary()
		}
	}
	if f.parts != nil {
		for _, p := range f.parts.rows {
			if p.ChallengeID == c.ID {
				d.ParticipantCount++
			}
		}
	}
	return d
}

func (f *fakeChallengeRepo) ListChallenges(q model.ListChallengesQuery, now time.Time) ([]model.ChallengeDetail, int64, error) {
	var matched []*model.Challenge
	for _, c := range f.challenges {
		if q.UserID != nil && c.UserID != *q.UserID {
			continue
		}
		if q.ChallengeStatus != "" && string(c.ChallengeStatus) != q.ChallengeStatus {
			continue
		}
		if q.Field != "" && c.Field != q.Field {
			continue
		}
		if q.DocType != "" && string(c.DocType) != q.DocType {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	details := make([]model.ChallengeDetail, 0, end-start)
	for _, c := range matched[start:end] {
		details = append(details, *f.detail(c, now))
	}
	return details, total, nil
}

func (f *fakeChallengeRepo) UpdateChallenge(id int64, updates map[string]any) (*model.Challenge, error) {
	c := f.challenges[id]
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			c.Title = v.(string)
		case "source_url":
			c.SourceURL = v.(string)
		case "field":
			c.Field = v.(string)
		case "doc_type":
			c.DocType = model.DocType(asString(v))
		case "deadline_at":
			c.DeadlineAt = v.(time.Time)
		case "max_participants":
			c.MaxParticipants = v.(int)
		case "content":
			c.Content = v.(string)
		case "challenge_status":
			c.ChallengeStatus = model.ChallengeStatus(asString(v))
		case "admin_reason":
			reason := v.(string)
			c.AdminReason = &reason
		case "deleted_at":
			at := v.(time.Time)
			c.DeletedAt = &at
		}
	}
	cp := *c
	return &cp, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case model.DocType:
		return string(s)
	case model.ChallengeStatus:
		return string(s)
	case model.RequestStatus:
		return string(s)
	case model.ParticipantStatus:
		return string(s)
	case model.WorkStatus:
		return string(s)
	default:
		return ""
	}
}

func (f *fakeChallengeRepo) DeleteChallenge(id int64) error {
	if f.parts != nil {
		for _, p := range f.parts.rows {
			if p.ChallengeID == id {
				p.ParticipantStatus = model.ParticipantChallengeDeleted
			}
		}
	}
	delete(f.challenges, id)
	return nil
}

func (f *fakeChallengeRepo) AdminDeleteChallenge(id int64, reason string, now time.Time) error {
	if c := f.challenges[id]; c != nil {
		c.AdminReason = &reason
		c.DeletedAt = &now
	}
	return f.DeleteChallenge(id)
}

func (f *fakeChallengeRepo) CreateRequest(request *model.ChallengeRequest) error {
	request.ID = f.nextID
	f.nextID++
	request.CreatedAt = time.Now()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeChallengeRepo) GetRequestByID(id int64) (*model.ChallengeRequest, error) {
	r := f.requests[id]
	if r == nil {
		return nil, nil
	}
	rp := *r
	return &rp, nil
}

func (f *fakeChallengeRepo) GetRequestDetail(id int64) (*model.ChallengeRequestDetail, error) {
	r := f.requests[id]
	if r == nil {
		return nil, nil
	}
	return f.requestDetail(r), nil
}

func (f *fakeChallengeRepo) requestDetail(r *model.ChallengeRequest) *model.ChallengeRequestDetail {
	d := &model.ChallengeRequestDetail{ChallengeRequest: *r}
	if f.users != nil {
		if u := f.users.users[r.UserID]; u != nil {
			d.User = u.Summary()
		}
	}
	for _, c := range f.challenges {
		if c.ChallengeRequestID != nil && *c.ChallengeRequestID == r.ID {
			id := c.ID
			d.ChallengeID = &id
			break
		}
	}
	return d
}

func (f *fakeChallengeRepo) ListRequests(userID *int64, status model.RequestStatus) ([]model.ChallengeRequestDetail, error) {
	var details []model.ChallengeRequestDetail
	for _, r := range f.requests {
		if userID != nil && r.UserID != *userID {
			continue
		}
		if status != "" && r.RequestStatus != status {
			continue
		}
		details = append(details, *f.requestDetail(r))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID > details[j].ID })
	return details, nil
}

func (f *fakeChallengeRepo) UpdateRequest(id int64, updates map[string]any) (*model.ChallengeRequest, error) {
	r := f.requests[id]
	if r == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			r.Title = v.(string)
		case "source_url":
			r.SourceURL = v.(string)
		case "field":
			r.Field = v.(string)
		case "doc_type":
			r.DocType = model.DocType(asString(v))
		case "deadline_at":
			r.DeadlineAt = v.(time.Time)
		case "max_participants":
			r.MaxParticipants = v.(int)
		case "content":
			r.Content = v.(string)
		case "request_status":
			r.RequestStatus = model.RequestStatus(asString(v))
		case "admin_reason":
			reason := v.(string)
			r.AdminReason = &reason
		case "processed_at":
			at := v.(time.Time)
			r.ProcessedAt = &at
		}
	}
	rp := *r
	return &rp, nil
}

func (f *fakeChallengeRepo) CancelRequest(id int64) (*model.ChallengeRequest, error) {
	return f.UpdateRequest(id, map[string]any{"request_status": model.RequestCancelled})
}

func (f *fakeChallengeRepo) RejectRequest(id int64, reason string, now time.Time) (*model.ChallengeRequest, error) {
	return f.UpdateRequest(id, map[string]any{
		"request_status": model.RequestRejected,
		"admin_reason":   reason,
		"processed_at":   now,
	})
}

func (f *fakeChallengeRepo) ApproveRequest(request *model.ChallengeRequest, reason string, now time.Time) (*model.Challenge, error) {
	updates := map[string]any{
		"request_status": model.RequestApproved,
		"processed_at":   now,
	}
	if reason != "" {
		updates["admin_reason"] = reason
	}
	if _, err := f.UpdateRequest(request.ID, updates); err != nil {
		return nil, err
	}

	requestID := request.ID
	challenge := &model.Challenge{
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
	if err := f.CreateChallenge(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (f *fakeChallengeRepo) ListApprovedWithoutChallenge() ([]model.ChallengeRequest, error) {
	linked := map[int64]bool{}
	for _, c := range f.challenges {
		if c.ChallengeRequestID != nil {
			linked[*c.ChallengeRequestID] = true
		}
	}

	var orphans []model.ChallengeRequest
	for _, r := range f.requests {
		if r.RequestStatus == model.RequestApproved && !linked[r.ID] {
			orphans = append(orphans, *r)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].ID < orphans[j].ID })
	return orphans, nil
}

func (f *fakeChallengeRepo) BackfillChallenge(request *model.ChallengeRequest) (*model.Challenge, bool, error) {
	for _, c := range f.challenges {
		if c.ChallengeRequestID != nil && *c.ChallengeRequestID == request.ID {
			return nil, false, nil
		}
	}

	requestID := request.ID
	challenge := &model.Challenge{
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
	if err := f.CreateChallenge(challenge); err != nil {
		return nil, false, err
	}
	return challenge, true, nil
}

type fakeParticipantRepo struct {
	nextID     int64
	rows       map[int64]*model.ChallengeParticipant
	challenges *fakeChallengeRepo
	users      *fakeUserRepo
}

func newFakeParticipantRepo(challenges *fakeChallengeRepo, users *fakeUserRepo) *fakeParticipantRepo {
	f := &fakeParticipantRepo{
		nextID:     1,
		rows:       map[int64]*model.ChallengeParticipant{},
		challenges: challenges,
		users:      users,
	}
	if challenges != nil {
		challenges.parts = f
	}
	return f
}

var _ repo.IParticipantRepository = (*fakeParticipantRepo)(nil)

func (f *fakeParticipantRepo) GetByID(id int64) (*model.ChallengeParticipant, error) {
	p := f.rows[id]
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) FindByUserAndChallenge(userID, challengeID int64) (*model.ChallengeParticipant, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.ChallengeID == challengeID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipantRepo) CountApproved(challengeID int64) (int64, error) {
	var n int64
	for _, p := range f.rows {
		if p.ChallengeID == challengeID && p.ParticipantStatus == model.ParticipantApproved {
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipantRepo) CreatePending(userID, challengeID int64) (*model.ChallengeParticipant, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.ChallengeID == challengeID {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	p := &model.ChallengeParticipant{
		UserID:            userID,
		ChallengeID:       challengeID,
		ParticipantStatus: model.ParticipantPending,
	}
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	f.rows[p.ID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) ResetToPending(id int64) (*model.ChallengeParticipant, error) {
	return f.UpdateStatus(id, model.ParticipantPending)
}

func (f *fakeParticipantRepo) ListByChallenge(challengeID int64) ([]model.ParticipantDetail, error) {
	var details []model.ParticipantDetail
	for _, p := range f.rows {
		if p.ChallengeID != challengeID {
			continue
		}
		d := model.ParticipantDetail{ChallengeParticipant: *p}
		if f.users != nil {
			if u := f.users.users[p.UserID]; u != nil {
				d.User = u.Summary()
			}
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
	return details, nil
}

func (f *fakeParticipantRepo) UpdateStatus(id int64, status model.ParticipantStatus) (*model.ChallengeParticipant, error) {
	p := f.rows[id]
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p.ParticipantStatus = status
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) ApproveWithCapacity(id, challengeID int64) (*model.ChallengeParticipant, error) {
	c := f.challenges.challenges[challengeID]
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	approved, _ := f.CountApproved(challengeID)
	if approved >= int64(c.MaxParticipants) {
		return nil, repo.ErrChallengeFull
	}
	p := f.rows[id]
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if p.ParticipantStatus != model.ParticipantApproved {
		if f.users != nil {
			if u := f.users.users[p.UserID]; u != nil {
				u.ChallengeParticipations++
			}
		}
	}
	p.ParticipantStatus = model.ParticipantApproved
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) AutoApprove(userID, challengeID int64) (*model.ChallengeParticipant, bool, error) {
	c := f.challenges.challenges[challengeID]
	if c == nil {
		return nil, false, gorm.ErrRecordNotFound
	}

	var existing *model.ChallengeParticipant
	for _, p := range f.rows {
		if p.UserID == userID && p.ChallengeID == challengeID {
			existing = p
			break
		}
	}
	if existing != nil && existing.ParticipantStatus == model.ParticipantApproved {
		cp := *existing
		return &cp, true, nil
	}

	approved, _ := f.CountApproved(challengeID)
	hasSeat := approved < int64(c.MaxParticipants)
	status := model.ParticipantPending
	if hasSeat {
		status = model.ParticipantApproved
	}

	if existing == nil {
		existing = &model.ChallengeParticipant{
			UserID:      userID,
			ChallengeID: challengeID,
		}
		existing.ID = f.nextID
		f.nextID++
		existing.CreatedAt = time.Now()
		f.rows[existing.ID] = existing
	}
	existing.ParticipantStatus = status

	if hasSeat && f.users != nil {
		if u := f.users.users[userID]; u != nil {
			u.ChallengeParticipations++
		}
	}

	cp := *existing
	return &cp, hasSeat, nil
}

func (f *fakeParticipantRepo) Delete(id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeWorkRepo struct {
	nextID int64
	rows   map[int64]*model.Work
}

func newFakeWorkRepo() *fakeWorkRepo {
	return &fakeWorkRepo{nextID: 1, rows: map[int64]*model.Work{}}
}

var _ repo.IWorkRepository = (*fakeWorkRepo)(nil)

func (f *fakeWorkRepo) Create(work *model.Work) error {
	work.ID = f.nextID
	f.nextID++
	work.CreatedAt = time.Now()
	f.rows[work.ID] = work
	return nil
}

func (f *fakeWorkRepo) GetByID(id int64) (*model.Work, error) {
	w := f.rows[id]
	if w == nil {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWorkRepo) List(q model.ListWorksQuery) ([]model.Work, error) {
	var works []model.Work
	for _, w := range f.rows {
		if q.ChallengeID != nil && w.ChallengeID != *q.ChallengeID {
			continue
		}
		if q.UserID != nil && w.UserID != *q.UserID {
			continue
		}
		if q.WorkStatus != "" && string(w.WorkStatus) != q.WorkStatus {
			continue
		}
		works = append(works, *w)
	}
	sort.Slice(works, func(i, j int) bool { return works[i].ID > works[j].ID })
	return works, nil
}

func (f *fakeWorkRepo) Update(id int64, updates map[string]any) (*model.Work, error) {
	w := f.rows[id]
	if w == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			w.Title = v.(string)
		case "content":
			w.Content = v.(string)
		case "original_url":
			url := v.(string)
			w.OriginalURL = &url
		case "work_status":
			w.WorkStatus = model.WorkStatus(asString(v))
		case "submitted_at":
			if v == nil {
				w.SubmittedAt = nil
			} else {
				at := v.(time.Time)
				w.SubmittedAt = &at
			}
		}
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWorkRepo) Delete(id int64) error {
	delete(f.rows, id)
	return nil
}

type likeKey struct {
	userID int64
	workID int64
}

type fakeLikeRepo struct {
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]bool{}}
}

var _ repo.ILikeRepository = (*fakeLikeRepo)(nil)

func (f *fakeLikeRepo) Add(userID, workID int64) (int64, error) {
	f.likes[likeKey{userID, workID}] = true
	return f.Count(workID)
}

func (f *fakeLikeRepo) Remove(userID, workID int64) (int64, error) {
	delete(f.likes, likeKey{userID, workID})
	return f.Count(workID)
}

func (f *fakeLikeRepo) Count(workID int64) (int64, error) {
	var n int64
	for k := range f.likes {
		if k.workID == workID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikeRepo) Exists(userID, workID int64) (bool, error) {
	return f.likes[likeKey{userID, workID}], nil
}

type fakeFeedbackRepo struct {
	nextID int64
	rows   map[int64]*model.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{nextID: 1, rows: map[int64]*model.Feedback{}}
}

var _ repo.IFeedbackRepository = (*fakeFeedbackRepo)(nil)

func (f *fakeFeedbackRepo) Create(feedback *model.Feedback) error {
	feedback.ID = f.nextID
	f.nextID++
	feedback.CreatedAt = time.Now()
	f.rows[feedback.ID] = feedback
	return nil
}

func (f *fakeFeedbackRepo) GetByID(id int64) (*model.Feedback, error) {
	fb := f.rows[id]
	if fb == nil {
		return nil, nil
	}
	cp := *fb
	return &cp, nil
}

func (f *fakeFeedbackRepo) ListByWork(workID int64, page, limit int) ([]model.Feedback, int64, error) {
	var matched []model.Feedback
	for _, fb := range f.rows {
		if fb.WorkID == workID {
			matched = append(matched, *fb)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeFeedbackRepo) Update(id int64, content string) (*model.Feedback, error) {
	fb := f.rows[id]
	if fb == nil {
		return nil, gorm.ErrRecordNotFound
	}
	fb.Content = content
	cp := *fb
	return &cp, nil
}

func (f *fakeFeedbackRepo) Delete(id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeNotificationRepo struct {
	nextID int64
	rows   map[int64]*model.Notification
	clock  *fakeClock
}

func newFakeNotificationRepo(clock *fakeClock) *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1, rows: map[int64]*model.Notification{}, clock: clock}
}

var _ repo.INotificationRepository = (*fakeNotificationRepo)(nil)

func (f *fakeNotificationRepo) Create(notification *model.Notification) error {
	notification.ID = f.nextID
	f.nextID++
	if f.clock != nil {
		notification.CreatedAt = f.clock.Now()
	} else {
		notification.CreatedAt = time.Now()
	}
	f.rows[notification.ID] = notification
	return nil
}

func (f *fakeNotificationRepo) GetByID(id int64) (*model.Notification, error) {
	n := f.rows[id]
	if n == nil {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) List(q model.ListNotificationsQuery) (*model.NotificationPage, error) {
	var matched []model.Notification
	for _, n := range f.rows {
		if n.UserID != q.UserID {
			continue
		}
		if !q.IncludeRead && n.ReadAt != nil {
			continue
		}
		if q.Cursor != nil {
			older := n.CreatedAt.Before(q.Cursor.CreatedAt) ||
				(n.CreatedAt.Equal(q.Cursor.CreatedAt) && n.ID < q.Cursor.ID)
			if !older {
				continue
			}
		}
		matched = append(matched, *n)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	page := &model.NotificationPage{Items: matched}
	if len(matched) > q.Limit {
		page.Items = matched[:q.Limit]
		page.HasNext = true
		last := page.Items[len(page.Items)-1]
		cursor := model.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.String()
		page.NextCursor = &cursor
	}
	return page, nil
}

func (f *fakeNotificationRepo) MarkRead(id int64, now time.Time) (*model.Notification, error) {
	n := f.rows[id]
	if n == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if n.ReadAt == nil {
		at := now
		n.ReadAt = &at
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) CountUnread(userID int64) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && row.ReadAt == nil {
			n++
		}
	}
	return n, nil
}
