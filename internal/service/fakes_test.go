package service

import (
	"context"
	"strings"
	"time"

	"studyplanner/internal/models"
)

// fakePlanStore keeps plans in memory, newest first on list, mirroring
// the repository's ordering contract.
type fakePlanStore struct {
	plans     []*models.StudyPlan
	createErr error
}

func (f *fakePlanStore) CreatePlan(plan *models.StudyPlan) error {
	if f.createErr != nil {
		return f.createErr
	}
	plan.ID = int64(len(f.plans) + 1)
	f.plans = append(f.plans, plan)
	return nil
}

func (f *fakePlanStore) GetPlanByPlanID(planID string) (*models.StudyPlan, error) {
	for _, p := range f.plans {
		if p.PlanID == planID {
			copied := *p
			copied.Sessions = append([]models.SessionItem(nil), p.Sessions...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePlanStore) ListPlansByUser(userID int64) ([]models.StudyPlan, error) {
	var out []models.StudyPlan
	for i := len(f.plans) - 1; i >= 0; i-- {
		if f.plans[i].UserID == userID {
			out = append(out, *f.plans[i])
		}
	}
	return out, nil
}

func (f *fakePlanStore) UpdateSessionProgress(planID string, position int, state models.SessionState, completed bool, timeSpentSeconds int) error {
	for _, p := range f.plans {
		if p.PlanID != planID {
			continue
		}
		session := &p.Sessions[position]
		session.State = state
		session.Completed = completed
		session.TimeSpentSeconds = timeSpentSeconds
		return nil
	}
	return ErrPlanNotFound
}

func (f *fakePlanStore) DeletePlan(planID string, userID int64) (bool, error) {
	for i, p := range f.plans {
		if p.PlanID == planID && p.UserID == userID {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeProgressStore is an in-memory append-only event log
type fakeProgressStore struct {
	events []models.ProgressEvent
	owners map[string]int64 // plan_id -> user_id, for user scoping
	now    func() time.Time
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		owners: make(map[string]int64),
		now:    time.Now,
	}
}

func (f *fakeProgressStore) AppendEvent(planID string, sessionIndex int, event models.ProgressEventType, elapsedSeconds int) error {
	f.events = append(f.events, models.ProgressEvent{
		ID:             int64(len(f.events) + 1),
		PlanID:         planID,
		SessionIndex:   sessionIndex,
		Event:          event,
		ElapsedSeconds: elapsedSeconds,
		CreatedAt:      f.now().UTC(),
	})
	return nil
}

func (f *fakeProgressStore) ListEventsForUser(userID int64, since time.Time) ([]models.ProgressEvent, error) {
	var out []models.ProgressEvent
	for _, e := range f.events {
		if f.owners[e.PlanID] != userID {
			continue
		}
		if e.CreatedAt.Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeProgressStore) ListEventsForPlan(planID string) ([]models.ProgressEvent, error) {
	var out []models.ProgressEvent
	for _, e := range f.events {
		if e.PlanID == planID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeUserStore keeps users and reset tokens in memory
type fakeUserStore struct {
	users  []*models.User
	tokens map[string]*models.PasswordResetToken
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *fakeUserStore) CreateUser(email, passwordHash, name string) (*models.User, error) {
	f.nextID++
	user := &models.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserStore) CreateOAuthUser(email, passwordHash, name, provider, subject string) (*models.User, error) {
	user, err := f.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, err
	}
	user.OAuthProvider = provider
	user.OAuthSubject = subject
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByOAuth(provider, subject string) (*models.User, error) {
	for _, u := range f.users {
		if u.OAuthProvider == provider && u.OAuthSubject == subject {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) LinkOAuthAccount(userID int64, provider, subject string) error {
	user, _ := f.GetUserByID(userID)
	if user == nil {
		return nil
	}
	user.OAuthProvider = provider
	user.OAuthSubject = subject
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(userID int64) error {
	user, _ := f.GetUserByID(userID)
	if user != nil {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(userID int64, passwordHash string) error {
	user, _ := f.GetUserByID(userID)
	if user != nil {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserStore) CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error {
	f.tokens[token] = &models.PasswordResetToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeUserStore) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	return f.tokens[token], nil
}

func (f *fakeUserStore) MarkPasswordResetTokenUsed(token string) error {
	if t, ok := f.tokens[token]; ok {
		t.Used = true
	}
	return nil
}

func (f *fakeUserStore) DeleteExpiredPasswordResetTokens() error {
	for token, t := range f.tokens {
		if t.IsExpired() {
			delete(f.tokens, token)
		}
	}
	return nil
}

// fakeEmailer records sends instead of talking to SES
type fakeEmailer struct {
	welcomes []string
	resets   []string
	tokens   []string
	sendErr  error
}

func (f *fakeEmailer) IsEnabled() bool { return true }

func (f *fakeEmailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.welcomes = append(f.welcomes, toEmail)
	return nil
}

func (f *fakeEmailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.resets = append(f.resets, toEmail)
	f.tokens = append(f.tokens, resetToken)
	return nil
}
