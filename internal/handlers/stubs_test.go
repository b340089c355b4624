package handlers

import (
	"context"
	"net/http"
	"time"

	"studyplanner/internal/models"
	"studyplanner/internal/service"
)

// stubUserStore serves a single pre-seeded account
type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) CreateUser(email, passwordHash, name string) (*models.User, error) {
	s.user = &models.User{ID: 1, Email: email, PasswordHash: passwordHash, Name: name}
	return s.user, nil
}

func (s *stubUserStore) CreateOAuthUser(email, passwordHash, name, provider, subject string) (*models.User, error) {
	user, _ := s.CreateUser(email, passwordHash, name)
	user.OAuthProvider = provider
	user.OAuthSubject = subject
	return user, nil
}

func (s *stubUserStore) GetUserByEmail(email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserStore) GetUserByID(id int64) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserStore) GetUserByOAuth(provider, subject string) (*models.User, error) {
	if s.user != nil && s.user.OAuthProvider == provider && s.user.OAuthSubject == subject {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserStore) LinkOAuthAccount(userID int64, provider, subject string) error { return nil }
func (s *stubUserStore) UpdateLastLogin(userID int64) error                            { return nil }
func (s *stubUserStore) UpdatePassword(userID int64, passwordHash string) error        { return nil }

func (s *stubUserStore) CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error {
	return nil
}

func (s *stubUserStore) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	return nil, nil
}

func (s *stubUserStore) MarkPasswordResetTokenUsed(token string) error { return nil }
func (s *stubUserStore) DeleteExpiredPasswordResetTokens() error       { return nil }

// stubEmailer drops every email
type stubEmailer struct{}

func (s *stubEmailer) IsEnabled() bool { return false }
func (s *stubEmailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	return nil
}
func (s *stubEmailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	return nil
}

// stubPlanStore keeps plans in memory for handler tests
type stubPlanStore struct {
	plans []*models.StudyPlan
}

func (s *stubPlanStore) CreatePlan(plan *models.StudyPlan) error {
	plan.ID = int64(len(s.plans) + 1)
	s.plans = append(s.plans, plan)
	return nil
}

func (s *stubPlanStore) GetPlanByPlanID(planID string) (*models.StudyPlan, error) {
	for _, p := range s.plans {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubPlanStore) ListPlansByUser(userID int64) ([]models.StudyPlan, error) {
	var out []models.StudyPlan
	for i := len(s.plans) - 1; i >= 0; i-- {
		if s.plans[i].UserID == userID {
			out = append(out, *s.plans[i])
		}
	}
	return out, nil
}

func (s *stubPlanStore) UpdateSessionProgress(planID string, position int, state models.SessionState, completed bool, timeSpentSeconds int) error {
	for _, p := range s.plans {
		if p.PlanID != planID {
			continue
		}
		session := &p.Sessions[position]
		session.State = state
		session.Completed = completed
		session.TimeSpentSeconds = timeSpentSeconds
		return nil
	}
	return service.ErrPlanNotFound
}

func (s *stubPlanStore) DeletePlan(planID string, userID int64) (bool, error) {
	for i, p := range s.plans {
		if p.PlanID == planID && p.UserID == userID {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// stubProgressStore is an in-memory event log
type stubProgressStore struct {
	events []models.ProgressEvent
}

func (s *stubProgressStore) AppendEvent(planID string, sessionIndex int, event models.ProgressEventType, elapsedSeconds int) error {
	s.events = append(s.events, models.ProgressEvent{
		ID:             int64(len(s.events) + 1),
		PlanID:         planID,
		SessionIndex:   sessionIndex,
		Event:          event,
		ElapsedSeconds: elapsedSeconds,
		CreatedAt:      time.Now().UTC(),
	})
	return nil
}

func (s *stubProgressStore) ListEventsForUser(userID int64, since time.Time) ([]models.ProgressEvent, error) {
	return s.events, nil
}

func (s *stubProgressStore) ListEventsForPlan(planID string) ([]models.ProgressEvent, error) {
	var out []models.ProgressEvent
	for _, e := range s.events {
		if e.PlanID == planID {
			out = append(out, e)
		}
	}
	return out, nil
}

// withUser injects an authenticated user into the request context,
// standing in for RequireAuth in handler tests
func withUser(user *models.User, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}
