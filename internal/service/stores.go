package service

import (
	"context"
	"time"

	"studyplanner/internal/models"
)

// UserStore is the persistence contract for accounts and reset tokens,
// satisfied by repository.UserRepository
type UserStore interface {
	CreateUser(email, passwordHash, name string) (*models.User, error)
	CreateOAuthUser(email, passwordHash, name, provider, subject string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByOAuth(provider, subject string) (*models.User, error)
	LinkOAuthAccount(userID int64, provider, subject string) error
	UpdateLastLogin(userID int64) error
	UpdatePassword(userID int64, passwordHash string) error
	CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error
	GetPasswordResetToken(token string) (*models.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(token string) error
	DeleteExpiredPasswordResetTokens() error
}

// PlanStore is the persistence contract for study plans, satisfied by
// repository.PlanRepository. CreatePlan must write the plan and its full
// session sequence atomically.
type PlanStore interface {
	CreatePlan(plan *models.StudyPlan) error
	GetPlanByPlanID(planID string) (*models.StudyPlan, error)
	ListPlansByUser(userID int64) ([]models.StudyPlan, error)
	UpdateSessionProgress(planID string, position int, state models.SessionState, completed bool, timeSpentSeconds int) error
	DeletePlan(planID string, userID int64) (bool, error)
}

// ProgressStore is the persistence contract for the append-only event
// log, satisfied by repository.ProgressRepository
type ProgressStore interface {
	AppendEvent(planID string, sessionIndex int, event models.ProgressEventType, elapsedSeconds int) error
	ListEventsForUser(userID int64, since time.Time) ([]models.ProgressEvent, error)
	ListEventsForPlan(planID string) ([]models.ProgressEvent, error)
}

// Emailer sends transactional email; satisfied by EmailService
type Emailer interface {
	IsEnabled() bool
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error
}
