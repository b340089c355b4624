package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"studyplanner/internal/database"
)

// BackupData represents the complete database backup structure.
// Password reset tokens are ephemeral and deliberately left out.
type BackupData struct {
	Version      string        `json:"version"`
	ExportedAt   time.Time     `json:"exported_at"`
	DatabaseType string        `json:"database_type"`
	Users        []UserBackup  `json:"users"`
	Plans        []PlanBackup  `json:"plans"`
	Events       []EventBackup `json:"events"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PlanBackup represents a study plan with its session sequence
type PlanBackup struct {
	ID          int64           `json:"id"`
	PlanID      string          `json:"plan_id"`
	UserID      int64           `json:"user_id"`
	StudentName string          `json:"student_name"`
	ExamDate    string          `json:"exam_date"`
	DailyHours  float64         `json:"daily_hours"`
	Summary     string          `json:"summary"`
	CreatedAt   time.Time       `json:"created_at"`
	Sessions    []SessionBackup `json:"sessions"`
}

// SessionBackup represents one scheduled session of a plan
type SessionBackup struct {
	Position          int    `json:"position"`
	Day               int    `json:"day"`
	Course            string `json:"course"`
	Topic             string `json:"topic"`
	Difficulty        string `json:"difficulty"`
	SuggestedMinutes  int    `json:"suggested_minutes"`
	Part              *int   `json:"part"`
	BreakAfterMinutes *int   `json:"break_after_minutes"`
	Hint              string `json:"hint"`
	State             string `json:"state"`
	Completed         bool   `json:"completed"`
	TimeSpentSeconds  int    `json:"time_spent_seconds"`
}

// EventBackup represents one progress event
type EventBackup struct {
	ID             int64     `json:"id"`
	PlanID         string    `json:"plan_id"`
	SessionIndex   int       `json:"session_index"`
	EventType      string    `json:"event_type"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportPlans(backup); err != nil {
		return fmt.Errorf("failed to export plans: %w", err)
	}
	if err := s.exportEvents(backup); err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}

	log.Printf("Exported: %d users, %d plans, %d events",
		len(backup.Users), len(backup.Plans), len(backup.Events))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importPlans(backup.Plans); err != nil {
		return fmt.Errorf("failed to import plans: %w", err)
	}
	if err := s.importEvents(backup.Events); err != nil {
		return fmt.Errorf("failed to import events: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportPlans(backup *BackupData) error {
	query := "SELECT id, plan_id, user_id, student_name, exam_date, daily_hours, summary, created_at FROM study_plans ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlanBackup
		if err := rows.Scan(&p.ID, &p.PlanID, &p.UserID, &p.StudentName, &p.ExamDate, &p.DailyHours, &p.Summary, &p.CreatedAt); err != nil {
			return err
		}

		sessionQuery := "SELECT position, day, course, topic, difficulty, suggested_minutes, part, break_after_minutes, hint, state, completed, time_spent_seconds FROM plan_sessions WHERE plan_id = ? ORDER BY position"
		sessionRows, err := s.db.Query(sessionQuery, p.PlanID)
		if err != nil {
			return err
		}

		for sessionRows.Next() {
			var item SessionBackup
			var part, breakAfter sql.NullInt64
			if err := sessionRows.Scan(&item.Position, &item.Day, &item.Course, &item.Topic, &item.Difficulty, &item.SuggestedMinutes, &part, &breakAfter, &item.Hint, &item.State, &item.Completed, &item.TimeSpentSeconds); err != nil {
				sessionRows.Close()
				return err
			}
			if part.Valid {
				v := int(part.Int64)
				item.Part = &v
			}
			if breakAfter.Valid {
				v := int(breakAfter.Int64)
				item.BreakAfterMinutes = &v
			}
			p.Sessions = append(p.Sessions, item)
		}
		sessionRows.Close()

		backup.Plans = append(backup.Plans, p)
	}
	return rows.Err()
}

func (s *BackupService) exportEvents(backup *BackupData) error {
	query := "SELECT id, plan_id, session_index, event, elapsed_seconds, created_at FROM progress_events ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e EventBackup
		if err := rows.Scan(&e.ID, &e.PlanID, &e.SessionIndex, &e.EventType, &e.ElapsedSeconds, &e.CreatedAt); err != nil {
			return err
		}
		backup.Events = append(backup.Events, e)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, u.OAuthProvider, u.OAuthSubject, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importPlans(plans []PlanBackup) error {
	log.Printf("Importing %d plans...", len(plans))
	for _, p := range plans {
		query := "INSERT INTO study_plans (id, plan_id, user_id, student_name, exam_date, daily_hours, summary, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, p.ID, p.PlanID, p.UserID, p.StudentName, p.ExamDate, p.DailyHours, p.Summary, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import plan %s: %w", p.PlanID, err)
		}

		for _, item := range p.Sessions {
			sessionQuery := "INSERT INTO plan_sessions (plan_id, position, day, course, topic, difficulty, suggested_minutes, part, break_after_minutes, hint, state, completed, time_spent_seconds) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
			var part, breakAfter interface{}
			if item.Part != nil {
				part = *item.Part
			}
			if item.BreakAfterMinutes != nil {
				breakAfter = *item.BreakAfterMinutes
			}
			_, err := s.db.Exec(sessionQuery, p.PlanID, item.Position, item.Day, item.Course, item.Topic, item.Difficulty, item.SuggestedMinutes, part, breakAfter, item.Hint, item.State, item.Completed, item.TimeSpentSeconds)
			if err != nil {
				return fmt.Errorf("failed to import session %d of plan %s: %w", item.Position, p.PlanID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importEvents(events []EventBackup) error {
	log.Printf("Importing %d events...", len(events))
	for _, e := range events {
		query := "INSERT INTO progress_events (id, plan_id, session_index, event, elapsed_seconds, created_at) VALUES (?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, e.ID, e.PlanID, e.SessionIndex, e.EventType, e.ElapsedSeconds, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import event %d: %w", e.ID, err)
		}
	}
	return nil
}
