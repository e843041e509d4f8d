// Package dao provides data access objects for use in the generation server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Close() error
}

type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type Role int

const (
	Unverified Role = iota
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Unverified, fmt.Errorf("must be one of 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}

// JobStatus is the lifecycle state of a generation Job.
type JobStatus int

const (
	JobQueued JobStatus = iota
	JobRunning
	JobSucceeded
	JobFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobQueued:
		return "queued"
	case JobRunning:
		return "running"
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	default:
		return fmt.Sprintf("JobStatus(%d)", s)
	}
}

func ParseJobStatus(s string) (JobStatus, error) {
	switch strings.ToLower(s) {
	case "queued":
		return JobQueued, nil
	case "running":
		return JobRunning, nil
	case "succeeded":
		return JobSucceeded, nil
	case "failed":
		return JobFailed, nil
	default:
		return JobQueued, fmt.Errorf("must be one of 'queued', 'running', 'succeeded', or 'failed'")
	}
}

type JobRepository interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Job, error)
	GetAll(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, id uuid.UUID, job Job) (Job, error)
	Delete(ctx context.Context, id uuid.UUID) (Job, error)
	Close() error
}

// Job is one submitted grammar-generation request and its outcome. Result
// is the zero value until Status reaches JobSucceeded, at which point it
// holds the full generated source plus the FIRST/FOLLOW/predictive-table
// analysis, so the job history can answer those questions without
// re-running the pipeline against GrammarText.
type Job struct {
	ID           uuid.UUID // PK, NOT NULL
	UserID       uuid.UUID // FK (Many-to-One User.ID), NOT NULL
	GrammarText  string    // NOT NULL
	Status       JobStatus // NOT NULL
	Result       ll1gen.GenerationResult
	ErrorMessage string
	Created      time.Time // NOT NULL DEFAULT NOW()
	Completed    time.Time
}
