package student

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academy/core"
)

// Unassigned is the sentinel value for a batch or roll number that has not
// been chosen yet. It is distinct from absence: the store adapter normalizes
// NULL columns to this value so core logic never sees both.
const Unassigned = "unassigned"

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BatchID      string    `json:"batch_id"`    // Unassigned until an admin assigns one
	RollNumber   string    `json:"roll_number"` // Unassigned until resolved; stable once resolved
	FeePaid      bool      `json:"fee_paid"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) IsBatchAssigned() bool {
	return s.BatchID != "" && s.BatchID != Unassigned
}

func (s *Student) HasRollNumber() bool {
	return s.RollNumber != "" && s.RollNumber != Unassigned
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// AttendanceRecord is one attendance capture for one day.
// Day keeps the raw stored label (expected "2006-01-02"); legacy imports carry
// values that do not parse, and reporting filters those out instead of failing.
type AttendanceRecord struct {
	Day        string    `json:"date"`
	Present    bool      `json:"present"`
	RecordedAt time.Time `json:"timestamp"` // UTC
}

// MockScore is one mock-test result. Score is out of 10 unless TotalMarks is
// set, in which case it is out of TotalMarks and PassingMarks applies.
type MockScore struct {
	TestID       string    `json:"test_id"`
	Score        int       `json:"score"`
	TotalMarks   int       `json:"total_marks,omitempty"`
	PassingMarks int       `json:"passing_marks,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	BatchID string `json:"batch_id"` // optional; a concrete value assigns at creation
	FeePaid bool   `json:"fee_paid"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.BatchID = core.CleanString(ns.BatchID)
	if ns.BatchID == "" {
		ns.BatchID = Unassigned
	}

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep the original value.
type UpdateStudent struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	BatchID string `json:"batch_id"`
	FeePaid *bool  `json:"fee_paid"`
}

func (us *UpdateStudent) Validate(ctx context.Context, orig Student, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	batchID := core.CleanString(us.BatchID)
	if batchID != "" {
		us.BatchID = batchID
	} else {
		us.BatchID = orig.BatchID
	}

	if us.FeePaid == nil {
		us.FeePaid = &orig.FeePaid
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, us.Email, orig)
}

// NewAttendanceRecord is one attendance capture submission.
type NewAttendanceRecord struct {
	Date    string `json:"date" validate:"required"`
	Present bool   `json:"present"`
}

func (na *NewAttendanceRecord) Validate() error {
	na.Date = core.CleanString(na.Date)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, na.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "must be a valid date (2006-01-02)"})
	}
	return nil
}

// NewMockScore is one mock-test result submission; replaces any prior score
// for the same test.
type NewMockScore struct {
	TestID       string `json:"test_id" validate:"required"`
	Score        int    `json:"score" validate:"gte=0"`
	TotalMarks   int    `json:"total_marks" validate:"gte=0"`
	PassingMarks int    `json:"passing_marks" validate:"gte=0,ltefield=TotalMarks"`
}

func (nm *NewMockScore) Validate() error {
	nm.TestID = core.CleanString(nm.TestID)
	if err := core.Validate.Struct(nm); err != nil {
		return err
	}
	max := 10 // score-based view
	if nm.TotalMarks > 0 {
		max = nm.TotalMarks // marks-based view
	}
	if nm.Score > max {
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: "score exceeds total marks"})
	}
	return nil
}
