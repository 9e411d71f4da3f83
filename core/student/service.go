package student

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/batch"
)

var (
	ErrNotFound    = stderrors.New("student not found")
	ErrEmailExists = stderrors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		SetStudentRollNumber(ctx context.Context, id, rollNumber string) error
		SetStudentPasswordHash(ctx context.Context, id string, hash []byte) error
		DeleteStudentsByID(ctx context.Context, ids ...string) error

		AddAttendanceRecord(ctx context.Context, studentID string, rec AttendanceRecord) error
		GetAttendanceRecords(ctx context.Context, studentID string) ([]AttendanceRecord, error)
		// SaveMockScore appends the score, replacing any prior score for the same test.
		SaveMockScore(ctx context.Context, studentID string, score MockScore) error
		GetMockScores(ctx context.Context, studentID string) ([]MockScore, error)
	}

	// Service is the lifecycle controller: the only component with side
	// effects beyond notification. Store failures propagate; notification
	// outcomes are merged into the returned StudentResult, never thrown.
	Service struct {
		repo     Repository
		batches  batch.Repository
		notifier *Notifier
		logger   core.Logger
	}
)

// StudentResult is what create/update return: the persisted student plus the
// outcome of the notification decision for that transition (if any).
type StudentResult struct {
	Student
	NotificationSent bool                `json:"notification_sent"`
	Notification     *NotificationResult `json:"notification,omitempty"`
}

// ProgressReport aggregates a student's attendance and mock-test history.
// The same functions feed the email templates and the report views.
type ProgressReport struct {
	Student       Student         `json:"student"`
	AttendancePct int             `json:"attendance_percentage"`
	MockPct       int             `json:"mock_test_percentage"`
	OverallPct    int             `json:"overall_percentage"`
	Grade         Grade           `json:"grade"`
	Monthly       []MonthlyBucket `json:"monthly_attendance"`
}

func NewService(repo Repository, batches batch.Repository, notifier *Notifier, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		batches:  batches,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclStudents...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create persists the new student, then decides which notification fires:
// a concrete batch at creation time is treated as an assignment transition;
// otherwise a registration-pending notice goes out. Notification failure
// never rolls back the write.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (StudentResult, error) {
	now := time.Now().UTC()
	st := Student{
		Name:       ns.Name,
		Email:      ns.Email,
		BatchID:    ns.BatchID,
		RollNumber: Unassigned,
		FeePaid:    ns.FeePaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st, err := svc.repo.CreateStudent(ctx, st)
	if err != nil {
		return StudentResult{}, errors.Wrap(err, "creating student")
	}

	res := StudentResult{Student: st}
	if st.IsBatchAssigned() {
		return svc.assignAndNotify(ctx, res)
	}

	nres := svc.notifier.SendRegistrationPending(ctx, st)
	res.Notification = &nres
	res.NotificationSent = nres.Sent
	return res, nil
}

// Update applies the changes, then fires the batch-assigned notification iff
// the update is an assignment transition. Re-saving the same batch is a no-op
// notification-wise.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (StudentResult, error) {
	old, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return StudentResult{}, err
	}

	st := old
	st.Name = us.Name
	st.Email = us.Email
	st.BatchID = us.BatchID
	st.FeePaid = *us.FeePaid
	st.UpdatedAt = time.Now().UTC()

	st, err = svc.repo.UpdateStudent(ctx, st)
	if err != nil {
		return StudentResult{}, errors.Wrap(err, "updating student")
	}

	res := StudentResult{Student: st}
	if IsBatchAssignmentTransition(old, st) {
		return svc.assignAndNotify(ctx, res)
	}
	return res, nil
}

// assignAndNotify completes an assignment transition after the record write:
// resolve (and persist) the roll number, issue credentials, look up the batch
// and dispatch. The batch lookup fails fast with batch.ErrNotFound since
// sending credentials for a nonexistent batch is meaningless; by then the
// underlying record write is already committed and stays.
func (svc *Service) assignAndNotify(ctx context.Context, res StudentResult) (StudentResult, error) {
	st := res.Student

	roll, needsPersist := ResolveRollNumber(st)
	if needsPersist {
		if err := svc.repo.SetStudentRollNumber(ctx, st.ID, roll); err != nil {
			return res, errors.Wrap(err, "persisting roll number")
		}
		st.RollNumber = roll
	}

	// issued credentials: the initial password is the store-assigned ID
	if err := st.SetPassword(st.ID); err != nil {
		return res, errors.Wrap(err, "issuing credentials")
	}
	if err := svc.repo.SetStudentPasswordHash(ctx, st.ID, st.PasswordHash); err != nil {
		return res, errors.Wrap(err, "persisting credentials")
	}
	res.Student = st

	b, err := svc.batches.GetBatchByID(ctx, st.BatchID)
	if err != nil {
		return res, err
	}

	nres := svc.notifier.SendBatchAssigned(ctx, st, b.Name)
	res.Notification = &nres
	res.NotificationSent = nres.Sent
	return res, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *Service) RecordAttendance(ctx context.Context, studentID string, na NewAttendanceRecord) error {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return err
	}
	rec := AttendanceRecord{
		Day:        na.Date,
		Present:    na.Present,
		RecordedAt: time.Now().UTC(),
	}
	return svc.repo.AddAttendanceRecord(ctx, studentID, rec)
}

func (svc *Service) SaveMockScore(ctx context.Context, studentID string, nm NewMockScore) error {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return err
	}
	score := MockScore{
		TestID:       nm.TestID,
		Score:        nm.Score,
		TotalMarks:   nm.TotalMarks,
		PassingMarks: nm.PassingMarks,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.SaveMockScore(ctx, studentID, score)
}

// Report derives the student's reportable metrics from their raw records.
func (svc *Service) Report(ctx context.Context, studentID string) (ProgressReport, error) {
	st, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return ProgressReport{}, err
	}
	records, err := svc.repo.GetAttendanceRecords(ctx, studentID)
	if err != nil {
		return ProgressReport{}, errors.Wrap(err, "loading attendance")
	}
	scores, err := svc.repo.GetMockScores(ctx, studentID)
	if err != nil {
		return ProgressReport{}, errors.Wrap(err, "loading mock scores")
	}

	attendancePct := AttendancePercentage(records)
	mockPct := MockTestPassPercentage(scores, core.Conf.MockPassThreshold)
	overallPct := OverallPercentage(attendancePct, mockPct)
	return ProgressReport{
		Student:       st,
		AttendancePct: attendancePct,
		MockPct:       mockPct,
		OverallPct:    overallPct,
		Grade:         LetterGrade(overallPct),
		Monthly:       MonthlyAttendanceBuckets(records),
	}, nil
}
