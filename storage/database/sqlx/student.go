package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academy/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// studentRow mirrors the student table. Nullable columns are normalized to
// the Unassigned sentinel here so core logic never sees NULLs.
type studentRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	BatchID      null.String `db:"batch_id"`
	RollNumber   null.String `db:"roll_number"`
	FeePaid      bool        `db:"fee_paid"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r studentRow) toCore() student.Student {
	st := student.Student{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		BatchID:    student.Unassigned,
		RollNumber: student.Unassigned,
		FeePaid:    r.FeePaid,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.BatchID.Valid {
		st.BatchID = r.BatchID.String
	}
	if r.RollNumber.Valid {
		st.RollNumber = r.RollNumber.String
	}
	if r.PasswordHash.Valid {
		st.PasswordHash = r.PasswordHash.Bytes
	}
	return st
}

func newStudentRow(st student.Student) studentRow {
	r := studentRow{
		ID:        st.ID,
		Name:      st.Name,
		Email:     st.Email,
		FeePaid:   st.FeePaid,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
	if st.IsBatchAssigned() {
		r.BatchID = null.StringFrom(st.BatchID)
	}
	if st.HasRollNumber() {
		r.RollNumber = null.StringFrom(st.RollNumber)
	}
	if st.PasswordHash != nil {
		r.PasswordHash = null.BytesFrom(st.PasswordHash)
	}
	return r
}

type attendanceRow struct {
	Day        string    `db:"day"`
	Present    bool      `db:"present"`
	RecordedAt time.Time `db:"recorded_at"`
}

type mockScoreRow struct {
	TestID       string    `db:"test_id"`
	Score        int       `db:"score"`
	TotalMarks   null.Int  `db:"total_marks"`
	PassingMarks null.Int  `db:"passing_marks"`
	CreatedAt    time.Time `db:"created_at"`
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string, exclStudents ...student.Student) error {
	exclIDs := make([]string, 0, len(exclStudents))
	for _, st := range exclStudents {
		exclIDs = append(exclIDs, st.ID)
	}

	query := `SELECT EXISTS(SELECT 1 FROM student WHERE email = $1)`
	args := []interface{}{email}
	if len(exclIDs) > 0 {
		query = `SELECT EXISTS(SELECT 1 FROM student WHERE email = ? AND id NOT IN (?))`
		var err error
		query, args, err = sqlx.In(query, email, exclIDs)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query = repo.db.Rebind(query)
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	row := newStudentRow(st)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, name, email, batch_id, roll_number, fee_paid, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :batch_id, :roll_number, :fee_paid, :password_hash, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toCore(), nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student by email")
	}
	return row.toCore(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	row := newStudentRow(st)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE student
		SET name = :name, email = :email, batch_id = :batch_id, fee_paid = :fee_paid, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, st.ID)
}

func (repo *studentRepository) SetStudentRollNumber(ctx context.Context, id, rollNumber string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE student SET roll_number = $1, updated_at = $2 WHERE id = $3`,
		rollNumber, time.Now().UTC(), id,
	)
	if err != nil {
		return errors.Wrap(err, "setting roll number")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) SetStudentPasswordHash(ctx context.Context, id string, hash []byte) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE student SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now().UTC(), id,
	)
	if err != nil {
		return errors.Wrap(err, "setting password hash")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepository) AddAttendanceRecord(ctx context.Context, studentID string, rec student.AttendanceRecord) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO attendance_record (student_id, day, present, recorded_at) VALUES ($1, $2, $3, $4)`,
		studentID, rec.Day, rec.Present, rec.RecordedAt,
	)
	return errors.Wrap(err, "inserting attendance record")
}

func (repo *studentRepository) GetAttendanceRecords(ctx context.Context, studentID string) ([]student.AttendanceRecord, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT day, present, recorded_at FROM attendance_record WHERE student_id = $1 ORDER BY id`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]student.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, student.AttendanceRecord{
			Day:        row.Day,
			Present:    row.Present,
			RecordedAt: row.RecordedAt,
		})
	}
	return records, nil
}

func (repo *studentRepository) SaveMockScore(ctx context.Context, studentID string, score student.MockScore) error {
	totalMarks := null.NewInt(score.TotalMarks, score.TotalMarks > 0)
	passingMarks := null.NewInt(score.PassingMarks, score.PassingMarks > 0)
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO mock_score (student_id, test_id, score, total_marks, passing_marks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, test_id)
		DO UPDATE SET score = EXCLUDED.score, total_marks = EXCLUDED.total_marks,
		              passing_marks = EXCLUDED.passing_marks, created_at = EXCLUDED.created_at`,
		studentID, score.TestID, score.Score, totalMarks, passingMarks, score.CreatedAt,
	)
	return errors.Wrap(err, "saving mock score")
}

func (repo *studentRepository) GetMockScores(ctx context.Context, studentID string) ([]student.MockScore, error) {
	var rows []mockScoreRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT test_id, score, total_marks, passing_marks, created_at FROM mock_score WHERE student_id = $1 ORDER BY created_at`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying mock scores")
	}
	scores := make([]student.MockScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, student.MockScore{
			TestID:       row.TestID,
			Score:        row.Score,
			TotalMarks:   row.TotalMarks.Int,
			PassingMarks: row.PassingMarks.Int,
			CreatedAt:    row.CreatedAt,
		})
	}
	return scores, nil
}
