package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academy/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, row := range repo.db.table {
		students = append(students, row.st)
	}
	return students
}

func (repo *studentRepository) CheckEmailUniqueness(_ context.Context, email string, exclStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.query() {
		if st.Email == email && !isExcluded(st, exclStudents) {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.New().String()
	repo.db.table[st.ID] = &studentRow{st: st}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return row.st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.query() {
		if st.Email == email {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.CreatedAt = row.st.CreatedAt
	row.st = st
	return st, nil
}

func (repo *studentRepository) SetStudentRollNumber(_ context.Context, id, rollNumber string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	row.st.RollNumber = rollNumber
	return nil
}

func (repo *studentRepository) SetStudentPasswordHash(_ context.Context, id string, hash []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	row.st.PasswordHash = hash
	return nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *studentRepository) AddAttendanceRecord(_ context.Context, studentID string, rec student.AttendanceRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[studentID]
	if !ok {
		return student.ErrNotFound
	}
	row.attendance = append(row.attendance, rec)
	return nil
}

func (repo *studentRepository) GetAttendanceRecords(_ context.Context, studentID string) ([]student.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	row, ok := repo.db.table[studentID]
	if !ok {
		return nil, student.ErrNotFound
	}
	records := make([]student.AttendanceRecord, len(row.attendance))
	copy(records, row.attendance)
	return records, nil
}

func (repo *studentRepository) SaveMockScore(_ context.Context, studentID string, score student.MockScore) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[studentID]
	if !ok {
		return student.ErrNotFound
	}
	for i, sc := range row.scores {
		if sc.TestID == score.TestID {
			row.scores[i] = score
			return nil
		}
	}
	row.scores = append(row.scores, score)
	return nil
}

func (repo *studentRepository) GetMockScores(_ context.Context, studentID string) ([]student.MockScore, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	row, ok := repo.db.table[studentID]
	if !ok {
		return nil, student.ErrNotFound
	}
	scores := make([]student.MockScore, len(row.scores))
	copy(scores, row.scores)
	return scores, nil
}

func isExcluded(st student.Student, exclStudents []student.Student) bool {
	for _, excl := range exclStudents {
		if st.ID == excl.ID {
			return true
		}
	}
	return false
}
