package dummydb

import (
	"sync"

	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
)

type (
	DB struct {
		student *studentTable
		batch   *batchTable
	}

	studentRow struct {
		st         student.Student
		attendance []student.AttendanceRecord
		scores     []student.MockScore
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*studentRow
	}

	batchTable struct {
		sync.RWMutex
		table map[string]*batch.Batch
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*studentRow)},
		batch:   &batchTable{table: make(map[string]*batch.Batch)},
	}
	return db, nil
}
