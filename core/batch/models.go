package batch

import (
	"time"

	"github.com/trezcool/academy/core"
)

// Batch represents one cohort of students.
// It is read-only from the student lifecycle's point of view.
type Batch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	Timings   string    `json:"timings"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewBatch contains information needed to create a new Batch.
type NewBatch struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	Timings   string    `json:"timings"`
}

func (nb *NewBatch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	nb.Timings = core.CleanString(nb.Timings)
	return core.Validate.Struct(nb)
}
