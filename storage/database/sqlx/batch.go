package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academy/core/batch"
)

type batchRepository struct {
	db *sqlx.DB
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *sqlx.DB) batch.Repository {
	return &batchRepository{db: db}
}

type batchRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	Timings   string    `db:"timings"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r batchRow) toCore() batch.Batch {
	return batch.Batch{
		ID:        r.ID,
		Name:      r.Name,
		StartDate: r.StartDate,
		Timings:   r.Timings,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo *batchRepository) CreateBatch(ctx context.Context, b batch.Batch) (batch.Batch, error) {
	b.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO batch (id, name, start_date, timings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Name, b.StartDate, b.Timings, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "inserting batch")
	}
	return b, nil
}

func (repo *batchRepository) GetBatchByID(ctx context.Context, id string) (batch.Batch, error) {
	var row batchRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM batch WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return batch.Batch{}, batch.ErrNotFound
		}
		return batch.Batch{}, errors.Wrap(err, "getting batch")
	}
	return row.toCore(), nil
}

func (repo *batchRepository) QueryAllBatches(ctx context.Context) ([]batch.Batch, error) {
	var rows []batchRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM batch ORDER BY start_date`); err != nil {
		return nil, errors.Wrap(err, "querying batches")
	}
	batches := make([]batch.Batch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, row.toCore())
	}
	return batches, nil
}

func (repo *batchRepository) DeleteBatchesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM batch WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting batches")
	}
	return nil
}
