package batch

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("batch not found")

type (
	Repository interface {
		CreateBatch(ctx context.Context, b Batch) (Batch, error)
		GetBatchByID(ctx context.Context, id string) (Batch, error)
		QueryAllBatches(ctx context.Context) ([]Batch, error)
		DeleteBatchesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nb NewBatch) (Batch, error) {
	now := time.Now().UTC()
	b := Batch{
		Name:      nb.Name,
		StartDate: nb.StartDate,
		Timings:   nb.Timings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateBatch(ctx, b)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Batch, error) {
	return svc.repo.QueryAllBatches(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Batch, error) {
	return svc.repo.GetBatchByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteBatchesByID(ctx, ids...)
}
