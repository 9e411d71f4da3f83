package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/academy/core/batch"
)

const startDateLayout = "2006-01-02"

// addBatch creates a new batch.Batch
func (cli *commandLine) addBatch(name, start, timings string) error {
	ctx := context.Background()

	startDate, err := time.Parse(startDateLayout, start)
	if err != nil {
		return fmt.Errorf("start date must be of form YYYY-MM-DD (got %q)", start)
	}

	nb := batch.NewBatch{
		Name:      name,
		StartDate: startDate,
		Timings:   timings,
	}
	if err := nb.Validate(); err != nil {
		return err
	}

	b, err := cli.batchSvc.Create(ctx, nb)
	if err != nil {
		return err
	}
	fmt.Printf("batch %q created: %s\n", b.Name, b.ID)
	return nil
}
