package main

import (
	"context"
	"fmt"

	"github.com/trezcool/academy/core/student"
)

// addStudent registers a new student.Student, going through the full
// lifecycle so batch assignment and the resulting notification apply.
func (cli *commandLine) addStudent(name, email, batchID string, feePaid bool) error {
	ctx := context.Background()

	ns := student.NewStudent{
		Name:    name,
		Email:   email,
		BatchID: batchID,
		FeePaid: feePaid,
	}
	if err := ns.Validate(ctx, cli.studentSvc); err != nil {
		return err
	}

	res, err := cli.studentSvc.Create(ctx, ns)
	if err != nil {
		return err
	}
	fmt.Printf("student %q created: %s (roll number %s)\n", res.Name, res.ID, res.RollNumber)
	if res.Notification != nil && !res.NotificationSent {
		fmt.Printf("warning: %s notification failed: %s\n", res.Notification.Kind, res.Notification.Err.Message)
	}
	return nil
}
