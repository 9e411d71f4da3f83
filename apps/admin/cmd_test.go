package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
	"github.com/trezcool/academy/services/email"
	"github.com/trezcool/academy/services/logger"
	"github.com/trezcool/academy/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	appLogger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	core.ParseEmailTemplates(appLogger)
	emailsvc.ResetSentMessages()
	notifier := student.NewNotifier(emailsvc.NewConsoleTransportMock(), appLogger)

	batchRepo := dummydb.NewBatchRepository(db)
	return &commandLine{
		db:         new(sqlx.DB),
		batchSvc:   batch.NewService(batchRepo),
		studentSvc: student.NewService(dummydb.NewStudentRepository(db), batchRepo, notifier, appLogger),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "mock_score", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addBatch(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addbatch"}, wantErr: errHelp},
		{name: "name but no start date", args: []string{"addbatch", "-name", "Morning Batch"}, wantErr: errHelp},
		{name: "bad start date", args: []string{"addbatch", "-name", "Morning Batch", "-start", "lol"},
			wantErrStr: "start date must be of form YYYY-MM-DD (got \"lol\")"},
		{name: "ok", args: []string{"addbatch", "-name", "Morning Batch", "-start", "2026-09-01", "-timings", "9AM - 11AM"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			} else if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_addStudent(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "addbatch", "-name", "Evening Batch", "-start", "2026-09-01"}); err != nil {
		t.Fatalf("creating batch failed, %v", err)
	}
	batches, err := cli.batchSvc.QueryAll(context.Background())
	if err != nil || len(batches) != 1 {
		t.Fatalf("querying batches failed, %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addstudent", "-name", "Awe Lol"}, wantErr: errHelp},
		{name: "unassigned", args: []string{"addstudent", "-name", "Awe Lol", "-email", "awe@test.cd"}},
		{name: "duplicate email", args: []string{"addstudent", "-name", "Awe Lol", "-email", "awe@test.cd"},
			wantErrStr: "a student with this email already exists"},
		{name: "assigned", args: []string{"addstudent", "-name", "Mdr Lol", "-email", "mdr@test.cd", "-batch", batches[0].ID, "-feepaid"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			} else if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	// both successful registrations should have dispatched a notification
	if got := len(emailsvc.SentMessages); got != 2 {
		t.Errorf("len(SentMessages) = %d, want 2", got)
	}
}
