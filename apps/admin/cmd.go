package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB
	batchSvc   *batch.Service
	studentSvc *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run DB migrations (up, down, status, ...)")
	fmt.Println("  addbatch -name NAME -start YYYY-MM-DD [-timings TIMINGS] - create a batch")
	fmt.Println("  addstudent -name NAME -email EMAIL [-batch BATCH_ID] [-feepaid] - register a student")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addBatchCmd := flag.NewFlagSet("addbatch", flag.ExitOnError)
	addBatchName := addBatchCmd.String("name", "", "The batch's name.")
	addBatchStart := addBatchCmd.String("start", "", "The batch's start date (YYYY-MM-DD).")
	addBatchTimings := addBatchCmd.String("timings", "", "The batch's class timings.")

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email.")
	addStudentBatch := addStudentCmd.String("batch", "", "The ID of the batch to assign the student to.")
	addStudentFeePaid := addStudentCmd.Bool("feepaid", false, "Whether the student's fee is paid.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addbatch":
		if err := addBatchCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addBatchName == "" || *addBatchStart == "" {
			addBatchCmd.Usage()
			return errHelp
		}
		return cli.addBatch(*addBatchName, *addBatchStart, *addBatchTimings)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentEmail == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentEmail, *addStudentBatch, *addStudentFeePaid)
	default:
		cli.printUsage()
		return errHelp
	}
}
