package main

import (
	"log"
	"os"

	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
	"github.com/trezcool/academy/services/email"
	"github.com/trezcool/academy/services/logger"
	"github.com/trezcool/academy/storage/database"
	"github.com/trezcool/academy/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLogger := logsvc.NewStdLogger(logger)

	core.ParseEmailTemplates(appLogger)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(database.Ping(db))

	// notifications from the CLI only ever go to the console
	notifier := student.NewNotifier(emailsvc.NewConsoleTransport(), appLogger)

	batchRepo := sqlxrepos.NewBatchRepository(db)

	// start CLI
	cli := commandLine{
		db:         db,
		batchSvc:   batch.NewService(batchRepo),
		studentSvc: student.NewService(sqlxrepos.NewStudentRepository(db), batchRepo, notifier, appLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
