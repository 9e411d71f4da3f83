package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/trezcool/academy/apps/api/echo"
	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
	"github.com/trezcool/academy/services/email"
	"github.com/trezcool/academy/services/logger"
	"github.com/trezcool/academy/storage/database"
	"github.com/trezcool/academy/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))

	core.ParseEmailTemplates(logger)

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	if err := database.Ping(db); err != nil {
		logger.Fatal("pinging database", err)
	}
	defer logger.Info("Application stopped")

	// set up services
	var transport core.MailTransport
	if core.Conf.Debug {
		transport = emailsvc.NewConsoleTransport()
	} else {
		transport = emailsvc.NewSendgridTransport()
	}
	notifier := student.NewNotifier(transport, logger)

	batchRepo := sqlxrepos.NewBatchRepository(db)
	batchSvc := batch.NewService(batchRepo)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), batchRepo, notifier, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(core.Conf.Build)
	expvar.NewString("env").Set(core.Conf.Env)

	go func() {
		if err := http.ListenAndServe(core.Conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Addr:       core.Conf.Server.Address(),
			StudentSvc: studentSvc,
			BatchSvc:   batchSvc,
			Notifier:   notifier,
			Logger:     logger,
		},
	)
	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shut down and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
