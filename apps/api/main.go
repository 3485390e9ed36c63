package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/org"
	"github.com/darasahq/darasa/core/student"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	sendgridmail "github.com/darasahq/darasa/services/email/sendgrid"
	logsvc "github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/storage/database"
	"github.com/darasahq/darasa/storage/database/sqlxrepos"
)

// build is injected at compile time via -ldflags.
var build = "dev"

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig(build)

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	if err = database.Migrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}
	resolver := access.NewResolver(logger)
	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(dbx), mailSvc)
	orgSvc := org.NewService(sqlxrepos.NewOrgRepository(dbx))
	stSvc := student.NewService(sqlxrepos.NewStudentRepository(dbx), resolver)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(dbx), resolver)

	ctx := context.Background()
	if _, err = orgSvc.Ensure(ctx, conf); err != nil {
		logger.Fatal(fmt.Sprintf("seeding organization: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		OrgSvc:     orgSvc,
		StudentSvc: stSvc,
		CourseSvc:  crsSvc,
		Registry:   access.DefaultRegistry,
		Resolver:   resolver,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	go app.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	stopCtx, cancel := context.WithTimeout(ctx, conf.Server.RequestTimeout)
	defer cancel()

	if err = app.Stop(stopCtx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
