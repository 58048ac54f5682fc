package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	emailsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/email"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/services/filestore"
	logsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/logger"
	pdfsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/pdf"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database"
	sqlxrepos "github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	sink, err := logsvc.NewZapLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(sink.Named("ADMIN"), conf)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(conf, logger)

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(db),
		courseSvc: course.NewService(
			sqlxrepos.NewCourseRepository(db),
			filestore.NewStore(afero.NewOsFs(), conf.Media.Root),
			pdfsvc.NewRenderer(conf.Certificate.Issuer),
			mailSvc,
			logger,
		),
	}
	err = cli.run(os.Args)

	if w, ok := mailSvc.(interface{ Wait() }); ok {
		w.Wait()
	}
	_ = db.Close()
	logger.Sync()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
