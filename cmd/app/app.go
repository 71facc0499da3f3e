package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shaw8386/server/internal/api"
	"github.com/shaw8386/server/internal/config"
	"github.com/shaw8386/server/internal/db"
	"github.com/shaw8386/server/internal/logger"
	"github.com/shaw8386/server/internal/lottery"
	"github.com/shaw8386/server/internal/notify"
	"github.com/shaw8386/server/internal/repository"
	"github.com/shaw8386/server/internal/repository/dao"
	"github.com/shaw8386/server/internal/scheduler"
	"github.com/shaw8386/server/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	repo := repository.NewTicketRepository(dao.NewTicketDAO(postgresDB))

	var dispatcher service.Dispatcher
	if fcm, err := notify.NewFCMDispatcher(conf.Firebase); err != nil {
		// Missing FCM credentials are not fatal. Checks still run,
		// notifications become no-ops.
		zap.L().Warn("firebase messaging disabled", zap.Error(err))
		dispatcher = notify.NewNoopDispatcher()
	} else {
		dispatcher = fcm
	}

	fetcher := lottery.NewHTTPFetcher(nil, conf.Vendor.BaseURL, conf.Vendor.Timeout())

	svc := service.NewTicketService(repo, fetcher, dispatcher, conf.Draw, conf.Scheduler)

	sched := scheduler.New(svc, conf.Draw.Location(), conf.Scheduler.SweepEvery())
	svc.AttachScheduler(sched)
	if err = sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler -> %w", err)
	}
	defer sched.Stop()

	if err = sched.RearmPending(); err != nil {
		zap.L().Warn("failed to re-arm pending tickets, sweep will recover them", zap.Error(err))
	}

	s := api.NewServer(conf, svc)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
