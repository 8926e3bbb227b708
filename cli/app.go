// cli/app.go
package cli

import (
	"context"
	"fmt"

	"habit-pact/config"
	"habit-pact/dashboard"
	"habit-pact/database"
	"habit-pact/mailer"
	"habit-pact/services"
	"habit-pact/utils"
	"habit-pact/workers"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the wired process: one database handle, one clock and one logger
// shared by every component.
type App struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	DB     *gorm.DB
	Clock  clockwork.Clock

	Identity   *services.IdentityService
	Challenges *services.ChallengeService
	Checkins   *services.CheckinService
	Streaks    *services.StreakService
	Reminders  *services.ReminderService

	Mailer *mailer.Notifier
	Job    *workers.DailyCheckInJob
}

// loadApp reads configuration and builds the App. The caller must Close it.
func loadApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewApp(ctx, cfg, log, clockwork.NewRealClock())
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, clock clockwork.Clock) (*App, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, DB: db, Clock: clock}
	a.Identity = services.NewIdentityService(db, log)
	a.Challenges = services.NewChallengeService(db, a.Identity, clock, log)
	a.Checkins = services.NewCheckinService(db, clock, log)
	a.Streaks = services.NewStreakService(db, log)
	a.Reminders = services.NewReminderService(db, clock, log)

	a.Mailer, err = mailer.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if !cfg.Email.Enabled() {
		log.Warn("⚠️ EMAIL_HOST not set, outgoing mail is only logged")
	}

	a.Job = workers.NewDailyCheckInJob(a.Reminders, a.Streaks, a.Mailer, clock, cfg.CheckinHour, log)
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		a.Job.WithPublisher(dashboard.NewPublisher(r2, clock, log))
		log.Infof("🖼️ Dashboard snapshots go to R2 bucket %s", cfg.R2.Bucket)
	}

	return a, nil
}

func (a *App) Close() error {
	_ = a.Log.Sync()
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
