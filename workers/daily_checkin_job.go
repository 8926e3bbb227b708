// workers/daily_checkin_job.go
package workers

import (
	"context"
	"fmt"
	"time"

	"habit-pact/calendar"
	"habit-pact/dashboard"
	"habit-pact/mailer"
	"habit-pact/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const dailyCheckInKey = "daily-checkin"

type ReminderSource interface {
	DailyCheckInReminders(ctx context.Context) ([]services.CheckInReminder, error)
}

type ReportSource interface {
	ActiveStreaksReport(ctx context.Context) ([]services.ActiveStreak, error)
}

type SnapshotPublisher interface {
	Publish(ctx context.Context, report []services.ActiveStreak) (*dashboard.Snapshot, error)
}

// RunSummary reports what one daily run did.
type RunSummary struct {
	Date       string              `json:"date"`
	Challenges int                 `json:"challenges"`
	Sent       int                 `json:"sent"`
	Failed     int                 `json:"failed"`
	Snapshot   *dashboard.Snapshot `json:"snapshot,omitempty"`
}

// DailyCheckInJob mails every active challenge its check-in and publishes the
// board. The cron trigger and the admin trigger share one in-flight run.
type DailyCheckInJob struct {
	reminders ReminderSource
	streaks   ReportSource
	mailer    mailer.Mailer
	publisher SnapshotPublisher
	clock     clockwork.Clock
	hour      uint
	log       *zap.SugaredLogger

	group singleflight.Group
}

func NewDailyCheckInJob(reminders ReminderSource, streaks ReportSource, m mailer.Mailer, clock clockwork.Clock, hour uint, log *zap.SugaredLogger) *DailyCheckInJob {
	return &DailyCheckInJob{
		reminders: reminders,
		streaks:   streaks,
		mailer:    m,
		clock:     clock,
		hour:      hour,
		log:       log,
	}
}

// WithPublisher enables dashboard snapshots after each run.
func (j *DailyCheckInJob) WithPublisher(p SnapshotPublisher) *DailyCheckInJob {
	j.publisher = p
	return j
}

// Run sends today's check-ins. Callers arriving while a run is in flight get
// that run's summary.
func (j *DailyCheckInJob) Run(ctx context.Context) (*RunSummary, error) {
	v, err, shared := j.group.Do(dailyCheckInKey, func() (interface{}, error) {
		return j.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		j.log.Debug("[Scheduler] Joined an in-flight check-in run")
	}
	return v.(*RunSummary), nil
}

func (j *DailyCheckInJob) run(ctx context.Context) (*RunSummary, error) {
	started := j.clock.Now()
	summary := &RunSummary{Date: calendar.DayKey(started)}

	reminders, err := j.reminders.DailyCheckInReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	summary.Challenges = len(reminders)

	for _, r := range reminders {
		if err := j.mailer.SendDailyCheckIn(ctx, r); err != nil {
			summary.Failed++
			j.log.Errorf("[Scheduler] ❌ Check-in mail for challenge %s failed: %v", r.ChallengeID, err)
			continue
		}
		summary.Sent++
	}

	if j.publisher != nil {
		report, err := j.streaks.ActiveStreaksReport(ctx)
		if err != nil {
			j.log.Errorf("[Scheduler] Failed to build dashboard report: %v", err)
		} else if snap, err := j.publisher.Publish(ctx, report); err != nil {
			j.log.Errorf("[Scheduler] Failed to publish dashboard: %v", err)
		} else {
			summary.Snapshot = snap
		}
	}

	j.log.Infof("[Scheduler] ✅ Daily check-in for %s: %d challenge(s), %d sent, %d failed (%s)",
		summary.Date, summary.Challenges, summary.Sent, summary.Failed, j.clock.Since(started))
	return summary, nil
}

// StartScheduler registers the run at hour:00 UTC every day and starts the
// scheduler. The caller owns Shutdown.
func (j *DailyCheckInJob) StartScheduler(ctx context.Context) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithClock(j.clock),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(j.hour, 0, 0))),
		gocron.NewTask(func() {
			if _, err := j.Run(ctx); err != nil {
				j.log.Errorf("[Scheduler] Daily check-in run failed: %v", err)
			}
		}),
		gocron.WithName(dailyCheckInKey),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to register daily check-in job: %w", err)
	}

	sched.Start()
	j.log.Infof("[Scheduler] ⏰ Daily check-in scheduled at %02d:00 UTC", j.hour)
	return sched, nil
}

// CatchUpOnStartup runs once when the process starts inside the check-in hour,
// so a restart just after hour:00 does not skip the day.
func (j *DailyCheckInJob) CatchUpOnStartup(ctx context.Context) (bool, error) {
	if uint(j.clock.Now().UTC().Hour()) != j.hour {
		return false, nil
	}
	j.log.Info("[Scheduler] Started inside the check-in hour, running catch-up")
	if _, err := j.Run(ctx); err != nil {
		return true, err
	}
	return true, nil
}
