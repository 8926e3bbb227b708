// cli/serve.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habit-pact/handlers"
	"habit-pact/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"
)

func NewServeCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the daily check-in scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(ctx, a)
		},
	}
}

// NewHTTPApp builds the fiber app with every route mounted.
func NewHTTPApp(a *App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "habit-pact",
		DisableStartupMessage: a.Config.IsProduction(),
		BodyLimit:             64 * 1024,
	})

	app.Use(middleware.RequestContext(a.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: a.Config.Origins(),
		AllowMethods: "GET,POST,OPTIONS,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		MaxAge:       86400, // 24 hours
	}))

	handlers.SetupChallengeRoutes(app, handlers.ChallengeDeps{
		Challenges: a.Challenges,
		Checkins:   a.Checkins,
		Mailer:     a.Mailer,
		Log:        a.Log,
	})
	handlers.SetupDashboardRoutes(app, a.Streaks, a.Log)
	handlers.SetupAdminRoutes(app, a.Job, a.Config.AdminToken, a.Log)

	return app
}

func serve(ctx context.Context, a *App) error {
	app := NewHTTPApp(a)

	sched, err := a.Job.StartScheduler(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			a.Log.Warnf("[Scheduler] Shutdown: %v", err)
		}
	}()

	go func() {
		if _, err := a.Job.CatchUpOnStartup(ctx); err != nil {
			a.Log.Errorf("[Scheduler] Catch-up run failed: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + a.Config.Port)
	}()

	a.Log.Infof("✅ Server running on %s (port %s)", a.Config.BaseURL(), a.Config.Port)
	a.Log.Infof("✅ CORS configured for origins: %s", a.Config.Origins())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down server...")
	return app.ShutdownWithTimeout(10 * time.Second)
}
