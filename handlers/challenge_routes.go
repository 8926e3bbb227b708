// handlers/challenge_routes.go
package handlers

import (
	"habit-pact/apperrors"
	"habit-pact/mailer"
	"habit-pact/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChallengeDeps is what the participant-facing routes need.
type ChallengeDeps struct {
	Challenges *services.ChallengeService
	Checkins   *services.CheckinService
	Mailer     mailer.Mailer
	Log        *zap.SugaredLogger
}

// SetupChallengeRoutes registers the link-driven participant flow. Mail
// failures are logged and never undo what the engine already recorded.
func SetupChallengeRoutes(app *fiber.App, d ChallengeDeps) {
	app.Post("/challenge/create", func(c *fiber.Ctx) error {
		var req services.CreateChallengeRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, d.Log, apperrors.Validation("invalid request body"))
		}

		challenge, err := d.Challenges.Create(c.UserContext(), req)
		if err != nil {
			return respondError(c, d.Log, err)
		}

		if err := d.Mailer.SendInvitation(c.UserContext(), challenge); err != nil {
			d.Log.Warnf("⚠️ [Challenge] Invitation for %s not sent: %v", challenge.ID, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "Challenge created! An invitation has been sent to " + challenge.Friend.Email,
			"challenge": challenge,
		})
	})

	app.Get("/challenge/accept/:token", func(c *fiber.Ctx) error {
		challenge, err := d.Challenges.AcceptByToken(c.UserContext(), c.Params("token"))
		if err != nil {
			return respondError(c, d.Log, err)
		}

		if err := d.Mailer.SendAcceptance(c.UserContext(), challenge); err != nil {
			d.Log.Warnf("⚠️ [Challenge] Acceptance notice for %s not sent: %v", challenge.ID, err)
		}

		return c.JSON(fiber.Map{
			"message":   "Challenge accepted! Your 18 days start today.",
			"challenge": challenge,
		})
	})

	app.Get("/challenge/checkin/:challengeId/:userId/:completed", func(c *fiber.Ctx) error {
		var completed bool
		switch c.Params("completed") {
		case "yes":
			completed = true
		case "no":
			completed = false
		default:
			return respondError(c, d.Log, apperrors.Validation("completed must be yes or no"))
		}

		result, err := d.Checkins.RecordCheckIn(c.UserContext(), services.CheckInRequest{
			ChallengeID:   c.Params("challengeId"),
			ParticipantID: c.Params("userId"),
			Completed:     completed,
		})
		if err != nil {
			return respondError(c, d.Log, err)
		}

		if result.StreakWasReset {
			if err := d.Mailer.SendStreakBroken(c.UserContext(), result.Challenge, result.Side, result.PreviousStreak); err != nil {
				d.Log.Warnf("⚠️ [Checkin] Streak-broken notice for %s not sent: %v", result.Challenge.ID, err)
			}
		}

		return c.JSON(result)
	})
}
