// mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"strings"

	"habit-pact/config"
	"habit-pact/models"
	"habit-pact/services"

	"go.uber.org/zap"
)

// Mailer is everything the engine's callers need to tell participants about.
type Mailer interface {
	SendInvitation(ctx context.Context, c *models.Challenge) error
	SendAcceptance(ctx context.Context, c *models.Challenge) error
	SendDailyCheckIn(ctx context.Context, r services.CheckInReminder) error
	SendStreakBroken(ctx context.Context, c *models.Challenge, side models.Side, previous int) error
}

// Message is one rendered e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport delivers rendered messages.
type Transport interface {
	Send(ctx context.Context, msgs ...Message) error
}

// Notifier renders the templates and hands the result to a Transport.
type Notifier struct {
	appURL    string
	transport Transport
	renderer  *renderer
	log       *zap.SugaredLogger
}

func NewNotifier(appURL string, transport Transport, log *zap.SugaredLogger) (*Notifier, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Notifier{
		appURL:    strings.TrimRight(appURL, "/"),
		transport: transport,
		renderer:  r,
		log:       log,
	}, nil
}

// New picks SMTP delivery when EMAIL_HOST is set and falls back to logging.
func New(cfg *config.Config, log *zap.SugaredLogger) (*Notifier, error) {
	var transport Transport = NewLogTransport(log)
	if cfg.Email.Enabled() {
		smtp, err := NewSMTPTransport(cfg.Email, log)
		if err != nil {
			return nil, err
		}
		transport = smtp
	}
	return NewNotifier(cfg.BaseURL(), transport, log)
}

func (n *Notifier) acceptURL(token string) string {
	return fmt.Sprintf("%s/challenge/accept/%s", n.appURL, token)
}

func (n *Notifier) checkInURL(challengeID, participantID, answer string) string {
	return fmt.Sprintf("%s/challenge/checkin/%s/%s/%s", n.appURL, challengeID, participantID, answer)
}

func (n *Notifier) SendInvitation(ctx context.Context, c *models.Challenge) error {
	html, err := n.renderer.render("invitation.html", invitationData{
		InitiatorEmail: c.Initiator.Email,
		Habit:          c.HabitDescription,
		AcceptURL:      n.acceptURL(c.InviteToken),
	})
	if err != nil {
		return err
	}
	return n.transport.Send(ctx, Message{
		To:      c.Friend.Email,
		Subject: fmt.Sprintf("%s challenged you to build a new habit!", c.Initiator.Email),
		HTML:    html,
	})
}

func (n *Notifier) SendAcceptance(ctx context.Context, c *models.Challenge) error {
	html, err := n.renderer.render("acceptance.html", acceptanceData{
		FriendEmail: c.Friend.Email,
		Habit:       c.HabitDescription,
	})
	if err != nil {
		return err
	}
	return n.transport.Send(ctx, Message{
		To:      c.Initiator.Email,
		Subject: fmt.Sprintf("%s accepted your habit challenge!", c.Friend.Email),
		HTML:    html,
	})
}

// SendDailyCheckIn sends one reminder to each side, each showing both calendars.
func (n *Notifier) SendDailyCheckIn(ctx context.Context, r services.CheckInReminder) error {
	msgs := make([]Message, 0, 2)
	for _, side := range []models.Side{models.SideInitiator, models.SideFriend} {
		self, partner := r.Recipient(side)
		html, err := n.renderer.render("daily_checkin.html", dailyCheckInData{
			Habit:   r.HabitDescription,
			Date:    r.Date,
			You:     self,
			Partner: partner,
			YesURL:  n.checkInURL(r.ChallengeID, self.ParticipantID, "yes"),
			NoURL:   n.checkInURL(r.ChallengeID, self.ParticipantID, "no"),
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, Message{
			To:      self.Email,
			Subject: fmt.Sprintf("Did you %s today?", r.HabitDescription),
			HTML:    html,
		})
	}
	return n.transport.Send(ctx, msgs...)
}

// SendStreakBroken tells the side that missed and their partner.
func (n *Notifier) SendStreakBroken(ctx context.Context, c *models.Challenge, side models.Side, previous int) error {
	self := c.ParticipantFor(side)
	partner := c.ParticipantFor(side.Partner())

	selfHTML, err := n.renderer.render("streak_broken.html", streakBrokenData{
		Self:         true,
		SubjectEmail: self.Email,
		Habit:        c.HabitDescription,
		Previous:     previous,
	})
	if err != nil {
		return err
	}
	partnerHTML, err := n.renderer.render("streak_broken.html", streakBrokenData{
		Self:         false,
		SubjectEmail: self.Email,
		Habit:        c.HabitDescription,
		Previous:     previous,
	})
	if err != nil {
		return err
	}

	return n.transport.Send(ctx,
		Message{
			To:      self.Email,
			Subject: fmt.Sprintf("Your streak for %s was broken", c.HabitDescription),
			HTML:    selfHTML,
		},
		Message{
			To:      partner.Email,
			Subject: fmt.Sprintf("%s's streak for %s was broken", self.Email, c.HabitDescription),
			HTML:    partnerHTML,
		},
	)
}
