// mailer/render.go
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"habit-pact/services"
)

//go:embed templates/*.html
var templateFS embed.FS

type invitationData struct {
	InitiatorEmail string
	Habit          string
	AcceptURL      string
}

type acceptanceData struct {
	FriendEmail string
	Habit       string
}

type dailyCheckInData struct {
	Habit   string
	Date    string
	You     services.ReminderParticipant
	Partner services.ReminderParticipant
	YesURL  string
	NoURL   string
}

type streakBrokenData struct {
	Self         bool
	SubjectEmail string
	Habit        string
	Previous     int
}

type renderer struct {
	tmpl *template.Template
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"shortDate": shortDate,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &renderer{tmpl: tmpl}, nil
}

func (r *renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// shortDate turns "2024-01-03" into "01-03" for the calendar strip.
func shortDate(day string) string {
	if len(day) == len("2006-01-02") {
		return day[5:]
	}
	return day
}
