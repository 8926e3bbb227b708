// dashboard/publisher.go
package dashboard

import (
	"context"
	"fmt"

	"habit-pact/calendar"
	"habit-pact/services"

	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const svgContentType = "image/svg+xml"

// Uploader stores a blob under a key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Snapshot lists where a published board ended up.
type Snapshot struct {
	DashboardURL  string            `json:"dashboard_url,omitempty"`
	ChallengeURLs map[string]string `json:"challenge_urls"`
}

type Publisher struct {
	uploader Uploader
	clock    clockwork.Clock
	log      *zap.SugaredLogger
}

func NewPublisher(uploader Uploader, clock clockwork.Clock, log *zap.SugaredLogger) *Publisher {
	return &Publisher{uploader: uploader, clock: clock, log: log}
}

// Publish uploads the full board for today and one board per challenge.
// Nothing is uploaded for an empty report.
func (p *Publisher) Publish(ctx context.Context, report []services.ActiveStreak) (*Snapshot, error) {
	snap := &Snapshot{ChallengeURLs: make(map[string]string, len(report))}
	if len(report) == 0 {
		p.log.Info("[Dashboard] No active challenges, nothing to publish")
		return snap, nil
	}

	key := fmt.Sprintf("dashboards/%s.svg", calendar.DayKey(p.clock.Now()))
	url, err := p.uploader.Upload(ctx, key, svgContentType, []byte(RenderSVG(report)))
	if err != nil {
		return nil, err
	}
	snap.DashboardURL = url

	for i, row := range report {
		url, err := p.uploader.Upload(ctx, ChallengeKey(row), svgContentType, []byte(RenderChallengeSVG(row, i)))
		if err != nil {
			return nil, err
		}
		snap.ChallengeURLs[row.ChallengeID] = url
	}

	p.log.Infof("[Dashboard] ✅ Published %s and %d challenge board(s)", key, len(report))
	return snap, nil
}

// ChallengeKey is the object key for one challenge's board.
func ChallengeKey(row services.ActiveStreak) string {
	name := slug.Make(row.HabitDescription)
	if name == "" {
		name = "challenge"
	}
	id := row.ChallengeID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("challenges/%s-%s.svg", name, id)
}
