// Package dashboard draws the 18-day progress board for active challenges and
// publishes snapshots of it.
package dashboard

import (
	"fmt"
	"html"
	"strings"

	"habit-pact/calendar"
	"habit-pact/services"
	"habit-pact/utils"
)

const (
	width         = 400
	topPadding    = 20
	groupHeight   = 150
	markerOrigin  = 20
	markerSize    = 20
	markerStroke  = "#ccd9e0"
	background    = "#f8f9fa"
	habitColor    = "#2c3e50"
	emailColor    = "#555555"
	fontFamily    = "Arial, sans-serif"
	barWidth      = width - 2*markerOrigin
	participantsY = 50
)

type colorScheme struct {
	bg   string
	fill string
}

var colorSchemes = []colorScheme{
	{bg: "#e3f2fd", fill: "#64b5f6"},
	{bg: "#e8f5e9", fill: "#81c784"},
	{bg: "#f8eae8", fill: "#f48fb1"},
	{bg: "#e0f7fa", fill: "#4fc3f7"},
	{bg: "#fff8e1", fill: "#ffd54f"},
	{bg: "#f3e5f5", fill: "#ce93d8"},
}

// RenderSVG draws one group per challenge: the habit label, then a row of
// ChallengeWindow markers for each participant. An empty report renders as "".
func RenderSVG(report []services.ActiveStreak) string {
	if len(report) == 0 {
		return ""
	}

	height := topPadding + groupHeight*len(report)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`+"\n", width, height)
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s" rx="0" ry="0" />`+"\n", width, height, background)

	y := topPadding
	for i, row := range report {
		scheme := colorSchemes[i%len(colorSchemes)]
		writeGroup(&b, y, row, scheme)
		y += groupHeight
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// RenderChallengeSVG draws a single challenge on its own board.
func RenderChallengeSVG(row services.ActiveStreak, index int) string {
	var b strings.Builder
	height := topPadding + groupHeight
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`+"\n", width, height)
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s" rx="0" ry="0" />`+"\n", width, height, background)
	writeGroup(&b, topPadding, row, colorSchemes[index%len(colorSchemes)])
	b.WriteString("</svg>\n")
	return b.String()
}

func writeGroup(b *strings.Builder, y int, row services.ActiveStreak, scheme colorScheme) {
	fmt.Fprintf(b, `  <g transform="translate(0, %d)">`+"\n", y)
	fmt.Fprintf(b, `    <rect x="%d" y="10" width="%d" height="30" rx="4" ry="4" fill="%s" />`+"\n", markerOrigin, barWidth, scheme.bg)
	fmt.Fprintf(b, `    <text x="%d" y="30" font-family="%s" font-size="16" font-weight="600" text-anchor="middle" fill="%s">%s</text>`+"\n",
		width/2, fontFamily, habitColor, html.EscapeString(row.HabitDescription))

	writeParticipant(b, participantsY, row.InitiatorEmail, row.InitiatorDayIndices, scheme)
	writeParticipant(b, participantsY+50, row.FriendEmail, row.FriendDayIndices, scheme)

	b.WriteString("  </g>\n")
}

func writeParticipant(b *strings.Builder, y int, email string, indices []int, scheme colorScheme) {
	done := make(map[int]bool, len(indices))
	for _, i := range indices {
		done[i] = true
	}

	fmt.Fprintf(b, `    <g transform="translate(0, %d)">`+"\n", y)
	fmt.Fprintf(b, `      <text x="%d" y="15" font-family="%s" font-size="14" fill="%s">%s</text>`+"\n",
		markerOrigin, fontFamily, emailColor, html.EscapeString(utils.TruncateEmail(email)))
	fmt.Fprintf(b, `      <rect x="%d" y="25" width="%d" height="20" rx="4" ry="4" fill="%s" />`+"\n", markerOrigin, barWidth, scheme.bg)

	for i := 0; i < calendar.ChallengeWindow; i++ {
		x := markerOrigin + i*markerSize
		if done[i] {
			fmt.Fprintf(b, `      <rect x="%d" y="25" width="%d" height="%d" fill="%s" />`+"\n", x, markerSize, markerSize, scheme.fill)
			continue
		}
		fmt.Fprintf(b, `      <rect x="%d" y="25" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1" />`+"\n",
			x, markerSize, markerSize, scheme.bg, markerStroke)
	}
	b.WriteString("    </g>\n")
}
