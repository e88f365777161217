package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"iglens/backend"
)

// metricCard is one fixed display card. Metric names outside this set
// are not rendered.
type metricCard struct {
	name   string
	label  string
	format func(float64) string
}

var metricCards = []metricCard{
	{backend.MetricLikes, "Likes", formatCount},
	{backend.MetricComments, "Comments", formatCount},
	{backend.MetricTotalPlays, "Total Plays", formatCount},
	{backend.MetricInitialPlays, "Initial Plays", formatCount},
	{backend.MetricTotalViewTime, "Total View Time", formatViewTime},
}

func (m Model) viewMain() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("iglens") + "\n\n")

	b.WriteString(m.renderMetricsSection())
	b.WriteString("\n")
	b.WriteString(m.renderSearchSection())

	nav := navStyle.Render("tab: switch field  enter: submit  ctrl+c: quit")
	if m.focus == focusMedia {
		nav = navStyle.Render("j/k: select post  enter: use post URL  tab: switch field  ctrl+c: quit")
	}
	b.WriteString("\n  " + nav + "\n")

	return b.String()
}

func (m Model) renderMetricsSection() string {
	var b strings.Builder

	label := labelStyle.Render("Post URL")
	if m.focus == focusPostURL {
		label = focusedLabelStyle.Render("Post URL")
	}
	b.WriteString("  " + label + "  " + m.postURL.View() + "\n")

	if m.loading {
		b.WriteString("  " + m.spinner.View() + " Fetching post metrics...\n")
	} else if m.errMsg != "" {
		b.WriteString("  " + m.renderBanner(m.errMsg) + "\n")
	}

	if m.metrics != nil {
		b.WriteString("\n" + m.renderMetricCards() + "\n")
	}

	return b.String()
}

// renderMetricCards renders the fixed card set. A metric missing from
// the response still gets its card, showing zero.
func (m Model) renderMetricCards() string {
	cards := make([]string, 0, len(metricCards))
	for _, c := range metricCards {
		value := valueStyle.Render(c.format(m.metrics.Value(c.name)))
		label := labelStyle.Render(c.label)
		cards = append(cards, cardStyle.Render(label+"\n"+value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	// Indent every card row line by two columns.
	return "  " + strings.ReplaceAll(row, "\n", "\n  ")
}

func (m Model) renderSearchSection() string {
	var b strings.Builder

	label := labelStyle.Render("Account ")
	if m.focus == focusUsername {
		label = focusedLabelStyle.Render("Account ")
	}
	b.WriteString("  " + label + "  " + m.username.View() + "\n")

	if m.searching {
		b.WriteString("  " + m.spinner.View() + " Searching...\n")
	} else if m.searchErr != "" {
		b.WriteString("  " + m.renderBanner(m.searchErr) + "\n")
	}

	if m.search != nil {
		b.WriteString("\n" + m.renderSearchResult())
	}

	return b.String()
}

func (m Model) renderSearchResult() string {
	var b strings.Builder

	user := m.search.User
	header := usernameStyle.Render("@" + user.Username)
	if user.Name != "" {
		header += "  " + captionStyle.Render(user.Name)
	}
	header += "  " + captionStyle.Render(fmt.Sprintf("%s followers · %d posts",
		formatCount(float64(user.FollowersCount)), user.MediaCount))
	b.WriteString("  " + header + "\n\n")

	for i, media := range m.search.Media {
		b.WriteString(m.renderMediaRow(i, media))
	}

	return b.String()
}

func (m Model) renderMediaRow(i int, media backend.Media) string {
	cursor := "  "
	if m.focus == focusMedia && i == m.mediaCursor {
		cursor = selectedStyle.Render("> ")
	}

	date := media.Timestamp
	if len(date) > 10 {
		date = date[:10]
	}

	counts := fmt.Sprintf("♥ %s  💬 %s",
		formatCount(float64(media.LikeCount)),
		formatCount(float64(media.CommentsCount)))

	caption := strings.ReplaceAll(media.Caption, "\n", " ")
	maxCaption := m.width - 40
	if maxCaption < 10 {
		maxCaption = 10
	}
	caption = runewidth.Truncate(caption, maxCaption, "...")

	line := fmt.Sprintf("  %s%s  %s  %s\n", cursor, date, counts, captionStyle.Render(caption))
	link := "      " + navStyle.Render(media.Permalink) + "\n"

	return line + link
}

// formatCount formats a count with K/M suffixes
func formatCount(v float64) string {
	n := int64(v)
	if n >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// formatViewTime renders the backend's millisecond total as seconds
// with one decimal.
func formatViewTime(v float64) string {
	return fmt.Sprintf("%.1fs", v/1000)
}
