package notifier

import (
	"fmt"
	"html"
	"strings"

	"MacroSentinel/internal/model"
)

var severityIcon = map[model.Severity]string{
	model.SeverityNormal:   "🟢",
	model.SeverityCaution:  "🟡",
	model.SeverityCritical: "🔴",
}

// FormatDashboard formats a dashboard state into a Telegram HTML message.
func FormatDashboard(state *model.DashboardState) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", html.EscapeString(state.Title), state.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
	b.WriteString(html.EscapeString(state.Message) + "\n\n")

	for _, ind := range state.Indicators {
		name := ind.Name
		if name == "" {
			name = ind.Key
		}
		line := fmt.Sprintf("%s %s: %.2f", severityIcon[ind.Severity], html.EscapeString(name), ind.Value)
		if ind.Stale {
			line += " <i>(fallback)</i>"
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(fmt.Sprintf("\nCritical: %d/%d", state.CriticalCount, len(state.Indicators)))
	if state.StaleCount > 0 {
		b.WriteString(fmt.Sprintf(" | Fallback: %d", state.StaleCount))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("💰 <b>%s</b>: growth %.0f%% / defensive %.0f%%\n",
		html.EscapeString(state.Recommendation.Text), state.Recommendation.GrowthPct, state.Recommendation.DefensivePct))
	return b.String()
}

// FormatAlert is the short message pushed when the level is above stable.
func FormatAlert(state *model.DashboardState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>%s</b>\n\n", html.EscapeString(state.Title)))
	for _, ind := range state.Indicators {
		if ind.Severity != model.SeverityCritical {
			continue
		}
		name := ind.Name
		if name == "" {
			name = ind.Key
		}
		b.WriteString(fmt.Sprintf("🔴 %s: %.2f\n", html.EscapeString(name), ind.Value))
	}
	b.WriteString("\n" + html.EscapeString(state.Message))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n• /status - current risk dashboard\n• /alerts - critical indicators only\n• /help - this message"
}
