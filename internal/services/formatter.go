package services

import (
	"fmt"
	"strings"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/models"
)

func ModuleStatusIcon(entry MenuEntry) string {
	switch {
	case entry.Complete:
		return "✅"
	case entry.Unlocked:
		return "▶️"
	default:
		return "🔒"
	}
}

func FormatMenu(entries []MenuEntry) string {
	var sb strings.Builder
	sb.WriteString(FormatBold("TrustSphere modules"))
	for _, e := range entries {
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("%s %s\n", ModuleStatusIcon(e), FormatBold(fmt.Sprintf("Module %d: %s", e.Module.ID, e.Module.Title))))
		sb.WriteString(FormatItalic(e.Module.Summary))
	}
	return sb.String()
}

func FormatModuleIntro(m *catalog.Module) string {
	return SafeConcat(
		FormatBold(fmt.Sprintf("Module %d: %s", m.ID, m.Title)),
		"\n\n",
		EscapeText(strings.TrimSpace(m.Intro)),
	)
}

func FormatActionResponse(a *catalog.Action) string {
	return EscapeText(strings.TrimSpace(a.Response))
}

func FormatProgress(record models.ProgressRecord, c *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString(FormatBold("Your progress"))
	sb.WriteString(fmt.Sprintf("\n%d of %d modules complete\n", record.CompletedCount(), len(models.AllModules)))
	for _, id := range models.AllModules {
		title := ""
		if m, ok := c.Module(id); ok {
			title = m.Title
		}
		entry := MenuEntry{Unlocked: record.CanEnter(id), Complete: record.IsComplete(id)}
		sb.WriteString(fmt.Sprintf("\n%s Module %d: %s", ModuleStatusIcon(entry), id, EscapeText(title)))
	}
	return sb.String()
}
