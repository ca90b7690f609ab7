// Package tui renders terminal output for the agent CLI.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mpetrenko/fieldstore/models"
)

// barWidth is the character width of a tier usage bar.
const barWidth = 20

// RenderQuotaStatus formats a quota snapshot as a small terminal
// report: overall device usage, a per-tier usage bar, and the coarse
// pressure indicator.
func RenderQuotaStatus(status models.QuotaStatus) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Device storage"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s of %s (%s)\n",
		labelStyle.Render("used:"),
		formatBytes(status.UsedBytes),
		formatBytes(status.TotalBytes),
		stateStyle(status.Status).Render(string(status.Status)),
	))

	tiers := make([]models.Tier, 0, len(status.Tiers))
	for tier := range status.Tiers {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	for _, tier := range tiers {
		usage := status.Tiers[tier]
		b.WriteString(fmt.Sprintf("%-12s %s %s / %s\n",
			tier,
			renderBar(usage.UsedBytes, usage.LimitBytes),
			formatBytes(usage.UsedBytes),
			formatBytes(usage.LimitBytes),
		))
	}

	return b.String()
}

func stateStyle(state models.QuotaState) lipgloss.Style {
	switch state {
	case models.QuotaCritical:
		return criticalStyle
	case models.QuotaWarning:
		return warningStyle
	default:
		return okStyle
	}
}

func renderBar(used, limit int64) string {
	filled := 0
	if limit > 0 {
		filled = int(used * barWidth / limit)
		if filled > barWidth {
			filled = barWidth
		}
	}

	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

func formatBytes(n int64) string {
	const unit = 1024

	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.1f GiB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.1f MiB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.1f KiB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
