package cli

import (
	"context"
	"fmt"
)

// trends prints aggregate insights. The default view is the summary with
// streaks and the monthly histogram; "trends tags" and "trends timeline"
// show the per-tag frequencies and the daily counts.
func (a *App) trends(ctx context.Context, args []string) {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return
	}

	if len(args) > 0 {
		switch args[0] {
		case "tags":
			a.trendTags(ctx)
		case "timeline":
			a.trendTimeline(ctx)
		default:
			fmt.Println("Usage: trends [tags|timeline]")
		}
		return
	}

	summary, err := a.client.TrendSummary(ctx)
	if err != nil {
		a.log.Warn(ctx, "trend summary failed", "error", err)
		fmt.Println("Could not fetch trends.")
		return
	}

	if summary.Message != "" {
		fmt.Println(summary.Message)
	}
	fmt.Println("Total dreams:", summary.TotalDreams)
	fmt.Printf("Per week:     %.1f\n", summary.AvgPerWeek)
	if len(summary.CommonTags) > 0 {
		fmt.Println("Common tags:")
		for _, tc := range summary.CommonTags {
			fmt.Printf("  %-20s %d\n", tc.Tag, tc.Count)
		}
	}

	if streaks, err := a.client.TrendStreaks(ctx); err == nil {
		fmt.Printf("Streak:       %d (longest %d)\n", streaks.CurrentStreak, streaks.LongestStreak)
	} else {
		a.log.Warn(ctx, "trend streaks failed", "error", err)
	}

	if monthly, err := a.client.TrendMonthly(ctx); err == nil && len(monthly) > 0 {
		fmt.Println("By month:")
		for _, m := range monthly {
			fmt.Printf("  %-8s %s\n", m.Month, bar(m.DreamCount))
		}
	} else if err != nil {
		a.log.Warn(ctx, "trend monthly failed", "error", err)
	}
}

func (a *App) trendTags(ctx context.Context) {
	tags, err := a.client.TrendTags(ctx)
	if err != nil {
		a.log.Warn(ctx, "trend tags failed", "error", err)
		fmt.Println("Could not fetch tag trends.")
		return
	}
	if tags.Message != "" {
		fmt.Println(tags.Message)
	}
	if len(tags.Tags) == 0 {
		fmt.Println("No tagged dreams yet.")
		return
	}
	for _, tc := range tags.Tags {
		fmt.Printf("  %-20s %d\n", tc.Tag, tc.Count)
	}
}

func (a *App) trendTimeline(ctx context.Context) {
	timeline, err := a.client.TrendTimeline(ctx)
	if err != nil {
		a.log.Warn(ctx, "trend timeline failed", "error", err)
		fmt.Println("Could not fetch the timeline.")
		return
	}
	if len(timeline) == 0 {
		fmt.Println("Nothing recorded yet.")
		return
	}
	for _, e := range timeline {
		fmt.Printf("  %-12s %s\n", e.Date, bar(e.DreamCount))
	}
}

// bar renders a count as a crude histogram bar, capped at 40 columns.
func bar(n int) string {
	if n > 40 {
		n = 40
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = '#'
	}
	return string(out)
}
