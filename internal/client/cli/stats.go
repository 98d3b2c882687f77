package cli

import (
	"context"
	"fmt"
	"strings"
)

// stats fetches per-user counters from the backend. Needs both a token and a
// backend user ID, so it is unavailable for guests and offline sessions.
func (a *App) stats(ctx context.Context) {
	sess := a.session.Current()
	if sess == nil || sess.ID == "" {
		fmt.Println("Stats need a signed-in account with a server identity.")
		return
	}

	s, err := a.client.UserStats(ctx, sess.ID)
	if err != nil {
		a.log.Warn(ctx, "stats request failed", "error", err)
		fmt.Println("Could not fetch stats.")
		return
	}

	fmt.Println("Total dreams: ", s.TotalDreams)
	fmt.Println("Lucid dreams: ", s.LucidDreams)
	fmt.Printf("Lucidity rate: %.0f%%\n", s.LucidityRate*100)
	if len(s.UniqueTags) > 0 {
		fmt.Println("Tags:         ", strings.Join(s.UniqueTags, ", "))
	}
}
