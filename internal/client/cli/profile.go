package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reveriehq/reverie/internal/client/models"
)

// profile shows the current profile when one is attached, or runs the
// onboarding wizard: name, birthday (with the zodiac reveal), favorite
// element and up to three dream goals.
func (a *App) profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	if sess := a.session.Current(); sess.HasProfile && sess.Profile != nil {
		printProfile(sess.Profile)
		redo, err := GetYesNo(a.reader, "Redo onboarding?", false, os.Stdout)
		if err != nil {
			return err
		}
		if !redo {
			return nil
		}
	}

	name, err := getSimpleText(a.reader, "What should we call you?", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Println("Cancelled.")
		return nil
	}

	var birthday string
	for {
		birthday, err = getSimpleText(a.reader, "Birthday (YYYY-MM-DD)", os.Stdout)
		if err != nil {
			return err
		}
		if _, perr := time.Parse("2006-01-02", birthday); perr == nil {
			break
		}
		fmt.Println("That does not look like a date.")
	}

	zodiac := models.ZodiacForBirthdate(birthday)
	fmt.Printf("%s %s: %s\n", zodiac.Symbol, zodiac.Sign, strings.Join(zodiac.Traits, ", "))

	elemIdx, err := GetChoice(a.reader, "Favorite element", models.Elements, 0, os.Stdout)
	if err != nil {
		return err
	}

	goals, err := a.pickDreamGoals()
	if err != nil {
		return err
	}

	a.session.CompleteProfile(ctx, models.Profile{
		Name:            name,
		Birthday:        birthday,
		FavoriteElement: models.Elements[elemIdx],
		DreamGoals:      goals,
	})

	fmt.Println("Profile saved. Welcome,", name)
	return nil
}

// pickDreamGoals collects up to MaxDreamGoals selections; an empty answer
// finishes early.
func (a *App) pickDreamGoals() ([]string, error) {
	fmt.Printf("Pick up to %d dream goals:\n", models.MaxDreamGoals)
	for i, opt := range models.DreamGoalOptions {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}

	line, err := getSimpleText(a.reader, "Numbers, comma separated (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}

	var goals []string
	seen := map[int]bool{}
	for _, part := range ParseTags(line) {
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil || n < 1 || n > len(models.DreamGoalOptions) {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		goals = append(goals, models.DreamGoalOptions[n-1])
		if len(goals) == models.MaxDreamGoals {
			break
		}
	}
	return goals, nil
}

func printProfile(p *models.Profile) {
	fmt.Println("Name:    ", p.Name)
	fmt.Printf("Zodiac:   %s %s (%s)\n", p.Zodiac.Symbol, p.Zodiac.Sign, p.Zodiac.Dates)
	fmt.Println("Element: ", p.FavoriteElement)
	if len(p.DreamGoals) > 0 {
		fmt.Println("Goals:   ", strings.Join(p.DreamGoals, "; "))
	}
}
