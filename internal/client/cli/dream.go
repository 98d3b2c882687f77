package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reveriehq/reverie/internal/client/models"
)

func (a *App) addDream(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := GetMultiline(a.reader, "Describe the dream", os.Stdout)
	if err != nil {
		return err
	}
	if description == "" {
		fmt.Println("A dream needs a description.")
		return nil
	}

	moodIdx, err := GetChoice(a.reader, "Mood", models.Moods, defaultMoodIndex(), os.Stdout)
	if err != nil {
		return err
	}

	tagLine, err := getSimpleText(a.reader, "Tags (comma separated, optional)", os.Stdout)
	if err != nil {
		return err
	}

	lucid, err := GetYesNo(a.reader, "Was it lucid?", false, os.Stdout)
	if err != nil {
		return err
	}

	dream := a.journal.Add(ctx, models.Dream{
		Title:       title,
		Description: description,
		Mood:        models.Moods[moodIdx],
		Tags:        ParseTags(tagLine),
		Lucidity:    lucid,
	})

	fmt.Println("Saved as", dream.ID)
	return nil
}

func (a *App) list(ctx context.Context) {
	collection := a.journal.Dreams()
	if len(collection) == 0 {
		fmt.Println("The journal is empty. Use 'add' to record a dream.")
		return
	}

	for _, d := range collection {
		marker := " "
		if models.IsLocalID(d.ID) {
			marker = "*"
		}
		fmt.Printf("%s %-12s %-10s %-8s %s\n", marker, d.ID, shortDate(d.Date), d.Mood, d.Title)
	}
}

func (a *App) show(ctx context.Context, id string) {
	dream, ok := a.findDream(id)
	if !ok {
		fmt.Println("No dream with id", id)
		return
	}

	fmt.Println("Title:   ", dream.Title)
	fmt.Println("Date:    ", shortDate(dream.Date))
	fmt.Println("Mood:    ", dream.Mood)
	fmt.Println("Lucid:   ", yesNo(dream.Lucidity))
	if len(dream.Tags) > 0 {
		fmt.Println("Tags:    ", strings.Join(dream.Tags, ", "))
	}
	fmt.Println()
	fmt.Println(dream.Description)
	if dream.Analysis != "" && dream.Analysis != dream.Description {
		fmt.Println()
		fmt.Println("Analysis:", dream.Analysis)
	}
}

// edit prompts per field; an empty answer keeps the current value.
func (a *App) edit(ctx context.Context, id string) error {
	dream, ok := a.findDream(id)
	if !ok {
		fmt.Println("No dream with id", id)
		return nil
	}

	var patch models.DreamPatch

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", dream.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	description, err := GetMultiline(a.reader, "Description (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		patch.Description = &description
	}

	moodLine, err := getSimpleText(a.reader, fmt.Sprintf("Mood [%s]", dream.Mood), os.Stdout)
	if err != nil {
		return err
	}
	if moodLine != "" {
		if !models.ValidMood(moodLine) {
			fmt.Println("Unknown mood:", moodLine)
			return nil
		}
		patch.Mood = &moodLine
	}

	tagLine, err := getSimpleText(a.reader, fmt.Sprintf("Tags [%s]", strings.Join(dream.Tags, ", ")), os.Stdout)
	if err != nil {
		return err
	}
	if tagLine != "" {
		tags := ParseTags(tagLine)
		patch.Tags = &tags
	}

	lucid, err := GetYesNo(a.reader, "Lucid?", dream.Lucidity, os.Stdout)
	if err != nil {
		return err
	}
	if lucid != dream.Lucidity {
		patch.Lucidity = &lucid
	}

	a.journal.Update(ctx, id, patch)
	fmt.Println("Updated", id)
	return nil
}

func (a *App) delete(ctx context.Context, id string) {
	if _, ok := a.findDream(id); !ok {
		fmt.Println("No dream with id", id)
		return
	}
	a.journal.Delete(ctx, id)
	fmt.Println("Deleted", id)
}

func (a *App) reset(ctx context.Context) error {
	confirmed, err := GetYesNo(a.reader, "Replace the whole journal with the starter entries?", false, os.Stdout)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}
	a.journal.Reset(ctx)
	fmt.Println("Journal reset.")
	return nil
}

// sync pushes pending mutations first, then pulls the merged collection.
func (a *App) sync(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Log in first; guest journals stay on this device.")
		return
	}
	a.journal.Flush(ctx)
	a.journal.Sync(ctx)
	fmt.Println("Synced.")
}

func (a *App) findDream(id string) (models.Dream, bool) {
	for _, d := range a.journal.Dreams() {
		if d.ID == id {
			return d, true
		}
	}
	return models.Dream{}, false
}
