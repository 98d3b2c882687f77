// Package models defines the client-side data model: dream records, the user
// profile with its zodiac classification, and the persisted session.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers generated on this client for records whose
// create call has not yet been confirmed by the backend. Once the backend
// answers with its own identifier the record is renamed in place.
const LocalIDPrefix = "local-"

// Moods a dream can be filed under. The backend stores the value verbatim.
var Moods = []string{
	"happy",
	"peaceful",
	"excited",
	"curious",
	"confused",
	"anxious",
	"scared",
	"sad",
	"neutral",
}

// Dream is a single journal entry as kept in the local working copy.
type Dream struct {
	// ID is unique within one user's collection. Client-generated IDs carry
	// LocalIDPrefix until the backend confirms the create.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Date is an ISO 8601 timestamp.
	Date string `json:"date"`

	// Mood is one of Moods.
	Mood string `json:"mood"`

	Tags     []string `json:"tags"`
	Lucidity bool     `json:"lucidity"`

	// Analysis is the summary text; falls back to the description when the
	// backend has nothing richer.
	Analysis string `json:"analysis"`
}

// DreamPatch is a partial update. Nil fields are left untouched.
type DreamPatch struct {
	Title       *string
	Description *string
	Date        *string
	Mood        *string
	Tags        *[]string
	Lucidity    *bool
	Analysis    *string
}

// Apply copies the patch's set fields onto d.
func (p DreamPatch) Apply(d *Dream) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Mood != nil {
		d.Mood = *p.Mood
	}
	if p.Tags != nil {
		d.Tags = *p.Tags
	}
	if p.Lucidity != nil {
		d.Lucidity = *p.Lucidity
	}
	if p.Analysis != nil {
		d.Analysis = *p.Analysis
	}
}

// NewLocalID returns a fresh client-generated dream identifier.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was generated on this client and is still
// awaiting a server-assigned replacement.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// ValidMood reports whether mood is one of the fixed values.
func ValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

// SeedDreams returns the fixed demo collection used by the reset operation.
func SeedDreams() []Dream {
	return []Dream{
		{
			ID:          "1",
			Date:        "2025-10-26T00:00:00.000Z",
			Title:       "Flying over mountains",
			Mood:        "peaceful",
			Description: "I was gliding effortlessly above snow-capped mountains at sunset. The air felt crisp and the sky painted in shades of purple and gold.",
			Analysis:    "This dream suggests a desire for freedom and perspective in your life.",
			Tags:        []string{"flying", "mountains", "sunset"},
			Lucidity:    true,
		},
		{
			ID:          "2",
			Date:        "2025-10-25T00:00:00.000Z",
			Title:       "Ocean waves",
			Mood:        "calm",
			Description: "I stood by a quiet shoreline at night, listening to rhythmic waves while constellations shimmered above. The water glowed softly.",
			Analysis:    "Water often represents emotions; calm waves suggest emotional balance.",
			Tags:        []string{"ocean", "night", "stars"},
			Lucidity:    false,
		},
	}
}
