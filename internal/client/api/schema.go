package api

import (
	"encoding/json"
	"fmt"
)

// Request and response bodies are modeled as explicit structs and decoded at
// the boundary; nothing downstream touches raw JSON.

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserSnapshot `json:"user,omitempty"`
}

// UserSnapshot is the optional user payload piggybacked on a login response.
type UserSnapshot struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	HasProfile bool             `json:"has_profile"`
	Profile    *UserProfileData `json:"profile,omitempty"`
}

// UserProfileData is the backend's partial profile schema. Display-only
// fields (name, zodiac) never cross the wire.
type UserProfileData struct {
	Birthdate       string   `json:"birthdate"`
	FavoriteElement string   `json:"favorite_element"`
	DreamGoals      []string `json:"dream_goals"`
}

type UserMe struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type registerResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

// DreamRecord is one item of GET /dream/dreams.
type DreamRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	DreamText   string   `json:"dream_text"`
	Summary     string   `json:"summary"`
	SubmittedAt string   `json:"submitted_at"`
	IsLucid     bool     `json:"is_lucid"`
	Tags        []string `json:"tags"`
	Mood        string   `json:"mood"`
}

type CreateDreamRequest struct {
	DreamText string   `json:"dreamText"`
	Title     string   `json:"title,omitempty"`
	IsLucid   bool     `json:"is_lucid"`
	Tags      []string `json:"tags"`
	Mood      string   `json:"mood,omitempty"`
}

type CreateDreamResponse struct {
	Message string `json:"message"`
	DreamID string `json:"dream_id"`
}

// UpdateDreamRequest carries a partial update; nil fields are omitted.
type UpdateDreamRequest struct {
	Title     *string   `json:"title,omitempty"`
	DreamText *string   `json:"dreamText,omitempty"`
	IsLucid   *bool     `json:"is_lucid,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Mood      *string   `json:"mood,omitempty"`
}

type ProfileUpdateRequest struct {
	Birthdate       string   `json:"birthdate,omitempty"`
	FavoriteElement string   `json:"favorite_element,omitempty"`
	DreamGoals      []string `json:"dream_goals,omitempty"`
}

type UserStats struct {
	TotalDreams  int      `json:"total_dreams"`
	LucidDreams  int      `json:"lucid_dreams"`
	LucidityRate float64  `json:"lucidity_rate"`
	UniqueTags   []string `json:"unique_tags"`
}

// TagCount decodes the backend's ["tag", count] tuples.
type TagCount struct {
	Tag   string
	Count int
}

func (t *TagCount) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("tag frequency tuple has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Tag); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &t.Count)
}

func (t TagCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Tag, t.Count})
}

type TrendSummary struct {
	TotalDreams int        `json:"total_dreams"`
	AvgPerWeek  float64    `json:"avg_per_week"`
	CommonTags  []TagCount `json:"common_tags"`
	Message     string     `json:"message,omitempty"`
}

type TrendTimelineEntry struct {
	Date       string `json:"date"`
	DreamCount int    `json:"dream_count"`
}

type TrendStreaks struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type TrendTags struct {
	Tags    []TagCount `json:"tags"`
	Message string     `json:"message,omitempty"`
}

type TrendMonthlyEntry struct {
	Month      string `json:"month"`
	DreamCount int    `json:"dream_count"`
}
