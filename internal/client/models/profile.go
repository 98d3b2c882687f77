package models

import "time"

// Zodiac is the classification derived from a birthdate. It is display data:
// always recomputed from the birthdate, never trusted from a cache.
type Zodiac struct {
	Sign    string   `json:"sign"`
	Symbol  string   `json:"symbol"`
	Element string   `json:"element"`
	Traits  []string `json:"traits"`
	Dates   string   `json:"dates"`
}

// Profile is the user-declared preference data captured during onboarding.
// Name and Zodiac are client-only; birthday, element and goals are the
// partial schema synchronized to the backend.
type Profile struct {
	Name            string   `json:"name" validate:"required"`
	Birthday        string   `json:"birthday" validate:"required,datetime=2006-01-02"`
	FavoriteElement string   `json:"favoriteElement" validate:"required,oneof=Fire Earth Air Water"`
	DreamGoals      []string `json:"dreamGoals" validate:"max=3"`
	Zodiac          Zodiac   `json:"zodiacSign"`
}

// Elements a user can pick as their favorite.
var Elements = []string{"Fire", "Earth", "Air", "Water"}

// DreamGoalOptions is the fixed list onboarding chooses from, capped at
// MaxDreamGoals selections.
var DreamGoalOptions = []string{
	"Increase lucid dreaming frequency",
	"Better dream recall",
	"Overcome nightmares",
	"Explore creativity through dreams",
	"Find personal insights",
	"Spiritual growth and connection",
	"Problem-solving through dreams",
	"Emotional healing",
}

const MaxDreamGoals = 3

type zodiacRange struct {
	Zodiac
	startMonth, startDay int
	endMonth, endDay     int
}

var zodiacRanges = []zodiacRange{
	{Zodiac{"Aries", "♈", "Fire", []string{"Bold", "Energetic", "Independent"}, "March 21 - April 19"}, 3, 21, 4, 19},
	{Zodiac{"Taurus", "♉", "Earth", []string{"Reliable", "Patient", "Practical"}, "April 20 - May 20"}, 4, 20, 5, 20},
	{Zodiac{"Gemini", "♊", "Air", []string{"Curious", "Adaptable", "Expressive"}, "May 21 - June 20"}, 5, 21, 6, 20},
	{Zodiac{"Cancer", "♋", "Water", []string{"Nurturing", "Intuitive", "Protective"}, "June 21 - July 22"}, 6, 21, 7, 22},
	{Zodiac{"Leo", "♌", "Fire", []string{"Confident", "Creative", "Generous"}, "July 23 - August 22"}, 7, 23, 8, 22},
	{Zodiac{"Virgo", "♍", "Earth", []string{"Analytical", "Helpful", "Detail-oriented"}, "August 23 - September 22"}, 8, 23, 9, 22},
	{Zodiac{"Libra", "♎", "Air", []string{"Diplomatic", "Balanced", "Social"}, "September 23 - October 22"}, 9, 23, 10, 22},
	{Zodiac{"Scorpio", "♏", "Water", []string{"Intense", "Passionate", "Mysterious"}, "October 23 - November 21"}, 10, 23, 11, 21},
	{Zodiac{"Sagittarius", "♐", "Fire", []string{"Adventurous", "Optimistic", "Free-spirited"}, "November 22 - December 21"}, 11, 22, 12, 21},
	{Zodiac{"Capricorn", "♑", "Earth", []string{"Ambitious", "Disciplined", "Responsible"}, "December 22 - January 19"}, 12, 22, 1, 19},
	{Zodiac{"Aquarius", "♒", "Air", []string{"Independent", "Innovative", "Humanitarian"}, "January 20 - February 18"}, 1, 20, 2, 18},
	{Zodiac{"Pisces", "♓", "Water", []string{"Compassionate", "Artistic", "Intuitive"}, "February 19 - March 20"}, 2, 19, 3, 20},
}

// ZodiacForBirthdate classifies a birthdate (YYYY-MM-DD) against the fixed
// calendar ranges. Capricorn wraps the year boundary. Unparseable dates fall
// back to the first sign, matching the permissive behavior of the onboarding
// form.
func ZodiacForBirthdate(birthdate string) Zodiac {
	t, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return zodiacRanges[0].Zodiac
	}
	month, day := int(t.Month()), t.Day()

	for _, z := range zodiacRanges {
		if z.Sign == "Capricorn" {
			if (month == 12 && day >= z.startDay) || (month == 1 && day <= z.endDay) {
				return z.Zodiac
			}
			continue
		}
		if (month == z.startMonth && day >= z.startDay) || (month == z.endMonth && day <= z.endDay) {
			return z.Zodiac
		}
	}

	return zodiacRanges[0].Zodiac
}
