package domain

import (
	"fmt"
	"time"
)

const (
	FitnessHabitID      = "fitness"
	FitnessStretchItem  = "Daily Stretching"
	FitnessClimbingItem = "Climbing"

	HeatmapWeeks = 16

	dateKeyLayout = "2006-01-02"
)

type HabitTemplate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Checklist   []string `json:"checklist"`
}

// Habits is the fixed catalog. There is exactly one private identity, so the
// catalog is compiled in rather than stored.
var Habits = []HabitTemplate{
	{
		ID:          "am-routine",
		Title:       "morning routine",
		Description: "Morning routine",
		Checklist:   []string{"Water floss", "Brush teeth", "Face cleanse", "Vitamin C", "Moisturizer", "Sunscreen"},
	},
	{
		ID:          "pm-routine",
		Title:       "nighttime routine",
		Description: "Evening routine",
		Checklist:   []string{"Water floss", "String floss", "Mouthwash", "Brush teeth", "Face double cleanse", "Vitamin C", "Moisturizer"},
	},
	{
		ID:          FitnessHabitID,
		Title:       "fitness",
		Description: "Fitness routine",
		Checklist:   []string{FitnessStretchItem, FitnessClimbingItem},
	},
}

func TemplateByID(id string) (HabitTemplate, bool) {
	for _, habit := range Habits {
		if habit.ID == id {
			return habit, true
		}
	}
	return HabitTemplate{}, false
}

// ToDateKey formats a local calendar date as YYYY-MM-DD.
func ToDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey returns local midnight of the given date key.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain: invalid date key %q: %w", key, err)
	}
	return t, nil
}

// ShiftDateKey moves a date key by the given number of calendar days,
// handling month and year rollover. An unparseable key is returned unchanged.
func ShiftDateKey(key string, days int) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return ToDateKey(t.AddDate(0, 0, days))
}

// CurrentStreak counts consecutive completed days ending at todayKey if it is
// completed, otherwise at the day before. A run that ended yesterday keeps its
// full length until today is decided; a gap yesterday reports 0 even when
// older days are completed.
func CurrentStreak(completedDates []string, todayKey string) int {
	done := make(map[string]bool, len(completedDates))
	for _, key := range completedDates {
		done[key] = true
	}

	anchor := todayKey
	if !done[anchor] {
		anchor = ShiftDateKey(todayKey, -1)
	}
	if !done[anchor] {
		return 0
	}

	streak := 0
	for cursor := anchor; done[cursor]; {
		streak++
		prev := ShiftDateKey(cursor, -1)
		if prev == cursor {
			// Unparseable cursor; the walk cannot advance.
			break
		}
		cursor = prev
	}
	return streak
}

// IsClimbingRequired reports whether the fitness habit needs Climbing checked
// on the given date: dates with an even epoch-day index require it, so the
// requirement alternates strictly every calendar day.
func IsClimbingRequired(dateKey string) bool {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return false
	}
	dayIndex := floorDiv(t.UnixMilli(), 86400000)
	return dayIndex%2 == 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// CanCheckIn reports whether a habit may be checked in for a date given the
// checklist items checked on that date. Fitness needs Daily Stretching always
// and Climbing only on climbing-required days; every other habit needs its
// full checklist.
func CanCheckIn(habitID string, checklist []string, checkedToday map[string]bool, dateKey string) bool {
	if habitID != FitnessHabitID {
		for _, item := range checklist {
			if !checkedToday[item] {
				return false
			}
		}
		return true
	}

	if !checkedToday[FitnessStretchItem] {
		return false
	}
	if !IsClimbingRequired(dateKey) {
		return true
	}
	return checkedToday[FitnessClimbingItem]
}

// CheckInHint explains what still blocks a check-in.
func CheckInHint(habitID string, checkedToday map[string]bool, dateKey string) string {
	if habitID != FitnessHabitID {
		return "Complete all checklist items to check in."
	}
	if !checkedToday[FitnessStretchItem] {
		return "Daily Stretching is required to check in."
	}
	if IsClimbingRequired(dateKey) && !checkedToday[FitnessClimbingItem] {
		return "Climbing is required today."
	}
	return "Complete required items to check in."
}

// HeatmapColumns returns HeatmapWeeks columns of seven date keys each, ending
// at todayKey.
func HeatmapColumns(todayKey string) [][]string {
	columns := make([][]string, 0, HeatmapWeeks)
	start := ShiftDateKey(todayKey, -(HeatmapWeeks*7 - 1))

	for week := 0; week < HeatmapWeeks; week++ {
		column := make([]string, 0, 7)
		for day := 0; day < 7; day++ {
			column = append(column, ShiftDateKey(start, week*7+day))
		}
		columns = append(columns, column)
	}
	return columns
}

// DayLabel renders a date key as a short human label, e.g. "Jan 2, 2024".
func DayLabel(dateKey string) string {
	t, err := ParseDateKey(dateKey)
	if err != nil {
		return dateKey
	}
	return t.Format("Jan 2, 2006")
}
