package tracker

import "github.com/venkatarun/hidden-habits/internal/core/domain"

// Exported aliases so importers of this package can name the domain types
// without reaching into internal packages.
type (
	// Store is an alias of domain.HabitStore.
	Store = domain.HabitStore
	// HabitState is an alias of domain.HabitState.
	HabitState = domain.HabitState
	// Template is an alias of domain.HabitTemplate.
	Template = domain.HabitTemplate
)

// Habits is the fixed habit catalog.
var Habits = domain.Habits
