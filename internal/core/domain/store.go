package domain

import (
	"encoding/json"
	"sort"
)

type HabitState struct {
	CompletedDates  []string            `json:"completedDates"`
	ChecklistByDate map[string][]string `json:"checklistByDate"`
}

// HabitStore maps habit template ids to their tracked state. Exactly one
// store exists per deployment.
type HabitStore map[string]HabitState

func emptyState() HabitState {
	return HabitState{
		CompletedDates:  []string{},
		ChecklistByDate: map[string][]string{},
	}
}

// DefaultStore returns a store with one empty state per known template.
func DefaultStore() HabitStore {
	store := make(HabitStore, len(Habits))
	for _, habit := range Habits {
		store[habit.ID] = emptyState()
	}
	return store
}

// NormalizeStore is total: for any input it returns a store whose key set
// exactly equals the known habit ids. Unknown ids are dropped, missing ids
// filled with empty state, non-string dates and non-string checklist items
// filtered out. A date entry whose value was a sequence is kept even when
// every item is filtered away. Anything that is not a structured mapping
// yields the default store. Collections come back deduplicated and sorted,
// so normalized stores have a canonical serialized form.
func NormalizeStore(raw any) HabitStore {
	switch v := raw.(type) {
	case HabitStore:
		return normalizeTyped(v)
	case map[string]HabitState:
		return normalizeTyped(v)
	case map[string]any:
		return normalizeDecoded(v)
	default:
		return DefaultStore()
	}
}

// NormalizeJSON decodes and normalizes a serialized store; malformed data
// yields the default store.
func NormalizeJSON(data []byte) HabitStore {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultStore()
	}
	return NormalizeStore(raw)
}

func normalizeTyped(incoming map[string]HabitState) HabitStore {
	store := DefaultStore()
	for _, habit := range Habits {
		existing, ok := incoming[habit.ID]
		if !ok {
			continue
		}
		state := emptyState()
		state.CompletedDates = dedupeSorted(existing.CompletedDates)
		for date, items := range existing.ChecklistByDate {
			state.ChecklistByDate[date] = dedupeSorted(items)
		}
		store[habit.ID] = state
	}
	return store
}

func normalizeDecoded(incoming map[string]any) HabitStore {
	store := DefaultStore()
	for _, habit := range Habits {
		rawState, ok := incoming[habit.ID].(map[string]any)
		if !ok {
			continue
		}

		state := emptyState()
		if rawDates, ok := rawState["completedDates"].([]any); ok {
			state.CompletedDates = dedupeSorted(stringsOf(rawDates))
		}
		if rawByDate, ok := rawState["checklistByDate"].(map[string]any); ok {
			for date, rawItems := range rawByDate {
				items, ok := rawItems.([]any)
				if !ok {
					continue
				}
				state.ChecklistByDate[date] = dedupeSorted(stringsOf(items))
			}
		}
		store[habit.ID] = state
	}
	return store
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			out = append(out, value)
		}
	}
	sort.Strings(out)
	return out
}

// CanonicalPayload serializes the normalized store deterministically. Two
// stores with equal contents always produce identical bytes, which is what
// the cache no-op check and the client dirty check compare.
func (s HabitStore) CanonicalPayload() ([]byte, error) {
	return json.Marshal(NormalizeStore(s))
}

// Clone returns a deep copy.
func (s HabitStore) Clone() HabitStore {
	out := make(HabitStore, len(s))
	for id, state := range s {
		copied := HabitState{
			CompletedDates:  append([]string{}, state.CompletedDates...),
			ChecklistByDate: make(map[string][]string, len(state.ChecklistByDate)),
		}
		for date, items := range state.ChecklistByDate {
			copied.ChecklistByDate[date] = append([]string{}, items...)
		}
		out[id] = copied
	}
	return out
}

// CheckedOn returns the set of checklist items checked for a date.
func (st HabitState) CheckedOn(dateKey string) map[string]bool {
	checked := make(map[string]bool, len(st.ChecklistByDate[dateKey]))
	for _, item := range st.ChecklistByDate[dateKey] {
		checked[item] = true
	}
	return checked
}

func (st HabitState) isCompleted(dateKey string) bool {
	for _, key := range st.CompletedDates {
		if key == dateKey {
			return true
		}
	}
	return false
}

// ToggleChecklistItem flips one checklist item for one day. Toggling twice
// restores the prior item set, with the day left on record even when empty.
// Unknown habit ids are ignored.
func (s HabitStore) ToggleChecklistItem(habitID, item, dateKey string) bool {
	state, ok := s[habitID]
	if !ok {
		return false
	}

	checked := state.CheckedOn(dateKey)
	if checked[item] {
		delete(checked, item)
	} else {
		checked[item] = true
	}

	items := make([]string, 0, len(checked))
	for it := range checked {
		items = append(items, it)
	}
	sort.Strings(items)

	if state.ChecklistByDate == nil {
		state.ChecklistByDate = map[string][]string{}
	}
	// An emptied day keeps its entry with an empty list; the day stays on
	// record as touched.
	state.ChecklistByDate[dateKey] = items
	s[habitID] = state
	return true
}

// CheckIn marks a habit complete for a date. It is append-only per date and
// refused unless the habit's check-in rule holds for the items checked on
// that date. Returns true only when the store changed.
func (s HabitStore) CheckIn(habitID, dateKey string) bool {
	state, ok := s[habitID]
	if !ok {
		return false
	}
	template, ok := TemplateByID(habitID)
	if !ok {
		return false
	}
	if !CanCheckIn(habitID, template.Checklist, state.CheckedOn(dateKey), dateKey) {
		return false
	}
	if state.isCompleted(dateKey) {
		return false
	}

	state.CompletedDates = dedupeSorted(append(state.CompletedDates, dateKey))
	s[habitID] = state
	return true
}

// Streak returns the current completion streak for a habit as of todayKey.
func (s HabitStore) Streak(habitID, todayKey string) int {
	return CurrentStreak(s[habitID].CompletedDates, todayKey)
}
