package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

func knownIDs() []string {
	ids := make([]string, 0, len(domain.Habits))
	for _, habit := range domain.Habits {
		ids = append(ids, habit.ID)
	}
	return ids
}

func TestNormalizeStore(t *testing.T) {
	t.Run("Success: non-structured input yields the default store", func(t *testing.T) {
		for _, raw := range []any{nil, "garbage", 42, []any{"a"}, true} {
			store := domain.NormalizeStore(raw)
			assert.Len(t, store, len(domain.Habits))
			for _, id := range knownIDs() {
				assert.Contains(t, store, id)
			}
		}
	})

	t.Run("Success: unknown ids dropped, missing ids filled", func(t *testing.T) {
		raw := map[string]any{
			"intruder": map[string]any{"completedDates": []any{"2024-01-01"}},
			"fitness": map[string]any{
				"completedDates": []any{"2024-01-01"},
			},
		}

		store := domain.NormalizeStore(raw)

		assert.NotContains(t, store, "intruder")
		assert.Equal(t, []string{"2024-01-01"}, store["fitness"].CompletedDates)
		assert.Empty(t, store["am-routine"].CompletedDates)
		assert.Empty(t, store["pm-routine"].CompletedDates)
	})

	t.Run("Success: non-string entries are filtered out", func(t *testing.T) {
		raw := map[string]any{
			"am-routine": map[string]any{
				"completedDates": []any{"2024-01-01", 7, nil, "2024-01-02"},
				"checklistByDate": map[string]any{
					"2024-01-01": []any{"Brush teeth", 3, false},
					"2024-01-02": "not-a-list",
				},
			},
		}

		store := domain.NormalizeStore(raw)
		state := store["am-routine"]

		assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, state.CompletedDates)
		assert.Equal(t, []string{"Brush teeth"}, state.ChecklistByDate["2024-01-01"])
		assert.NotContains(t, state.ChecklistByDate, "2024-01-02")
	})

	t.Run("Success: empty and filtered-to-empty date entries are kept", func(t *testing.T) {
		raw := map[string]any{
			"am-routine": map[string]any{
				"checklistByDate": map[string]any{
					"2024-01-01": []any{},
					"2024-01-02": []any{42, false},
				},
			},
		}

		byDate := domain.NormalizeStore(raw)["am-routine"].ChecklistByDate
		assert.Contains(t, byDate, "2024-01-01")
		assert.Contains(t, byDate, "2024-01-02")
		assert.Empty(t, byDate["2024-01-01"])
		assert.Empty(t, byDate["2024-01-02"])
	})

	t.Run("Success: idempotent", func(t *testing.T) {
		raw := map[string]any{
			"fitness": map[string]any{
				"completedDates":  []any{"2024-02-02", "2024-02-01", "2024-02-02"},
				"checklistByDate": map[string]any{"2024-02-02": []any{"Climbing", "Daily Stretching"}},
			},
		}

		once := domain.NormalizeStore(raw)
		twice := domain.NormalizeStore(once)
		assert.Equal(t, once, twice)
	})

	t.Run("Success: NormalizeJSON degrades to default on malformed data", func(t *testing.T) {
		store := domain.NormalizeJSON([]byte("{not json"))
		assert.Equal(t, domain.DefaultStore(), store)
	})
}

func TestCanonicalPayload(t *testing.T) {
	t.Run("Success: equal contents produce identical bytes", func(t *testing.T) {
		a := domain.NormalizeStore(map[string]any{
			"fitness": map[string]any{"completedDates": []any{"2024-01-02", "2024-01-01"}},
		})
		b := domain.NormalizeStore(map[string]any{
			"fitness": map[string]any{"completedDates": []any{"2024-01-01", "2024-01-02"}},
		})

		payloadA, err := a.CanonicalPayload()
		assert.NoError(t, err)
		payloadB, err := b.CanonicalPayload()
		assert.NoError(t, err)
		assert.Equal(t, payloadA, payloadB)
	})

	t.Run("Success: empty collections serialize as [] and {}", func(t *testing.T) {
		payload, err := domain.DefaultStore().CanonicalPayload()
		assert.NoError(t, err)
		assert.Contains(t, string(payload), `"completedDates":[]`)
		assert.Contains(t, string(payload), `"checklistByDate":{}`)
	})

	t.Run("Success: round-trips through NormalizeJSON", func(t *testing.T) {
		store := domain.DefaultStore()
		store.ToggleChecklistItem("pm-routine", "Mouthwash", "2024-03-01")

		payload, err := store.CanonicalPayload()
		assert.NoError(t, err)
		assert.Equal(t, domain.NormalizeStore(store), domain.NormalizeJSON(payload))
	})
}

func TestToggleChecklistItem(t *testing.T) {
	t.Run("Success: toggling twice restores the item set, keeping the day on record", func(t *testing.T) {
		store := domain.DefaultStore()

		assert.True(t, store.ToggleChecklistItem("am-routine", "Brush teeth", "2024-01-01"))
		assert.Equal(t, []string{"Brush teeth"}, store["am-routine"].ChecklistByDate["2024-01-01"])

		assert.True(t, store.ToggleChecklistItem("am-routine", "Brush teeth", "2024-01-01"))
		items, present := store["am-routine"].ChecklistByDate["2024-01-01"]
		assert.True(t, present, "the emptied day must keep its entry")
		assert.Empty(t, items)

		payload, err := store.CanonicalPayload()
		assert.NoError(t, err)
		assert.Contains(t, string(payload), `"2024-01-01":[]`)
	})

	t.Run("Fail: unknown habit id is ignored", func(t *testing.T) {
		store := domain.DefaultStore()
		assert.False(t, store.ToggleChecklistItem("intruder", "x", "2024-01-01"))
		assert.NotContains(t, store, "intruder")
	})
}

func TestCheckIn(t *testing.T) {
	climbDay, restDay := climbingDays(t)

	t.Run("Fail: refused until the rule holds", func(t *testing.T) {
		store := domain.DefaultStore()
		assert.False(t, store.CheckIn(domain.FitnessHabitID, restDay))
	})

	t.Run("Success: fitness on a rest day needs only stretching", func(t *testing.T) {
		store := domain.DefaultStore()
		store.ToggleChecklistItem(domain.FitnessHabitID, domain.FitnessStretchItem, restDay)

		assert.True(t, store.CheckIn(domain.FitnessHabitID, restDay))
		assert.Equal(t, []string{restDay}, store[domain.FitnessHabitID].CompletedDates)
	})

	t.Run("Fail: fitness on a climbing day needs climbing too", func(t *testing.T) {
		store := domain.DefaultStore()
		store.ToggleChecklistItem(domain.FitnessHabitID, domain.FitnessStretchItem, climbDay)
		assert.False(t, store.CheckIn(domain.FitnessHabitID, climbDay))

		store.ToggleChecklistItem(domain.FitnessHabitID, domain.FitnessClimbingItem, climbDay)
		assert.True(t, store.CheckIn(domain.FitnessHabitID, climbDay))
	})

	t.Run("Success: append-only per date", func(t *testing.T) {
		store := domain.DefaultStore()
		store.ToggleChecklistItem(domain.FitnessHabitID, domain.FitnessStretchItem, restDay)

		assert.True(t, store.CheckIn(domain.FitnessHabitID, restDay))
		assert.False(t, store.CheckIn(domain.FitnessHabitID, restDay), "second check-in must not change the store")
		assert.Equal(t, []string{restDay}, store[domain.FitnessHabitID].CompletedDates)
	})

	t.Run("Success: full checklist required for routine habits", func(t *testing.T) {
		store := domain.DefaultStore()
		template, ok := domain.TemplateByID("am-routine")
		assert.True(t, ok)

		for _, item := range template.Checklist[:len(template.Checklist)-1] {
			store.ToggleChecklistItem("am-routine", item, restDay)
		}
		assert.False(t, store.CheckIn("am-routine", restDay))

		store.ToggleChecklistItem("am-routine", template.Checklist[len(template.Checklist)-1], restDay)
		assert.True(t, store.CheckIn("am-routine", restDay))
	})
}

func TestClone(t *testing.T) {
	store := domain.DefaultStore()
	store.ToggleChecklistItem("pm-routine", "Mouthwash", "2024-03-01")

	clone := store.Clone()
	clone.ToggleChecklistItem("pm-routine", "Brush teeth", "2024-03-01")

	assert.Equal(t, []string{"Mouthwash"}, store["pm-routine"].ChecklistByDate["2024-03-01"])
	assert.Equal(t, []string{"Brush teeth", "Mouthwash"}, clone["pm-routine"].ChecklistByDate["2024-03-01"])
}
