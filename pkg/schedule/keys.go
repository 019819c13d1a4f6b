package schedule

import "github.com/samber/lo"

// Key is one (course, room, slot) triple eligible to be chosen by the model.
// Keys exist only where the course type matches the slot type.
type Key struct {
	Course string
	Room   string
	Slot   string
}

// Predicate decides key membership during filtering.
type Predicate func(course, room, slot string) bool

// Match selects keys by one field: either one exact name or every name. The
// zero Match matches only the empty string; use All to leave a field
// unconstrained.
type Match struct {
	value string
	any   bool
}

// All matches every name. It compares unequal to Exactly(v) for every v,
// including the empty string.
var All = Match{any: true}

// Exactly matches exactly one name.
func Exactly(value string) Match {
	return Match{value: value}
}

func (m Match) matches(value string) bool {
	return m.any || m.value == value
}

// FilterKeys narrows keys by exact field values. Each field narrows
// independently; a field set to All does not narrow. The input is never
// mutated and the result preserves input order.
func FilterKeys(keys []Key, course, room, slot Match) []Key {
	return lo.Filter(keys, func(key Key, _ int) bool {
		return course.matches(key.Course) && room.matches(key.Room) && slot.matches(key.Slot)
	})
}

// FilterKeysFunc narrows keys with a custom predicate. The predicate alone
// decides membership.
func FilterKeysFunc(keys []Key, predicate Predicate) []Key {
	return lo.Filter(keys, func(key Key, _ int) bool {
		return predicate(key.Course, key.Room, key.Slot)
	})
}
