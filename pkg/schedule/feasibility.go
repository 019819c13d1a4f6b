package schedule

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type roomSlot struct {
	Room string
	Slot string
}

// Assignable checks a necessary feasibility condition before any solver runs:
// a maximum bipartite matching between courses and (room, slot) pairs must
// cover every course, honoring type compatibility and room capacity. A false
// result proves that no schedule can assign all courses to private room
// slots; a true result says nothing about the remaining constraints.
func (m *Model) Assignable() (bool, error) {
	pairs := make([]roomSlot, 0, len(m.Rooms)*len(m.TimeSlots))
	for _, room := range m.Rooms {
		for _, slot := range m.TimeSlots {
			pairs = append(pairs, roomSlot{Room: room, Slot: slot})
		}
	}

	// Build neighbors predicate over the key domain
	neighbors := func(courseAny any, pairAny any) (bool, error) {
		course := courseAny.(string)
		pair := pairAny.(roomSlot)

		if _, ok := m.columns[Key{Course: course, Room: pair.Room, Slot: pair.Slot}]; !ok {
			return false, nil
		}
		return m.Enrollments[course] <= m.Capacities[pair.Room], nil
	}

	// Transform courses and pairs to slices of any
	coursesAny := lo.Map(m.Courses, func(course string, _ int) any { return course })
	pairsAny := lo.Map(pairs, func(pair roomSlot, _ int) any { return pair })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, pairsAny, neighbors)
	if err != nil {
		return false, err
	}

	matching := graph.LargestMatching()
	return len(matching) == len(m.Courses), nil
}
