package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// solveFixture applies the constraints to a fresh fixture model and solves a
// pure feasibility problem with the exhaustive reference solver.
func solveFixture(t *testing.T, constraints ...Constraint) (*Model, milp.Solution) {
	t.Helper()
	model := fixtureModel(t)
	for _, constraint := range constraints {
		constraint.Apply(model)
	}

	solution, err := milp.NewBruteForceSolver().Solve(model.problem(milp.Expr{}, milp.Minimize))
	assert.Nil(t, err)
	return model, solution
}

func chosenKeys(model *Model, solution milp.Solution) []Key {
	var chosen []Key
	for i, key := range model.Keys {
		if solution.Values[i] > 0.5 {
			chosen = append(chosen, key)
		}
	}
	return chosen
}

func TestAssignAllCourses(t *testing.T) {
	// Arrange
	model := fixtureModel(t)

	// Act
	rows := NewAssignAllCourses().Apply(model)

	// Assert
	assert.Equal(t, 3, rows)
	assert.Len(t, model.Rows(), 3)
	for _, row := range model.Rows() {
		assert.Equal(t, milp.EQ, row.Op)
		assert.Equal(t, 1.0, row.RHS)
	}

	model2, solution := solveFixture(t, NewAssignAllCourses())
	assert.Equal(t, milp.StatusOptimal, solution.Status)

	perCourse := map[string]int{}
	for _, key := range chosenKeys(model2, solution) {
		perCourse[key.Course]++
	}
	assert.Equal(t, map[string]int{"CS101": 1, "CS202": 1, "LAB01": 1}, perCourse)
}

func TestNoInstructorOverlap(t *testing.T) {
	model := fixtureModel(t)

	rows := NewNoInstructorOverlap(DefaultBufferMinutes).Apply(model)

	// One row per (slot, instructor) pair
	assert.Equal(t, 8, rows)

	model2, solution := solveFixture(t, NewAssignAllCourses(), NewNoInstructorOverlap(DefaultBufferMinutes))
	assert.Equal(t, milp.StatusOptimal, solution.Status)

	// Alice teaches CS101 and CS202; their slots must not overlap, and the
	// buffer makes MWF-0900 and MWF-1000 mutually exclusive.
	slots := map[string]string{}
	for _, key := range chosenKeys(model2, solution) {
		slots[key.Course] = key.Slot
	}
	assert.NotEqual(t, slots["CS101"], slots["CS202"])

	mwf := map[string]bool{"MWF-0900": true, "MWF-1000": true}
	assert.False(t, mwf[slots["CS101"]] && mwf[slots["CS202"]])
}

func TestNoRoomOverlap(t *testing.T) {
	model := fixtureModel(t)

	rows := NewNoRoomOverlap(DefaultBufferMinutes).Apply(model)

	// One row per (room, slot) pair
	assert.Equal(t, 8, rows)

	model2, solution := solveFixture(t, NewAssignAllCourses(), NewNoRoomOverlap(DefaultBufferMinutes))
	assert.Equal(t, milp.StatusOptimal, solution.Status)

	seen := map[[2]string]bool{}
	for _, key := range chosenKeys(model2, solution) {
		pair := [2]string{key.Room, key.Slot}
		assert.False(t, seen[pair], "room %v hosts two courses in %v", key.Room, key.Slot)
		seen[pair] = true
	}
}

func TestRoomCapacity(t *testing.T) {
	model := fixtureModel(t)

	rows := NewRoomCapacity().Apply(model)

	assert.Equal(t, 8, rows)

	model2, solution := solveFixture(t, NewAssignAllCourses(), NewRoomCapacity())
	assert.Equal(t, milp.StatusOptimal, solution.Status)

	// CS202 enrolls 80 and only fits the large room.
	for _, key := range chosenKeys(model2, solution) {
		if key.Course == "CS202" {
			assert.Equal(t, "Large", key.Room)
		}
	}
}

func TestForceRooms(t *testing.T) {
	t.Run("pins listed courses only", func(t *testing.T) {
		model := fixtureModel(t)

		rows := NewForceRooms(map[string]string{"CS101": "Small"}).Apply(model)

		assert.Equal(t, 1, rows)

		model2, solution := solveFixture(t,
			NewAssignAllCourses(),
			NewForceRooms(map[string]string{"CS101": "Small"}),
		)
		assert.Equal(t, milp.StatusOptimal, solution.Status)
		for _, key := range chosenKeys(model2, solution) {
			if key.Course == "CS101" {
				assert.Equal(t, "Small", key.Room)
			}
		}
	})

	t.Run("unknown forced room is infeasible at solve time", func(t *testing.T) {
		_, solution := solveFixture(t,
			NewAssignAllCourses(),
			NewForceRooms(map[string]string{"CS101": "Nowhere"}),
		)

		assert.Equal(t, milp.StatusInfeasible, solution.Status)
	})
}

func TestForceTimeSlots(t *testing.T) {
	t.Run("pins listed courses only", func(t *testing.T) {
		model2, solution := solveFixture(t,
			NewAssignAllCourses(),
			NewForceTimeSlots(map[string]string{"CS101": "TTH-0930"}),
		)

		assert.Equal(t, milp.StatusOptimal, solution.Status)
		for _, key := range chosenKeys(model2, solution) {
			if key.Course == "CS101" {
				assert.Equal(t, "TTH-0930", key.Slot)
			}
		}
	})

	t.Run("slot of the wrong type is infeasible at solve time", func(t *testing.T) {
		// LAB-M-1400 is a lab slot, so no CS101 key can reach it.
		_, solution := solveFixture(t,
			NewAssignAllCourses(),
			NewForceTimeSlots(map[string]string{"CS101": "LAB-M-1400"}),
		)

		assert.Equal(t, milp.StatusInfeasible, solution.Status)
	})
}

func TestForcedOverrideTables(t *testing.T) {
	courses := []Course{
		{Course: "A", ForceRoom: "R1"},
		{Course: "B", ForceTimeSlot: "S1"},
		{Course: "C"},
	}

	assert.Equal(t, map[string]string{"A": "R1"}, ForcedRooms(courses))
	assert.Equal(t, map[string]string{"B": "S1"}, ForcedTimeSlots(courses))
}
