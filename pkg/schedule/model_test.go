package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

func fixtureRooms() []Room {
	return []Room{
		{Room: "Small", Capacity: 30},
		{Room: "Large", Capacity: 100},
	}
}

func fixtureCourses() []Course {
	return []Course{
		{Course: "CS101", Instructor: "Alice", Enrollment: 25, Type: "lecture"},
		{Course: "CS202", Instructor: "Alice", Enrollment: 80, Type: "lecture"},
		{Course: "LAB01", Instructor: "Bob", Enrollment: 20, Type: "lab"},
	}
}

func fixtureTimeSlots() []TimeSlot {
	return []TimeSlot{
		{Slot: "MWF-0900", Start: "09:00", End: "09:50", Days: "MWF", Type: "lecture"},
		{Slot: "MWF-1000", Start: "10:00", End: "10:50", Days: "MWF", Type: "lecture"},
		{Slot: "TTH-0930", Start: "09:30", End: "10:45", Days: "TTH", Type: "lecture"},
		{Slot: "LAB-M-1400", Start: "14:00", End: "16:00", Days: "M", Type: "lab"},
	}
}

func fixtureModel(t *testing.T) *Model {
	t.Helper()
	model, err := NewModel(fixtureRooms(), fixtureCourses(), fixtureTimeSlots())
	assert.Nil(t, err)
	return model
}

func TestNewModel(t *testing.T) {
	t.Run("keys exist only for matching types", func(t *testing.T) {
		// Act
		model := fixtureModel(t)

		// Assert: 2 lecture courses x 2 rooms x 3 lecture slots + 1 lab course x 2 rooms x 1 lab slot
		assert.Len(t, model.Keys, 14)
		for _, key := range model.Keys {
			assert.Equal(t, model.CourseTypes[key.Course], model.SlotTypes[key.Slot])
		}
	})

	t.Run("keys are in course major order", func(t *testing.T) {
		model := fixtureModel(t)

		assert.Equal(t, Key{Course: "CS101", Room: "Small", Slot: "MWF-0900"}, model.Keys[0])
		assert.Equal(t, Key{Course: "CS101", Room: "Small", Slot: "MWF-1000"}, model.Keys[1])
		assert.Equal(t, Key{Course: "CS101", Room: "Small", Slot: "TTH-0930"}, model.Keys[2])
		assert.Equal(t, Key{Course: "CS101", Room: "Large", Slot: "MWF-0900"}, model.Keys[3])
		assert.Equal(t, Key{Course: "LAB01", Room: "Large", Slot: "LAB-M-1400"}, model.Keys[13])
	})

	t.Run("derived tables", func(t *testing.T) {
		model := fixtureModel(t)

		assert.Equal(t, []string{"CS101", "CS202", "LAB01"}, model.Courses)
		assert.Equal(t, []string{"Alice", "Bob"}, model.Instructors)
		assert.Equal(t, 80, model.Enrollments["CS202"])
		assert.Equal(t, 100, model.Capacities["Large"])
		assert.Equal(t, "Alice", model.CourseInstructor["CS202"])
		assert.Equal(t, 540, model.SlotStartMinutes["MWF-0900"])
		assert.Equal(t, 590, model.SlotEndMinutes["MWF-0900"])
		assert.Equal(t, map[string]bool{"M": true, "W": true, "F": true}, model.SlotDays["MWF-0900"])
		assert.Equal(t, map[string]bool{"T": true, "TH": true}, model.SlotDays["TTH-0930"])

		assert.True(t, model.Teaches("Alice", "CS101"))
		assert.True(t, model.Teaches("Alice", "CS202"))
		assert.False(t, model.Teaches("Alice", "LAB01"))
		assert.True(t, model.Teaches("Bob", "LAB01"))
		assert.False(t, model.Teaches("Carol", "CS101"))
	})

	t.Run("missing record sets", func(t *testing.T) {
		_, err := NewModel(nil, fixtureCourses(), fixtureTimeSlots())
		assert.ErrorIs(t, err, ErrSetup)

		_, err = NewModel(fixtureRooms(), nil, fixtureTimeSlots())
		assert.ErrorIs(t, err, ErrSetup)

		_, err = NewModel(fixtureRooms(), fixtureCourses(), nil)
		assert.ErrorIs(t, err, ErrSetup)
	})

	t.Run("malformed slot time", func(t *testing.T) {
		slots := fixtureTimeSlots()
		slots[0].Start = "morning"

		_, err := NewModel(fixtureRooms(), fixtureCourses(), slots)

		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestModelExpressions(t *testing.T) {
	model := fixtureModel(t)

	t.Run("sum over filtered keys", func(t *testing.T) {
		expr := model.Sum(FilterKeys(model.Keys, Exactly("CS101"), All, All))

		assert.Len(t, expr.Terms, 6)
		for _, term := range expr.Terms {
			assert.Equal(t, 1.0, term.Coef)
		}
	})

	t.Run("weighted sum drops zero weights and unknown keys", func(t *testing.T) {
		keys := append([]Key{{Course: "ghost", Room: "Small", Slot: "MWF-0900"}}, model.Keys...)

		expr := model.WeightedSum(keys, func(key Key) float64 {
			if key.Course == "CS101" {
				return float64(model.Enrollments[key.Course])
			}
			return 0
		})

		assert.Len(t, expr.Terms, 6)
		for _, term := range expr.Terms {
			assert.Equal(t, 25.0, term.Coef)
		}
	})

	t.Run("rows accumulate", func(t *testing.T) {
		before := len(model.Rows())

		model.AddRow("test_row", model.Sum(model.Keys[:1]), milp.LE, 1)

		assert.Len(t, model.Rows(), before+1)
		assert.Equal(t, "test_row", model.Rows()[before].Name)
	})
}

func TestOverlapPredicate(t *testing.T) {
	model := fixtureModel(t)

	overlapping := func(slot string, buffer int) []string {
		names := map[string]bool{}
		for _, key := range FilterKeysFunc(model.Keys, model.OverlapPredicate(slot, All, buffer)) {
			names[key.Slot] = true
		}
		result := []string{}
		for _, candidate := range model.TimeSlots {
			if names[candidate] {
				result = append(result, candidate)
			}
		}
		return result
	}

	t.Run("slot overlaps itself", func(t *testing.T) {
		assert.Equal(t, []string{"MWF-0900"}, overlapping("MWF-0900", DefaultBufferMinutes))
	})

	t.Run("buffer absorbs short gaps", func(t *testing.T) {
		// MWF-0900 ends at 09:50, ten minutes before MWF-1000 starts.
		assert.Equal(t, []string{"MWF-0900", "MWF-1000"}, overlapping("MWF-1000", DefaultBufferMinutes))
		assert.Equal(t, []string{"MWF-1000"}, overlapping("MWF-1000", 0))
	})

	t.Run("different days never overlap", func(t *testing.T) {
		assert.Equal(t, []string{"TTH-0930"}, overlapping("TTH-0930", DefaultBufferMinutes))
	})

	t.Run("room restriction", func(t *testing.T) {
		keys := FilterKeysFunc(model.Keys, model.OverlapPredicate("MWF-0900", Exactly("Small"), DefaultBufferMinutes))

		assert.NotEmpty(t, keys)
		for _, key := range keys {
			assert.Equal(t, "Small", key.Room)
		}
	})
}

func TestAssignable(t *testing.T) {
	t.Run("matching covers every course", func(t *testing.T) {
		model := fixtureModel(t)

		ok, err := model.Assignable()

		assert.Nil(t, err)
		assert.True(t, ok)
	})

	t.Run("more courses than room slots", func(t *testing.T) {
		rooms := []Room{{Room: "Only", Capacity: 50}}
		courses := []Course{
			{Course: "A", Instructor: "X", Enrollment: 10, Type: "lecture"},
			{Course: "B", Instructor: "Y", Enrollment: 10, Type: "lecture"},
		}
		slots := []TimeSlot{{Slot: "S", Start: "09:00", End: "10:00", Days: "MWF", Type: "lecture"}}
		model, err := NewModel(rooms, courses, slots)
		assert.Nil(t, err)

		ok, err := model.Assignable()

		assert.Nil(t, err)
		assert.False(t, ok)
	})

	t.Run("capacity rules out the only room", func(t *testing.T) {
		rooms := []Room{{Room: "Tiny", Capacity: 5}}
		courses := []Course{{Course: "A", Instructor: "X", Enrollment: 10, Type: "lecture"}}
		slots := []TimeSlot{{Slot: "S", Start: "09:00", End: "10:00", Days: "MWF", Type: "lecture"}}
		model, err := NewModel(rooms, courses, slots)
		assert.Nil(t, err)

		ok, err := model.Assignable()

		assert.Nil(t, err)
		assert.False(t, ok)
	})
}

func BenchmarkSetup(b *testing.B) {
	rooms := make([]Room, 0, 8)
	for i := 0; i < 8; i++ {
		rooms = append(rooms, Room{Room: roomName(i), Capacity: 30 + 10*i})
	}
	courses := make([]Course, 0, 40)
	for i := 0; i < 40; i++ {
		courses = append(courses, Course{
			Course:     courseName(i),
			Instructor: instructorName(i % 12),
			Enrollment: 20 + i%60,
			Type:       "lecture",
		})
	}
	slots := []TimeSlot{
		{Slot: "MWF-0800", Start: "08:00", End: "08:50", Days: "MWF", Type: "lecture"},
		{Slot: "MWF-0900", Start: "09:00", End: "09:50", Days: "MWF", Type: "lecture"},
		{Slot: "MWF-1000", Start: "10:00", End: "10:50", Days: "MWF", Type: "lecture"},
		{Slot: "MWF-1100", Start: "11:00", End: "11:50", Days: "MWF", Type: "lecture"},
		{Slot: "TTH-0800", Start: "08:00", End: "09:15", Days: "TTH", Type: "lecture"},
		{Slot: "TTH-0930", Start: "09:30", End: "10:45", Days: "TTH", Type: "lecture"},
		{Slot: "TTH-1100", Start: "11:00", End: "12:15", Days: "TTH", Type: "lecture"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		model, err := NewModel(rooms, courses, slots)
		if err != nil {
			b.Fatal(err)
		}
		for _, constraint := range []Constraint{
			NewAssignAllCourses(),
			NewNoInstructorOverlap(DefaultBufferMinutes),
			NewNoRoomOverlap(DefaultBufferMinutes),
			NewRoomCapacity(),
		} {
			constraint.Apply(model)
		}
	}
}

func roomName(i int) string {
	return "Room" + string(rune('A'+i))
}

func courseName(i int) string {
	return "CRS-" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}

func instructorName(i int) string {
	return "Prof" + string(rune('A'+i))
}
