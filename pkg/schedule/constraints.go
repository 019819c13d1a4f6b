package schedule

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// Constraint is a named feasibility rule. Apply adds linear rows to the model
// and reports how many it added. Rules never remove rows, and applying a rule
// twice double-adds its rows, so a session applies each exactly once.
type Constraint interface {
	Name() string
	Apply(m *Model) int
}

type assignAllCourses struct{}

// NewAssignAllCourses pins every course to exactly one (room, slot)
// assignment.
func NewAssignAllCourses() Constraint {
	return assignAllCourses{}
}

func (assignAllCourses) Name() string {
	return "assign all courses"
}

func (assignAllCourses) Apply(m *Model) int {
	for _, course := range m.Courses {
		expr := m.Sum(FilterKeys(m.Keys, Exactly(course), All, All))
		m.AddRow(fmt.Sprintf("assign_course_%v", course), expr, milp.EQ, 1)
	}
	return len(m.Courses)
}

type noInstructorOverlap struct {
	bufferMinutes int
}

// NewNoInstructorOverlap keeps every instructor on at most one course among
// any set of mutually overlapping time slots.
func NewNoInstructorOverlap(bufferMinutes int) Constraint {
	return noInstructorOverlap{bufferMinutes: bufferMinutes}
}

func (noInstructorOverlap) Name() string {
	return "no instructor overlap"
}

func (c noInstructorOverlap) Apply(m *Model) int {
	rows := 0
	for _, slot := range m.TimeSlots {
		overlapping := FilterKeysFunc(m.Keys, m.OverlapPredicate(slot, All, c.bufferMinutes))
		for _, instructor := range m.Instructors {
			expr := m.WeightedSum(overlapping, func(key Key) float64 {
				if m.Teaches(instructor, key.Course) {
					return 1
				}
				return 0
			})
			m.AddRow(fmt.Sprintf("instructor_overlap_%v_%v", instructor, slot), expr, milp.LE, 1)
			rows++
		}
	}
	return rows
}

type noRoomOverlap struct {
	bufferMinutes int
}

// NewNoRoomOverlap keeps every room hosting at most one course among any set
// of mutually overlapping time slots.
func NewNoRoomOverlap(bufferMinutes int) Constraint {
	return noRoomOverlap{bufferMinutes: bufferMinutes}
}

func (noRoomOverlap) Name() string {
	return "no room overlap"
}

func (c noRoomOverlap) Apply(m *Model) int {
	rows := 0
	for _, room := range m.Rooms {
		for _, slot := range m.TimeSlots {
			expr := m.Sum(FilterKeysFunc(m.Keys, m.OverlapPredicate(slot, Exactly(room), c.bufferMinutes)))
			m.AddRow(fmt.Sprintf("room_overlap_%v_%v", room, slot), expr, milp.LE, 1)
			rows++
		}
	}
	return rows
}

type roomCapacity struct{}

// NewRoomCapacity keeps the enrollment hosted by a room within its capacity
// in every time slot.
func NewRoomCapacity() Constraint {
	return roomCapacity{}
}

func (roomCapacity) Name() string {
	return "room capacity"
}

func (roomCapacity) Apply(m *Model) int {
	rows := 0
	for _, room := range m.Rooms {
		for _, slot := range m.TimeSlots {
			keys := FilterKeys(m.Keys, All, Exactly(room), Exactly(slot))
			expr := m.WeightedSum(keys, func(key Key) float64 {
				return float64(m.Enrollments[key.Course])
			})
			m.AddRow(fmt.Sprintf("capacity_%v_%v", room, slot), expr, milp.LE, float64(m.Capacities[room]))
			rows++
		}
	}
	return rows
}

type forceRooms struct {
	forced map[string]string
}

// NewForceRooms pins courses to rooms given by an override table mapping
// course to room. Courses without an entry are unaffected. A forced room
// matching no key in the domain pins an empty sum to one, which makes the
// model infeasible and surfaces at solve time.
func NewForceRooms(forced map[string]string) Constraint {
	return forceRooms{forced: forced}
}

func (forceRooms) Name() string {
	return "force rooms"
}

func (c forceRooms) Apply(m *Model) int {
	rows := 0
	for _, course := range m.Courses {
		room, ok := c.forced[course]
		if !ok || room == "" {
			continue
		}
		expr := m.Sum(FilterKeys(m.Keys, Exactly(course), Exactly(room), All))
		m.AddRow(fmt.Sprintf("force_room_%v", course), expr, milp.EQ, 1)
		rows++
	}
	return rows
}

type forceTimeSlots struct {
	forced map[string]string
}

// NewForceTimeSlots pins courses to time slots given by an override table
// mapping course to slot. Courses without an entry are unaffected; unknown
// slots behave like unknown rooms in NewForceRooms.
func NewForceTimeSlots(forced map[string]string) Constraint {
	return forceTimeSlots{forced: forced}
}

func (forceTimeSlots) Name() string {
	return "force time slots"
}

func (c forceTimeSlots) Apply(m *Model) int {
	rows := 0
	for _, course := range m.Courses {
		slot, ok := c.forced[course]
		if !ok || slot == "" {
			continue
		}
		expr := m.Sum(FilterKeys(m.Keys, Exactly(course), All, Exactly(slot)))
		m.AddRow(fmt.Sprintf("force_slot_%v", course), expr, milp.EQ, 1)
		rows++
	}
	return rows
}

// ForcedRooms extracts the course-to-room override table from course records,
// skipping courses without an override.
func ForcedRooms(courses []Course) map[string]string {
	return lo.Associate(
		lo.Filter(courses, func(course Course, _ int) bool { return course.ForceRoom != "" }),
		func(course Course) (string, string) { return course.Course, course.ForceRoom },
	)
}

// ForcedTimeSlots extracts the course-to-slot override table from course
// records, skipping courses without an override.
func ForcedTimeSlots(courses []Course) map[string]string {
	return lo.Associate(
		lo.Filter(courses, func(course Course, _ int) bool { return course.ForceTimeSlot != "" }),
		func(course Course) (string, string) { return course.Course, course.ForceTimeSlot },
	)
}
