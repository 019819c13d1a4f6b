package schedule

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// DefaultBufferMinutes widens overlap detection: a slot ending within this
// many minutes before another slot starts still conflicts with it.
const DefaultBufferMinutes = 15

type instructorCourse struct {
	Instructor string
	Course     string
}

// Model is the decision domain of one solving session: the type-filtered key
// universe, one binary column per key, the lookup tables derived from the
// records, and the accumulated constraint rows. Everything except the row
// list is fixed once NewModel returns.
type Model struct {
	Courses     []string
	Rooms       []string
	TimeSlots   []string
	Instructors []string

	// Keys is the assignment-key universe in course-major order. Keys[i]
	// corresponds to binary column i of the optimization problem.
	Keys []Key

	Enrollments      map[string]int
	Capacities       map[string]int
	CourseTypes      map[string]string
	CourseInstructor map[string]string
	SlotTypes        map[string]string
	SlotStartMinutes map[string]int
	SlotEndMinutes   map[string]int
	SlotDays         map[string]map[string]bool

	teaches map[instructorCourse]bool
	columns map[Key]int
	rows    []milp.Row
}

// NewModel builds the decision domain from loaded record sets. A key
// (course, room, slot) is created only where the course type equals the slot
// type. Missing record sets are a setup failure.
func NewModel(rooms []Room, courses []Course, slots []TimeSlot) (*Model, error) {
	if len(rooms) == 0 || len(courses) == 0 {
		return nil, fmt.Errorf("%w: room and course data must be loaded first", ErrSetup)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: time slot data must be loaded first", ErrSetup)
	}

	model := &Model{
		Courses:          lo.Map(courses, func(course Course, _ int) string { return course.Course }),
		Rooms:            lo.Map(rooms, func(room Room, _ int) string { return room.Room }),
		TimeSlots:        lo.Map(slots, func(slot TimeSlot, _ int) string { return slot.Slot }),
		Enrollments:      make(map[string]int, len(courses)),
		Capacities:       make(map[string]int, len(rooms)),
		CourseTypes:      make(map[string]string, len(courses)),
		CourseInstructor: make(map[string]string, len(courses)),
		SlotTypes:        make(map[string]string, len(slots)),
		SlotStartMinutes: make(map[string]int, len(slots)),
		SlotEndMinutes:   make(map[string]int, len(slots)),
		SlotDays:         make(map[string]map[string]bool, len(slots)),
		teaches:          make(map[instructorCourse]bool),
		columns:          make(map[Key]int),
	}

	for _, course := range courses {
		model.Enrollments[course.Course] = course.Enrollment
		model.CourseTypes[course.Course] = course.Type
		model.CourseInstructor[course.Course] = course.Instructor
	}
	for _, room := range rooms {
		model.Capacities[room.Room] = room.Capacity
	}
	for _, slot := range slots {
		start, err := TimeToMinutes(slot.Start)
		if err != nil {
			return nil, fmt.Errorf("time slot %v: %w", slot.Slot, err)
		}
		end, err := TimeToMinutes(slot.End)
		if err != nil {
			return nil, fmt.Errorf("time slot %v: %w", slot.Slot, err)
		}
		model.SlotStartMinutes[slot.Slot] = start
		model.SlotEndMinutes[slot.Slot] = end
		model.SlotTypes[slot.Slot] = slot.Type

		days := make(map[string]bool)
		for _, day := range ExpandDays(slot.Days) {
			days[day] = true
		}
		model.SlotDays[slot.Slot] = days
	}

	model.Instructors = lo.Uniq(lo.Map(courses, func(course Course, _ int) string { return course.Instructor }))
	for _, instructor := range model.Instructors {
		for _, course := range model.Courses {
			model.teaches[instructorCourse{instructor, course}] = model.CourseInstructor[course] == instructor
		}
	}

	// Decision columns exist only where course and slot types agree.
	for _, course := range model.Courses {
		for _, room := range model.Rooms {
			for _, slot := range model.TimeSlots {
				if model.CourseTypes[course] != model.SlotTypes[slot] {
					continue
				}
				key := Key{Course: course, Room: room, Slot: slot}
				model.columns[key] = len(model.Keys)
				model.Keys = append(model.Keys, key)
			}
		}
	}

	return model, nil
}

// Teaches reports whether the instructor teaches the course.
func (m *Model) Teaches(instructor, course string) bool {
	return m.teaches[instructorCourse{instructor, course}]
}

// Sum builds the linear expression adding up the decision variables of keys.
func (m *Model) Sum(keys []Key) milp.Expr {
	return m.WeightedSum(keys, func(Key) float64 { return 1 })
}

// WeightedSum builds the linear expression adding up weight(key) times each
// key's decision variable. Zero weights and keys outside the domain
// contribute nothing.
func (m *Model) WeightedSum(keys []Key, weight func(Key) float64) milp.Expr {
	var expr milp.Expr
	for _, key := range keys {
		col, ok := m.columns[key]
		if !ok {
			continue
		}
		w := weight(key)
		if w == 0 {
			continue
		}
		expr.Terms = append(expr.Terms, milp.Term{Col: col, Coef: w})
	}
	return expr
}

// AddRow appends one linear constraint row. Rows accumulate for the whole
// session and are never removed.
func (m *Model) AddRow(name string, expr milp.Expr, op milp.RelOp, rhs float64) {
	m.rows = append(m.rows, milp.Row{Name: name, Expr: expr, Op: op, RHS: rhs})
}

// Rows returns the constraint rows added so far.
func (m *Model) Rows() []milp.Row {
	return m.rows
}

// OverlapPredicate returns the conflict test against a reference slot: a key
// conflicts when its slot shares a day with the reference and its interval,
// widened by bufferMinutes before the reference start, covers that start.
// Pass All as room to test every room, or Exactly(room) to restrict to one.
func (m *Model) OverlapPredicate(timeSlot string, room Match, bufferMinutes int) Predicate {
	refStart := m.SlotStartMinutes[timeSlot]
	refDays := m.SlotDays[timeSlot]

	return func(course, r, slot string) bool {
		if !room.matches(r) {
			return false
		}
		sharesDay := false
		for day := range m.SlotDays[slot] {
			if refDays[day] {
				sharesDay = true
				break
			}
		}
		if !sharesDay {
			return false
		}
		return m.SlotStartMinutes[slot] <= refStart && m.SlotEndMinutes[slot] > refStart-bufferMinutes
	}
}

// problem assembles the solver-ready formulation for one round from the
// current rows and the given objective.
func (m *Model) problem(objective milp.Expr, sense milp.Sense) milp.Problem {
	return milp.Problem{
		Name:      "course_timetable",
		Cols:      len(m.Keys),
		Rows:      m.rows,
		Objective: objective,
		Sense:     sense,
	}
}
