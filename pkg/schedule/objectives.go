package schedule

import (
	"fmt"
	"strings"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// Objective is a named scoring rule for lexicographic optimization. Evaluate
// returns the linear expression to optimize with the declared sense.
// Tolerance is the fractional slack allowed when the achieved value becomes a
// lock constraint on later rounds; zero pins the value.
type Objective interface {
	Name() string
	Sense() milp.Sense
	Tolerance() float64
	Evaluate(m *Model) milp.Expr
}

// objectiveInfo carries the metadata shared by the built-in objectives.
type objectiveInfo struct {
	name      string
	sense     milp.Sense
	tolerance float64
}

func newObjectiveInfo(name string, sense milp.Sense, tolerance float64) (objectiveInfo, error) {
	if sense != milp.Minimize && sense != milp.Maximize {
		return objectiveInfo{}, fmt.Errorf("%w: sense must be minimize or maximize, got %v", ErrValidation, sense)
	}
	if tolerance < 0 {
		return objectiveInfo{}, fmt.Errorf("%w: tolerance must be non-negative, got %v", ErrValidation, tolerance)
	}
	return objectiveInfo{name: name, sense: sense, tolerance: tolerance}, nil
}

func (o objectiveInfo) Name() string {
	return o.name
}

func (o objectiveInfo) Sense() milp.Sense {
	return o.sense
}

func (o objectiveInfo) Tolerance() float64 {
	return o.tolerance
}

type classesBefore struct {
	objectiveInfo
	beforeMinutes int
	instructor    Match
}

// NewMinimizeClassesBefore counts assignments whose slot starts strictly
// before the given clock time, optionally restricted to one instructor. The
// sense is a parameter so a caller can invert the preference and favor early
// classes instead.
func NewMinimizeClassesBefore(clock string, instructor Match, sense milp.Sense, tolerance float64) (Objective, error) {
	beforeMinutes, err := TimeToMinutes(clock)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%v classes before %v%v", senseLabel(sense), clock, matchLabel(instructor))
	info, err := newObjectiveInfo(name, sense, tolerance)
	if err != nil {
		return nil, err
	}
	return classesBefore{objectiveInfo: info, beforeMinutes: beforeMinutes, instructor: instructor}, nil
}

func (o classesBefore) Evaluate(m *Model) milp.Expr {
	keys := FilterKeysFunc(m.Keys, func(course, room, slot string) bool {
		if m.SlotStartMinutes[slot] >= o.beforeMinutes {
			return false
		}
		return o.instructor.matches(m.CourseInstructor[course])
	})
	return m.Sum(keys)
}

type classesAfter struct {
	objectiveInfo
	afterMinutes int
	instructor   Match
	courseType   Match
}

// NewMinimizeClassesAfter counts assignments whose slot starts strictly after
// the given clock time, optionally restricted by instructor and course type.
// The sense is a parameter so a caller can invert the preference.
func NewMinimizeClassesAfter(clock string, instructor, courseType Match, sense milp.Sense, tolerance float64) (Objective, error) {
	afterMinutes, err := TimeToMinutes(clock)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%v classes after %v%v%v", senseLabel(sense), clock, matchLabel(instructor), typeLabel(courseType))
	info, err := newObjectiveInfo(name, sense, tolerance)
	if err != nil {
		return nil, err
	}
	return classesAfter{objectiveInfo: info, afterMinutes: afterMinutes, instructor: instructor, courseType: courseType}, nil
}

func (o classesAfter) Evaluate(m *Model) milp.Expr {
	keys := FilterKeysFunc(m.Keys, func(course, room, slot string) bool {
		if m.SlotStartMinutes[slot] <= o.afterMinutes {
			return false
		}
		if !o.instructor.matches(m.CourseInstructor[course]) {
			return false
		}
		return o.courseType.matches(m.CourseTypes[course])
	})
	return m.Sum(keys)
}

type preferredRooms struct {
	objectiveInfo
	rooms      map[string]bool
	instructor Match
	courseType Match
}

// NewMaximizePreferredRooms counts assignments landing in one of the
// preferred rooms, optionally restricted by instructor and course type. It
// always maximizes.
func NewMaximizePreferredRooms(rooms []string, instructor, courseType Match, tolerance float64) (Objective, error) {
	name := fmt.Sprintf("maximize preferred rooms (%v)%v%v", strings.Join(rooms, ", "), matchLabel(instructor), typeLabel(courseType))
	info, err := newObjectiveInfo(name, milp.Maximize, tolerance)
	if err != nil {
		return nil, err
	}

	preferred := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		preferred[room] = true
	}
	return preferredRooms{objectiveInfo: info, rooms: preferred, instructor: instructor, courseType: courseType}, nil
}

func (o preferredRooms) Evaluate(m *Model) milp.Expr {
	keys := FilterKeysFunc(m.Keys, func(course, room, slot string) bool {
		if !o.rooms[room] {
			return false
		}
		if !o.instructor.matches(m.CourseInstructor[course]) {
			return false
		}
		return o.courseType.matches(m.CourseTypes[course])
	})
	return m.Sum(keys)
}

func senseLabel(sense milp.Sense) string {
	if sense == milp.Maximize {
		return "maximize"
	}
	return "minimize"
}

func matchLabel(instructor Match) string {
	if instructor == All {
		return ""
	}
	return fmt.Sprintf(" for %v", instructor.value)
}

func typeLabel(courseType Match) string {
	if courseType == All {
		return ""
	}
	return fmt.Sprintf(" (%v)", courseType.value)
}
