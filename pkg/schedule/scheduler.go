package schedule

import (
	"fmt"
	"log"

	"github.com/samber/lo"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// sessionState tracks where one optimization session is.
type sessionState int

const (
	stateSetup sessionState = iota
	stateSolve
	stateLock
	stateExtract
	stateFailed
)

// Scheduler owns one optimization session: the loaded record sets, the
// registered constraints, the model built from them, and the solver boundary.
// A session is single-threaded and every solver invocation blocks until the
// external process finishes.
type Scheduler struct {
	solver milp.Solver

	rooms   []Room
	courses []Course
	slots   []TimeSlot

	constraints []Constraint

	model    *Model
	schedule *Schedule
}

func NewScheduler(solver milp.Solver) *Scheduler {
	return &Scheduler{solver: solver}
}

// SetRooms replaces the room records used by the next Setup.
func (s *Scheduler) SetRooms(rooms []Room) {
	s.rooms = rooms
}

// SetCourses replaces the course records used by the next Setup.
func (s *Scheduler) SetCourses(courses []Course) {
	s.courses = courses
}

// SetTimeSlots replaces the time-slot records used by the next Setup.
func (s *Scheduler) SetTimeSlots(slots []TimeSlot) {
	s.slots = slots
}

// AddConstraints registers feasibility rules. Registered rules are applied
// once per Setup, in registration order.
func (s *Scheduler) AddConstraints(constraints ...Constraint) {
	s.constraints = append(s.constraints, constraints...)
}

// Model returns the domain built by the last Setup, or nil before any.
func (s *Scheduler) Model() *Model {
	return s.model
}

// Schedule returns the result of the last successful solve, or nil.
func (s *Scheduler) Schedule() *Schedule {
	return s.schedule
}

// Setup builds the decision domain from the loaded record sets and applies
// every registered constraint. Calling it again discards the previous
// variables and rows and rebuilds the session from scratch.
func (s *Scheduler) Setup() error {
	model, err := NewModel(s.rooms, s.courses, s.slots)
	if err != nil {
		s.model = nil
		return err
	}
	s.model = model
	s.schedule = nil

	log.Printf("model: %d courses, %d rooms, %d time slots, %d decision variables", len(model.Courses), len(model.Rooms), len(model.TimeSlots), len(model.Keys))

	if len(s.constraints) == 0 {
		log.Printf("warning: no constraints registered, the model is unconstrained")
	}
	for _, constraint := range s.constraints {
		rows := constraint.Apply(model)
		log.Printf("applied %v: %d rows", constraint.Name(), rows)
	}
	return nil
}

// Optimize runs Setup and a single feasibility solve with an empty objective,
// then extracts the schedule.
func (s *Scheduler) Optimize() (*Schedule, error) {
	if err := s.Setup(); err != nil {
		return nil, err
	}
	return s.solveFeasible()
}

// LexicographicOptimize optimizes the objectives strictly in priority order:
// each round solves for one objective, then locks the achieved value, within
// the objective's tolerance, as a constraint on every later round. An empty
// objective list degenerates to a single feasibility solve. Any non-optimal
// solver status aborts the session and no partial schedule survives.
func (s *Scheduler) LexicographicOptimize(objectives []Objective) (*Schedule, error) {
	state := stateSetup
	round := 0
	var solution milp.Solution

	for {
		switch state {
		case stateSetup:
			if err := s.Setup(); err != nil {
				return nil, err
			}
			if len(objectives) == 0 {
				log.Printf("no objectives registered, solving for feasibility only")
				return s.solveFeasible()
			}
			log.Printf("lexicographic optimization over %d objectives", len(objectives))
			state = stateSolve

		case stateSolve:
			objective := objectives[round]
			log.Printf("[%d/%d] optimizing: %v", round+1, len(objectives), objective.Name())

			var err error
			solution, err = s.solver.Solve(s.model.problem(objective.Evaluate(s.model), objective.Sense()))
			if err != nil {
				return nil, err
			}
			if solution.Status != milp.StatusOptimal {
				state = stateFailed
				continue
			}
			log.Printf("[%d/%d] optimal value: %v", round+1, len(objectives), solution.Objective)

			if round == len(objectives)-1 {
				state = stateExtract
			} else {
				state = stateLock
			}

		case stateLock:
			objective := objectives[round]
			expr := objective.Evaluate(s.model)
			name := fmt.Sprintf("lock_objective_%d", round)

			if objective.Sense() == milp.Minimize {
				bound := solution.Objective * (1 + objective.Tolerance())
				s.model.AddRow(name, expr, milp.LE, bound)
				log.Printf("[%d/%d] locked: value <= %v", round+1, len(objectives), bound)
			} else {
				bound := solution.Objective * (1 - objective.Tolerance())
				s.model.AddRow(name, expr, milp.GE, bound)
				log.Printf("[%d/%d] locked: value >= %v", round+1, len(objectives), bound)
			}
			round++
			state = stateSolve

		case stateExtract:
			s.schedule = s.extract(solution)
			return s.schedule, nil

		case stateFailed:
			s.schedule = nil
			return nil, &SolveError{Round: round, Objective: objectives[round].Name(), Status: solution.Status}
		}
	}
}

func (s *Scheduler) solveFeasible() (*Schedule, error) {
	solution, err := s.solver.Solve(s.model.problem(milp.Expr{}, milp.Minimize))
	if err != nil {
		return nil, err
	}
	if solution.Status != milp.StatusOptimal {
		return nil, &SolveError{Status: solution.Status}
	}
	s.schedule = s.extract(solution)
	return s.schedule, nil
}

// extract reads every decision variable solved to one into the result
// schedule, in key order.
func (s *Scheduler) extract(solution milp.Solution) *Schedule {
	slotsByName := lo.Associate(s.slots, func(slot TimeSlot) (string, TimeSlot) { return slot.Slot, slot })

	schedule := &Schedule{}
	for i, key := range s.model.Keys {
		if solution.Values[i] < 0.5 {
			continue
		}
		slot := slotsByName[key.Slot]
		schedule.Entries = append(schedule.Entries, Entry{
			Course:     key.Course,
			Room:       key.Room,
			Days:       slot.Days,
			Start:      slot.Start,
			End:        slot.End,
			Instructor: s.model.CourseInstructor[key.Course],
			Enrollment: s.model.Enrollments[key.Course],
		})
	}
	return schedule
}
