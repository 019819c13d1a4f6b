// Command satisfaculty builds a course timetable. It loads room, course, and
// time-slot records, applies the configured feasibility rules, optimizes the
// configured objective stack lexicographically with an external MIP solver,
// and writes the schedule out as CSV plus a visual grid.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/zsunberg/satisfaculty/internal/config"
	"github.com/zsunberg/satisfaculty/internal/csvio"
	"github.com/zsunberg/satisfaculty/internal/render"
	"github.com/zsunberg/satisfaculty/pkg/milp"
	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

var solvers = map[string]func() milp.Solver{
	"cbc":   milp.NewCBCSolver,
	"highs": milp.NewHiGHSSolver,
	"glpk":  milp.NewGLPKSolver,
}

func main() {
	// Define arguments
	configPtr := flag.String("config", "satisfaculty.yaml", "Path to the run configuration file")
	solverPtr := flag.String("solver", "", "MIP solver to use, overriding the configuration file. Allowed values are: \"cbc\", \"highs\" and \"glpk\"")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	if *solverPtr != "" {
		cfg.Solver = strings.ToLower(*solverPtr)
	}

	// Validate arguments
	newSolver, ok := solvers[cfg.Solver]
	if !ok {
		log.Fatalf("%v is not a valid solver", cfg.Solver)
	}

	// Extract input
	rooms, courses, slots, err := loadRecords(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d rooms, %d courses, %d time slots", len(rooms), len(courses), len(slots))

	// Initialize engines
	scheduler := schedule.NewScheduler(newSolver())
	scheduler.SetRooms(rooms)
	scheduler.SetCourses(courses)
	scheduler.SetTimeSlots(slots)

	constraints, err := buildConstraints(cfg, courses)
	if err != nil {
		log.Fatal(err)
	}
	scheduler.AddConstraints(constraints...)

	objectives, err := buildObjectives(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Cheap infeasibility diagnosis before any solver runs
	if err := scheduler.Setup(); err != nil {
		log.Fatal(err)
	}
	if ok, err := scheduler.Model().Assignable(); err != nil {
		log.Fatal(err)
	} else if !ok {
		log.Fatal("no room/slot matching covers every course; check capacities and slot types")
	}

	// Build schedule
	sched, err := scheduler.LexicographicOptimize(objectives)
	if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}

	fmt.Println(renderTable(sched))

	if err := csvio.WriteSchedule(cfg.Output.Schedule, sched); err != nil {
		log.Fatal(err)
	}
	log.Printf("schedule saved to %v", cfg.Output.Schedule)

	if err := render.SchedulePNG(sched, rooms, cfg.Output.Image); err != nil {
		log.Fatal(err)
	}
	log.Printf("schedule visualization saved to %v", cfg.Output.Image)
}

func loadRecords(cfg config.Config) ([]schedule.Room, []schedule.Course, []schedule.TimeSlot, error) {
	if cfg.Data.Problem != "" {
		input, err := schedule.InputFromJSON(cfg.Data.Problem)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cannot parse problem file: %w", err)
		}
		return input.Rooms, input.Courses, input.TimeSlots, nil
	}

	rooms, err := csvio.LoadRooms(cfg.Data.Rooms)
	if err != nil {
		return nil, nil, nil, err
	}
	courses, err := csvio.LoadCourses(cfg.Data.Courses)
	if err != nil {
		return nil, nil, nil, err
	}
	slots, err := csvio.LoadTimeSlots(cfg.Data.TimeSlots)
	if err != nil {
		return nil, nil, nil, err
	}
	return rooms, courses, slots, nil
}

func buildConstraints(cfg config.Config, courses []schedule.Course) ([]schedule.Constraint, error) {
	constraints := make([]schedule.Constraint, 0, len(cfg.Constraints))
	for _, name := range cfg.Constraints {
		switch name {
		case "assign_all_courses":
			constraints = append(constraints, schedule.NewAssignAllCourses())
		case "no_instructor_overlap":
			constraints = append(constraints, schedule.NewNoInstructorOverlap(cfg.Buffer()))
		case "no_room_overlap":
			constraints = append(constraints, schedule.NewNoRoomOverlap(cfg.Buffer()))
		case "room_capacity":
			constraints = append(constraints, schedule.NewRoomCapacity())
		case "force_rooms":
			constraints = append(constraints, schedule.NewForceRooms(schedule.ForcedRooms(courses)))
		case "force_time_slots":
			constraints = append(constraints, schedule.NewForceTimeSlots(schedule.ForcedTimeSlots(courses)))
		default:
			return nil, fmt.Errorf("%v is not a valid constraint", name)
		}
	}
	return constraints, nil
}

func buildObjectives(cfg config.Config) ([]schedule.Objective, error) {
	objectives := make([]schedule.Objective, 0, len(cfg.Objectives))
	for i, entry := range cfg.Objectives {
		var objective schedule.Objective
		var err error

		switch entry.Type {
		case "minimize_classes_before":
			objective, err = schedule.NewMinimizeClassesBefore(entry.Time, matchOf(entry.Instructor), senseOf(entry.Sense), entry.Tolerance)
		case "minimize_classes_after":
			objective, err = schedule.NewMinimizeClassesAfter(entry.Time, matchOf(entry.Instructor), matchOf(entry.CourseType), senseOf(entry.Sense), entry.Tolerance)
		case "maximize_preferred_rooms":
			objective, err = schedule.NewMaximizePreferredRooms(entry.Rooms, matchOf(entry.Instructor), matchOf(entry.CourseType), entry.Tolerance)
		default:
			err = fmt.Errorf("%v is not a valid objective", entry.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("objective %d: %w", i, err)
		}
		objectives = append(objectives, objective)
	}
	return objectives, nil
}

func matchOf(value string) schedule.Match {
	if value == "" {
		return schedule.All
	}
	return schedule.Exactly(value)
}

func senseOf(value string) milp.Sense {
	if value == "maximize" {
		return milp.Maximize
	}
	return milp.Minimize
}
