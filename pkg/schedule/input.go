package schedule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ProblemInput bundles the three record sets of one problem description.
type ProblemInput struct {
	Rooms     []Room
	Courses   []Course
	TimeSlots []TimeSlot `mapstructure:"timeSlots"`
}

// InputFromJSON loads a complete problem description from a JSON file. Name
// columns must be unique within each record set.
func InputFromJSON(file string) (ProblemInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ProblemInput{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ProblemInput{}, err
	}

	var input ProblemInput
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return ProblemInput{}, err
	}
	if err := input.validate(); err != nil {
		return ProblemInput{}, err
	}
	return input, nil
}

func (input ProblemInput) validate() error {
	rooms := lo.Map(input.Rooms, func(room Room, _ int) string { return room.Room })
	if duplicates := lo.FindDuplicates(rooms); len(duplicates) > 0 {
		return fmt.Errorf("%w: duplicate rooms %v", ErrValidation, duplicates)
	}
	courses := lo.Map(input.Courses, func(course Course, _ int) string { return course.Course })
	if duplicates := lo.FindDuplicates(courses); len(duplicates) > 0 {
		return fmt.Errorf("%w: duplicate courses %v", ErrValidation, duplicates)
	}
	slots := lo.Map(input.TimeSlots, func(slot TimeSlot, _ int) string { return slot.Slot })
	if duplicates := lo.FindDuplicates(slots); len(duplicates) > 0 {
		return fmt.Errorf("%w: duplicate time slots %v", ErrValidation, duplicates)
	}
	return nil
}
