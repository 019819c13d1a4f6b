// Package csvio loads the room, course, and time-slot record sets from CSV
// files and writes finished schedules back out.
package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

// LoadRooms reads and parses the given csv file for room data. Room names
// must be unique.
func LoadRooms(path string) ([]schedule.Room, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", path, err)
	}
	defer file.Close()

	var rooms []schedule.Room
	if err := gocsv.UnmarshalFile(file, &rooms); err != nil {
		return nil, fmt.Errorf("failed to parse room data from %v: %w", path, err)
	}

	names := lo.Map(rooms, func(room schedule.Room, _ int) string { return room.Room })
	if duplicates := lo.FindDuplicates(names); len(duplicates) > 0 {
		return nil, fmt.Errorf("duplicate rooms in %v: %v", path, duplicates)
	}
	return rooms, nil
}

// LoadCourses reads and parses the given csv file for course data. Course
// names must be unique. The Force Room and Force Time Slot columns are
// optional.
func LoadCourses(path string) ([]schedule.Course, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", path, err)
	}
	defer file.Close()

	var courses []schedule.Course
	if err := gocsv.UnmarshalFile(file, &courses); err != nil {
		return nil, fmt.Errorf("failed to parse course data from %v: %w", path, err)
	}

	names := lo.Map(courses, func(course schedule.Course, _ int) string { return course.Course })
	if duplicates := lo.FindDuplicates(names); len(duplicates) > 0 {
		return nil, fmt.Errorf("duplicate courses in %v: %v", path, duplicates)
	}
	return courses, nil
}

// LoadTimeSlots reads and parses the given csv file for time-slot data. Slot
// names must be unique.
func LoadTimeSlots(path string) ([]schedule.TimeSlot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", path, err)
	}
	defer file.Close()

	var slots []schedule.TimeSlot
	if err := gocsv.UnmarshalFile(file, &slots); err != nil {
		return nil, fmt.Errorf("failed to parse time slot data from %v: %w", path, err)
	}

	names := lo.Map(slots, func(slot schedule.TimeSlot, _ int) string { return slot.Slot })
	if duplicates := lo.FindDuplicates(names); len(duplicates) > 0 {
		return nil, fmt.Errorf("duplicate time slots in %v: %v", path, duplicates)
	}
	return slots, nil
}
