package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable lays the finished schedule out as a bordered terminal table.
func renderTable(sched *schedule.Schedule) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Course", "Room", "Days", "Start", "End", "Instructor", "Enrollment")

	for _, entry := range sched.Entries {
		t.Row(entry.Course, entry.Room, entry.Days, entry.Start, entry.End, entry.Instructor, strconv.Itoa(entry.Enrollment))
	}
	return t.String()
}
