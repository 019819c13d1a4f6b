// Package render draws a finished schedule as a per-day room and time grid.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fogleman/gg"
	"github.com/samber/lo"

	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

// Course block colors, cycled in course order.
var palette = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c", "#98df8a",
	"#d62728", "#ff9896", "#9467bd", "#c5b0d5", "#8c564b", "#c49c94",
	"#e377c2", "#f7b6d2", "#7f7f7f", "#c7c7c7", "#bcbd22", "#dbdb8d",
	"#17becf", "#9edae5",
}

var dayOrder = []string{"M", "T", "W", "TH", "F"}

var dayNames = map[string]string{
	"M":  "MONDAY",
	"T":  "TUESDAY",
	"W":  "WEDNESDAY",
	"TH": "THURSDAY",
	"F":  "FRIDAY",
}

const (
	pxPerMinute  = 2.0
	rowHeight    = 48.0
	headerHeight = 36.0
	axisHeight   = 24.0
	panelGap     = 16.0
	leftMargin   = 150.0
	rightMargin  = 24.0
	topMargin    = 16.0
	bottomMargin = 16.0
	blockInset   = 5.0
)

type meeting struct {
	entry schedule.Entry
	day   string
	start int
	end   int
}

// SchedulePNG renders one grid per meeting day: rooms stacked by capacity,
// time along the horizontal axis, one colored block per course meeting. The
// image is written to path, creating parent directories as needed.
func SchedulePNG(sched *schedule.Schedule, rooms []schedule.Room, path string) error {
	if len(sched.Entries) == 0 {
		return fmt.Errorf("cannot render an empty schedule")
	}

	meetings, err := expandMeetings(sched)
	if err != nil {
		return err
	}

	capacities := lo.Associate(rooms, func(room schedule.Room) (string, int) { return room.Room, room.Capacity })
	usedRooms := sortedRooms(meetings, capacities)
	days := sortedDays(meetings)

	minTime, maxTime := timeRange(meetings)

	plotWidth := float64(maxTime-minTime) * pxPerMinute
	panelHeight := headerHeight + float64(len(usedRooms))*rowHeight + axisHeight
	width := int(leftMargin + plotWidth + rightMargin)
	height := int(topMargin + float64(len(days))*panelHeight + float64(len(days)-1)*panelGap + bottomMargin)

	colors := courseColors(sched)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for dayIndex, day := range days {
		top := topMargin + float64(dayIndex)*(panelHeight+panelGap)
		gridTop := top + headerHeight
		gridBottom := gridTop + float64(len(usedRooms))*rowHeight

		// Day title
		title := dayNames[day]
		if title == "" {
			title = day
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(title, leftMargin+plotWidth/2, top+headerHeight/2, 0.5, 0.5)

		// Row separators and room labels
		for i, room := range usedRooms {
			y := gridTop + float64(i)*rowHeight
			dc.SetRGB(0.6, 0.6, 0.6)
			dc.SetLineWidth(0.5)
			dc.DrawLine(leftMargin, y, leftMargin+plotWidth, y)
			dc.Stroke()

			label := fmt.Sprintf("%v (%d)", room, capacities[room])
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(label, leftMargin-8, y+rowHeight/2, 1, 0.5)
		}
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.SetLineWidth(0.5)
		dc.DrawLine(leftMargin, gridBottom, leftMargin+plotWidth, gridBottom)
		dc.Stroke()

		// Hour lines and time labels, capped at the end of the day
		for clock := minTime; clock <= maxTime && clock < 24*60; clock += 60 {
			x := leftMargin + float64(clock-minTime)*pxPerMinute
			dc.SetRGB(0.8, 0.8, 0.8)
			dc.SetLineWidth(0.5)
			dc.DrawLine(x, gridTop, x, gridBottom)
			dc.Stroke()

			label, err := schedule.MinutesToTime(clock)
			if err != nil {
				return err
			}
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(label, x, gridBottom+axisHeight/2, 0.5, 0.5)
		}

		// Course blocks
		for _, m := range meetings {
			if m.day != day {
				continue
			}
			rowIndex := lo.IndexOf(usedRooms, m.entry.Room)
			x := leftMargin + float64(m.start-minTime)*pxPerMinute
			y := gridTop + float64(rowIndex)*rowHeight + blockInset
			w := float64(m.end-m.start) * pxPerMinute
			h := rowHeight - 2*blockInset

			dc.SetHexColor(colors[m.entry.Course])
			dc.DrawRectangle(x, y, w, h)
			dc.FillPreserve()
			dc.SetRGB(0, 0, 0)
			dc.SetLineWidth(1)
			dc.Stroke()

			dc.DrawStringAnchored(m.entry.Course, x+w/2, y+h/2, 0.5, 0.5)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %v: %w", path, err)
	}
	return dc.SavePNG(path)
}

func expandMeetings(sched *schedule.Schedule) ([]meeting, error) {
	var meetings []meeting
	for _, entry := range sched.Entries {
		start, err := schedule.TimeToMinutes(entry.Start)
		if err != nil {
			return nil, fmt.Errorf("course %v: %w", entry.Course, err)
		}
		end, err := schedule.TimeToMinutes(entry.End)
		if err != nil {
			return nil, fmt.Errorf("course %v: %w", entry.Course, err)
		}
		for _, day := range schedule.ExpandDays(entry.Days) {
			meetings = append(meetings, meeting{entry: entry, day: day, start: start, end: end})
		}
	}
	return meetings, nil
}

// sortedRooms returns the rooms appearing in the schedule, largest capacity
// first so the biggest room sits on the top row.
func sortedRooms(meetings []meeting, capacities map[string]int) []string {
	rooms := lo.Uniq(lo.Map(meetings, func(m meeting, _ int) string { return m.entry.Room }))
	sort.Slice(rooms, func(i, j int) bool {
		if capacities[rooms[i]] != capacities[rooms[j]] {
			return capacities[rooms[i]] > capacities[rooms[j]]
		}
		return rooms[i] < rooms[j]
	})
	return rooms
}

// sortedDays returns the meeting days in weekday order, with any unknown day
// tokens appended alphabetically.
func sortedDays(meetings []meeting) []string {
	present := lo.Uniq(lo.Map(meetings, func(m meeting, _ int) string { return m.day }))

	days := lo.Filter(dayOrder, func(day string, _ int) bool { return lo.Contains(present, day) })
	extras := lo.Filter(present, func(day string, _ int) bool { return !lo.Contains(dayOrder, day) })
	sort.Strings(extras)
	return append(days, extras...)
}

func timeRange(meetings []meeting) (int, int) {
	minTime, maxTime := meetings[0].start, meetings[0].end
	for _, m := range meetings {
		minTime = min(minTime, m.start)
		maxTime = max(maxTime, m.end)
	}
	// Round outward to whole hours for the axis.
	return (minTime / 60) * 60, (maxTime/60 + 1) * 60
}

func courseColors(sched *schedule.Schedule) map[string]string {
	colors := make(map[string]string)
	for _, entry := range sched.Entries {
		if _, ok := colors[entry.Course]; !ok {
			colors[entry.Course] = palette[len(colors)%len(palette)]
		}
	}
	return colors
}
