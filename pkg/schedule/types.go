// Package schedule builds course timetables. It derives a decision domain
// from room, course, and time-slot records, lets constraints and objectives
// shape a mixed-integer program over that domain, and extracts a Schedule
// from the solver's answer.
package schedule

// Room is one loadable room record. Capacity bounds the total enrollment the
// room can host in a single time slot.
type Room struct {
	Room     string `csv:"Room"`
	Capacity int    `csv:"Capacity"`
}

// Course is one loadable course record. ForceRoom and ForceTimeSlot are
// optional override columns consumed by the force constraints; empty means no
// override.
type Course struct {
	Course        string `csv:"Course"`
	Instructor    string `csv:"Instructor"`
	Enrollment    int    `csv:"Enrollment"`
	Type          string `csv:"Type"`
	ForceRoom     string `csv:"Force Room"`
	ForceTimeSlot string `csv:"Force Time Slot"`
}

// TimeSlot is one loadable time-slot record. Start and End are clock text in
// H:MM or HH:MM form; Days is a compact day code such as "MWF" or "TTH".
type TimeSlot struct {
	Slot  string `csv:"Slot"`
	Start string `csv:"Start"`
	End   string `csv:"End"`
	Days  string `csv:"Days"`
	Type  string `csv:"Type"`
}

// Entry is one scheduled course in a finished timetable.
type Entry struct {
	Course     string `csv:"Course"`
	Room       string `csv:"Room"`
	Days       string `csv:"Days"`
	Start      string `csv:"Start"`
	End        string `csv:"End"`
	Instructor string `csv:"Instructor"`
	Enrollment int    `csv:"Enrollment"`
}

// Schedule is the result of a successful solve, one Entry per course in
// domain order.
type Schedule struct {
	Entries []Entry
}
