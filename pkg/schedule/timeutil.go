package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToMinutes converts clock text in H:MM or HH:MM form to minutes since
// midnight.
func TimeToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}
	return hours*60 + minutes, nil
}

// MinutesToTime converts minutes since midnight back to zero-padded HH:MM
// clock text. Values outside a single day are rejected rather than wrapped.
func MinutesToTime(minutes int) (string, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes is outside a single day", ErrFormat, minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// ExpandDays expands a compact day code into individual day tokens: "MWF"
// becomes M, W, F and "TTH" becomes T, TH. Any other code is treated as a
// single day token and returned verbatim.
func ExpandDays(code string) []string {
	switch code {
	case "MWF":
		return []string{"M", "W", "F"}
	case "TTH":
		return []string{"T", "TH"}
	default:
		return []string{code}
	}
}
