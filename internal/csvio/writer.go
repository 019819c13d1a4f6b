package csvio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/zsunberg/satisfaculty/pkg/schedule"
)

// WriteSchedule saves a finished schedule as CSV, one row per scheduled
// course, creating parent directories as needed.
func WriteSchedule(path string, sched *schedule.Schedule) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %v: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&sched.Entries, file); err != nil {
		return fmt.Errorf("failed to write schedule to %v: %w", path, err)
	}
	return nil
}
