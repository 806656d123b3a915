package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ScheduleParser accepts five-field cron specs, six-field specs with a
// leading seconds field, and descriptors such as "@every 5m".
var ScheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule reports whether spec parses, naming the variable it came
// from.
func ValidateSchedule(envVar, spec string) error {
	if _, err := ScheduleParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid %s value %q: %w", envVar, spec, err)
	}
	return nil
}
