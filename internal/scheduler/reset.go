package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleReset clears the fired-set on the given cron spec so daily
// to-do reminders can fire again in a long-running process. The returned
// cron is already started; stop it with Stop.
func ScheduleReset(s *Scheduler, spec string, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, s.Reset); err != nil {
		return nil, fmt.Errorf("invalid reset schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
