package campaign

import "github.com/zapshots/shots-console-api/pkg/validation"

// Start modes accepted by the backend's shot config.
const (
	StartImmediate = "immediate"
	StartScheduled = "scheduled"
)

// ScheduleConfig controls when and how fast a campaign fires. Start is
// the wire enum the backend reads, "immediate" or "scheduled"; field
// names follow the backend's shot config format.
type ScheduleConfig struct {
	DelayFrom      int      `json:"delayFrom"`
	DelayTo        int      `json:"delayTo"`
	BlockFrom      int      `json:"blockFrom"`
	BlockTo        int      `json:"blockTo"`
	DelayBlockFrom int      `json:"delayBlockFrom"`
	DelayBlockTo   int      `json:"delayBlockTo"`
	Start          string   `json:"start"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	Period         []string `json:"period,omitempty"`
}

// NewScheduleConfig returns an immediate config with the default pacing.
func NewScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		DelayFrom: 1,
		DelayTo:   5,
		Start:     StartImmediate,
		StartTime: "00:00",
		EndTime:   "00:00",
	}
}

// SetMode switches between immediate and scheduled sending. Immediate
// mode pins both window bounds to "00:00"; switching back to scheduled
// leaves whatever times the config already carries.
func (c *ScheduleConfig) SetMode(immediate bool) {
	if immediate {
		c.Start = StartImmediate
		c.StartTime = "00:00"
		c.EndTime = "00:00"
		return
	}
	c.Start = StartScheduled
}

// Validate applies pacing defaults and checks the config is ready for
// submission.
func (c *ScheduleConfig) Validate() error {
	if c.DelayFrom < 1 {
		c.DelayFrom = 1
	}
	if c.DelayTo < 1 {
		c.DelayTo = 5
	}
	if c.DelayTo < c.DelayFrom {
		c.DelayTo = c.DelayFrom
	}

	if c.Start == "" {
		c.Start = StartImmediate
	}
	if c.Start == StartScheduled {
		if c.StartTime == "" || c.EndTime == "" {
			return NewValidationError(MissingScheduleWindow)
		}
		if err := validation.ValidateTimeOfDay(c.StartTime); err != nil {
			return err
		}
		if err := validation.ValidateTimeOfDay(c.EndTime); err != nil {
			return err
		}
	}
	for _, day := range c.Period {
		if err := validation.ValidateWeekday(day); err != nil {
			return err
		}
	}
	return nil
}
