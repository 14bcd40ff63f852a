package config

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout of StudyConfig.Date.
const DateLayout = "2006-01-02"

// StudyConfig describes one time-series study.
type StudyConfig struct {
	// Network and Profiles are the input workbooks.
	Network  string `json:"network"`
	Profiles string `json:"profiles"`
	// Classes restricts profile binding to these equipment classes. Empty
	// binds every profile sheet that names a network class.
	Classes []string `json:"classes"`
	// Results lists extra "table.field" selectors to log.
	Results []string `json:"results"`
	// OutputName is the result workbook base name; empty disables it.
	OutputName string `json:"output_name"`
	Folder     string `json:"folder"`
	// Date anchors the time-of-day index for sinks needing timestamps.
	Date                 string `json:"date"`
	ContinueOnDivergence bool   `json:"continue_on_divergence"`
	// Summary is the run summary format: yaml, json or none.
	Summary string `json:"summary"`
}

// SetDefaults applies sane defaults.
func (c *StudyConfig) SetDefaults() {
	if c.Folder == "" {
		c.Folder = "output"
	}
	if c.Summary == "" {
		c.Summary = "yaml"
	}
}

// Validate checks mandatory fields.
func (c StudyConfig) Validate() error {
	if c.Network == "" {
		return errors.New("network workbook is required")
	}
	if c.Profiles == "" {
		return errors.New("profiles workbook is required")
	}
	if c.Date != "" {
		if _, err := time.Parse(DateLayout, c.Date); err != nil {
			return fmt.Errorf("date %q: want %s", c.Date, DateLayout)
		}
	}
	switch c.Summary {
	case "yaml", "json", "none":
	default:
		return fmt.Errorf("unknown summary format %s", c.Summary)
	}
	return nil
}

// StudyDate returns the configured date, or today's date in UTC.
func (c StudyConfig) StudyDate(now time.Time) time.Time {
	if d, err := time.Parse(DateLayout, c.Date); err == nil {
		return d
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
