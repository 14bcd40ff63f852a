package app

import (
	"path/filepath"

	"github.com/kilianp07/gridstudy/config"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// Summary describes one study run. It is written next to the results.
type Summary struct {
	Network    string             `json:"network" yaml:"network"`
	Study      string             `json:"study" yaml:"study"`
	Date       string             `json:"date,omitempty" yaml:"date,omitempty"`
	Bindings   []BindingSummary   `json:"bindings" yaml:"bindings"`
	Run        *simulation.Report `json:"run,omitempty" yaml:"run,omitempty"`
	Tables     []string           `json:"tables,omitempty" yaml:"tables,omitempty"`
	SinkErrors []string           `json:"sink_errors,omitempty" yaml:"sink_errors,omitempty"`
	Error      string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// BindingSummary is the outcome of binding one profile variable.
type BindingSummary struct {
	Class        string `json:"class" yaml:"class"`
	Variable     string `json:"variable" yaml:"variable"`
	Bound        int    `json:"bound" yaml:"bound"`
	Unmapped     int    `json:"unmapped" yaml:"unmapped"`
	TimeMismatch bool   `json:"time_mismatch,omitempty" yaml:"time_mismatch,omitempty"`
}

// SummaryPath returns where the summary of study name is written.
func SummaryPath(c config.StudyConfig, name string) string {
	folder := c.Folder
	if folder == "" {
		folder = simulation.DefaultFolder
	}
	ext := c.Summary
	if ext == "" || ext == "none" {
		ext = "yaml"
	}
	return filepath.Join(folder, name+".summary."+ext)
}
