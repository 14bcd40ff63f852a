package metrics

import "github.com/kilianp07/gridstudy/core/factory"

// Config defines the metrics recorders of a study run.
type Config struct {
	Recorders []factory.ModuleConfig `json:"recorders"`
}
