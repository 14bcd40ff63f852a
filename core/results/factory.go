package results

import (
	"strconv"
	"strings"

	"github.com/kilianp07/gridstudy/core/factory"
)

var sinkRegistry = factory.NewRegistry[Sink]("result sink")

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[Sink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Types() }

// NewSink creates the sinks of cfgs. Sinks are named after their type and
// position so failures can be told apart.
func NewSink(cfgs []factory.ModuleConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	sinks := make([]Named, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			for _, created := range sinks {
				_ = created.Sink.Close()
			}
			return nil, err
		}
		name := strings.ToLower(c.Type)
		if len(cfgs) > 1 {
			name += "#" + strconv.Itoa(i)
		}
		sinks = append(sinks, Named{Name: name, Sink: s})
	}
	return NewMultiSink(sinks...), nil
}
