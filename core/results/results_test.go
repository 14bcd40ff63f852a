package results

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/factory"
	"github.com/kilianp07/gridstudy/core/simulation"
)

type countingSink struct {
	writes int
	closed bool
	err    error
}

func (c *countingSink) Write(context.Context, Run, simulation.Results) error {
	c.writes++
	return c.err
}

func (c *countingSink) Close() error {
	c.closed = true
	return nil
}

func TestMultiSinkContinuesAfterFailure(t *testing.T) {
	boom := errors.New("broker unreachable")
	a := &countingSink{err: boom}
	b := &countingSink{}
	m := NewMultiSink(Named{Name: "mqtt", Sink: a}, Named{Name: "csv", Sink: b})

	err := m.Write(context.Background(), Run{ID: "r"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var se *SinkError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "mqtt", se.Name)
	assert.Equal(t, 1, b.writes)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNewSink(t *testing.T) {
	s, err := NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	require.NoError(t, RegisterSink("counting-test", func(map[string]any) (Sink, error) {
		return &countingSink{}, nil
	}))
	s, err = NewSink([]factory.ModuleConfig{{Type: "counting-test"}, {Type: "Counting-Test"}})
	require.NoError(t, err)
	m, ok := s.(*MultiSink)
	require.True(t, ok)
	require.Len(t, m.Sinks, 2)
	assert.Equal(t, "counting-test#1", m.Sinks[1].Name)
	assert.Contains(t, SinkTypes(), "counting-test")

	_, err = NewSink([]factory.ModuleConfig{{Type: "counting-test"}, {Type: "carrier-pigeon"}})
	assert.ErrorContains(t, err, "carrier-pigeon")
}
