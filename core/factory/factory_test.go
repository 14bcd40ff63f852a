package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type fixed string

func (f fixed) Greet() string { return string(f) }

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[greeter]("greeter")
	require.NoError(t, reg.Register("Fixed", func(conf map[string]any) (greeter, error) {
		var c struct {
			Text string `json:"text"`
		}
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Text == "" {
			return nil, errors.New("text required")
		}
		return fixed(c.Text), nil
	}))
	require.Error(t, reg.Register("fixed", func(map[string]any) (greeter, error) { return nil, nil }))
	require.Error(t, reg.Register("nil", nil))

	g, err := reg.Create(ModuleConfig{Type: "FIXED", Conf: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", g.Greet())

	_, err = reg.Create(ModuleConfig{Type: "fixed"})
	assert.ErrorContains(t, err, "text required")

	_, err = reg.Create(ModuleConfig{Type: "other"})
	assert.ErrorContains(t, err, "known: fixed")
	assert.Equal(t, []string{"fixed"}, reg.Types())
}

func TestDecodeWeaklyTyped(t *testing.T) {
	var c struct {
		Port     int  `json:"port"`
		Retained bool `json:"retained"`
	}
	require.NoError(t, Decode(map[string]any{"port": "1883", "retained": "true"}, &c))
	assert.Equal(t, 1883, c.Port)
	assert.True(t, c.Retained)
}
