package network

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/timeseries"
)

func loadTable() *Table {
	t := NewTable("load", "name", "p_mw")
	t.Insert(0, Row{"name": String("L0"), "p_mw": Float(1)})
	t.Insert(1, Row{"name": String("L1"), "p_mw": Float(2)})
	return t
}

func TestControllerApply(t *testing.T) {
	net := New("n")
	net.SetTable(loadTable())

	f := timeseries.NewFrame([]timeseries.TimeOfDay{timeseries.Clock(0, 0, 0), timeseries.Clock(1, 0, 0)})
	require.NoError(t, f.AddColumn("0", []float64{5, 6}))
	require.NoError(t, f.AddColumn("1", []float64{7, math.NaN()}))

	net.AddController(Controller{
		Class: "load", Variable: "p_mw",
		ElementIndex: []int64{0, 1}, Profiles: []string{"0", "1"},
		Source: NewFrameSource(f),
	})

	require.NoError(t, net.ApplyControllers(1))
	tab, _ := net.Table("load")
	assert.Equal(t, Float(6), tab.Get(0, "p_mw"))
	assert.Equal(t, Float(2), tab.Get(1, "p_mw"), "NaN keeps the static value")

	require.NoError(t, net.ApplyControllers(2), "past the profile end the static value stays")
	assert.Equal(t, Float(6), tab.Get(0, "p_mw"))
	require.Error(t, net.ApplyControllers(-1))
}

func TestRemoveControllers(t *testing.T) {
	net := New("n")
	net.AddController(Controller{Class: "load", Variable: "p_mw"})
	net.AddController(Controller{Class: "sgen", Variable: "p_mw"})
	net.AddController(Controller{Class: "load", Variable: "q_mvar"})

	assert.Equal(t, 2, net.RemoveControllers("load"))
	assert.Len(t, net.Controllers, 1)
	assert.Empty(t, net.ControllersFor("load"))
	assert.Len(t, net.ControllersFor("sgen"), 1)
}

func TestSelectorAndOutputWriter(t *testing.T) {
	sel, err := ParseSelector("res_bus.vm_pu")
	require.NoError(t, err)
	assert.Equal(t, "bus", sel.Class())
	assert.Equal(t, "res_bus.vm_pu", sel.Key())

	for _, bad := range []string{"res_bus", "a.b.c", ".vm_pu", ""} {
		_, err := ParseSelector(bad)
		assert.Error(t, err, bad)
	}

	var ow OutputWriter
	ow.Log(sel)
	ow.Log(sel)
	ow.Log(Selector{Table: "res_line", Field: "loading_percent"})
	assert.Equal(t, []string{"res_bus.vm_pu", "res_line.loading_percent"}, ow.Keys())
}

func TestNetworkJSON(t *testing.T) {
	net := New("n")
	tab := loadTable()
	require.NoError(t, tab.Set(1, "in_service", Bool(false)))
	require.Error(t, tab.Set(9, "p_mw", Float(0)))
	net.SetTable(tab)

	b, err := json.Marshal(net)
	require.NoError(t, err)
	var decoded map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "L1", decoded["load"]["1"]["name"])
	assert.Equal(t, false, decoded["load"]["1"]["in_service"])
	assert.Nil(t, decoded["load"]["0"]["in_service"])
}
