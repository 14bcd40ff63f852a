// Package binding attaches power profiles to network equipment. For each
// variable of a profile set it registers one controller that feeds the
// mapped equipment records at every time step.
package binding

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/gridstudy/core/logger"
	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/profile"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// MappingColumn is the equipment field naming the profile a record follows.
const MappingColumn = "profile_mapping"

// Unassigned is the profile_mapping value of records without a profile.
const Unassigned = -1

// Mapping lists, per profile identifier, the equipment indices that follow it.
type Mapping map[string][]int64

// Report summarises one Bind call.
type Report struct {
	Class string
	// Bound lists the equipment indices fed by a controller, per variable.
	Bound map[string][]int64
	// Unmapped lists the equipment indices left on their static value, per
	// variable.
	Unmapped map[string][]int64
	// TimeMismatch is set when a profile did not match the network's common
	// time index.
	TimeMismatch bool
	// Removed is the number of stale controllers dropped before binding.
	Removed int
}

// BuildMapping groups the class's records by profile_mapping. Records on
// the Unassigned identifier are left out. ok is false when the table has no
// profile_mapping column at all.
func BuildMapping(t *network.Table) (m Mapping, ok bool) {
	if !t.HasColumn(MappingColumn) {
		return nil, false
	}
	m = make(Mapping)
	seen := false
	for _, idx := range t.SortedIndex() {
		v := t.Get(idx, MappingColumn)
		if v.IsAbsent() {
			continue
		}
		seen = true
		if id, isInt := v.AsInt(); isInt && id == Unassigned {
			continue
		}
		key := v.Text()
		m[key] = append(m[key], idx)
	}
	return m, seen
}

// Bind registers the profiles of set on class. Controllers already bound to
// class are removed first, so binding twice leaves one registration set.
// Profiles whose time labels differ from the network's common time index are
// still bound; the mismatch is logged and reported.
func Bind(net *network.Network, class string, set profile.Set, log logger.Logger) (*Report, error) {
	t, ok := net.Table(class)
	if !ok {
		return nil, fmt.Errorf("bind %s: no such equipment class", class)
	}
	rep := &Report{
		Class:    class,
		Bound:    make(map[string][]int64),
		Unmapped: make(map[string][]int64),
	}
	rep.Removed = net.RemoveControllers(class)
	mapping, mapped := BuildMapping(t)

	variables := make([]string, 0, len(set))
	for v := range set {
		variables = append(variables, v)
	}
	sort.Strings(variables)

	for _, variable := range variables {
		frame := set[variable]
		if frame == nil {
			continue
		}
		if len(net.TimeIndex) == 0 {
			net.TimeIndex = append([]timeseries.TimeOfDay(nil), frame.Index...)
		} else if !timeseries.Equal(net.TimeIndex, frame.Index) {
			log.Errorf("simulation profiles do not share the same timestamps (%s.%s)", class, variable)
			rep.TimeMismatch = true
		}

		var elements []int64
		var columns []string
		if mapped {
			elements, columns = broadcast(mapping, frame)
		} else {
			elements, columns = direct(t, frame)
		}

		unmapped := missing(t, elements)
		if len(unmapped) > 0 {
			names := make([]string, len(unmapped))
			for i, idx := range unmapped {
				names[i] = t.DisplayName(idx)
			}
			log.Warnf("%s equipments have no %s profiles", strings.Join(names, ", "), variable)
		}
		rep.Bound[variable] = elements
		rep.Unmapped[variable] = unmapped

		if len(elements) == 0 {
			continue
		}
		bound := timeseries.NewFrame(frame.Index)
		for i, idx := range elements {
			src, _ := frame.Column(columns[i])
			_ = bound.AddColumn(strconv.FormatInt(idx, 10), src)
		}
		net.AddController(network.Controller{
			Class:        class,
			Variable:     variable,
			ElementIndex: elements,
			Profiles:     bound.Columns,
			Source:       network.NewFrameSource(bound),
		})
	}
	return rep, nil
}

// broadcast pairs every equipment index with the profile column of its
// identifier. Results are ordered by equipment index.
func broadcast(m Mapping, f *timeseries.Frame) ([]int64, []string) {
	byIndex := make(map[int64]string)
	for id, indices := range m {
		if !f.Has(id) {
			continue
		}
		for _, idx := range indices {
			byIndex[idx] = id
		}
	}
	return sortedPairs(byIndex)
}

// direct matches frame columns labelled with an equipment index.
func direct(t *network.Table, f *timeseries.Frame) ([]int64, []string) {
	byIndex := make(map[int64]string)
	for _, idx := range t.Index() {
		label := strconv.FormatInt(idx, 10)
		if f.Has(label) {
			byIndex[idx] = label
		}
	}
	return sortedPairs(byIndex)
}

func sortedPairs(byIndex map[int64]string) ([]int64, []string) {
	elements := make([]int64, 0, len(byIndex))
	for idx := range byIndex {
		elements = append(elements, idx)
	}
	sort.Slice(elements, func(i, j int) bool { return elements[i] < elements[j] })
	columns := make([]string, len(elements))
	for i, idx := range elements {
		columns[i] = byIndex[idx]
	}
	return elements, columns
}

func missing(t *network.Table, bound []int64) []int64 {
	in := make(map[int64]bool, len(bound))
	for _, idx := range bound {
		in[idx] = true
	}
	var out []int64
	for _, idx := range t.SortedIndex() {
		if !in[idx] {
			out = append(out, idx)
		}
	}
	return out
}
