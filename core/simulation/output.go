package simulation

import (
	"fmt"
	"strings"

	"github.com/kilianp07/gridstudy/core/network"
)

// Result selectors logged by every run.
var (
	DefaultSelectors = []string{"res_bus.vm_pu", "res_line.loading_percent"}
	// MandatorySelector is always logged, whatever the caller asks for.
	MandatorySelector = "res_trafo.loading_percent"
)

// ConfigureOutput replaces the network's output writer with the default
// selection, the caller's extras and the mandatory transformer loading, in
// first-seen order. An extra may list several selectors separated by commas.
func ConfigureOutput(net *network.Network, extra ...string) error {
	keys := append([]string(nil), DefaultSelectors...)
	for _, e := range extra {
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
	}
	keys = append(keys, MandatorySelector)

	ow := &network.OutputWriter{}
	for _, k := range keys {
		sel, err := network.ParseSelector(k)
		if err != nil {
			return fmt.Errorf("configure output: %w", err)
		}
		ow.Log(sel)
	}
	net.Output = ow
	return nil
}
