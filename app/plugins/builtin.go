package plugins

import (
	"github.com/kilianp07/gridstudy/core/factory"
	"github.com/kilianp07/gridstudy/infra/logger"
	"github.com/kilianp07/gridstudy/infra/solver/execsolver"
	"github.com/kilianp07/gridstudy/infra/solver/httpsolver"

	// result sinks and metrics recorders register themselves
	_ "github.com/kilianp07/gridstudy/infra/metrics"
	_ "github.com/kilianp07/gridstudy/infra/sinks"
)

func init() {
	_ = RegisterSolver("exec", func(conf map[string]any) (Solver, error) {
		var c execsolver.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return execsolver.Start(c, logger.New("solver"))
	})
	_ = RegisterSolver("http", func(conf map[string]any) (Solver, error) {
		var c httpsolver.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return httpsolver.New(c, logger.New("solver"))
	})
}
