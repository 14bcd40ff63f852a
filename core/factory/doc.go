// Package factory provides the generic registry used to build pluggable
// study components (solvers, result sinks) from configuration. A component
// is described by a type name and a map of raw settings; the registered
// factory decodes the settings into its own struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[results.Sink]()
//	reg.Register("csv", func(conf map[string]any) (results.Sink, error) {
//	    var c struct{ Folder string `json:"folder"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return files.NewCSVSink(c.Folder), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"folder": "out"}})
package factory
