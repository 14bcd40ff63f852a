// Package sinks holds the result sinks a study run can be written to:
// databases, brokers, flat files and rendered reports.
package sinks

import (
	"github.com/kilianp07/gridstudy/core/factory"
	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/infra/logger"
)

// init registers the built-in sinks.
func init() {
	_ = results.RegisterSink("sqlite", func(conf map[string]any) (results.Sink, error) {
		var c SQLiteConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteSink(c)
	})

	_ = results.RegisterSink("influx", func(conf map[string]any) (results.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSink(c)
	})

	_ = results.RegisterSink("mqtt", func(conf map[string]any) (results.Sink, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMQTTSink(c, logger.New("mqtt_sink"))
	})

	for _, format := range []string{FormatCSV, FormatJSON} {
		format := format
		_ = results.RegisterSink(format, func(conf map[string]any) (results.Sink, error) {
			var c FileConfig
			if err := factory.Decode(conf, &c); err != nil {
				return nil, err
			}
			return NewFileSink(c, format)
		})
	}

	_ = results.RegisterSink("html", func(conf map[string]any) (results.Sink, error) {
		var c HTMLConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewHTMLSink(c), nil
	})

	_ = results.RegisterSink("png", func(conf map[string]any) (results.Sink, error) {
		var c PNGConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPNGSink(c), nil
	})
}
