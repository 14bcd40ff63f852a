package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/infra/logger"
	"github.com/kilianp07/gridstudy/infra/mqtt"
	"github.com/kilianp07/gridstudy/pkg/export"
)

// DefaultTopicPrefix is the root of the topics results are published on.
const DefaultTopicPrefix = "gridstudy"

// MQTTConfig holds the broker settings and the topic prefix.
type MQTTConfig struct {
	mqtt.Config `json:",squash"`
	TopicPrefix string `json:"topic_prefix"`
}

// tableMessage is the payload published for one result table.
type tableMessage struct {
	RunID   string          `json:"run_id"`
	Study   string          `json:"study"`
	Date    string          `json:"date"`
	Table   string          `json:"table"`
	Records []export.Record `json:"records"`
}

// MQTTSink publishes each result table as one JSON message on
// <prefix>/<run id>/<table key>.
type MQTTSink struct {
	pub    mqtt.Publisher
	prefix string
}

// NewMQTTSink connects to the broker described by cfg.
func NewMQTTSink(cfg MQTTConfig, log logger.Logger) (*MQTTSink, error) {
	cli, err := mqtt.NewPahoClient(cfg.Config, log)
	if err != nil {
		return nil, err
	}
	return NewMQTTSinkWithPublisher(cli, cfg.TopicPrefix), nil
}

// NewMQTTSinkWithPublisher wraps an existing publisher.
func NewMQTTSinkWithPublisher(pub mqtt.Publisher, prefix string) *MQTTSink {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &MQTTSink{pub: pub, prefix: prefix}
}

// Topic returns the topic a table of run is published on.
func (s *MQTTSink) Topic(run results.Run, key string) string {
	return s.prefix + "/" + run.ID + "/" + key
}

// Write publishes every table. A failed table does not stop the others.
func (s *MQTTSink) Write(ctx context.Context, run results.Run, tables simulation.Results) error {
	var errs []error
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := json.Marshal(tableMessage{
			RunID:   run.ID,
			Study:   run.Name,
			Date:    run.Date.Format("2006-01-02"),
			Table:   t.Key(),
			Records: export.Records(t.Frame),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.pub.Publish(s.Topic(run, t.Key()), payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	s.pub.Disconnect()
	return nil
}
