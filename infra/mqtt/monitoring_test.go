package mqtt

import (
	"errors"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremon "github.com/kilianp07/gridstudy/core/monitoring"
	coremqtt "github.com/kilianp07/gridstudy/core/mqtt"
	"github.com/kilianp07/gridstudy/infra/logger"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Flush(time.Duration) {}

func TestPublishErrorCaptured(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), fmt.Errorf("net fail")}}
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	defer func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } }()
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(nil)

	rec := logger.NewRecorder()
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1}
	cli, err := NewPahoClient(cfg, rec)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	err = cli.Publish("gridstudy/run-1/res_bus.vm_pu", []byte("{}"))
	if !errors.Is(err, coremqtt.ErrPublishFailed) {
		t.Fatalf("expected publish failure, got %v", err)
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["topic"] != "gridstudy/run-1/res_bus.vm_pu" || mon.tags["module"] != "mqtt" {
		t.Fatalf("tags not set")
	}
	if n := len(rec.Entries("error")); n != 2 {
		t.Fatalf("expected 2 failed attempts logged, got %d", n)
	}
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	m.FailTopics["bad"] = true
	if err := m.Publish("good", []byte("a")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := m.Publish("bad", []byte("b")); !errors.Is(err, coremqtt.ErrPublishFailed) {
		t.Fatalf("expected failure, got %v", err)
	}
	if got := m.Topics(); len(got) != 1 || got[0] != "good" {
		t.Fatalf("unexpected topics %v", got)
	}
	m.Disconnect()
	if !m.Closed {
		t.Fatalf("not closed")
	}
}
