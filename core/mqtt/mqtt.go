// Package mqtt defines the publishing side of the broker integration used to
// broadcast study results.
package mqtt

import "errors"

// ErrPublishFailed wraps the last broker error once every retry is spent.
var ErrPublishFailed = errors.New("mqtt publish failed")

// Publisher sends payloads to a broker topic.
type Publisher interface {
	// Publish blocks until the broker accepted the message or the retries
	// are exhausted.
	Publish(topic string, payload []byte) error

	// Disconnect closes the broker connection.
	Disconnect()
}
