// Package events publishes document lifecycle events over NATS so external
// consumers (search indexers, site rebuilders) can react to renders and vault
// changes. Publishing is best-effort: failures are logged, never propagated.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
)

// Event is the wire payload for every subject.
type Event struct {
	Type      string    `json:"type"`
	Document  string    `json:"document"`
	PassID    string    `json:"pass_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	TypeRendered = "document_rendered"
	TypeChanged  = "document_changed"
	TypeCycle    = "cycle_detected"
)

// Publisher publishes events to NATS. A nil Publisher is a no-op, so callers
// can wire it unconditionally.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// Connect establishes the NATS connection.
func Connect(url, subjectPrefix string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("transclude"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents, "connect to NATS").
			WithContext("url", url).Build()
	}
	return &Publisher{conn: conn, prefix: subjectPrefix}, nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// DocumentRendered reports a completed render of doc within pass passID.
func (p *Publisher) DocumentRendered(doc, passID string) {
	p.publish(Event{Type: TypeRendered, Document: doc, PassID: passID})
}

// DocumentChanged reports a vault content change for doc.
func (p *Publisher) DocumentChanged(doc string) {
	p.publish(Event{Type: TypeChanged, Document: doc})
}

// CycleDetected reports a rejected transclusion loop involving doc.
func (p *Publisher) CycleDetected(doc, passID string) {
	p.publish(Event{Type: TypeCycle, Document: doc, PassID: passID})
}

func (p *Publisher) publish(ev Event) {
	if p == nil || p.conn == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("marshal event", logfields.Error(err))
		return
	}
	subject := subjectFor(p.prefix, ev.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		slog.Warn("publish event", logfields.Subject(subject), logfields.Error(err))
	}
}

func subjectFor(prefix, eventType string) string {
	if prefix == "" {
		prefix = "transclude"
	}
	return prefix + "." + eventType
}
