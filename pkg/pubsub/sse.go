package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/fault-tree-analyzer/pkg/logging"
)

// TopicConfig controls replay behavior for late subscribers.
type TopicConfig struct {
	BufferSize int  // events kept for replay (0 = none)
	ReplayAll  bool // replay the whole buffer instead of only the last event
}

// subscriber channels are buffered so a slow client cannot block
// Publish; overflowing events are dropped.
const subscriberBuffer = 100

// topicState is everything the publisher tracks for one topic.
type topicState struct {
	config  TopicConfig
	version int
	buffer  []Event
	subs    map[*sseSubscription]bool
}

func (t *topicState) record(ev Event) {
	if t.config.BufferSize == 0 {
		return
	}
	t.buffer = append(t.buffer, ev)
	if len(t.buffer) > t.config.BufferSize {
		t.buffer = t.buffer[len(t.buffer)-t.config.BufferSize:]
	}
}

// replayable returns the events a new subscriber should receive.
func (t *topicState) replayable() []Event {
	if len(t.buffer) == 0 {
		return nil
	}
	if t.config.ReplayAll {
		out := make([]Event, len(t.buffer))
		copy(out, t.buffer)
		return out
	}
	return []Event{t.buffer[len(t.buffer)-1]}
}

// SSEPublisher is the Publisher used by the web server.
type SSEPublisher struct {
	mu     sync.Mutex
	topics map[string]*topicState
	closed bool
}

// NewSSEPublisher creates a publisher with no configured topics.
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{topics: make(map[string]*topicState)}
}

func (p *SSEPublisher) topic(name string) *topicState {
	t := p.topics[name]
	if t == nil {
		t = &topicState{subs: make(map[*sseSubscription]bool)}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets the replay behavior for a topic.
func (p *SSEPublisher) ConfigureTopic(name string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic(name).config = config
}

// Subscribe registers a new subscription and replays buffered events
// per the topic's configuration.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, subscriberBuffer),
		publisher: p,
	}
	t := p.topic(topic)
	t.subs[sub] = true
	replay := t.replayable()
	p.mu.Unlock()

	for _, ev := range replay {
		select {
		case sub.events <- ev:
		default:
			logging.Warn("dropping replayed event", "topic", topic, "version", ev.Version)
		}
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish fans an event out to the topic's subscribers without
// blocking on slow clients.
func (p *SSEPublisher) Publish(topic string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	t := p.topic(topic)
	t.version++
	ev := Event{Topic: topic, Type: eventType, Data: payload, Version: t.version}
	t.record(ev)

	for sub := range t.subs {
		select {
		case sub.events <- ev:
		default:
			logging.Warn("subscriber channel full, dropping event", "topic", topic)
		}
	}
	return nil
}

// Close shuts down the publisher and every subscription.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			close(sub.events)
		}
		t.subs = make(map[*sseSubscription]bool)
	}
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t := p.topics[sub.topic]; t != nil {
		delete(t.subs, sub)
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	once      sync.Once
}

func (s *sseSubscription) Topic() string        { return s.topic }
func (s *sseSubscription) Events() <-chan Event { return s.events }

func (s *sseSubscription) Close() error {
	s.once.Do(func() { s.publisher.unsubscribe(s) })
	return nil
}

// WriteSSE frames one event for an SSE stream: "data: {json}\n\n".
func WriteSSE(w io.Writer, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
