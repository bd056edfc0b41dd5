package events

// Event represents a structured state change emitted by the program.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Collector buffers emitted events in order. The dispatcher attaches one per
// instruction so events from an aborted instruction can be discarded together
// with the staged state writes.
type Collector struct {
	events []Event
}

// Emit implements the Emitter interface.
func (c *Collector) Emit(evt Event) {
	if c == nil || evt == nil {
		return
	}
	c.events = append(c.events, evt)
}

// Drain returns the buffered events and resets the collector.
func (c *Collector) Drain() []Event {
	if c == nil {
		return nil
	}
	drained := c.events
	c.events = nil
	return drained
}

// Reset discards any buffered events.
func (c *Collector) Reset() {
	if c != nil {
		c.events = nil
	}
}
