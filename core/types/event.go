package types

// Event represents a typed state change emitted while executing a program
// instruction. Attributes hold string-encoded payload fields so downstream
// consumers (RPC, indexers) never need the engine types to decode them.
type Event struct {
	Type       string
	Attributes map[string]string
}
