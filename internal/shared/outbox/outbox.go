package outbox

// Message is an outbox row written in the same transaction (or under the same
// store lock) as the state change that produced it. The worker relay reads
// pending rows and publishes them to the event bus.
type Message struct {
	ID        string
	EventType string
	Payload   []byte
	Status    string // pending, published
}
