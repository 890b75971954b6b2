package coverletter

// StreamMessage is one decoded SSE unit. An empty Event is the default
// content message. Data is the raw payload, possibly JSON-encoded.
type StreamMessage struct {
	Event string
	Data  string
}

// Event names recognized on the generation stream.
const (
	EventNameComplete = "complete"
	EventNameError    = "error"
)

// Event is a sealed interface representing a generation stream event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventContentDelta carries one content chunk. Content is the full text
// accumulated so far, including Delta.
type EventContentDelta struct {
	Delta   string
	Content string
}

func (EventContentDelta) event() {}

// EventComplete carries the durable identifier of the generated letter.
// It does not end the stream; the stream ends when the server closes it.
type EventComplete struct {
	CoverLetterID string
}

func (EventComplete) event() {}

// Interface compliance checks.
var (
	_ Event = EventContentDelta{}
	_ Event = EventComplete{}
)
