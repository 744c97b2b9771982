package driven

// EventPublisher broadcasts a named event to every open UI surface.
// Publish must not block on slow subscribers.
type EventPublisher interface {
	Publish(event string, data any)
}
