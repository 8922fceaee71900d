package event

import (
	"time"

	"github.com/viant/kernelsim/internal/clock"
)

// Context identifies where an event was raised
type Context struct {
	RunID     string `json:"runID"`
	Scenario  string `json:"scenario,omitempty"`
	EventType string `json:"eventType"`
	// VirtualTime is the simulated time of the event in microseconds
	VirtualTime int `json:"virtualTime"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
