package events

import (
	"context"
	"sync"
)

// TaskEvent is a live lifecycle notification for one research task. Events
// are best effort: slow subscribers miss events rather than block the task.
type TaskEvent struct {
	TaskID  string         `json:"task_id"`
	Type    string         `json:"type"`
	Ts      string         `json:"ts"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Broker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan TaskEvent]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: map[string]map[chan TaskEvent]struct{}{},
	}
}

func (b *Broker) Subscribe(ctx context.Context, taskID string) <-chan TaskEvent {
	ch := make(chan TaskEvent, 16)

	b.mu.Lock()
	if b.subscribers[taskID] == nil {
		b.subscribers[taskID] = map[chan TaskEvent]struct{}{}
	}
	b.subscribers[taskID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if b.subscribers[taskID] != nil {
			delete(b.subscribers[taskID], ch)
			if len(b.subscribers[taskID]) == 0 {
				delete(b.subscribers, taskID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (b *Broker) Publish(event TaskEvent) {
	b.mu.RLock()
	subscribers := b.subscribers[event.TaskID]
	chans := make([]chan TaskEvent, 0, len(subscribers))
	for ch := range subscribers {
		chans = append(chans, ch)
	}
	b.mu.RUnlock()

	for _, ch := range chans {
		select {
		case ch <- event:
		default:
		}
	}
}
