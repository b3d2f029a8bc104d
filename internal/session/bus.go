// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"sync"
)

// subscriberBuffer bounds the events queued for one slow subscriber.
const subscriberBuffer = 64

// Bus broadcasts auth events to subscribers.
//
// # Delivery
//
// Each subscriber owns a goroutine draining its own queue, so handlers run
// asynchronously and in publish order. A subscriber whose queue is full loses
// the event; the drop is reported through the optional OnDrop hook.
type Bus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]*subscriber

	// OnDrop is called when an event could not be queued for a subscriber.
	OnDrop func(Event)
}

type subscriber struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewBus constructs an empty [Bus].
func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]*subscriber)}
}

// Subscribe registers handler and returns an idempotent unsubscribe function.
func (bus *Bus) Subscribe(handler func(Event)) (unsubscribe func()) {
	sub := &subscriber{
		events: make(chan Event, subscriberBuffer),
		done:   make(chan struct{}),
	}

	bus.mu.Lock()
	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = sub
	bus.mu.Unlock()

	go func() {
		for {
			select {
			case event := <-sub.events:
				handler(event)
			case <-sub.done:
				return
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			bus.mu.Lock()
			delete(bus.subscribers, id)
			bus.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish queues event for every current subscriber without blocking.
func (bus *Bus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, sub := range bus.subscribers {
		select {
		case sub.events <- event:
		default:
			if bus.OnDrop != nil {
				bus.OnDrop(event)
			}
		}
	}
}

// Len returns the number of live subscriptions.
func (bus *Bus) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subscribers)
}
