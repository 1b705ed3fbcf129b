package rules

import (
	"sync"
	"time"
)

// EventType identifies something that happened during a hand.
type EventType string

const (
	EventGameStarted      EventType = "GAME_STARTED"
	EventGameEnded        EventType = "GAME_ENDED"
	EventPhaseChanged     EventType = "PHASE_CHANGED"
	EventCardDealt        EventType = "CARD_DEALT"
	EventBidMade          EventType = "BID_MADE"
	EventBidPassed        EventType = "BID_PASSED"
	EventAuctionAborted   EventType = "AUCTION_ABORTED"
	EventTalonCardDrawn   EventType = "TALON_CARD_DRAWN"
	EventTrialThreeFailed EventType = "TRIAL_THREE_FAILED"
	EventCardDiscarded    EventType = "CARD_DISCARDED"
	EventPartnerCalled    EventType = "PARTNER_CALLED"
	EventAnnounced        EventType = "ANNOUNCED"
	EventContra           EventType = "CONTRA"
	EventReContra         EventType = "RE_CONTRA"
	EventAnnouncePassed   EventType = "ANNOUNCE_PASSED"
	EventCardPlayed       EventType = "CARD_PLAYED"
	EventTrickWon         EventType = "TRICK_WON"
	EventHandScored       EventType = "HAND_SCORED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType
	GameID    string
	Player    int    // Seat that acted, -1 for chance
	Action    int    // Raw action id
	Amount    int    // Numeric value (trick winner, score, ...)
	Data      string // Human-readable action label
	Phase     Phase
	Timestamp time.Time
	Metadata  map[string]string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle, typed
// or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	bus.removeTyped(handle)
}

func (bus *EventBus) removeTyped(handle int) {
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not subscribe or unsubscribe from within the callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, gameID string, player int, phase Phase) Event {
	return Event{
		Type:      eventType,
		GameID:    gameID,
		Player:    player,
		Action:    -1,
		Phase:     phase,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewActionEvent creates an event describing an applied action.
func NewActionEvent(eventType EventType, gameID string, player int, phase Phase, action int, label string) Event {
	evt := NewEvent(eventType, gameID, player, phase)
	evt.Action = action
	evt.Data = label
	return evt
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, gameID string, player int, phase Phase, amount int) Event {
	evt := NewEvent(eventType, gameID, player, phase)
	evt.Amount = amount
	return evt
}
