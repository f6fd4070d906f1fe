// Package events implements single-pass dispatch of emitted events to
// handlers. Handlers observe events; they never mutate game state.
package events

import "github.com/nathoo/ascend/types"

// Event types emitted by the engine.
const (
	PlayerCreated     = "player_created"
	LocationChanged   = "location_changed"
	EncounterStarted  = "encounter_started"
	EnemyDefeated     = "enemy_defeated"
	BossDefeated      = "boss_defeated"
	PlayerDied        = "player_died"
	PlayerFled        = "player_fled"
	QiPillFound       = "qi_pill_found"
	QiTrained         = "qi_trained"
	BreakthroughTried = "breakthrough_attempted"
	LevelGained       = "level_gained"
	Ascended          = "ascended"
	QuestCompleted    = "quest_completed"
	GearPurchased     = "gear_purchased"
	Rested            = "rested"
	SessionEnded      = "session_ended"
)

// Handler observes a single event.
type Handler func(types.Event)

// Bus holds handlers keyed by event type. The empty type subscribes to
// every event.
type Bus struct {
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registers h for events of the given type, or for all events
// when eventType is "".
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Dispatch runs handlers against the emitted events. Single pass: handlers
// for a type run in subscription order, then catch-all handlers.
func (b *Bus) Dispatch(evts []types.Event) {
	for _, evt := range evts {
		for _, h := range b.handlers[evt.Type] {
			h(evt)
		}
		if evt.Type == "" {
			continue
		}
		for _, h := range b.handlers[""] {
			h(evt)
		}
	}
}

// New builds an event with the given key/value pairs.
func New(eventType string, kv ...any) types.Event {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return types.Event{Type: eventType, Data: data}
}
