// Package engine provides the Step() orchestrator that wires together
// parsing, encounters, combat, progression and the village into a single
// session turn.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/engine/events"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/telemetry"
	"github.com/nathoo/ascend/types"
)

// Phase is the part of the session the next input belongs to.
type Phase int

const (
	PhaseName Phase = iota
	PhaseClass
	PhaseExplore
	PhaseCombat
	PhaseConfirm // waiting for yes/no on a breakthrough
	PhaseTraining
	PhaseEnded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseName:
		return "name"
	case PhaseClass:
		return "class"
	case PhaseExplore:
		return "explore"
	case PhaseCombat:
		return "combat"
	case PhaseConfirm:
		return "confirm"
	case PhaseTraining:
		return "training"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SessionName returns a human-readable name for a session result.
func SessionName(s types.SessionResult) string {
	switch s {
	case types.SessionOngoing:
		return "ongoing"
	case types.SessionVictory:
		return "victory"
	case types.SessionDefeat:
		return "defeat"
	case types.SessionAscended:
		return "ascended"
	case types.SessionFatalFailure:
		return "fatal_failure"
	case types.SessionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Ending returns the closing banner for the session, or "" while it
// is still ongoing.
func (e *Engine) Ending() string {
	switch e.session {
	case types.SessionVictory:
		return fmt.Sprintf("Victory! The %s is no more.", e.Defs.Boss.Name)
	case types.SessionAscended:
		return "You have ascended. Victory!"
	case types.SessionDefeat:
		return "You have fallen in battle. Game over."
	case types.SessionFatalFailure:
		return "Your breakthrough failed and your cultivation shattered. Game over."
	case types.SessionQuit:
		return "Goodbye."
	default:
		return ""
	}
}

// Options configures a new Engine. Zero values are usable.
type Options struct {
	Dice   dice.Source // nil: a seeded RNG built from Seed
	Seed   int64
	Logger *slog.Logger // nil: discard
	Tracer trace.Tracer // nil: the global "engine" tracer
}

// Engine holds the game definitions and the session's mutable state.
// It is not safe for concurrent use.
type Engine struct {
	Defs      *state.Defs
	Player    *types.Player // nil until character creation finishes
	NPCs      map[string]*types.NPC
	Enemy     *types.Enemy // current opponent, nil outside combat
	Location  string
	SessionID string

	phase   Phase
	session types.SessionResult
	name    string // chosen during PhaseName
	turns   int

	dice   dice.Source
	log    *slog.Logger
	tracer trace.Tracer
	bus    *events.Bus
}

// New creates a session at the character-creation prompt.
func New(defs *state.Defs, opts Options) *Engine {
	e := &Engine{
		Defs:      defs,
		NPCs:      map[string]*types.NPC{},
		Location:  defs.Game.Start,
		SessionID: uuid.NewString(),
		dice:      opts.Dice,
		log:       opts.Logger,
		tracer:    opts.Tracer,
		bus:       events.NewBus(),
	}
	if e.dice == nil {
		e.dice = dice.NewRNG(opts.Seed)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.tracer == nil {
		e.tracer = telemetry.Tracer("engine")
	}
	for id, def := range defs.NPCs {
		e.NPCs[id] = state.NewNPC(def)
	}

	e.log = e.log.With("session", e.SessionID)
	e.bus.Subscribe("", e.logEvent)
	return e
}

// Phase reports which part of the session the next input belongs to.
func (e *Engine) Phase() Phase { return e.phase }

// Session reports the overall session result.
func (e *Engine) Session() types.SessionResult { return e.session }

// Training reports whether Tick currently has an effect.
func (e *Engine) Training() bool { return e.phase == PhaseTraining }

// Turns is the number of inputs processed so far.
func (e *Engine) Turns() int { return e.turns }

// Subscribe registers a handler for emitted events. An empty type
// receives every event.
func (e *Engine) Subscribe(eventType string, h events.Handler) {
	e.bus.Subscribe(eventType, h)
}

// Intro returns the opening text and the first prompt.
func (e *Engine) Intro() []string {
	var out []string
	if e.Defs.Game.Title != "" {
		out = append(out, e.Defs.Game.Title)
	}
	if e.Defs.Game.Intro != "" {
		out = append(out, e.Defs.Game.Intro)
	}
	out = append(out, "", e.Prompt())
	return out
}

// Step processes one line of player input and returns the result.
func (e *Engine) Step(ctx context.Context, input string) types.Result {
	_, span := e.tracer.Start(ctx, "engine.step")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", e.SessionID),
		attribute.String("phase", e.phase.String()),
		attribute.String("input", input),
		attribute.Int("turn", e.turns),
	)

	var r types.Result

	switch e.phase {
	case PhaseEnded:
		r.Output = append(r.Output, "The session is over.")
	case PhaseName:
		e.stepName(input, &r)
	case PhaseClass:
		e.stepClass(input, &r)
	case PhaseCombat:
		e.stepCombat(input, &r)
	case PhaseConfirm:
		e.stepConfirm(input, &r)
	case PhaseTraining:
		e.stopTraining(&r)
	default:
		e.stepExplore(input, &r)
	}

	e.turns++
	e.dispatch(span, r.Events)

	r.Session = e.session
	span.SetAttributes(attribute.String("session.result", SessionName(e.session)))
	return r
}

// Tick applies one training tick while the session is training.
// Outside training it returns an empty result.
func (e *Engine) Tick() types.Result {
	var r types.Result
	if e.phase != PhaseTraining {
		r.Session = e.session
		return r
	}
	e.train(1, &r)
	e.bus.Dispatch(r.Events)
	r.Session = e.session
	return r
}

// end moves the session into its terminal state.
func (e *Engine) end(result types.SessionResult, r *types.Result) {
	e.session = result
	e.phase = PhaseEnded
	e.Enemy = nil
	r.Events = append(r.Events, events.New(events.SessionEnded, "result", SessionName(result), "turns", e.turns+1))
}

// dispatch fans events out to subscribers and records them on the span.
func (e *Engine) dispatch(span trace.Span, evts []types.Event) {
	e.bus.Dispatch(evts)
	for _, evt := range evts {
		span.AddEvent(evt.Type, trace.WithAttributes(eventAttributes(evt)...))
	}
}

func (e *Engine) logEvent(evt types.Event) {
	args := make([]any, 0, len(evt.Data)*2)
	for _, k := range sortedKeys(evt.Data) {
		args = append(args, k, evt.Data[k])
	}
	e.log.Info(evt.Type, args...)
}

func eventAttributes(evt types.Event) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(evt.Data))
	for _, k := range sortedKeys(evt.Data) {
		switch v := evt.Data[k].(type) {
		case int:
			attrs = append(attrs, attribute.Int(k, v))
		case float64:
			attrs = append(attrs, attribute.Float64(k, v))
		case bool:
			attrs = append(attrs, attribute.Bool(k, v))
		case string:
			attrs = append(attrs, attribute.String(k, v))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprint(v)))
		}
	}
	return attrs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
