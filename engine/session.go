package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/ascend/engine/combat"
	"github.com/nathoo/ascend/engine/encounter"
	"github.com/nathoo/ascend/engine/events"
	"github.com/nathoo/ascend/engine/parser"
	"github.com/nathoo/ascend/engine/progression"
	"github.com/nathoo/ascend/engine/resolve"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/engine/world"
	"github.com/nathoo/ascend/types"
)

// MaxTrainBatch caps `train N` so a typo cannot stall the session.
const MaxTrainBatch = 100000

const combatMenu = "[1] Attack  [2] Use Qi  [3] Defend  [4] Flee"

// Prompt returns the question the session is currently asking.
func (e *Engine) Prompt() string {
	switch e.phase {
	case PhaseName:
		return "What is your name, cultivator?"
	case PhaseClass:
		var opts []string
		for i, c := range state.ClassList(e.Defs) {
			opts = append(opts, fmt.Sprintf("[%d] %s", i+1, c.Name))
		}
		return "Choose your path: " + strings.Join(opts, "  ")
	case PhaseCombat:
		return combatMenu
	case PhaseConfirm:
		return "Attempt the breakthrough? (yes/no)"
	case PhaseTraining:
		return "Training... press Enter to stop."
	case PhaseEnded:
		return ""
	default:
		return "What will you do? (type 'help' for commands)"
	}
}

// --- Creation ---

func (e *Engine) stepName(input string, r *types.Result) {
	e.name = strings.TrimSpace(input)
	if e.name == "" {
		e.name = state.DefaultName
	}
	e.phase = PhaseClass
	r.Output = append(r.Output, fmt.Sprintf("Welcome, %s.", e.name))
	for i, c := range state.ClassList(e.Defs) {
		r.Output = append(r.Output, fmt.Sprintf("  [%d] %-15s HP %3d  ATK %2d  DEF %2d  Qi %2d  %s",
			i+1, c.Name, c.Health, c.Attack, c.Defense, c.Qi, c.Description))
	}
	r.Output = append(r.Output, e.Prompt())
}

func (e *Engine) stepClass(input string, r *types.Result) {
	class, ok := state.ParseClass(input, e.Defs)
	if !ok {
		r.Output = append(r.Output, "That is not a path you can walk.", e.Prompt())
		return
	}
	p, ok := state.NewPlayer(e.name, class, e.Defs)
	if !ok {
		r.Output = append(r.Output, "That is not a path you can walk.", e.Prompt())
		return
	}
	e.Player = p
	e.phase = PhaseExplore
	def := e.Defs.Classes[class]
	r.Output = append(r.Output, fmt.Sprintf("%s the %s begins the climb toward immortality.", p.Name, def.Name), "")
	r.Output = append(r.Output, e.describeLocation()...)
	r.Events = append(r.Events, events.New(events.PlayerCreated, "name", p.Name, "class", string(class)))
}

// --- Exploration ---

// Verbs usable anywhere outside combat.
var anywhereVerbs = map[string]bool{
	"look": true, "status": true, "help": true, "go": true, "quit": true,
}

func (e *Engine) stepExplore(input string, r *types.Result) {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		r.Output = append(r.Output, "What do you want to do?")
		return
	}

	if !anywhereVerbs[intent.Verb] && e.knownVerb(intent.Verb) && !e.locationAllows(intent.Verb) {
		r.Output = append(r.Output, fmt.Sprintf("You can't %s here. You can: %s.",
			intent.Verb, strings.Join(e.actionsHere(), ", ")))
		return
	}

	switch intent.Verb {
	case "look":
		r.Output = append(r.Output, e.describeLocation()...)
	case "status":
		r.Output = append(r.Output, e.StatusLines()...)
	case "help":
		r.Output = append(r.Output, e.helpLines()...)
	case "go":
		e.goTo(intent.Object, r)
	case "explore":
		e.explore(r)
	case "rest":
		r.Events = append(r.Events, world.Rest(e.Player, e.Defs))
		r.Output = append(r.Output, fmt.Sprintf("You rest at the inn. Health restored to %d.", e.Player.Health))
	case "shop":
		r.Output = append(r.Output, e.shopLines()...)
	case "buy":
		e.buy(intent.Object, r)
	case "talk":
		e.talk(intent.Object, r)
	case "train":
		e.startTraining(intent.Object, r)
	case "breakthrough":
		e.breakthrough(r)
	case "quit":
		r.Output = append(r.Output, "You set down the path of cultivation. Farewell.")
		e.end(types.SessionQuit, r)
	case "attack", "qi", "defend", "flee":
		r.Output = append(r.Output, "There is nothing to fight here.")
	case "yes", "no":
		r.Output = append(r.Output, "There is nothing to answer.")
	default:
		r.Output = append(r.Output, "I don't understand that. Type 'help' for commands.")
	}
}

// knownVerb reports whether the verb is a location action at all.
func (e *Engine) knownVerb(verb string) bool {
	for _, loc := range e.Defs.Locations {
		for _, a := range loc.Actions {
			if a == verb {
				return true
			}
		}
	}
	return false
}

func (e *Engine) locationAllows(verb string) bool {
	for _, a := range e.actionsHere() {
		if a == verb {
			return true
		}
	}
	return false
}

func (e *Engine) actionsHere() []string {
	return e.Defs.Locations[e.Location].Actions
}

func (e *Engine) goTo(target string, r *types.Result) {
	if target == "" {
		r.Output = append(r.Output, "Go where? ("+strings.Join(e.otherLocations(), ", ")+")")
		return
	}
	var candidates []resolve.Candidate
	for _, id := range e.locationIDs() {
		candidates = append(candidates, resolve.Candidate{ID: id, Name: e.Defs.Locations[id].Name})
	}
	id, err := resolve.Name(target, candidates)
	if err != nil {
		r.Output = append(r.Output, "You don't know the way to "+target+".")
		return
	}
	if id == e.Location {
		r.Output = append(r.Output, "You are already in the "+e.Defs.Locations[id].Name+".")
		return
	}
	from := e.Location
	e.Location = id
	r.Events = append(r.Events, events.New(events.LocationChanged, "from", from, "to", id))
	r.Output = append(r.Output, e.describeLocation()...)
}

func (e *Engine) explore(r *types.Result) {
	enc := encounter.Generate(e.Player, e.Defs, e.dice)

	switch enc.Kind {
	case encounter.KindNPC:
		npc := e.NPCs[enc.NPCID]
		r.Events = append(r.Events, events.New(events.EncounterStarted, "kind", enc.Kind.String(), "npc", enc.NPCID))
		r.Output = append(r.Output, fmt.Sprintf("On the road you meet the %s.", npc.Name))
		d := world.TalkToNPC(e.Player, npc)
		r.Output = append(r.Output, d.Output...)
		r.Events = append(r.Events, d.Events...)

	default:
		e.Enemy = enc.Enemy
		e.phase = PhaseCombat
		r.Events = append(r.Events, events.New(events.EncounterStarted, "kind", enc.Kind.String(), "enemy", enc.Enemy.ID))
		if enc.Kind == encounter.KindBoss {
			r.Output = append(r.Output, "The sky darkens and the mountain groans.")
			r.Output = append(r.Output, fmt.Sprintf("The %s rises before you!", enc.Enemy.Name))
		} else {
			r.Output = append(r.Output, fmt.Sprintf("A %s blocks your path!", enc.Enemy.Name))
		}
		r.Output = append(r.Output, e.enemyLine(), combatMenu)
	}
}

func (e *Engine) buy(choice string, r *types.Result) {
	if choice == "" {
		r.Output = append(r.Output, e.shopLines()...)
		return
	}
	res, err := world.BuyGear(e.Player, choice, e.Defs)
	var ie *world.InsufficientError
	switch {
	case errors.As(err, &ie):
		item, _ := world.FindGear(choice, e.Defs)
		r.Output = append(r.Output, fmt.Sprintf("You can't afford the %s (need %d gold, have %d).", item.Name, ie.Need, ie.Have))
	case errors.Is(err, world.ErrUnknownItem):
		r.Output = append(r.Output, "The merchant doesn't sell that.")
	case err != nil:
		r.Output = append(r.Output, err.Error())
	default:
		r.Output = append(r.Output, res.Output...)
		r.Events = append(r.Events, res.Events...)
	}
}

func (e *Engine) talk(target string, r *types.Result) {
	ids := state.NPCIDs(e.Defs)
	if len(ids) == 0 {
		r.Output = append(r.Output, "There is no one here to talk to.")
		return
	}

	id := ids[0]
	if target != "" {
		var candidates []resolve.Candidate
		for _, nid := range ids {
			candidates = append(candidates, resolve.Candidate{ID: nid, Name: e.NPCs[nid].Name})
		}
		var err error
		id, err = resolve.Name(target, candidates)
		if err != nil {
			r.Output = append(r.Output, capitalize(err.Error())+".")
			return
		}
	} else if len(ids) > 1 {
		r.Output = append(r.Output, "Talk to whom?")
		return
	}

	d := world.TalkToNPC(e.Player, e.NPCs[id])
	r.Output = append(r.Output, d.Output...)
	r.Events = append(r.Events, d.Events...)
}

// --- Training ---

func (e *Engine) startTraining(arg string, r *types.Result) {
	if arg == "" {
		e.phase = PhaseTraining
		r.Output = append(r.Output, "You sit cross-legged and begin circulating your Qi.", e.Prompt())
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		r.Output = append(r.Output, "Train how many cycles? (e.g. 'train 50')")
		return
	}
	if n > MaxTrainBatch {
		r.Output = append(r.Output, fmt.Sprintf("You can meditate for at most %d cycles at once.", MaxTrainBatch))
		return
	}
	before := e.Player.Qi
	e.train(n, r)
	r.Output = []string{fmt.Sprintf("You meditate for %d cycles and gain %d Qi. (Qi: %d)", n, e.Player.Qi-before, e.Player.Qi)}
}

// train applies n ticks and emits a single summary event.
func (e *Engine) train(n int, r *types.Result) {
	gained := 0
	for i := 0; i < n; i++ {
		gained += progression.ApplyTrainingTick(e.Player)
	}
	r.Output = append(r.Output, fmt.Sprintf("+%d Qi (Qi: %d)", gained, e.Player.Qi))
	r.Events = append(r.Events, events.New(events.QiTrained, "ticks", n, "gained", gained, "qi", e.Player.Qi))
}

func (e *Engine) stopTraining(r *types.Result) {
	e.phase = PhaseExplore
	r.Output = append(r.Output, fmt.Sprintf("You open your eyes. Qi: %d.", e.Player.Qi))
}

// --- Breakthrough ---

func (e *Engine) breakthrough(r *types.Result) {
	tier, ok := progression.Requirement(e.Player.CultivationLevel, e.Defs)
	if !ok || e.Player.Qi < tier.QiRequired {
		// Nothing to confirm; the attempt reports why it cannot proceed.
		res := progression.AttemptBreakthrough(e.Player, true, e.Defs, e.dice)
		r.Output = append(r.Output, res.Output...)
		return
	}

	e.phase = PhaseConfirm
	r.Output = append(r.Output, fmt.Sprintf("Breaking through from level %d requires %d Qi (you have %d). Success chance: %d%%.",
		e.Player.CultivationLevel, tier.QiRequired, e.Player.Qi, tier.Chance))
	if tier.Fatal {
		r.Output = append(r.Output, "Warning: failure at this level will destroy you.")
	} else {
		r.Output = append(r.Output, fmt.Sprintf("Failure costs %d%% of your Qi.", int(progression.FailureQiLoss*100)))
	}
	r.Output = append(r.Output, e.Prompt())
}

func (e *Engine) stepConfirm(input string, r *types.Result) {
	var proceed bool
	switch parser.Parse(input).Verb {
	case "yes":
		proceed = true
	case "no":
		proceed = false
	default:
		r.Output = append(r.Output, "Please answer yes or no.")
		return
	}

	e.phase = PhaseExplore
	res := progression.AttemptBreakthrough(e.Player, proceed, e.Defs, e.dice)
	r.Output = append(r.Output, res.Output...)
	r.Events = append(r.Events, res.Events...)

	switch res.Outcome {
	case progression.Ascended:
		e.end(types.SessionAscended, r)
	case progression.FatalFailure:
		e.end(types.SessionFatalFailure, r)
	}
}

// --- Combat ---

func (e *Engine) stepCombat(input string, r *types.Result) {
	intent := parser.Parse(input)

	var action combat.Action
	if n, err := strconv.Atoi(intent.Verb); err == nil {
		action = combat.ActionForChoice(n)
	} else {
		switch intent.Verb {
		case "status":
			r.Output = append(r.Output, e.StatusLines()...)
			r.Output = append(r.Output, e.enemyLine())
			return
		case "look":
			r.Output = append(r.Output, e.enemyLine(), combatMenu)
			return
		case "help":
			r.Output = append(r.Output, "Choose an action by number or name:", combatMenu)
			return
		case "quit":
			r.Output = append(r.Output, "You abandon the fight and the path of cultivation.")
			e.end(types.SessionQuit, r)
			return
		}
		var ok bool
		if action, ok = combat.ActionForVerb(intent.Verb); !ok {
			r.Output = append(r.Output, "Choose an action: "+combatMenu)
			return
		}
	}

	tr := combat.ResolveTurn(e.Player, e.Enemy, action, e.dice)
	r.Output = append(r.Output, tr.Output...)
	r.Events = append(r.Events, tr.Events...)

	switch tr.Outcome {
	case combat.Ongoing:
		r.Output = append(r.Output, e.combatStatusLine(), combatMenu)
	case combat.Victory, combat.Fled:
		e.Enemy = nil
		e.phase = PhaseExplore
	case combat.Defeat:
		e.end(types.SessionDefeat, r)
	case combat.BossDefeated:
		r.Output = append(r.Output, "The wilds fall silent. You have triumphed!")
		e.end(types.SessionVictory, r)
	}
}

func (e *Engine) enemyLine() string {
	if e.Enemy == nil {
		return ""
	}
	return fmt.Sprintf("%s  HP %d  ATK %d  DEF %d", e.Enemy.Name, e.Enemy.Health, e.Enemy.Attack, e.Enemy.Defense)
}

func (e *Engine) combatStatusLine() string {
	return fmt.Sprintf("You: HP %d  Qi %d   |   %s: HP %d", e.Player.Health, e.Player.Qi, e.Enemy.Name, e.Enemy.Health)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
