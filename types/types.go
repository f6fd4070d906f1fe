// Package types defines the shared data structures for the Ascend engine.
// It holds type definitions only.
package types

// Class identifies a player class. Fixed at character creation.
type Class string

const (
	ClassMartialArtist Class = "martial_artist"
	ClassQiCultivator  Class = "qi_cultivator"
	ClassAssassin      Class = "assassin"
)

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
}

// Event is emitted by an operation after it mutates state.
type Event struct {
	Type string
	Data map[string]any
}

// SessionResult is the overall state of a play session.
// Everything except SessionOngoing is terminal.
type SessionResult int

const (
	SessionOngoing SessionResult = iota
	SessionVictory               // boss defeated
	SessionDefeat                // died in combat
	SessionAscended              // breakthrough to the final level
	SessionFatalFailure          // died during a breakthrough
	SessionQuit
)

// Result is the output of a single session step.
type Result struct {
	Events  []Event
	Output  []string
	Session SessionResult
}

// Condition is a predicate over the player, e.g. a quest completion check.
type Condition struct {
	Type   string         // "counter_at_least", "level_at_least", "gold_at_least", "not"
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for Not(): the negated inner condition
}

// Player holds the player's runtime state.
type Player struct {
	Name             string
	Class            Class
	Health           int
	Attack           int
	Defense          int
	Qi               int
	CultivationLevel int
	CultivationSpeed float64
	Gold             int
	BanditsDefeated  int
	QiPills          int
}

// Enemy is created per encounter and discarded once it resolves.
type Enemy struct {
	ID      string // archetype ID, e.g. "bandit"
	Name    string
	Health  int
	Attack  int
	Defense int
	IsBoss  bool
}

// Quest is a single task offered by an NPC. Completed never reverts.
type Quest struct {
	ID          string
	Description string
	Reward      int
	Completed   bool
	Conditions  []Condition
}

// NPC is a long-lived character who owns exactly one quest.
type NPC struct {
	ID       string
	Name     string
	Greeting string
	Thanks   string
	Quest    *Quest
}

// GameDef holds game metadata and session-wide constants from content.
type GameDef struct {
	Title          string
	Author         string
	Version        string
	Intro          string
	Start          string // starting location ID
	StartGold      int
	RestHealth     int
	AscensionLevel int
}

// ClassDef is the base stat line for a player class.
type ClassDef struct {
	ID          Class
	Name        string
	Description string
	Health      int
	Attack      int
	Defense     int
	Qi          int
	Order       int
}

// ScaledStat is a stat that grows linearly with the scale factor.
type ScaledStat struct {
	Base     int
	PerLevel int
}

// ArchetypeDef is a regular enemy template scaled by cultivation level.
type ArchetypeDef struct {
	ID      string
	Name    string
	Health  ScaledStat
	Attack  ScaledStat
	Defense ScaledStat
	Order   int
}

// BossDef is the fixed end-game enemy.
type BossDef struct {
	ID       string
	Name     string
	Health   int
	Attack   int
	Defense  int
	MinLevel int // cultivation level from which every encounter is the boss
}

// EncounterTable holds the weights for the regular encounter draw.
type EncounterTable struct {
	EnemyWeight int
	NPCWeight   int
}

// TierDef is one row of the breakthrough table, keyed by current level.
type TierDef struct {
	Level      int
	QiRequired int
	Chance     int  // success chance in percent
	Fatal      bool // failure ends the session
}

// GearDef is a purchasable upgrade.
type GearDef struct {
	ID     string
	Name   string
	Cost   int
	Attack int // attack bonus
	Qi     int // qi bonus
	Order  int
}

// QuestDef is the base definition of a quest.
type QuestDef struct {
	ID          string
	Description string
	Reward      int
	Conditions  []Condition
}

// NPCDef is the base definition of an NPC.
type NPCDef struct {
	ID       string
	Name     string
	Greeting string
	Thanks   string
	Quest    QuestDef
}

// LocationDef is a place the player can be between encounters.
type LocationDef struct {
	ID          string
	Name        string
	Description string
	Actions     []string // verbs available here
}
