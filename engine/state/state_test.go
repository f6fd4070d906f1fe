package state

import (
	"testing"

	"github.com/nathoo/ascend/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title:     "Test Game",
			Start:     "village",
			StartGold: 50,
		},
		Classes: map[types.Class]types.ClassDef{
			types.ClassMartialArtist: {ID: types.ClassMartialArtist, Name: "Martial Artist", Health: 120, Attack: 18, Defense: 12, Qi: 5, Order: 1},
			types.ClassQiCultivator:  {ID: types.ClassQiCultivator, Name: "Qi Cultivator", Health: 80, Attack: 8, Defense: 6, Qi: 25, Order: 2},
			types.ClassAssassin:      {ID: types.ClassAssassin, Name: "Assassin", Health: 100, Attack: 15, Defense: 10, Qi: 10, Order: 3},
		},
		NPCs: map[string]types.NPCDef{
			"elder": {
				ID:   "elder",
				Name: "Elder Mo",
				Quest: types.QuestDef{
					ID:          "bandit_trouble",
					Description: "Defeat 3 bandits.",
					Reward:      50,
					Conditions: []types.Condition{
						{Type: "counter_at_least", Params: map[string]any{"counter": "bandits_defeated", "value": 3}},
					},
				},
			},
			"apothecary": {ID: "apothecary", Name: "Apothecary Lin"},
		},
	}
}

func TestNewPlayer_ClassStats(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		class                   types.Class
		health, attack, defense int
		qi                      int
	}{
		{types.ClassMartialArtist, 120, 18, 12, 5},
		{types.ClassQiCultivator, 80, 8, 6, 25},
		{types.ClassAssassin, 100, 15, 10, 10},
	}
	for _, tt := range tests {
		p, ok := NewPlayer("Lan", tt.class, defs)
		if !ok {
			t.Fatalf("NewPlayer(%s) failed", tt.class)
		}
		if p.Health != tt.health || p.Attack != tt.attack || p.Defense != tt.defense || p.Qi != tt.qi {
			t.Errorf("%s: got hp=%d atk=%d def=%d qi=%d, want %d/%d/%d/%d",
				tt.class, p.Health, p.Attack, p.Defense, p.Qi, tt.health, tt.attack, tt.defense, tt.qi)
		}
		if p.Class != tt.class {
			t.Errorf("class = %s, want %s", p.Class, tt.class)
		}
	}
}

func TestNewPlayer_StartingProgress(t *testing.T) {
	p, _ := NewPlayer("Lan", types.ClassAssassin, testDefs())

	if p.Gold != 50 {
		t.Errorf("gold = %d, want 50", p.Gold)
	}
	if p.CultivationLevel != 1 {
		t.Errorf("level = %d, want 1", p.CultivationLevel)
	}
	if p.CultivationSpeed != 1.0 {
		t.Errorf("speed = %v, want 1.0", p.CultivationSpeed)
	}
	if p.BanditsDefeated != 0 || p.QiPills != 0 {
		t.Errorf("counters should start at zero, got bandits=%d pills=%d", p.BanditsDefeated, p.QiPills)
	}
}

func TestNewPlayer_DefaultName(t *testing.T) {
	p, _ := NewPlayer("   ", types.ClassAssassin, testDefs())
	if p.Name != DefaultName {
		t.Errorf("name = %q, want %q", p.Name, DefaultName)
	}
}

func TestNewPlayer_UnknownClass(t *testing.T) {
	if _, ok := NewPlayer("Lan", types.Class("bard"), testDefs()); ok {
		t.Error("expected unknown class to fail")
	}
}

func TestParseClass(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		input  string
		want   types.Class
		wantOK bool
	}{
		{"1", types.ClassMartialArtist, true},
		{"2", types.ClassQiCultivator, true},
		{"3", types.ClassAssassin, true},
		{"4", "", false},
		{"assassin", types.ClassAssassin, true},
		{"Qi Cultivator", types.ClassQiCultivator, true},
		{"martial artist", types.ClassMartialArtist, true},
		{"bard", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseClass(tt.input, defs)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseClass(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClassList_Order(t *testing.T) {
	list := ClassList(testDefs())
	if len(list) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(list))
	}
	if list[0].ID != types.ClassMartialArtist || list[2].ID != types.ClassAssassin {
		t.Errorf("unexpected order: %v", list)
	}
}

func TestNewNPC_QuestStartsIncomplete(t *testing.T) {
	npc := NewNPC(testDefs().NPCs["elder"])

	if npc.Quest == nil {
		t.Fatal("NPC should own a quest")
	}
	if npc.Quest.Completed {
		t.Error("quest should start incomplete")
	}
	if npc.Quest.Reward != 50 {
		t.Errorf("reward = %d, want 50", npc.Quest.Reward)
	}
	if len(npc.Quest.Conditions) != 1 {
		t.Errorf("expected 1 condition, got %d", len(npc.Quest.Conditions))
	}
}

func TestNPCIDs_Sorted(t *testing.T) {
	ids := NPCIDs(testDefs())
	if len(ids) != 2 || ids[0] != "apothecary" || ids[1] != "elder" {
		t.Errorf("NPCIDs = %v", ids)
	}
}

func TestGetCounter(t *testing.T) {
	p := &types.Player{BanditsDefeated: 2, QiPills: 1, Gold: 70, Qi: 40, CultivationLevel: 3}

	tests := []struct {
		name string
		want int
	}{
		{"bandits_defeated", 2},
		{"qi_pills", 1},
		{"gold", 70},
		{"qi", 40},
		{"level", 3},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := GetCounter(p, tt.name); got != tt.want {
			t.Errorf("GetCounter(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAlive(t *testing.T) {
	if Alive(&types.Player{Health: 0}) {
		t.Error("player at 0 health should not be alive")
	}
	if !Alive(&types.Player{Health: 1}) {
		t.Error("player at 1 health should be alive")
	}
	if EnemyAlive(&types.Enemy{Health: -3}) {
		t.Error("enemy below 0 health should not be alive")
	}
}
