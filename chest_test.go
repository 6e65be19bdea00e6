package commandchest

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

func testPosition() Position {
	return Position{World: "world", Pos: cube.Pos{10, 64, -3}}
}

func TestNewChestDefaults(t *testing.T) {
	id := uuid.New()
	c := NewChest(id, testPosition())

	if c.ID != id {
		t.Fatalf("ID = %v, want %v", c.ID, id)
	}
	if !c.NameVisible {
		t.Fatalf("new chest should have a visible name")
	}
	if c.Method != MethodRight {
		t.Fatalf("Method = %v, want MethodRight", c.Method)
	}
	if c.Command != "" {
		t.Fatalf("Command = %q, want empty", c.Command)
	}
	if c.Cooldown() != 0 {
		t.Fatalf("Cooldown = %d, want 0", c.Cooldown())
	}
	if c.RequiredItem != nil {
		t.Fatalf("RequiredItem = %v, want nil", c.RequiredItem)
	}
	if c.LastUsed == nil {
		t.Fatalf("LastUsed map should be initialised")
	}
}

func TestSetCooldownClampsNegative(t *testing.T) {
	c := NewChest(uuid.New(), testPosition())
	c.SetCooldown(30)
	if c.Cooldown() != 30 {
		t.Fatalf("Cooldown = %d, want 30", c.Cooldown())
	}
	c.SetCooldown(-5)
	if c.Cooldown() != 0 {
		t.Fatalf("Cooldown = %d after negative input, want 0", c.Cooldown())
	}
}

func TestActivationMethodMatches(t *testing.T) {
	cases := []struct {
		method   ActivationMethod
		click    ClickKind
		sneaking bool
		want     bool
	}{
		{MethodLeft, ClickLeft, false, true},
		{MethodLeft, ClickRight, false, false},
		{MethodLeft, ClickLeft, true, false},
		{MethodRight, ClickRight, false, true},
		{MethodRight, ClickLeft, false, false},
		{MethodRight, ClickRight, true, false},
		{MethodBoth, ClickLeft, false, true},
		{MethodBoth, ClickRight, false, true},
		{MethodBoth, ClickLeft, true, false},
		{MethodShift, ClickLeft, true, true},
		{MethodShift, ClickRight, true, true},
		{MethodShift, ClickRight, false, false},
	}
	for _, tc := range cases {
		if got := tc.method.Matches(tc.click, tc.sneaking); got != tc.want {
			t.Errorf("%v.Matches(%v, sneaking=%v) = %v, want %v",
				tc.method, tc.click, tc.sneaking, got, tc.want)
		}
	}
}

func TestParseActivationMethod(t *testing.T) {
	for _, m := range []ActivationMethod{MethodLeft, MethodRight, MethodBoth, MethodShift} {
		parsed, ok := ParseActivationMethod(m.String())
		if !ok || parsed != m {
			t.Fatalf("ParseActivationMethod(%q) = %v, %v", m.String(), parsed, ok)
		}
	}
	if m, ok := ParseActivationMethod("SOMETHING"); ok || m != MethodRight {
		t.Fatalf("unknown method should report ok=false and fall back to RIGHT, got %v, %v", m, ok)
	}
}

func TestStackSatisfies(t *testing.T) {
	req := &ItemRequirement{Kind: "minecraft:diamond", Count: 3}

	if (Stack{}).Satisfies(req) {
		t.Fatalf("empty hand should not satisfy a requirement")
	}
	if (Stack{Kind: "minecraft:emerald", Count: 5}).Satisfies(req) {
		t.Fatalf("wrong kind should not satisfy")
	}
	if (Stack{Kind: "minecraft:diamond", Count: 2}).Satisfies(req) {
		t.Fatalf("count below the requirement should not satisfy")
	}
	if !(Stack{Kind: "minecraft:diamond", Count: 3}).Satisfies(req) {
		t.Fatalf("exact count should satisfy")
	}
	if !(Stack{Kind: "minecraft:diamond", Count: 64}).Satisfies(req) {
		t.Fatalf("surplus count should satisfy")
	}
	if !(Stack{}).Satisfies(nil) {
		t.Fatalf("nil requirement should always be satisfied")
	}
}

func TestCloneIsDeep(t *testing.T) {
	player := uuid.New()
	c := NewChest(uuid.New(), testPosition())
	c.NameLines = []string{"Daily", "Reward"}
	c.RequiredItem = &ItemRequirement{Kind: "minecraft:paper", Count: 1}
	c.LastUsed[player] = 1234

	cp := c.Clone()
	cp.NameLines[0] = "Weekly"
	cp.NameLines = append(cp.NameLines, "Extra")
	cp.RequiredItem.Count = 64
	cp.LastUsed[player] = 9999
	cp.Command = "changed"

	if c.NameLines[0] != "Daily" || len(c.NameLines) != 2 {
		t.Fatalf("clone shares NameLines with the original: %v", c.NameLines)
	}
	if c.RequiredItem.Count != 1 {
		t.Fatalf("clone shares RequiredItem with the original")
	}
	if c.LastUsed[player] != 1234 {
		t.Fatalf("clone shares LastUsed with the original")
	}
	if c.Command != "" {
		t.Fatalf("clone shares scalar state with the original")
	}
}
