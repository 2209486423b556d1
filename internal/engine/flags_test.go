package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Flag
		reason DiscardReason
		ok     bool
	}{
		{"exact", "comp_zombie", CompZombie, "", true},
		{"mixed case", "Comp_Zombie", CompZombie, "", true},
		{"upper case", "COMP_TELEFRAG", CompTelefrag, "", true},
		{"last table entry", "comp_aircontrol", CompJump, "", true},
		{"alias", "comp_jump", CompJump, "", true},
		{"alias mixed case", "COMP_Jump", CompJump, "", true},
		{"missing prefix", "zombie", 0, ReasonMissingPrefix, false},
		{"other config key", "gamemode", 0, ReasonMissingPrefix, false},
		{"prefix only", "comp_", 0, ReasonUnknownFlag, false},
		{"unknown flag", "comp_future", 0, ReasonUnknownFlag, false},
		{"long s does not fold to s", "comp_\u017fkull", 0, ReasonUnknownFlag, false},
		{"kelvin sign does not fold to k", "comp_s\u212aull", 0, ReasonUnknownFlag, false},
		{"empty", "", 0, ReasonMissingPrefix, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, reason, ok := Resolve(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
			if tt.ok {
				assert.Equal(t, tt.want, flag)
			}
		})
	}
}

func TestKnownFlagsCoverEveryFlag(t *testing.T) {
	names := KnownFlags()
	assert.Len(t, names, int(NumFlags))

	seen := make(map[string]bool)
	for i, name := range names {
		assert.NotEmpty(t, name, "flag %d has no name", i)
		assert.False(t, seen[name], "duplicate table entry %q", name)
		seen[name] = true

		flag, _, ok := Resolve(Flag(i).Name())
		assert.True(t, ok)
		assert.Equal(t, Flag(i), flag)
	}
}

func TestAliasIsNotATableEntry(t *testing.T) {
	for _, a := range Aliases() {
		_, reason, ok := Resolve(stripPrefix(a.Name))
		assert.False(t, ok)
		assert.Equal(t, ReasonMissingPrefix, reason)
		assert.NotContains(t, KnownFlags(), a.Name[len("comp_"):])
	}
}

// stripPrefix drops the "comp_" prefix.
func stripPrefix(name string) string {
	return name[len("comp_"):]
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "zombie", CompZombie.String())
	assert.Equal(t, "comp_zombie", CompZombie.Name())
	assert.Equal(t, "aircontrol", CompJump.String())
	assert.Equal(t, "unknown", Flag(-1).String())
	assert.Equal(t, "unknown", NumFlags.String())
}

func TestFlagStateReset(t *testing.T) {
	var s FlagState
	s.Set(CompZombie, true)
	s.Set(CompGod, false)

	s.Reset()

	for i := Flag(0); i < NumFlags; i++ {
		assert.False(t, s.IsActive(i), "flag %s still active", i)
		assert.False(t, s.Enabled(i), "flag %s still enabled", i)
	}
	assert.Empty(t, s.ActiveFlags())
}

func TestFlagStateActiveFlagsInTableOrder(t *testing.T) {
	var s FlagState
	s.Set(CompJump, true)
	s.Set(CompZombie, false)

	assert.Equal(t, []Flag{CompZombie, CompJump}, s.ActiveFlags())
	assert.False(t, s.Enabled(CompZombie))
	assert.True(t, s.Enabled(CompJump))
}
