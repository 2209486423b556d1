package engine

import (
	"strings"

	"github.com/roach88/wadcompat/internal/ir"
)

// Flag indexes the engine's compatibility flag arrays.
type Flag int

// Known compatibility flags, in table order.
const (
	CompTelefrag Flag = iota
	CompDropoff
	CompVile
	CompPain
	CompSkull
	CompBlazing
	CompDoorLight
	CompModel
	CompGod
	CompFalloff
	CompFloors
	CompSkymap
	CompPursuit
	CompDoorStuck
	CompStayLift
	CompZombie
	CompStairs
	CompInfCheat
	CompZeroTags
	CompTerrain
	CompRespawnFix
	CompFallingDmg
	CompSoul
	CompTHeights
	CompOverUnder
	CompPlaneShoot
	CompSpecial
	CompNinja
	CompJump

	// NumFlags is the size of the flag table and of both FlagState arrays.
	NumFlags
)

// knownFlags holds the canonical suffix of every flag, indexed by Flag.
// A configured name resolves to index i when it equals "comp_" + knownFlags[i].
var knownFlags = [NumFlags]string{
	CompTelefrag:   "telefrag",
	CompDropoff:    "dropoff",
	CompVile:       "vile",
	CompPain:       "pain",
	CompSkull:      "skull",
	CompBlazing:    "blazing",
	CompDoorLight:  "doorlight",
	CompModel:      "model",
	CompGod:        "god",
	CompFalloff:    "falloff",
	CompFloors:     "floors",
	CompSkymap:     "skymap",
	CompPursuit:    "pursuit",
	CompDoorStuck:  "doorstuck",
	CompStayLift:   "staylift",
	CompZombie:     "zombie",
	CompStairs:     "stairs",
	CompInfCheat:   "infcheat",
	CompZeroTags:   "zerotags",
	CompTerrain:    "terrain",
	CompRespawnFix: "respawnfix",
	CompFallingDmg: "fallingdmg",
	CompSoul:       "soul",
	CompTHeights:   "theights",
	CompOverUnder:  "overunder",
	CompPlaneShoot: "planeshoot",
	CompSpecial:    "special",
	CompNinja:      "ninja",
	CompJump:       "aircontrol",
}

// Alias maps a full flag name that does not follow the prefix + suffix
// convention onto a flag.
type Alias struct {
	Name ir.FlagName
	Flag Flag
}

// aliases is consulted only after the table lookup fails.
//
// CompJump is the one badly named entry: its table suffix is "aircontrol",
// but older configuration refers to it as "comp_jump".
var aliases = []Alias{
	{Name: "comp_jump", Flag: CompJump},
}

var (
	foldedPrefix = ir.FoldName(ir.FlagPrefix)
	foldedFlags  [NumFlags]string
)

func init() {
	for i, s := range knownFlags {
		foldedFlags[i] = ir.FoldName(s)
	}
}

// String returns the canonical table suffix, e.g. "zombie".
func (f Flag) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return knownFlags[f]
}

// Name returns the full configuration name of the flag, e.g. "comp_zombie".
func (f Flag) Name() ir.FlagName {
	return ir.FlagPrefix + f.String()
}

// Valid reports whether f indexes the flag table.
func (f Flag) Valid() bool {
	return f >= 0 && f < NumFlags
}

// KnownFlags returns the canonical suffixes in table order.
func KnownFlags() []string {
	out := make([]string, NumFlags)
	copy(out, knownFlags[:])
	return out
}

// Aliases returns the exception table.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// DiscardReason says why a configured name did not resolve to a flag.
type DiscardReason string

const (
	// ReasonMissingPrefix: the name does not start with "comp_".
	ReasonMissingPrefix DiscardReason = "missing_prefix"
	// ReasonUnknownFlag: neither the table nor the alias table knows it.
	ReasonUnknownFlag DiscardReason = "unknown_flag"
)

// Resolve turns a configured flag name into a Flag.
//
// The name must carry the "comp_" prefix. The remainder is compared,
// ignoring ASCII case only, against the table in order, first match wins. When
// nothing matches, the alias table is tried with the full name.
func Resolve(name ir.FlagName) (Flag, DiscardReason, bool) {
	folded := ir.FoldName(name)
	if !strings.HasPrefix(folded, foldedPrefix) {
		return 0, ReasonMissingPrefix, false
	}

	suffix := folded[len(foldedPrefix):]
	for i, known := range foldedFlags {
		if suffix == known {
			return Flag(i), "", true
		}
	}

	for _, a := range aliases {
		if folded == ir.FoldName(a.Name) {
			return a.Flag, "", true
		}
	}

	return 0, ReasonUnknownFlag, false
}

// FlagState holds the engine's compatibility override arrays.
//
// Active[i] records that flag i was explicitly set for the current
// content; Value[i] holds the forced setting. Both are reset at the start
// of every ApplyCompatibility call.
type FlagState struct {
	Active [NumFlags]bool
	Value  [NumFlags]bool
}

// Reset clears every flag to inactive and false.
func (s *FlagState) Reset() {
	s.Active = [NumFlags]bool{}
	s.Value = [NumFlags]bool{}
}

// Set marks f active with the given value.
func (s *FlagState) Set(f Flag, value bool) {
	s.Active[f] = true
	s.Value[f] = value
}

// IsActive reports whether f was set for the current content.
func (s *FlagState) IsActive(f Flag) bool {
	return s.Active[f]
}

// Enabled reports the forced value of f. Meaningful only when IsActive(f).
func (s *FlagState) Enabled(f Flag) bool {
	return s.Value[f]
}

// ActiveFlags returns every active flag in table order.
func (s *FlagState) ActiveFlags() []Flag {
	var out []Flag
	for i, active := range s.Active {
		if active {
			out = append(out, Flag(i))
		}
	}
	return out
}
