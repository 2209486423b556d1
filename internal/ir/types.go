package ir

// Digest identifies a content package by its content hash.
// Digests are opaque and compared byte-for-byte.
type Digest = string

// FlagName names a compatibility behavior, e.g. "comp_zombie".
// Flag names compare case-insensitively.
type FlagName = string

// FlagPrefix is the literal prefix every resolvable flag name carries.
const FlagPrefix = "comp_"

// Intent says whether a section forces a flag on or off.
type Intent string

const (
	IntentEnable  Intent = "on"
	IntentDisable Intent = "off"
)

// Section is one parsed compatibility section.
//
// Every digest in Hashes receives every name in On (enable intent) and
// every name in Off (disable intent).
type Section struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Hashes []Digest   `json:"hashes" yaml:"hashes"`
	On     []FlagName `json:"on" yaml:"on"`
	Off    []FlagName `json:"off" yaml:"off"`
}

// Empty reports whether the section has nothing to contribute: no digests,
// or no settings in either direction.
func (s Section) Empty() bool {
	return len(s.Hashes) == 0 || (len(s.On) == 0 && len(s.Off) == 0)
}

// Names returns the setting list for the given intent.
func (s Section) Names(intent Intent) []FlagName {
	if intent == IntentDisable {
		return s.Off
	}
	return s.On
}

// FoldName returns the comparison key of a flag name: ASCII letters A-Z
// lowered, every other byte left as is. Two names are the same flag name
// when their keys are equal.
func FoldName(name string) string {
	for i := 0; i < len(name); i++ {
		if isUpperASCII(name[i]) {
			b := []byte(name)
			for j := i; j < len(b); j++ {
				if isUpperASCII(b[j]) {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return name
}

// EqualNames compares two flag names ignoring ASCII case only.
// Non-ASCII bytes must match exactly.
func EqualNames(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if isUpperASCII(ca) {
			ca += 'a' - 'A'
		}
		if isUpperASCII(cb) {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func isUpperASCII(c byte) bool {
	return 'A' <= c && c <= 'Z'
}
