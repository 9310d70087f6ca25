// Package hints implements the CTF easter-egg overlay. Incoming
// messages are matched against a static trigger table; repeated hits on
// the same category walk a hint progression from gentle to direct.
package hints

import "strings"

// Rule maps trigger phrases to an ordered hint progression. Hints are
// ordered from the vaguest nudge to the most direct clue.
type Rule struct {
	Category string   `json:"category"`
	Triggers []string `json:"triggers"`
	Hints    []string `json:"hints"`
}

// Stage is how direct the next hint for a category will be. It is a
// small per-category state machine: gentle, then clearer, then direct,
// terminal at direct.
type Stage int

const (
	StageGentle Stage = iota
	StageClearer
	StageDirect
)

// Advance moves to the next stage, holding at StageDirect.
func (s Stage) Advance() Stage {
	if s >= StageDirect {
		return StageDirect
	}
	return s + 1
}

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageGentle:
		return "gentle"
	case StageClearer:
		return "clearer"
	default:
		return "direct"
	}
}

// Overlay holds the static rule table. Never mutated after creation.
type Overlay struct {
	rules []Rule
}

// New creates an overlay from the given rules. Empty rule sets fall
// back to the built-in table.
func New(rules []Rule) *Overlay {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Overlay{rules: rules}
}

// Rules returns the active rule count.
func (o *Overlay) Rules() int {
	return len(o.rules)
}

// Match scans the message for a trigger phrase and returns the matched
// category. Matching is case-insensitive substring search; the first
// rule in table order wins.
func (o *Overlay) Match(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, rule := range o.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, strings.ToLower(trigger)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// Hint returns the hint for a category at the given stage. A stage
// past a rule's last hint holds at the most direct one, so a solver is
// never pushed back to a vaguer clue.
func (o *Overlay) Hint(category string, stage Stage) (string, bool) {
	for _, rule := range o.rules {
		if rule.Category != category {
			continue
		}
		if len(rule.Hints) == 0 {
			return "", false
		}
		idx := int(stage)
		if idx >= len(rule.Hints) {
			idx = len(rule.Hints) - 1
		}
		return rule.Hints[idx], true
	}
	return "", false
}

// defaultRules is the built-in trigger table, used when the dataset
// file carries no hint rules of its own.
var defaultRules = []Rule{
	{
		Category: "easter_egg",
		Triggers: []string{"easter egg", "hidden feature", "secret", "surprise"},
		Hints: []string{
			"I do have a few hidden features. A curious visitor might start by looking at what the page itself is made of.",
			"Hidden things on the web tend to live in places browsers don't render. Have you viewed the page source?",
			"Check the HTML comments on the homepage. One of them is not like the others.",
		},
	},
	{
		Category: "flag",
		Triggers: []string{"flag", "ctf", "capture the flag"},
		Hints: []string{
			"Flags are earned, not given. There is a trail, and it starts somewhere very public.",
			"The trail runs through the site's headers. Curl is your friend.",
			"Look at the X-Intersect header on any response from this site. Decode what you find there.",
		},
	},
	{
		Category: "cipher",
		Triggers: []string{"cipher", "encoded", "decode", "base64"},
		Hints: []string{
			"If something looks like gibberish, it probably isn't.",
			"That string you found is encoded twice. Peel it like an onion.",
			"Base64, then ROT13. In that order.",
		},
	},
}
