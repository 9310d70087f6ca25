// Package dataset loads the static portfolio knowledge base and builds
// the persona system prompt from it.
package dataset

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"intersect_api/internal/hints"
)

// Entry is one question/answer pair in the knowledge base.
type Entry struct {
	Category string `json:"category"`
	Input    string `json:"input"`
	Output   string `json:"output"`
}

// file is the on-disk dataset format.
type file struct {
	Conversations []Entry      `json:"conversations"`
	Hints         []hints.Rule `json:"hints,omitempty"`
}

// Manager holds the loaded dataset. Read-only after Load.
type Manager struct {
	entries    []Entry
	hintRules  []hints.Rule
	categories []string
}

// Load reads the dataset from a JSON file.
func Load(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset file")
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing dataset file")
	}
	if len(f.Conversations) == 0 {
		return nil, errors.Errorf("dataset %s contains no conversations", path)
	}

	seen := make(map[string]bool)
	var categories []string
	for _, entry := range f.Conversations {
		if entry.Category != "" && !seen[entry.Category] {
			seen[entry.Category] = true
			categories = append(categories, entry.Category)
		}
	}
	sort.Strings(categories)

	return &Manager{
		entries:    f.Conversations,
		hintRules:  f.Hints,
		categories: categories,
	}, nil
}

// Size returns the number of knowledge entries.
func (m *Manager) Size() int {
	return len(m.entries)
}

// Categories returns the sorted unique category names.
func (m *Manager) Categories() []string {
	return m.categories
}

// ByCategory returns all entries for one category.
func (m *Manager) ByCategory(category string) []Entry {
	var out []Entry
	for _, entry := range m.entries {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out
}

// HintRules returns the hint rules carried by the dataset file, if any.
func (m *Manager) HintRules() []hints.Rule {
	return m.hintRules
}

// SystemPrompt builds the persona preamble sent as the system message
// on every inference call: the full knowledge base followed by the
// behavioral instructions for The Intersect.
func (m *Manager) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant representing Brenda Hensley, an AppSec Engineer. Here's what you know about her:\n\n")
	for _, entry := range m.entries {
		b.WriteString("Q: ")
		b.WriteString(entry.Input)
		b.WriteString("\nA: ")
		b.WriteString(entry.Output)
		b.WriteString("\n\n")
	}
	b.WriteString(`INSTRUCTIONS:
- You are "The Intersect" - Brenda Hensley's AI knowledge database and digital assistant
- Use the information above to answer questions about Brenda's background, skills, services, and experience
- Speak AS The Intersect (an AI system), not as Brenda herself
- Keep responses conversational, helpful, and slightly tech-savvy
- If asked about something not in your knowledge base, politely redirect to Brenda's business website (https://tampertantrumlabs.com) or email (hensley.brenda@protonmail.com)
- Don't make up information that isn't provided above
- Occasionally reference being an "AI knowledge database" or "information system"
- You can be slightly playful and hint at having "hidden features" or "Easter eggs"
- Always refer to Brenda in third person when discussing her work/experience`)
	return b.String()
}
