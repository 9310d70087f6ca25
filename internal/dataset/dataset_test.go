package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `{
  "conversations": [
    {"category": "introduction", "input": "Who is Brenda?", "output": "An AppSec Engineer."},
    {"category": "skills", "input": "What can she do?", "output": "Break and fix applications."},
    {"category": "introduction", "input": "Background?", "output": "Security work."}
  ],
  "hints": [
    {"category": "flag", "triggers": ["flag"], "hints": ["look closer"]}
  ]
}`

func writeTempDataset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeTempDataset(t, testDataset))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Size())
	assert.Equal(t, []string{"introduction", "skills"}, m.Categories())
	assert.Len(t, m.ByCategory("introduction"), 2)
	assert.Len(t, m.ByCategory("skills"), 1)
	assert.Empty(t, m.ByCategory("missing"))
	require.Len(t, m.HintRules(), 1)
	assert.Equal(t, "flag", m.HintRules()[0].Category)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeTempDataset(t, "not json"))
	assert.Error(t, err)

	_, err = Load(writeTempDataset(t, `{"conversations": []}`))
	assert.Error(t, err, "empty dataset must be rejected")
}

func TestSystemPrompt(t *testing.T) {
	m, err := Load(writeTempDataset(t, testDataset))
	require.NoError(t, err)

	prompt := m.SystemPrompt()
	assert.Contains(t, prompt, "Q: Who is Brenda?")
	assert.Contains(t, prompt, "A: An AppSec Engineer.")
	assert.Contains(t, prompt, "The Intersect")
	assert.Contains(t, prompt, "tampertantrumlabs.com")
}
