package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Year int    `yaml:"graduationYear"`
}

const baseline = `
alumni:
  - id: alm_1
    name: Jane Doe
    graduationYear: 2020
  - id: alm_2
    name: John Roe
    graduationYear: 2018
events:
  - id: evt_1
    name: not-a-year
    graduationYear: "twenty"
`

func writeBaseline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "baseline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Ordered section", func(t *testing.T) {
		l := NewLoader(writeBaseline(t, baseline))
		people := Load[person](l, "alumni")
		require.Len(t, people, 2)
		assert.Equal(t, "alm_1", people[0].ID)
		assert.Equal(t, "John Roe", people[1].Name)
		assert.Equal(t, 2018, people[1].Year)
		assert.Equal(t, []string{"alumni", "events"}, l.Kinds())
	})

	t.Run("Missing section", func(t *testing.T) {
		l := NewLoader(writeBaseline(t, baseline))
		assert.Empty(t, Load[person](l, "donations"))
	})

	t.Run("Corrupt section degrades to empty", func(t *testing.T) {
		l := NewLoader(writeBaseline(t, baseline))
		assert.Empty(t, Load[person](l, "events"))
		assert.Len(t, Load[person](l, "alumni"), 2)
	})

	t.Run("Missing file", func(t *testing.T) {
		l := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Empty(t, Load[person](l, "alumni"))
		assert.Empty(t, l.Kinds())
	})

	t.Run("Corrupt file", func(t *testing.T) {
		l := NewLoader(writeBaseline(t, "alumni: [unterminated"))
		assert.Empty(t, Load[person](l, "alumni"))
	})

	t.Run("Read once", func(t *testing.T) {
		path := writeBaseline(t, baseline)
		l := NewLoader(path)
		require.Len(t, Load[person](l, "alumni"), 2)

		require.NoError(t, os.WriteFile(path, []byte("alumni: []\n"), 0o600))
		assert.Len(t, Load[person](l, "alumni"), 2)
	})

	t.Run("Nil loader", func(t *testing.T) {
		var l *Loader
		assert.Empty(t, Load[person](l, "alumni"))
	})
}
