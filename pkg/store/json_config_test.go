package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) map[string]map[string][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]map[string][]string
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestCensoredWordsDeduplicated(t *testing.T) {
	s := NewJSONConfigStore(t.TempDir())

	assert.True(t, s.AddCensoredWord("g1", "Spoiler"))
	assert.False(t, s.AddCensoredWord("g1", "spoiler"), "duplicate should be rejected")
	assert.False(t, s.AddCensoredWord("g1", "  "), "blank word should be rejected")
	assert.True(t, s.AddCensoredWord("g2", "spoiler"), "guilds are independent")

	assert.Equal(t, []string{"spoiler"}, s.CensoredWords("g1"))
}

func TestRemoveCensoredWord(t *testing.T) {
	s := NewJSONConfigStore(t.TempDir())
	s.AddCensoredWord("g1", "a")
	s.AddCensoredWord("g1", "b")

	assert.False(t, s.RemoveCensoredWord("g1", "zzz"))
	assert.True(t, s.RemoveCensoredWord("g1", "A"))
	assert.Equal(t, []string{"b"}, s.CensoredWords("g1"))
}

func TestUnknownGuildIsEmpty(t *testing.T) {
	s := NewJSONConfigStore(t.TempDir())

	cfg := s.Get("nope")
	assert.NotNil(t, cfg.CensoredWords)
	assert.NotNil(t, cfg.Prefixes)
	assert.Empty(t, cfg.CensoredWords)
	assert.Empty(t, cfg.Prefixes)
}

func TestPrefixesKeepInsertionOrder(t *testing.T) {
	s := NewJSONConfigStore(t.TempDir())

	assert.True(t, s.AddPrefix("g1", "!"))
	assert.True(t, s.AddPrefix("g1", "?"))
	assert.False(t, s.AddPrefix("g1", "!"))
	assert.False(t, s.AddPrefix("g1", ""))

	assert.Equal(t, []string{"!", "?"}, s.Prefixes("g1"))

	assert.True(t, s.RemovePrefix("g1", "!"))
	assert.False(t, s.RemovePrefix("g1", "!"))
	assert.Equal(t, []string{"?"}, s.Prefixes("g1"))
}

func TestClearPrefixesKeepsEntry(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONConfigStore(dir)
	s.AddPrefix("g1", "!")
	s.ClearPrefixes("g1")

	assert.Empty(t, s.Prefixes("g1"))

	saved := readFile(t, filepath.Join(dir, PrefixesFile))
	require.Contains(t, saved, "g1")
	assert.Empty(t, saved["g1"]["prefixes"])
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s := NewJSONConfigStore(t.TempDir())
	s.AddPrefix("g1", "!")

	got := s.Prefixes("g1")
	got[0] = "mutated"

	assert.Equal(t, []string{"!"}, s.Prefixes("g1"))
}

func TestFileFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONConfigStore(dir)
	s.AddCensoredWord("g1", "word")
	s.AddPrefix("g1", "$")

	words := readFile(t, filepath.Join(dir, CensoredWordsFile))
	assert.Equal(t, []string{"word"}, words["g1"]["censoredWords"])

	prefixes := readFile(t, filepath.Join(dir, PrefixesFile))
	assert.Equal(t, []string{"$"}, prefixes["g1"]["prefixes"])

	raw, err := os.ReadFile(filepath.Join(dir, PrefixesFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"g1\"", "file should be indented with two spaces")
}

func TestStateSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONConfigStore(dir)
	s.AddCensoredWord("g1", "one")
	s.AddPrefix("g1", "!")

	reloaded := NewJSONConfigStore(dir)
	assert.Equal(t, []string{"one"}, reloaded.CensoredWords("g1"))
	assert.Equal(t, []string{"!"}, reloaded.Prefixes("g1"))
}

func TestMalformedFileFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CensoredWordsFile), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PrefixesFile), []byte(""), 0644))

	s := NewJSONConfigStore(dir)
	assert.Empty(t, s.CensoredWords("g1"))
	assert.Empty(t, s.Prefixes("g1"))

	assert.True(t, s.AddCensoredWord("g1", "ok"))
	words := readFile(t, filepath.Join(dir, CensoredWordsFile))
	assert.Equal(t, []string{"ok"}, words["g1"]["censoredWords"])
}

func TestConcurrentMutations(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONConfigStore(dir)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddPrefix("g1", string(rune('a'+i%26)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Prefixes("g1"), 26)

	saved := readFile(t, filepath.Join(dir, PrefixesFile))
	assert.Len(t, saved["g1"]["prefixes"], 26, "last write should hold the newest snapshot")
}
