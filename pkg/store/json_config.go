package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/goccy/go-json"
)

const (
	CensoredWordsFile = "censoredWords.json"
	PrefixesFile      = "prefixes.json"
)

type censoredWordsEntry struct {
	CensoredWords []string `json:"censoredWords"`
}

type prefixesEntry struct {
	Prefixes []string `json:"prefixes"`
}

// jsonFile serializes writes to one backing file. Snapshots carry a version
// so a slow writer never overwrites a newer snapshot with an older one.
type jsonFile struct {
	path    string
	mu      sync.Mutex
	written uint64
}

func (f *jsonFile) write(version uint64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if version <= f.written {
		return nil
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	f.written = version
	return nil
}

// JSONConfigStore keeps guild configuration in memory and rewrites the
// matching JSON file after every mutation.
type JSONConfigStore struct {
	dir string

	mu            sync.RWMutex
	censoredWords map[string]*censoredWordsEntry
	prefixes      map[string]*prefixesEntry
	version       uint64

	wordsFile    *jsonFile
	prefixesFile *jsonFile
}

// NewJSONConfigStore loads both files from dir. Unreadable or malformed
// files are logged and treated as empty.
func NewJSONConfigStore(dir string) *JSONConfigStore {
	s := &JSONConfigStore{
		dir:           dir,
		censoredWords: make(map[string]*censoredWordsEntry),
		prefixes:      make(map[string]*prefixesEntry),
		wordsFile:     &jsonFile{path: filepath.Join(dir, CensoredWordsFile)},
		prefixesFile:  &jsonFile{path: filepath.Join(dir, PrefixesFile)},
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error(fmt.Sprintf("Failed to initialize storage in %s: %v", dir, err), "Store")
	}

	if err := loadJSON(s.wordsFile.path, &s.censoredWords); err != nil {
		logger.Error(fmt.Sprintf("Failed to load %s: %v", CensoredWordsFile, err), "Store")
		s.censoredWords = make(map[string]*censoredWordsEntry)
	}
	if err := loadJSON(s.prefixesFile.path, &s.prefixes); err != nil {
		logger.Error(fmt.Sprintf("Failed to load %s: %v", PrefixesFile, err), "Store")
		s.prefixes = make(map[string]*prefixesEntry)
	}

	logger.System(fmt.Sprintf("Config store ready: %d guild(s) with censored words, %d with prefixes",
		len(s.censoredWords), len(s.prefixes)), "Store")
	return s
}

func loadJSON[T any](path string, into *map[string]*T) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	loaded := make(map[string]*T)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	for k, v := range loaded {
		if v == nil {
			delete(loaded, k)
		}
	}
	*into = loaded
	return nil
}

// Get returns a copy of the guild's configuration
func (s *JSONConfigStore) Get(guildID string) ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := ServerConfig{CensoredWords: []string{}, Prefixes: []string{}}
	if e, ok := s.censoredWords[guildID]; ok {
		cfg.CensoredWords = cloneStrings(e.CensoredWords)
	}
	if e, ok := s.prefixes[guildID]; ok {
		cfg.Prefixes = cloneStrings(e.Prefixes)
	}
	return cfg
}

// CensoredWords returns the guild's censored words
func (s *JSONConfigStore) CensoredWords(guildID string) []string {
	return s.Get(guildID).CensoredWords
}

// Prefixes returns the guild's prefixes in lookup order
func (s *JSONConfigStore) Prefixes(guildID string) []string {
	return s.Get(guildID).Prefixes
}

// AddCensoredWord stores word lowercased. It returns false if it was already censored.
func (s *JSONConfigStore) AddCensoredWord(guildID, word string) bool {
	word = normalizeWord(word)
	if word == "" {
		return false
	}

	s.mu.Lock()
	entry := s.censoredWordsEntry(guildID)
	if containsString(entry.CensoredWords, word) {
		s.mu.Unlock()
		return false
	}
	entry.CensoredWords = append(entry.CensoredWords, word)
	version, data, err := s.snapshotWords()
	s.mu.Unlock()

	s.persist(s.wordsFile, version, data, err)
	return true
}

// RemoveCensoredWord returns false if word was not censored
func (s *JSONConfigStore) RemoveCensoredWord(guildID, word string) bool {
	word = normalizeWord(word)

	s.mu.Lock()
	entry := s.censoredWordsEntry(guildID)
	updated, removed := removeString(entry.CensoredWords, word)
	if !removed {
		s.mu.Unlock()
		return false
	}
	entry.CensoredWords = updated
	version, data, err := s.snapshotWords()
	s.mu.Unlock()

	s.persist(s.wordsFile, version, data, err)
	return true
}

// AddPrefix returns false if the prefix already exists
func (s *JSONConfigStore) AddPrefix(guildID, prefix string) bool {
	if prefix == "" {
		return false
	}

	s.mu.Lock()
	entry := s.prefixesEntry(guildID)
	if containsString(entry.Prefixes, prefix) {
		s.mu.Unlock()
		return false
	}
	entry.Prefixes = append(entry.Prefixes, prefix)
	version, data, err := s.snapshotPrefixes()
	s.mu.Unlock()

	s.persist(s.prefixesFile, version, data, err)
	return true
}

// RemovePrefix returns false if the prefix was not configured
func (s *JSONConfigStore) RemovePrefix(guildID, prefix string) bool {
	s.mu.Lock()
	entry := s.prefixesEntry(guildID)
	updated, removed := removeString(entry.Prefixes, prefix)
	if !removed {
		s.mu.Unlock()
		return false
	}
	entry.Prefixes = updated
	version, data, err := s.snapshotPrefixes()
	s.mu.Unlock()

	s.persist(s.prefixesFile, version, data, err)
	return true
}

// ClearPrefixes empties the guild's prefix list. The entry itself is kept.
func (s *JSONConfigStore) ClearPrefixes(guildID string) {
	s.mu.Lock()
	entry := s.prefixesEntry(guildID)
	entry.Prefixes = []string{}
	version, data, err := s.snapshotPrefixes()
	s.mu.Unlock()

	s.persist(s.prefixesFile, version, data, err)
}

// censoredWordsEntry must be called with s.mu held
func (s *JSONConfigStore) censoredWordsEntry(guildID string) *censoredWordsEntry {
	entry, ok := s.censoredWords[guildID]
	if !ok {
		entry = &censoredWordsEntry{CensoredWords: []string{}}
		s.censoredWords[guildID] = entry
	}
	return entry
}

// prefixesEntry must be called with s.mu held
func (s *JSONConfigStore) prefixesEntry(guildID string) *prefixesEntry {
	entry, ok := s.prefixes[guildID]
	if !ok {
		entry = &prefixesEntry{Prefixes: []string{}}
		s.prefixes[guildID] = entry
	}
	return entry
}

func (s *JSONConfigStore) snapshotWords() (uint64, []byte, error) {
	s.version++
	data, err := json.MarshalIndent(s.censoredWords, "", "  ")
	return s.version, data, err
}

func (s *JSONConfigStore) snapshotPrefixes() (uint64, []byte, error) {
	s.version++
	data, err := json.MarshalIndent(s.prefixes, "", "  ")
	return s.version, data, err
}

func (s *JSONConfigStore) persist(f *jsonFile, version uint64, data []byte, err error) {
	if err == nil {
		err = f.write(version, data)
	}
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to save %s: %v", filepath.Base(f.path), err), "Store")
	}
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
