package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Record is one submitted vouch. Every field is free text exactly as
// the respondent typed it; the rating and trusted answers are not
// validated. Records are immutable once appended.
type Record struct {
	By        string `json:"by"`
	Rating    string `json:"rating"`
	Item      string `json:"item"`
	Trusted   string `json:"trusted"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Vouches is the persisted shape of the ledger:
// guild id -> subject id -> records in submission order
type Vouches map[string]map[string][]Record

// Store is the vouch ledger. The in-memory mapping is the source of
// truth while the process lives; Persist rewrites the whole backing
// file on every call. All methods are safe for concurrent use, as
// discord events are dispatched on separate goroutines.
type Store struct {
	mu       sync.Mutex
	filename string
	vouches  Vouches
}

// Load reads the ledger from the provided file. A missing file yields
// an empty ledger; a file that exists but cannot be parsed is an
// error, so that a corrupt ledger stops startup instead of being
// silently discarded.
func Load(filename string) (*Store, error) {

	store := &Store{filename: filename, vouches: Vouches{}}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Msg(fmt.Sprintf("Ledger file %s does not exist yet, starting empty", filename))
			return store, nil
		}
		return nil, fmt.Errorf("could not read ledger file %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, &store.vouches); err != nil {
		return nil, fmt.Errorf("ledger file %s is corrupt: %w", filename, err)
	}

	log.Info().Msg(fmt.Sprintf("Loaded ledger with %d guilds from %s", len(store.vouches), filename))
	return store, nil
}

// Append adds a record for the provided guild and subject, creating
// the nested entries if they are not there yet
func (store *Store) Append(guildid string, subjectid string, record Record) {

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.vouches[guildid]; !ok {
		store.vouches[guildid] = map[string][]Record{}
	}
	store.vouches[guildid][subjectid] = append(store.vouches[guildid][subjectid], record)
}

// Persist serializes the complete mapping and replaces the backing
// file. The write goes to a temporary file first and is renamed into
// place, so a reader never observes a half-written ledger
func (store *Store) Persist() error {

	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.MarshalIndent(store.vouches, "", "    ")
	if err != nil {
		return fmt.Errorf("could not serialize ledger: %w", err)
	}

	dir := filepath.Dir(store.filename)
	tmp, err := os.CreateTemp(dir, "ledger-*.json")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write temporary ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close temporary ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), store.filename); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not replace ledger file %s: %w", store.filename, err)
	}

	log.Debug().Msg(fmt.Sprintf("Persisted ledger to %s", store.filename))
	return nil
}

// Records returns the records for one subject in submission order.
// A guild or subject that has never been vouched reads as empty
func (store *Store) Records(guildid string, subjectid string) []Record {

	store.mu.Lock()
	defer store.mu.Unlock()

	subjects, ok := store.vouches[guildid]
	if !ok {
		return []Record{}
	}
	records := make([]Record, len(subjects[subjectid]))
	copy(records, subjects[subjectid])
	return records
}

// AllRecords returns every record in the guild, flattened in
// subject-then-insertion order
func (store *Store) AllRecords(guildid string) []Record {

	store.mu.Lock()
	defer store.mu.Unlock()

	subjects, ok := store.vouches[guildid]
	if !ok {
		return []Record{}
	}

	// Sort the subjects so the aggregate order is stable
	subjectids := make([]string, 0, len(subjects))
	for subjectid := range subjects {
		subjectids = append(subjectids, subjectid)
	}
	sort.Strings(subjectids)

	records := []Record{}
	for _, subjectid := range subjectids {
		records = append(records, subjects[subjectid]...)
	}
	return records
}

// Snapshot returns a deep copy of the complete mapping
func (store *Store) Snapshot() Vouches {

	store.mu.Lock()
	defer store.mu.Unlock()

	snapshot := Vouches{}
	for guildid, subjects := range store.vouches {
		snapshot[guildid] = map[string][]Record{}
		for subjectid, records := range subjects {
			copied := make([]Record, len(records))
			copy(copied, records)
			snapshot[guildid][subjectid] = copied
		}
	}
	return snapshot
}
