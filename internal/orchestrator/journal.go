package orchestrator

import (
	"encoding/json"
	"os"
	"time"
)

// JournalEntry is one recorded invocation. The journal is advisory — a
// local paper trail for operators. Revision history itself lives in the
// platform and is never read back from here.
type JournalEntry struct {
	RunID       string    `json:"run_id"`
	Time        time.Time `json:"time"`
	Command     string    `json:"command"`
	Environment string    `json:"environment"`
	ImageTag    string    `json:"image_tag,omitempty"`
	Revision    string    `json:"revision,omitempty"`
	Outcome     string    `json:"outcome"`
}

type Journal struct {
	Path string
}

func (j *Journal) Append(entry JournalEntry) error {
	entries, err := j.Entries()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.Path, data, 0o644)
}

func (j *Journal) Entries() ([]JournalEntry, error) {
	data, err := os.ReadFile(j.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
