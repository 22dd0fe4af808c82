package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/norm"
)

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version   int        `json:"version"`
	Grammar   string     `json:"grammar"`
	Source    string     `json:"source,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Deltas    []deltaDTO `json:"deltas"`
	Error     *string    `json:"error,omitempty"`
}

// MarshalTranscript serializes a Transcript in v1 envelope format.
func MarshalTranscript(tr norm.Transcript) ([]byte, error) {
	env := envelope{
		Version:   1,
		Grammar:   tr.Grammar,
		Source:    tr.Source,
		CreatedAt: tr.CreatedAt,
		Deltas:    make([]deltaDTO, len(tr.Deltas)),
	}
	for i, d := range tr.Deltas {
		dto, err := marshalDelta(d)
		if err != nil {
			return nil, fmt.Errorf("delta %d: %w", i, err)
		}
		env.Deltas[i] = dto
	}
	if tr.Err != "" {
		env.Error = &tr.Err
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a Transcript in v1 envelope format.
func UnmarshalTranscript(data []byte) (norm.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return norm.Transcript{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return norm.Transcript{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	deltas := make([]norm.Delta, len(env.Deltas))
	for i, dto := range env.Deltas {
		d, err := unmarshalDelta(dto)
		if err != nil {
			return norm.Transcript{}, fmt.Errorf("delta %d: %w", i, err)
		}
		deltas[i] = d
	}
	return norm.Transcript{
		Grammar:   env.Grammar,
		Source:    env.Source,
		CreatedAt: env.CreatedAt,
		Deltas:    deltas,
		Err:       deref(env.Error),
	}, nil
}

// Save writes a Transcript to a JSON file, creating parent directories as
// needed.
func Save(path string, tr norm.Transcript) error {
	data, err := MarshalTranscript(tr)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Transcript from a JSON file.
func Load(path string) (norm.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return norm.Transcript{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}
