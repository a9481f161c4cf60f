// Package store saves and restores the search screen State between runs.
// The State is written as a flat TOML record so it survives process restarts.
package store

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"

	"github.com/h0rv/ghs/internal/search"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

var (
	// ErrNoSnapshot indicates no saved State exists yet.
	ErrNoSnapshot = errors.New("no saved state")
	// ErrInvalidSnapshot indicates the saved State could not be understood.
	ErrInvalidSnapshot = errors.New("invalid saved state")
)

// snapshot is the on-disk layout of a search.State.
type snapshot struct {
	Query     string         `toml:"query"`
	IsLoading bool           `toml:"is_loading"`
	Items     []snapshotItem `toml:"items"`
	Error     *snapshotError `toml:"error,omitempty"`
}

type snapshotItem struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type snapshotError struct {
	Kind    string `toml:"kind"`
	Message string `toml:"message"`
}

// Store persists a single State to a file.
type Store struct {
	path string
}

// New creates a Store backed by path. The file is not touched until Save or Load.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes state to disk, replacing any previous snapshot atomically.
func (s *Store) Save(state search.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create state directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return errors.Wrap(err, "create temporary state file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write state")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close state")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replace state file %s", s.path)
	}
	return nil
}

// Load reads the saved State. It returns ErrNoSnapshot when nothing was saved.
func (s *Store) Load() (search.State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return search.State{}, ErrNoSnapshot
	}
	if err != nil {
		return search.State{}, errors.Wrapf(err, "read state file %s", s.path)
	}
	return Decode(data)
}

// Clear removes the saved State. Clearing a missing snapshot is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove state file %s", s.path)
	}
	return nil
}

// Encode renders state in the snapshot layout.
func Encode(state search.State) ([]byte, error) {
	snap := snapshot{
		Query:     state.Query,
		IsLoading: state.IsLoading,
		Items:     make([]snapshotItem, 0, len(state.Items)),
	}
	for _, item := range state.Items {
		snap.Items = append(snap.Items, snapshotItem{Name: item.Name, URL: item.URL.String()})
	}
	if state.Err != nil {
		snap.Error = &snapshotError{Kind: string(state.Err.Kind), Message: state.Err.Message}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, errors.Wrap(err, "encode state")
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (search.State, error) {
	var snap snapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		return search.State{}, errors.Wrapf(ErrInvalidSnapshot, "decode: %v", err)
	}

	state := search.State{
		Query:     snap.Query,
		IsLoading: snap.IsLoading,
	}

	if len(snap.Items) > 0 {
		state.Items = make([]search.RepoListItem, 0, len(snap.Items))
		for i, item := range snap.Items {
			u, err := url.Parse(item.URL)
			if err != nil {
				return search.State{}, errors.Wrapf(ErrInvalidSnapshot, "item %d url: %v", i, err)
			}
			state.Items = append(state.Items, search.RepoListItem{Name: item.Name, URL: *u})
		}
	}

	if snap.Error != nil {
		kind := search.ErrorKind(snap.Error.Kind)
		if !kind.Valid() {
			return search.State{}, errors.Wrapf(ErrInvalidSnapshot, "unknown error kind %q", snap.Error.Kind)
		}
		state.Err = &search.Error{Kind: kind, Message: snap.Error.Message}
	}

	return state, nil
}
