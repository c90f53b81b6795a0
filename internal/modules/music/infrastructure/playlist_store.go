package infrastructure

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/keshon/datastore"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// playlistsKey is the single datastore key holding the name -> playlist
// document.
const playlistsKey = "playlists"

// DatastorePlaylistStore persists playlists through a JSON file datastore.
// The whole mapping lives under one key and is rewritten on every save, so
// the on-disk document always reflects the full set. Last writer wins on
// concurrent saves to the same name.
type DatastorePlaylistStore struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

// NewDatastorePlaylistStore opens (or creates) the backing file and loads
// the existing document.
func NewDatastorePlaylistStore(filePath string) (*DatastorePlaylistStore, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist store: %w", err)
	}
	return &DatastorePlaylistStore{ds: ds}, nil
}

// Close flushes and closes the backing store.
func (s *DatastorePlaylistStore) Close() error {
	return s.ds.Close()
}

// Get returns the playlist for the name, or false if absent.
func (s *DatastorePlaylistStore) Get(name string) (domain.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.load()
	if err != nil {
		return domain.Playlist{}, false
	}
	playlist, ok := playlists[name]
	return playlist, ok
}

// Put stores the playlist under the name and persists the full document.
func (s *DatastorePlaylistStore) Put(name string, playlist domain.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.load()
	if err != nil {
		return err
	}

	playlists[name] = playlist
	s.ds.Add(playlistsKey, playlists)
	return s.ds.SaveToFile()
}

// All returns a copy of the full name -> playlist mapping.
func (s *DatastorePlaylistStore) All() map[string]domain.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, err := s.load()
	if err != nil {
		return map[string]domain.Playlist{}
	}
	return playlists
}

// load reads the document out of the datastore. Values read back from disk
// come out as generic JSON, so they go through a remarshal to get typed.
func (s *DatastorePlaylistStore) load() (map[string]domain.Playlist, error) {
	raw, exists := s.ds.Get(playlistsKey)
	if !exists {
		return make(map[string]domain.Playlist), nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error marshalling playlist data: %w", err)
	}

	var playlists map[string]domain.Playlist
	if err := json.Unmarshal(jsonData, &playlists); err != nil {
		return nil, fmt.Errorf("error unmarshalling playlist data: %w", err)
	}
	if playlists == nil {
		playlists = make(map[string]domain.Playlist)
	}
	return playlists, nil
}

// Ensure DatastorePlaylistStore implements ports.PlaylistStore.
var _ ports.PlaylistStore = (*DatastorePlaylistStore)(nil)
