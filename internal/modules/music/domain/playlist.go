package domain

// Playlist is a named, persisted snapshot of a queue. Names are process-wide
// unique keys; saving over an existing name replaces it.
type Playlist struct {
	Songs     []TrackSnapshot `json:"songs"`
	CreatedBy string          `json:"created_by"`
}

// Tracks converts the saved snapshots back into unresolved tracks in their
// original order.
func (p Playlist) Tracks() []*Track {
	tracks := make([]*Track, len(p.Songs))
	for i, s := range p.Songs {
		tracks[i] = s.Track()
	}
	return tracks
}
