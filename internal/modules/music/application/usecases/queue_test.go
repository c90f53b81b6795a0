package usecases

import (
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

func newQueueFixture() (*QueueService, *stubRepo, *mockPublisher) {
	repo := newStubRepo()
	publisher := &mockPublisher{}
	return NewQueueService(repo, publisher), repo, publisher
}

func testTracks(titles ...string) []*domain.Track {
	tracks := make([]*domain.Track, len(titles))
	for i, title := range titles {
		tracks[i] = testTrack(title)
	}
	return tracks
}

func TestQueueAdd_ReportsIdleStateAndPosition(t *testing.T) {
	service, repo, publisher := newQueueFixture()

	out, err := service.Add(QueueAddInput{
		GuildID:               testGuild,
		Tracks:                testTracks("a", "b"),
		NotificationChannelID: snowflake.ID(7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.WasIdle || out.Position != 1 {
		t.Errorf("expected idle add at position 1, got %+v", out)
	}

	session := repo.Get(testGuild)
	if session.NotificationChannelID() != snowflake.ID(7) {
		t.Errorf("expected notification channel recorded")
	}

	// Playback starts; the next add sees an active session.
	session.SetCurrent(session.PopFront())
	out, err = service.Add(QueueAddInput{
		GuildID: testGuild,
		Tracks:  testTracks("c"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WasIdle || out.Position != 2 {
		t.Errorf("expected non-idle add at position 2, got %+v", out)
	}

	if len(publisher.enqueued) != 2 {
		t.Fatalf("expected 2 enqueue events, got %d", len(publisher.enqueued))
	}
	if !publisher.enqueued[0].WasIdle || publisher.enqueued[1].WasIdle {
		t.Errorf("expected only the first event flagged idle: %+v", publisher.enqueued)
	}
}

func TestQueueAdd_RejectsEmptyInput(t *testing.T) {
	service, _, _ := newQueueFixture()

	if _, err := service.Add(QueueAddInput{GuildID: testGuild}); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestQueueList_Pagination(t *testing.T) {
	service, repo, _ := newQueueFixture()

	session := repo.GetOrCreate(testGuild)
	session.SetCurrent(testTrack("current"))
	session.Enqueue(testTracks("t1", "t2", "t3", "t4", "t5")...)

	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantPage   int
		wantStart  int
		wantTracks int
	}{
		{"first page", 1, 2, 1, 0, 2},
		{"middle page", 2, 2, 2, 2, 2},
		{"last partial page", 3, 2, 3, 4, 1},
		{"page clamped high", 99, 2, 3, 4, 1},
		{"page clamped low", 0, 2, 1, 0, 2},
		{"default page size", 1, 0, 1, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := service.List(QueueListInput{
				GuildID:  testGuild,
				Page:     tt.page,
				PageSize: tt.pageSize,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.CurrentPage != tt.wantPage {
				t.Errorf("page: got %d, want %d", out.CurrentPage, tt.wantPage)
			}
			if out.PageStart != tt.wantStart {
				t.Errorf("start: got %d, want %d", out.PageStart, tt.wantStart)
			}
			if len(out.Tracks) != tt.wantTracks {
				t.Errorf("tracks: got %d, want %d", len(out.Tracks), tt.wantTracks)
			}
			if out.TotalTracks != 5 {
				t.Errorf("total: got %d, want 5", out.TotalTracks)
			}
			if out.Current == nil || out.Current.Title != "current" {
				t.Errorf("expected current track in listing")
			}
		})
	}
}

func TestQueueList_EmptySession(t *testing.T) {
	service, repo, _ := newQueueFixture()

	if _, err := service.List(QueueListInput{GuildID: testGuild}); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty without a session, got %v", err)
	}

	repo.GetOrCreate(testGuild)
	if _, err := service.List(QueueListInput{GuildID: testGuild}); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty on idle session, got %v", err)
	}
}

func TestQueueList_CurrentOnlyStillListed(t *testing.T) {
	service, repo, _ := newQueueFixture()

	repo.GetOrCreate(testGuild).SetCurrent(testTrack("solo"))

	out, err := service.List(QueueListInput{GuildID: testGuild})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Current == nil || out.Current.Title != "solo" {
		t.Errorf("expected current track, got %+v", out.Current)
	}
	if out.TotalTracks != 0 || out.TotalPages != 1 {
		t.Errorf("expected empty single-page queue, got %+v", out)
	}
}

func TestQueueRemove(t *testing.T) {
	service, repo, _ := newQueueFixture()

	if _, err := service.Remove(testGuild, 1); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}

	session := repo.GetOrCreate(testGuild)
	session.Enqueue(testTracks("a", "b", "c")...)

	track, err := service.Remove(testGuild, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Title != "b" {
		t.Errorf("expected removed track b, got %q", track.Title)
	}
	if session.QueueLen() != 2 {
		t.Errorf("expected 2 remaining, got %d", session.QueueLen())
	}

	for _, pos := range []int{0, -1, 3} {
		if _, err := service.Remove(testGuild, pos); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("position %d: expected ErrInvalidPosition, got %v", pos, err)
		}
	}
	if session.QueueLen() != 2 {
		t.Errorf("failed removals must not change the queue, got %d", session.QueueLen())
	}
}

func TestQueueClear_KeepsCurrentPlaying(t *testing.T) {
	service, repo, _ := newQueueFixture()

	if _, err := service.Clear(testGuild); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}

	session := repo.GetOrCreate(testGuild)
	session.SetCurrent(testTrack("current"))
	session.Enqueue(testTracks("a", "b")...)

	count, err := service.Clear(testGuild)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 cleared, got %d", count)
	}
	if session.Current() == nil {
		t.Error("clear must not detach the current track")
	}
}

func TestQueueShuffle_EmptyQueueFails(t *testing.T) {
	service, repo, _ := newQueueFixture()

	if err := service.Shuffle(testGuild); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}

	session := repo.GetOrCreate(testGuild)
	session.Enqueue(testTracks("a", "b", "c")...)
	if err := service.Shuffle(testGuild); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if session.QueueLen() != 3 {
		t.Errorf("shuffle must keep all tracks, got %d", session.QueueLen())
	}
}
