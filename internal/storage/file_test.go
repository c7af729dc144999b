package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/EncryptEx/ichack26/internal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testPaths(t *testing.T) FilePaths {
	dir := t.TempDir()
	return FilePaths{
		Users:     filepath.Join(dir, "users.json"),
		Dreams:    filepath.Join(dir, "dreams.json"),
		Comments:  filepath.Join(dir, "comments.json"),
		Overrides: filepath.Join(dir, "overrides.json"),
	}
}

func openStore(t *testing.T, paths FilePaths) *FileStorage {
	s, err := NewFileStorage(paths, internal.NopLogger())
	require.NoError(t, err)
	return s
}

func TestFileStorage_SeedsRoster(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	defer s.Close()

	info, err := os.Stat(paths.Users)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 8)
	assert.Equal(t, "user1", users[0].ID)

	u, err := s.GetUserByToken(context.Background(), "MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "Alex", u.Name)
	assert.Equal(t, 16, u.Streak)
}

func TestFileStorage_UnknownUser(t *testing.T) {
	s := openStore(t, testPaths(t))
	defer s.Close()

	_, err := s.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = s.GetUserByToken(context.Background(), "BAD")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = s.RenameUser(context.Background(), "nobody", "X")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestFileStorage_RenamePersists(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	u, err := s.RenameUser(context.Background(), "user1", "Alexandra")
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", u.Name)
	require.NoError(t, s.Close())

	reopened := openStore(t, paths)
	defer reopened.Close()
	got, err := reopened.GetUser(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", got.Name)
}

func TestFileStorage_EnsureUser(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	ctx := context.Background()

	u, err := s.EnsureUser(ctx, &internal.User{ID: "u-42", Name: "Remote Rita", Token: "remote-secret"})
	require.NoError(t, err)
	assert.Equal(t, "Remote Rita", u.Name)
	assert.Empty(t, u.Token)
	_, err = s.GetUserByToken(ctx, "remote-secret")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	// Known ids come back as stored.
	u, err = s.EnsureUser(ctx, &internal.User{ID: "user1", Name: "Impostor"})
	require.NoError(t, err)
	assert.Equal(t, "Alex", u.Name)
	assert.Equal(t, 16, u.Streak)
	require.NoError(t, s.Close())

	reopened := openStore(t, paths)
	defer reopened.Close()
	got, err := reopened.GetUser(ctx, "u-42")
	require.NoError(t, err)
	assert.Equal(t, "Remote Rita", got.Name)
	users, err := reopened.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 9)
}

func TestFileStorage_RosterFile(t *testing.T) {
	paths := testPaths(t)
	paths.Roster = filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(paths.Roster, []byte("- id: a1\n  name: Ada\n  token: T-A\n- id: b2\n  name: Bo\n"), 0o644))

	s := openStore(t, paths)
	defer s.Close()

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	u, err := s.GetUserByToken(context.Background(), "T-A")
	require.NoError(t, err)
	assert.Equal(t, "a1", u.ID)

	missing := testPaths(t)
	missing.Roster = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = NewFileStorage(missing, internal.NopLogger())
	assert.Error(t, err)
}

func TestFileStorage_DreamsNewestFirst(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	ctx := context.Background()
	base := time.Date(2026, 1, 27, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveDream(ctx, &internal.Dream{ID: "d1", UserID: "user2", Content: "clouds", Date: base}))
	require.NoError(t, s.SaveDream(ctx, &internal.Dream{ID: "d2", UserID: "user1", Content: "coding", Date: base.Add(-24 * time.Hour)}))
	require.NoError(t, s.SaveDream(ctx, &internal.Dream{ID: "d3", UserID: "user1", Content: "podium", Date: base.Add(time.Hour)}))

	all, err := s.ListDreams(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"d3", "d1", "d2"}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := s.ListDreams(ctx, "user1", 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "d3", mine[0].ID)

	_, err = s.GetDream(ctx, "missing")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	require.NoError(t, s.Close())
	reopened := openStore(t, paths)
	defer reopened.Close()
	all, err = reopened.ListDreams(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "d3", all[0].ID)
}

func TestFileStorage_CommentsAppendOnly(t *testing.T) {
	s := openStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()
	rid := "user1-2026-01-27"
	now := time.Now()

	require.NoError(t, s.AddComment(ctx, &internal.Comment{ID: "c1", RecordID: rid, UserID: "user2", Text: "Great sleep!", Timestamp: now}))
	require.NoError(t, s.AddComment(ctx, &internal.Comment{ID: "c2", RecordID: rid, UserID: "user3", Text: "How?", Timestamp: now.Add(time.Minute)}))
	require.NoError(t, s.AddComment(ctx, &internal.Comment{ID: "c3", RecordID: "user2-2026-01-27", UserID: "user1", Text: "nice", Timestamp: now}))

	list, err := s.ListComments(ctx, rid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)

	empty, err := s.ListComments(ctx, "user9-2026-01-27")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFileStorage_Overrides(t *testing.T) {
	s := openStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	o, err := s.GetOverride(ctx, "user1", "2026-01-27")
	require.NoError(t, err)
	assert.Nil(t, o)

	require.NoError(t, s.SetOverride(ctx, &internal.TimeOverride{UserID: "user1", Date: "2026-01-27", BedTime: "23:10", WakeTime: "07:00"}))
	require.NoError(t, s.SetOverride(ctx, &internal.TimeOverride{UserID: "user1", Date: "2026-01-27", BedTime: "23:30", WakeTime: "07:15"}))

	o, err = s.GetOverride(ctx, "user1", "2026-01-27")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "23:30", o.BedTime)
	assert.Equal(t, "07:15", o.WakeTime)
}

func TestFileStorage_DebouncedSave(t *testing.T) {
	paths := testPaths(t)
	s, err := newFileStorage(paths, internal.NopLogger(), 10*time.Millisecond)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveDream(context.Background(), &internal.Dream{ID: "d1", UserID: "user1", Date: time.Now()}))
	assert.Eventually(t, func() bool {
		info, err := os.Stat(paths.Dreams)
		return err == nil && info.Size() > 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFileStorage_CloseTwice(t *testing.T) {
	s := openStore(t, testPaths(t))
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestLoadRoster_DefaultsToBuiltIn(t *testing.T) {
	users, err := LoadRoster("")
	require.NoError(t, err)
	assert.Len(t, users, 8)
}

func TestParseRoster(t *testing.T) {
	users, err := ParseRoster([]byte("- id: a1\n  name: A\n  streak: 5\n"))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 5, users[0].LongestStreak)

	_, err = ParseRoster([]byte("- id: a1\n- id: a1\n"))
	assert.Error(t, err)

	_, err = ParseRoster([]byte("- name: nobody\n"))
	assert.Error(t, err)
}
