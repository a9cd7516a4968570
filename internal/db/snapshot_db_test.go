package db

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/seed"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

// fakeQuerier хранит последний записанный снапшот в памяти
type fakeQuerier struct {
	saved   []byte
	version int64
	execs   []string
	failOn  string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	if strings.Contains(sql, "INSERT INTO skillsphere_snapshots") {
		f.version = args[1].(int64)
		f.saved = args[2].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return fakeRow{raw: f.saved}
}

type fakeRow struct {
	raw []byte
}

func (r fakeRow) Scan(dest ...any) error {
	if r.raw == nil {
		return pgx.ErrNoRows
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	data, err := seed.Default()
	require.NoError(t, err)
	return store.New(data.State())
}

func TestSnapshotRepository_LoadEmpty(t *testing.T) {
	repo := NewSnapshotRepository(&fakeQuerier{})

	_, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.False(t, found)
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewSnapshotRepository(q)
	st := seededStore(t)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, st.AppendMessage("convo-1", models.Message{ID: "msg-x", SenderID: "user-1", Text: "hi"}))
	require.NoError(t, st.AddAccount(models.Account{Email: "sam@example.com", UserID: "user-3", PasswordHash: "$2a$10$hash"}))

	state := st.Snapshot()
	require.NoError(t, repo.Save(context.Background(), state))
	require.EqualValues(t, state.Version, q.version)
	require.True(t, json.Valid(q.saved))

	loaded, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, state.Version, loaded.Version)
	require.Equal(t, "user-1", loaded.CurrentUser.ID)
	require.Len(t, loaded.Conversations[0].Messages, 3)
	require.Equal(t, state.Accounts, loaded.Accounts)

	// Восстановленное хранилище продолжает работу с той же версии
	restored := store.New(store.State{})
	restored.Restore(loaded)
	require.Equal(t, state.Version, restored.Version())
}

func TestSnapshotter_FlushOnlyOnChange(t *testing.T) {
	q := &fakeQuerier{}
	st := seededStore(t)
	s := NewSnapshotter(NewSnapshotRepository(q), st, 0)

	saved, err := s.Flush(context.Background())
	require.NoError(t, err)
	require.False(t, saved)
	require.Empty(t, q.execs)

	require.NoError(t, st.MarkNotificationRead("notif-1"))

	saved, err = s.Flush(context.Background())
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = s.Flush(context.Background())
	require.NoError(t, err)
	require.False(t, saved)
}

func TestSnapshotter_FlushError(t *testing.T) {
	q := &fakeQuerier{failOn: "INSERT"}
	st := seededStore(t)
	s := NewSnapshotter(NewSnapshotRepository(q), st, 0)

	require.NoError(t, st.MarkNotificationRead("notif-1"))

	_, err := s.Flush(context.Background())
	require.Error(t, err)

	// После ошибки версия считается несохранённой
	q.failOn = ""
	saved, err := s.Flush(context.Background())
	require.NoError(t, err)
	require.True(t, saved)
}

func TestSnapshotter_RunSavesOnShutdown(t *testing.T) {
	q := &fakeQuerier{}
	st := seededStore(t)
	s := NewSnapshotter(NewSnapshotRepository(q), st, 1<<40)

	require.NoError(t, st.MarkNotificationRead("notif-1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	require.NotNil(t, q.saved)
	require.EqualValues(t, st.Version(), q.version)
}
