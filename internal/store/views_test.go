package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

func TestDirectory_SearchIsCaseInsensitive(t *testing.T) {
	s, _ := newSeededStore(t)
	state := s.Snapshot()
	require.Len(t, state.Users, 8)

	for _, term := range []string{"priya", "PRIYA", "Priya", "  pRiYa "} {
		page := store.Directory(state, store.DirectoryFilter{Search: term})
		require.Len(t, page.Users, 1, term)
		require.Equal(t, "user-6", page.Users[0].ID)
		require.Equal(t, 1, page.Total)
	}
}

func TestDirectory_ExcludesCurrentUser(t *testing.T) {
	s, _ := newSeededStore(t)
	state := s.Snapshot()

	page := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1", PageSize: 100})
	require.Equal(t, 7, page.Total)
	for _, u := range page.Users {
		require.NotEqual(t, "user-1", u.ID)
	}
}

func TestDirectory_AvailabilityFilter(t *testing.T) {
	s, _ := newSeededStore(t)
	state := s.Snapshot()

	page := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1", Availability: "Weekdays"})
	ids := make([]string, 0, len(page.Users))
	for _, u := range page.Users {
		ids = append(ids, u.ID)
	}
	require.Equal(t, []string{"user-2", "user-7"}, ids)

	all := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1", Availability: "all"})
	require.Equal(t, 7, all.Total)
}

func TestDirectory_Pagination(t *testing.T) {
	s, _ := newSeededStore(t)
	state := s.Snapshot()

	first := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1"})
	require.Equal(t, store.DefaultPageSize, first.PageSize)
	require.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Users, 6)
	require.Equal(t, "user-2", first.Users[0].ID)

	second := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1", Page: 2})
	require.Len(t, second.Users, 1)
	require.Equal(t, "user-8", second.Users[0].ID)

	beyond := store.Directory(state, store.DirectoryFilter{ExcludeUserID: "user-1", Page: 5})
	require.Empty(t, beyond.Users)
	require.NotNil(t, beyond.Users)

	none := store.Directory(state, store.DirectoryFilter{Search: "zzz"})
	require.Zero(t, none.Total)
	require.Zero(t, none.TotalPages)
}

func TestConversationsFor_OrderedByLastMessage(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	state := store.State{
		Users: []models.User{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Ben"}, {ID: "c", Name: "Cid"}, {ID: "d", Name: "Dee"}},
		Conversations: []models.Conversation{
			{ID: "older", ParticipantIDs: []string{"a", "b"}, Messages: []models.Message{{ID: "1", SenderID: "b", Timestamp: t1}}},
			{ID: "empty", ParticipantIDs: []string{"a", "d"}},
			{ID: "newer", ParticipantIDs: []string{"a", "c"}, Messages: []models.Message{{ID: "2", SenderID: "c", Timestamp: t2}}},
			{ID: "foreign", ParticipantIDs: []string{"b", "c"}, Messages: []models.Message{{ID: "3", SenderID: "c", Timestamp: t2}}},
		},
	}

	got := store.ConversationsFor(state, "a", "")
	require.Len(t, got, 3)
	require.Equal(t, "newer", got[0].ID)
	require.Equal(t, "older", got[1].ID)
	require.Equal(t, "empty", got[2].ID)

	filtered := store.ConversationsFor(state, "a", "BEN")
	require.Len(t, filtered, 1)
	require.Equal(t, "older", filtered[0].ID)
}

func TestConversationsFor_Seed(t *testing.T) {
	s, _ := newSeededStore(t)

	got := store.ConversationsFor(s.Snapshot(), "user-1", "")
	require.Len(t, got, 3)
	require.Equal(t, "convo-1", got[0].ID)
	require.Equal(t, "convo-2", got[1].ID)
	require.Equal(t, "convo-3", got[2].ID)
}

func TestPendingIncomingCount(t *testing.T) {
	s, _ := newSeededStore(t)
	require.Equal(t, 1, store.PendingIncomingCount(s.Snapshot(), "user-1"))
	require.Equal(t, 1, store.PendingIncomingCount(s.Snapshot(), "user-5"))

	_, _, err := s.AddSwapRequest(newRequest("user-4", "user-1"))
	require.NoError(t, err)
	require.Equal(t, 2, store.PendingIncomingCount(s.Snapshot(), "user-1"))
}

func TestIncomingOutgoingRequests(t *testing.T) {
	s, _ := newSeededStore(t)
	state := s.Snapshot()

	require.Len(t, store.IncomingRequests(state, "user-1"), 3)
	require.Len(t, store.OutgoingRequests(state, "user-1"), 2)
	require.Empty(t, store.OutgoingRequests(state, "user-8"))
}

func TestNotificationsFor_UnreadCount(t *testing.T) {
	s, _ := newSeededStore(t)
	require.Equal(t, 1, store.UnreadNotificationCount(s.Snapshot(), "user-1"))
	require.Zero(t, store.UnreadNotificationCount(s.Snapshot(), "user-4"))

	_, notif, err := s.AddSwapRequest(newRequest("user-2", "user-1"))
	require.NoError(t, err)

	list := store.NotificationsFor(s.Snapshot(), "user-1")
	require.Len(t, list, 3)
	require.Equal(t, notif.ID, list[0].ID)
	require.Equal(t, 2, store.UnreadNotificationCount(s.Snapshot(), "user-1"))

	require.NoError(t, s.MarkNotificationRead(notif.ID))
	require.Equal(t, 1, store.UnreadNotificationCount(s.Snapshot(), "user-1"))
}
