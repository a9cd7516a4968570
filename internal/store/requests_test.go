package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

func newRequest(from, to string) models.SwapRequest {
	return models.SwapRequest{
		FromUserID:        from,
		ToUserID:          to,
		FromUserSkillName: "Photography",
		ToUserSkillName:   "Baking",
		Message:           "Let's swap!",
	}
}

func TestAddSwapRequest_CreatesNotificationAndToast(t *testing.T) {
	s, rec := newSeededStore(t)
	before := s.Snapshot()

	req, notif, err := s.AddSwapRequest(newRequest("user-1", "user-4"))
	require.NoError(t, err)

	after := s.Snapshot()
	require.Len(t, after.Requests, len(before.Requests)+1)
	require.Len(t, after.Notifications, len(before.Notifications)+1)

	require.Equal(t, models.StatusPending, req.Status)
	require.Equal(t, fixedNow, req.CreatedAt)
	require.Equal(t, fixedNow, req.UpdatedAt)
	require.NotEmpty(t, req.ID)

	require.Equal(t, "user-4", notif.UserID)
	require.Equal(t, "user-1", notif.FromUserID)
	require.Equal(t, models.NotificationRequest, notif.Type)
	require.Equal(t, "Alex Doe wants to swap skills.", notif.Description)
	require.Equal(t, "/requests", notif.Link)
	require.False(t, notif.Read)

	last := after.Notifications[len(after.Notifications)-1]
	require.Equal(t, notif, last)

	require.Len(t, rec.toasts["user-4"], 1)
	require.Equal(t, "New Swap Request!", rec.toasts["user-4"][0].Title)
	require.Equal(t, "Alex Doe wants to swap skills with you.", rec.toasts["user-4"][0].Description)
}

func TestAddSwapRequest_UnknownUser(t *testing.T) {
	s, rec := newSeededStore(t)
	before := s.Snapshot()

	_, _, err := s.AddSwapRequest(newRequest("user-1", "user-404"))
	require.ErrorIs(t, err, store.ErrNotFound)

	after := s.Snapshot()
	require.Len(t, after.Requests, len(before.Requests))
	require.Len(t, after.Notifications, len(before.Notifications))
	require.Empty(t, rec.toasts)
}

func TestUpdateRequestStatus_OnlyTargetChanges(t *testing.T) {
	s, _ := newSeededStore(t)
	before := s.Snapshot()

	change, err := s.UpdateRequestStatus("req-3", models.StatusRejected)
	require.NoError(t, err)
	require.True(t, change.Changed)
	require.Equal(t, models.StatusRejected, change.Request.Status)
	require.Equal(t, fixedNow, change.Request.UpdatedAt)

	after := s.Snapshot()
	for i, r := range after.Requests {
		if r.ID == "req-3" {
			require.Equal(t, models.StatusRejected, r.Status)
			continue
		}
		require.Equal(t, before.Requests[i], r)
	}

	// Повторная установка того же статуса - без изменений
	again, err := s.UpdateRequestStatus("req-3", models.StatusRejected)
	require.NoError(t, err)
	require.False(t, again.Changed)
	require.Equal(t, after.Requests, s.Snapshot().Requests)
	require.Equal(t, after.Version, s.Version())
}

func TestUpdateRequestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		status  models.SwapStatus
		wantErr error
	}{
		{"pending to accepted", "req-1", models.StatusAccepted, nil},
		{"pending to canceled", "req-3", models.StatusCanceled, nil},
		{"accepted to completed", "req-2", models.StatusCompleted, nil},
		{"accepted to rejected", "req-2", models.StatusRejected, store.ErrInvalidTransition},
		{"completed to pending", "req-5", models.StatusPending, store.ErrInvalidTransition},
		{"rejected to accepted", "req-4", models.StatusAccepted, store.ErrInvalidTransition},
		{"pending to completed", "req-1", models.StatusCompleted, store.ErrInvalidTransition},
		{"unknown status", "req-1", models.SwapStatus("archived"), store.ErrInvalidArgument},
		{"unknown request", "req-404", models.StatusAccepted, store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSeededStore(t)
			before := s.Snapshot()

			_, err := s.UpdateRequestStatus(tt.id, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before.Requests, s.Snapshot().Requests)
				return
			}
			require.NoError(t, err)

			r, err := s.Request(tt.id)
			require.NoError(t, err)
			require.Equal(t, tt.status, r.Status)
		})
	}
}

func TestUpdateRequestStatus_AcceptOpensConversation(t *testing.T) {
	s, _ := newSeededStore(t)

	// user-1 и user-5 ещё не переписывались
	req, _, err := s.AddSwapRequest(newRequest("user-5", "user-1"))
	require.NoError(t, err)
	convos := len(s.Snapshot().Conversations)

	change, err := s.UpdateRequestStatus(req.ID, models.StatusAccepted)
	require.NoError(t, err)
	require.NotEmpty(t, change.ConversationID)
	require.Len(t, s.Snapshot().Conversations, convos+1)

	c, err := s.Conversation(change.ConversationID)
	require.NoError(t, err)
	require.True(t, c.HasParticipant("user-1"))
	require.True(t, c.HasParticipant("user-5"))

	// Уже существующая переписка переиспользуется
	change, err = s.UpdateRequestStatus("req-1", models.StatusAccepted)
	require.NoError(t, err)
	require.Equal(t, "convo-1", change.ConversationID)
	require.Len(t, s.Snapshot().Conversations, convos+1)
}

func TestAddFeedback(t *testing.T) {
	s, _ := newSeededStore(t)

	rated, err := s.User("user-6")
	require.NoError(t, err)
	before := len(rated.Feedback)

	fb, notif, err := s.AddFeedback("req-5", "user-1", 5, "Delicious lessons")
	require.NoError(t, err)
	require.Equal(t, models.Feedback{Rating: 5, Comment: "Delicious lessons", From: "Alex Doe"}, fb)

	rated, err = s.User("user-6")
	require.NoError(t, err)
	require.Len(t, rated.Feedback, before+1)
	require.Equal(t, fb, rated.Feedback[len(rated.Feedback)-1])

	require.Equal(t, "user-6", notif.UserID)
	require.Equal(t, models.NotificationFeedback, notif.Type)

	req, err := s.Request("req-5")
	require.NoError(t, err)
	require.Equal(t, []string{"user-1"}, req.FeedbackFrom)

	_, _, err = s.AddFeedback("req-5", "user-1", 4, "again")
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAddFeedback_UpdatesCurrentUser(t *testing.T) {
	s, _ := newSeededStore(t)
	before := len(s.CurrentUser().Feedback)

	_, _, err := s.AddFeedback("req-5", "user-6", 4, "Great photos")
	require.NoError(t, err)
	require.Len(t, s.CurrentUser().Feedback, before+1)
}

func TestAddFeedback_Errors(t *testing.T) {
	s, _ := newSeededStore(t)

	_, _, err := s.AddFeedback("req-5", "user-1", 0, "")
	require.ErrorIs(t, err, store.ErrInvalidArgument)

	_, _, err = s.AddFeedback("req-5", "user-1", 6, "")
	require.ErrorIs(t, err, store.ErrInvalidArgument)

	_, _, err = s.AddFeedback("req-404", "user-1", 5, "")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = s.AddFeedback("req-5", "user-2", 5, "")
	require.ErrorIs(t, err, store.ErrForbidden)

	_, _, err = s.AddFeedback("req-2", "user-1", 5, "")
	require.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestAddSwapRequest_DuplicatePending(t *testing.T) {
	s, _ := newSeededStore(t)

	_, _, err := s.AddSwapRequest(newRequest("user-1", "user-4"))
	require.NoError(t, err)
	before := s.Snapshot()

	_, _, err = s.AddSwapRequest(newRequest("user-1", "user-4"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.Equal(t, before, s.Snapshot())

	// Другой навык - это другое предложение
	other := newRequest("user-1", "user-4")
	other.FromUserSkillName = "React Development"
	_, _, err = s.AddSwapRequest(other)
	require.NoError(t, err)
}

func TestAddSwapRequest_ConcurrentDuplicates(t *testing.T) {
	s, _ := newSeededStore(t)
	before := len(s.Snapshot().Requests)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.AddSwapRequest(newRequest("user-1", "user-4")); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Len(t, s.Snapshot().Requests, before+1)
}
