package store

import (
	"sort"
	"strings"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

// DefaultPageSize размер страницы каталога пользователей.
const DefaultPageSize = 6

// DirectoryFilter параметры каталога пользователей.
type DirectoryFilter struct {
	// ExcludeUserID обычно текущий пользователь
	ExcludeUserID string
	Search        string
	// Availability "all" или пусто - без фильтра
	Availability string
	Page         int
	PageSize     int
}

// DirectoryPage страница каталога.
type DirectoryPage struct {
	Users      []models.User `json:"users"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

// Directory фильтрует пользователей по подстроке имени (без учёта регистра)
// и тегу доступности, затем отдаёт нужную страницу.
func Directory(state State, f DirectoryFilter) DirectoryPage {
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	availability := strings.ToLower(strings.TrimSpace(f.Availability))
	if availability == "all" {
		availability = ""
	}

	filtered := make([]models.User, 0, len(state.Users))
	for _, u := range state.Users {
		if f.ExcludeUserID != "" && u.ID == f.ExcludeUserID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		if availability != "" && !u.HasAvailability(availability) {
			continue
		}
		filtered = append(filtered, u)
	}

	result := DirectoryPage{
		Users:      []models.User{},
		Total:      len(filtered),
		TotalPages: (len(filtered) + size - 1) / size,
		Page:       page,
		PageSize:   size,
	}

	start := (page - 1) * size
	if start >= len(filtered) {
		return result
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	result.Users = filtered[start:end]
	return result
}

// UserByID ищет пользователя в снимке.
func UserByID(state State, id string) (models.User, bool) {
	for _, u := range state.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// ConversationsFor возвращает переписки пользователя, отфильтрованные по имени
// собеседника, от самой свежей к самой старой. Пустые переписки идут последними.
func ConversationsFor(state State, userID, search string) []models.Conversation {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]models.Conversation, 0)
	for _, c := range state.Conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		other, ok := UserByID(state, c.Counterpart(userID))
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(other.Name), search) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		li, okI := out[i].LastMessage()
		lj, okJ := out[j].LastMessage()
		switch {
		case okI && okJ:
			return li.Timestamp.After(lj.Timestamp)
		case okI:
			return true
		default:
			return false
		}
	})
	return out
}

// PendingIncomingCount число ожидающих входящих предложений пользователя.
func PendingIncomingCount(state State, userID string) int {
	n := 0
	for _, r := range state.Requests {
		if r.ToUserID == userID && r.Status == models.StatusPending {
			n++
		}
	}
	return n
}

// IncomingRequests предложения, адресованные пользователю.
func IncomingRequests(state State, userID string) []models.SwapRequest {
	return filterRequests(state, func(r models.SwapRequest) bool { return r.ToUserID == userID })
}

// OutgoingRequests предложения, отправленные пользователем.
func OutgoingRequests(state State, userID string) []models.SwapRequest {
	return filterRequests(state, func(r models.SwapRequest) bool { return r.FromUserID == userID })
}

func filterRequests(state State, keep func(models.SwapRequest) bool) []models.SwapRequest {
	out := make([]models.SwapRequest, 0)
	for _, r := range state.Requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// NotificationsFor уведомления пользователя, новые первыми.
func NotificationsFor(state State, userID string) []models.Notification {
	out := make([]models.Notification, 0)
	for _, n := range state.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UnreadNotificationCount число непрочитанных уведомлений пользователя.
func UnreadNotificationCount(state State, userID string) int {
	n := 0
	for _, notif := range state.Notifications {
		if notif.UserID == userID && !notif.Read {
			n++
		}
	}
	return n
}
