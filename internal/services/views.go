package services

import "github.com/rajivgeraev/skillsphere-api/internal/store"

// UserSummary краткая информация о пользователе для списков
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Summarize ищет пользователя в снимке; для неизвестного ID заполняется только ID
func Summarize(state store.State, id string) UserSummary {
	u, ok := store.UserByID(state, id)
	if !ok {
		return UserSummary{ID: id}
	}
	return UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
