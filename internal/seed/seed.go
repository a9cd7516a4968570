// Package seed загружает стартовые данные SkillSphere из YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

//go:embed seed.yaml
var defaultSeed []byte

// Credential учётные данные для входа по email
type Credential struct {
	UserID   string `yaml:"user_id"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Data содержимое файла начальных данных
type Data struct {
	InitialUserID string                `yaml:"initial_user_id"`
	Users         []models.User         `yaml:"users"`
	Requests      []models.SwapRequest  `yaml:"requests"`
	Conversations []models.Conversation `yaml:"conversations"`
	Notifications []models.Notification `yaml:"notifications"`
	Credentials   []Credential          `yaml:"credentials"`
}

// Default возвращает встроенные данные
func Default() (*Data, error) {
	return Parse(defaultSeed)
}

// Load читает данные из файла; пустой путь означает встроенные данные
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла начальных данных %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse разбирает YAML и проверяет ссылочную целостность
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("ошибка разбора начальных данных: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// State преобразует данные в состояние хранилища
func (d *Data) State() store.State {
	state := store.State{
		Users:         d.Users,
		Requests:      d.Requests,
		Conversations: d.Conversations,
		Notifications: d.Notifications,
		InitialUserID: d.InitialUserID,
	}
	for i := range state.Conversations {
		if state.Conversations[i].Messages == nil {
			state.Conversations[i].Messages = []models.Message{}
		}
	}
	return state.Clone()
}

func (d *Data) validate() error {
	ids := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if u.ID == "" {
			return fmt.Errorf("пользователь без id: %q", u.Name)
		}
		ids[u.ID] = true
	}

	if d.InitialUserID != "" && !ids[d.InitialUserID] {
		return fmt.Errorf("initial_user_id %q не найден среди пользователей", d.InitialUserID)
	}

	for _, r := range d.Requests {
		if !ids[r.FromUserID] || !ids[r.ToUserID] {
			return fmt.Errorf("запрос %s ссылается на неизвестного пользователя", r.ID)
		}
		if !r.Status.IsValid() {
			return fmt.Errorf("запрос %s: неизвестный статус %q", r.ID, r.Status)
		}
	}

	for _, c := range d.Conversations {
		if len(c.ParticipantIDs) != 2 {
			return fmt.Errorf("переписка %s должна иметь ровно двух участников", c.ID)
		}
		for _, p := range c.ParticipantIDs {
			if !ids[p] {
				return fmt.Errorf("переписка %s ссылается на неизвестного пользователя %s", c.ID, p)
			}
		}
	}

	for _, cr := range d.Credentials {
		if !ids[cr.UserID] {
			return fmt.Errorf("учётные данные %s ссылаются на неизвестного пользователя", cr.Email)
		}
	}

	return nil
}
