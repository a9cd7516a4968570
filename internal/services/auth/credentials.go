package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/seed"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

// MaxPasswordBytes предел длины пароля для bcrypt
const MaxPasswordBytes = 72

var (
	// ErrInvalidCredentials неверный email или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken email уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")
)

// Credentials проверяет пароли по bcrypt-хешам, которые хранятся в учётных
// записях хранилища и попадают в снапшот вместе с пользователями
type Credentials struct {
	cost  int
	store *store.Store
}

// NewCredentials создаёт проверку паролей и добавляет учётные данные из
// начальных данных, если их ещё нет в хранилище (после восстановления снапшота)
func NewCredentials(cost int, st *store.Store, initial []seed.Credential) (*Credentials, error) {
	c := &Credentials{cost: cost, store: st}
	for _, cred := range initial {
		if c.Exists(cred.Email) {
			continue
		}
		if err := c.Add(cred.Email, cred.Password, cred.UserID); err != nil {
			return nil, fmt.Errorf("учётные данные %s: %w", cred.Email, err)
		}
	}
	return c, nil
}

// Add регистрирует email с паролем
func (c *Credentials) Add(email, password, userID string) error {
	if len(password) > MaxPasswordBytes {
		return bcrypt.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	err = c.store.AddAccount(models.Account{
		Email:        normalizeEmail(email),
		UserID:       userID,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrEmailTaken
	}
	return err
}

// Exists зарегистрирован ли email
func (c *Credentials) Exists(email string) bool {
	_, err := c.store.Account(normalizeEmail(email))
	return err == nil
}

// Verify проверяет пароль и возвращает ID пользователя
func (c *Credentials) Verify(email, password string) (string, error) {
	acc, err := c.store.Account(normalizeEmail(email))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return acc.UserID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
