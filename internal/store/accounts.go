package store

import (
	"fmt"
	"strings"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

// AddAccount сохраняет учётную запись. Email сравнивается без учёта регистра.
func (s *Store) AddAccount(acc models.Account) error {
	const op = "store/AddAccount"

	if acc.Email == "" || acc.PasswordHash == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountIndex(acc.Email) >= 0 {
		return fmt.Errorf("%s: %s: %w", op, acc.Email, ErrAlreadyExists)
	}

	s.state.Accounts = append(s.state.Accounts, acc)
	s.state.Version++
	return nil
}

// Account возвращает учётную запись по email.
func (s *Store) Account(email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.accountIndex(email)
	if i < 0 {
		return models.Account{}, fmt.Errorf("store/Account: %w", ErrNotFound)
	}
	return s.state.Accounts[i], nil
}

func (s *Store) accountIndex(email string) int {
	for i := range s.state.Accounts {
		if strings.EqualFold(s.state.Accounts[i].Email, email) {
			return i
		}
	}
	return -1
}
