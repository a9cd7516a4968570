package models

// Account учётная запись для входа по email и паролю
type Account struct {
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	PasswordHash string `json:"password_hash"`
}
