package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength = 2
	MaxBioLength  = 300
)

// ValidationError ошибка проверки поля формы
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidateProfile проверяет редактируемые поля профиля
func ValidateProfile(u User) error {
	if utf8.RuneCountInString(strings.TrimSpace(u.Name)) < MinNameLength {
		return invalid("name", "Name must be at least 2 characters.")
	}
	if utf8.RuneCountInString(u.Bio) > MaxBioLength {
		return invalid("bio", "Bio cannot exceed 300 characters.")
	}
	if len(u.Availability) == 0 {
		return invalid("availability", "Please select at least one availability option.")
	}
	for _, a := range u.Availability {
		if !IsValidAvailability(a) {
			return invalid("availability", fmt.Sprintf("Unknown availability option %q.", a))
		}
	}
	if u.ProfileVisibility != VisibilityPublic && u.ProfileVisibility != VisibilityPrivate {
		return invalid("profile_visibility", "Profile visibility must be Public or Private.")
	}

	for _, s := range u.SkillsOffered {
		if err := validateSkill("skills_offered", s); err != nil {
			return err
		}
		if s.Proficiency != "" && !IsValidProficiency(s.Proficiency) {
			return invalid("skills_offered", fmt.Sprintf("Unknown proficiency %q.", s.Proficiency))
		}
	}
	for _, s := range u.SkillsWanted {
		if err := validateSkill("skills_wanted", s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNewUserSkills правила регистрации: хотя бы один навык в каждом
// списке, у предлагаемых навыков обязателен уровень
func ValidateNewUserSkills(offered, wanted []Skill) error {
	if len(offered) == 0 {
		return invalid("skills_offered", "Please add at least one skill you can offer.")
	}
	for _, s := range offered {
		if !IsValidProficiency(s.Proficiency) {
			return invalid("skills_offered", "Please select a proficiency level for every offered skill.")
		}
	}
	if len(wanted) == 0 {
		return invalid("skills_wanted", "Please add at least one skill you want to learn.")
	}
	return nil
}

func validateSkill(field string, s Skill) error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid(field, "Skill name is required.")
	}
	if !IsValidCategory(s.Category) {
		return invalid(field, fmt.Sprintf("Unknown skill category %q.", s.Category))
	}
	return nil
}
