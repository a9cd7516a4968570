package models

import "strings"

// SkillCategory категория навыка
type SkillCategory string

const (
	CategoryTechnology SkillCategory = "Technology"
	CategoryCreative   SkillCategory = "Creative"
	CategoryLifestyle  SkillCategory = "Lifestyle"
	CategoryBusiness   SkillCategory = "Business"
)

// Proficiency уровень владения навыком (только для предлагаемых навыков)
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

// Visibility видимость профиля
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// Допустимые теги доступности
const (
	AvailabilityWeekdays = "weekdays"
	AvailabilityEvenings = "evenings"
	AvailabilityWeekends = "weekends"
	AvailabilityFlexible = "flexible"
)

// AvailabilityOptions все значения доступности в порядке отображения
var AvailabilityOptions = []string{
	AvailabilityWeekdays,
	AvailabilityEvenings,
	AvailabilityWeekends,
	AvailabilityFlexible,
}

// Skill представляет навык пользователя
type Skill struct {
	Name        string        `json:"name" yaml:"name"`
	Category    SkillCategory `json:"category" yaml:"category"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Proficiency Proficiency   `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
}

// Feedback отзыв о пользователе после завершённого обмена
type Feedback struct {
	Rating  int    `json:"rating" yaml:"rating"`
	Comment string `json:"comment" yaml:"comment"`
	From    string `json:"from" yaml:"from"`
}

// User представляет профиль пользователя SkillSphere
type User struct {
	ID                string     `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	Avatar            string     `json:"avatar" yaml:"avatar"`
	Location          string     `json:"location" yaml:"location"`
	Bio               string     `json:"bio" yaml:"bio"`
	SkillsOffered     []Skill    `json:"skills_offered" yaml:"skills_offered"`
	SkillsWanted      []Skill    `json:"skills_wanted" yaml:"skills_wanted"`
	Availability      []string   `json:"availability" yaml:"availability"`
	ProfileVisibility Visibility `json:"profile_visibility" yaml:"profile_visibility"`
	Feedback          []Feedback `json:"feedback" yaml:"feedback"`
}

// Clone возвращает глубокую копию пользователя
func (u User) Clone() User {
	out := u
	out.SkillsOffered = cloneSkills(u.SkillsOffered)
	out.SkillsWanted = cloneSkills(u.SkillsWanted)
	out.Availability = cloneSlice(u.Availability)
	out.Feedback = cloneSlice(u.Feedback)
	return out
}

func cloneSkills(in []Skill) []Skill {
	out := make([]Skill, len(in))
	for i, s := range in {
		s.Tags = cloneSlice(s.Tags)
		out[i] = s
	}
	return out
}

// cloneSlice копирует срез; результат никогда не nil, чтобы в JSON был [] а не null
func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// HasAvailability проверяет наличие тега доступности без учёта регистра
func (u User) HasAvailability(tag string) bool {
	for _, a := range u.Availability {
		if strings.EqualFold(a, tag) {
			return true
		}
	}
	return false
}

// OffersSkill проверяет, предлагает ли пользователь навык с таким именем
func (u User) OffersSkill(name string) bool {
	for _, s := range u.SkillsOffered {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AverageRating средняя оценка по отзывам, 0 если отзывов нет
func (u User) AverageRating() float64 {
	if len(u.Feedback) == 0 {
		return 0
	}
	sum := 0
	for _, fb := range u.Feedback {
		sum += fb.Rating
	}
	return float64(sum) / float64(len(u.Feedback))
}

// IsValidCategory проверяет категорию навыка
func IsValidCategory(c SkillCategory) bool {
	switch c {
	case CategoryTechnology, CategoryCreative, CategoryLifestyle, CategoryBusiness:
		return true
	}
	return false
}

// IsValidProficiency проверяет уровень владения
func IsValidProficiency(p Proficiency) bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// IsValidAvailability проверяет тег доступности
func IsValidAvailability(tag string) bool {
	for _, a := range AvailabilityOptions {
		if a == tag {
			return true
		}
	}
	return false
}
