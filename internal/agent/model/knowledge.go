package model

import "strings"

// Language is a lower-case language code as used in the dataset (en, hi, or).
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Odia    Language = "or"

	DefaultLanguage = English
)

// ParseLanguage trims and lower-cases v. Empty input yields DefaultLanguage.
// Unknown codes are kept so datasets may carry more languages than the
// localized fallback texts do.
func ParseLanguage(v string) Language {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return DefaultLanguage
	}
	return Language(v)
}

// KnowledgeBase is the static health dataset. It is loaded once and shared
// read-only by every request.
type KnowledgeBase struct {
	Diseases            []Disease                      `json:"diseases" yaml:"diseases"`
	Vaccinations        []VaccinationEntry             `json:"vaccination_schedule" yaml:"vaccination_schedule"`
	FirstAid            []FirstAidEntry                `json:"first_aid" yaml:"first_aid"`
	EmergencyContacts   []EmergencyContact             `json:"emergency_contacts" yaml:"emergency_contacts"`
	GeneralInstructions map[string]map[Language]string `json:"general_instructions,omitempty" yaml:"general_instructions,omitempty"`
}

// Disease holds per-language symptom and prevention data. Any language key
// may be absent.
type Disease struct {
	Name              string                          `json:"name" yaml:"name"`
	Symptoms          map[Language][]string           `json:"symptoms,omitempty" yaml:"symptoms,omitempty"`
	Preventions       map[Language][]string           `json:"preventions,omitempty" yaml:"preventions,omitempty"`
	PreventionMethods map[Language][]PreventionMethod `json:"prevention_methods,omitempty" yaml:"prevention_methods,omitempty"`
}

// PreventionMethod groups prevention steps under a category such as "Vector control".
type PreventionMethod struct {
	Category string   `json:"category" yaml:"category"`
	Methods  []string `json:"methods" yaml:"methods"`
}

type VaccinationEntry struct {
	VaccineName      string `json:"vaccine_name" yaml:"vaccine_name"`
	DiseasePrevented string `json:"disease_prevented" yaml:"disease_prevented"`
	Schedule         string `json:"schedule" yaml:"schedule"`
}

type FirstAidEntry struct {
	Condition string   `json:"condition" yaml:"condition"`
	Steps     []string `json:"steps" yaml:"steps"`
	Warning   string   `json:"warning,omitempty" yaml:"warning,omitempty"`
}

type EmergencyContact struct {
	Service string `json:"service" yaml:"service"`
	Number  string `json:"number" yaml:"number"`
}
