package knowledge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
)

// MissingDataError reports that a record or one of its language slots is absent.
type MissingDataError struct {
	Section  string
	Key      string
	Language model.Language
}

func (e *MissingDataError) Error() string {
	if e.Language == "" {
		return fmt.Sprintf("%s %q not found", e.Section, e.Key)
	}
	return fmt.Sprintf("%s for %q not found in language %q", e.Section, e.Key, e.Language)
}

// Is makes MissingDataError match errx.ErrMissingData.
func (e *MissingDataError) Is(target error) bool {
	return target == errx.ErrMissingData
}

// Base wraps a loaded dataset with case-insensitive lookups. It is never
// mutated after New and is safe for concurrent use.
type Base struct {
	data     *model.KnowledgeBase
	diseases map[string]int
	firstAid map[string]int
	instrKey []string
	encoded  string
}

// New indexes kb. A nil kb produces an empty Base.
func New(kb *model.KnowledgeBase) *Base {
	if kb == nil {
		kb = &model.KnowledgeBase{}
	}
	b := &Base{
		data:     kb,
		diseases: make(map[string]int, len(kb.Diseases)),
		firstAid: make(map[string]int, len(kb.FirstAid)),
	}
	for i, d := range kb.Diseases {
		key := normalize(d.Name)
		if _, dup := b.diseases[key]; !dup && key != "" {
			b.diseases[key] = i
		}
	}
	for i, f := range kb.FirstAid {
		key := normalize(f.Condition)
		if _, dup := b.firstAid[key]; !dup && key != "" {
			b.firstAid[key] = i
		}
	}
	for k := range kb.GeneralInstructions {
		b.instrKey = append(b.instrKey, k)
	}
	sort.Strings(b.instrKey)
	if raw, err := json.Marshal(kb); err == nil {
		b.encoded = string(raw)
	}
	return b
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Data exposes the underlying dataset. Callers must not modify it.
func (b *Base) Data() *model.KnowledgeBase { return b.data }

// JSON is the dataset encoded once at construction, used to ground the
// generative model.
func (b *Base) JSON() string { return b.encoded }

func (b *Base) Diseases() []model.Disease                   { return b.data.Diseases }
func (b *Base) Vaccinations() []model.VaccinationEntry      { return b.data.Vaccinations }
func (b *Base) FirstAidEntries() []model.FirstAidEntry      { return b.data.FirstAid }
func (b *Base) EmergencyContacts() []model.EmergencyContact { return b.data.EmergencyContacts }

// InstructionKeys returns the general-instruction keys in sorted order.
func (b *Base) InstructionKeys() []string { return b.instrKey }

// Disease finds a disease by name, ignoring case.
func (b *Base) Disease(name string) (model.Disease, error) {
	i, ok := b.diseases[normalize(name)]
	if !ok {
		return model.Disease{}, &MissingDataError{Section: "disease", Key: name}
	}
	return b.data.Diseases[i], nil
}

// FirstAid finds a first-aid entry by condition name, ignoring case.
func (b *Base) FirstAid(condition string) (model.FirstAidEntry, error) {
	i, ok := b.firstAid[normalize(condition)]
	if !ok {
		return model.FirstAidEntry{}, &MissingDataError{Section: "first aid", Key: condition}
	}
	return b.data.FirstAid[i], nil
}

// Symptoms returns the symptom list of a disease in lang.
func (b *Base) Symptoms(name string, lang model.Language) ([]string, error) {
	d, err := b.Disease(name)
	if err != nil {
		return nil, err
	}
	if s := d.Symptoms[lang]; len(s) > 0 {
		return s, nil
	}
	return nil, &MissingDataError{Section: "symptoms", Key: d.Name, Language: lang}
}

// Preventions returns the flat prevention list of a disease in lang.
func (b *Base) Preventions(name string, lang model.Language) ([]string, error) {
	d, err := b.Disease(name)
	if err != nil {
		return nil, err
	}
	if p := d.Preventions[lang]; len(p) > 0 {
		return p, nil
	}
	return nil, &MissingDataError{Section: "preventions", Key: d.Name, Language: lang}
}

// PreventionMethods returns the categorised prevention groups of a disease in lang.
func (b *Base) PreventionMethods(name string, lang model.Language) ([]model.PreventionMethod, error) {
	d, err := b.Disease(name)
	if err != nil {
		return nil, err
	}
	if m := d.PreventionMethods[lang]; len(m) > 0 {
		return m, nil
	}
	return nil, &MissingDataError{Section: "prevention methods", Key: d.Name, Language: lang}
}

// Instruction returns a general instruction text in lang.
func (b *Base) Instruction(key string, lang model.Language) (string, error) {
	texts, ok := b.data.GeneralInstructions[key]
	if !ok {
		return "", &MissingDataError{Section: "instruction", Key: key}
	}
	if t := strings.TrimSpace(texts[lang]); t != "" {
		return t, nil
	}
	return "", &MissingDataError{Section: "instruction", Key: key, Language: lang}
}
