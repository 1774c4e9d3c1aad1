// Package intent classifies inbound message text with a fixed-priority
// keyword scan. The first matching rule wins.
package intent

import (
	"strings"

	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/core"
)

var (
	clearPhrases      = []string{"clear", "reset", "start over"}
	greetingKeywords  = []string{"hi", "hello"}
	menuKeywords      = []string{"menu", "start"}
	hospitalKeywords  = []string{"hospital", "clinic", "health center"}
	vaccineKeywords   = []string{"vaccine", "vaccination"}
	firstAidKeywords  = []string{"first aid"}
	emergencyKeywords = []string{"emergency", "emergency contacts"}
)

type Matcher struct {
	kb   *knowledge.Base
	mode core.Mode
}

// NewMatcher builds a matcher over kb. mode decides the terminal fallback:
// Rules yields an unresolved DiseaseLookup, Generative yields FreeForm.
// Generative mode also greets on "menu" and "start".
func NewMatcher(kb *knowledge.Base, mode core.Mode) *Matcher {
	if kb == nil {
		kb = knowledge.New(nil)
	}
	return &Matcher{kb: kb, mode: mode}
}

// Normalize lower-cases text and collapses runs of whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Classify resolves text to an intent. It never fails; empty input reaches
// the terminal fallback.
func (m *Matcher) Classify(text string) model.Intent {
	t := Normalize(text)

	switch {
	case equalsAny(t, clearPhrases):
		return model.Intent{Kind: model.IntentClearHistory}
	case containsAny(t, greetingKeywords), m.mode == core.Generative && containsAny(t, menuKeywords):
		return model.Intent{Kind: model.IntentGreeting}
	case containsAny(t, hospitalKeywords):
		return model.Intent{Kind: model.IntentHospital}
	case containsAny(t, vaccineKeywords):
		return model.Intent{Kind: model.IntentVaccination}
	case containsAny(t, firstAidKeywords):
		return model.Intent{Kind: model.IntentFirstAid, Target: m.firstAidCondition(t)}
	case containsAny(t, emergencyKeywords):
		return model.Intent{Kind: model.IntentEmergency}
	}

	if key := m.instructionKey(t); key != "" {
		return model.Intent{Kind: model.IntentInstruction, Target: key}
	}

	if name := m.diseaseName(t); name != "" {
		return model.Intent{Kind: model.IntentDiseaseLookup, Target: name, Aspect: aspectOf(t)}
	}

	if m.mode == core.Generative {
		return model.Intent{Kind: model.IntentFreeForm}
	}
	return model.Intent{Kind: model.IntentDiseaseLookup}
}

func (m *Matcher) firstAidCondition(t string) string {
	for _, entry := range m.kb.FirstAidEntries() {
		if c := Normalize(entry.Condition); c != "" && strings.Contains(t, c) {
			return entry.Condition
		}
	}
	return ""
}

func (m *Matcher) instructionKey(t string) string {
	for _, key := range m.kb.InstructionKeys() {
		phrase := Normalize(strings.ReplaceAll(key, "_", " "))
		if phrase != "" && strings.Contains(t, phrase) {
			return key
		}
	}
	return ""
}

func (m *Matcher) diseaseName(t string) string {
	for _, d := range m.kb.Diseases() {
		if n := Normalize(d.Name); n != "" && strings.Contains(t, n) {
			return d.Name
		}
	}
	return ""
}

func aspectOf(t string) model.DiseaseAspect {
	switch {
	case strings.Contains(t, "symptom"):
		return model.AspectSymptoms
	case strings.Contains(t, "prevent"):
		return model.AspectPrevention
	default:
		return model.AspectOverview
	}
}

func containsAny(t string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func equalsAny(t string, phrases []string) bool {
	for _, p := range phrases {
		if t == p {
			return true
		}
	}
	return false
}
