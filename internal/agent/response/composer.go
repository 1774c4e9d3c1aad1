// Package response renders reply text for classified intents.
package response

import (
	"fmt"
	"strings"

	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/core"
)

// Composer turns an intent into reply text. Every path has a fallback string,
// so Render never fails.
type Composer struct {
	kb   *knowledge.Base
	mode core.Mode
}

func NewComposer(kb *knowledge.Base, mode core.Mode) *Composer {
	if kb == nil {
		kb = knowledge.New(nil)
	}
	return &Composer{kb: kb, mode: mode}
}

// Welcome is sent to first-time senders and answers greetings.
func (c *Composer) Welcome() string {
	if c.mode == core.Generative {
		return menuText
	}
	return welcomeText
}

// Help is the terminal fallback of the rule-based mode.
func (c *Composer) Help(lang model.Language) string {
	return helpFallback.in(lang)
}

// Render composes the reply for in. FreeForm is answered by the generator;
// reaching Render with it yields the help text.
func (c *Composer) Render(in model.Intent, lang model.Language) string {
	switch in.Kind {
	case model.IntentClearHistory:
		return HistoryClearedText
	case model.IntentGreeting:
		return c.Welcome()
	case model.IntentHospital:
		return hospitalText
	case model.IntentVaccination:
		return c.vaccinations()
	case model.IntentFirstAid:
		return c.firstAid(in.Target)
	case model.IntentEmergency:
		return c.emergencyContacts()
	case model.IntentInstruction:
		return c.instruction(in.Target, lang)
	case model.IntentDiseaseLookup:
		return c.disease(in, lang)
	default:
		return c.Help(lang)
	}
}

func (c *Composer) vaccinations() string {
	entries := c.kb.Vaccinations()
	if len(entries) == 0 {
		return noVaccinations
	}
	blocks := make([]string, 0, len(entries))
	for _, v := range entries {
		blocks = append(blocks, fmt.Sprintf("*Vaccine:* %s\n*Prevents:* %s\n*Schedule:* %s", v.VaccineName, v.DiseasePrevented, v.Schedule))
	}
	return vaccinationHeader + "\n\n" + strings.Join(blocks, "\n\n")
}

func (c *Composer) firstAid(condition string) string {
	if condition != "" {
		if entry, err := c.kb.FirstAid(condition); err == nil {
			var b strings.Builder
			fmt.Fprintf(&b, "First aid for %s:\n", entry.Condition)
			for i, step := range entry.Steps {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
			if entry.Warning != "" {
				fmt.Fprintf(&b, "\n*Warning:* %s", entry.Warning)
			}
			return strings.TrimRight(b.String(), "\n")
		}
	}

	entries := c.kb.FirstAidEntries()
	if len(entries) == 0 {
		return noFirstAid
	}
	lines := []string{firstAidPrompt}
	for _, e := range entries {
		lines = append(lines, "- "+e.Condition)
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) emergencyContacts() string {
	contacts := c.kb.EmergencyContacts()
	if len(contacts) == 0 {
		return noContacts
	}
	lines := []string{emergencyHeader}
	for _, ct := range contacts {
		lines = append(lines, fmt.Sprintf("- %s: %s", ct.Service, ct.Number))
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) instruction(key string, lang model.Language) string {
	text, err := c.kb.Instruction(key, lang)
	if err != nil {
		return instructionNotFound.in(lang)
	}
	return text
}

func (c *Composer) disease(in model.Intent, lang model.Language) string {
	if !in.Resolved() {
		return c.Help(lang)
	}
	switch in.Aspect {
	case model.AspectSymptoms:
		symptoms, err := c.kb.Symptoms(in.Target, lang)
		if err != nil {
			return symptomsNotFound.in(lang)
		}
		return strings.Join(symptoms, "\n")
	case model.AspectPrevention:
		if p, err := c.kb.Preventions(in.Target, lang); err == nil {
			return strings.Join(p, "\n")
		}
		if groups, err := c.kb.PreventionMethods(in.Target, lang); err == nil {
			return strings.TrimRight(formatGroups(groups), "\n")
		}
		return preventionNotFound.in(lang)
	default:
		return c.diseaseOverview(in.Target, lang)
	}
}

// diseaseOverview renders every section available in lang under a header.
func (c *Composer) diseaseOverview(name string, lang model.Language) string {
	d, err := c.kb.Disease(name)
	if err != nil {
		return c.Help(lang)
	}

	var sections []string
	if symptoms, err := c.kb.Symptoms(name, lang); err == nil {
		sections = append(sections, "*Common Symptoms:*\n"+bullets(symptoms, "- "))
	}
	if groups, err := c.kb.PreventionMethods(name, lang); err == nil {
		sections = append(sections, "*Prevention Methods:*\n"+formatGroups(groups))
	} else if p, err := c.kb.Preventions(name, lang); err == nil {
		sections = append(sections, "*Prevention Methods:*\n"+bullets(p, "- "))
	}
	if len(sections) == 0 {
		return symptomsNotFound.in(lang)
	}

	out := fmt.Sprintf("*About %s:*\n\n", d.Name) + strings.Join(sections, "\n")
	return strings.TrimRight(out, "\n")
}

func formatGroups(groups []model.PreventionMethod) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "  *%s:*\n", g.Category)
		b.WriteString(bullets(g.Methods, "  - "))
	}
	return b.String()
}

func bullets(items []string, prefix string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(prefix)
		b.WriteString(it)
		b.WriteString("\n")
	}
	return b.String()
}
