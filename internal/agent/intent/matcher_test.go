package intent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/swasthya-bot/server/internal/agent/knowledge"
	"github.com/swasthya-bot/server/internal/agent/model"
	"github.com/swasthya-bot/server/internal/core"
)

func testBase() *knowledge.Base {
	return knowledge.New(&model.KnowledgeBase{
		Diseases: []model.Disease{
			{Name: "Malaria"},
			{Name: "Dengue"},
			{Name: "Cholera"},
		},
		FirstAid: []model.FirstAidEntry{
			{Condition: "Burns"},
			{Condition: "Snake bite"},
		},
		GeneralInstructions: map[string]map[model.Language]string{
			"hygiene":             {model.English: "Wash hands."},
			"doctor_consultation": {model.English: "See a doctor."},
		},
	})
}

func TestClassify_Rules(t *testing.T) {
	m := NewMatcher(testBase(), core.Rules)

	cases := []struct {
		name string
		text string
		want model.Intent
	}{
		{"clear exact", "clear", model.Intent{Kind: model.IntentClearHistory}},
		{"start over with spaces", "  Start   Over ", model.Intent{Kind: model.IntentClearHistory}},
		{"clear only when exact", "please clear my malaria doubts", model.Intent{Kind: model.IntentDiseaseLookup, Target: "Malaria"}},
		{"greeting", "Hello there", model.Intent{Kind: model.IntentGreeting}},
		{"greeting substring", "hi", model.Intent{Kind: model.IntentGreeting}},
		{"menu is not a greeting in rules mode", "menu", model.Intent{Kind: model.IntentDiseaseLookup}},
		{"hospital", "nearest clinic please", model.Intent{Kind: model.IntentHospital}},
		{"health center", "any health center around", model.Intent{Kind: model.IntentHospital}},
		{"vaccine", "vaccination schedule", model.Intent{Kind: model.IntentVaccination}},
		{"first aid bound", "first aid for snake bite", model.Intent{Kind: model.IntentFirstAid, Target: "Snake bite"}},
		{"first aid unbound", "first aid", model.Intent{Kind: model.IntentFirstAid}},
		{"emergency", "emergency contacts", model.Intent{Kind: model.IntentEmergency}},
		{"instruction", "tell me about doctor consultation", model.Intent{Kind: model.IntentInstruction, Target: "doctor_consultation"}},
		{"disease overview", "tell me about dengue", model.Intent{Kind: model.IntentDiseaseLookup, Target: "Dengue"}},
		{"disease symptoms", "what are the symptoms of malaria", model.Intent{Kind: model.IntentDiseaseLookup, Target: "Malaria", Aspect: model.AspectSymptoms}},
		{"disease prevention", "how to prevent cholera", model.Intent{Kind: model.IntentDiseaseLookup, Target: "Cholera", Aspect: model.AspectPrevention}},
		{"unknown", "what is the weather", model.Intent{Kind: model.IntentDiseaseLookup}},
		{"empty", "   ", model.Intent{Kind: model.IntentDiseaseLookup}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, m.Classify(tc.text))
		})
	}
}

func TestClassify_GenerativeFallback(t *testing.T) {
	m := NewMatcher(testBase(), core.Generative)

	require.Equal(t, model.IntentGreeting, m.Classify("menu").Kind)
	require.Equal(t, model.IntentGreeting, m.Classify("start").Kind)
	require.Equal(t, model.IntentClearHistory, m.Classify("start over").Kind)
	require.Equal(t, model.IntentFreeForm, m.Classify("my stomach aches").Kind)
	require.Equal(t, model.IntentFreeForm, m.Classify("").Kind)
	require.Equal(t, model.IntentDiseaseLookup, m.Classify("dengue").Kind)
}

func TestClassify_PriorityOrder(t *testing.T) {
	m := NewMatcher(testBase(), core.Rules)

	// Each text mixes keywords of two rules; the earlier rule must win.
	got := []model.IntentKind{
		m.Classify("hello, where is the hospital").Kind,
		m.Classify("hospital for vaccine").Kind,
		m.Classify("vaccine first aid").Kind,
		m.Classify("first aid emergency burns").Kind,
		m.Classify("emergency malaria").Kind,
		m.Classify("hygiene during malaria").Kind,
		m.Classify("malaria or dengue").Kind,
	}
	want := []model.IntentKind{
		model.IntentGreeting,
		model.IntentHospital,
		model.IntentVaccination,
		model.IntentFirstAid,
		model.IntentEmergency,
		model.IntentInstruction,
		model.IntentDiseaseLookup,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("priority mismatch (-want +got):\n%s", diff)
	}

	// Knowledge base order decides between two diseases.
	require.Equal(t, "Malaria", m.Classify("dengue or malaria").Target)
}

func TestNewMatcher_NilBase(t *testing.T) {
	m := NewMatcher(nil, core.Rules)
	require.Equal(t, model.Intent{Kind: model.IntentFirstAid}, m.Classify("first aid for burns"))
}

func TestClassify_EmbeddedInstructionsReachable(t *testing.T) {
	kb, err := knowledge.Load("")
	require.NoError(t, err)
	base := knowledge.New(kb)
	m := NewMatcher(base, core.Rules)

	keys := base.InstructionKeys()
	require.NotEmpty(t, keys)
	for _, key := range keys {
		text := "tell me about " + strings.ReplaceAll(key, "_", " ")
		require.Equal(t, model.Intent{Kind: model.IntentInstruction, Target: key}, m.Classify(text), key)
	}
}
