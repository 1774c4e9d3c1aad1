package model

// IntentKind names the response path selected for a message.
type IntentKind int

const (
	IntentFreeForm IntentKind = iota
	IntentClearHistory
	IntentGreeting
	IntentHospital
	IntentVaccination
	IntentFirstAid
	IntentEmergency
	IntentInstruction
	IntentDiseaseLookup
)

var intentNames = map[IntentKind]string{
	IntentFreeForm:      "free_form",
	IntentClearHistory:  "clear_history",
	IntentGreeting:      "greeting",
	IntentHospital:      "hospital",
	IntentVaccination:   "vaccination",
	IntentFirstAid:      "first_aid",
	IntentEmergency:     "emergency",
	IntentInstruction:   "instruction",
	IntentDiseaseLookup: "disease_lookup",
}

func (k IntentKind) String() string {
	if n, ok := intentNames[k]; ok {
		return n
	}
	return "unknown"
}

// DiseaseAspect narrows a disease lookup to one section of the record.
type DiseaseAspect int

const (
	AspectOverview DiseaseAspect = iota
	AspectSymptoms
	AspectPrevention
)

// Intent is the classified message. Target holds the bound first-aid
// condition, instruction key or disease name; empty means none was found.
type Intent struct {
	Kind   IntentKind
	Target string
	Aspect DiseaseAspect
}

// Resolved reports whether the intent bound a concrete record.
func (i Intent) Resolved() bool {
	return i.Target != ""
}
