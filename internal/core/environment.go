package core

import "strings"

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the provided value into one of the known environments.
// Unknown values fall back to Development so the application can still start
// with sensible defaults.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}

// Mode selects what the bot does with a message no rule recognises.
type Mode string

const (
	// Rules answers unmatched messages with the static help text.
	Rules Mode = "rules"
	// Generative forwards unmatched messages to the language model.
	Generative Mode = "generative"
)

// ParseMode accepts "generative" (or "gemini"/"llm") and treats anything else as Rules.
func ParseMode(v string) Mode {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "generative", "gemini", "llm":
		return Generative
	default:
		return Rules
	}
}
