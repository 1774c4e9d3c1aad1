package response

import "github.com/swasthya-bot/server/internal/agent/model"

// localized maps a language to a text. English is always present.
type localized map[model.Language]string

// in returns the text for lang, or the English text for unrecognised codes.
func (l localized) in(lang model.Language) string {
	if s, ok := l[lang]; ok {
		return s
	}
	return l[model.English]
}

const (
	welcomeText = "Welcome to the Health Chatbot!\n" +
		"You can ask me about:\n" +
		"- A specific disease (e.g., 'malaria')\n" +
		"- Vaccination information\n" +
		"- First aid for a condition\n" +
		"- Emergency contacts\n" +
		"- Nearby hospitals or clinics"

	menuText = "Welcome to the Health Information Chatbot! How can I help you today?\n\n" +
		"You can ask me about:\n" +
		"🔹 Disease Information (Symptoms, Preventions)\n" +
		"🔹 Vaccination Schedules\n" +
		"🔹 First-Aid Help\n" +
		"🔹 Emergency Contacts\n\n" +
		"Just type your question naturally, for example, 'What are the symptoms of tuberculosis?'"

	hospitalText = "To find a hospital or health center near you, open this link on your phone:\n\n" +
		"https://www.google.com/maps/search/?api=1&query=hospital+near+me"

	// HistoryClearedText confirms that a conversation session was emptied.
	HistoryClearedText = "Chat history cleared. How can I help you today?"

	// ApologyText replaces a failed or timed out generation.
	ApologyText = "I'm sorry, I encountered an error. Please try again later."

	vaccinationHeader = "Here is the vaccination information:"
	firstAidPrompt    = "What first aid information do you need?"
	emergencyHeader   = "*Emergency Contacts:*"
)

var (
	helpFallback = localized{
		model.English: "I'm sorry, I don't understand. Say 'hi' for the main menu. You can also ask for 'nearby hospitals'.",
		model.Hindi:   "माफ़ कीजिए, मैं समझ नहीं पाया। मुख्य मेनू के लिए 'hi' लिखें। आप 'nearby hospitals' भी पूछ सकते हैं।",
		model.Odia:    "କ୍ଷମା କରନ୍ତୁ, ମୁଁ ବୁଝିପାରିଲି ନାହିଁ। ମୁଖ୍ୟ ମେନୁ ପାଇଁ 'hi' ଲେଖନ୍ତୁ। ଆପଣ 'nearby hospitals' ମଧ୍ୟ ପଚାରିପାରିବେ।",
	}

	symptomsNotFound = localized{
		model.English: "Sorry, I couldn't find symptoms for that disease/language.",
		model.Hindi:   "माफ़ कीजिए, उस बीमारी/भाषा के लिए लक्षण नहीं मिले।",
		model.Odia:    "ମାନ୍ୟ କରନ୍ତୁ, ସେଇ ରୋଗ/ଭାଷା ପାଇଁ ଲକ୍ଷଣ ମିଳିଲା ନାହିଁ।",
	}

	preventionNotFound = localized{
		model.English: "Sorry, I couldn't find prevention tips for that disease/language.",
		model.Hindi:   "माफ़ कीजिए, उस बीमारी/भाषा के लिए बचाव जानकारी नहीं मिली।",
		model.Odia:    "ମାନ୍ୟ କରନ୍ତୁ, ସେଇ ରୋଗ/ଭାଷା ପାଇଁ ବଚାଉ ତଥ୍ୟ ମିଳିଲା ନାହିଁ।",
	}

	instructionNotFound = localized{
		model.English: "Sorry, I couldn't find the requested information.",
		model.Hindi:   "माफ़ कीजिए, अनुरोधित जानकारी नहीं मिली।",
		model.Odia:    "ମାନ୍ୟ କରନ୍ତୁ, ଅନୁରୋଧିତ ତଥ୍ୟ ମିଳିଲା ନାହିଁ।",
	}

	noVaccinations = "Vaccination information is not available right now."
	noFirstAid     = "First aid information is not available right now."
	noContacts     = "Emergency contacts are not available right now. In India, dial 112 for any emergency."
)
