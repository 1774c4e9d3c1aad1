package twilio

import (
	"github.com/twilio/twilio-go/twiml"
)

// ContentType is the media type of TwiML responses.
const ContentType = "text/xml"

// MessagingResponse renders a TwiML document that replies with body.
func MessagingResponse(body string) (string, error) {
	return twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: body},
	})
}
