// Package twilio connects the bot to WhatsApp through the Twilio API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	twiliogo "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/swasthya-bot/server/internal/agent/model"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const whatsappPrefix = "whatsapp:"

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Sender posts outbound WhatsApp messages through the Twilio REST API.
type Sender struct {
	api  messageCreator
	from string
}

func NewSender(config model.TwilioConfig) (*Sender, error) {
	if config.AccountSID == "" || config.AuthToken == "" {
		return nil, errors.New("twilio credentials are not set")
	}
	if config.PhoneNumber == "" {
		return nil, errors.New("twilio phone number is not set")
	}
	client := twiliogo.NewRestClientWithParams(twiliogo.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})
	return newSender(client.Api, config.PhoneNumber), nil
}

func newSender(api messageCreator, phoneNumber string) *Sender {
	return &Sender{api: api, from: WhatsAppAddress(phoneNumber)}
}

// Send delivers body to one WhatsApp recipient.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(WhatsAppAddress(to))
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if msg != nil && msg.Sid != nil {
		logx.Debug().Str("sid", *msg.Sid).Str("to", to).Msg("message queued")
	}
	return nil
}

// WhatsAppAddress prefixes a phone number with the WhatsApp channel tag.
func WhatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}
