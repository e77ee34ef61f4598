package sms

import (
	"context"
	"fmt"

	domainSMS "reminder_dispatch_job/internal/domain/sms"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio REST API the adapter uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioAdapter implements the domain sms.Client interface using twilio-go.
type TwilioAdapter struct {
	api messageCreator
}

func NewTwilioAdapter(accountSID, authToken string) *TwilioAdapter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioAdapter{api: client.Api}
}

// Send creates the message through the Twilio Messages API.
// The SDK call takes no context, so ctx is only checked before the request is made.
func (a *TwilioAdapter) Send(ctx context.Context, msg domainSMS.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(msg.From)
	params.SetBody(msg.Body)

	resp, err := a.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: failed to send message to %s: %w", msg.To, err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
