package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecofest/accreditation-api/internal/config"
)

type fakeSender struct {
	name  string
	err   error
	calls int
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(ctx context.Context, msg *Message) error {
	f.calls++
	return f.err
}

func testMessage() *Message {
	return &Message{
		To:      "awa@example.com",
		Subject: "Your accreditation",
		Text:    "hello",
	}
}

func TestDispatchPrimarySucceeds(t *testing.T) {
	primary := &fakeSender{name: "sendgrid"}
	fallback := &fakeSender{name: "smtp"}
	d := NewDispatcher(primary, fallback)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.OK)
	assert.Equal(t, "sendgrid", result.Channel)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestDispatchFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeSender{name: "sendgrid", err: errors.New("api down")}
	fallback := &fakeSender{name: "smtp"}
	d := NewDispatcher(primary, fallback)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.OK)
	assert.Equal(t, "smtp", result.Channel)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestDispatchBothChannelsFail(t *testing.T) {
	primary := &fakeSender{name: "sendgrid", err: errors.New("api down")}
	fallback := &fakeSender{name: "smtp", err: errors.New("relay refused")}
	d := NewDispatcher(primary, fallback)

	result := d.Dispatch(context.Background(), testMessage())

	assert.False(t, result.OK)
	assert.Empty(t, result.Channel)
	assert.Contains(t, result.Reason, "api down")
	assert.Contains(t, result.Reason, "relay refused")
}

func TestDispatchSkipsNilPrimary(t *testing.T) {
	fallback := &fakeSender{name: "smtp"}
	d := NewDispatcher(nil, fallback)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.OK)
	assert.Equal(t, "smtp", result.Channel)
}

func TestDispatchNoChannelsConfigured(t *testing.T) {
	d := NewDispatcher(nil, nil)

	result := d.Dispatch(context.Background(), testMessage())

	assert.False(t, result.OK)
	assert.Equal(t, "no mail channel configured", result.Reason)
}

func TestSendersNilWhenUnconfigured(t *testing.T) {
	cfg := &config.Config{}

	assert.Nil(t, NewSendGridSender(cfg))
	assert.Nil(t, NewSMTPSender(cfg))
}

func TestDispatcherFromEmptyConfigHasNoChannels(t *testing.T) {
	d := NewDispatcherFromConfig(&config.Config{})

	result := d.Dispatch(context.Background(), testMessage())

	assert.False(t, result.OK)
	assert.Equal(t, "no mail channel configured", result.Reason)
}
