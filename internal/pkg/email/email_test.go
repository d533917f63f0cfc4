package email

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSkippedWithoutCredentials(t *testing.T) {
	svc := NewEmailService(SMTPConfig{}, zerolog.Nop())
	called := false
	svc.send = func(string, []byte) error {
		called = true
		return nil
	}

	require.NoError(t, svc.SendRegistrationPendingEmail("jane@example.com", "Jane"))
	assert.False(t, called)
	assert.False(t, svc.Configured())
}

func TestSendAccountApprovedEmail(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
		FromName: "Alumni", FromEmail: "no-reply@example.com", BaseURL: "https://alumni.example.com/",
	}, zerolog.Nop())

	var gotTo string
	var gotMsg string
	svc.send = func(to string, msg []byte) error {
		gotTo, gotMsg = to, string(msg)
		return nil
	}

	require.NoError(t, svc.SendAccountApprovedEmail("jane@example.com", "Jane <Doe>"))
	assert.Equal(t, "jane@example.com", gotTo)
	assert.Contains(t, gotMsg, "Subject: Your alumni account is approved\r\n")
	assert.Contains(t, gotMsg, "From: Alumni <no-reply@example.com>\r\n")
	assert.Contains(t, gotMsg, "https://alumni.example.com/login")
	assert.Contains(t, gotMsg, "Jane &lt;Doe&gt;")
}

func TestSendPropagatesTransportError(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "h", Username: "u", Password: "p"}, zerolog.Nop())
	svc.send = func(string, []byte) error { return errors.New("connection refused") }

	assert.Error(t, svc.SendRegistrationPendingEmail("jane@example.com", "Jane"))
}
