package service

import (
	"context"
	"encoding/json"
	"errors"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"site-assistant-go/pkg/tasks"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const supportURL = "https://n8n.example/support"

func validSupportInput() SupportInput {
	return SupportInput{
		SessionID: "s1",
		Name:      strPtr("Dora"),
		Email:     strPtr("dora@example.com"),
		Message:   "Login geht nicht",
		Summary:   strPtr("Login-Problem"),
	}
}

func TestSupportService_CreateForwardsAndMarks(t *testing.T) {
	db := openTestDB(t)
	poster := &mockPoster{}
	var sent tasks.SupportPayload
	poster.On("Post", mock.Anything, supportURL, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).(tasks.SupportPayload) }).
		Return(json.RawMessage(`{"ticket":"T-1"}`), nil).Once()
	svc := NewSupportService(repository.NewSupportTicketRepository(db), poster, supportURL)

	res, err := svc.Create(context.Background(), validSupportInput())
	require.NoError(t, err)
	assert.True(t, res.Forwarded)
	assert.JSONEq(t, `{"ticket":"T-1"}`, string(res.Webhook))

	assert.Equal(t, "s1", *sent.SessionID)
	assert.Equal(t, "Dora", *sent.ContactName)
	assert.Equal(t, "Login-Problem", *sent.Summary)
	assert.Nil(t, sent.ContactPhone)
	assert.JSONEq(t, `[]`, string(sent.LastMessages))

	var stored model.SupportTicket
	require.NoError(t, db.First(&stored, res.Ticket.ID).Error)
	assert.True(t, stored.Forwarded)
	assert.Nil(t, stored.Phone)
}

func TestSupportService_CreateKeepsTicketWhenWebhookFails(t *testing.T) {
	db := openTestDB(t)
	poster := &mockPoster{}
	poster.On("Post", mock.Anything, supportURL, mock.Anything).Return(nil, errors.New("503")).Once()
	svc := NewSupportService(repository.NewSupportTicketRepository(db), poster, supportURL)

	res, err := svc.Create(context.Background(), validSupportInput())
	require.NoError(t, err)
	assert.False(t, res.Forwarded)
	assert.JSONEq(t, `{}`, string(res.Webhook))

	var stored model.SupportTicket
	require.NoError(t, db.First(&stored, res.Ticket.ID).Error)
	assert.False(t, stored.Forwarded)
}

func TestSupportService_CreateWithoutWebhookHasNoSideEffect(t *testing.T) {
	db := openTestDB(t)
	poster := &mockPoster{}
	svc := NewSupportService(repository.NewSupportTicketRepository(db), poster, "  ")

	_, err := svc.Create(context.Background(), validSupportInput())
	assert.ErrorIs(t, err, ErrWebhookNotConfigured)

	var count int64
	require.NoError(t, db.Model(&model.SupportTicket{}).Count(&count).Error)
	assert.Zero(t, count)
	poster.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestSupportService_CreateValidation(t *testing.T) {
	svc := NewSupportService(repository.NewSupportTicketRepository(openTestDB(t)), &mockPoster{}, supportURL)

	noContact := validSupportInput()
	noContact.Email = nil
	noName := validSupportInput()
	noName.Name = nil
	noMessage := validSupportInput()
	noMessage.Message = ""
	noSession := validSupportInput()
	noSession.SessionID = ""

	for field, in := range map[string]SupportInput{
		"email":     noContact,
		"name":      noName,
		"message":   noMessage,
		"sessionId": noSession,
	} {
		_, err := svc.Create(context.Background(), in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestSupportService_Forward(t *testing.T) {
	poster := &mockPoster{}
	poster.On("Post", mock.Anything, supportURL, mock.Anything).Return(json.RawMessage(`{}`), nil).Once()
	svc := NewSupportService(repository.NewSupportTicketRepository(openTestDB(t)), poster, supportURL)

	require.NoError(t, svc.Forward(context.Background(), tasks.SupportPayload{Message: "Fehler 500"}))
	poster.AssertExpectations(t)

	unconfigured := NewSupportService(repository.NewSupportTicketRepository(openTestDB(t)), poster, "")
	assert.ErrorIs(t, unconfigured.Forward(context.Background(), tasks.SupportPayload{Message: "x"}), ErrWebhookNotConfigured)
}
