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

func TestLeadService_CreateDefaultsAndNulls(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeadService(repository.NewLeadRepository(db), &mockPoster{}, "")

	lead, err := svc.Create(context.Background(), LeadInput{SessionIDHash: "s1", Name: strPtr("Anna"), Email: strPtr("a@x.com")})
	require.NoError(t, err)

	var stored model.Lead
	require.NoError(t, db.First(&stored, lead.ID).Error)
	assert.Equal(t, "Anna", stored.Name)
	assert.Equal(t, "a@x.com", *stored.Email)
	assert.Nil(t, stored.Phone)
	assert.Nil(t, stored.Message)
	assert.Equal(t, "website-chat", stored.Source)
}

func TestLeadService_CreateValidation(t *testing.T) {
	svc := NewLeadService(repository.NewLeadRepository(openTestDB(t)), &mockPoster{}, "")
	ctx := context.Background()

	cases := []struct {
		name  string
		in    LeadInput
		field string
	}{
		{"missing name", LeadInput{SessionIDHash: "s1", Email: strPtr("a@x.com")}, "name"},
		{"blank name", LeadInput{SessionIDHash: "s1", Name: strPtr("  "), Phone: strPtr("1")}, "name"},
		{"no contact", LeadInput{SessionIDHash: "s1", Name: strPtr("Anna")}, "email"},
		{"blank contact", LeadInput{SessionIDHash: "s1", Name: strPtr("Anna"), Email: strPtr(""), Phone: strPtr(" ")}, "email"},
		{"missing session", LeadInput{Name: strPtr("Anna"), Phone: strPtr("1")}, "sessionIdHash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestLeadService_CreateWithPhoneOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeadService(repository.NewLeadRepository(db), &mockPoster{}, "")

	lead, err := svc.Create(context.Background(), LeadInput{SessionIDHash: "s1", Name: strPtr(" Ben "), Phone: strPtr(" +49 30 123 ")})
	require.NoError(t, err)
	assert.Equal(t, "Ben", lead.Name)
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "+49 30 123", *lead.Phone)
	assert.Nil(t, lead.Email)
}

func TestLeadService_ForwardUsesWebhookWhenConfigured(t *testing.T) {
	db := openTestDB(t)
	poster := &mockPoster{}
	poster.On("Post", mock.Anything, "https://n8n.example/lead", mock.AnythingOfType("tasks.LeadPayload")).
		Return(json.RawMessage(`{}`), nil).Once()
	svc := NewLeadService(repository.NewLeadRepository(db), poster, "https://n8n.example/lead")

	err := svc.Forward(context.Background(), tasks.LeadPayload{Message: "Angebot bitte", Source: model.DefaultLeadSource})
	require.NoError(t, err)
	poster.AssertExpectations(t)

	var count int64
	require.NoError(t, db.Model(&model.Lead{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLeadService_ForwardWebhookError(t *testing.T) {
	poster := &mockPoster{}
	poster.On("Post", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	svc := NewLeadService(repository.NewLeadRepository(openTestDB(t)), poster, "https://n8n.example/lead")

	err := svc.Forward(context.Background(), tasks.LeadPayload{Message: "x"})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestLeadService_ForwardInsertsDirectly(t *testing.T) {
	db := openTestDB(t)
	svc := NewLeadService(repository.NewLeadRepository(db), &mockPoster{}, "")

	err := svc.Forward(context.Background(), tasks.LeadPayload{
		SessionIDHash: strPtr("s9"),
		Name:          strPtr("Clara"),
		Phone:         strPtr("0301234"),
		Message:       "Was kostet eine Website?",
		Source:        model.DefaultLeadSource,
	})
	require.NoError(t, err)

	var stored model.Lead
	require.NoError(t, db.Where("session_id_hash = ?", "s9").First(&stored).Error)
	assert.Equal(t, "0301234", *stored.Phone)
	assert.Nil(t, stored.Email)
	assert.Equal(t, "Was kostet eine Website?", *stored.Message)
}

func TestLeadService_ForwardWithoutContactIsValidationError(t *testing.T) {
	svc := NewLeadService(repository.NewLeadRepository(openTestDB(t)), &mockPoster{}, "")
	err := svc.Forward(context.Background(), tasks.LeadPayload{SessionIDHash: strPtr("s1"), Message: "Preise?"})
	assert.True(t, IsValidationError(err))
}
