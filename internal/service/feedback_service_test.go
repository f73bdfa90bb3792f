package service

import (
	"context"
	"site-assistant-go/internal/model"
	"site-assistant-go/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Record(t *testing.T) {
	db := openTestDB(t)
	svc := NewFeedbackService(repository.NewFeedbackRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, FeedbackInput{SessionIDHash: "h1", MessageID: "m1", Vote: "up"}))
	// 重复投票允许
	require.NoError(t, svc.Record(ctx, FeedbackInput{SessionIDHash: "h1", MessageID: "m1", Vote: "down", Comment: strPtr("zu lang")}))

	var rows []model.Feedback
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Comment)
	assert.Equal(t, model.VoteDown, rows[1].Vote)
	assert.Equal(t, "zu lang", *rows[1].Comment)
}

func TestFeedbackService_RejectsInvalidVote(t *testing.T) {
	db := openTestDB(t)
	svc := NewFeedbackService(repository.NewFeedbackRepository(db))

	for _, vote := range []string{"", "UP", "maybe", "down "} {
		err := svc.Record(context.Background(), FeedbackInput{SessionIDHash: "h1", MessageID: "m1", Vote: vote})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, vote)
		assert.Equal(t, "vote", ve.Field)
	}

	var count int64
	require.NoError(t, db.Model(&model.Feedback{}).Count(&count).Error)
	assert.Zero(t, count)
}
