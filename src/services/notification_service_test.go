package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theleywin/Backend-Linkup/src/models"
)

func TestNotifySkipsSelf(t *testing.T) {
	h := newHarness(t)
	ana := h.user(t, "ana")

	require.NoError(t, h.notifySvc.Notify(context.Background(), ana.Id, models.NotificationTypeLike, ana.Id, nil))
	notes, err := h.notifications.ListFor(context.Background(), ana.Id)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestListResolvesUsersAndPosts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello"})
	require.NoError(t, err)
	_, err = h.postSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	h.connect(t, bob, ana)

	list, err := h.notifySvc.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 1)
	like := list[0]
	require.NotNil(t, like.RelatedUser)
	assert.Equal(t, "bob", like.RelatedUser.Username)
	assert.Empty(t, like.RelatedUser.Headline)
	require.NotNil(t, like.RelatedPost)
	assert.Equal(t, "hello", like.RelatedPost.Content)

	list, err = h.notifySvc.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeConnectionAccepted, list[0].Type)
	assert.Nil(t, list[0].RelatedPost)
	assert.Equal(t, "ana", list[0].RelatedUser.Username)
}

func TestNotificationsAreScopedToRecipient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	require.NoError(t, h.notifySvc.Notify(ctx, ana.Id, models.NotificationTypeLike, bob.Id, nil))
	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	id := notes[0].Id

	_, err = h.notifySvc.MarkRead(ctx, id, bob)
	assertKind(t, err, KindNotFound)
	assertKind(t, h.notifySvc.Delete(ctx, id, bob), KindNotFound)

	read, err := h.notifySvc.MarkRead(ctx, id, ana)
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, h.notifySvc.Delete(ctx, id, ana))
	assertKind(t, h.notifySvc.Delete(ctx, id, ana), KindNotFound)
}
