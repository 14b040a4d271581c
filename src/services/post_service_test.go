package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/media"
	"github.com/theleywin/Backend-Linkup/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG"))

func TestCreatePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")

	_, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "   "})
	assertKind(t, err, KindValidation)

	_, err = h.postSvc.Create(ctx, ana, models.CreatePostDto{Image: "data:text/plain;base64,aGk="})
	assertKind(t, err, KindValidation)

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello", Image: pngDataURI})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, h.images.uploaded[0], post.Image)
	assert.Equal(t, "ana", post.Author.Username)
	assert.NotNil(t, post.Likes)
	assert.NotNil(t, post.Comments)
}

func TestCreatePostWithUploadsDisabled(t *testing.T) {
	h := newHarness(t)
	h.postSvc.images = media.Disabled{}
	_, err := h.postSvc.Create(context.Background(), h.user(t, "ana"), models.CreatePostDto{Image: pngDataURI})
	assertKind(t, err, KindValidation)
}

func TestFeedShowsOwnAndConnectionsPostsNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob, cat := h.user(t, "ana"), h.user(t, "bob"), h.user(t, "cat")
	h.connect(t, ana, bob)

	for _, p := range []struct {
		who     models.User
		content string
	}{{ana, "ana 1"}, {bob, "bob 1"}, {cat, "cat 1"}, {ana, "ana 2"}} {
		_, err := h.postSvc.Create(ctx, p.who, models.CreatePostDto{Content: p.content})
		require.NoError(t, err)
	}

	feed, err := h.postSvc.Feed(ctx, h.reload(t, ana))
	require.NoError(t, err)
	var contents []string
	for _, p := range feed {
		contents = append(contents, p.Content)
	}
	assert.Equal(t, []string{"ana 2", "bob 1", "ana 1"}, contents)
}

func TestToggleLike(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello"})
	require.NoError(t, err)

	liked, err := h.postSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.Id}, liked.Likes)

	unliked, err := h.postSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.NotContains(t, unliked.Likes, bob.Id)

	_, err = h.postSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)

	// like, unlike, like: two notifications, unlike adds none
	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, models.NotificationTypeLike, n.Type)
		require.NotNil(t, n.RelatedPost)
		assert.Equal(t, post.ID, *n.RelatedPost)
	}

	_, err = h.postSvc.ToggleLike(ctx, primitive.NewObjectID(), bob)
	assertKind(t, err, KindNotFound)
}

func TestAuthorActivityDoesNotNotify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello"})
	require.NoError(t, err)

	_, err = h.postSvc.ToggleLike(ctx, post.ID, ana)
	require.NoError(t, err)
	_, err = h.postSvc.AddComment(ctx, post.ID, ana, models.CreateCommentDto{Content: "me again"})
	require.NoError(t, err)

	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotContains(t, h.queue.kinds(), mail.KindComment)
}

func TestAddComment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello"})
	require.NoError(t, err)

	_, err = h.postSvc.AddComment(ctx, post.ID, bob, models.CreateCommentDto{})
	assertKind(t, err, KindValidation)
	_, err = h.postSvc.AddComment(ctx, primitive.NewObjectID(), bob, models.CreateCommentDto{Content: "x"})
	assertKind(t, err, KindNotFound)

	updated, err := h.postSvc.AddComment(ctx, post.ID, bob, models.CreateCommentDto{Content: "nice post"})
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "nice post", updated.Comments[0].Content)
	assert.Equal(t, "bob", updated.Comments[0].User.Username)

	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeComment, notes[0].Type)

	require.Len(t, h.queue.jobs, 1)
	job := h.queue.jobs[0]
	assert.Equal(t, mail.KindComment, job.Kind)
	assert.Equal(t, ana.Email, job.To)
	assert.Equal(t, clientURL+"/post/"+post.ID.Hex(), job.Data["postUrl"])
	assert.Equal(t, "nice post", job.Data["content"])
}

func TestDeletePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	post, err := h.postSvc.Create(ctx, ana, models.CreatePostDto{Content: "hello", Image: pngDataURI})
	require.NoError(t, err)

	assertKind(t, h.postSvc.Delete(ctx, post.ID, bob), KindForbidden)

	h.images.destroyErr = errors.New("bucket unavailable")
	err = h.postSvc.Delete(ctx, post.ID, ana)
	require.Error(t, err)
	assert.Equal(t, Kind(0), KindOf(err))
	_, err = h.postSvc.Get(ctx, post.ID)
	require.NoError(t, err, "post is kept when the image cannot be destroyed")

	h.images.destroyErr = nil
	require.NoError(t, h.postSvc.Delete(ctx, post.ID, ana))
	assert.Equal(t, []string{media.ObjectName(post.Image)}, h.images.destroyed)

	_, err = h.postSvc.Get(ctx, post.ID)
	assertKind(t, err, KindNotFound)
	assertKind(t, h.postSvc.Delete(ctx, post.ID, ana), KindNotFound)
}
