package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendRequestGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	_, err := h.connections.SendRequest(ctx, ana, ana.Id)
	assertKind(t, err, KindValidation)

	_, err = h.connections.SendRequest(ctx, ana, primitive.NewObjectID())
	assertKind(t, err, KindNotFound)

	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, req.Status)
	assert.Equal(t, ana.Id, req.Sender)

	_, err = h.connections.SendRequest(ctx, ana, bob.Id)
	assertKind(t, err, KindValidation)
	_, err = h.connections.SendRequest(ctx, bob, ana.Id)
	assertKind(t, err, KindValidation)

	require.NoError(t, h.connections.Accept(ctx, req.Id, bob))
	_, err = h.connections.SendRequest(ctx, h.reload(t, ana), bob.Id)
	assertKind(t, err, KindValidation)
}

func TestConcurrentSendRequestsLeaveOnePending(t *testing.T) {
	h := newHarness(t)
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := ana, bob
			if i%2 == 1 {
				from, to = bob, ana
			}
			if _, err := h.connections.SendRequest(context.Background(), from, to.Id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, h.requests.Count(models.ConnectionStatusPending))
}

func TestAcceptConnectsBothUsersOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)

	assertKind(t, h.connections.Accept(ctx, req.Id, ana), KindForbidden)
	assertKind(t, h.connections.Accept(ctx, primitive.NewObjectID(), bob), KindNotFound)

	require.NoError(t, h.connections.Accept(ctx, req.Id, bob))
	assertKind(t, h.connections.Accept(ctx, req.Id, bob), KindValidation)
	assertKind(t, h.connections.Reject(ctx, req.Id, bob), KindValidation)

	assert.Equal(t, []primitive.ObjectID{bob.Id}, h.reload(t, ana).Connections)
	assert.Equal(t, []primitive.ObjectID{ana.Id}, h.reload(t, bob).Connections)

	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeConnectionAccepted, notes[0].Type)
	assert.Equal(t, bob.Id, notes[0].RelatedUser)

	require.Len(t, h.queue.jobs, 1)
	job := h.queue.jobs[0]
	assert.Equal(t, mail.KindConnectionAccepted, job.Kind)
	assert.Equal(t, ana.Email, job.To)
	assert.Equal(t, clientURL+"/profile/bob", job.Data["profileUrl"])
}

func TestConcurrentAcceptsHaveOneWinner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")
	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.connections.Accept(ctx, req.Id, bob)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, KindValidation, KindOf(err))
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, h.reload(t, ana).Connections, 1)

	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestAcceptSurvivesMailFailure(t *testing.T) {
	h := newHarness(t)
	h.queue.err = mail.ErrQueueFull
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)
	require.NoError(t, h.connections.Accept(ctx, req.Id, bob))
	assert.Len(t, h.reload(t, bob).Connections, 1)
}

func TestReject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)

	assertKind(t, h.connections.Reject(ctx, req.Id, ana), KindForbidden)
	require.NoError(t, h.connections.Reject(ctx, req.Id, bob))
	assertKind(t, h.connections.Accept(ctx, req.Id, bob), KindValidation)

	assert.Empty(t, h.reload(t, ana).Connections)
	notes, err := h.notifications.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Empty(t, h.queue.jobs)

	// a rejected request does not block a new one
	_, err = h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)
}

func TestStatusLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob := h.user(t, "ana"), h.user(t, "bob")

	_, err := h.connections.Status(ctx, ana, ana.Id)
	assertKind(t, err, KindValidation)

	st, err := h.connections.Status(ctx, ana, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipNotConnected, st.Status)

	req, err := h.connections.SendRequest(ctx, ana, bob.Id)
	require.NoError(t, err)

	st, err = h.connections.Status(ctx, ana, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipPending, st.Status)
	assert.Nil(t, st.RequestID)

	st, err = h.connections.Status(ctx, bob, ana.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipReceived, st.Status)
	require.NotNil(t, st.RequestID)
	assert.Equal(t, req.Id, *st.RequestID)

	require.NoError(t, h.connections.Accept(ctx, req.Id, bob))
	st, err = h.connections.Status(ctx, h.reload(t, ana), bob.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipConnected, st.Status)

	require.NoError(t, h.connections.Remove(ctx, h.reload(t, ana), bob.Id))
	for _, pair := range [][2]models.User{{ana, bob}, {bob, ana}} {
		st, err = h.connections.Status(ctx, h.reload(t, pair[0]), pair[1].Id)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipNotConnected, st.Status)
	}
	assert.Equal(t, 0, h.requests.Count(models.ConnectionStatusPending))
}

func TestRemoveSelf(t *testing.T) {
	h := newHarness(t)
	ana := h.user(t, "ana")
	assertKind(t, h.connections.Remove(context.Background(), ana, ana.Id), KindValidation)
}

func TestListRequestsAndConnections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana, bob, cat := h.user(t, "ana"), h.user(t, "bob"), h.user(t, "cat")

	_, err := h.connections.SendRequest(ctx, bob, ana.Id)
	require.NoError(t, err)
	_, err = h.connections.SendRequest(ctx, cat, ana.Id)
	require.NoError(t, err)

	reqs, err := h.connections.ListRequests(ctx, ana)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "cat", reqs[0].Sender.Username, "newest first")
	assert.Equal(t, "bob", reqs[1].Sender.Username)

	require.NoError(t, h.connections.Accept(ctx, reqs[1].ID, ana))
	conns, err := h.connections.ListConnections(ctx, h.reload(t, ana))
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "bob", conns[0].Username)

	reqs, err = h.connections.ListRequests(ctx, ana)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}
