package room_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"checkers-server/internal/room"
	"checkers-server/internal/store"
)

func TestCleanup_EvictsIdleRooms(t *testing.T) {
	req := require.New(t)
	mgr, mem := newManager(t)

	idle, err := mgr.CreateRoom("p1", "a", room.VariantAmerican)
	req.NoError(err)
	_, _, err = mgr.JoinRoom(idle.Code, "p2", "b")
	req.NoError(err)
	fresh, err := mgr.CreateRoom("p3", "c", room.VariantAmerican)
	req.NoError(err)

	idle.LastActivityAt = time.Now().Add(-3 * time.Hour)

	req.Equal(1, mgr.Cleanup())

	_, ok := mem.Get(idle.Code)
	req.False(ok)
	_, ok = mem.Get(fresh.Code)
	req.True(ok)

	// Every seat of the evicted room is gone from the reverse index too.
	_, ok = mem.RoomFor("p1")
	req.False(ok)
	_, ok = mem.RoomFor("p2")
	req.False(ok)
	_, ok = mem.RoomFor("p3")
	req.True(ok)
}

func TestCleanup_RemovesSeatsPastGrace(t *testing.T) {
	req := require.New(t)
	mgr, mem := newManager(t)

	r, err := mgr.CreateRoom("p1", "a", room.VariantAmerican)
	req.NoError(err)
	_, _, err = mgr.JoinRoom(r.Code, "p2", "b")
	req.NoError(err)

	_, ok := mgr.HandleDisconnect("p2")
	req.True(ok)
	past := time.Now().Add(-2 * time.Minute)
	r.Players[1].DisconnectedAt = &past

	req.Zero(mgr.Cleanup())

	// The stale seat is gone, the room survives with the other player.
	snap := r.Snapshot()
	req.Len(snap.Players, 1)
	req.Equal("p1", snap.Players[0].ID)
	_, ok = mem.RoomFor("p2")
	req.False(ok)
	_, ok = mem.Get(r.Code)
	req.True(ok)
}

func TestCleanup_KeepsSeatsWithinGrace(t *testing.T) {
	req := require.New(t)
	mgr, _ := newManager(t)

	r, err := mgr.CreateRoom("p1", "a", room.VariantAmerican)
	req.NoError(err)
	_, _, err = mgr.JoinRoom(r.Code, "p2", "b")
	req.NoError(err)

	_, ok := mgr.HandleDisconnect("p2")
	req.True(ok)

	req.Zero(mgr.Cleanup())
	req.Len(r.Snapshot().Players, 2)
}

func TestCleanup_StaleSeatCascadesToRoomDeletion(t *testing.T) {
	req := require.New(t)
	mgr, mem := newManager(t)

	r, err := mgr.CreateRoom("p1", "a", room.VariantAmerican)
	req.NoError(err)
	_, ok := mgr.HandleDisconnect("p1")
	req.True(ok)
	past := time.Now().Add(-2 * time.Minute)
	r.Players[0].DisconnectedAt = &past

	req.Equal(1, mgr.Cleanup())

	_, ok = mem.Get(r.Code)
	req.False(ok)
	_, ok = mem.RoomFor("p1")
	req.False(ok)
}

func TestJanitor_SweepsOnInterval(t *testing.T) {
	req := require.New(t)
	mgr, mem := newManager(t)

	r, err := mgr.CreateRoom("p1", "a", room.VariantAmerican)
	req.NoError(err)
	r.LastActivityAt = time.Now().Add(-3 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	j := room.NewJanitor(mgr, 10*time.Millisecond)
	go j.Run(ctx)

	req.Eventually(func() bool {
		_, ok := mem.Get(r.Code)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestJanitor_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	mgr := room.NewManager(store.NewMemoryStore(), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		room.NewJanitor(mgr, time.Millisecond).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("janitor did not stop after cancellation")
	}
}
