package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usaidgithub/QuickShare/internal/domain"
)

func names(members []domain.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name
	}
	return out
}

func TestJoinPreservesOrder(t *testing.T) {
	r := New()

	members, displaced := r.Join("abc123", "c1", "Alice")
	require.Nil(t, displaced)
	assert.Equal(t, []string{"Alice"}, names(members))

	members, displaced = r.Join("abc123", "c2", "Bob")
	require.Nil(t, displaced)
	assert.Equal(t, []string{"Alice", "Bob"}, names(members))

	members, displaced = r.Join("abc123", "c3", "Carol")
	require.Nil(t, displaced)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(members))

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(r.Members("abc123")))
}

func TestDuplicateNamesAllowed(t *testing.T) {
	r := New()

	r.Join("abc123", "c1", "Alice")
	members, _ := r.Join("abc123", "c2", "Alice")

	assert.Equal(t, []string{"Alice", "Alice"}, names(members))
}

func TestMembersOfUnknownRoomIsEmpty(t *testing.T) {
	r := New()

	assert.Empty(t, r.Members("nope"))
}

func TestLeaveRemovesAndReports(t *testing.T) {
	r := New()
	r.Join("abc123", "c1", "Alice")
	r.Join("abc123", "c2", "Bob")

	dep := r.Leave("c1")
	require.NotNil(t, dep)
	assert.Equal(t, "abc123", dep.RoomID)
	assert.Equal(t, "Alice", dep.Member.Name)
	assert.Equal(t, []string{"Bob"}, names(dep.Remaining))

	assert.Equal(t, []string{"Bob"}, names(r.Members("abc123")))
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := New()
	r.Join("abc123", "c1", "Alice")

	require.NotNil(t, r.Leave("c1"))
	assert.Nil(t, r.Leave("c1"))
}

func TestLeaveOfUnknownConnectionIsNoop(t *testing.T) {
	r := New()
	r.Join("abc123", "c1", "Alice")

	assert.Nil(t, r.Leave("ghost"))
	assert.Equal(t, []string{"Alice"}, names(r.Members("abc123")))
}

func TestLastLeavePrunesRoom(t *testing.T) {
	r := New()
	r.Join("abc123", "c1", "Alice")

	dep := r.Leave("c1")
	require.NotNil(t, dep)
	assert.Empty(t, dep.Remaining)
	assert.Empty(t, r.Members("abc123"))

	// The pruned room behaves like one that never existed
	members, _ := r.Join("abc123", "c2", "Bob")
	assert.Equal(t, []string{"Bob"}, names(members))
}

func TestJoinDisplacesPriorRoom(t *testing.T) {
	r := New()
	r.Join("roomA", "c1", "Alice")
	r.Join("roomA", "c2", "Bob")

	members, displaced := r.Join("roomB", "c1", "Alice")

	require.NotNil(t, displaced)
	assert.Equal(t, "roomA", displaced.RoomID)
	assert.Equal(t, "Alice", displaced.Member.Name)
	assert.Equal(t, []string{"Bob"}, names(displaced.Remaining))

	assert.Equal(t, []string{"Alice"}, names(members))
	assert.Equal(t, []string{"Bob"}, names(r.Members("roomA")))
}

func TestRejoinSameRoomDoesNotDuplicate(t *testing.T) {
	r := New()
	r.Join("abc123", "c1", "Alice")
	r.Join("abc123", "c2", "Bob")

	members, displaced := r.Join("abc123", "c1", "Alice")

	assert.Nil(t, displaced)
	assert.Equal(t, []string{"Bob", "Alice"}, names(members))
}

func TestSnapshotsAreCopies(t *testing.T) {
	r := New()
	members, _ := r.Join("abc123", "c1", "Alice")

	members[0].Name = "Mallory"

	assert.Equal(t, "Alice", r.Members("abc123")[0].Name)
}

func TestConcurrentJoinsAndLeaves(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomID := fmt.Sprintf("room-%d", i%5)
			connID := fmt.Sprintf("conn-%d", i)
			r.Join(roomID, connID, fmt.Sprintf("user-%d", i))
			if i%2 == 0 {
				r.Leave(connID)
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 5; i++ {
		total += len(r.Members(fmt.Sprintf("room-%d", i)))
	}
	assert.Equal(t, 25, total)
}
