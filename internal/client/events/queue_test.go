package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	var q Queue[int]
	for i := range 5 {
		q.Send(i)
	}
	assert.Equal(t, 5, q.Len())

	for i := range 5 {
		v, ok := q.TryReceive()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_TryReceiveEmpty(t *testing.T) {
	var q Queue[Event]
	v, ok := q.TryReceive()
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 500
	var q Queue[[2]int]
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Send([2]int{p, i})
			}
		}()
	}
	wg.Wait()

	last := make(map[int]int)
	for p := range producers {
		last[p] = -1
	}
	n := 0
	for {
		v, ok := q.TryReceive()
		if !ok {
			break
		}
		n++
		// each producer's items stay in its own send order
		require.Greater(t, v[1], last[v[0]])
		last[v[0]] = v[1]
	}
	assert.Equal(t, producers*perProducer, n)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	d.Emit(ShowLoginImage{Path: "/tmp/qr.png"})
	d.Emit(AddContact{Contact: Contact{UserName: "@a", NickName: "A"}})
	d.Emit(EngineStopped{Err: errors.New("boom")})

	e, ok := d.Events.TryReceive()
	require.True(t, ok)
	assert.Equal(t, ShowLoginImage{Path: "/tmp/qr.png"}, e)

	e, ok = d.Events.TryReceive()
	require.True(t, ok)
	assert.Equal(t, AddContact{Contact: Contact{UserName: "@a", NickName: "A"}}, e)

	e, _ = d.Events.TryReceive()
	assert.IsType(t, EngineStopped{}, e)

	_, ok = d.Commands.TryReceive()
	assert.False(t, ok)
}

func TestNewSendMessage(t *testing.T) {
	a := NewSendMessage("@peer", "hi")
	b := NewSendMessage("@peer", "hi")
	assert.NotEqual(t, a.LocalID, b.LocalID)

	d := NewDispatcher()
	d.Commands.Send(a)
	c, ok := d.Commands.TryReceive()
	require.True(t, ok)
	assert.Equal(t, a, c)
}

func TestEventStrings(t *testing.T) {
	assert.Equal(t, "AddContact(@a, A)", AddContact{Contact: Contact{UserName: "@a", NickName: "A"}}.String())
	assert.Equal(t, "SessionEnded(retcode=1101, selector=0)", SessionEnded{Retcode: 1101}.String())
}
