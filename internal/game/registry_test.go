package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateFindDestroy(t *testing.T) {
	r := NewRegistry(testDeck())

	_, ok := r.Find("#cards")
	assert.False(t, ok)

	s, err := r.Create("#Cards", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "#Cards", s.Channel)
	assert.NotEmpty(t, s.ID)

	got, ok := r.Find("#cards")
	require.True(t, ok, "channel names are case-insensitive")
	assert.Same(t, s, got)

	_, err = r.Create("#cards", DefaultConfig())
	assert.ErrorIs(t, err, ErrSessionAlreadyExists)

	r.Destroy("#CARDS")
	r.Destroy("#cards")
	assert.Equal(t, 0, r.Len())

	_, err = r.Get("#cards")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestRegistry_StartJoinStopLeavesNothing(t *testing.T) {
	r := NewRegistry(testDeck())
	s, err := r.Create("#cards", DefaultConfig())
	require.NoError(t, err)
	s.Hooks.OnEnd = func(EndReason) { r.Destroy(s.Channel) }

	seat(t, s, "alice", "bob")
	require.Len(t, r.Seated(ident("bob")), 1)

	s.Stop()

	_, ok := r.Find("#cards")
	assert.False(t, ok)
	assert.Empty(t, r.Seated(ident("alice")))
	assert.Empty(t, r.Seated(ident("bob")))
}

func TestRegistry_SeatedAcrossChannels(t *testing.T) {
	r := NewRegistry(testDeck())
	for _, ch := range []string{"#b", "#a", "#c"} {
		s, err := r.Create(ch, DefaultConfig())
		require.NoError(t, err)
		if ch != "#c" {
			seat(t, s, "alice")
		}
	}

	seated := r.Seated(ident("alice"))
	require.Len(t, seated, 2)
	assert.Equal(t, "#a", seated[0].Channel)
	assert.Equal(t, "#b", seated[1].Channel)
}

func TestRegistry_ConcurrentCreateDestroy(t *testing.T) {
	r := NewRegistry(testDeck())
	channels := []string{"#one", "#two", "#three"}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created = map[string]int{}
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch := channels[i%len(channels)]
			for j := 0; j < 50; j++ {
				if _, err := r.Create(ch, DefaultConfig()); err == nil {
					mu.Lock()
					created[ch]++
					mu.Unlock()
				} else if !assert.ErrorIs(t, err, ErrSessionAlreadyExists) {
					return
				}
				if j%3 == 0 {
					r.Destroy(ch)
				}
				assert.LessOrEqual(t, r.Len(), len(channels))
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), len(channels))
	for _, ch := range channels {
		assert.Positive(t, created[ch], fmt.Sprintf("%s was never created", ch))
	}
}
