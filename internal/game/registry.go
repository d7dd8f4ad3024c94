package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/EgorLis/cardsbot/internal/deck"
)

// Registry — единственный владелец набора сессий: не больше одной на канал.
// Create/Destroy атомарны относительно друг друга.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deck     *deck.Deck
	newRand  func() *rand.Rand
}

func NewRegistry(d *deck.Deck) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		deck:     d,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

func channelKey(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}

// Find возвращает активную сессию канала.
func (r *Registry) Find(channel string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channelKey(channel)]
	return s, ok
}

// Get — как Find, но отсутствие сессии возвращается ошибкой ErrNoActiveSession.
func (r *Registry) Get(channel string) (*Session, error) {
	if s, ok := r.Find(channel); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w in %s", ErrNoActiveSession, channel)
}

// Create заводит сессию; если в канале уже идёт игра — ErrSessionAlreadyExists.
func (r *Registry) Create(channel string, cfg Config) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := channelKey(channel)
	if _, ok := r.sessions[key]; ok {
		return nil, ErrSessionAlreadyExists
	}
	s := NewSession(channel, cfg, r.deck, r.newRand())
	r.sessions[key] = s
	return s, nil
}

// Destroy удаляет сессию канала; если её нет — ничего не делает.
func (r *Registry) Destroy(channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelKey(channel))
}

// Channels — каналы с активными сессиями, по алфавиту.
func (r *Registry) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Channel)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Seated — сессии, где сидит игрок, в порядке каналов.
func (r *Registry) Seated(id Identity) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Session
	for _, s := range r.sessions {
		if s.Player(id) != nil {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out
}
