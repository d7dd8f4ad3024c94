package deck

import (
	"errors"
	"math/rand/v2"
)

var ErrExhausted = errors.New("pile exhausted")

// Pile — стопка добора. Сброшенные карты перемешиваются обратно,
// когда стопка заканчивается.
type Pile[T any] struct {
	draw    []T
	discard []T
	rnd     *rand.Rand
}

// NewPile копирует карты и перемешивает их.
func NewPile[T any](cards []T, rnd *rand.Rand) *Pile[T] {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &Pile[T]{draw: append([]T(nil), cards...), rnd: rnd}
	p.shuffle(p.draw)
	return p
}

// Draw снимает n карт сверху.
func (p *Pile[T]) Draw(n int) ([]T, error) {
	if n > p.Len() {
		return nil, ErrExhausted
	}
	out := make([]T, 0, n)
	for len(out) < n {
		if len(p.draw) == 0 {
			p.draw, p.discard = p.discard, nil
			p.shuffle(p.draw)
		}
		last := len(p.draw) - 1
		out = append(out, p.draw[last])
		p.draw = p.draw[:last]
	}
	return out, nil
}

// Discard кладёт карты в сброс.
func (p *Pile[T]) Discard(cards ...T) {
	p.discard = append(p.discard, cards...)
}

// Len — сколько карт можно добрать с учётом сброса.
func (p *Pile[T]) Len() int {
	return len(p.draw) + len(p.discard)
}

func (p *Pile[T]) shuffle(cards []T) {
	p.rnd.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}
