package game

import "github.com/EgorLis/cardsbot/internal/deck"

// Play — карты, сданные игроком в раунде.
type Play struct {
	Player    *Player
	Cards     []string
	Withdrawn bool // игрок ушёл после сдачи
}

type Round struct {
	Number   int
	Judge    *Player
	Question deck.Question

	plays []*Play // порядок сдачи
	order []*Play // перемешанный порядок для судьи, заполняется в PLAYED
}

// HasPlayed сообщает, сдал ли игрок карты в этом раунде.
func (r *Round) HasPlayed(p *Player) bool {
	return r.playOf(p) != nil
}

func (r *Round) playOf(p *Player) *Play {
	for _, pl := range r.plays {
		if pl.Player == p {
			return pl
		}
	}
	return nil
}

// Plays — сданные карты: в PLAYED в порядке номеров для судьи, иначе в порядке сдачи.
func (r *Round) Plays() []*Play {
	src := r.order
	if src == nil {
		src = r.plays
	}
	return append([]*Play(nil), src...)
}

func (r *Round) active() []*Play {
	var out []*Play
	for _, pl := range r.plays {
		if !pl.Withdrawn {
			out = append(out, pl)
		}
	}
	return out
}

func (r *Round) withdraw(p *Player) {
	for i, pl := range r.plays {
		if pl.Player != p {
			continue
		}
		if r.order == nil {
			r.plays = append(r.plays[:i:i], r.plays[i+1:]...)
		} else {
			// номера уже показаны судье — только помечаем
			pl.Withdrawn = true
		}
		return
	}
}
