package game

import "strings"

// Identity — кто прислал команду. Один и тот же игрок определяется парой
// user+host; ник может меняться и нужен для отображения и поиска по имени.
type Identity struct {
	Nick string
	User string
	Host string
}

// Same сравнивает личности по user+host.
func (id Identity) Same(other Identity) bool {
	return strings.EqualFold(id.User, other.User) && strings.EqualFold(id.Host, other.Host)
}

func (id Identity) String() string {
	return id.Nick + "!" + id.User + "@" + id.Host
}

// Player принадлежит ровно одной сессии.
type Player struct {
	Identity
	Hand  []string
	Score int
}

// takeCards вынимает карты по номерам (с 1) в порядке номеров из picks.
func (p *Player) takeCards(picks []int) ([]string, bool) {
	seen := make(map[int]bool, len(picks))
	for _, n := range picks {
		if n < 1 || n > len(p.Hand) || seen[n] {
			return nil, false
		}
		seen[n] = true
	}
	cards := make([]string, 0, len(picks))
	for _, n := range picks {
		cards = append(cards, p.Hand[n-1])
	}
	hand := p.Hand[:0:0]
	for i, c := range p.Hand {
		if !seen[i+1] {
			hand = append(hand, c)
		}
	}
	p.Hand = hand
	return cards, true
}
