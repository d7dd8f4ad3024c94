package roster

import (
	"sort"
	"strings"
)

// Snapshot — ответ на один запрос NAMES: кто сидит в канале и с какой ролью.
// Действителен только на момент получения, не кешируется.
type Snapshot struct {
	Channel string
	roles   map[string]Role // ключ — ник в нижнем регистре
	nicks   map[string]string
}

// NewSnapshot собирает снапшот из сырого ответа NAMES: ник -> строка префиксов.
func NewSnapshot(channel string, members map[string]string) Snapshot {
	s := Snapshot{
		Channel: channel,
		roles:   make(map[string]Role, len(members)),
		nicks:   make(map[string]string, len(members)),
	}
	for nick, prefix := range members {
		k := FoldNick(nick)
		s.roles[k] = RoleFromPrefix(prefix)
		s.nicks[k] = nick
	}
	return s
}

// Role возвращает роль ника; отсутствующий ник — RoleNone.
func (s Snapshot) Role(nick string) Role {
	return s.roles[FoldNick(nick)]
}

// Has сообщает, присутствует ли ник в канале.
func (s Snapshot) Has(nick string) bool {
	_, ok := s.roles[FoldNick(nick)]
	return ok
}

// Len — число ников в снапшоте.
func (s Snapshot) Len() int { return len(s.roles) }

// WithRole возвращает ники (в исходном написании) с указанной ролью, по алфавиту.
func (s Snapshot) WithRole(role Role) []string {
	var out []string
	for k, r := range s.roles {
		if r == role {
			out = append(out, s.nicks[k])
		}
	}
	sort.Strings(out)
	return out
}

// Present фильтрует список ожидающих ников: остаются только те, кто есть в канале.
func (s Snapshot) Present(nicks []string) []string {
	out := make([]string, 0, len(nicks))
	for _, n := range nicks {
		if s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// FoldNick приводит ник или канал к ключу сравнения (IRC регистронезависим).
func FoldNick(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
