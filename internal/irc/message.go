package irc

import (
	"errors"
	"fmt"
	"strings"

	ircv4 "gopkg.in/irc.v4"
)

var ErrMalformed = errors.New("irc: malformed line")

// Message — одна строка протокола IRC (RFC 1459/2812) без IRCv3-тегов.
// Разбор и сборка строки — gopkg.in/irc.v4; здесь только удобные поля.
type Message struct {
	Prefix  string
	Nick    string
	User    string
	Host    string
	Command string
	Params  []string
}

// ParseMessage разбирает строку без завершающего \r\n. IRCv3-теги отбрасываются.
func ParseMessage(line string) (*Message, error) {
	raw, err := ircv4.ParseMessage(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	m := &Message{
		Command: strings.ToUpper(raw.Command),
		Params:  raw.Params,
	}
	if raw.Prefix != nil {
		m.Prefix = raw.Prefix.String()
		m.Nick, m.User, m.Host = raw.Prefix.Name, raw.Prefix.User, raw.Prefix.Host
	}
	return m, nil
}

// Param возвращает i-й параметр или "".
func (m *Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Trailing — последний параметр.
func (m *Message) Trailing() string {
	return m.Param(len(m.Params) - 1)
}

// String собирает строку обратно; последний параметр уходит trailing-ом,
// если в нём есть пробел, ':' в начале или он пустой.
func (m *Message) String() string {
	raw := &ircv4.Message{Command: m.Command, Params: m.Params}
	if m.Prefix != "" {
		raw.Prefix = ircv4.ParsePrefix(m.Prefix)
	}
	return raw.String()
}

// sanitize вырезает переводы строк, чтобы параметр не стал второй командой.
func sanitize(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ", "\x00", "").Replace(s)
}

const ctcpDelim = "\x01"

// ctcp распознаёт \x01CMD args\x01.
func ctcp(text string) (cmd, args string, ok bool) {
	if len(text) < 2 || !strings.HasPrefix(text, ctcpDelim) {
		return "", "", false
	}
	body := strings.TrimSuffix(text[1:], ctcpDelim)
	cmd, args, _ = strings.Cut(body, " ")
	return strings.ToUpper(cmd), args, true
}
