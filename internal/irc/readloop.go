package irc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	keepaliveEvery = 60 * time.Second
	staleAfter     = 4 * keepaliveEvery
)

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.closeConn()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	backoff := c.retryMin
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn != nil {
			line, err := conn.ReadLine()
			if err == nil {
				c.touchActivity()
				c.handle(line)
				backoff = c.retryMin
				continue
			}
			if c.closed.Load() || ctx.Err() != nil {
				return
			}
			c.emitError(fmt.Errorf("read: %w", err))
		}

		// соединение потеряно: закрываем и сообщаем, ожидающие NAMES-запросы больше не ответят
		c.closeConn()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}

		// реконнект с backoff
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if c.closed.Load() {
				return
			}
			if err := c.connectOnce(ctx); err != nil {
				c.emitError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, err))
				c.closeConn()
				backoff = min(backoff*2, c.retryMax)
				continue
			}
			break
		}
	}
}

func (c *Client) handle(line string) {
	m, err := ParseMessage(line)
	if err != nil {
		c.log.Debug("skip malformed line", zap.String("line", line))
		return
	}

	switch m.Command {
	case "PING":
		_ = c.Send("PONG", m.Params...)

	case "001":
		c.mu.Lock()
		if n := m.Param(0); n != "" {
			c.nick = n
		}
		c.mu.Unlock()
		c.registered.Store(true)
		for _, ch := range c.cfg.Channels {
			if err := c.Join(ch); err != nil {
				c.emitError(err)
			}
		}
		if c.OnConnected != nil {
			c.OnConnected()
		}

	case "433": // ERR_NICKNAMEINUSE
		if c.registered.Load() {
			return
		}
		c.mu.Lock()
		c.nick += "_"
		nick := c.nick
		c.mu.Unlock()
		_ = c.Send("NICK", nick)

	case "NICK":
		c.mu.Lock()
		if strings.EqualFold(m.Nick, c.nick) {
			c.nick = m.Param(0)
		}
		c.mu.Unlock()

	case "JOIN":
		if c.OnJoin != nil {
			c.OnJoin(m.Param(0), m.Nick, m.User, m.Host)
		}

	case "PART":
		if c.OnPart != nil {
			c.OnPart(m.Param(0), m.Nick)
		}

	case "KICK": // KICK #chan nick :reason
		if c.OnPart != nil {
			c.OnPart(m.Param(0), m.Param(1))
		}

	case "INVITE":
		if c.OnInvite != nil {
			c.OnInvite(m.Param(1), m.Nick)
		}

	case "353": // RPL_NAMREPLY: me = #chan :@op +voice nick
		c.addNames(m.Param(2), m.Trailing())

	case "366": // RPL_ENDOFNAMES: me #chan :End of /NAMES list.
		members := c.takeNames(m.Param(1))
		if c.OnNames != nil {
			c.OnNames(m.Param(1), members)
		}

	case "PRIVMSG":
		if _, _, isCTCP := ctcp(m.Trailing()); isCTCP {
			return
		}
		if c.OnMessage != nil {
			target := m.Param(0)
			c.OnMessage(PrivMsg{
				Target:  target,
				Nick:    m.Nick,
				User:    m.User,
				Host:    m.Host,
				Text:    m.Trailing(),
				Private: strings.EqualFold(target, c.Nick()),
			})
		}

	case "ERROR":
		c.emitError(fmt.Errorf("server: %s", m.Trailing()))
	}
}

// modePrefixes — префиксы статуса в ответе NAMES (multi-prefix даёт их несколько подряд).
const modePrefixes = "~&@%+"

func (c *Client) addNames(channel, list string) {
	key := strings.ToLower(channel)
	c.mu.Lock()
	defer c.mu.Unlock()
	acc := c.names[key]
	if acc == nil {
		acc = make(map[string]string)
		c.names[key] = acc
	}
	for _, entry := range strings.Fields(list) {
		nick := strings.TrimLeft(entry, modePrefixes)
		if nick == "" {
			continue
		}
		prefix := entry[:len(entry)-len(nick)]
		if len(prefix) > 1 {
			prefix = prefix[:1] // самый старший идёт первым
		}
		acc[nick] = prefix
	}
}

func (c *Client) takeNames(channel string) map[string]string {
	key := strings.ToLower(channel)
	c.mu.Lock()
	defer c.mu.Unlock()
	acc := c.names[key]
	delete(c.names, key)
	if acc == nil {
		acc = make(map[string]string)
	}
	return acc
}

// безопасно закрыть текущее соединение
func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pingStop != nil {
		close(c.pingStop)
		c.pingStop = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// startKeepalive шлёт PING при простое и рвёт соединение, если сервер замолчал совсем;
// readLoop после этого переподключается.
func (c *Client) startKeepalive() {
	stop := make(chan struct{})
	c.mu.Lock()
	if c.pingStop != nil {
		close(c.pingStop)
	}
	c.pingStop = stop
	c.mu.Unlock()

	go func() {
		tick := time.NewTicker(keepaliveEvery)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				switch idle := c.sinceLastActivity(); {
				case idle > staleAfter:
					c.emitError(fmt.Errorf("no traffic for %v, reconnecting", idle.Round(time.Second)))
					c.closeConn()
					return
				case idle >= keepaliveEvery:
					_ = c.Send("PING", "keepalive")
				}
			}
		}
	}()
}

func (c *Client) touchActivity() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *Client) sinceLastActivity() time.Duration {
	n := c.lastActivity.Load()
	if n == 0 {
		return time.Hour
	}
	return time.Since(time.Unix(0, n))
}

func (c *Client) emitError(err error) {
	if c.OnError != nil && !c.closed.Load() {
		c.OnError(err)
	}
}
