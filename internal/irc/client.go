package irc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("irc: not connected")

type Config struct {
	Server   string
	Nick     string
	User     string
	RealName string
	Password string
	Channels []string
	// SendInterval — минимальная пауза между исходящими строками (защита от флуда).
	SendInterval time.Duration
}

// PrivMsg — входящее PRIVMSG. Private выставлен, если адресат — сам бот.
type PrivMsg struct {
	Target  string
	Nick    string
	User    string
	Host    string
	Text    string
	Private bool
}

type Client struct {
	cfg  Config
	log  *zap.Logger
	dial dialFunc

	mu       sync.Mutex
	conn     lineConn
	nick     string
	names    map[string]map[string]string // канал -> ник -> префикс, копится между 353 и 366
	pingStop chan struct{}

	closed       atomic.Bool
	registered   atomic.Bool
	lastActivity atomic.Int64 // unix nanos последней принятой строки

	wmu       sync.Mutex // сериализует запись и держит интервал
	lastWrite time.Time

	retryMin time.Duration
	retryMax time.Duration

	// "События" (аналог EventEmitter)
	OnConnecting   func()
	OnConnected    func() // после 001, каналы уже запрошены
	OnMessage      func(PrivMsg)
	OnJoin         func(channel, nick, user, host string)
	OnInvite       func(channel, from string)
	OnPart         func(channel, nick string) // PART и KICK
	OnNames        func(channel string, members map[string]string)
	OnDisconnected func()
	OnError        func(error)
}

func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.RealName == "" {
		cfg.RealName = cfg.Nick
	}
	return &Client{
		cfg:      cfg,
		log:      log.Named("irc"),
		dial:     dial,
		nick:     cfg.Nick,
		names:    make(map[string]map[string]string),
		retryMin: time.Second,
		retryMax: 30 * time.Second,
	}
}

// Connect — подключается, регистрируется и запускает readLoop.
// Отмена контекста завершает readLoop и закрывает соединение.
func (c *Client) Connect(ctx context.Context) error {
	c.closed.Store(false)
	if err := c.connectOnce(ctx); err != nil {
		return err
	}
	go c.readLoop(ctx)
	return nil
}

func (c *Client) connectOnce(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	conn, err := c.dial(ctx, c.cfg.Server)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.Server, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.nick = c.cfg.Nick
	c.names = make(map[string]map[string]string)
	c.mu.Unlock()
	c.registered.Store(false)
	c.touchActivity()
	c.startKeepalive()
	return c.register()
}

func (c *Client) register() error {
	if c.cfg.Password != "" {
		if err := c.Send("PASS", c.cfg.Password); err != nil {
			return err
		}
	}
	if err := c.Send("NICK", c.cfg.Nick); err != nil {
		return err
	}
	return c.Send("USER", c.cfg.User, "0", "*", c.cfg.RealName)
}

func (c *Client) Disconnect() {
	if c.closed.Swap(true) {
		return
	}
	_ = c.Send("QUIT", "bye")
	c.closeConn()
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.closed.Load()
}

// Nick — текущий ник бота (может отличаться от заданного после 433).
func (c *Client) Nick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nick
}

// Send отправляет команду; переводы строк в параметрах вырезаются.
func (c *Client) Send(command string, params ...string) error {
	m := &Message{Command: command, Params: make([]string, len(params))}
	for i, p := range params {
		m.Params[i] = sanitize(p)
	}
	return c.writeLine(m.String())
}

// Say — PRIVMSG, многострочный текст уходит отдельными строками.
func (c *Client) Say(target, text string) error {
	return c.eachLine(text, func(l string) error { return c.Send("PRIVMSG", target, l) })
}

func (c *Client) Notice(target, text string) error {
	return c.eachLine(text, func(l string) error { return c.Send("NOTICE", target, l) })
}

// Action — CTCP ACTION (/me).
func (c *Client) Action(target, text string) error {
	return c.Send("PRIVMSG", target, ctcpDelim+"ACTION "+sanitize(text)+ctcpDelim)
}

// Names запрашивает список участников; ответ придёт через OnNames.
func (c *Client) Names(channel string) error {
	return c.Send("NAMES", channel)
}

func (c *Client) Join(channel string) error {
	return c.Send("JOIN", channel)
}

// Mode, например Mode("#c", "-vv", "alice", "bob").
func (c *Client) Mode(channel, modes string, nicks ...string) error {
	return c.Send("MODE", append([]string{channel, modes}, nicks...)...)
}

func (c *Client) eachLine(text string, send func(string) error) error {
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if l == "" {
			continue
		}
		if err := send(l); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) writeLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if gap := c.cfg.SendInterval - time.Since(c.lastWrite); gap > 0 && !c.lastWrite.IsZero() {
		time.Sleep(gap)
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.WriteLine(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	c.lastWrite = time.Now()
	if strings.HasPrefix(line, "PASS ") {
		line = "PASS ***"
	}
	c.log.Debug("sent", zap.String("line", line))
	return nil
}
