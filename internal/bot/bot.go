package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/EgorLis/cardsbot/internal/deck"
	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/irc"
	"github.com/EgorLis/cardsbot/internal/roster"
	"github.com/EgorLis/cardsbot/internal/texts"
)

// ErrDisconnected — ожидающие запросы NAMES снимаются при обрыве соединения.
var ErrDisconnected = errors.New("transport disconnected")

// Transport — то, что бот делает с соединением. *irc.Client ему удовлетворяет.
type Transport interface {
	Say(target, text string) error
	Action(target, text string) error
	Notice(target, text string) error
	Names(channel string) error
	Join(channel string) error
	Mode(channel, modes string, nicks ...string) error
	Nick() string
}

// Connector — транспорт, который Run умеет сам поднять и опустить.
type Connector interface {
	Connect(ctx context.Context) error
	Disconnect()
}

// Bot — контекст, который получает каждый обработчик: транспорт, реестр
// сессий, коррелятор NAMES, тексты и конфиг. Всё состояние меняется только
// из диспетчера, по одному событию за раз.
type Bot struct {
	cfg    *Config
	t      Transport
	games  *game.Registry
	roster *roster.Correlator
	log    *zap.Logger
	rnd    *rand.Rand

	langs    map[string]language.Tag // канал -> язык, задаётся командой lang
	joined   map[string]bool         // каналы, где бот сейчас сидит
	fallback language.Tag

	events chan func()
	done   chan struct{}
	// post ставит событие в очередь диспетчера; в тестах выполняет сразу.
	post   func(func())
	syncMu sync.Mutex
}

func New(cfg *Config, t Transport, d *deck.Deck, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	tag, _ := texts.ParseTag(cfg.Language)
	b := &Bot{
		cfg:      cfg,
		t:        t,
		games:    game.NewRegistry(d),
		log:      log.Named("bot"),
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		langs:    make(map[string]language.Tag),
		joined:   make(map[string]bool),
		fallback: tag,
		events:   make(chan func(), 256),
		done:     make(chan struct{}),
	}
	b.post = b.enqueue
	b.roster = roster.NewCorrelator(t,
		roster.WithTimeout(cfg.RosterTimeout),
		roster.WithScheduler(func(f func()) { b.post(f) }),
		roster.WithLogger(log.Named("roster")),
	)
	return b
}

// Bind подписывает бота на события IRC-клиента.
func (b *Bot) Bind(c *irc.Client) {
	c.OnConnecting = func() { b.log.Info("connecting", zap.String("server", b.cfg.Server)) }
	c.OnConnected = func() { b.post(b.onRegistered) }
	c.OnMessage = func(m irc.PrivMsg) { b.post(func() { b.onMessage(m) }) }
	c.OnJoin = func(channel, nick, user, host string) {
		id := game.Identity{Nick: nick, User: user, Host: host}
		b.post(func() { b.onJoin(channel, id) })
	}
	c.OnInvite = func(channel, from string) { b.post(func() { b.onInvite(channel, from) }) }
	c.OnPart = func(channel, nick string) { b.post(func() { b.onPart(channel, nick) }) }
	c.OnNames = func(channel string, members map[string]string) {
		b.post(func() { b.roster.Resolve(channel, roster.NewSnapshot(channel, members)) })
	}
	c.OnDisconnected = func() {
		b.post(func() {
			b.log.Warn("disconnected")
			clear(b.joined)
			b.roster.FailAll(ErrDisconnected)
		})
	}
	c.OnError = func(err error) { b.log.Warn("irc error", zap.Error(err)) }
}

// Run крутит диспетчер и, если транспорт это умеет, держит соединение до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return nil
			case f := <-b.events:
				b.safely(f)
			}
		}
	})

	if conn, ok := b.t.(Connector); ok {
		g.Go(func() error {
			if err := conn.Connect(ctx); err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			<-ctx.Done()
			conn.Disconnect()
			return nil
		})
	}
	return g.Wait()
}

// enqueue после остановки диспетчера события молча теряются.
func (b *Bot) enqueue(f func()) {
	select {
	case b.events <- f:
	case <-b.done:
	}
}

// runNow — синхронный диспетчер: тот же порядок "по одному", без горутины.
func (b *Bot) runNow(f func()) {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	b.safely(f)
}

// safely выполняет событие; паника в обработчике не роняет процесс.
func (b *Bot) safely(f func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.log.Error("unhandled error in event handler",
			zap.Any("panic", r), zap.Stack("stack"))
		if !b.cfg.WarnOnError {
			return
		}
		for _, ch := range b.warnChannels() {
			b.say(ch, texts.ErrorWarning)
		}
	}()
	f()
}

// warnChannels — настроенные каналы плюс каналы с идущей игрой.
func (b *Bot) warnChannels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ch := range b.cfg.Channels {
		if !seen[channelKey(ch)] {
			seen[channelKey(ch)] = true
			out = append(out, ch)
		}
	}
	for _, ch := range b.games.Channels() {
		if !seen[channelKey(ch)] {
			seen[channelKey(ch)] = true
			out = append(out, ch)
		}
	}
	return out
}

// ========================= output =========================

func (b *Bot) lang(channel string) language.Tag {
	if tag, ok := b.langs[channelKey(channel)]; ok {
		return tag
	}
	return b.fallback
}

func (b *Bot) text(channel, key string, args ...any) string {
	return texts.Sprintf(b.lang(channel), key, args...)
}

// say пишет фразу каталога в канал на языке этого канала.
func (b *Bot) say(channel, key string, args ...any) {
	b.sayRaw(channel, b.text(channel, key, args...))
}

func (b *Bot) sayRaw(target, text string) {
	if err := b.t.Say(target, text); err != nil {
		b.log.Warn("say failed", zap.String("target", target), zap.Error(err))
	}
}

func (b *Bot) notice(nick, text string) {
	if err := b.t.Notice(nick, text); err != nil {
		b.log.Warn("notice failed", zap.String("nick", nick), zap.Error(err))
	}
}

func (b *Bot) action(channel, text string) {
	if err := b.t.Action(channel, text); err != nil {
		b.log.Warn("action failed", zap.String("channel", channel), zap.Error(err))
	}
}

// prefix — символ, который показываем в подсказках.
func (b *Bot) prefix() string {
	for _, r := range b.cfg.Prefix {
		return string(r)
	}
	return "!"
}

// modeBatch — сколько ников сервер принимает в одной строке MODE.
const modeBatch = 4

// setVoice выдаёт (+v) или снимает (-v) voice пачками по modeBatch.
func (b *Bot) setVoice(channel string, on bool, nicks ...string) {
	sign := "-"
	if on {
		sign = "+"
	}
	for i := 0; i < len(nicks); i += modeBatch {
		batch := nicks[i:min(i+modeBatch, len(nicks))]
		if err := b.t.Mode(channel, sign+strings.Repeat("v", len(batch)), batch...); err != nil {
			b.log.Warn("mode failed", zap.String("channel", channel), zap.Error(err))
			return
		}
	}
}
