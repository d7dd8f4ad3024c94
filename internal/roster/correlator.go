package roster

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRosterTimeout — ответ на NAMES не пришёл за отведённое время.
var ErrRosterTimeout = errors.New("roster query timed out")

const DefaultTimeout = 10 * time.Second

// Purpose — зачем понадобился список ников канала.
type Purpose int

const (
	PurposePermission Purpose = iota
	PurposeBroadcast
)

func (p Purpose) String() string {
	if p == PurposeBroadcast {
		return "roster-broadcast"
	}
	return "permission-check"
}

// Querier отправляет серверу запрос NAMES для канала. Ответ приходит позже
// отдельным событием и передаётся в Correlator.Resolve.
type Querier interface {
	Names(channel string) error
}

// Continuation вызывается ровно один раз: со снапшотом или с ошибкой.
type Continuation func(snap Snapshot, err error)

// Request — ожидающий ответа запрос. Живёт ровно один цикл запрос/ответ.
type Request struct {
	ID      string
	Channel string
	Purpose Purpose
	Payload any
	Issued  time.Time

	done  Continuation
	timer *time.Timer
}

type permissionCheck struct {
	Nick  string
	Level Level
}

// Correlator сопоставляет ответы NAMES с запросами. В протоколе нет
// идентификатора запроса, поэтому на каждый канал ведётся FIFO-очередь:
// пока в очереди кто-то есть, запрос к серверу уже в полёте и повторно не
// отправляется; ответ по каналу забирает всю очередь целиком. Если запрос,
// который отправил NAMES, истёк, а очередь не пуста, NAMES уходит заново.
type Correlator struct {
	q       Querier
	timeout time.Duration
	post    func(func())
	log     *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	pending map[string][]*Request
	owner   map[string]*Request // чей NAMES сейчас в полёте
}

type Option func(*Correlator)

// WithTimeout задаёт ограничение ожидания ответа.
func WithTimeout(d time.Duration) Option {
	return func(c *Correlator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithScheduler задаёт, где выполнять продолжения по таймауту. Бот передаёт
// сюда свой диспетчер, чтобы таймауты шли тем же потоком событий, что и ответы.
func WithScheduler(post func(func())) Option {
	return func(c *Correlator) {
		if post != nil {
			c.post = post
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Correlator) {
		if l != nil {
			c.log = l
		}
	}
}

func NewCorrelator(q Querier, opts ...Option) *Correlator {
	c := &Correlator{
		q:       q,
		timeout: DefaultTimeout,
		post:    func(f func()) { f() },
		log:     zap.NewNop(),
		now:     time.Now,
		pending: make(map[string][]*Request),
		owner:   make(map[string]*Request),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request ставит запрос в очередь канала и, если он первый, отправляет NAMES.
// Возвращает ID запроса (для логов).
func (c *Correlator) Request(channel string, purpose Purpose, payload any, done Continuation) string {
	req := &Request{
		ID:      uuid.NewString(),
		Channel: channel,
		Purpose: purpose,
		Payload: payload,
		Issued:  c.now(),
		done:    done,
	}
	key := FoldNick(channel)

	c.mu.Lock()
	first := len(c.pending[key]) == 0
	c.pending[key] = append(c.pending[key], req)
	if first {
		c.owner[key] = req
	}
	req.timer = time.AfterFunc(c.timeout, func() {
		c.post(func() { c.expire(key, req) })
	})
	c.mu.Unlock()

	log := c.log.With(zap.String("channel", channel), zap.String("request_id", req.ID), zap.Stringer("purpose", purpose))
	if !first {
		log.Debug("roster query already in flight, queued")
		return req.ID
	}

	log.Debug("sending roster query")
	c.send(key, channel)
	return req.ID
}

func (c *Correlator) send(key, channel string) {
	if err := c.q.Names(channel); err != nil {
		// запрос не ушёл — всё, что успело встать в очередь, ждать нечего
		c.log.Warn("roster query failed", zap.String("channel", channel), zap.Error(err))
		c.fail(key, fmt.Errorf("roster query %s: %w", channel, err))
	}
}

// CheckPermission запрашивает роли канала и решает, может ли nick выполнить
// действие уровня level. Таймаут и любые ошибки — отказ. Ошибка возвращается
// только для неизвестного уровня (ошибка конфигурации), запрос при этом не шлётся.
func (c *Correlator) CheckPermission(channel, nick string, level Level, decide func(allowed bool)) error {
	if !level.Valid() {
		return fmt.Errorf("unknown permission level %q", string(level))
	}
	c.Request(channel, PurposePermission, permissionCheck{Nick: nick, Level: level}, func(snap Snapshot, err error) {
		if err != nil {
			c.log.Warn("permission check denied",
				zap.String("channel", channel), zap.String("nick", nick), zap.Error(err))
			decide(false)
			return
		}
		ok, perr := Satisfies(level, nick, snap)
		if perr != nil {
			c.log.Error("permission check", zap.Error(perr))
		}
		decide(ok)
	})
	return nil
}

// Resolve раздаёт пришедший снапшот всем запросам, ожидавшим этот канал,
// в порядке постановки. Возвращает число разрешённых запросов.
func (c *Correlator) Resolve(channel string, snap Snapshot) int {
	key := FoldNick(channel)

	c.mu.Lock()
	reqs := c.pending[key]
	delete(c.pending, key)
	delete(c.owner, key)
	c.mu.Unlock()

	if len(reqs) == 0 {
		c.log.Debug("roster reply without pending requests", zap.String("channel", channel))
		return 0
	}
	for _, r := range reqs {
		r.timer.Stop()
		r.done(snap, nil)
	}
	return len(reqs)
}

// FailAll завершает все ожидающие запросы ошибкой (например, при потере соединения).
func (c *Correlator) FailAll(err error) {
	c.mu.Lock()
	all := c.pending
	c.pending = make(map[string][]*Request)
	c.owner = make(map[string]*Request)
	c.mu.Unlock()

	for _, reqs := range all {
		for _, r := range reqs {
			r.timer.Stop()
			r.done(Snapshot{}, err)
		}
	}
}

// Pending — сколько запросов ждут ответа по каналу.
func (c *Correlator) Pending(channel string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending[FoldNick(channel)])
}

func (c *Correlator) expire(key string, req *Request) {
	c.mu.Lock()
	reqs := c.pending[key]
	idx := -1
	for i, r := range reqs {
		if r == req {
			idx = i
			break
		}
	}
	if idx < 0 {
		// уже получил ответ
		c.mu.Unlock()
		return
	}
	reqs = append(reqs[:idx:idx], reqs[idx+1:]...)
	if len(reqs) == 0 {
		delete(c.pending, key)
	} else {
		c.pending[key] = reqs
	}
	// NAMES этого запроса потерян: оставшимся нужен новый
	resend := c.owner[key] == req && len(reqs) > 0
	if resend {
		c.owner[key] = reqs[0]
	} else if c.owner[key] == req {
		delete(c.owner, key)
	}
	c.mu.Unlock()

	c.log.Warn("roster query timed out",
		zap.String("channel", req.Channel),
		zap.String("request_id", req.ID),
		zap.Stringer("purpose", req.Purpose),
		zap.Duration("waited", c.now().Sub(req.Issued)))
	req.done(Snapshot{}, fmt.Errorf("%w: %s", ErrRosterTimeout, req.Channel))

	if resend {
		c.log.Debug("re-sending roster query", zap.String("channel", req.Channel))
		c.send(key, req.Channel)
	}
}

func (c *Correlator) fail(key string, err error) {
	c.mu.Lock()
	reqs := c.pending[key]
	delete(c.pending, key)
	delete(c.owner, key)
	c.mu.Unlock()

	for _, r := range reqs {
		r.timer.Stop()
		r.done(Snapshot{}, err)
	}
}
