package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgorLis/cardsbot/internal/deck"
)

type Config struct {
	MinPlayers int
	HandSize   int
	RoundLimit int // 0 — без ограничения
	PointLimit int // 0 — без ограничения
	Underflow  UnderflowPolicy
}

func DefaultConfig() Config {
	return Config{
		MinPlayers: 3,
		HandSize:   10,
		Underflow:  UnderflowEnd,
	}
}

// Hooks — "события" сессии (аналог EventEmitter); любой колбэк может быть nil.
type Hooks struct {
	OnJoin          func(*Player)
	OnLeave         func(*Player)
	OnRoundStart    func(*Round)
	OnDeal          func(*Player)
	OnPlay          func(*Player)
	OnPlaysComplete func(*Round)
	OnRoundWon      func(*Round, *Play)
	OnRoundVoided   func()
	OnPause         func(auto bool)
	OnResume        func()
	OnEnd           func(EndReason)
}

// Session — игра в одном канале. Не потокобезопасна: все вызовы идут из
// диспетчера бота по одному.
type Session struct {
	ID      string
	Channel string
	Created time.Time
	Hooks   Hooks

	cfg       Config
	state     State
	paused    bool
	players   []*Player
	round     *Round
	roundNo   int
	judgeIdx  int
	endReason EndReason

	questions *deck.Pile[deck.Question]
	answers   *deck.Pile[string]
	rnd       *rand.Rand
}

// NewSession создаёт сессию в состоянии FORMING.
func NewSession(channel string, cfg Config, d *deck.Deck, rnd *rand.Rand) *Session {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	def := DefaultConfig()
	if cfg.MinPlayers < def.MinPlayers {
		cfg.MinPlayers = def.MinPlayers
	}
	if cfg.HandSize <= 0 {
		cfg.HandSize = def.HandSize
	}
	if m := d.MaxPick(); cfg.HandSize < m {
		cfg.HandSize = m
	}
	if cfg.Underflow == "" {
		cfg.Underflow = def.Underflow
	}
	return &Session{
		ID:        uuid.NewString(),
		Channel:   channel,
		Created:   time.Now(),
		cfg:       cfg,
		state:     StateForming,
		questions: deck.NewPile(d.Questions, rnd),
		answers:   deck.NewPile(d.Answers, rnd),
		rnd:       rnd,
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Paused() bool { return s.paused }

func (s *Session) Config() Config { return s.cfg }

// Round — текущий раунд; nil до первого раунда и после автопаузы.
func (s *Session) Round() *Round { return s.round }

func (s *Session) EndReason() EndReason { return s.endReason }

// Players — копия списка в порядке рассадки.
func (s *Session) Players() []*Player {
	return append([]*Player(nil), s.players...)
}

// Player ищет игрока по user+host.
func (s *Session) Player(id Identity) *Player {
	for _, p := range s.players {
		if p.Same(id) {
			return p
		}
	}
	return nil
}

// PlayerByNick ищет игрока по нику (без учёта регистра).
func (s *Session) PlayerByNick(nick string) *Player {
	for _, p := range s.players {
		if strings.EqualFold(p.Nick, nick) {
			return p
		}
	}
	return nil
}

// Scores — игроки по убыванию очков, при равенстве в порядке рассадки.
func (s *Session) Scores() []*Player {
	out := s.Players()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Waiting — кто ещё не сдал карты в текущем раунде.
func (s *Session) Waiting() []*Player {
	if s.round == nil || s.state != StatePlayable {
		return nil
	}
	var out []*Player
	for _, p := range s.players {
		if p != s.round.Judge && !s.round.HasPlayed(p) {
			out = append(out, p)
		}
	}
	return out
}

// AddPlayer сажает игрока. Доступно в FORMING и PLAYABLE.
func (s *Session) AddPlayer(id Identity) (*Player, error) {
	if s.state != StateForming && s.state != StatePlayable {
		return nil, stateErr("join", s.state)
	}
	if s.Player(id) != nil {
		return nil, ErrDuplicatePlayer
	}
	p := &Player{Identity: id}
	s.players = append(s.players, p)
	if s.Hooks.OnJoin != nil {
		s.Hooks.OnJoin(p)
	}

	switch {
	case s.state == StateForming && len(s.players) >= s.cfg.MinPlayers:
		s.startRound()
	case s.state == StatePlayable && s.round != nil:
		if err := s.refill(p); err != nil {
			s.end(EndDeckExhausted)
			return p, nil
		}
		if s.Hooks.OnDeal != nil {
			s.Hooks.OnDeal(p)
		}
	}
	return p, nil
}

// RemovePlayer убирает игрока из любой незавершённой сессии.
func (s *Session) RemovePlayer(id Identity) (*Player, error) {
	if s.state == StateEnded {
		return nil, stateErr("leave", s.state)
	}
	idx := -1
	for i, p := range s.players {
		if p.Same(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUnknownPlayer
	}
	p := s.players[idx]
	s.players = append(s.players[:idx:idx], s.players[idx+1:]...)
	if idx < s.judgeIdx {
		s.judgeIdx--
	}
	if s.Hooks.OnLeave != nil {
		s.Hooks.OnLeave(p)
	}

	if len(s.players) == 0 {
		s.end(EndNoPlayers)
		return p, nil
	}
	if s.state == StateForming {
		s.answers.Discard(p.Hand...)
		return p, nil
	}

	if len(s.players) < s.cfg.MinPlayers {
		s.underflow()
		s.answers.Discard(p.Hand...)
		return p, nil
	}

	r := s.round
	switch {
	case r == nil:
		// раунд снят автопаузой, ждём resume
	case r.Judge == p:
		s.restartRound()
	default:
		if pl := r.playOf(p); pl != nil && r.order == nil {
			s.answers.Discard(pl.Cards...)
		}
		r.withdraw(p)
		if s.state == StatePlayed && len(r.active()) == 0 {
			s.restartRound()
		} else {
			s.checkAllPlayed()
		}
	}
	s.answers.Discard(p.Hand...)
	return p, nil
}

// PlayCard сдаёт карты из руки по номерам (с 1). Только в PLAYABLE.
func (s *Session) PlayCard(id Identity, picks []int) error {
	p := s.Player(id)
	if p == nil {
		return ErrUnknownPlayer
	}
	if s.state != StatePlayable || s.round == nil {
		return stateErr("play", s.state)
	}
	if s.paused {
		return ErrPaused
	}
	r := s.round
	if r.Judge == p {
		return ErrJudgeCannotPlay
	}
	if r.HasPlayed(p) {
		return ErrAlreadyPlayed
	}
	if len(picks) != r.Question.Pick {
		return fmt.Errorf("%w: need %d card(s), got %d", ErrInvalidCards, r.Question.Pick, len(picks))
	}
	cards, ok := p.takeCards(picks)
	if !ok {
		return fmt.Errorf("%w: pick numbers 1-%d", ErrInvalidCards, len(p.Hand))
	}
	r.plays = append(r.plays, &Play{Player: p, Cards: cards})
	if s.Hooks.OnPlay != nil {
		s.Hooks.OnPlay(p)
	}
	s.checkAllPlayed()
	return nil
}

// SelectWinner — выбор судьи по номеру из списка сданных карт. Только в PLAYED.
func (s *Session) SelectWinner(id Identity, token int) (*Play, error) {
	p := s.Player(id)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if s.state != StatePlayed || s.round == nil {
		return nil, stateErr("pick a winner", s.state)
	}
	if s.paused {
		return nil, ErrPaused
	}
	r := s.round
	if r.Judge != p {
		return nil, ErrNotJudge
	}
	if token < 1 || token > len(r.order) || r.order[token-1].Withdrawn {
		return nil, fmt.Errorf("%w: choose 1-%d", ErrInvalidSelection, len(r.order))
	}

	win := r.order[token-1]
	win.Player.Score++
	if s.Hooks.OnRoundWon != nil {
		s.Hooks.OnRoundWon(r, win)
	}

	s.questions.Discard(r.Question)
	for _, pl := range r.plays {
		s.answers.Discard(pl.Cards...)
	}

	switch {
	case s.cfg.RoundLimit > 0 && r.Number >= s.cfg.RoundLimit:
		s.end(EndRoundLimit)
	case s.cfg.PointLimit > 0 && win.Player.Score >= s.cfg.PointLimit:
		s.end(EndPointLimit)
	default:
		s.judgeIdx++
		s.startRound()
	}
	return win, nil
}

// Pause ставит флаг паузы. В FORMING и ENDED пауза недоступна.
func (s *Session) Pause() error {
	if s.state == StateForming || s.state == StateEnded {
		return stateErr("pause", s.state)
	}
	if s.paused {
		return fmt.Errorf("%w: game is already paused", ErrInvalidState)
	}
	s.paused = true
	if s.Hooks.OnPause != nil {
		s.Hooks.OnPause(false)
	}
	return nil
}

// Resume снимает паузу и возвращает игру в состояние, из которого она была поставлена.
func (s *Session) Resume() error {
	if !s.paused {
		return ErrNotPaused
	}
	if len(s.players) < s.cfg.MinPlayers {
		return ErrNotEnoughPlayers
	}
	s.paused = false
	if s.Hooks.OnResume != nil {
		s.Hooks.OnResume()
	}
	if s.round == nil {
		s.startRound()
		return nil
	}
	s.checkAllPlayed()
	return nil
}

// Stop переводит сессию в ENDED из любого состояния. Повторный вызов ничего не делает.
func (s *Session) Stop() {
	s.end(EndStopped)
}

func (s *Session) setState(to State) {
	if !canTransition(s.state, to) {
		panic(fmt.Sprintf("game: illegal transition %s -> %s", s.state, to))
	}
	s.state = to
}

func (s *Session) end(reason EndReason) {
	if s.state == StateEnded {
		return
	}
	s.setState(StateEnded)
	s.endReason = reason
	s.paused = false
	if s.Hooks.OnEnd != nil {
		s.Hooks.OnEnd(reason)
	}
}

// underflow — игроков меньше минимума посреди игры.
func (s *Session) underflow() {
	if s.cfg.Underflow != UnderflowPause {
		s.end(EndUnderflow)
		return
	}
	if s.round != nil {
		s.voidRound()
		if s.Hooks.OnRoundVoided != nil {
			s.Hooks.OnRoundVoided()
		}
	}
	if s.state == StatePlayed {
		s.setState(StatePlayable)
	}
	wasPaused := s.paused
	s.paused = true
	if !wasPaused && s.Hooks.OnPause != nil {
		s.Hooks.OnPause(true)
	}
}

func (s *Session) startRound() {
	q, err := s.questions.Draw(1)
	if err != nil {
		s.end(EndDeckExhausted)
		return
	}
	s.judgeIdx %= len(s.players)
	s.roundNo++
	s.round = &Round{
		Number:   s.roundNo,
		Judge:    s.players[s.judgeIdx],
		Question: q[0],
	}
	for _, p := range s.players {
		if err := s.refill(p); err != nil {
			s.end(EndDeckExhausted)
			return
		}
	}
	s.setState(StatePlayable)
	if s.Hooks.OnRoundStart != nil {
		s.Hooks.OnRoundStart(s.round)
	}
	if s.Hooks.OnDeal != nil {
		for _, p := range s.players {
			if p != s.round.Judge {
				s.Hooks.OnDeal(p)
			}
		}
	}
}

func (s *Session) restartRound() {
	s.voidRound()
	if s.Hooks.OnRoundVoided != nil {
		s.Hooks.OnRoundVoided()
	}
	s.startRound()
}

// voidRound отменяет текущий раунд: карты возвращаются в руки сидящих игроков.
func (s *Session) voidRound() {
	r := s.round
	for _, pl := range r.plays {
		if !pl.Withdrawn && s.seated(pl.Player) {
			pl.Player.Hand = append(pl.Player.Hand, pl.Cards...)
		} else {
			s.answers.Discard(pl.Cards...)
		}
	}
	s.questions.Discard(r.Question)
	s.round = nil
	s.roundNo--
}

func (s *Session) checkAllPlayed() {
	if s.state != StatePlayable || s.round == nil || s.paused {
		return
	}
	if len(s.Waiting()) > 0 || len(s.round.active()) == 0 {
		return
	}
	r := s.round
	r.order = r.active()
	s.rnd.Shuffle(len(r.order), func(i, j int) { r.order[i], r.order[j] = r.order[j], r.order[i] })
	s.setState(StatePlayed)
	if s.Hooks.OnPlaysComplete != nil {
		s.Hooks.OnPlaysComplete(r)
	}
}

func (s *Session) refill(p *Player) error {
	n := s.cfg.HandSize - len(p.Hand)
	if n <= 0 {
		return nil
	}
	cards, err := s.answers.Draw(n)
	if err != nil {
		return err
	}
	p.Hand = append(p.Hand, cards...)
	return nil
}

func (s *Session) seated(p *Player) bool {
	for _, sp := range s.players {
		if sp == p {
			return true
		}
	}
	return false
}
