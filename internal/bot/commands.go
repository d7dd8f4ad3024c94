package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/texts"
)

// session возвращает игру канала; если её нет — сообщает об этом в канал.
func (b *Bot) session(channel string) (*game.Session, bool) {
	s, err := b.games.Get(channel)
	if err != nil {
		b.log.Debug("command without session", zap.Error(err))
		b.say(channel, texts.NoSession, b.prefix())
		return nil, false
	}
	return s, true
}

// seated — игрок сидит за столом; иначе ответ в канал.
func (b *Bot) seated(channel string, s *game.Session, actor game.Identity) (*game.Player, bool) {
	p := s.Player(actor)
	if p == nil {
		b.say(channel, texts.NotPlaying, actor.Nick)
	}
	return p, p != nil
}

func cmdStart(b *Bot, channel string, actor game.Identity, args []string) {
	if s, ok := b.games.Find(channel); ok {
		if s.Player(actor) != nil {
			b.say(channel, texts.AlreadyJoined, actor.Nick)
		} else {
			b.say(channel, texts.AlreadyRunning, b.prefix())
		}
		return
	}

	cfg := b.cfg.Game.session()
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			cfg.RoundLimit = n
		}
	}
	s, err := b.games.Create(channel, cfg)
	if err != nil {
		b.log.Error("create session", zap.String("channel", channel), zap.Error(err))
		b.say(channel, texts.AlreadyRunning, b.prefix())
		return
	}
	b.attach(s)
	b.log.Info("session created",
		zap.String("channel", channel), zap.String("session_id", s.ID),
		zap.String("nick", actor.Nick), zap.Int("round_limit", cfg.RoundLimit))
	b.say(channel, texts.GameStarted, actor.Nick, b.prefix(), s.Config().MinPlayers)
	b.addPlayer(channel, s, actor)
}

func cmdStop(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	b.log.Info("session stopped", zap.String("session_id", s.ID), zap.String("nick", actor.Nick))
	s.Stop()
}

func cmdJoin(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.games.Find(channel)
	if !ok {
		if !b.cfg.StartOnFirstJoin {
			b.say(channel, texts.NoSession, b.prefix())
			return
		}
		cmdStart(b, channel, actor, nil)
		return
	}
	b.addPlayer(channel, s, actor)
}

func (b *Bot) addPlayer(channel string, s *game.Session, actor game.Identity) {
	if _, err := s.AddPlayer(actor); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdQuit(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	p, ok := b.seated(channel, s, actor)
	if !ok {
		return
	}
	b.say(channel, texts.Left, p.Nick)
	if _, err := s.RemovePlayer(actor); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdRemove(b *Bot, channel string, actor game.Identity, args []string) {
	s, ok := b.session(channel)
	if !ok || len(args) == 0 {
		return
	}
	p := s.PlayerByNick(args[0])
	if p == nil {
		b.say(channel, texts.NoSuchPlayer, args[0])
		return
	}
	b.say(channel, texts.Removed, p.Nick)
	if _, err := s.RemovePlayer(p.Identity); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdPause(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	if _, ok := b.seated(channel, s, actor); !ok {
		return
	}
	if err := s.Pause(); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdResume(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	if _, ok := b.seated(channel, s, actor); !ok {
		return
	}
	if err := s.Resume(); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdCards(b *Bot, channel string, actor game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	p, ok := b.seated(channel, s, actor)
	if !ok {
		return
	}
	b.sendHand(channel, p)
}

func cmdPlay(b *Bot, channel string, actor game.Identity, args []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	b.play(channel, s, actor, args)
}

func cmdWinner(b *Bot, channel string, actor game.Identity, args []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	b.winner(channel, s, actor, args)
}

// cmdPick — общий алиас: в PLAYABLE это play, в PLAYED — winner, иначе недоступно.
func cmdPick(b *Bot, channel string, actor game.Identity, args []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	switch s.State() {
	case game.StatePlayable:
		b.play(channel, s, actor, args)
	case game.StatePlayed:
		b.winner(channel, s, actor, args)
	default:
		b.say(channel, texts.PickUnavailable, b.prefix())
	}
}

func (b *Bot) play(channel string, s *game.Session, actor game.Identity, args []string) {
	picks, err := parseNumbers(args)
	if err != nil {
		// PlayCard ответит ErrInvalidCards, но сначала проверит состояние и игрока
		picks = nil
	}
	if err := s.PlayCard(actor, picks); err != nil {
		b.report(channel, s, actor, err)
		return
	}
	if r := s.Round(); r != nil {
		for _, pl := range r.Plays() {
			if pl.Player.Same(actor) {
				b.notice(actor.Nick, b.text(channel, texts.YouPlayed, channel, strings.Join(pl.Cards, " | ")))
				break
			}
		}
	}
}

func (b *Bot) winner(channel string, s *game.Session, actor game.Identity, args []string) {
	token := 0
	if len(args) > 0 {
		token, _ = strconv.Atoi(args[0])
	}
	if _, err := s.SelectWinner(actor, token); err != nil {
		b.report(channel, s, actor, err)
	}
}

func cmdList(b *Bot, channel string, _ game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	b.say(channel, texts.List, strings.Join(nicks(s.Players()), ", "))
}

func cmdPoints(b *Bot, channel string, _ game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	b.say(channel, texts.Points, formatScores(s.Scores()))
}

func cmdStatus(b *Bot, channel string, _ game.Identity, _ []string) {
	s, ok := b.session(channel)
	if !ok {
		return
	}
	r := s.Round()
	switch {
	case s.State() == game.StateForming:
		b.say(channel, texts.StatusForming, len(s.Players()), s.Config().MinPlayers, b.prefix())
	case r == nil:
		// автопауза: раунд снят, ждём игроков
		b.say(channel, texts.NeedPlayers, s.Config().MinPlayers)
	case s.State() == game.StatePlayable:
		b.say(channel, texts.StatusPlayable, r.Number, r.Judge.Nick, strings.Join(nicks(s.Waiting()), ", "))
	case s.State() == game.StatePlayed:
		b.say(channel, texts.StatusPlayed, r.Number, r.Judge.Nick)
	}
	if s.Paused() {
		b.say(channel, texts.StatusPaused)
	}
}

// report переводит ошибку игры в сообщение для канала.
func (b *Bot) report(channel string, s *game.Session, actor game.Identity, err error) {
	nick := actor.Nick
	switch {
	case errors.Is(err, game.ErrUnknownPlayer):
		b.say(channel, texts.NotPlaying, nick)
	case errors.Is(err, game.ErrDuplicatePlayer):
		b.say(channel, texts.AlreadyJoined, nick)
	case errors.Is(err, game.ErrPaused):
		b.say(channel, texts.IsPaused, nick)
	case errors.Is(err, game.ErrNotPaused):
		b.say(channel, texts.NotPaused)
	case errors.Is(err, game.ErrNotEnoughPlayers):
		b.say(channel, texts.NeedPlayers, s.Config().MinPlayers)
	case errors.Is(err, game.ErrJudgeCannotPlay):
		b.say(channel, texts.JudgeCannotPlay, nick)
	case errors.Is(err, game.ErrAlreadyPlayed):
		b.say(channel, texts.AlreadyPlayed, nick)
	case errors.Is(err, game.ErrNotJudge):
		b.say(channel, texts.NotJudge, nick)
	case errors.Is(err, game.ErrInvalidCards):
		pick := 1
		if r := s.Round(); r != nil {
			pick = r.Question.Pick
		}
		b.say(channel, texts.BadCards, nick, pick, b.prefix())
	case errors.Is(err, game.ErrInvalidSelection):
		n := 0
		if r := s.Round(); r != nil {
			n = len(r.Plays())
		}
		b.say(channel, texts.BadChoice, nick, n)
	case errors.Is(err, game.ErrInvalidState):
		b.say(channel, texts.NotNow, nick)
	default:
		b.log.Error("game error", zap.String("channel", channel), zap.String("session_id", s.ID), zap.Error(err))
	}
}

func (b *Bot) sendHand(channel string, p *game.Player) {
	cards := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		cards[i] = b.text(channel, texts.HandCard, i+1, c)
	}
	b.notice(p.Nick, b.text(channel, texts.HandHeader, channel)+" "+strings.Join(cards, " "))
}

func parseNumbers(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		out = append(out, n)
	}
	return out, nil
}

func nicks(players []*game.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Nick
	}
	return out
}

func formatScores(players []*game.Player) string {
	rows := make([]string, len(players))
	for i, p := range players {
		rows[i] = fmt.Sprintf("%s: %d", p.Nick, p.Score)
	}
	return strings.Join(rows, ", ")
}
