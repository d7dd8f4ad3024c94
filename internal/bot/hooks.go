package bot

import (
	"strings"

	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/texts"
)

// attach подписывает бота на события сессии: вывод в канал, voice и
// удаление закончившейся игры из реестра.
func (b *Bot) attach(s *game.Session) {
	channel := s.Channel
	log := b.log.With(zap.String("channel", channel), zap.String("session_id", s.ID))

	s.Hooks = game.Hooks{
		OnJoin: func(p *game.Player) {
			b.say(channel, texts.Joined, p.Nick)
			if b.cfg.VoicePlayers {
				b.setVoice(channel, true, p.Nick)
			}
		},
		OnLeave: func(p *game.Player) {
			if b.cfg.VoicePlayers {
				b.setVoice(channel, false, p.Nick)
			}
		},
		OnRoundStart: func(r *game.Round) {
			b.say(channel, texts.RoundStart, r.Number, r.Judge.Nick)
			b.say(channel, texts.Question, r.Question.Text, r.Question.Pick)
		},
		OnDeal: func(p *game.Player) {
			b.sendHand(channel, p)
		},
		OnPlay: func(p *game.Player) {
			log.Debug("card played", zap.String("nick", p.Nick), zap.Int("waiting", len(s.Waiting())))
		},
		OnPlaysComplete: func(r *game.Round) {
			b.say(channel, texts.PlaysComplete, r.Judge.Nick, b.prefix())
			for i, pl := range r.Plays() {
				b.say(channel, texts.PlayLine, i+1, r.Question.Fill(pl.Cards))
			}
		},
		OnRoundWon: func(r *game.Round, pl *game.Play) {
			b.say(channel, texts.RoundWinner, pl.Player.Nick, r.Question.Fill(pl.Cards), pl.Player.Score)
		},
		OnRoundVoided: func() {
			b.say(channel, texts.RoundVoided)
		},
		OnPause: func(auto bool) {
			if auto {
				b.say(channel, texts.AutoPaused, s.Config().MinPlayers, b.prefix())
				return
			}
			b.say(channel, texts.Paused, b.prefix())
		},
		OnResume: func() {
			b.say(channel, texts.Resumed)
		},
		OnEnd: func(reason game.EndReason) {
			log.Info("session ended", zap.Stringer("reason", reason))
			b.say(channel, endKey(reason))
			b.announceWinner(channel, s)
			if b.cfg.VoicePlayers {
				b.setVoice(channel, false, nicks(s.Players())...)
			}
			b.games.Destroy(channel)
		},
	}
}

func endKey(reason game.EndReason) string {
	switch reason {
	case game.EndRoundLimit:
		return texts.RoundLimit
	case game.EndPointLimit:
		return texts.PointLimit
	case game.EndNoPlayers:
		return texts.NoPlayers
	case game.EndUnderflow:
		return texts.Underflow
	case game.EndDeckExhausted:
		return texts.DeckExhausted
	}
	return texts.Stopped
}

func (b *Bot) announceWinner(channel string, s *game.Session) {
	scores := s.Scores()
	if len(scores) == 0 || scores[0].Score == 0 {
		b.say(channel, texts.NoWinner)
		return
	}
	top := scores[0].Score
	var best []string
	for _, p := range scores {
		if p.Score == top {
			best = append(best, p.Nick)
		}
	}
	b.say(channel, texts.FinalWinner, strings.Join(best, ", "), top)
	b.say(channel, texts.Points, formatScores(scores))
}
