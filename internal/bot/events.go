package bot

import (
	"bytes"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/roster"
	"github.com/EgorLis/cardsbot/internal/texts"
)

// greetingData — поля, доступные в шаблонах приветствий.
type greetingData struct {
	Nick    string
	Channel string
}

// onRegistered: сервер принял регистрацию, каналы уже запрошены клиентом.
func (b *Bot) onRegistered() {
	b.log.Info("registered", zap.String("nick", b.t.Nick()))
	b.sendGreetings(b.cfg.ConnectCommands, greetingData{Nick: b.t.Nick()})
}

func (b *Bot) onJoin(channel string, who game.Identity) {
	if strings.EqualFold(who.Nick, b.t.Nick()) {
		b.log.Info("joined", zap.String("channel", channel))
		b.joined[channelKey(channel)] = true
		b.sendGreetings(greetingsFor(b.cfg.JoinCommands, channel), greetingData{Nick: who.Nick, Channel: channel})
		if b.cfg.VoicePlayers {
			b.devoiceAll(channel)
		}
		return
	}

	b.log.Debug("user joined", zap.String("channel", channel), zap.String("nick", who.Nick))
	b.sendGreetings(greetingsFor(b.cfg.UserJoinCommands, channel), greetingData{Nick: who.Nick, Channel: channel})
	if !b.cfg.VoicePlayers {
		return
	}
	// вернувшемуся игроку снова даём voice
	if s, ok := b.games.Find(channel); ok && s.Player(who) != nil {
		b.setVoice(channel, true, who.Nick)
	}
}

// devoiceAll снимает voice со всех в канале: voice здесь означает "сидит за столом".
func (b *Bot) devoiceAll(channel string) {
	b.roster.Request(channel, roster.PurposeBroadcast, nil, func(snap roster.Snapshot, err error) {
		if err != nil {
			b.log.Warn("devoice on join skipped", zap.String("channel", channel), zap.Error(err))
			return
		}
		b.setVoice(channel, false, snap.WithRole(roster.RoleVoiced)...)
	})
}

// onPart: бот вышел или его выкинули — следующее приглашение снова примем.
func (b *Bot) onPart(channel, nick string) {
	if strings.EqualFold(nick, b.t.Nick()) {
		b.log.Info("left channel", zap.String("channel", channel))
		delete(b.joined, channelKey(channel))
	}
}

// onInvite: приглашение принимаем только в свои каналы, где бота сейчас нет.
func (b *Bot) onInvite(channel, from string) {
	if !b.cfg.isConfigured(channel) || b.joined[channelKey(channel)] {
		b.log.Info("ignored invite", zap.String("channel", channel), zap.String("nick", from))
		return
	}
	b.log.Info("invited", zap.String("channel", channel), zap.String("nick", from))
	if err := b.t.Join(channel); err != nil {
		b.log.Warn("join failed", zap.String("channel", channel), zap.Error(err))
		return
	}
	b.sayRaw(from, b.text(channel, texts.Invited, channel))
}

func (b *Bot) sendGreetings(gs []Greeting, data greetingData) {
	for _, g := range gs {
		target, err := render(g.Target, data)
		if err != nil {
			b.log.Warn("bad greeting target", zap.String("template", g.Target), zap.Error(err))
			continue
		}
		msg, err := render(g.Message, data)
		if err != nil {
			b.log.Warn("bad greeting message", zap.String("template", g.Message), zap.Error(err))
			continue
		}
		if target == "" || msg == "" {
			continue
		}
		b.sayRaw(target, msg)
	}
}

func render(tmpl string, data greetingData) (string, error) {
	t, err := template.New("greeting").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
