package bot

import (
	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/roster"
	"github.com/EgorLis/cardsbot/internal/texts"
)

// cmdBeer: "beer [nick]" — налить тому, кто сейчас в канале. Присутствие
// проверяется по свежему NAMES.
func cmdBeer(b *Bot, channel string, actor game.Identity, args []string) {
	target := actor.Nick
	if len(args) > 0 {
		target = args[0]
	}
	if len(b.cfg.Beers) == 0 {
		return
	}
	b.roster.Request(channel, roster.PurposeBroadcast, target, func(snap roster.Snapshot, err error) {
		if err != nil {
			b.log.Warn("beer skipped", zap.String("channel", channel), zap.String("nick", target), zap.Error(err))
			return
		}
		for _, nick := range snap.Present([]string{target}) {
			beer := b.cfg.Beers[b.rnd.IntN(len(b.cfg.Beers))]
			b.action(channel, b.text(channel, texts.Beer, beer, nick))
		}
	})
}

func cmdHelp(b *Bot, channel string, _ game.Identity, _ []string) {
	b.say(channel, texts.Help, b.prefix())
}

// cmdTest — проверка, что клиент игрока видит NOTICE.
func cmdTest(b *Bot, _ string, actor game.Identity, _ []string) {
	b.notice(actor.Nick, b.text(actor.Nick, texts.TestPing))
}

func cmdLang(b *Bot, channel string, actor game.Identity, args []string) {
	if len(args) == 0 {
		b.say(channel, texts.LangCurrent, b.lang(channel).String(), texts.Names())
		return
	}
	tag, ok := texts.ParseTag(args[0])
	if !ok {
		b.say(channel, texts.LangUnknown, args[0], texts.Names())
		return
	}
	b.langs[channelKey(channel)] = tag
	b.log.Info("language changed",
		zap.String("channel", channel), zap.String("nick", actor.Nick), zap.String("language", tag.String()))
	b.say(channel, texts.LangSet, tag.String())
}

func privHelp(b *Bot, nick string, _ game.Identity, _ []string) {
	b.sayRaw(nick, b.text(nick, texts.PrivateHelp))
}

// privCards присылает руки во всех играх, где сидит отправитель.
func privCards(b *Bot, nick string, actor game.Identity, _ []string) {
	sessions := b.games.Seated(actor)
	if len(sessions) == 0 {
		b.notice(nick, b.text(nick, texts.NoCards))
		return
	}
	for _, s := range sessions {
		if p := s.Player(actor); p != nil {
			b.sendHand(s.Channel, p)
		}
	}
}
