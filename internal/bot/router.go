package bot

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/irc"
	"github.com/EgorLis/cardsbot/internal/roster"
)

// handlerFunc — обработчик команды. target — куда отвечать: канал или,
// для личных сообщений, ник отправителя.
type handlerFunc func(b *Bot, target string, actor game.Identity, args []string)

type command struct {
	level  roster.Level
	handle handlerFunc
}

// Команды в канале и в личке — разные таблицы: команда из "чужой" таблицы просто не найдётся.
var channelCommands = map[string]command{
	"start":  {roster.LevelNone, cmdStart},
	"stop":   {roster.LevelOperator, cmdStop},
	"pause":  {roster.LevelNone, cmdPause},
	"resume": {roster.LevelNone, cmdResume},
	"join":   {roster.LevelNone, cmdJoin},
	"j":      {roster.LevelNone, cmdJoin},
	"quit":   {roster.LevelNone, cmdQuit},
	"q":      {roster.LevelNone, cmdQuit},
	"remove": {roster.LevelOperator, cmdRemove},
	"cards":  {roster.LevelNone, cmdCards},
	"c":      {roster.LevelNone, cmdCards},
	"play":   {roster.LevelNone, cmdPlay},
	"pick":   {roster.LevelNone, cmdPick},
	"p":      {roster.LevelNone, cmdPick},
	"list":   {roster.LevelNone, cmdList},
	"winner": {roster.LevelNone, cmdWinner},
	"w":      {roster.LevelNone, cmdWinner},
	"points": {roster.LevelNone, cmdPoints},
	"status": {roster.LevelNone, cmdStatus},
	"beer":   {roster.LevelNone, cmdBeer},
	"help":   {roster.LevelNone, cmdHelp},
	"test":   {roster.LevelNone, cmdTest},
	"lang":   {roster.LevelOperator, cmdLang},
}

var privateCommands = map[string]command{
	"help":  {roster.LevelNone, privHelp},
	"cards": {roster.LevelNone, privCards},
	"c":     {roster.LevelNone, privCards},
	"test":  {roster.LevelNone, cmdTest},
}

// после символа-префикса: слово команды и (необязательно) остаток строки
var reCommand = regexp.MustCompile(`^(\S+)\s?(.*)$`)

// parseCommand разбирает "<prefix><word>[ <rest>]". Любой символ из prefixes
// годится как префикс. Строки другого вида — не команды.
func parseCommand(prefixes, text string) (name string, args []string, ok bool) {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || r == utf8.RuneError || !strings.ContainsRune(prefixes, r) {
		return "", nil, false
	}
	m := reCommand.FindStringSubmatch(text[size:])
	if m == nil {
		return "", nil, false
	}
	return strings.ToLower(m[1]), strings.Fields(m[2]), true
}

func (b *Bot) onMessage(m irc.PrivMsg) {
	b.log.Debug("message",
		zap.String("nick", m.Nick), zap.String("target", m.Target), zap.String("text", m.Text))

	name, args, ok := parseCommand(b.cfg.Prefix, m.Text)
	if !ok {
		return
	}
	actor := game.Identity{Nick: m.Nick, User: m.User, Host: m.Host}
	switch {
	case m.Private:
		b.routePrivate(name, actor, args)
	case b.cfg.isConfigured(m.Target):
		b.routeChannel(m.Target, name, actor, args)
	}
}

// routeChannel проверяет права через свежий NAMES и только потом вызывает
// обработчик. Отказ и таймаут молча глотаются.
func (b *Bot) routeChannel(channel, name string, actor game.Identity, args []string) {
	cmd, ok := channelCommands[name]
	if !ok {
		return
	}
	log := b.log.With(zap.String("channel", channel), zap.String("nick", actor.Nick), zap.String("command", name))
	err := b.roster.CheckPermission(channel, actor.Nick, cmd.level, func(allowed bool) {
		if !allowed {
			log.Info("permission denied", zap.String("level", string(cmd.level)))
			return
		}
		log.Info("command", zap.Strings("args", args))
		cmd.handle(b, channel, actor, args)
	})
	if err != nil {
		log.Error("command is misconfigured", zap.Error(err))
	}
}

// routePrivate: в личке канала нет, поэтому NAMES не запрашивается.
func (b *Bot) routePrivate(name string, actor game.Identity, args []string) {
	cmd, ok := privateCommands[name]
	if !ok {
		return
	}
	b.log.Info("private command", zap.String("nick", actor.Nick), zap.String("command", name))
	cmd.handle(b, actor.Nick, actor, args)
}
