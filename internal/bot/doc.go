// Package bot — прикладной слой карточной игры поверх IRC-клиента. Бот:
//   - разбирает команды из каналов и из лички (!start, !join, !pick, ...);
//   - перед каждой командой в канале запрашивает свежий NAMES и проверяет
//     права автора (см. roster.Correlator);
//   - держит по одной игре на канал (game.Registry) и озвучивает её события;
//   - по желанию выдаёт игрокам voice, шлёт приветствия и принимает INVITE.
//
// Все события (сообщения, JOIN, ответы NAMES, таймауты) выполняются в одном
// диспетчере по одному, поэтому игровое состояние не требует блокировок.
// Паника в обработчике логируется и, если включено warn_on_error, бот
// предупреждает об этом каналы.
//
// Жизненный цикл:
//   - LoadConfig: значения по умолчанию, TOML-файл, флаги и CARDSBOT_*.
//   - New(cfg, client, deck, log), затем Bind(client).
//   - Run(ctx) до отмены контекста.
//
// Пример:
//
//	cfg, _ := bot.LoadConfig(viper.New(), "conf/cardsbot.toml")
//	d, _ := deck.Load(cfg.Deck)
//	client := irc.New(irc.Config{Server: cfg.Server, Nick: cfg.Nick, Channels: cfg.Channels}, log)
//
//	b := bot.New(cfg, client, d, log)
//	b.Bind(client)
//	if err := b.Run(ctx); err != nil { log.Fatal("bot", zap.Error(err)) }
package bot
