package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/EgorLis/cardsbot/internal/bot"
	"github.com/EgorLis/cardsbot/internal/deck"
	"github.com/EgorLis/cardsbot/internal/irc"
)

func newRunCmd() *cobra.Command {
	v := viper.New()
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to the IRC server and serve games",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(debug)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			cfg, err := bot.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			d, err := deck.Load(cfg.Deck)
			if err != nil {
				return err
			}
			log.Info("deck loaded",
				zap.String("deck", d.Name), zap.Int("questions", len(d.Questions)), zap.Int("answers", len(d.Answers)))

			client := irc.New(irc.Config{
				Server:       cfg.Server,
				Nick:         cfg.Nick,
				User:         cfg.User,
				RealName:     cfg.RealName,
				Password:     cfg.Password,
				Channels:     cfg.Channels,
				SendInterval: cfg.SendInterval,
			}, log)

			b := bot.New(cfg, client, d, log)
			b.Bind(client)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("running… press Ctrl+C to stop",
				zap.String("version", version), zap.String("server", cfg.Server), zap.Strings("channels", cfg.Channels))
			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("stopped")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (default "+bot.DefaultConfigPath+" if present)")
	f.BoolVar(&debug, "debug", false, "development logging with debug level")
	f.String("server", "", "server address: irc://, ircs://, ws:// or wss://")
	f.String("nick", "", "bot nickname")
	f.StringSlice("channels", nil, "channels to join")
	f.String("prefix", "", "command prefix characters")
	f.String("language", "", "default language (en, de)")
	f.String("deck", "", "deck TOML file (built-in deck if empty)")
	for _, name := range []string{"server", "nick", "channels", "prefix", "language", "deck"} {
		_ = v.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
