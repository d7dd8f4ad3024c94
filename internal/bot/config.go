package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/EgorLis/cardsbot/internal/game"
	"github.com/EgorLis/cardsbot/internal/roster"
	"github.com/EgorLis/cardsbot/internal/texts"
)

const (
	DefaultConfigPath = "conf/cardsbot.toml"
	EnvPrefix         = "CARDSBOT_"
)

// Greeting — сообщение, которое бот отправляет по событию. Target и Message —
// шаблоны text/template с полями .Nick и .Channel.
type Greeting struct {
	Target  string `mapstructure:"target"`
	Message string `mapstructure:"message"`
}

type GameConf struct {
	MinPlayers int    `mapstructure:"min_players" env:"MIN_PLAYERS"`
	HandSize   int    `mapstructure:"hand_size" env:"HAND_SIZE"`
	RoundLimit int    `mapstructure:"round_limit" env:"ROUND_LIMIT"`
	PointLimit int    `mapstructure:"point_limit" env:"POINT_LIMIT"`
	Underflow  string `mapstructure:"underflow" env:"UNDERFLOW"`
}

func (g GameConf) session() game.Config {
	return game.Config{
		MinPlayers: g.MinPlayers,
		HandSize:   g.HandSize,
		RoundLimit: g.RoundLimit,
		PointLimit: g.PointLimit,
		Underflow:  game.UnderflowPolicy(g.Underflow),
	}
}

type Config struct {
	Server   string   `mapstructure:"server" env:"SERVER"`
	Nick     string   `mapstructure:"nick" env:"NICK"`
	User     string   `mapstructure:"user" env:"USER"`
	RealName string   `mapstructure:"real_name" env:"REAL_NAME"`
	Password string   `mapstructure:"password" env:"PASSWORD"`
	Channels []string `mapstructure:"channels" env:"CHANNELS" envSeparator:","`

	// Prefix — набор символов, любой из которых начинает команду ("!." — и !start, и .start).
	Prefix           string        `mapstructure:"prefix" env:"PREFIX"`
	RosterTimeout    time.Duration `mapstructure:"roster_timeout" env:"ROSTER_TIMEOUT"`
	SendInterval     time.Duration `mapstructure:"send_interval" env:"SEND_INTERVAL"`
	StartOnFirstJoin bool          `mapstructure:"start_on_first_join" env:"START_ON_FIRST_JOIN"`
	VoicePlayers     bool          `mapstructure:"voice_players" env:"VOICE_PLAYERS"`
	WarnOnError      bool          `mapstructure:"warn_on_error" env:"WARN_ON_ERROR"`
	Language         string        `mapstructure:"language" env:"LANGUAGE"`
	Deck             string        `mapstructure:"deck" env:"DECK"`
	Beers            []string      `mapstructure:"beers" env:"BEERS" envSeparator:","`

	ConnectCommands  []Greeting            `mapstructure:"connect_commands"`
	JoinCommands     map[string][]Greeting `mapstructure:"join_commands"`
	UserJoinCommands map[string][]Greeting `mapstructure:"user_join_commands"`

	Game GameConf `mapstructure:"game" envPrefix:"GAME_"`
}

// SetDefaults регистрирует значения по умолчанию; их перекрывают файл, флаги и окружение.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("nick", "cardsbot")
	v.SetDefault("prefix", "!")
	v.SetDefault("roster_timeout", roster.DefaultTimeout)
	v.SetDefault("send_interval", 300*time.Millisecond)
	v.SetDefault("start_on_first_join", true)
	v.SetDefault("warn_on_error", true)
	v.SetDefault("language", "en")
	v.SetDefault("beers", []string{"Guinness", "Pilsner Urquell", "Hoegaarden", "Kilkenny", "Erdinger", "Leffe", "Sierra Nevada"})
	v.SetDefault("game.min_players", 3)
	v.SetDefault("game.hand_size", 10)
	v.SetDefault("game.underflow", string(game.UnderflowEnd))
}

// LoadConfig читает конфиг: значения по умолчанию, затем файл (path или
// conf/cardsbot.toml, если он есть), флаги, уже привязанные к v, и переменные
// CARDSBOT_*.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cardsbot")
		v.SetConfigType("toml")
		v.AddConfigPath("conf")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// без файла можно жить, только если путь не задан явно
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Prefix = strings.TrimSpace(c.Prefix)
	c.Game.Underflow = strings.ToLower(strings.TrimSpace(c.Game.Underflow))
	if c.User == "" {
		c.User = c.Nick
	}
	chans := c.Channels[:0]
	for _, ch := range c.Channels {
		if ch = strings.TrimSpace(ch); ch != "" {
			chans = append(chans, ch)
		}
	}
	c.Channels = chans
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return errors.New("config: server is required")
	}
	if strings.TrimSpace(c.Nick) == "" {
		return errors.New("config: nick is required")
	}
	if c.Prefix == "" {
		return errors.New("config: prefix must contain at least one character")
	}
	switch game.UnderflowPolicy(c.Game.Underflow) {
	case game.UnderflowEnd, game.UnderflowPause:
	default:
		return fmt.Errorf("config: game.underflow must be %q or %q, got %q",
			game.UnderflowEnd, game.UnderflowPause, c.Game.Underflow)
	}
	if c.Game.MinPlayers < 3 {
		return fmt.Errorf("config: game.min_players must be at least 3 (a judge and two players), got %d", c.Game.MinPlayers)
	}
	if c.Game.RoundLimit < 0 || c.Game.PointLimit < 0 {
		return errors.New("config: game limits cannot be negative")
	}
	if _, ok := texts.ParseTag(c.Language); !ok {
		return fmt.Errorf("config: unsupported language %q (available: %s)", c.Language, texts.Names())
	}
	return nil
}

// channelKey — каналы сравниваются без учёта регистра.
func channelKey(channel string) string {
	return roster.FoldNick(channel)
}

// isConfigured сообщает, входит ли канал в список каналов бота.
func (c *Config) isConfigured(channel string) bool {
	key := channelKey(channel)
	for _, ch := range c.Channels {
		if channelKey(ch) == key {
			return true
		}
	}
	return false
}

// greetings — приветствия для канала; ключи в конфиге регистронезависимы
// (viper всё равно приводит их к нижнему регистру).
func greetingsFor(m map[string][]Greeting, channel string) []Greeting {
	key := channelKey(channel)
	for ch, gs := range m {
		if channelKey(ch) == key {
			return gs
		}
	}
	return nil
}
