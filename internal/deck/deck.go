// Package deck хранит содержимое колоды: вопросы (чёрные карты) и ответы
// (белые карты). Колода читается из TOML; если путь не задан, используется
// встроенная колода по умолчанию.
package deck

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultDeck []byte

// Question — чёрная карта. Pick — сколько белых карт нужно сыграть.
type Question struct {
	Text string `toml:"text"`
	Pick int    `toml:"pick"`
}

// Blanks — маркер пропуска в тексте вопроса.
const Blanks = "___"

// Fill подставляет ответы в пропуски вопроса; лишние ответы дописываются в конец.
func (q Question) Fill(answers []string) string {
	text := q.Text
	var rest []string
	for _, a := range answers {
		if strings.Contains(text, Blanks) {
			text = strings.Replace(text, Blanks, a, 1)
		} else {
			rest = append(rest, a)
		}
	}
	if len(rest) > 0 {
		text = strings.TrimSpace(text) + " " + strings.Join(rest, " / ")
	}
	return text
}

type Deck struct {
	Name      string     `toml:"name"`
	Questions []Question `toml:"questions"`
	Answers   []string   `toml:"answers"`
}

var ErrEmptyDeck = errors.New("deck has no cards")

// Parse декодирует колоду из TOML и проверяет её.
func Parse(data []byte) (*Deck, error) {
	var d Deck
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	for i := range d.Questions {
		if d.Questions[i].Pick <= 0 {
			d.Questions[i].Pick = 1
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load читает колоду из файла; пустой путь — встроенная колода.
func Load(path string) (*Deck, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

func Default() (*Deck, error) {
	return Parse(defaultDeck)
}

func (d *Deck) Validate() error {
	if len(d.Questions) == 0 || len(d.Answers) == 0 {
		return ErrEmptyDeck
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: empty text", i+1)
		}
	}
	return nil
}

// MaxPick — наибольшее число карт, которое может потребовать вопрос.
func (d *Deck) MaxPick() int {
	m := 0
	for _, q := range d.Questions {
		if q.Pick > m {
			m = q.Pick
		}
	}
	return m
}
