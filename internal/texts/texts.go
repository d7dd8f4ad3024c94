// Package texts хранит все фразы, которые бот пишет в IRC, в каталоге
// golang.org/x/text. Ключи — константы ниже, переводы — messages_*.go.
package texts

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	supported = []language.Tag{language.English, language.German}
	matcher   = language.NewMatcher(supported)
	builder   = catalog.NewBuilder(catalog.Fallback(language.English))
)

func register(tag language.Tag, msgs []entry) {
	for _, e := range msgs {
		if err := builder.SetString(tag, e.key, e.msg); err != nil {
			panic(fmt.Sprintf("texts: %s %q: %v", tag, e.key, err))
		}
	}
}

func init() {
	register(language.English, english)
	register(language.German, german)
}

// Supported — языки, для которых есть перевод.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

func Default() language.Tag {
	return language.English
}

// ParseTag сопоставляет строку вроде "de", "de-AT" или "english" с поддерживаемым языком.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default(), false
	}
	for _, t := range supported {
		if strings.EqualFold(display(t), value) {
			return t, true
		}
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default(), false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default(), false
	}
	return supported[idx], true
}

// Names — коды поддерживаемых языков через запятую.
func Names() string {
	out := make([]string, 0, len(supported))
	for _, t := range supported {
		out = append(out, t.String())
	}
	return strings.Join(out, ", ")
}

func display(t language.Tag) string {
	switch t {
	case language.English:
		return "english"
	case language.German:
		return "german"
	}
	return t.String()
}

// Printer возвращает принтер каталога бота для языка.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(builder))
}

// Sprintf — короткая запись для Printer(tag).Sprintf(key, args...).
func Sprintf(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}
