package roster

import (
	"fmt"
	"strings"
)

// Role — роль ника в канале на момент ответа NAMES.
type Role int

const (
	RoleNone Role = iota
	RoleVoiced
	RoleOperator
)

func (r Role) String() string {
	switch r {
	case RoleVoiced:
		return "voiced"
	case RoleOperator:
		return "operator"
	default:
		return "none"
	}
}

// RoleFromPrefix переводит префиксы ника из NAMES ("@", "+", "~@" и т.п.) в роль.
// При multi-prefix берётся старшая роль.
func RoleFromPrefix(prefix string) Role {
	role := RoleNone
	for _, c := range prefix {
		switch c {
		case '~', '&', '@':
			return RoleOperator
		case '%', '+':
			role = RoleVoiced
		}
	}
	return role
}

// Level — уровень, который команда требует от автора.
type Level string

const (
	LevelNone     Level = "none"
	LevelVoiced   Level = "voiced"
	LevelOperator Level = "operator"
)

// allowedRoles: оператор подходит и под voiced, и под none.
var allowedRoles = map[Level][]Role{
	LevelOperator: {RoleOperator},
	LevelVoiced:   {RoleVoiced, RoleOperator},
	LevelNone:     {RoleNone, RoleVoiced, RoleOperator},
}

// ParseLevel принимает как полные имена, так и старые короткие ("", "v", "o").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LevelNone, nil
	case "v", "voiced", "voice":
		return LevelVoiced, nil
	case "o", "op", "operator":
		return LevelOperator, nil
	}
	return "", fmt.Errorf("unknown permission level %q", s)
}

// Valid сообщает, известен ли уровень политике.
func (l Level) Valid() bool {
	_, ok := allowedRoles[l]
	return ok
}

// Satisfies проверяет роль ника в снапшоте против требуемого уровня.
// Отсутствующий в снапшоте ник считается RoleNone. Неизвестный уровень —
// ошибка конфигурации, а не отказ.
func Satisfies(level Level, nick string, snap Snapshot) (bool, error) {
	roles, ok := allowedRoles[level]
	if !ok {
		return false, fmt.Errorf("unknown permission level %q", string(level))
	}
	have := snap.Role(nick)
	for _, r := range roles {
		if r == have {
			return true, nil
		}
	}
	return false, nil
}
