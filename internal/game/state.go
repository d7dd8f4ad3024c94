package game

import "fmt"

type State int

const (
	StateForming State = iota
	StatePlayable
	StatePlayed
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateForming:
		return "forming"
	case StatePlayable:
		return "playable"
	case StatePlayed:
		return "played"
	case StateEnded:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// transitions — все допустимые переходы. PAUSED не состояние, а флаг.
var transitions = map[State][]State{
	StateForming:  {StatePlayable, StateEnded},
	StatePlayable: {StatePlayable, StatePlayed, StateEnded},
	StatePlayed:   {StatePlayable, StateEnded},
	StateEnded:    nil,
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type UnderflowPolicy string

const (
	UnderflowEnd   UnderflowPolicy = "end"
	UnderflowPause UnderflowPolicy = "pause"
)

// EndReason — почему сессия перешла в ENDED.
type EndReason int

const (
	EndStopped EndReason = iota
	EndRoundLimit
	EndPointLimit
	EndNoPlayers
	EndUnderflow
	EndDeckExhausted
)

func (r EndReason) String() string {
	switch r {
	case EndStopped:
		return "stopped"
	case EndRoundLimit:
		return "round limit"
	case EndPointLimit:
		return "point limit"
	case EndNoPlayers:
		return "no players"
	case EndUnderflow:
		return "not enough players"
	case EndDeckExhausted:
		return "deck exhausted"
	}
	return "unknown"
}
