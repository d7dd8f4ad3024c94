package texts

// Ключи каталога. Аргументы каждой фразы видны в messages_en.go.
const (
	NoSession      = "game.no_session"
	AlreadyRunning = "game.already_running"
	GameStarted    = "game.started"
	Joined         = "game.joined"
	AlreadyJoined  = "game.already_joined"
	Left           = "game.left"
	Removed        = "game.removed"
	NotPlaying     = "game.not_playing"
	NoSuchPlayer   = "game.no_such_player"

	RoundStart    = "round.start"
	Question      = "round.question"
	HandHeader    = "round.hand_header"
	HandCard      = "round.hand_card"
	YouPlayed     = "round.you_played"
	PlaysComplete = "round.plays_complete"
	PlayLine      = "round.play_line"
	RoundWinner   = "round.winner"
	RoundVoided   = "round.voided"

	Paused      = "game.paused"
	AutoPaused  = "game.auto_paused"
	Resumed     = "game.resumed"
	NotPaused   = "game.not_paused"
	IsPaused    = "game.is_paused"
	NeedPlayers = "game.need_players"

	Stopped       = "end.stopped"
	RoundLimit    = "end.round_limit"
	PointLimit    = "end.point_limit"
	NoPlayers     = "end.no_players"
	Underflow     = "end.underflow"
	DeckExhausted = "end.deck_exhausted"
	FinalWinner   = "end.final_winner"
	NoWinner      = "end.no_winner"

	PickUnavailable = "error.pick_unavailable"
	JudgeCannotPlay = "error.judge_cannot_play"
	AlreadyPlayed   = "error.already_played"
	BadCards        = "error.bad_cards"
	NotJudge        = "error.not_judge"
	BadChoice       = "error.bad_choice"
	NotNow          = "error.not_now"

	List           = "info.list"
	Points         = "info.points"
	StatusForming  = "info.status_forming"
	StatusPlayable = "info.status_playable"
	StatusPlayed   = "info.status_played"
	StatusPaused   = "info.status_paused"

	Beer         = "misc.beer"
	TestPing     = "misc.test"
	Invited      = "misc.invited"
	Help         = "misc.help"
	PrivateHelp  = "misc.private_help"
	NoCards      = "misc.no_cards"
	LangCurrent  = "misc.lang_current"
	LangSet      = "misc.lang_set"
	LangUnknown  = "misc.lang_unknown"
	ErrorWarning = "misc.error_warning"
)
