package texts

type entry struct {
	key string
	msg string
}

var english = []entry{
	{NoSession, "No game running. Start the game by typing %sstart."},
	{AlreadyRunning, "A game is already running. Type %sjoin to join the game."},
	{GameStarted, "%s has started a new game! Type %sjoin to join. The first round begins with %d players."},
	{Joined, "%s has joined the game."},
	{AlreadyJoined, "%s: you are already in the game."},
	{Left, "%s has left the game."},
	{Removed, "%s has been removed from the game."},
	{NotPlaying, "%s: you are not in the game."},
	{NoSuchPlayer, "%s is not in the game."},

	{RoundStart, "Round %d! %s is the judge."},
	{Question, "Question: %s [pick %d]"},
	{HandHeader, "Your cards in %s:"},
	{HandCard, "[%d] %s"},
	{YouPlayed, "You played in %s: %s"},
	{PlaysComplete, "Everyone has played. %s, pick the winner with %spick <number>:"},
	{PlayLine, "%d: %s"},
	{RoundWinner, "%s wins the round: %s (total: %d)"},
	{RoundVoided, "The round is cancelled, played cards go back to their owners."},

	{Paused, "Game paused. Type %sresume to continue."},
	{AutoPaused, "Not enough players, the game is paused. Once %d players are seated, type %sresume."},
	{Resumed, "Game resumed."},
	{NotPaused, "The game is not paused."},
	{IsPaused, "%s: the game is paused."},
	{NeedPlayers, "At least %d players are needed to continue."},

	{Stopped, "Game has been stopped."},
	{RoundLimit, "Round limit reached. Game over!"},
	{PointLimit, "Point limit reached. Game over!"},
	{NoPlayers, "All players have left. Game over."},
	{Underflow, "Not enough players to continue. Game over."},
	{DeckExhausted, "The deck has run out of cards. Game over."},
	{FinalWinner, "Winner: %s with %d point(s)!"},
	{NoWinner, "Nobody scored a point."},

	{PickUnavailable, "%spick command not available in current state."},
	{JudgeCannotPlay, "%s: you are the judge this round, wait for the others."},
	{AlreadyPlayed, "%s: you have already played this round."},
	{BadCards, "%s: play exactly %d different card(s) from your hand, e.g. %splay 1."},
	{NotJudge, "%s: only the judge can pick the winner."},
	{BadChoice, "%s: pick a number from 1 to %d."},
	{NotNow, "%s: that is not possible right now."},

	{List, "Players: %s"},
	{Points, "Points: %s"},
	{StatusForming, "Waiting for players: %d of %d. Type %sjoin to join."},
	{StatusPlayable, "Round %d, judge %s. Waiting for: %s"},
	{StatusPlayed, "Round %d. Waiting for %s to pick the winner."},
	{StatusPaused, "The game is paused."},

	{Beer, "slides a tall, cold glass of %s over to %s"},
	{TestPing, "Can you hear me now?"},
	{Invited, "Attempting to join %s"},
	{Help, "Commands: %[1]sstart [#] - start a game of # rounds; %[1]sjoin, %[1]sj - join the game; " +
		"%[1]squit, %[1]sq - leave the game; %[1]scards, %[1]sc - see your cards; " +
		"%[1]spick, %[1]sp [# ...] - play a card or choose a winner; %[1]stest - get a test NOTICE from the bot; " +
		"other commands: %[1]spause, %[1]sresume, %[1]splay, %[1]swinner, %[1]slist, %[1]spoints, %[1]sstatus, %[1]sbeer [nick]"},
	{PrivateHelp, "Private commands: help, cards (your hands in every game), test."},
	{NoCards, "You are not playing in any game."},
	{LangCurrent, "Language: %s. Available: %s."},
	{LangSet, "Language set to %s."},
	{LangUnknown, "Unknown language %s. Available: %s."},
	{ErrorWarning, "WARNING: The bot has generated an unhandled error. Quirks may ensue."},
}
