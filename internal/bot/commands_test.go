package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/cardsbot/internal/game"
)

// lines оставляет только строки, начинающиеся с prefix.
func lines(out []string, prefix string) []string {
	var res []string
	for _, l := range out {
		if strings.HasPrefix(l, prefix) {
			res = append(res, l)
		}
	}
	return res
}

// seatThree — alice стартует, bob и carol садятся; первый раунд судит alice.
func (h *harness) seatThree(start string) {
	h.t.Helper()
	h.do("alice", start)
	h.do("bob", "!join")
	h.do("carol", "!j")
	require.Equal(h.t, game.StatePlayable, h.session().State())
}

func TestStart_AnnouncesAndSeats(t *testing.T) {
	h := newHarness(t)

	out := h.do("alice", "!start")
	assert.Equal(t, []string{
		"say #cards alice has started a new game! Type !join to join. The first round begins with 3 players.",
		"say #cards alice has joined the game.",
	}, out)
	assert.Equal(t, game.StateForming, h.session().State())
}

func TestStart_Twice(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")

	assert.Equal(t, []string{"say #cards alice: you are already in the game."}, h.do("alice", "!start"))
	assert.Equal(t, []string{"say #cards A game is already running. Type !join to join the game."}, h.do("bob", "!start"))
	assert.Equal(t, 1, h.b.games.Len())
}

func TestStart_RoundLimitArgument(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start 2")
	assert.Equal(t, 2, h.session().Config().RoundLimit)
}

func TestNoSession(t *testing.T) {
	h := newHarness(t)
	for _, cmd := range []string{"!quit", "!cards", "!pick 1", "!list", "!points", "!status", "!pause"} {
		assert.Equal(t, []string{"say #cards No game running. Start the game by typing !start."}, h.do("alice", cmd), cmd)
	}
}

func TestJoin_StartsWhenEnabled(t *testing.T) {
	h := newHarness(t)
	out := h.do("bob", "!join")
	assert.Contains(t, out, "say #cards bob has started a new game! Type !join to join. The first round begins with 3 players.")
	assert.Equal(t, 1, h.b.games.Len())

	// аргументы join не становятся лимитом раундов
	h = newHarness(t)
	h.do("bob", "!join 5")
	assert.Zero(t, h.session().Config().RoundLimit)

	h = newHarness(t, func(c *Config) { c.StartOnFirstJoin = false })
	assert.Equal(t, []string{"say #cards No game running. Start the game by typing !start."}, h.do("bob", "!join"))
	assert.Zero(t, h.b.games.Len())
}

func TestFirstRound_DealsHands(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")
	h.do("bob", "!join")
	out := h.do("carol", "!join")

	assert.Contains(t, out, "say #cards Round 1! alice is the judge.")
	question := lines(out, "say #cards Question: Q")
	require.Len(t, question, 1)
	assert.True(t, strings.HasSuffix(question[0], "[pick 1]"))
	notices := lines(out, "notice ")
	require.Len(t, notices, 2, "judge gets no hand")
	assert.True(t, strings.HasPrefix(notices[0], "notice bob Your cards in #cards: [1] "))
	assert.True(t, strings.HasPrefix(notices[1], "notice carol Your cards in #cards: [1] "))
}

func TestPick_UnavailableWhileForming(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")
	assert.Equal(t, []string{"say #cards !pick command not available in current state."}, h.do("bob", "!pick 1"))
}

func TestRoundLimit_FullGame(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start 1")

	out := h.do("bob", "!pick 1")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "notice bob You played in #cards: A"))

	out = h.do("carol", "!p 1")
	assert.Contains(t, out, "say #cards Everyone has played. alice, pick the winner with !pick <number>:")
	assert.Len(t, lines(out, "say #cards 1: "), 1)
	assert.Len(t, lines(out, "say #cards 2: "), 1)
	assert.Equal(t, game.StatePlayed, h.session().State())

	out = h.do("alice", "!pick 1")
	won := lines(out, "say #cards ")
	require.NotEmpty(t, won)
	assert.Contains(t, won[0], "wins the round")
	assert.Contains(t, won[0], "(total: 1)")
	assert.Contains(t, out, "say #cards Round limit reached. Game over!")
	assert.Len(t, lines(out, "say #cards Winner: "), 1)
	assert.Len(t, lines(out, "say #cards Points: "), 1)

	assert.Zero(t, h.b.games.Len(), "ended session is removed")
	assert.Equal(t, []string{"say #cards No game running. Start the game by typing !start."}, h.do("alice", "!status"))
}

func TestPlay_Errors(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")

	assert.Equal(t, []string{"say #cards alice: you are the judge this round, wait for the others."}, h.do("alice", "!play 1"))
	assert.Equal(t, []string{"say #cards bob: play exactly 1 different card(s) from your hand, e.g. !play 1."}, h.do("bob", "!play 99"))
	assert.Equal(t, []string{"say #cards bob: play exactly 1 different card(s) from your hand, e.g. !play 1."}, h.do("bob", "!play x"))
	assert.Equal(t, []string{"say #cards dave: you are not in the game."}, h.do("dave", "!play 1"))

	h.do("bob", "!play 1")
	assert.Equal(t, []string{"say #cards bob: you have already played this round."}, h.do("bob", "!play 2"))

	// winner в PLAYABLE недоступен
	assert.Equal(t, []string{"say #cards alice: that is not possible right now."}, h.do("alice", "!winner 1"))
}

func TestWinner_Errors(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")
	h.do("bob", "!pick 1")
	h.do("carol", "!pick 1")

	assert.Equal(t, []string{"say #cards bob: only the judge can pick the winner."}, h.do("bob", "!pick 1"))
	assert.Equal(t, []string{"say #cards alice: pick a number from 1 to 2."}, h.do("alice", "!w 3"))
	assert.Equal(t, []string{"say #cards alice: pick a number from 1 to 2."}, h.do("alice", "!w"))

	out := h.do("alice", "!w 2")
	assert.Contains(t, out, "say #cards Round 2! bob is the judge.")
	assert.Equal(t, 2, h.session().Round().Number)
}

func TestPauseResume(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")

	assert.Equal(t, []string{"say #cards dave: you are not in the game."}, h.do("dave", "!pause"))
	assert.Equal(t, []string{"say #cards Game paused. Type !resume to continue."}, h.do("bob", "!pause"))
	assert.Equal(t, []string{"say #cards carol: the game is paused."}, h.do("carol", "!pick 1"))
	assert.Equal(t, []string{
		"say #cards Round 1, judge alice. Waiting for: bob, carol",
		"say #cards The game is paused.",
	}, h.do("alice", "!status"))

	assert.Equal(t, []string{"say #cards Game resumed."}, h.do("carol", "!resume"))
	assert.Equal(t, []string{"say #cards The game is not paused."}, h.do("carol", "!resume"))
}

func TestQuit_UnderflowEndsGame(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")

	out := h.do("carol", "!quit")
	assert.Equal(t, []string{
		"say #cards carol has left the game.",
		"say #cards Not enough players to continue. Game over.",
		"say #cards Nobody scored a point.",
	}, out)
	assert.Zero(t, h.b.games.Len())
}

func TestQuit_UnderflowPauses(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Game.Underflow = "pause" })
	h.seatThree("!start")

	out := h.do("carol", "!q")
	assert.Equal(t, []string{
		"say #cards carol has left the game.",
		"say #cards The round is cancelled, played cards go back to their owners.",
		"say #cards Not enough players, the game is paused. Once 3 players are seated, type !resume.",
	}, out)
	assert.Equal(t, []string{"say #cards At least 3 players are needed to continue."}, h.do("bob", "!resume"))

	h.do("dave", "!join")
	out = h.do("bob", "!resume")
	assert.Equal(t, "say #cards Game resumed.", out[0])
	assert.Contains(t, out, "say #cards Round 1! alice is the judge.")
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")
	h.do("bob", "!join")

	assert.Equal(t, []string{"say #cards zed is not in the game."}, h.do("op", "!remove zed"))
	assert.Equal(t, []string{"say #cards bob has been removed from the game."}, h.do("op", "!remove BOB"))
	assert.Equal(t, "Players: alice", strings.TrimPrefix(h.do("op", "!list")[0], "say #cards "))
}

func TestCards_InChannel(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")

	out := h.do("bob", "!cards")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "notice bob Your cards in #cards: [1] A"))
	assert.Contains(t, out[0], "[10] ")
}

func TestListAndPoints(t *testing.T) {
	h := newHarness(t)
	h.seatThree("!start")

	assert.Equal(t, []string{"say #cards Players: alice, bob, carol"}, h.do("dave", "!list"))
	assert.Equal(t, []string{"say #cards Points: alice: 0, bob: 0, carol: 0"}, h.do("dave", "!points"))
}

func TestStop_ByOperator(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")

	assert.Equal(t, []string{
		"say #cards Game has been stopped.",
		"say #cards Nobody scored a point.",
	}, h.do("op", "!stop"))
	assert.Zero(t, h.b.games.Len())
}

func TestVoicePlayers(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.VoicePlayers = true })

	out := h.do("alice", "!start")
	assert.Contains(t, out, "mode #cards +v alice")
	out = h.do("op", "!stop")
	assert.Contains(t, out, "mode #cards -v alice")
}

func TestParseNumbers(t *testing.T) {
	n, err := parseNumbers([]string{"1", "3"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, n)

	_, err = parseNumbers([]string{"1", "x"})
	assert.Error(t, err)
}

func TestRoundTrip_StartJoinStop(t *testing.T) {
	h := newHarness(t)
	h.do("alice", "!start")
	h.do("dave", "!join")
	require.Len(t, h.b.games.Seated(identity("dave")), 1)

	h.do("op", "!stop")
	assert.Zero(t, h.b.games.Len())
	assert.Empty(t, h.b.games.Seated(identity("dave")))
	assert.Empty(t, h.b.games.Seated(identity("alice")))
}
