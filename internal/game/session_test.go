package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/cardsbot/internal/deck"
)

func testDeck() *deck.Deck {
	d := &deck.Deck{Name: "test"}
	for i := 0; i < 10; i++ {
		d.Questions = append(d.Questions, deck.Question{Text: fmt.Sprintf("Q%d ___", i), Pick: 1})
	}
	for i := 0; i < 200; i++ {
		d.Answers = append(d.Answers, fmt.Sprintf("A%d", i))
	}
	return d
}

func ident(nick string) Identity {
	return Identity{Nick: nick, User: "~" + nick, Host: nick + ".example.org"}
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	return NewSession("#cards", cfg, testDeck(), rand.New(rand.NewPCG(1, 2)))
}

func seat(t *testing.T, s *Session, nicks ...string) {
	t.Helper()
	for _, n := range nicks {
		_, err := s.AddPlayer(ident(n))
		require.NoError(t, err, n)
	}
}

// playAll сдаёт первую карту за каждого, кто ещё не сыграл.
func playAll(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range s.Waiting() {
		require.NoError(t, s.PlayCard(p.Identity, []int{1}), p.Nick)
	}
}

func tokenOf(t *testing.T, r *Round, nick string) int {
	t.Helper()
	for i, pl := range r.Plays() {
		if pl.Player.Nick == nick {
			return i + 1
		}
	}
	t.Fatalf("%s has no play", nick)
	return 0
}

func TestSession_StartsInForming(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice")

	assert.Equal(t, StateForming, s.State())
	assert.Nil(t, s.Round())
}

func TestSession_FirstRoundAtMinPlayers(t *testing.T) {
	s := newTestSession(t, DefaultConfig())

	var dealt []string
	s.Hooks.OnDeal = func(p *Player) { dealt = append(dealt, p.Nick) }
	seat(t, s, "judge", "alice", "bob")

	require.Equal(t, StatePlayable, s.State())
	r := s.Round()
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Number)
	assert.Equal(t, "judge", r.Judge.Nick)
	assert.Equal(t, []string{"alice", "bob"}, dealt)
	for _, p := range s.Players() {
		assert.Len(t, p.Hand, 10)
	}
}

func TestSession_DuplicateMatchedByUserAndHost(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "alice")

	renamed := ident("alice")
	renamed.Nick = "alice_away"
	_, err := s.AddPlayer(renamed)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)

	sameNick := Identity{Nick: "alice", User: "other", Host: "elsewhere"}
	_, err = s.AddPlayer(sameNick)
	assert.NoError(t, err, "same nick from another user+host is another player")
}

func TestSession_RoundLimitScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoundLimit = 1
	s := newTestSession(t, cfg)

	var ended []EndReason
	s.Hooks.OnEnd = func(r EndReason) { ended = append(ended, r) }

	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)
	require.Equal(t, StatePlayed, s.State())

	play, err := s.SelectWinner(ident("judge"), tokenOf(t, s.Round(), "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", play.Player.Nick)

	scores := map[string]int{}
	for _, p := range s.Players() {
		scores[p.Nick] = p.Score
	}
	assert.Equal(t, map[string]int{"judge": 0, "alice": 1, "bob": 0}, scores)
	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, []EndReason{EndRoundLimit}, ended)
}

func TestSession_NextRoundRotatesJudge(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)

	_, err := s.SelectWinner(ident("judge"), 1)
	require.NoError(t, err)

	require.Equal(t, StatePlayable, s.State())
	assert.Equal(t, 2, s.Round().Number)
	assert.Equal(t, "alice", s.Round().Judge.Nick)
	for _, p := range s.Players() {
		assert.Len(t, p.Hand, 10, "hands are refilled for %s", p.Nick)
	}
}

func TestSession_PointLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PointLimit = 1
	s := newTestSession(t, cfg)
	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)

	_, err := s.SelectWinner(ident("judge"), tokenOf(t, s.Round(), "bob"))
	require.NoError(t, err)

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, EndPointLimit, s.EndReason())
}

func TestSession_PlayCardGuards(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice")

	assert.ErrorIs(t, s.PlayCard(ident("alice"), []int{1}), ErrInvalidState, "no round while forming")
	assert.ErrorIs(t, s.PlayCard(ident("nobody"), []int{1}), ErrUnknownPlayer)

	seat(t, s, "bob")
	assert.ErrorIs(t, s.PlayCard(ident("judge"), []int{1}), ErrJudgeCannotPlay)
	assert.ErrorIs(t, s.PlayCard(ident("alice"), []int{1, 2}), ErrInvalidCards)
	assert.ErrorIs(t, s.PlayCard(ident("alice"), []int{11}), ErrInvalidSelection)
	assert.ErrorIs(t, s.PlayCard(ident("alice"), nil), ErrInvalidCards)

	card := s.Player(ident("alice")).Hand[2]
	require.NoError(t, s.PlayCard(ident("alice"), []int{3}))
	assert.Len(t, s.Player(ident("alice")).Hand, 9)
	assert.Equal(t, []string{card}, s.Round().Plays()[0].Cards)
	assert.ErrorIs(t, s.PlayCard(ident("alice"), []int{1}), ErrAlreadyPlayed)
	assert.Equal(t, StatePlayable, s.State())

	require.NoError(t, s.PlayCard(ident("bob"), []int{1}))
	assert.Equal(t, StatePlayed, s.State())
	assert.ErrorIs(t, s.PlayCard(ident("bob"), []int{1}), ErrInvalidState)
}

func TestSession_SelectWinnerGuards(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")

	_, err := s.SelectWinner(ident("judge"), 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	playAll(t, s)
	_, err = s.SelectWinner(ident("alice"), 1)
	assert.ErrorIs(t, err, ErrNotJudge)
	_, err = s.SelectWinner(ident("judge"), 0)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, err = s.SelectWinner(ident("judge"), 3)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, StatePlayed, s.State())
}

func TestSession_JoinWhilePlayedIsRejected(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)

	_, err := s.AddPlayer(ident("carol"))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSession_JoinMidRoundGetsHandAndPlays(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")
	require.NoError(t, s.PlayCard(ident("alice"), []int{1}))
	seat(t, s, "carol")

	assert.Len(t, s.Player(ident("carol")).Hand, 10)
	assert.Len(t, s.Waiting(), 2)
	require.NoError(t, s.PlayCard(ident("bob"), []int{1}))
	assert.Equal(t, StatePlayable, s.State(), "carol still owes a play")
	require.NoError(t, s.PlayCard(ident("carol"), []int{1}))
	assert.Equal(t, StatePlayed, s.State())
}

func TestSession_PauseResume(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge")

	assert.ErrorIs(t, s.Pause(), ErrInvalidState, "cannot pause while forming")

	seat(t, s, "alice", "bob")
	require.NoError(t, s.Pause())
	assert.True(t, s.Paused())
	assert.ErrorIs(t, s.Pause(), ErrInvalidState)
	assert.ErrorIs(t, s.PlayCard(ident("alice"), []int{1}), ErrPaused)

	require.NoError(t, s.Resume())
	assert.False(t, s.Paused())
	assert.Equal(t, StatePlayable, s.State())
	assert.ErrorIs(t, s.Resume(), ErrNotPaused)

	playAll(t, s)
	require.NoError(t, s.Pause())
	assert.Equal(t, StatePlayed, s.State())
	_, err := s.SelectWinner(ident("judge"), 1)
	assert.ErrorIs(t, err, ErrPaused)
	require.NoError(t, s.Resume())
	assert.Equal(t, StatePlayed, s.State(), "resumes into the state it was paused from")

	s.Stop()
	assert.ErrorIs(t, s.Pause(), ErrInvalidState, "cannot pause once ended")
}

func TestSession_PausedRoundDoesNotAdvanceUntilResume(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob", "carol")
	require.NoError(t, s.PlayCard(ident("alice"), []int{1}))
	require.NoError(t, s.PlayCard(ident("bob"), []int{1}))
	require.NoError(t, s.Pause())

	_, err := s.RemovePlayer(ident("carol"))
	require.NoError(t, err)
	assert.Equal(t, StatePlayable, s.State())

	require.NoError(t, s.Resume())
	assert.Equal(t, StatePlayed, s.State())
}

func TestSession_UnderflowEnds(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")

	_, err := s.RemovePlayer(ident("bob"))
	require.NoError(t, err)

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, EndUnderflow, s.EndReason())
}

func TestSession_UnderflowAutoPauses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Underflow = UnderflowPause
	s := newTestSession(t, cfg)

	var autos []bool
	voided := 0
	s.Hooks.OnPause = func(auto bool) { autos = append(autos, auto) }
	s.Hooks.OnRoundVoided = func() { voided++ }

	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)
	require.Equal(t, StatePlayed, s.State())
	aliceHand := len(s.Player(ident("alice")).Hand)

	_, err := s.RemovePlayer(ident("bob"))
	require.NoError(t, err)

	assert.Equal(t, StatePlayable, s.State())
	assert.True(t, s.Paused())
	assert.Nil(t, s.Round(), "the round is voided")
	assert.Equal(t, aliceHand+1, len(s.Player(ident("alice")).Hand), "played card returned")
	assert.Equal(t, []bool{true}, autos)
	assert.Equal(t, 1, voided)

	assert.ErrorIs(t, s.Resume(), ErrNotEnoughPlayers)

	seat(t, s, "carol")
	require.NoError(t, s.Resume())
	require.NotNil(t, s.Round())
	assert.Equal(t, 1, s.Round().Number)
	assert.Equal(t, StatePlayable, s.State())
}

func TestSession_JudgeLeavingRestartsRound(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob", "carol")
	require.NoError(t, s.PlayCard(ident("alice"), []int{1}))

	voided := 0
	s.Hooks.OnRoundVoided = func() { voided++ }

	_, err := s.RemovePlayer(ident("judge"))
	require.NoError(t, err)

	assert.Equal(t, 1, voided)
	assert.Equal(t, StatePlayable, s.State())
	r := s.Round()
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Number)
	assert.Equal(t, "alice", r.Judge.Nick)
	assert.Empty(t, r.Plays())
	assert.Len(t, s.Player(ident("alice")).Hand, 10)
}

func TestSession_LastPlayerOwedLeaves(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob", "carol")
	require.NoError(t, s.PlayCard(ident("alice"), []int{1}))
	require.NoError(t, s.PlayCard(ident("bob"), []int{1}))

	_, err := s.RemovePlayer(ident("carol"))
	require.NoError(t, err)

	assert.Equal(t, StatePlayed, s.State())
	assert.Len(t, s.Round().Plays(), 2)
}

func TestSession_WithdrawnPlayCannotWin(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob", "carol")
	playAll(t, s)

	token := tokenOf(t, s.Round(), "carol")
	_, err := s.RemovePlayer(ident("carol"))
	require.NoError(t, err)

	_, err = s.SelectWinner(ident("judge"), token)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSession_LastPlayerLeavingEnds(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "alice")

	_, err := s.RemovePlayer(ident("alice"))
	require.NoError(t, err)

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, EndNoPlayers, s.EndReason())
	assert.Empty(t, s.Players())

	_, err = s.RemovePlayer(ident("alice"))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSession_RemoveUnknown(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "alice")

	_, err := s.RemovePlayer(ident("bob"))
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	assert.Nil(t, s.PlayerByNick("bob"))
	assert.NotNil(t, s.PlayerByNick("ALICE"))
}

func TestSession_StopIsIdempotent(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	ends := 0
	s.Hooks.OnEnd = func(EndReason) { ends++ }
	seat(t, s, "alice")

	s.Stop()
	s.Stop()

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, EndStopped, s.EndReason())
	assert.Equal(t, 1, ends)
}

func TestSession_Scores(t *testing.T) {
	s := newTestSession(t, DefaultConfig())
	seat(t, s, "judge", "alice", "bob")
	playAll(t, s)
	_, err := s.SelectWinner(ident("judge"), tokenOf(t, s.Round(), "bob"))
	require.NoError(t, err)

	scores := s.Scores()
	require.Len(t, scores, 3)
	assert.Equal(t, "bob", scores[0].Nick)
	assert.Equal(t, []string{"judge", "alice"}, []string{scores[1].Nick, scores[2].Nick})
}

func TestSession_DeckExhaustedEnds(t *testing.T) {
	d := &deck.Deck{
		Questions: []deck.Question{{Text: "Q ___", Pick: 1}},
		Answers:   []string{"a", "b", "c"},
	}
	s := NewSession("#cards", DefaultConfig(), d, rand.New(rand.NewPCG(1, 2)))
	seat(t, s, "judge", "alice", "bob")

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, EndDeckExhausted, s.EndReason())
}

func TestTransitions(t *testing.T) {
	assert.True(t, canTransition(StateForming, StatePlayable))
	assert.True(t, canTransition(StatePlayable, StatePlayed))
	assert.True(t, canTransition(StatePlayed, StatePlayable))
	assert.False(t, canTransition(StateForming, StatePlayed))
	assert.False(t, canTransition(StatePlayed, StatePlayed))
	for _, s := range []State{StateForming, StatePlayable, StatePlayed, StateEnded} {
		assert.False(t, canTransition(StateEnded, s), "ended is terminal")
		if s != StateEnded {
			assert.True(t, canTransition(s, StateEnded), "%s can end", s)
		}
	}
}
