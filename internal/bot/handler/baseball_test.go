package handler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/factory"
)

type BaseballSuite struct {
	suite.Suite
	app *factory.TestApp
	ctx context.Context
}

func TestBaseballSuite(t *testing.T) {
	suite.Run(t, new(BaseballSuite))
}

func (s *BaseballSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.ctx = context.Background()
}

func (s *BaseballSuite) sendAs(author, content string) string {
	return s.app.Router.Dispatch(s.ctx, bot.Message{
		ChannelID: "chan", AuthorID: author, AuthorName: author, Content: content,
	})
}

func (s *BaseballSuite) send(content string) string {
	return s.sendAs("user-1", content)
}

// startGame begins a default game for user-1 with answer 1234
func (s *BaseballSuite) startGame() {
	s.app.MockRandom.QueuePerm([]int{1, 2, 3, 4, 0, 5, 6, 7, 8, 9})
	reply := s.send("!baseball start")
	s.Require().Contains(reply, "Game on!")
}

func (s *BaseballSuite) TestStartAndGuessFlow() {
	s.startGame()

	s.Equal("1243: 2S 2B", s.send("1243"))
	s.Contains(s.send("1234"), "right!")
}

func (s *BaseballSuite) TestBareChatterIsIgnoredDuringAGame() {
	s.startGame()

	s.Empty(s.send("hello everyone"))
	s.Empty(s.send("123"))
	s.Empty(s.send("12345"))
}

func (s *BaseballSuite) TestGuessesWithoutAGameAreIgnored() {
	s.Empty(s.send("1234"))
}

func (s *BaseballSuite) TestGamesArePerPlayer() {
	s.startGame()

	// another player's digits are not a guess against user-1's game
	s.Empty(s.sendAs("user-2", "1234"))

	s.app.MockRandom.QueuePerm([]int{5, 6, 7, 8, 0, 1, 2, 3, 4, 9})
	s.Contains(s.sendAs("user-2", "!baseball start"), "Game on!")
	s.Contains(s.sendAs("user-2", "5678"), "right!")

	// user-1's game is still running
	s.Contains(s.send("!baseball info"), "Trials used: 0")
}

func (s *BaseballSuite) TestBareBaseballStartsADefaultGame() {
	s.app.MockRandom.QueuePerm([]int{9, 8, 7, 6, 0, 1, 2, 3, 4, 5})
	reply := s.send("!baseball")
	s.Contains(reply, "Game on!")
	s.Contains(reply, "duplicates: no")
}

func (s *BaseballSuite) TestSecondStartIsRefused() {
	s.startGame()
	s.Contains(s.send("!baseball start"), "already have a game")
}

func (s *BaseballSuite) TestStartWithOverrides() {
	s.app.MockRandom.QueueIntn(3, 1, 4)
	reply := s.send("!baseball start dup=T max=5 digit=3 limit=4")
	s.Contains(reply, "Game on!")
	s.Contains(reply, "duplicates: yes")
	s.Contains(reply, "digits: 0-5")
	s.Contains(reply, "trial limit: 4")
}

func (s *BaseballSuite) TestStartRejectsBadOverrides() {
	s.Contains(s.send("!baseball start dup=maybe"), "dup must be T or F")
	s.Contains(s.send("!baseball start max=many"), "max must be a number")
	s.Contains(s.send("!baseball start verbosity=3"), "unknown option")
	s.Contains(s.send("!baseball start limit"), "expected key=value")
	s.Contains(s.send("!baseball start max=12"), "between 0 and 9")
}

func (s *BaseballSuite) TestMastermindPreset() {
	s.app.MockRandom.QueueIntn(1, 1, 2, 2)
	reply := s.send("!baseball mastermind")
	s.Contains(reply, "duplicates: yes")
	s.Contains(reply, "trial limit: 8")

	s.Contains(s.send("2211"), "2211: 0S 4B (trial 1/8)")
}

func (s *BaseballSuite) TestMastermindAcceptsOverrides() {
	s.app.MockRandom.QueueIntn(1, 1, 2, 2)
	reply := s.send("!baseball mastermind limit=3")
	s.Contains(reply, "duplicates: yes")
	s.Contains(reply, "trial limit: 3")
}

func (s *BaseballSuite) TestTrialLimitLossRevealsAnswer() {
	s.app.MockRandom.QueuePerm([]int{1, 2, 3, 4, 0, 5, 6, 7, 8, 9})
	s.send("!baseball start limit=2")

	s.Contains(s.send("5678"), "trial 1/2")
	lost := s.send("5679")
	s.Contains(lost, "game over")
	s.Contains(lost, "1234")
}

func (s *BaseballSuite) TestRejectedGuessExplainsItself() {
	s.startGame()
	s.Contains(s.send("1123"), "duplicate digits")
}

func (s *BaseballSuite) TestKill() {
	s.startGame()

	reply := s.send("!baseball kill")
	s.Contains(reply, "aborted")
	s.Contains(reply, "1234")

	s.Contains(s.send("!baseball kill"), "no game running")
}

func (s *BaseballSuite) TestInfoShowsSettingsAndLog() {
	s.startGame()
	s.send("5678")
	s.send("1243")

	info := s.send("!baseball info")
	s.Contains(info, "duplicates: no")
	s.Contains(info, "Trials used: 2")
	s.Contains(info, "1. 5678: 0S 0B")
	s.Contains(info, "2. 1243: 2S 2B")
}

func (s *BaseballSuite) TestInfoWithoutAGame() {
	s.Contains(s.send("!baseball info"), "no game running")
}
