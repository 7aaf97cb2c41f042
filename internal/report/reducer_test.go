package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"statbot/internal/model"
)

type ReducerTestSuite struct {
	suite.Suite
}

func TestReducerSuite(t *testing.T) {
	suite.Run(t, new(ReducerTestSuite))
}

// localTime builds the UTC timestamp of a local wall-clock time.
func localTime(hour, minute int) time.Time {
	return time.Date(2024, time.March, 10, hour, minute, 0, 0, time.UTC).Add(Offset)
}

func msg(author, name, channel string, at time.Time) model.Message {
	return model.Message{AuthorID: author, AuthorName: name, ChannelID: channel, CreatedAt: at}
}

func (s *ReducerTestSuite) TestTimeReducer_RendersBarsInBucketOrder() {
	r := NewTimeReducer()
	for i := 0; i < 3; i++ {
		r.Reduce(msg("u", "u", "c", localTime(14, 45)))
	}
	for i := 0; i < 12; i++ {
		r.Reduce(msg("u", "u", "c", localTime(14, 5)))
	}

	s.Equal("```14:00 ##\n14:30 #\n```", r.Render())
	s.Equal(15, r.Total())
}

func (s *ReducerTestSuite) TestTimeReducer_HalfHourBoundary() {
	before := BucketFor(localTime(14, 29))
	after := BucketFor(localTime(14, 31))

	s.Equal(TimeBucketKey{Hour: 14, MinuteBucket: 0}, before)
	s.Equal(TimeBucketKey{Hour: 14, MinuteBucket: 3}, after)
	s.NotEqual(before, after)
}

func (s *ReducerTestSuite) TestTimeReducer_ShiftsAcrossMidnight() {
	ts := time.Date(2024, time.March, 10, 2, 10, 0, 0, time.UTC)
	s.Equal(TimeBucketKey{Hour: 22, MinuteBucket: 0}, BucketFor(ts))
}

func (s *ReducerTestSuite) TestTimeReducer_SortsNumerically() {
	r := NewTimeReducer()
	r.Reduce(msg("u", "u", "c", localTime(10, 0)))
	r.Reduce(msg("u", "u", "c", localTime(9, 40)))
	r.Reduce(msg("u", "u", "c", localTime(0, 0)))

	s.Equal("```0:00 #\n9:30 #\n10:00 #\n```", r.Render())
}

func (s *ReducerTestSuite) TestUserReducer_SortsByCountWithStableTies() {
	r := NewUserReducer()
	at := localTime(12, 0)
	r.Reduce(msg("1", "alice", "c", at))
	r.Reduce(msg("2", "bob", "c", at))
	r.Reduce(msg("3", "carol", "c", at))
	r.Reduce(msg("3", "carol", "c", at))
	r.Reduce(msg("2", "bob", "c", at))
	r.Reduce(msg("4", "dave", "c", at))

	s.Equal("bob: 2\ncarol: 2\nalice: 1\ndave: 1\n", r.Render())
}

func (s *ReducerTestSuite) TestUserReducer_KeepsFirstDisplayName() {
	r := NewUserReducer()
	at := localTime(12, 0)
	r.Reduce(msg("1", "old#0001", "c", at))
	r.Reduce(msg("1", "new#0001", "c", at))

	s.Equal("old#0001: 2\n", r.Render())
}

func (s *ReducerTestSuite) TestChannelReducer_RendersMentions() {
	r := NewChannelReducer()
	at := localTime(12, 0)
	r.Reduce(msg("1", "a", "10", at))
	r.Reduce(msg("1", "a", "20", at))
	r.Reduce(msg("1", "a", "20", at))

	s.Equal("<#20>: 2\n<#10>: 1\n", r.Render())
}

func (s *ReducerTestSuite) TestCombinedReducer_RendersBothBlocks() {
	r := NewCombinedReducer()
	at := localTime(12, 0)
	r.Reduce(msg("1", "alice", "10", at))
	r.Reduce(msg("2", "bob", "10", at))
	r.Reduce(msg("2", "bob", "20", at))

	s.Equal("bob: 2\nalice: 1\n\n\n<#10>: 2\n<#20>: 1\n", r.Render())
	s.Equal(3, r.Total())
}

func (s *ReducerTestSuite) TestNewReducer() {
	for _, kind := range Kinds {
		r, err := NewReducer(kind)
		s.NoError(err)
		s.NotNil(r)
	}

	_, err := NewReducer("emoji")
	s.Error(err)
}

func (s *ReducerTestSuite) TestParseKind() {
	k, ok := ParseKind(" Times ")
	s.True(ok)
	s.Equal(KindTimes, k)

	_, ok = ParseKind("reactions")
	s.False(ok)
}
