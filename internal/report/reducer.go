package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"statbot/internal/model"
)

// Kind names one of the supported reports.
type Kind string

const (
	KindUsers    Kind = "users"
	KindChannels Kind = "channels"
	KindTimes    Kind = "times"
	KindCount    Kind = "count"
)

// Kinds lists every report kind in command order.
var Kinds = []Kind{KindUsers, KindChannels, KindTimes, KindCount}

// ParseKind maps a report name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	switch k {
	case KindUsers, KindChannels, KindTimes, KindCount:
		return k, true
	default:
		return "", false
	}
}

// Reducer accumulates messages for one report and renders the result.
// A Reducer belongs to a single report computation and is not safe for
// concurrent use.
type Reducer interface {
	Reduce(msg model.Message)
	Render() string
	Total() int
}

// NewReducer returns a fresh reducer for kind.
func NewReducer(kind Kind) (Reducer, error) {
	switch kind {
	case KindUsers:
		return NewUserReducer(), nil
	case KindChannels:
		return NewChannelReducer(), nil
	case KindTimes:
		return NewTimeReducer(), nil
	case KindCount:
		return NewCombinedReducer(), nil
	default:
		return nil, fmt.Errorf("unsupported report kind %q", kind)
	}
}

// UserKey identifies a message author. Only ID takes part in equality; the
// display name is kept as the counter value.
type UserKey struct {
	ID string
}

// UserReducer counts messages per author.
type UserReducer struct {
	users *Counter[UserKey, string]
}

func NewUserReducer() *UserReducer {
	return &UserReducer{users: NewCounter[UserKey, string]()}
}

func (r *UserReducer) Reduce(msg model.Message) {
	r.users.Inc(UserKey{ID: msg.AuthorID}, msg.AuthorName)
}

func (r *UserReducer) Total() int { return r.users.Total() }

func (r *UserReducer) Render() string {
	var b strings.Builder
	for _, e := range r.users.ByCountDesc() {
		fmt.Fprintf(&b, "%s: %d\n", e.Value, e.Count)
	}
	return b.String()
}

// ChannelKey identifies a channel.
type ChannelKey struct {
	ID string
}

// ChannelReducer counts messages per channel.
type ChannelReducer struct {
	channels *Counter[ChannelKey, string]
}

func NewChannelReducer() *ChannelReducer {
	return &ChannelReducer{channels: NewCounter[ChannelKey, string]()}
}

func (r *ChannelReducer) Reduce(msg model.Message) {
	r.channels.Inc(ChannelKey{ID: msg.ChannelID}, model.ChannelMention(msg.ChannelID))
}

func (r *ChannelReducer) Total() int { return r.channels.Total() }

func (r *ChannelReducer) Render() string {
	var b strings.Builder
	for _, e := range r.channels.ByCountDesc() {
		fmt.Fprintf(&b, "%s: %d\n", e.Value, e.Count)
	}
	return b.String()
}

// TimeBucketKey is a half-hour slot of the local day. MinuteBucket is 0 for
// the first half of the hour and 3 for the second.
type TimeBucketKey struct {
	Hour         int
	MinuteBucket int
}

// BucketFor returns the local half-hour bucket of a UTC timestamp.
func BucketFor(ts time.Time) TimeBucketKey {
	local := ts.UTC().Add(-Offset)
	return TimeBucketKey{
		Hour:         local.Hour(),
		MinuteBucket: local.Minute() / 30 * 3,
	}
}

func (k TimeBucketKey) order() int {
	return k.Hour*10 + k.MinuteBucket
}

// Label renders the bucket as "H:M0", so bucket 3 reads as ":30".
func (k TimeBucketKey) Label() string {
	return fmt.Sprintf("%d:%d0", k.Hour, k.MinuteBucket)
}

// TimeReducer builds a histogram of activity over the local day.
type TimeReducer struct {
	buckets *Counter[TimeBucketKey, struct{}]
}

func NewTimeReducer() *TimeReducer {
	return &TimeReducer{buckets: NewCounter[TimeBucketKey, struct{}]()}
}

func (r *TimeReducer) Reduce(msg model.Message) {
	r.buckets.Inc(BucketFor(msg.CreatedAt), struct{}{})
}

func (r *TimeReducer) Total() int { return r.buckets.Total() }

func (r *TimeReducer) Render() string {
	entries := r.buckets.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.order() < entries[j].Key.order()
	})

	var b strings.Builder
	b.WriteString("```")
	for _, e := range entries {
		bar := strings.Repeat("#", int(math.Ceil(float64(e.Count)/10)))
		fmt.Fprintf(&b, "%s %s\n", e.Key.Label(), bar)
	}
	b.WriteString("```")
	return b.String()
}

// CombinedReducer counts users and channels in a single pass.
type CombinedReducer struct {
	users    *UserReducer
	channels *ChannelReducer
}

func NewCombinedReducer() *CombinedReducer {
	return &CombinedReducer{
		users:    NewUserReducer(),
		channels: NewChannelReducer(),
	}
}

func (r *CombinedReducer) Reduce(msg model.Message) {
	r.users.Reduce(msg)
	r.channels.Reduce(msg)
}

func (r *CombinedReducer) Total() int { return r.users.Total() }

func (r *CombinedReducer) Render() string {
	return r.users.Render() + "\n\n" + r.channels.Render()
}
