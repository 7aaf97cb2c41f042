package reactionrole

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"statbot/internal/model"
	"statbot/internal/testdata/mockroles"
)

type ReconcilerTestSuite struct {
	suite.Suite

	roles      *mockroles.RoleManager
	store      *Store
	reconciler *Reconciler
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerTestSuite))
}

func (s *ReconcilerTestSuite) SetupTest() {
	store, err := Open(NewFilePersister(filepath.Join(s.T().TempDir(), "rr.json")))
	s.Require().NoError(err)
	_, err = store.Create("555", "10", []Binding{
		{Emoji: "🔧", RoleID: "77", RoleName: "Engineer"},
		{Emoji: "<:party:3>", RoleID: "78", RoleName: "Party"},
	})
	s.Require().NoError(err)

	s.store = store
	s.roles = &mockroles.RoleManager{}
	s.reconciler = NewReconciler(store, s.roles)
}

func (s *ReconcilerTestSuite) TearDownTest() {
	s.roles.AssertExpectations(s.T())
}

func (s *ReconcilerTestSuite) event(emoji string) ReactionEvent {
	return ReactionEvent{MessageID: "555", GuildID: "1", UserID: "5", Emoji: emoji}
}

func (s *ReconcilerTestSuite) TestAdded_GrantsMissingRole() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{"12"}, nil).Once()
	s.roles.On("AddMemberRole", mock.Anything, "1", "5", "77").Return(nil).Once()

	s.NoError(s.reconciler.OnReactionAdded(context.Background(), s.event("🔧")))
}

func (s *ReconcilerTestSuite) TestAdded_AlreadyHeldIsNoOp() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{"77"}, nil).Once()

	s.NoError(s.reconciler.OnReactionAdded(context.Background(), s.event("🔧")))
	s.roles.AssertNotCalled(s.T(), "AddMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconcilerTestSuite) TestAdded_UnboundEmojiIsNoOp() {
	s.NoError(s.reconciler.OnReactionAdded(context.Background(), s.event("🎉")))
	s.roles.AssertNotCalled(s.T(), "MemberRoles", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconcilerTestSuite) TestAdded_UnknownMessageIsNoOp() {
	ev := s.event("🔧")
	ev.MessageID = "404"

	s.NoError(s.reconciler.OnReactionAdded(context.Background(), ev))
	s.roles.AssertNotCalled(s.T(), "MemberRoles", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconcilerTestSuite) TestAdded_AnimatedCustomEmojiMatches() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{}, nil).Once()
	s.roles.On("AddMemberRole", mock.Anything, "1", "5", "78").Return(nil).Once()

	s.NoError(s.reconciler.OnReactionAdded(context.Background(), s.event("<a:party:3>")))
}

func (s *ReconcilerTestSuite) TestAdded_GrantFailureSurfaces() {
	expectedErr := errors.New("missing permissions")
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{}, nil).Once()
	s.roles.On("AddMemberRole", mock.Anything, "1", "5", "77").Return(expectedErr).Once()

	err := s.reconciler.OnReactionAdded(context.Background(), s.event("🔧"))

	s.ErrorIs(err, expectedErr)
	var transportErr *model.TransportError
	s.ErrorAs(err, &transportErr)
}

func (s *ReconcilerTestSuite) TestRemoved_RevokesHeldRole() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{"77", "12"}, nil).Once()
	s.roles.On("RemoveMemberRole", mock.Anything, "1", "5", "77").Return(nil).Once()

	s.NoError(s.reconciler.OnReactionRemoved(context.Background(), s.event("🔧")))
}

func (s *ReconcilerTestSuite) TestRemoved_NotHeldIsNoOp() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return([]string{"12"}, nil).Once()

	s.NoError(s.reconciler.OnReactionRemoved(context.Background(), s.event("🔧")))
	s.roles.AssertNotCalled(s.T(), "RemoveMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconcilerTestSuite) TestMemberLookupFailure() {
	s.roles.On("MemberRoles", mock.Anything, "1", "5").Return(nil, errors.New("unknown member")).Once()

	s.Error(s.reconciler.OnReactionRemoved(context.Background(), s.event("🔧")))
}

// fakeMember tracks one member's roles so add-then-remove can be observed end to end.
type fakeMember struct {
	roles []string
}

func (f *fakeMember) MemberRoles(context.Context, string, string) ([]string, error) {
	return append([]string(nil), f.roles...), nil
}

func (f *fakeMember) AddMemberRole(_ context.Context, _, _, roleID string) error {
	f.roles = append(f.roles, roleID)
	return nil
}

func (f *fakeMember) RemoveMemberRole(_ context.Context, _, _, roleID string) error {
	out := f.roles[:0]
	for _, r := range f.roles {
		if r != roleID {
			out = append(out, r)
		}
	}
	f.roles = out
	return nil
}

func (s *ReconcilerTestSuite) TestAddThenRemoveRestoresMembership() {
	member := &fakeMember{roles: []string{"12"}}
	reconciler := NewReconciler(s.store, member)
	ctx := context.Background()

	s.Require().NoError(reconciler.OnReactionAdded(ctx, s.event("🔧")))
	s.Equal([]string{"12", "77"}, member.roles)

	s.Require().NoError(reconciler.OnReactionRemoved(ctx, s.event("🔧")))
	s.Equal([]string{"12"}, member.roles)
}
