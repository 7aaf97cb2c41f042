package mockroles

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type RoleManager struct {
	mock.Mock
}

func (m *RoleManager) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	args := m.Called(ctx, guildID, userID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoleManager) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}

func (m *RoleManager) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}
