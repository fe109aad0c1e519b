package store

import (
	"context"
	"testing"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchTeamsNewestFirst(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	first := f.addTeam("First", project.ID)
	second := f.addTeam("Second", project.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchTeams(context.Background(), project.ID))

	require.Len(t, s.Teams(), 2)
	assert.Equal(t, second.ID, s.Teams()[0].ID)
	assert.Equal(t, first.ID, s.Teams()[1].ID)
}

func TestDeleteSelectedTeamClearsPointer(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Gamma", project.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchTeams(context.Background(), project.ID))
	require.NoError(t, s.SelectTeam(context.Background(), team.ID))
	require.NotNil(t, s.Current())

	require.NoError(t, s.DeleteTeam(context.Background(), team.ID))

	assert.Nil(t, s.Current())
	assert.Empty(t, s.Teams())
	assert.Empty(t, s.Members())
}

func TestDeleteOtherTeamKeepsPointer(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	selected := f.addTeam("Selected", project.ID)
	other := f.addTeam("Other", project.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchTeams(context.Background(), project.ID))
	require.NoError(t, s.SelectTeam(context.Background(), selected.ID))

	require.NoError(t, s.DeleteTeam(context.Background(), other.ID))

	require.NotNil(t, s.Current())
	assert.Equal(t, selected.ID, s.Current().ID)
}

func TestUpdateTeamReflectsListAndCurrent(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Before", project.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchTeams(context.Background(), project.ID))
	require.NoError(t, s.SelectTeam(context.Background(), team.ID))

	name := "After"
	require.NoError(t, s.UpdateTeam(context.Background(), team.ID, model.TeamPatch{Name: &name}))

	assert.Equal(t, "After", s.Teams()[0].Name)
	assert.Equal(t, "After", s.Current().Name)
}

func TestFetchMembersJoinsUserAndOptionalProfile(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Delta", project.ID)

	withProfile := f.addUser("Anya", "anya@example.com", model.RoleStudent)
	f.profiles[withProfile.ID] = &model.StudentProfile{UserID: withProfile.ID, CollegeName: "RVCE", Semester: 6, Section: "A", USN: "1RV20CS001"}
	withoutProfile := f.addUser("Boris", "boris@example.com", model.RoleStudent)

	f.addMembership(team.ID, withProfile.ID)
	f.addMembership(team.ID, withoutProfile.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchMembers(context.Background(), team.ID))

	require.Len(t, s.Members(), 2)
	byUser := map[string]*model.TeamMember{}
	for _, m := range s.Members() {
		require.NotNil(t, m.User)
		byUser[m.User.Name] = m
	}
	assert.NotNil(t, byUser["Anya"].Profile)
	assert.Nil(t, byUser["Boris"].Profile)
}

func TestAddMemberDuplicateLeavesStateUnchanged(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Delta", project.ID)
	student := f.addUser("Chen", "chen@example.com", model.RoleStudent)

	s := NewTeamStore(gw, zap.NewNop())
	_, err := s.AddMember(context.Background(), &model.TeamMember{TeamID: team.ID, UserID: student.ID})
	require.NoError(t, err)
	require.Len(t, s.Members(), 1)

	_, err = s.AddMember(context.Background(), &model.TeamMember{TeamID: team.ID, UserID: student.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrConstraint)
	assert.Len(t, s.Members(), 1)
}

func TestRemoveMemberByMembershipRowID(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Delta", project.ID)
	a := f.addUser("Dara", "dara@example.com", model.RoleStudent)
	b := f.addUser("Egor", "egor@example.com", model.RoleStudent)
	ma := f.addMembership(team.ID, a.ID)
	f.addMembership(team.ID, b.ID)

	s := NewTeamStore(gw, zap.NewNop())
	require.NoError(t, s.FetchMembers(context.Background(), team.ID))
	require.Len(t, s.Members(), 2)

	require.NoError(t, s.RemoveMember(context.Background(), ma.ID))

	require.Len(t, s.Members(), 1)
	assert.Equal(t, b.ID, s.Members()[0].UserID)
}

func TestAddMemberDefaultsRole(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)
	team := f.addTeam("Delta", project.ID)
	student := f.addUser("Fato", "fato@example.com", model.RoleStudent)

	s := NewTeamStore(gw, zap.NewNop())
	member, err := s.AddMember(context.Background(), &model.TeamMember{TeamID: team.ID, UserID: student.ID})
	require.NoError(t, err)

	assert.Equal(t, model.MemberRoleMember, member.Role)
}
