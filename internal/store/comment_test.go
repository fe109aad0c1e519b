package store

import (
	"context"
	"testing"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchCommentsAscending(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)

	for _, text := range []string{"first", "second", "third"} {
		_, err := fakeComments{f}.Insert(context.Background(), &model.Comment{
			ProjectID: project.ID,
			UserID:    admin.ID,
			Content:   text,
		})
		require.NoError(t, err)
	}

	s := NewCommentLog(gw, zap.NewNop())
	require.NoError(t, s.Fetch(context.Background(), project.ID))

	require.Len(t, s.Comments(), 3)
	assert.Equal(t, "first", s.Comments()[0].Content)
	assert.Equal(t, "second", s.Comments()[1].Content)
	assert.Equal(t, "third", s.Comments()[2].Content)
}

func TestAddCommentAppendsToTail(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	student := f.addUser("Gita", "gita@example.com", model.RoleStudent)
	project := f.addProject("OS", admin.ID)

	s := NewCommentLog(gw, zap.NewNop())
	require.NoError(t, s.Fetch(context.Background(), project.ID))

	for _, text := range []string{"C1", "C2", "C3"} {
		inserted, err := s.Add(context.Background(), &model.Comment{
			ProjectID: project.ID,
			UserID:    student.ID,
			Content:   text,
		})
		require.NoError(t, err)
		require.NotNil(t, inserted.User)
		assert.Equal(t, "Gita", inserted.User.Name)
	}

	require.Len(t, s.Comments(), 3)
	assert.Equal(t, "C1", s.Comments()[0].Content)
	assert.Equal(t, "C2", s.Comments()[1].Content)
	assert.Equal(t, "C3", s.Comments()[2].Content)
}

func TestDeleteCommentKeepsOrder(t *testing.T) {
	f, gw := newFakeGateway()
	admin := f.addUser("Admin", "admin@example.com", model.RoleAdmin)
	project := f.addProject("OS", admin.ID)

	s := NewCommentLog(gw, zap.NewNop())
	first, err := s.Add(context.Background(), &model.Comment{ProjectID: project.ID, UserID: admin.ID, Content: "keep-1"})
	require.NoError(t, err)
	doomed, err := s.Add(context.Background(), &model.Comment{ProjectID: project.ID, UserID: admin.ID, Content: "drop"})
	require.NoError(t, err)
	last, err := s.Add(context.Background(), &model.Comment{ProjectID: project.ID, UserID: admin.ID, Content: "keep-2"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), doomed.ID))

	require.Len(t, s.Comments(), 2)
	assert.Equal(t, first.ID, s.Comments()[0].ID)
	assert.Equal(t, last.ID, s.Comments()[1].ID)
}
