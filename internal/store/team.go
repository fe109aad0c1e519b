package store

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TeamStore держит команды выбранного проекта, указатель на текущую
// команду и список участников выбранной команды.
type TeamStore struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	teams   []*model.Team
	current *model.Team
	members []*model.TeamMember
}

func NewTeamStore(gw *gateway.Gateway, logger *zap.Logger) *TeamStore {
	return &TeamStore{gw: gw, logger: logger}
}

func (s *TeamStore) Teams() []*model.Team         { return s.teams }
func (s *TeamStore) Current() *model.Team         { return s.current }
func (s *TeamStore) Members() []*model.TeamMember { return s.members }

// FetchTeams загружает команды проекта, новые первыми.
func (s *TeamStore) FetchTeams(ctx context.Context, projectID uuid.UUID) error {
	teams, err := s.gw.Teams.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("fetch teams: %w", err)
	}
	s.teams = teams
	return nil
}

// SelectTeam загружает команду в указатель текущей и сразу подтягивает
// её участников.
func (s *TeamStore) SelectTeam(ctx context.Context, id uuid.UUID) error {
	team, err := s.gw.Teams.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if team == nil {
		return fmt.Errorf("get team %s: %w", id, gateway.ErrNotFound)
	}
	s.current = team
	return s.FetchMembers(ctx, id)
}

// CreateTeam вставляет команду и после подтверждения добавляет её в
// начало локального списка.
func (s *TeamStore) CreateTeam(ctx context.Context, team *model.Team) (*model.Team, error) {
	if err := s.gw.Teams.Insert(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.teams = append([]*model.Team{team}, s.teams...)

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("project_id", team.ProjectID.String()),
	)
	return team, nil
}

// UpdateTeam накладывает патч на закэшированную запись в списке и в
// указателе текущей команды.
func (s *TeamStore) UpdateTeam(ctx context.Context, id uuid.UUID, patch model.TeamPatch) error {
	if err := s.gw.Teams.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update team: %w", err)
	}

	for _, t := range s.teams {
		if t.ID == id {
			patch.Apply(t)
		}
	}
	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
	}
	return nil
}

// DeleteTeam убирает команду из локального списка; удаление выбранной
// команды сбрасывает указатель текущей. Каскад по membership-записям
// выполняет хранилище.
func (s *TeamStore) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.gw.Teams.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	kept := s.teams[:0]
	for _, t := range s.teams {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.teams = kept

	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.members = nil
	}

	s.logger.Info("Team deleted", zap.String("team_id", id.String()))
	return nil
}

// FetchMembers загружает membership-строки команды вместе с пользователем
// и необязательным студенческим профилем.
func (s *TeamStore) FetchMembers(ctx context.Context, teamID uuid.UUID) error {
	members, err := s.gw.TeamMembers.ListByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("fetch team members: %w", err)
	}
	s.members = members
	return nil
}

// AddMember добавляет участника. Отказ хранилища (например, повторное
// добавление того же пользователя) возвращается вызывающему, локальный
// список не меняется.
func (s *TeamStore) AddMember(ctx context.Context, member *model.TeamMember) (*model.TeamMember, error) {
	if member.Role == "" {
		member.Role = model.MemberRoleMember
	}

	inserted, err := s.gw.TeamMembers.Insert(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("add team member: %w", err)
	}

	s.members = append(s.members, inserted)

	s.logger.Info("Team member added",
		zap.String("team_id", inserted.TeamID.String()),
		zap.String("user_id", inserted.UserID.String()),
	)
	return inserted, nil
}

// RemoveMember удаляет по id membership-строки, не по user_id: снять
// можно только тот membership, которым вызывающий владеет.
func (s *TeamStore) RemoveMember(ctx context.Context, id uuid.UUID) error {
	if err := s.gw.TeamMembers.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}

	kept := s.members[:0]
	for _, m := range s.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.members = kept
	return nil
}
