package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
)

// fakeGateway - in-memory реализация контракта gateway для тестов store.
// Репозиторные интерфейсы навешаны тонкими адаптерами ниже.
type fakeGateway struct {
	identities map[uuid.UUID]*model.Identity
	passwords  map[string]string // email -> пароль
	sessions   map[string]*model.Session
	users      map[uuid.UUID]*model.User
	profiles   map[uuid.UUID]*model.StudentProfile // по user_id
	projects   []*model.Project
	teams      []*model.Team
	members    []*model.TeamMember
	comments   []*model.Comment

	userInserts int
	tokenSeq    int
	now         time.Time

	signOutErr       error
	userInsertErr    error
	userGetErr       error
	profileInsertErr error
	profileGetErr    error

	// hideUserOnce заставляет GetByID один раз вернуть "нет строки" для
	// заданного id, имитируя гонку чтения с параллельной вставкой.
	hideUserOnce uuid.UUID

	// searchHook вызывается внутри SearchStudents до возврата результата,
	// чтобы тест мог выпустить более новый запрос поверх текущего.
	searchHook func(query string)
}

func newFakeGateway() (*fakeGateway, *gateway.Gateway) {
	f := &fakeGateway{
		identities: make(map[uuid.UUID]*model.Identity),
		passwords:  make(map[string]string),
		sessions:   make(map[string]*model.Session),
		users:      make(map[uuid.UUID]*model.User),
		profiles:   make(map[uuid.UUID]*model.StudentProfile),
		now:        time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	return f, &gateway.Gateway{
		Auth:            f,
		Users:           fakeUsers{f},
		StudentProfiles: fakeProfiles{f},
		Projects:        fakeProjects{f},
		Teams:           fakeTeams{f},
		TeamMembers:     fakeMembers{f},
		Comments:        fakeComments{f},
	}
}

func (f *fakeGateway) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

// addIdentity регистрирует идентичность и открытую сессию, минуя SignUp.
func (f *fakeGateway) addIdentity(email string, meta model.IdentityMetadata) (*model.Identity, string) {
	identity := &model.Identity{
		ID:        uuid.New(),
		Email:     email,
		Metadata:  meta,
		CreatedAt: f.tick(),
	}
	f.identities[identity.ID] = identity
	token := f.newSession(identity)
	return identity, token
}

func (f *fakeGateway) addUser(name, email string, role model.Role) *model.User {
	u := &model.User{ID: uuid.New(), Email: email, Name: name, Role: role, CreatedAt: f.tick()}
	f.users[u.ID] = u
	return u
}

func (f *fakeGateway) addProject(title string, adminID uuid.UUID) *model.Project {
	p := &model.Project{
		ID:        uuid.New(),
		Title:     title,
		AdminID:   adminID,
		Status:    model.StatusPending,
		CreatedAt: f.tick(),
	}
	f.projects = append(f.projects, p)
	return p
}

func (f *fakeGateway) addTeam(name string, projectID uuid.UUID) *model.Team {
	t := &model.Team{ID: uuid.New(), Name: name, ProjectID: projectID, CreatedAt: f.tick()}
	f.teams = append(f.teams, t)
	return t
}

func (f *fakeGateway) addMembership(teamID, userID uuid.UUID) *model.TeamMember {
	m := &model.TeamMember{ID: uuid.New(), TeamID: teamID, UserID: userID, Role: model.MemberRoleMember, CreatedAt: f.tick()}
	f.members = append(f.members, m)
	return m
}

func (f *fakeGateway) newSession(identity *model.Identity) string {
	f.tokenSeq++
	token := fmt.Sprintf("token-%d", f.tokenSeq)
	f.sessions[token] = &model.Session{
		Token:      token,
		IdentityID: identity.ID,
		Email:      identity.Email,
		ExpiresAt:  f.now.Add(24 * time.Hour),
	}
	return token
}

// --- gateway.Auth ---

func (f *fakeGateway) SignIn(_ context.Context, email, password string) (*model.Session, error) {
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return nil, gateway.ErrInvalidCredentials
	}
	for _, identity := range f.identities {
		if identity.Email == email {
			token := f.newSession(identity)
			return f.sessions[token], nil
		}
	}
	return nil, gateway.ErrInvalidCredentials
}

func (f *fakeGateway) SignUp(_ context.Context, email, password string, meta model.IdentityMetadata) (*model.Identity, *model.Session, error) {
	for _, identity := range f.identities {
		if identity.Email == email {
			return nil, nil, gateway.ErrEmailTaken
		}
	}
	identity, token := f.addIdentity(email, meta)
	f.passwords[email] = password
	return identity, f.sessions[token], nil
}

func (f *fakeGateway) SignOut(_ context.Context, token string) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeGateway) GetSession(_ context.Context, token string) (*model.Session, error) {
	sess, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	return sess, nil
}

func (f *fakeGateway) GetIdentity(_ context.Context, token string) (*model.Identity, error) {
	sess, ok := f.sessions[token]
	if !ok {
		return nil, gateway.ErrNoSession
	}
	identity, ok := f.identities[sess.IdentityID]
	if !ok {
		return nil, gateway.ErrIdentityNotFound
	}
	return identity, nil
}

// --- gateway.Users ---

type fakeUsers struct{ *fakeGateway }

func (f fakeUsers) Insert(_ context.Context, user *model.User) error {
	f.userInserts++
	if f.userInsertErr != nil {
		return f.userInsertErr
	}
	if _, exists := f.users[user.ID]; exists {
		return &gateway.ConstraintError{Table: "users", Constraint: "users_pkey"}
	}
	user.CreatedAt = f.tick()
	f.users[user.ID] = user
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.userGetErr != nil {
		return nil, f.userGetErr
	}
	if f.hideUserOnce == id {
		f.fakeGateway.hideUserOnce = uuid.Nil
		return nil, nil
	}
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f fakeUsers) ListStudents(ctx context.Context) ([]*model.Student, error) {
	return f.SearchStudents(ctx, "")
}

func (f fakeUsers) SearchStudents(_ context.Context, query string) ([]*model.Student, error) {
	if hook := f.searchHook; hook != nil {
		f.searchHook = nil
		hook(query)
	}

	q := strings.ToLower(query)
	var students []*model.Student
	for _, user := range f.users {
		if user.Role != model.RoleStudent {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(user.Name), q) &&
			!strings.Contains(strings.ToLower(user.Email), q) {
			continue
		}
		students = append(students, &model.Student{User: *user, Profile: f.profiles[user.ID]})
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

// --- gateway.StudentProfiles ---

type fakeProfiles struct{ *fakeGateway }

func (f fakeProfiles) Insert(_ context.Context, profile *model.StudentProfile) error {
	if f.profileInsertErr != nil {
		return f.profileInsertErr
	}
	if _, exists := f.profiles[profile.UserID]; exists {
		return &gateway.ConstraintError{Table: "student_profiles", Constraint: "student_profiles_user_id_key"}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = f.tick()
	f.profiles[profile.UserID] = profile
	return nil
}

func (f fakeProfiles) Upsert(ctx context.Context, profile *model.StudentProfile) error {
	if existing, ok := f.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		f.profiles[profile.UserID] = profile
		return nil
	}
	return f.Insert(ctx, profile)
}

func (f fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	if f.profileGetErr != nil {
		return nil, f.profileGetErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return profile, nil
}

// --- gateway.Projects ---

type fakeProjects struct{ *fakeGateway }

// Списки возвращают копии строк: каждая выборка обозначает отдельно
// прочитанные строки, как это делает удалённое хранилище.
func cloneProject(p *model.Project) *model.Project {
	c := *p
	return &c
}

func (f fakeProjects) ListAll(_ context.Context) ([]*model.Project, error) {
	out := make([]*model.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeProjects) ListByAdmin(_ context.Context, adminID uuid.UUID) ([]*model.Project, error) {
	var out []*model.Project
	for _, p := range f.projects {
		if p.AdminID == adminID {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeProjects) ListByMember(_ context.Context, userID uuid.UUID) ([]*model.Project, error) {
	var out []*model.Project
	for _, m := range f.members {
		if m.UserID != userID {
			continue
		}
		for _, t := range f.teams {
			if t.ID != m.TeamID {
				continue
			}
			for _, p := range f.projects {
				if p.ID == t.ProjectID {
					out = append(out, cloneProject(p))
				}
			}
		}
	}
	return out, nil
}

func (f fakeProjects) GetByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return cloneProject(p), nil
		}
	}
	return nil, nil
}

func (f fakeProjects) Insert(_ context.Context, p *model.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = f.tick()
	f.projects = append(f.projects, cloneProject(p))
	return nil
}

func (f fakeProjects) Update(_ context.Context, id uuid.UUID, patch model.ProjectPatch) error {
	for _, p := range f.projects {
		if p.ID == id {
			patch.Apply(p)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.fakeGateway.projects = kept
	return nil
}

// --- gateway.Teams ---

type fakeTeams struct{ *fakeGateway }

func (f fakeTeams) ListByProject(_ context.Context, projectID uuid.UUID) ([]*model.Team, error) {
	var out []*model.Team
	for _, t := range f.teams {
		if t.ProjectID == projectID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeTeams) GetByID(_ context.Context, id uuid.UUID) (*model.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeTeams) Insert(_ context.Context, t *model.Team) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = f.tick()
	c := *t
	f.fakeGateway.teams = append(f.fakeGateway.teams, &c)
	return nil
}

func (f fakeTeams) Update(_ context.Context, id uuid.UUID, patch model.TeamPatch) error {
	for _, t := range f.teams {
		if t.ID == id {
			patch.Apply(t)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f fakeTeams) Delete(_ context.Context, id uuid.UUID) error {
	keptTeams := f.teams[:0]
	for _, t := range f.teams {
		if t.ID != id {
			keptTeams = append(keptTeams, t)
		}
	}
	f.fakeGateway.teams = keptTeams

	// Каскад по membership-записям, как в схеме хранилища.
	keptMembers := f.members[:0]
	for _, m := range f.members {
		if m.TeamID != id {
			keptMembers = append(keptMembers, m)
		}
	}
	f.fakeGateway.members = keptMembers
	return nil
}

// --- gateway.TeamMembers ---

type fakeMembers struct{ *fakeGateway }

func (f fakeMembers) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*model.TeamMember, error) {
	var out []*model.TeamMember
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, f.joinMember(m))
		}
	}
	return out, nil
}

func (f fakeMembers) Insert(_ context.Context, m *model.TeamMember) (*model.TeamMember, error) {
	for _, existing := range f.members {
		if existing.TeamID == m.TeamID && existing.UserID == m.UserID {
			return nil, &gateway.ConstraintError{Table: "team_members", Constraint: "team_members_team_id_user_id_key"}
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = f.tick()
	c := *m
	f.fakeGateway.members = append(f.fakeGateway.members, &c)
	return f.joinMember(&c), nil
}

func (f fakeMembers) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.members[:0]
	for _, m := range f.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.fakeGateway.members = kept
	return nil
}

func (f *fakeGateway) joinMember(m *model.TeamMember) *model.TeamMember {
	c := *m
	c.User = f.users[m.UserID]
	c.Profile = f.profiles[m.UserID]
	return &c
}

// --- gateway.Comments ---

type fakeComments struct{ *fakeGateway }

func (f fakeComments) ListByProject(_ context.Context, projectID uuid.UUID) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			out = append(out, f.joinComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeComments) Insert(_ context.Context, c *model.Comment) (*model.Comment, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = f.tick()
	cp := *c
	f.fakeGateway.comments = append(f.fakeGateway.comments, &cp)
	return f.joinComment(&cp), nil
}

func (f fakeComments) Delete(_ context.Context, id uuid.UUID) error {
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.fakeGateway.comments = kept
	return nil
}

func (f *fakeGateway) joinComment(c *model.Comment) *model.Comment {
	cp := *c
	if user, ok := f.users[c.UserID]; ok {
		cp.User = &model.User{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	return &cp
}
