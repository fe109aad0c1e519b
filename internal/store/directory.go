package store

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"go.uber.org/zap"
)

// StudentDirectory - read-through каталог студентов без мутаций.
// Сам store не отменяет перекрывающиеся запросы: каждому присваивается
// монотонно растущий id, и результат применяется только если за время
// запроса не был выпущен более новый. Debounce остаётся на вызывающей
// стороне.
type StudentDirectory struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	students []*model.Student
	issued   atomic.Uint64
}

func NewStudentDirectory(gw *gateway.Gateway, logger *zap.Logger) *StudentDirectory {
	return &StudentDirectory{gw: gw, logger: logger}
}

func (s *StudentDirectory) Students() []*model.Student { return s.students }

// FetchAll загружает всех студентов с профилями, по имени.
func (s *StudentDirectory) FetchAll(ctx context.Context) error {
	id := s.issued.Add(1)

	students, err := s.gw.Users.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("fetch students: %w", err)
	}

	s.apply(id, students)
	return nil
}

// Search выполняет регистронезависимый substring-поиск по имени и email.
// Пустой запрос эквивалентен FetchAll.
func (s *StudentDirectory) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.FetchAll(ctx)
	}

	id := s.issued.Add(1)

	students, err := s.gw.Users.SearchStudents(ctx, query)
	if err != nil {
		return fmt.Errorf("search students: %w", err)
	}

	s.apply(id, students)
	return nil
}

// apply публикует результат, если запрос всё ещё последний выпущенный.
// Медленный ранний ответ не затирает более свежий.
func (s *StudentDirectory) apply(id uint64, students []*model.Student) {
	if id != s.issued.Load() {
		s.logger.Debug("Discarding stale directory result",
			zap.Uint64("request_id", id),
			zap.Uint64("latest", s.issued.Load()),
		)
		return
	}
	s.students = students
}
