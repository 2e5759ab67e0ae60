package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/localnerve/mindsync/internal/models"
)

// owned is satisfied by pointers to user-owned models
type owned[T any] interface {
	*T
	EntityID() uint
	OwnerID() uint
	SetEntityID(id uint)
}

// Memory is a process-local Storage. Data does not survive a restart.
type Memory struct {
	mu sync.RWMutex

	users         *memUsers
	courses       *memTable[models.Course, *models.Course]
	terms         *memTerms
	tasks         *memTasks
	studySessions *memStudySessions
	goals         *memTable[models.Goal, *models.Goal]
	settings      *memSettings
	userStats     *memUserStats
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	s := &Memory{}
	s.settings = &memSettings{mu: &s.mu, rows: map[uint]models.Settings{}}
	s.userStats = &memUserStats{mu: &s.mu, rows: map[uint]models.UserStats{}}
	s.users = &memUsers{
		mu:       &s.mu,
		rows:     map[uint]models.User{},
		stats:    s.userStats,
		settings: s.settings,
	}
	s.courses = newMemTable[models.Course](&s.mu)
	s.terms = &memTerms{newMemTable[models.Term](&s.mu)}
	s.tasks = &memTasks{newMemTable[models.Task](&s.mu)}
	s.studySessions = &memStudySessions{newMemTable[models.StudySession](&s.mu)}
	s.goals = newMemTable[models.Goal](&s.mu)

	// references to a deleted course or term are set to null
	s.courses.onDelete = func(id uint) {
		detach(s.tasks.rows, id, func(t *models.Task) **uint { return &t.CourseID })
		detach(s.studySessions.rows, id, func(ss *models.StudySession) **uint { return &ss.CourseID })
		detach(s.goals.rows, id, func(g *models.Goal) **uint { return &g.CourseID })
	}
	s.terms.onDelete = func(id uint) {
		detach(s.courses.rows, id, func(c *models.Course) **uint { return &c.TermID })
	}
	return s
}

func (s *Memory) Users() UserRepository                 { return s.users }
func (s *Memory) Courses() Repository[models.Course]    { return s.courses }
func (s *Memory) Terms() TermRepository                 { return s.terms }
func (s *Memory) Tasks() TaskRepository                 { return s.tasks }
func (s *Memory) StudySessions() StudySessionRepository { return s.studySessions }
func (s *Memory) Goals() Repository[models.Goal]        { return s.goals }
func (s *Memory) Settings() SettingsRepository          { return s.settings }
func (s *Memory) UserStats() UserStatsRepository        { return s.userStats }

// Ping always succeeds
func (s *Memory) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *Memory) Close() error { return nil }

// memTable implements Repository over a map keyed by id
type memTable[T any, P owned[T]] struct {
	mu   *sync.RWMutex
	seq  uint
	rows map[uint]T

	// onDelete runs under the write lock after a row is removed
	onDelete func(id uint)
}

func newMemTable[T any, P owned[T]](mu *sync.RWMutex) *memTable[T, P] {
	return &memTable[T, P]{mu: mu, rows: map[uint]T{}}
}

// filter returns the rows matching keep, ordered by id. Callers hold the lock.
func (t *memTable[T, P]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return P(&out[i]).EntityID() < P(&out[j]).EntityID()
	})
	return out
}

func (t *memTable[T, P]) List(_ context.Context, userID uint) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter(func(row T) bool { return P(&row).OwnerID() == userID }), nil
}

func (t *memTable[T, P]) Get(_ context.Context, id uint) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (t *memTable[T, P]) Create(_ context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	P(row).SetEntityID(t.seq)
	t.rows[t.seq] = *row
	return nil
}

func (t *memTable[T, P]) Update(_ context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := P(row).EntityID()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	t.rows[id] = *row
	return nil
}

func (t *memTable[T, P]) Delete(_ context.Context, id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	if t.onDelete != nil {
		t.onDelete(id)
	}
	return nil
}

// detach clears the reference ref holds on every row pointing at id
func detach[T any](rows map[uint]T, id uint, ref func(*T) **uint) {
	for key, row := range rows {
		if p := ref(&row); *p != nil && **p == id {
			*p = nil
			rows[key] = row
		}
	}
}

type memUsers struct {
	mu   *sync.RWMutex
	seq  uint
	rows map[uint]models.User

	stats    *memUserStats
	settings *memSettings
}

func (r *memUsers) Get(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memUsers) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.rows {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

// Register holds the store-wide lock so the user, stats and settings rows appear together
func (r *memUsers) Register(_ context.Context, user *models.User, stats *models.UserStats, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.Username == user.Username {
			return ErrUsernameExists
		}
		if existing.Email == user.Email {
			return ErrEmailExists
		}
	}

	r.seq++
	user.ID = r.seq
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stats.UserID = user.ID
	settings.UserID = user.ID
	if err := r.stats.insert(stats); err != nil {
		return err
	}
	if err := r.settings.insert(settings); err != nil {
		delete(r.stats.rows, user.ID)
		return err
	}
	r.rows[user.ID] = *user
	return nil
}

type memTerms struct {
	*memTable[models.Term, *models.Term]
}

func (r *memTerms) Active(_ context.Context, userID uint, at time.Time) (*models.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	terms := r.filter(func(t models.Term) bool {
		return t.UserID == userID && t.Contains(at)
	})
	if len(terms) == 0 {
		return nil, ErrNotFound
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].StartDate.After(terms[j].StartDate)
	})
	return &terms[0], nil
}

type memTasks struct {
	*memTable[models.Task, *models.Task]
}

func (r *memTasks) ListByType(_ context.Context, userID uint, taskType string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(t models.Task) bool {
		return t.UserID == userID && t.TaskType == taskType
	}), nil
}

func (r *memTasks) ListByCourse(_ context.Context, userID, courseID uint) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(t models.Task) bool {
		return t.UserID == userID && t.CourseID != nil && *t.CourseID == courseID
	}), nil
}

func (r *memTasks) ListDueBetween(_ context.Context, userID uint, from, to time.Time) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := r.filter(func(t models.Task) bool {
		return t.UserID == userID && t.DueDate != nil &&
			!t.DueDate.Before(from) && !t.DueDate.After(to)
	})
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
	return tasks, nil
}

type memStudySessions struct {
	*memTable[models.StudySession, *models.StudySession]
}

func (r *memStudySessions) ListStartingBetween(_ context.Context, userID uint, from, to time.Time) ([]models.StudySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.filter(func(s models.StudySession) bool {
		return s.UserID == userID && !s.StartTime.Before(from) && !s.StartTime.After(to)
	})
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
	return sessions, nil
}

// memSettings is keyed by user id
type memSettings struct {
	mu   *sync.RWMutex
	seq  uint
	rows map[uint]models.Settings
}

func (r *memSettings) Get(_ context.Context, userID uint) (*models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.rows[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &settings, nil
}

func (r *memSettings) Create(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(settings)
}

// insert adds a row. Callers hold the lock.
func (r *memSettings) insert(settings *models.Settings) error {
	if _, ok := r.rows[settings.UserID]; ok {
		return ErrDuplicate
	}
	r.seq++
	settings.ID = r.seq
	r.rows[settings.UserID] = *settings
	return nil
}

func (r *memSettings) Update(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[settings.UserID]; !ok {
		return ErrNotFound
	}
	r.rows[settings.UserID] = *settings
	return nil
}

// memUserStats is keyed by user id
type memUserStats struct {
	mu   *sync.RWMutex
	seq  uint
	rows map[uint]models.UserStats
}

func (r *memUserStats) Get(_ context.Context, userID uint) (*models.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.rows[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &stats, nil
}

func (r *memUserStats) Create(_ context.Context, stats *models.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(stats)
}

// insert adds a row. Callers hold the lock.
func (r *memUserStats) insert(stats *models.UserStats) error {
	if _, ok := r.rows[stats.UserID]; ok {
		return ErrDuplicate
	}
	r.seq++
	stats.ID = r.seq
	r.rows[stats.UserID] = *stats
	return nil
}

func (r *memUserStats) Update(_ context.Context, stats *models.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[stats.UserID]; !ok {
		return ErrNotFound
	}
	r.rows[stats.UserID] = *stats
	return nil
}

func (r *memUserStats) ResetWeekly(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, stats := range r.rows {
		if stats.WeeklyHoursStudied != 0 {
			stats.WeeklyHoursStudied = 0
			r.rows[id] = stats
			n++
		}
	}
	return n, nil
}

func (r *memUserStats) ResetStreaks(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, stats := range r.rows {
		if stats.StreakDays != 0 && (stats.LastStudyDate == nil || stats.LastStudyDate.Before(cutoff)) {
			stats.StreakDays = 0
			r.rows[id] = stats
			n++
		}
	}
	return n, nil
}
