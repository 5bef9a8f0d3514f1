package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
	pkgerrors "github.com/YashBansal1/L-D-Portal/pkg/errors"
)

// ── 内存存储：各 Mock Repository 共享，便于跨实体断言 ──

type memStore struct {
	users       map[string]*model.User
	trainings   map[string]*model.Training
	enrollments map[string]*model.Enrollment // key: user_id|training_id
	profiles    map[string]*model.Profile
	badges      []model.Badge
	quizzes     map[string]*model.Quiz // key: training_id
	seq         int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*model.User),
		trainings:   make(map[string]*model.Training),
		enrollments: make(map[string]*model.Enrollment),
		profiles:    make(map[string]*model.Profile),
		quizzes:     make(map[string]*model.Quiz),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func enrollmentKey(userID, trainingID string) string {
	return userID + "|" + trainingID
}

// newMockRepository 以内存存储组装 Repository（未绑定数据库，事务退化为直接执行）
func newMockRepository(store *memStore) *repository.Repository {
	return &repository.Repository{
		User:       &mockUserRepo{s: store},
		Training:   &mockTrainingRepo{s: store},
		Enrollment: &mockEnrollmentRepo{s: store},
		Profile:    &mockProfileRepo{s: store},
		Badge:      &mockBadgeRepo{s: store},
		Quiz:       &mockQuizRepo{s: store},
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	s *memStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.s.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Department != "" && u.Department != filter.Department {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Name, filter.Keyword) && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListEmployeesByDepartment(_ context.Context, department string) ([]model.User, error) {
	var list []model.User
	for _, u := range m.s.users {
		if u.Department == department && u.Role == model.RoleEmployee {
			list = append(list, *u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── Mock TrainingRepository ──

type mockTrainingRepo struct {
	s *memStore
}

func (m *mockTrainingRepo) Create(_ context.Context, t *model.Training) error {
	if t.TrainingID == "" {
		t.TrainingID = m.s.nextID("training")
	}
	if t.Version == 0 {
		t.Version = 1
	}
	cp := *t
	m.s.trainings[t.TrainingID] = &cp
	return nil
}

func (m *mockTrainingRepo) GetByID(_ context.Context, id string) (*model.Training, error) {
	if t, ok := m.s.trainings[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRepo) GetByTitle(_ context.Context, title string) (*model.Training, error) {
	for _, t := range m.s.trainings {
		if t.Title == title {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRepo) List(_ context.Context, filter repository.TrainingFilter, offset, limit int) ([]model.Training, int64, error) {
	var all []model.Training
	for _, t := range m.s.trainings {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(t.Title, filter.Keyword) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.Before(all[j].StartDate) })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Training{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTrainingRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.s.trainings))
	for id := range m.s.trainings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockTrainingRepo) Update(_ context.Context, t *model.Training) error {
	existing, ok := m.s.trainings[t.TrainingID]
	if !ok || existing.Version != t.Version {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version++
	t.Enrolled = existing.Enrolled
	cp := *t
	m.s.trainings[t.TrainingID] = &cp
	return nil
}

func (m *mockTrainingRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.s.trainings[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.trainings, id)
	delete(m.s.quizzes, id)
	for k, e := range m.s.enrollments {
		if e.TrainingID == id {
			delete(m.s.enrollments, k)
		}
	}
	return nil
}

func (m *mockTrainingRepo) IncrementEnrolled(_ context.Context, id string, delta int) error {
	t, ok := m.s.trainings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Enrolled += delta
	return nil
}

func (m *mockTrainingRepo) SetEnrolled(_ context.Context, id string, enrolled int) error {
	if t, ok := m.s.trainings[id]; ok {
		t.Enrolled = enrolled
	}
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	s *memStore
}

func (m *mockEnrollmentRepo) Find(_ context.Context, userID, trainingID string) (*model.Enrollment, error) {
	if e, ok := m.s.enrollments[enrollmentKey(userID, trainingID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) FindForUpdate(ctx context.Context, userID, trainingID string) (*model.Enrollment, error) {
	return m.Find(ctx, userID, trainingID)
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	key := enrollmentKey(e.UserID, e.TrainingID)
	if _, ok := m.s.enrollments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *e
	cp.Training, cp.User = nil, nil
	m.s.enrollments[key] = &cp
	return nil
}

func (m *mockEnrollmentRepo) CreateIfAbsent(_ context.Context, list []model.Enrollment) (int64, error) {
	var created int64
	for _, e := range list {
		key := enrollmentKey(e.UserID, e.TrainingID)
		if _, ok := m.s.enrollments[key]; ok {
			continue
		}
		cp := e
		m.s.enrollments[key] = &cp
		created++
	}
	return created, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	key := enrollmentKey(e.UserID, e.TrainingID)
	existing, ok := m.s.enrollments[key]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Status = e.Status
	existing.Progress = e.Progress
	existing.Attendance = e.Attendance
	existing.CompletedAt = e.CompletedAt
	existing.UpdatedBy = e.UpdatedBy
	return nil
}

func (m *mockEnrollmentRepo) CountActiveByTraining(_ context.Context, trainingID string) (int64, error) {
	var n int64
	for _, e := range m.s.enrollments {
		if e.TrainingID == trainingID && e.Status != model.EnrollmentDropped {
			n++
		}
	}
	return n, nil
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	for _, e := range m.s.enrollments {
		if e.UserID != userID {
			continue
		}
		cp := *e
		if t, ok := m.s.trainings[e.TrainingID]; ok {
			tc := *t
			cp.Training = &tc
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TrainingID < list[j].TrainingID })
	return list, nil
}

func (m *mockEnrollmentRepo) ListByUsers(_ context.Context, userIDs []string) ([]model.Enrollment, error) {
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var list []model.Enrollment
	for _, e := range m.s.enrollments {
		if want[e.UserID] {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockEnrollmentRepo) ListByTraining(_ context.Context, trainingID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	for _, e := range m.s.enrollments {
		if e.TrainingID != trainingID {
			continue
		}
		cp := *e
		if u, ok := m.s.users[e.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
	return list, nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	s *memStore
}

func (m *mockProfileRepo) Get(_ context.Context, userID string) (*model.Profile, error) {
	if p, ok := m.s.profiles[userID]; ok {
		cp := *p
		cp.Skills = append(model.TagSet(nil), p.Skills...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Upsert(_ context.Context, p *model.Profile) error {
	cp := *p
	cp.Skills = append(model.TagSet(nil), p.Skills...)
	m.s.profiles[p.UserID] = &cp
	return nil
}

// ── Mock BadgeRepository ──

type mockBadgeRepo struct {
	s *memStore
}

func (m *mockBadgeRepo) Create(_ context.Context, b *model.Badge) error {
	for _, existing := range m.s.badges {
		if existing.UserID != b.UserID || existing.Kind != b.Kind {
			continue
		}
		if b.Kind == model.BadgeKindTier && existing.Name == b.Name {
			return gorm.ErrDuplicatedKey
		}
		if b.Kind == model.BadgeKindCompletion && b.TrainingID != nil && existing.TrainingID != nil &&
			*existing.TrainingID == *b.TrainingID {
			return gorm.ErrDuplicatedKey
		}
	}
	if b.BadgeID == "" {
		b.BadgeID = m.s.nextID("badge")
	}
	m.s.badges = append(m.s.badges, *b)
	return nil
}

func (m *mockBadgeRepo) ListByUser(_ context.Context, userID string) ([]model.Badge, error) {
	var list []model.Badge
	for _, b := range m.s.badges {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (m *mockBadgeRepo) ListCompletionBadges(_ context.Context, userID, trainingID string) ([]model.Badge, error) {
	var list []model.Badge
	for _, b := range m.s.badges {
		if b.UserID == userID && b.Kind == model.BadgeKindCompletion && b.TrainingID != nil && *b.TrainingID == trainingID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (m *mockBadgeRepo) HasTier(_ context.Context, userID, name string) (bool, error) {
	for _, b := range m.s.badges {
		if b.UserID == userID && b.Kind == model.BadgeKindTier && b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock QuizRepository ──

type mockQuizRepo struct {
	s *memStore
}

func (m *mockQuizRepo) GetByTraining(_ context.Context, trainingID string) (*model.Quiz, error) {
	if q, ok := m.s.quizzes[trainingID]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizRepo) Upsert(_ context.Context, q *model.Quiz) error {
	if existing, ok := m.s.quizzes[q.TrainingID]; ok {
		existing.PassingScore = q.PassingScore
		existing.Questions = q.Questions
		existing.UpdatedBy = q.UpdatedBy
		return nil
	}
	if q.QuizID == "" {
		q.QuizID = m.s.nextID("quiz")
	}
	cp := *q
	m.s.quizzes[q.TrainingID] = &cp
	return nil
}

// ── 测试数据 ──

func seedUser(s *memStore, id, email, role, department string) *model.User {
	u := &model.User{
		UserID:     id,
		Name:       "用户 " + id,
		Email:      email,
		Role:       role,
		Department: department,
		IsActive:   true,
	}
	s.users[id] = u
	return u
}

func seedTraining(s *memStore, id, title, tags string, hours float64) *model.Training {
	t := &model.Training{
		TrainingID:     id,
		Title:          title,
		DurationHours:  hours,
		Type:           model.TrainingTypeTechnical,
		Format:         model.TrainingFormatOnline,
		Status:         model.TrainingStatusUpcoming,
		Tags:           model.ParseTagSet(tags),
		VersionedModel: model.VersionedModel{Version: 1},
	}
	s.trainings[id] = t
	return t
}
