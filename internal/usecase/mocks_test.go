//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---- Mock TransactionManager ----

// mockTxManager runs the callback directly; the in-memory repos are already
// atomic under their own locks.
type mockTxManager struct{}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// ---- In-memory UserRepository ----

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User

	saveErr error // set by tests to simulate save failures
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	cp.Favorites = append([]string(nil), u.Favorites...)
	cp.Entitlements = append([]model.Entitlement(nil), u.Entitlements...)
	cp.Progress = make(map[string]int, len(u.Progress))
	for k, v := range u.Progress {
		cp.Progress[k] = v
	}
	return &cp
}

func (m *memUserRepo) Save(ctx context.Context, _ repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
		u.CreatedAt = time.Now()
	}
	existing, ok := m.store[u.ID]
	cp := cloneUser(u)
	if ok {
		// base-row save does not touch associations
		cp.Entitlements = existing.Entitlements
		cp.Favorites = existing.Favorites
		cp.Progress = existing.Progress
	}
	m.store[u.ID] = cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, _ repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) FindByResetTokenHash(ctx context.Context, _ repository.Tx, hash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.ResetTokenHash != "" && u.ResetTokenHash == hash {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(ctx context.Context, _ repository.Tx, f repository.UserFilter, offset, limit int) ([]*model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.User
	for _, u := range m.store {
		if f.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Search)) {
			continue
		}
		if f.Role != "" {
			found := false
			for _, r := range u.Roles {
				if r == f.Role {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memUserRepo) Count(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *memUserRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memUserRepo) AddEntitlement(ctx context.Context, _ repository.Tx, userID string, e *model.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, held := range u.Entitlements {
		if held.CodeID == e.CodeID {
			return domain.ErrCodeAlreadyActivated
		}
	}
	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	u.Entitlements = append(u.Entitlements, cp)
	return nil
}

func (m *memUserRepo) SetFavorite(ctx context.Context, _ repository.Tx, userID, courseID string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	var out []string
	for _, f := range u.Favorites {
		if f != courseID {
			out = append(out, f)
		}
	}
	if favorite {
		out = append(out, courseID)
	}
	u.Favorites = out
	return nil
}

func (m *memUserRepo) SaveProgress(ctx context.Context, _ repository.Tx, userID, lessonID string, percent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Progress == nil {
		u.Progress = make(map[string]int)
	}
	u.Progress[lessonID] = percent
	return nil
}

// ---- In-memory PromoCodeRepository ----

type memPromoRepo struct {
	mu    sync.Mutex
	store map[string]*model.PromoCode
}

var _ repository.PromoCodeRepository = (*memPromoRepo)(nil)

func newMemPromoRepo() *memPromoRepo {
	return &memPromoRepo{store: make(map[string]*model.PromoCode)}
}

func (m *memPromoRepo) Create(ctx context.Context, _ repository.Tx, pc *model.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Code == pc.Code {
			return domain.ErrAlreadyExists
		}
	}
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	pc.CreatedAt = time.Now()
	cp := *pc
	m.store[pc.ID] = &cp
	return nil
}

func (m *memPromoRepo) Update(ctx context.Context, _ repository.Tx, pc *model.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.store[pc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.MaxUses = pc.MaxUses
	stored.ExpiresAt = pc.ExpiresAt
	stored.IsActive = pc.IsActive
	stored.Notes = pc.Notes
	return nil
}

func (m *memPromoRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memPromoRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pc, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pc
	return &cp, nil
}

func (m *memPromoRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) (*model.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pc := range m.store {
		if pc.Code == code {
			cp := *pc
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPromoRepo) List(ctx context.Context, _ repository.Tx, f repository.PromoCodeFilter, offset, limit int) ([]*model.PromoCode, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.PromoCode
	for _, pc := range m.store {
		if f.Scope != "" && pc.Scope != f.Scope {
			continue
		}
		if f.IsActive != nil && pc.IsActive != *f.IsActive {
			continue
		}
		cp := *pc
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// ConsumeUse mirrors the conditional UPDATE: the increment only happens while
// uses remain.
func (m *memPromoRepo) ConsumeUse(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pc, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if pc.UsedCount >= pc.MaxUses {
		return domain.ErrCodeExhausted
	}
	pc.UsedCount++
	return nil
}

// ---- In-memory ActivationRepository ----

type memActivationRepo struct {
	mu    sync.Mutex
	store []*model.Activation
}

var _ repository.ActivationRepository = (*memActivationRepo)(nil)

func newMemActivationRepo() *memActivationRepo {
	return &memActivationRepo{}
}

func (m *memActivationRepo) Insert(ctx context.Context, _ repository.Tx, a *model.Activation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.UserID == a.UserID && existing.PromoCodeID == a.PromoCodeID {
			return domain.ErrCodeAlreadyActivated
		}
	}
	cp := *a
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.store = append(m.store, &cp)
	return nil
}

func (m *memActivationRepo) List(ctx context.Context, _ repository.Tx, offset, limit int) ([]*model.ActivationSummary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ActivationSummary
	for _, a := range m.store {
		out = append(out, &model.ActivationSummary{Activation: *a})
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memActivationRepo) Count(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *memActivationRepo) CountSince(ctx context.Context, _ repository.Tx, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cnt := 0
	for _, a := range m.store {
		if !a.ActivatedAt.Before(since) {
			cnt++
		}
	}
	return cnt, nil
}

// ---- In-memory CourseRepository ----

type memCourseRepo struct {
	mu      sync.Mutex
	store   map[string]*model.Course
	lessons *memLessonRepo // set when cascade behavior matters
}

var _ repository.CourseRepository = (*memCourseRepo)(nil)

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{store: make(map[string]*model.Course)}
}

func (m *memCourseRepo) Create(ctx context.Context, _ repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Slug == c.Slug {
			return domain.ErrAlreadyExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCourseRepo) Update(ctx context.Context, _ repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCourseRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	if _, ok := m.store[id]; !ok {
		m.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(m.store, id)
	m.mu.Unlock()
	if m.lessons != nil {
		m.lessons.deleteByCourse(id)
	}
	return nil
}

func (m *memCourseRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCourseRepo) FindBySlug(ctx context.Context, _ repository.Tx, slug string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCourseRepo) List(ctx context.Context, _ repository.Tx, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.Course
	for _, c := range m.store {
		if f.PublishedOnly && !c.Published {
			continue
		}
		if f.Level != "" && c.Level != f.Level {
			continue
		}
		if f.Category != "" {
			found := false
			for _, cat := range c.Categories {
				if cat == f.Category {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if f.Search != "" &&
			!strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(c.Description), strings.ToLower(f.Search)) {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slug < all[j].Slug })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memCourseRepo) CountPublished(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cnt := 0
	for _, c := range m.store {
		if c.Published {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memCourseRepo) TopByStudents(ctx context.Context, _ repository.Tx, limit int) ([]*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.Course
	for _, c := range m.store {
		if c.Published {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentsCount > all[j].StudentsCount })
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// ---- In-memory LessonRepository ----

type memLessonRepo struct {
	mu    sync.Mutex
	store map[string]*model.Lesson
}

var _ repository.LessonRepository = (*memLessonRepo)(nil)

func newMemLessonRepo() *memLessonRepo {
	return &memLessonRepo{store: make(map[string]*model.Lesson)}
}

func (m *memLessonRepo) Create(ctx context.Context, _ repository.Tx, l *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.CourseID == l.CourseID && existing.Slug == l.Slug {
			return domain.ErrAlreadyExists
		}
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	cp := *l
	m.store[l.ID] = &cp
	return nil
}

func (m *memLessonRepo) Update(ctx context.Context, _ repository.Tx, l *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[l.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	m.store[l.ID] = &cp
	return nil
}

func (m *memLessonRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memLessonRepo) deleteByCourse(courseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.store {
		if l.CourseID == courseID {
			delete(m.store, id)
		}
	}
}

func (m *memLessonRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLessonRepo) ListByCourse(ctx context.Context, _ repository.Tx, courseID string) ([]*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lesson
	for _, l := range m.store {
		if l.CourseID == courseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memLessonRepo) Count(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *memLessonRepo) Search(ctx context.Context, _ repository.Tx, query string, offset, limit int) ([]*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lesson
	for _, l := range m.store {
		if strings.Contains(strings.ToLower(l.Title), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(l.Description), strings.ToLower(query)) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ---- Mock ObjectStorage ----

type mockStorage struct {
	mu       sync.Mutex
	signed   []string // keys presigned for download
	uploaded []string // keys presigned for upload
}

func (m *mockStorage) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signed = append(m.signed, key)
	return "https://cdn.test/" + key + "?sig=abc", nil
}

func (m *mockStorage) PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = append(m.uploaded, key)
	return "https://cdn.test/upload/" + key + "?sig=abc", nil
}

// ---- Mock Mailer ----

type mockMailer struct {
	mu       sync.Mutex
	welcomes []string
	resets   map[string]string // email -> last token
	sendErr  error
}

func newMockMailer() *mockMailer {
	return &mockMailer{resets: make(map[string]string)}
}

func (m *mockMailer) SendWelcome(ctx context.Context, to, name string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[to] = resetToken
	return nil
}
