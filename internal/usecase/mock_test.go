//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/adapter"
	"lms-platform/internal/domain/ports/repository"
	"lms-platform/internal/usecase"
)

// ---- Mock PurchaseRepository ----

type MockPurchaseRepo struct {
	mu   sync.Mutex
	data map[string]*model.Purchase

	SaveFunc           func(ctx context.Context, tx repository.Tx, p *model.Purchase) error
	UpdateStatusIfFunc func(ctx context.Context, tx repository.Tx, id string, expected, next model.PurchaseStatus, patch repository.PurchasePatch) (bool, error)
}

var _ repository.PurchaseRepository = (*MockPurchaseRepo)(nil)

func NewMockPurchaseRepo() *MockPurchaseRepo {
	return &MockPurchaseRepo{data: map[string]*model.Purchase{}}
}

func (r *MockPurchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.data[cp.ID] = &cp
	return nil
}

func (r *MockPurchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.data[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockPurchaseRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data {
		if p.PaymentID == paymentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPurchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Purchase
	for _, p := range r.data {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPurchaseRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Purchase
	for _, p := range r.data {
		if p.Status == model.PurchaseStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *MockPurchaseRepo) UpdateStatusIf(ctx context.Context, tx repository.Tx, id string, expected, next model.PurchaseStatus, patch repository.PurchasePatch) (bool, error) {
	if r.UpdateStatusIfFunc != nil {
		return r.UpdateStatusIfFunc(ctx, tx, id, expected, next, patch)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status != expected {
		return false, nil
	}
	p.Status = next
	if patch.RefundID != nil {
		p.RefundID = *patch.RefundID
	}
	if patch.RefundAmount != nil {
		p.RefundAmount = *patch.RefundAmount
	}
	if patch.RefundReason != nil {
		p.RefundReason = *patch.RefundReason
	}
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

// ---- Mock CourseRepository ----

type MockCourseRepo struct {
	mu   sync.Mutex
	data map[string]*model.Course

	FindByIDFunc           func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error)
	AddEnrolledStudentFunc func(ctx context.Context, tx repository.Tx, courseID, userID string) error
}

var _ repository.CourseRepository = (*MockCourseRepo)(nil)

func NewMockCourseRepo() *MockCourseRepo {
	return &MockCourseRepo{data: map[string]*model.Course{}}
}

func (r *MockCourseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.data[cp.ID] = &cp
	return nil
}

func (r *MockCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.data[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockCourseRepo) ListPublished(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Course
	for _, c := range r.data {
		if c.IsPublished {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockCourseRepo) AddEnrolledStudent(ctx context.Context, tx repository.Tx, courseID, userID string) error {
	if r.AddEnrolledStudentFunc != nil {
		return r.AddEnrolledStudentFunc(ctx, tx, courseID, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range c.EnrolledStudentID {
		if id == userID {
			return nil
		}
	}
	c.EnrolledStudentID = append(c.EnrolledStudentID, userID)
	return nil
}

func (r *MockCourseRepo) AddLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	c.LectureIDs = append(c.LectureIDs, lectureID)
	return nil
}

func (r *MockCourseRepo) RemoveLecture(ctx context.Context, tx repository.Tx, courseID, lectureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	keep := c.LectureIDs[:0]
	for _, id := range c.LectureIDs {
		if id != lectureID {
			keep = append(keep, id)
		}
	}
	c.LectureIDs = keep
	return nil
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User

	SaveFunc              func(ctx context.Context, tx repository.Tx, u *model.User) error
	AddEnrolledCourseFunc func(ctx context.Context, tx repository.Tx, userID, courseID string) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = &cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) AddEnrolledCourse(ctx context.Context, tx repository.Tx, userID, courseID string) error {
	if r.AddEnrolledCourseFunc != nil {
		return r.AddEnrolledCourseFunc(ctx, tx, userID, courseID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return nil
		}
	}
	u.EnrolledCourseIDs = append(u.EnrolledCourseIDs, courseID)
	return nil
}

func (r *MockUserRepo) TouchLastActive(ctx context.Context, tx repository.Tx, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.LastActiveAt = time.Now().UTC()
	}
	return nil
}

// ---- Mock LectureRepository ----

type MockLectureRepo struct {
	mu   sync.Mutex
	data map[string]*model.Lecture

	SaveFunc func(ctx context.Context, tx repository.Tx, l *model.Lecture) error
}

var _ repository.LectureRepository = (*MockLectureRepo)(nil)

func NewMockLectureRepo() *MockLectureRepo {
	return &MockLectureRepo{data: map[string]*model.Lecture{}}
}

func (r *MockLectureRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lecture) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, l)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.data[cp.ID] = &cp
	return nil
}

func (r *MockLectureRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.data[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockLectureRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Lecture
	for _, l := range r.data {
		if l.CourseID == courseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockLectureRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ---- Mock ProgressRepository ----

type MockProgressRepo struct {
	mu   sync.Mutex
	data map[string]*model.CourseProgress // key userID+"/"+courseID

	SaveFunc func(ctx context.Context, tx repository.Tx, cp *model.CourseProgress) error
}

var _ repository.ProgressRepository = (*MockProgressRepo)(nil)

func NewMockProgressRepo() *MockProgressRepo {
	return &MockProgressRepo{data: map[string]*model.CourseProgress{}}
}

func (r *MockProgressRepo) Save(ctx context.Context, tx repository.Tx, cp *model.CourseProgress) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, cp)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cp
	r.data[c.UserID+"/"+c.CourseID] = &c
	return nil
}

func (r *MockProgressRepo) FindByUserAndCourse(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cp, ok := r.data[userID+"/"+courseID]; ok {
		c := *cp
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu     sync.Mutex
	orders map[string]adapter.OrderHandle
	seq    int

	CreateOrderFunc func(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (adapter.OrderHandle, error)
	FetchOrderFunc  func(ctx context.Context, orderID string) (adapter.OrderHandle, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{orders: map[string]adapter.OrderHandle{}}
}

func (g *MockPaymentGateway) Name() string { return "mock" }

func (g *MockPaymentGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (adapter.OrderHandle, error) {
	if g.CreateOrderFunc != nil {
		return g.CreateOrderFunc(ctx, amountMinor, currency, receipt, notes)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	h := adapter.OrderHandle{
		ID:       "order_" + uuid.NewString()[:8],
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Status:   adapter.OrderStatusCreated,
	}
	g.orders[h.ID] = h
	return h, nil
}

func (g *MockPaymentGateway) FetchOrder(ctx context.Context, orderID string) (adapter.OrderHandle, error) {
	if g.FetchOrderFunc != nil {
		return g.FetchOrderFunc(ctx, orderID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.orders[orderID]; ok {
		return h, nil
	}
	return adapter.OrderHandle{}, domain.ErrNotFound
}

func (g *MockPaymentGateway) MarkPaid(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.orders[orderID]; ok {
		h.Status = adapter.OrderStatusPaid
		g.orders[orderID] = h
	}
}

// ---- Mock SignatureVerifier ----

type MockVerifier struct {
	VerifyFunc func(orderID, paymentID, signature string) bool
}

var _ adapter.SignatureVerifier = (*MockVerifier)(nil)

// Verify accepts everything unless a test overrides VerifyFunc.
func (v *MockVerifier) Verify(orderID, paymentID, signature string) bool {
	if v.VerifyFunc != nil {
		return v.VerifyFunc(orderID, paymentID, signature)
	}
	return true
}

// ---- Mock Locker ----

type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	ErrOn map[string]error
}

var _ usecase.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}, ErrOn: map[string]error{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, bad := l.ErrOn[key]; bad {
		return "", err
	}
	if tok, ok := l.held[key]; ok && tok != "" {
		return "", errors.New("locked")
	}
	tok := uuid.NewString()
	l.held[key] = tok
	return tok, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	Calls      int
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately with a nil handle. Repositories treat
// the nil handle as the non-transactional path.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// ---- Mock MediaStorage ----

type MockMediaStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	UploadFunc func(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	DeleteFunc func(ctx context.Context, key string) error
}

var _ adapter.MediaStorage = (*MockMediaStorage)(nil)

func NewMockMediaStorage() *MockMediaStorage {
	return &MockMediaStorage{objects: map[string][]byte{}}
}

func (s *MockMediaStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if s.UploadFunc != nil {
		return s.UploadFunc(ctx, key, body, size, contentType)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return "https://media.test/" + key, nil
}

func (s *MockMediaStorage) Delete(ctx context.Context, key string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MockMediaStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", domain.ErrNotFound
	}
	return "https://media.test/" + key + "?signed=1", nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
