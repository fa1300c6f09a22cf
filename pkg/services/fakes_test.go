package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the mongo repositories. They copy on the way in and
// out so tests observe only persisted state.

type fakeVerificationStore struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.VerificationRequest
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{rows: map[primitive.ObjectID]models.VerificationRequest{}}
}

func (s *fakeVerificationStore) Insert(_ context.Context, vr *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[vr.ID] = copyRequest(*vr)
	return nil
}

func (s *fakeVerificationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vr, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("verification request %s not found", id.Hex())
	}
	out := copyRequest(vr)
	return &out, nil
}

func (s *fakeVerificationStore) Find(_ context.Context, q models.VerificationQuery) ([]models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.VerificationRequest{}
	for _, vr := range s.rows {
		if q.UserID != nil && vr.UserID != *q.UserID {
			continue
		}
		if q.PropertyID != nil && vr.PropertyID != *q.PropertyID {
			continue
		}
		if q.Status != nil && vr.Status != *q.Status {
			continue
		}
		out = append(out, copyRequest(vr))
	}
	sort.Slice(out, func(i, j int) bool {
		if q.OldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeVerificationStore) Update(_ context.Context, vr *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[vr.ID]
	if !ok || cur.Version != vr.Version {
		return errs.ErrStale
	}
	vr.Version++
	s.rows[vr.ID] = copyRequest(*vr)
	return nil
}

func (s *fakeVerificationStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errs.NotFoundf("verification request %s not found", id.Hex())
	}
	delete(s.rows, id)
	return nil
}

func copyRequest(vr models.VerificationRequest) models.VerificationRequest {
	vr.Documents = append([]models.Document(nil), vr.Documents...)
	return vr
}

type fakePaymentStore struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.Payment
	// staleWrites makes the next n updates lose their optimistic race
	staleWrites int
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{rows: map[primitive.ObjectID]models.Payment{}}
}

func (s *fakePaymentStore) Insert(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = *p
	return nil
}

func (s *fakePaymentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("payment %s not found", id.Hex())
	}
	p.Metadata = cloneMap(p.Metadata)
	return &p, nil
}

func (s *fakePaymentStore) list(match func(models.Payment) bool) []models.Payment {
	out := []models.Payment{}
	for _, p := range s.rows {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *fakePaymentStore) FindAll(_ context.Context) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(models.Payment) bool { return true }), nil
}

func (s *fakePaymentStore) FindByVerificationRequest(_ context.Context, requestID primitive.ObjectID) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(func(p models.Payment) bool { return p.VerificationRequestID == requestID }), nil
}

func (s *fakePaymentStore) Update(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleWrites > 0 {
		s.staleWrites--
		return errs.ErrStale
	}
	cur, ok := s.rows[p.ID]
	if !ok || cur.Version != p.Version {
		return errs.ErrStale
	}
	p.Version++
	s.rows[p.ID] = *p
	return nil
}

func (s *fakePaymentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errs.NotFoundf("payment %s not found", id.Hex())
	}
	delete(s.rows, id)
	return nil
}

func (s *fakePaymentStore) DeleteByVerificationRequest(_ context.Context, requestID primitive.ObjectID, statuses []models.PaymentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.rows {
		if p.VerificationRequestID != requestID {
			continue
		}
		for _, st := range statuses {
			if p.Status == st {
				delete(s.rows, id)
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *fakePaymentStore) StatusTotals(_ context.Context) ([]models.PaymentStatusTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byStatus := map[models.PaymentStatus]*models.PaymentStatusTotal{}
	for _, p := range s.rows {
		row, ok := byStatus[p.Status]
		if !ok {
			row = &models.PaymentStatusTotal{Status: p.Status, Amount: decimal.Zero}
			byStatus[p.Status] = row
		}
		row.Count++
		row.Amount = row.Amount.Add(p.Amount)
	}
	out := []models.PaymentStatusTotal{}
	for _, row := range byStatus {
		out = append(out, *row)
	}
	return out, nil
}

// fakeRatings is a RatingStore with an optional barrier that holds readers
// until n of them have read, to force a compare-and-set race.
type fakeRatings struct {
	mu        sync.Mutex
	rows      map[primitive.ObjectID]models.RatingSnapshot
	barrier   *barrier
	conflicts int
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{rows: map[primitive.ObjectID]models.RatingSnapshot{}}
}

func (s *fakeRatings) add(rating decimal.Decimal, count int) primitive.ObjectID {
	id := primitive.NewObjectID()
	s.rows[id] = models.RatingSnapshot{Rating: rating, Count: count}
	return id
}

func (s *fakeRatings) GetRating(_ context.Context, id primitive.ObjectID) (models.RatingSnapshot, error) {
	s.mu.Lock()
	snap, ok := s.rows[id]
	b := s.barrier
	s.mu.Unlock()
	if !ok {
		return snap, errs.NotFoundf("rating target %s not found", id.Hex())
	}
	if b != nil {
		b.arrive()
	}
	return snap, nil
}

func (s *fakeRatings) CompareAndSetRating(_ context.Context, id primitive.ObjectID, prev, next models.RatingSnapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[id].Count != prev.Count {
		s.conflicts++
		return false, nil
	}
	s.rows[id] = next
	return true, nil
}

type barrier struct {
	mu      sync.Mutex
	waiting int
	release chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{waiting: n, release: make(chan struct{})}
}

// arrive blocks until n callers arrived; later callers pass straight through.
func (b *barrier) arrive() {
	b.mu.Lock()
	if b.waiting > 0 {
		b.waiting--
		if b.waiting == 0 {
			close(b.release)
		}
	}
	b.mu.Unlock()
	<-b.release
}

type fakePropertyStore struct {
	*fakeRatings
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.Property
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{fakeRatings: newFakeRatings(), rows: map[primitive.ObjectID]models.Property{}}
}

func (s *fakePropertyStore) Insert(_ context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = *p
	s.fakeRatings.mu.Lock()
	s.fakeRatings.rows[p.ID] = models.RatingSnapshot{Rating: p.Rating, Count: p.RatingCount}
	s.fakeRatings.mu.Unlock()
	return nil
}

func (s *fakePropertyStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	return &p, nil
}

func (s *fakePropertyStore) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.mu.Lock()
	p, ok := s.rows[id]
	if ok {
		p.Views++
		s.rows[id] = p
	}
	s.mu.Unlock()
	if !ok {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	return &p, nil
}

func (s *fakePropertyStore) Find(_ context.Context, f models.PropertyFilter, _ util.PaginationArgs) ([]models.Property, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Property{}
	for _, p := range s.rows {
		if f.ListedByID != nil && p.ListedByID != *f.ListedByID {
			continue
		}
		if f.Verified != nil && p.IsVerified != *f.Verified {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s *fakePropertyStore) Update(_ context.Context, id primitive.ObjectID, req models.UpdatePropertyRequest, slug string) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("property %s not found", id.Hex())
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if slug != "" {
		p.Slug = slug
	}
	p.UpdatedAt = time.Now()
	s.rows[id] = p
	return &p, nil
}

func (s *fakePropertyStore) SetVerified(_ context.Context, id primitive.ObjectID, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return errs.NotFoundf("property %s not found", id.Hex())
	}
	p.IsVerified = verified
	s.rows[id] = p
	return nil
}

func (s *fakePropertyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errs.NotFoundf("property %s not found", id.Hex())
	}
	delete(s.rows, id)
	return nil
}

type fakeAgentStore struct {
	*fakeRatings
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.Agent
}

func newFakeAgentStore() *fakeAgentStore {
	return &fakeAgentStore{fakeRatings: newFakeRatings(), rows: map[primitive.ObjectID]models.Agent{}}
}

func (s *fakeAgentStore) Insert(_ context.Context, a *models.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.UserID == a.UserID {
			return errs.Conflictf("user %s already has an agent profile", a.UserID.Hex())
		}
	}
	s.rows[a.ID] = *a
	s.fakeRatings.mu.Lock()
	s.fakeRatings.rows[a.ID] = models.RatingSnapshot{Rating: a.Rating, Count: a.RatingCount}
	s.fakeRatings.mu.Unlock()
	return nil
}

func (s *fakeAgentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("agent %s not found", id.Hex())
	}
	return &a, nil
}

func (s *fakeAgentStore) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, errs.NotFoundf("agent profile for user %s not found", userID.Hex())
}

func (s *fakeAgentStore) Find(_ context.Context, f models.AgentFilter) ([]models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Agent{}
	for _, a := range s.rows {
		if f.Active != nil && a.IsActive != *f.Active {
			continue
		}
		if f.Verified != nil && a.IsVerified != *f.Verified {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeAgentStore) Update(_ context.Context, id primitive.ObjectID, req models.UpdateAgentRequest) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("agent %s not found", id.Hex())
	}
	if req.Bio != nil {
		a.Bio = *req.Bio
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	s.rows[id] = a
	return &a, nil
}

func (s *fakeAgentStore) SetVerified(_ context.Context, id primitive.ObjectID, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return errs.NotFoundf("agent %s not found", id.Hex())
	}
	a.IsVerified = verified
	s.rows[id] = a
	return nil
}

func (s *fakeAgentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return errs.NotFoundf("agent %s not found", id.Hex())
	}
	delete(s.rows, id)
	return nil
}

type fakeUserStore struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[primitive.ObjectID]models.User{}}
}

func (s *fakeUserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.Email == u.Email {
			return errs.Conflictf("email %s is already registered", u.Email)
		}
	}
	s.rows[u.ID] = *u
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("user not found")
	}
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.NotFoundf("user not found")
}

func (s *fakeUserStore) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, u := range s.rows {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) mutate(id primitive.ObjectID, fn func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, errs.NotFoundf("user %s not found", id.Hex())
	}
	fn(&u)
	s.rows[id] = u
	return &u, nil
}

func (s *fakeUserStore) SetRole(_ context.Context, id primitive.ObjectID, role models.UserRole) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.Role = role })
}

func (s *fakeUserStore) SetActive(_ context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.IsActive = active })
}

func (s *fakeUserStore) TouchLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.mutate(id, func(u *models.User) { u.LastLogin = &at })
	return err
}

// fakeTransactor runs fn inline; there is no rollback.
type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: map[string]*sync.Mutex{}}
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

type recordedEvent struct {
	name string
	id   primitive.ObjectID
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) PaymentChanged(_ context.Context, event string, p *models.Payment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{name: event, id: p.ID})
}

func (n *fakeNotifier) VerificationChanged(_ context.Context, event string, vr *models.VerificationRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{name: event, id: vr.ID})
}

func (n *fakeNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.name)
	}
	return out
}
