package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"amazonia/internal/infra"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/realtime"
	"amazonia/pkg/utils"
)

func ensureID(b *db_models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db_models.User
}

func newFakeUserRepo(users ...*db_models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*db_models.User{}}
	for _, u := range users {
		ensureID(&u.BaseModel)
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *db_models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return utils.ErrEmailAlreadyExists
		}
	}
	ensureID(&user.BaseModel)
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*db_models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["language"].(string); ok {
		u.Language = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		u.AvatarURL = v
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, p utils.Pagination) ([]db_models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]db_models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return pageSlice(out, p), int64(len(out)), nil
}

func (r *fakeUserRepo) ListRecipients(_ context.Context) ([]repositories.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repositories.Recipient, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, repositories.Recipient{ID: u.ID, Email: u.Email})
	}
	return out, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*db_models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*db_models.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *db_models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&t.BaseModel)
	cp := *t
	r.tokens[t.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) FindByHash(_ context.Context, hash string) (*db_models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[hash]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTokenRepo) Rotate(ctx context.Context, currentID uuid.UUID, next *db_models.RefreshToken) error {
	r.mu.Lock()
	var current *db_models.RefreshToken
	for _, t := range r.tokens {
		if t.ID == currentID {
			current = t
		}
	}
	if current == nil || current.RevokedAt != nil {
		r.mu.Unlock()
		return utils.ErrInvalidToken
	}
	now := time.Now()
	current.RevokedAt = &now
	r.mu.Unlock()
	return r.Create(ctx, next)
}

func (r *fakeTokenRepo) RevokeByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[hash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

type sentMail struct {
	to, code string
}

type fakeMail struct {
	mu       sync.Mutex
	sent     []sentMail
	notified []sentMail
	err      error
}

func (m *fakeMail) SendMailToNotifyUser(_ context.Context, to, subject, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, sentMail{to: to, code: subject})
	return m.err
}

func (m *fakeMail) SendMailToResetPassword(_ context.Context, email, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: email, code: code})
	return m.err
}

type notification struct {
	userID uuid.UUID
	title  string
	kind   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, title, _, _, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, title: title, kind: kind})
}

type fakeEventRepo struct {
	events map[uuid.UUID]*db_models.Event
}

func newFakeEventRepo(events ...*db_models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[uuid.UUID]*db_models.Event{}}
	for _, e := range events {
		ensureID(&e.BaseModel)
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, e *db_models.Event) error {
	ensureID(&e.BaseModel)
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *db_models.Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return utils.ErrEventNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.events[id]; !ok {
		return utils.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Event, error) {
	if e, ok := r.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeEventRepo) List(_ context.Context, _ request_models.EventFilter, p utils.Pagination) ([]db_models.Event, int64, error) {
	out := make([]db_models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return pageSlice(out, p), int64(len(out)), nil
}

type fakeVisitRepo struct {
	mu       sync.Mutex
	visits   map[uuid.UUID]*db_models.Visit
	photos   []db_models.Photo
	inputs   []repositories.CheckInInput
	coins    int64
	balance  int64
	checkErr error
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: map[uuid.UUID]*db_models.Visit{}}
}

func (r *fakeVisitRepo) checkIn(target string, in repositories.CheckInInput) (*db_models.Visit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, in)
	if r.checkErr != nil {
		return nil, 0, r.checkErr
	}
	v := &db_models.Visit{
		UserID:       in.UserID,
		TargetType:   target,
		TargetID:     in.TargetID,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		DistanceM:    in.DistanceM,
		CoinsAwarded: r.coins,
	}
	ensureID(&v.BaseModel)
	r.visits[v.ID] = v
	r.balance += r.coins
	return v, r.balance, nil
}

func (r *fakeVisitRepo) CheckInEvent(_ context.Context, in repositories.CheckInInput) (*db_models.Visit, int64, error) {
	return r.checkIn(db_models.VisitTargetEvent, in)
}

func (r *fakeVisitRepo) CheckInPlace(_ context.Context, in repositories.CheckInInput) (*db_models.Visit, int64, error) {
	return r.checkIn(db_models.VisitTargetPlace, in)
}

func (r *fakeVisitRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visits[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeVisitRepo) ListByUser(_ context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.Visit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.Visit
	for _, v := range r.visits {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	return pageSlice(out, p), int64(len(out)), nil
}

func (r *fakeVisitRepo) CreatePhoto(_ context.Context, photo *db_models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&photo.BaseModel)
	r.photos = append(r.photos, *photo)
	return nil
}

type fakePlaceRepo struct {
	places []db_models.Place
}

func (r *fakePlaceRepo) Create(_ context.Context, p *db_models.Place) error {
	ensureID(&p.BaseModel)
	r.places = append(r.places, *p)
	return nil
}

func (r *fakePlaceRepo) Update(_ context.Context, p *db_models.Place) error {
	for i := range r.places {
		if r.places[i].ID == p.ID {
			r.places[i] = *p
			return nil
		}
	}
	return utils.ErrPlaceNotFound
}

func (r *fakePlaceRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.places {
		if r.places[i].ID == id {
			r.places = append(r.places[:i], r.places[i+1:]...)
			return nil
		}
	}
	return utils.ErrPlaceNotFound
}

func (r *fakePlaceRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Place, error) {
	for _, p := range r.places {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePlaceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]db_models.Place, error) {
	var out []db_models.Place
	for _, p := range r.places {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakePlaceRepo) List(_ context.Context, _ request_models.NearbyFilter, p utils.Pagination) ([]db_models.Place, int64, error) {
	return pageSlice(r.places, p), int64(len(r.places)), nil
}

func (r *fakePlaceRepo) Nearby(_ context.Context, _ request_models.NearbyFilter) ([]db_models.Place, error) {
	return r.places, nil
}

type fakeEmbeddingRepo struct {
	upserts []db_models.PlaceEmbedding
	nearest []uuid.UUID
	err     error
}

func (r *fakeEmbeddingRepo) Upsert(_ context.Context, e *db_models.PlaceEmbedding) error {
	if r.err != nil {
		return r.err
	}
	r.upserts = append(r.upserts, *e)
	return nil
}

func (r *fakeEmbeddingRepo) Nearest(_ context.Context, _ pgvector.Vector, limit int) ([]uuid.UUID, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.nearest) > limit {
		return r.nearest[:limit], nil
	}
	return r.nearest, nil
}

type fakeEmbedder struct {
	texts []string
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	e.texts = append(e.texts, text)
	return pgvector.NewVector([]float32{1, 0, 0}), nil
}

type fakeStorage struct {
	keys []string
	err  error
}

func (s *fakeStorage) PresignPut(_ context.Context, key, _ string) (*infra.PresignedUpload, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.keys = append(s.keys, key)
	return &infra.PresignedUpload{
		URL:       "https://bucket.example.com/" + key + "?X-Amz-Signature=abc",
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": "image/jpeg"},
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

type fakePusher struct {
	mu      sync.Mutex
	frames  map[string][]realtime.Frame
	offline map[string]bool
}

func (p *fakePusher) SendToUser(userID string, frame realtime.Frame) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.offline[userID] {
		return 0
	}
	if p.frames == nil {
		p.frames = map[string][]realtime.Frame{}
	}
	p.frames[userID] = append(p.frames[userID], frame)
	return 1
}

type fakeAlertRepo struct {
	alerts []db_models.UserAlert
}

func (r *fakeAlertRepo) Create(_ context.Context, a *db_models.UserAlert) error {
	ensureID(&a.BaseModel)
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *fakeAlertRepo) CreateBatch(_ context.Context, alerts []db_models.UserAlert) error {
	for i := range alerts {
		ensureID(&alerts[i].BaseModel)
	}
	r.alerts = append(r.alerts, alerts...)
	return nil
}

func (r *fakeAlertRepo) List(_ context.Context, userID uuid.UUID, unreadOnly bool, p utils.Pagination) ([]db_models.UserAlert, int64, error) {
	var out []db_models.UserAlert
	for _, a := range r.alerts {
		if a.UserID == userID && (!unreadOnly || a.ReadAt == nil) {
			out = append(out, a)
		}
	}
	return pageSlice(out, p), int64(len(out)), nil
}

func (r *fakeAlertRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].UserID == userID {
			now := time.Now()
			r.alerts[i].ReadAt = &now
			return nil
		}
	}
	return utils.ErrAlertNotFound
}

func (r *fakeAlertRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for i := range r.alerts {
		if r.alerts[i].UserID == userID && r.alerts[i].ReadAt == nil {
			now := time.Now()
			r.alerts[i].ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *fakeAlertRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].UserID == userID {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return nil
		}
	}
	return utils.ErrAlertNotFound
}
