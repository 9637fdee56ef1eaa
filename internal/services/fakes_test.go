package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
)

// In-memory repo fakes. They implement the same interfaces the gorm repos
// do, so services can be exercised without a database. All fakes are safe
// for concurrent use because the conversation assembler fans out goroutines.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return users, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, _ *gorm.DB, role domain.Role) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ *gorm.DB, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	for col, v := range updates {
		switch col {
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "institution":
			u.Institution = v.(string)
		case "location":
			u.Location = v.(string)
		case "role":
			u.Role = v.(domain.Role)
		}
	}
	return nil
}

type fakeConnectionRepo struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*domain.Connection
}

func newFakeConnectionRepo(conns ...*domain.Connection) *fakeConnectionRepo {
	r := &fakeConnectionRepo{conns: map[uuid.UUID]*domain.Connection{}}
	for _, c := range conns {
		c.PairLo, c.PairHi = domain.CanonicalPair(c.RequesterID, c.ReceiverID)
		r.conns[c.ID] = c
	}
	return r
}

func (r *fakeConnectionRepo) Create(_ context.Context, _ *gorm.DB, conn *domain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn.PairLo, conn.PairHi = domain.CanonicalPair(conn.RequesterID, conn.ReceiverID)
	for _, c := range r.conns {
		if c.PairLo == conn.PairLo && c.PairHi == conn.PairHi {
			return repos.ErrDuplicatePair
		}
	}
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = conn.CreatedAt
	r.conns[conn.ID] = conn
	return nil
}

func (r *fakeConnectionRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[id], nil
}

func (r *fakeConnectionRepo) GetByPair(_ context.Context, _ *gorm.DB, a, b uuid.UUID) (*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lo, hi := domain.CanonicalPair(a, b)
	for _, c := range r.conns {
		if c.PairLo == lo && c.PairHi == hi {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeConnectionRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Connection
	for _, c := range r.conns {
		if c.Involves(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeConnectionRepo) ListByUserAndStatus(_ context.Context, _ *gorm.DB, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	all, _ := r.ListByUser(nil, nil, userID)
	var out []*domain.Connection
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status domain.ConnectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conns[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now()
	}
	return nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []*domain.Message
	seq  int64
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func samePair(m *domain.Message, a, b uuid.UUID) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (r *fakeMessageRepo) Create(_ context.Context, _ *gorm.DB, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.Seq = r.seq
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *fakeMessageRepo) ListBetween(_ context.Context, _ *gorm.DB, a, b uuid.UUID) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.msgs {
		if samePair(m, a, b) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeMessageRepo) LatestBetween(_ context.Context, _ *gorm.DB, a, b uuid.UUID) (*domain.Message, error) {
	thread, _ := r.ListBetween(nil, nil, a, b)
	if len(thread) == 0 {
		return nil, nil
	}
	return thread[len(thread)-1], nil
}

func (r *fakeMessageRepo) CountUnreadFrom(_ context.Context, _ *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkReadFrom(_ context.Context, _ *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

type favKey struct {
	user uuid.UUID
	kind domain.FavoriteKind
	item string
}

type fakeFavoriteRepo struct {
	mu   sync.Mutex
	rows map[favKey]*domain.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{rows: map[favKey]*domain.Favorite{}}
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Favorite
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *fakeFavoriteRepo) Insert(_ context.Context, _ *gorm.DB, fav *domain.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favKey{fav.UserID, fav.Kind, fav.ItemID}
	if _, ok := r.rows[k]; !ok {
		r.rows[k] = fav
	}
	return nil
}

func (r *fakeFavoriteRepo) Delete(_ context.Context, _ *gorm.DB, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, favKey{userID, kind, itemID})
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*domain.UserToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uuid.UUID]*domain.UserToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, _ *gorm.DB, token *domain.UserToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) GetByAccessToken(_ context.Context, _ *gorm.DB, accessToken string) (*domain.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.AccessToken == accessToken {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) GetByRefreshToken(_ context.Context, _ *gorm.DB, refreshToken string) (*domain.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.RefreshToken == refreshToken {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.UserToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.tokens, id)
	}
	return nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, _ *gorm.DB, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, id)
		}
	}
	return nil
}

// recordingNotifier counts deliveries so tests can assert the best-effort
// hooks fired without standing up a bus or mail provider.
type recordingNotifier struct {
	mu        sync.Mutex
	requested int
	responded int
	messages  int
}

func (n *recordingNotifier) ConnectionRequested(context.Context, *domain.User, *domain.User, *domain.Connection) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requested++
}

func (n *recordingNotifier) ConnectionResponded(context.Context, *domain.User, *domain.User, *domain.Connection) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.responded++
}

func (n *recordingNotifier) MessageSent(context.Context, *domain.User, *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages++
}

func seedResearcher(email string) *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Researcher",
		Role:      domain.RoleResearcher,
	}
}

func seedPatient(email string) *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Patient",
		Role:      domain.RolePatient,
	}
}

type fakeForumRepo struct {
	mu         sync.Mutex
	categories map[string]*domain.ForumCategory
	threads    map[uuid.UUID]*domain.ForumThread
	posts      map[uuid.UUID]*domain.ForumPost
	seq        int64
}

func newFakeForumRepo() *fakeForumRepo {
	return &fakeForumRepo{
		categories: map[string]*domain.ForumCategory{},
		threads:    map[uuid.UUID]*domain.ForumThread{},
		posts:      map[uuid.UUID]*domain.ForumPost{},
	}
}

// stamp hands out strictly increasing timestamps so created-at ordering is
// deterministic even when inserts land in the same nanosecond.
func (r *fakeForumRepo) stamp() time.Time {
	r.seq++
	return time.Unix(0, r.seq*int64(time.Millisecond))
}

func (r *fakeForumRepo) ListCategories(context.Context, *gorm.DB) ([]*domain.ForumCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ForumCategory, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeForumRepo) GetCategoryBySlug(_ context.Context, _ *gorm.DB, slug string) (*domain.ForumCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories[slug], nil
}

func (r *fakeForumRepo) UpsertCategory(_ context.Context, _ *gorm.DB, cat *domain.ForumCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[cat.Slug]; ok {
		return nil
	}
	cp := *cat
	cp.CreatedAt = r.stamp()
	r.categories[cat.Slug] = &cp
	return nil
}

func (r *fakeForumRepo) CreateThread(_ context.Context, _ *gorm.DB, thread *domain.ForumThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *thread
	cp.CreatedAt = r.stamp()
	cp.UpdatedAt = cp.CreatedAt
	r.threads[thread.ID] = &cp
	return nil
}

func (r *fakeForumRepo) GetThreadByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.ForumThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threads[id], nil
}

func (r *fakeForumRepo) ListThreadsByCategory(_ context.Context, _ *gorm.DB, categoryID uuid.UUID) ([]*domain.ForumThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ForumThread, 0)
	for _, t := range r.threads {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeForumRepo) CreatePost(_ context.Context, _ *gorm.DB, post *domain.ForumPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	cp.CreatedAt = r.stamp()
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakeForumRepo) ListPostsByThread(_ context.Context, _ *gorm.DB, threadID uuid.UUID) ([]*domain.ForumPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ForumPost, 0)
	for _, p := range r.posts {
		if p.ThreadID == threadID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
