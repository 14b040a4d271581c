// Package memstore implements the store interfaces in process memory. It backs
// the service tests and STORE=memory runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	order []primitive.ObjectID
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return &store.DuplicateError{Field: "email"}
		}
		if u.Username == user.Username {
			return &store.DuplicateError{Field: "username"}
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Connections == nil {
		user.Connections = []primitive.ObjectID{}
	}
	s.users[user.Id] = copyUser(*user)
	s.order = append(s.order, user.Id)
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) findBy(match func(models.User) bool) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *UserStore) FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserDto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.UserDto, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = copyUser(u).Summary()
		}
	}
	return out, nil
}

func (s *UserStore) Suggestions(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.UserDto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UserDto{}
	for _, id := range s.order {
		if len(out) == limit {
			break
		}
		if lib.ContainsID(exclude, id) {
			continue
		}
		out = append(out, copyUser(s.users[id]).Summary())
	}
	return out, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdateDto) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	if update.Username != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Username == *update.Username {
				return models.User{}, &store.DuplicateError{Field: "username"}
			}
		}
		u.Username = *update.Username
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Headline != nil {
		u.Headline = *update.Headline
	}
	if update.About != nil {
		u.About = *update.About
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.ProfilePicture != nil {
		u.ProfilePicture = *update.ProfilePicture
	}
	if update.BannerImg != nil {
		u.BannerImg = *update.BannerImg
	}
	if update.Skills != nil {
		u.Skills = append([]string(nil), *update.Skills...)
	}
	if update.Experience != nil {
		u.Experience = append([]models.Experience(nil), *update.Experience...)
	}
	if update.Education != nil {
		u.Education = append([]models.Education(nil), *update.Education...)
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return copyUser(u), nil
}

func (s *UserStore) AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || lib.ContainsID(u.Connections, otherID) {
		return nil
	}
	u.Connections = append(append([]primitive.ObjectID(nil), u.Connections...), otherID)
	s.users[userID] = u
	return nil
}

func (s *UserStore) RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	u.Connections = without(u.Connections, otherID)
	s.users[userID] = u
	return nil
}

type PostStore struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]models.Post
	// seq orders posts created within the same clock tick
	seq map[primitive.ObjectID]int
	n   int
}

func NewPostStore() *PostStore {
	return &PostStore{posts: map[primitive.ObjectID]models.Post{}, seq: map[primitive.ObjectID]int{}}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	now := time.Now()
	post.CreatedAt, post.UpdatedAt = now, now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	s.posts[post.Id] = copyPost(*post)
	s.n++
	s.seq[post.Id] = s.n
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	return copyPost(p), nil
}

func (s *PostStore) FindByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if lib.ContainsID(authors, p.Author) {
			out = append(out, copyPost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].Id] > s.seq[out[j].Id] })
	return out, nil
}

func (s *PostStore) FindPreviews(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostPreview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.PostPreview, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out[id] = models.PostPreview{ID: p.Id, Content: p.Content, Image: p.Image}
		}
	}
	return out, nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	delete(s.seq, id)
	return nil
}

func (s *PostStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, false, store.ErrNotFound
	}
	if lib.ContainsID(p.Likes, userID) {
		return copyPost(p), false, nil
	}
	p.Likes = append(append([]primitive.ObjectID(nil), p.Likes...), userID)
	p.UpdatedAt = time.Now()
	s.posts[id] = p
	return copyPost(p), true, nil
}

func (s *PostStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (models.Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, false, store.ErrNotFound
	}
	if !lib.ContainsID(p.Likes, userID) {
		return copyPost(p), false, nil
	}
	p.Likes = without(p.Likes, userID)
	p.UpdatedAt = time.Now()
	s.posts[id] = p
	return copyPost(p), true, nil
}

func (s *PostStore) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	p.Comments = append(append([]models.Comment(nil), p.Comments...), comment)
	p.UpdatedAt = time.Now()
	s.posts[id] = p
	return copyPost(p), nil
}

type ConnectionStore struct {
	mu       sync.RWMutex
	requests map[primitive.ObjectID]models.ConnectionRequest
	seq      map[primitive.ObjectID]int
	n        int
}

func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{
		requests: map[primitive.ObjectID]models.ConnectionRequest{},
		seq:      map[primitive.ObjectID]int{},
	}
}

func (s *ConnectionStore) Create(ctx context.Context, req *models.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.Pair = models.PairKey(req.Sender, req.Recipient)
	if req.Status == models.ConnectionStatusPending {
		for _, r := range s.requests {
			if r.Pair == req.Pair && r.Status == models.ConnectionStatusPending {
				return store.ErrDuplicate
			}
		}
	}
	if req.Id.IsZero() {
		req.Id = primitive.NewObjectID()
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	s.requests[req.Id] = *req
	s.n++
	s.seq[req.Id] = s.n
	return nil
}

func (s *ConnectionStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.ConnectionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return models.ConnectionRequest{}, store.ErrNotFound
	}
	return r, nil
}

func (s *ConnectionStore) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (models.ConnectionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair := models.PairKey(a, b)
	for _, r := range s.requests {
		if r.Pair == pair && r.Status == models.ConnectionStatusPending {
			return r, nil
		}
	}
	return models.ConnectionRequest{}, store.ErrNotFound
}

func (s *ConnectionStore) ListPendingFor(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ConnectionRequest{}
	for _, r := range s.requests {
		if r.Recipient == recipient && r.Status == models.ConnectionStatusPending {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].Id] > s.seq[out[j].Id] })
	return out, nil
}

func (s *ConnectionStore) Transition(ctx context.Context, id, recipient primitive.ObjectID, status models.ConnectionStatus) (models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok || r.Recipient != recipient || r.Status != models.ConnectionStatusPending {
		return models.ConnectionRequest{}, store.ErrConflict
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	s.requests[id] = r
	return r, nil
}

// Count returns the number of stored requests in the given status.
func (s *ConnectionStore) Count(status models.ConnectionStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.requests {
		if r.Status == status {
			n++
		}
	}
	return n
}

type NotificationStore struct {
	mu            sync.RWMutex
	notifications []models.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *NotificationStore) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].Recipient == recipient {
			out = append(out, s.notifications[i])
		}
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.Id == id && n.Recipient == recipient {
			s.notifications[i].Read = true
			s.notifications[i].UpdatedAt = time.Now()
			return s.notifications[i], nil
		}
	}
	return models.Notification{}, store.ErrNotFound
}

func (s *NotificationStore) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.Id == id && n.Recipient == recipient {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyUser(u models.User) models.User {
	u.Connections = append([]primitive.ObjectID{}, u.Connections...)
	u.Skills = append([]string(nil), u.Skills...)
	return u
}

func copyPost(p models.Post) models.Post {
	p.Likes = append([]primitive.ObjectID{}, p.Likes...)
	p.Comments = append([]models.Comment{}, p.Comments...)
	return p
}

var (
	_ store.UserStore         = (*UserStore)(nil)
	_ store.PostStore         = (*PostStore)(nil)
	_ store.ConnectionStore   = (*ConnectionStore)(nil)
	_ store.NotificationStore = (*NotificationStore)(nil)
	_ store.UserStore         = (*store.MongoUserStore)(nil)
	_ store.PostStore         = (*store.MongoPostStore)(nil)
	_ store.ConnectionStore   = (*store.MongoConnectionStore)(nil)
	_ store.NotificationStore = (*store.MongoNotificationStore)(nil)
)
