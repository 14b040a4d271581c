package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/media"
	"github.com/theleywin/Backend-Linkup/src/models"
	"github.com/theleywin/Backend-Linkup/src/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	posts         store.PostStore
	users         store.UserStore
	notifications *NotificationService
	images        media.ImageStore
	mail          mail.Queue
	clientURL     string
}

func NewPostService(posts store.PostStore, users store.UserStore, notifications *NotificationService, images media.ImageStore, queue mail.Queue, clientURL string) *PostService {
	return &PostService{
		posts:         posts,
		users:         users,
		notifications: notifications,
		images:        images,
		mail:          queue,
		clientURL:     clientURL,
	}
}

// Feed returns posts by the user and their connections, newest first.
func (s *PostService) Feed(ctx context.Context, user models.User) ([]models.PostDto, error) {
	authors := append([]primitive.ObjectID{user.Id}, user.Connections...)
	posts, err := s.posts.FindByAuthors(ctx, authors)
	if err != nil {
		return nil, wrap("load feed", err)
	}
	return s.expand(ctx, posts...)
}

func (s *PostService) Create(ctx context.Context, user models.User, input models.CreatePostDto) (models.PostDto, error) {
	if err := lib.Validate(input); err != nil || (strings.TrimSpace(input.Content) == "" && input.Image == "") {
		return models.PostDto{}, validation("Content or image is required")
	}

	now := time.Now()
	post := &models.Post{
		Author:    user.Id,
		Content:   input.Content,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Image != "" {
		url, err := s.images.Upload(ctx, input.Image)
		if errors.Is(err, media.ErrInvalidImage) {
			return models.PostDto{}, validation("Invalid image")
		}
		if errors.Is(err, media.ErrDisabled) {
			return models.PostDto{}, validation("Image uploads are disabled")
		}
		if err != nil {
			return models.PostDto{}, wrap("upload post image", err)
		}
		post.Image = url
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return models.PostDto{}, wrap("create post", err)
	}
	return s.expandOne(ctx, *post)
}

func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (models.PostDto, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return models.PostDto{}, err
	}
	return s.expandOne(ctx, post)
}

// Delete removes the post's image before the record; if the image cannot be
// destroyed the post is kept.
func (s *PostService) Delete(ctx context.Context, id primitive.ObjectID, user models.User) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != user.Id {
		return forbidden("You are not authorized to delete this post")
	}

	if post.Image != "" {
		if err := s.images.Destroy(ctx, post.Image); err != nil {
			return wrap("destroy post image", err)
		}
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Post not found")
		}
		return wrap("delete post", err)
	}
	return nil
}

// ToggleLike likes the post, or unlikes it when the user already liked it.
// Only a like notifies the author.
func (s *PostService) ToggleLike(ctx context.Context, id primitive.ObjectID, user models.User) (models.PostDto, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return models.PostDto{}, err
	}

	var changed bool
	if lib.ContainsID(post.Likes, user.Id) {
		post, _, err = s.posts.RemoveLike(ctx, id, user.Id)
	} else {
		post, changed, err = s.posts.AddLike(ctx, id, user.Id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.PostDto{}, notFound("Post not found")
	}
	if err != nil {
		return models.PostDto{}, wrap("toggle like", err)
	}

	if changed {
		postID := post.Id
		if err := s.notifications.Notify(ctx, post.Author, models.NotificationTypeLike, user.Id, &postID); err != nil {
			slog.Error("like notification failed", "post", postID.Hex(), "error", err)
		}
	}
	return s.expandOne(ctx, post)
}

// AddComment appends a comment. Commenting on someone else's post notifies
// and emails the author.
func (s *PostService) AddComment(ctx context.Context, id primitive.ObjectID, user models.User, input models.CreateCommentDto) (models.PostDto, error) {
	if err := lib.Validate(input); err != nil || strings.TrimSpace(input.Content) == "" {
		return models.PostDto{}, validation("Content is required")
	}

	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		User:      user.Id,
		Content:   input.Content,
		CreatedAt: time.Now(),
	}
	post, err := s.posts.AddComment(ctx, id, comment)
	if errors.Is(err, store.ErrNotFound) {
		return models.PostDto{}, notFound("Post not found")
	}
	if err != nil {
		return models.PostDto{}, wrap("add comment", err)
	}

	if post.Author != user.Id {
		postID := post.Id
		if err := s.notifications.Notify(ctx, post.Author, models.NotificationTypeComment, user.Id, &postID); err != nil {
			slog.Error("comment notification failed", "post", postID.Hex(), "error", err)
		}
		s.emailAuthor(ctx, post, user, input.Content)
	}
	return s.expandOne(ctx, post)
}

func (s *PostService) emailAuthor(ctx context.Context, post models.Post, commenter models.User, content string) {
	author, err := s.users.FindByID(ctx, post.Author)
	if err != nil {
		slog.Error("load post author for comment email", "post", post.Id.Hex(), "error", err)
		return
	}
	job := mail.CommentJob(author.Email, author.Name, commenter.Name, s.clientURL+"/post/"+post.Id.Hex(), content)
	if err := s.mail.Enqueue(ctx, job); err != nil {
		slog.Error("enqueue comment email", "post", post.Id.Hex(), "error", err)
	}
}

func (s *PostService) load(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Post{}, notFound("Post not found")
	}
	if err != nil {
		return models.Post{}, wrap("load post", err)
	}
	return post, nil
}

func (s *PostService) expandOne(ctx context.Context, post models.Post) (models.PostDto, error) {
	out, err := s.expand(ctx, post)
	if err != nil {
		return models.PostDto{}, err
	}
	return out[0], nil
}

// expand resolves authors and commenters with a single user lookup.
func (s *PostService) expand(ctx context.Context, posts ...models.Post) ([]models.PostDto, error) {
	seen := map[primitive.ObjectID]struct{}{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.Author)
		for _, c := range p.Comments {
			add(c.User)
		}
	}

	users, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, wrap("resolve post users", err)
	}
	summary := func(id primitive.ObjectID) models.UserDto {
		u, ok := users[id]
		if !ok {
			return models.UserDto{ID: id}
		}
		u.Connections = nil
		return u
	}

	out := make([]models.PostDto, 0, len(posts))
	for _, p := range posts {
		likes := p.Likes
		if likes == nil {
			likes = []primitive.ObjectID{}
		}
		comments := make([]models.CommentDto, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentDto{
				ID:        c.Id,
				Content:   c.Content,
				User:      summary(c.User),
				CreatedAt: c.CreatedAt,
			})
		}
		out = append(out, models.PostDto{
			ID:        p.Id,
			Author:    summary(p.Author),
			Content:   p.Content,
			Image:     p.Image,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out, nil
}
