package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/middleware"
	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"github.com/ydahhani/ripple/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the Mongo repositories, preserving
// their query semantics (sort orders, limits, ErrNotFound).
type memStore struct {
	users    []*models.User
	posts    []*models.Post
	comments []*models.Comment
}

func newMemStore() *memStore { return &memStore{} }

// --- UserRepository ---

func (s *memStore) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *memStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *memStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.User{}
	for _, u := range s.users {
		if wanted[u.ID] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memStore) UpdateUser(_ context.Context, user *models.User) error {
	for i, u := range s.users {
		if u.ID == user.ID {
			clone := *user
			clone.UpdatedAt = time.Now()
			s.users[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *memStore) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memStore) GetSuggestedUsers(_ context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	out := []models.User{}
	for _, u := range s.users {
		if !excluded[u.ID] {
			out = append(out, *u)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// --- PostRepository ---

func (s *memStore) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	clone := *post
	s.posts = append(s.posts, &clone)
	return nil
}

func (s *memStore) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *memStore) GetAllPosts(_ context.Context) ([]models.Post, error) {
	return s.filterPosts(func(*models.Post) bool { return true }, "created_at", 0), nil
}

func (s *memStore) GetPostsByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool { return p.Author == author }, "created_at", 0), nil
}

func (s *memStore) GetPostsByAuthors(_ context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range authors {
		wanted[id] = true
	}
	return s.filterPosts(func(p *models.Post) bool { return wanted[p.Author] }, "created_at", 0), nil
}

func (s *memStore) GetLikedPostsByAuthor(_ context.Context, author primitive.ObjectID, limit int64) ([]models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool {
		return p.Author == author && len(p.Likes) > 0
	}, "updated_at", limit), nil
}

func (s *memStore) GetPostsByContentPattern(_ context.Context, pattern string, limit int64) ([]models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool {
		return strings.Contains(strings.ToLower(p.Content), strings.ToLower(pattern))
	}, "created_at", limit), nil
}

func (s *memStore) SetLikes(_ context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	for _, p := range s.posts {
		if p.ID == id {
			p.Likes = likes
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *memStore) AddCommentRef(_ context.Context, id, commentID primitive.ObjectID) error {
	for _, p := range s.posts {
		if p.ID == id {
			p.Comments = append(p.Comments, commentID)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *memStore) RemoveCommentRef(_ context.Context, id, commentID primitive.ObjectID) error {
	for _, p := range s.posts {
		if p.ID == id {
			kept := []primitive.ObjectID{}
			for _, cid := range p.Comments {
				if cid != commentID {
					kept = append(kept, cid)
				}
			}
			p.Comments = kept
			p.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (s *memStore) DeletePost(_ context.Context, id primitive.ObjectID) error {
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *memStore) GetTrendingHashtags(_ context.Context, limit int64) ([]models.Hashtag, error) {
	counts := map[string]int64{}
	for _, p := range s.posts {
		for _, tag := range p.Hashtags {
			counts[tag]++
		}
	}
	out := []models.Hashtag{}
	for tag, count := range counts {
		out = append(out, models.Hashtag{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) SearchHashtags(_ context.Context, query string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range s.posts {
		for _, tag := range p.Hashtags {
			if !seen[tag] && strings.Contains(strings.ToLower(tag), strings.ToLower(query)) {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out, nil
}

func (s *memStore) filterPosts(keep func(*models.Post) bool, sortField string, limit int64) []models.Post {
	out := []models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sortField == "updated_at" {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

// --- CommentRepository ---

func (s *memStore) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	clone := *comment
	s.comments = append(s.comments, &clone)
	return nil
}

func (s *memStore) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	for _, cm := range s.comments {
		if cm.ID == id {
			clone := *cm
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *memStore) GetCommentsByPostIDs(_ context.Context, postIDs []primitive.ObjectID, limit int64) ([]models.Comment, error) {
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range postIDs {
		wanted[id] = true
	}
	out := []models.Comment{}
	for _, cm := range s.comments {
		if wanted[cm.Post] {
			out = append(out, *cm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	for i, cm := range s.comments {
		if cm.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- test plumbing ---

// newTestEcho builds an echo instance with the app's validator and error
// shape, so handler errors render as {"error": "..."} like in production.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := "server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		if !c.Response().Committed {
			_ = c.JSON(code, echo.Map{"error": message})
		}
	}
	return e
}

type testRequest struct {
	method string
	path   string
	body   string
	// asUser sets the authenticated caller, bypassing the JWT middleware.
	asUser primitive.ObjectID
	params map[string]string
}

// invoke runs one handler func the way echo would, including error rendering,
// and returns the recorder.
func invoke(t *testing.T, e *echo.Echo, h echo.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if tr.body != "" {
		req = httptest.NewRequest(tr.method, tr.path, strings.NewReader(tr.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(tr.method, tr.path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if !tr.asUser.IsZero() {
		c.Set(middleware.ContextUserIDKey, tr.asUser.Hex())
	}
	if len(tr.params) > 0 {
		names := make([]string, 0, len(tr.params))
		values := make([]string, 0, len(tr.params))
		for k, v := range tr.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// seedUser registers a user directly in the store and returns it.
func seedUser(t *testing.T, store *memStore, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

// seedPost inserts a post authored by the given user and returns it.
func seedPost(t *testing.T, store *memStore, author primitive.ObjectID, content string) *models.Post {
	t.Helper()
	post := &models.Post{Content: content, Author: author}
	if err := store.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}
