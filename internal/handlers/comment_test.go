package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/ydahhani/ripple/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCommentFixture() (*CommentHandler, *memStore) {
	store := newMemStore()
	return NewCommentHandler(store, store), store
}

func TestAddComment_AppendsRefToPost(t *testing.T) {
	h, store := newCommentFixture()
	e := newTestEcho()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice.ID, "say something")

	rec := invoke(t, e, h.AddComment, testRequest{
		method: http.MethodPost,
		path:   "/api/comments/" + post.ID.Hex(),
		body:   `{"text":"first!"}`,
		asUser: bob.ID,
		params: map[string]string{"postId": post.ID.Hex()},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var comment models.Comment
	decodeBody(t, rec, &comment)
	if comment.Text != "first!" || comment.Author != bob.ID || comment.Post != post.ID {
		t.Errorf("unexpected comment: %+v", comment)
	}

	postNow, _ := store.GetPostByID(context.Background(), post.ID)
	if len(postNow.Comments) != 1 || postNow.Comments[0] != comment.ID {
		t.Errorf("expected comment ref on the post, got %v", postNow.Comments)
	}
}

func TestAddComment_RequiresText(t *testing.T) {
	h, store := newCommentFixture()
	e := newTestEcho()
	alice := seedUser(t, store, "alice")
	post := seedPost(t, store, alice.ID, "say something")

	rec := invoke(t, e, h.AddComment, testRequest{
		method: http.MethodPost,
		path:   "/api/comments/" + post.ID.Hex(),
		body:   `{}`,
		asUser: alice.ID,
		params: map[string]string{"postId": post.ID.Hex()},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing text, got %d", rec.Code)
	}
}

func TestAddComment_PostMissing(t *testing.T) {
	h, store := newCommentFixture()
	e := newTestEcho()
	alice := seedUser(t, store, "alice")
	missing := primitive.NewObjectID()

	rec := invoke(t, e, h.AddComment, testRequest{
		method: http.MethodPost,
		path:   "/api/comments/" + missing.Hex(),
		body:   `{"text":"into the void"}`,
		asUser: alice.ID,
		params: map[string]string{"postId": missing.Hex()},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteComment_NonAuthorForbidden(t *testing.T) {
	h, store := newCommentFixture()
	e := newTestEcho()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice.ID, "say something")

	comment := &models.Comment{Text: "mine", Author: bob.ID, Post: post.ID}
	if err := store.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := invoke(t, e, h.DeleteComment, testRequest{
		method: http.MethodDelete,
		path:   "/api/comments/" + comment.ID.Hex(),
		asUser: alice.ID,
		params: map[string]string{"commentId": comment.ID.Hex()},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, err := store.GetCommentByID(context.Background(), comment.ID); err != nil {
		t.Error("comment must remain after a forbidden delete")
	}
}

func TestDeleteComment_AuthorRemovesRef(t *testing.T) {
	h, store := newCommentFixture()
	e := newTestEcho()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	post := seedPost(t, store, alice.ID, "say something")

	comment := &models.Comment{Text: "fleeting", Author: bob.ID, Post: post.ID}
	if err := store.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := store.AddCommentRef(context.Background(), post.ID, comment.ID); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := invoke(t, e, h.DeleteComment, testRequest{
		method: http.MethodDelete,
		path:   "/api/comments/" + comment.ID.Hex(),
		asUser: bob.ID,
		params: map[string]string{"commentId": comment.ID.Hex()},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.GetCommentByID(context.Background(), comment.ID); err == nil {
		t.Error("comment should be gone")
	}
	postNow, _ := store.GetPostByID(context.Background(), post.ID)
	if len(postNow.Comments) != 0 {
		t.Errorf("expected comment ref removed from post, got %v", postNow.Comments)
	}
}
