package handlers

import (
	"context"
	"sort"

	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostView is a post with its author and comments resolved for the client
type PostView struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	Comments []CommentView      `json:"comments"`
}

// CommentView is a comment with its author resolved for the client
type CommentView struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// buildPostViews resolves authors and comments for a list of posts in two
// batched lookups. Posts keep their input order; comments are oldest first
// within each post.
func buildPostViews(ctx context.Context, posts []models.Post, users repositories.UserRepository, comments repositories.CommentRepository) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	allComments, err := comments.GetCommentsByPostIDs(ctx, postIDs, 0)
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]bool{}
	authorIDs := []primitive.ObjectID{}
	collect := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	for _, p := range posts {
		collect(p.Author)
	}
	for _, cm := range allComments {
		collect(cm.Author)
	}

	authors, err := users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[primitive.ObjectID]models.UserCompact, len(authors))
	for i := range authors {
		authorMap[authors[i].ID] = authors[i].ToCompact()
	}

	commentsByPost := map[primitive.ObjectID][]CommentView{}
	for _, cm := range allComments {
		commentsByPost[cm.Post] = append(commentsByPost[cm.Post], CommentView{
			Comment: cm,
			Author:  authorMap[cm.Author],
		})
	}
	for _, cvs := range commentsByPost {
		sort.SliceStable(cvs, func(i, j int) bool {
			return cvs[i].CreatedAt.Before(cvs[j].CreatedAt)
		})
	}

	for _, p := range posts {
		cvs := commentsByPost[p.ID]
		if cvs == nil {
			cvs = []CommentView{}
		}
		views = append(views, PostView{
			Post:     p,
			Author:   authorMap[p.Author],
			Comments: cvs,
		})
	}
	return views, nil
}
