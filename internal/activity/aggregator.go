// Package activity builds the recent-activity feed: a merged, time-ordered
// view of the likes, comments, follows and mentions directed at one user.
package activity

import (
	"context"
	"sort"

	"github.com/ydahhani/ripple/backend/internal/models"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categoryLimit caps how many source records each event category draws from.
const categoryLimit = 10

// Aggregator assembles activity events from the user, post and comment
// stores. It is read-only; events are never persisted.
type Aggregator struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewAggregator creates a new Aggregator
func NewAggregator(users repositories.UserRepository, posts repositories.PostRepository, comments repositories.CommentRepository) *Aggregator {
	return &Aggregator{users: users, posts: posts, comments: comments}
}

// RecentActivity returns the subject's activity events, most recent first.
// Self-likes and self-comments are excluded; mentions are not, matching the
// behavior the front end has always seen. Returns
// repositories.ErrNotFound when the subject does not exist.
func (a *Aggregator) RecentActivity(ctx context.Context, subjectID primitive.ObjectID) ([]models.ActivityEvent, error) {
	subject, err := a.users.GetUserByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	ownPosts, err := a.posts.GetPostsByAuthor(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	ownPostIDs := make([]primitive.ObjectID, len(ownPosts))
	postContent := make(map[primitive.ObjectID]string, len(ownPosts))
	for i, p := range ownPosts {
		ownPostIDs[i] = p.ID
		postContent[p.ID] = p.Content
	}

	likedPosts, err := a.posts.GetLikedPostsByAuthor(ctx, subjectID, categoryLimit)
	if err != nil {
		return nil, err
	}
	comments, err := a.comments.GetCommentsByPostIDs(ctx, ownPostIDs, categoryLimit)
	if err != nil {
		return nil, err
	}
	mentionPosts, err := a.posts.GetPostsByContentPattern(ctx, "@"+subject.Username, categoryLimit)
	if err != nil {
		return nil, err
	}

	actors, err := a.resolveActors(ctx, subject, likedPosts, comments, mentionPosts)
	if err != nil {
		return nil, err
	}

	events := []models.ActivityEvent{}

	for _, p := range likedPosts {
		for _, likerID := range p.Likes {
			if likerID == subjectID {
				continue
			}
			actor, ok := actors[likerID]
			if !ok {
				continue
			}
			events = append(events, models.ActivityEvent{
				ID:             p.ID.Hex() + "-" + likerID.Hex(),
				Kind:           models.ActivityLike,
				Actor:          actor,
				RelatedContent: p.Content,
				OccurredAt:     p.UpdatedAt,
			})
		}
	}

	for _, cm := range comments {
		if cm.Author == subjectID {
			continue
		}
		actor, ok := actors[cm.Author]
		if !ok {
			continue
		}
		events = append(events, models.ActivityEvent{
			ID:             cm.ID.Hex(),
			Kind:           models.ActivityComment,
			Actor:          actor,
			RelatedContent: postContent[cm.Post],
			OccurredAt:     cm.CreatedAt,
		})
	}

	// No follow timestamp is recorded anywhere, so every follow event
	// carries the subject's own account-creation time.
	for _, followerID := range subject.Followers {
		actor, ok := actors[followerID]
		if !ok {
			continue
		}
		events = append(events, models.ActivityEvent{
			ID:         subjectID.Hex() + "-" + followerID.Hex(),
			Kind:       models.ActivityFollow,
			Actor:      actor,
			OccurredAt: subject.CreatedAt,
		})
	}

	for _, p := range mentionPosts {
		actor, ok := actors[p.Author]
		if !ok {
			continue
		}
		events = append(events, models.ActivityEvent{
			ID:             p.ID.Hex(),
			Kind:           models.ActivityMention,
			Actor:          actor,
			RelatedContent: p.Content,
			OccurredAt:     p.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	return events, nil
}

// resolveActors batch-loads every user that can appear as an event actor.
// Actors that no longer exist are simply absent from the map; their events
// are skipped.
func (a *Aggregator) resolveActors(ctx context.Context, subject *models.User, likedPosts []models.Post, comments []models.Comment, mentionPosts []models.Post) (map[primitive.ObjectID]models.UserCompact, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, p := range likedPosts {
		for _, likerID := range p.Likes {
			add(likerID)
		}
	}
	for _, cm := range comments {
		add(cm.Author)
	}
	for _, followerID := range subject.Followers {
		add(followerID)
	}
	for _, p := range mentionPosts {
		add(p.Author)
	}

	users, err := a.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	actors := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for i := range users {
		actors[users[i].ID] = users[i].ToCompact()
	}
	return actors, nil
}
