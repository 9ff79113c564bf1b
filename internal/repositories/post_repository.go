package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/ydahhani/ripple/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations. The
// capability methods (by author, by like membership, by content pattern) are
// what the activity aggregator builds its event categories from.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	GetPostsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error)
	GetLikedPostsByAuthor(ctx context.Context, author primitive.ObjectID, limit int64) ([]models.Post, error)
	GetPostsByContentPattern(ctx context.Context, pattern string, limit int64) ([]models.Post, error)
	SetLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error
	AddCommentRef(ctx context.Context, id, commentID primitive.ObjectID) error
	RemoveCommentRef(ctx context.Context, id, commentID primitive.ObjectID) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	GetTrendingHashtags(ctx context.Context, limit int64) ([]models.Hashtag, error)
	SearchHashtags(ctx context.Context, query string) ([]string, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves all posts, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.D{}, findOptions)
}

// GetPostsByAuthor retrieves posts by a single author, newest first
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"author": author}, findOptions)
}

// GetPostsByAuthors retrieves posts authored by any of the given users, newest first
func (r *MongoPostRepository) GetPostsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	if len(authors) == 0 {
		return []models.Post{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"author": bson.M{"$in": authors}}, findOptions)
}

// GetLikedPostsByAuthor retrieves the author's posts that have at least one
// like, most recently updated first.
func (r *MongoPostRepository) GetLikedPostsByAuthor(ctx context.Context, author primitive.ObjectID, limit int64) ([]models.Post, error) {
	filter := bson.M{
		"author": author,
		"likes":  bson.M{"$exists": true, "$ne": []primitive.ObjectID{}},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(limit)
	return r.find(ctx, filter, findOptions)
}

// GetPostsByContentPattern retrieves posts whose content contains the pattern
// (case-insensitive substring match), newest first. A limit of 0 means no limit.
func (r *MongoPostRepository) GetPostsByContentPattern(ctx context.Context, pattern string, limit int64) ([]models.Post, error) {
	filter := bson.M{"content": primitive.Regex{Pattern: regexp.QuoteMeta(pattern), Options: "i"}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, filter, findOptions)
}

// SetLikes replaces the like membership of a post and bumps updated_at, which
// is the timestamp the activity feed reports for like events.
func (r *MongoPostRepository) SetLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	if likes == nil {
		likes = []primitive.ObjectID{}
	}
	update := bson.M{"$set": bson.M{"likes": likes, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCommentRef appends a comment id to the post's comment list
func (r *MongoPostRepository) AddCommentRef(ctx context.Context, id, commentID primitive.ObjectID) error {
	update := bson.M{
		"$push": bson.M{"comments": commentID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveCommentRef removes a comment id from the post's comment list
func (r *MongoPostRepository) RemoveCommentRef(ctx context.Context, id, commentID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"comments": commentID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTrendingHashtags returns the most used hashtags across all posts
func (r *MongoPostRepository) GetTrendingHashtags(ctx context.Context, limit int64) ([]models.Hashtag, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$hashtags"}},
		{{Key: "$group", Value: bson.M{"_id": "$hashtags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	hashtags := []models.Hashtag{}
	if err = cursor.All(ctx, &hashtags); err != nil {
		return nil, err
	}
	return hashtags, nil
}

// SearchHashtags returns the distinct hashtags matching the query
// (case-insensitive substring match)
func (r *MongoPostRepository) SearchHashtags(ctx context.Context, query string) ([]string, error) {
	filter := bson.M{"hashtags": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	values, err := r.collection.Distinct(ctx, "hashtags", filter)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	for _, v := range values {
		if tag, ok := v.(string); ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
