package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
)

// MongoRepo implements Repository on a MongoDB collection. Blogs are keyed by
// an "id" string field with a unique index rather than the raw ObjectID, so
// ids stay opaque strings across storage backends.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, b *blog.Blog) (string, error) {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*blog.Blog, error) {
	var b blog.Blog
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// buildFilter translates a resolved query into the Mongo filter. Visibility
// constraints arrive inside q, so listing never post-filters.
func buildFilter(q blog.ListQuery) bson.M {
	f := bson.M{}
	if q.Category != "" {
		f["category"] = q.Category
	}
	if q.AuthorID != "" {
		f["authorId"] = q.AuthorID
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	if q.Approved != nil {
		f["approved"] = *q.Approved
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		f["$or"] = []bson.M{{"title": re}, {"body": re}, {"tags": re}}
	}
	return f
}

func buildSort(q blog.ListQuery) bson.D {
	if q.Featured {
		return bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

func (m *MongoRepo) Find(ctx context.Context, q blog.ListQuery) ([]*blog.Blog, error) {
	opts := options.Find().SetSort(buildSort(q)).SetSkip(q.Skip).SetLimit(q.Limit)
	cur, err := m.col.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*blog.Blog{}
	for cur.Next(ctx) {
		var b blog.Blog
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Count(ctx context.Context, q blog.ListQuery) (int64, error) {
	return m.col.CountDocuments(ctx, buildFilter(q))
}

func (m *MongoRepo) Update(ctx context.Context, id string, set map[string]interface{}) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) IncViews(ctx context.Context, id string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"views": 1})
	var out struct {
		Views int64 `bson:"views"`
	}
	err := m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return out.Views, nil
}

func (m *MongoRepo) AddLike(ctx context.Context, id string, l blog.Like) (bool, error) {
	// The $ne guard makes the insert a no-op when the user already holds a
	// like, even under concurrent toggles.
	filter := bson.M{"id": id, "likes.userId": bson.M{"$ne": l.UserID}}
	res, err := m.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"likes": l}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (m *MongoRepo) RemoveLike(ctx context.Context, id string, userID string) (bool, error) {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$pull": bson.M{"likes": bson.M{"userId": userID}}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount == 1, nil
}

func (m *MongoRepo) AddComment(ctx context.Context, id string, c blog.Comment) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) RemoveComment(ctx context.Context, id string, commentID string) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
