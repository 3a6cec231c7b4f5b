package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/keepsake-io/keepsake"
)

// itemDoc is the persisted shape of one item.
type itemDoc struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Kind        string    `bson:"kind"`
	Title       string    `bson:"title"`
	MediaType   string    `bson:"media_type"`
	ContentType string    `bson:"content_type"`
	SizeBytes   int64     `bson:"size_bytes"`
	StorageKey  string    `bson:"storage_key"`
	Locator     string    `bson:"storage_url"`
	Body        string    `bson:"text,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDoc(item keepsake.Item) itemDoc {
	return itemDoc{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Kind:        string(item.Kind),
		Title:       item.Title,
		MediaType:   item.MediaType,
		ContentType: item.ContentType,
		SizeBytes:   item.SizeBytes,
		StorageKey:  item.StorageKey,
		Locator:     item.Locator,
		Body:        item.Body,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func fromDoc(doc itemDoc) keepsake.Item {
	return keepsake.Item{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		Kind:        keepsake.ItemKind(doc.Kind),
		Title:       doc.Title,
		MediaType:   doc.MediaType,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		StorageKey:  doc.StorageKey,
		Locator:     doc.Locator,
		Body:        doc.Body,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

type repo struct {
	coll *mongo.Collection
}

func (r *repo) Insert(ctx context.Context, item keepsake.Item) (string, error) {
	doc := toDoc(item)
	doc.ID = uuid.NewString()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	return doc.ID, nil
}

func (r *repo) FindOne(ctx context.Context, ownerID, id string) (keepsake.Item, error) {
	// Ownership is part of the filter, not a post-check.
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "owner_id", Value: ownerID},
	}

	var doc itemDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return keepsake.Item{}, keepsake.ErrNotFound
		}
		return keepsake.Item{}, fmt.Errorf("find one: %w", err)
	}

	return fromDoc(doc), nil
}

func (r *repo) UpdateFields(ctx context.Context, ownerID, id string, update keepsake.ItemUpdate) (int64, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "owner_id", Value: ownerID},
	}

	set := bson.D{{Key: "updated_at", Value: update.UpdatedAt}}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Body != nil {
		set = append(set, bson.E{Key: "text", Value: *update.Body})
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, fmt.Errorf("update fields: %w", err)
	}

	// Matched, not modified: a no-op update of identical values still
	// resolves the predicate to one document.
	return res.MatchedCount, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]keepsake.Item, error) {
	// Creation order, id as tiebreaker, matching the sql backends.
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cur, err := r.coll.Find(ctx, bson.D{{Key: "owner_id", Value: ownerID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}

	items := make([]keepsake.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, fromDoc(doc))
	}

	return items, nil
}

func (r *repo) ListKeys(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "storage_key", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var keys []string
	for cur.Next(ctx) {
		var doc struct {
			StorageKey string `bson:"storage_key"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list keys: decode: %w", err)
		}
		keys = append(keys, doc.StorageKey)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	return keys, nil
}
