package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/jsontodo/internal/features/todos"
)

// document is the single record that holds the whole collection.
type document struct {
	ID        string       `bson:"_id"`
	Items     []todos.Todo `bson:"items"`
	UpdatedAt time.Time    `bson:"updatedAt"`
}

// Store keeps the collection as one document, so a save replaces everything
// exactly like a rewrite of the JSON file does.
type Store struct {
	collection *mongo.Collection
	docID      string
}

func New(db *mongo.Database, collection, docID string) *Store {
	return &Store{
		collection: db.Collection(collection),
		docID:      docID,
	}
}

// Load returns an empty collection when the document has not been written yet
func (s *Store) Load(ctx context.Context) ([]todos.Todo, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": s.docID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []todos.Todo{}, nil
		}
		return nil, fmt.Errorf("find todos document: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []todos.Todo{}
	}
	return doc.Items, nil
}

func (s *Store) Save(ctx context.Context, items []todos.Todo) error {
	if items == nil {
		items = []todos.Todo{}
	}
	doc := document{
		ID:        s.docID,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": s.docID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace todos document: %w", err)
	}
	return nil
}
