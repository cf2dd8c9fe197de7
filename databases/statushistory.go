package databases

// go generate: mockery --name StatusHistoryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiclens/civiclens-api/models"
)

const statusHistoryName = "statusHistory"

// StatusHistoryDatabase contains the methods to use with the status history database.
// The collection is append-only: records are inserted once and never updated.
type StatusHistoryDatabase interface {
	InsertOne(ctx context.Context, record models.StatusHistory) (interface{}, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusHistory, error)
	FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.StatusHistory, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type statusHistoryDatabase struct {
	db DatabaseHelper
}

// NewStatusHistoryDatabase initializes a new instance of status history database with the provided db connection
func NewStatusHistoryDatabase(db DatabaseHelper) StatusHistoryDatabase {
	return &statusHistoryDatabase{
		db: db,
	}
}

func (c *statusHistoryDatabase) InsertOne(ctx context.Context, record models.StatusHistory) (interface{}, error) {
	res, err := c.db.Collection(statusHistoryName).InsertOne(ctx, record)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}

func (c *statusHistoryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusHistory, error) {
	cursor, err := c.db.Collection(statusHistoryName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var records []models.StatusHistory
	if err := cursor.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindPage returns one page of records, newest first
func (c *statusHistoryDatabase) FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.StatusHistory, error) {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.M{"createdAt": -1})
	return c.Find(ctx, filter, opts)
}

func (c *statusHistoryDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(statusHistoryName).CountDocuments(ctx, filter)
}
