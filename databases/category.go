package databases

// go generate: mockery --name CategoryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiclens/civiclens-api/models"
)

const categoryName = "categories"

// CategoryDatabase contains the methods to use with the category database
type CategoryDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Category, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Category, error)
	InsertOne(ctx context.Context, category models.Category) (interface{}, error)
	DeleteOne(ctx context.Context, filter interface{}) error
}

type categoryDatabase struct {
	db DatabaseHelper
}

// NewCategoryDatabase initializes a new instance of category database with the provided db connection
func NewCategoryDatabase(db DatabaseHelper) CategoryDatabase {
	return &categoryDatabase{
		db: db,
	}
}

func (c *categoryDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Category, error) {
	category := &models.Category{}
	err := c.db.Collection(categoryName).FindOne(ctx, filter).Decode(&category)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (c *categoryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Category, error) {
	cursor, err := c.db.Collection(categoryName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := cursor.Decode(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *categoryDatabase) InsertOne(ctx context.Context, category models.Category) (interface{}, error) {
	res, err := c.db.Collection(categoryName).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}

func (c *categoryDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return c.db.Collection(categoryName).DeleteOne(ctx, filter)
}
