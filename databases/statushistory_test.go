package databases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/databases/mocks"
	"github.com/civiclens/civiclens-api/models"
)

func TestStatusHistoryDatabase_InsertOne(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	insertedID := primitive.NewObjectID()
	insertResult.On("Decode").Return(insertedID)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "statusHistory").Return(conn)

	historyDB := databases.NewStatusHistoryDatabase(db)
	id, err := historyDB.InsertOne(context.Background(), models.StatusHistory{
		ReportID:       primitive.NewObjectID(),
		UserID:         "admin-1",
		PreviousStatus: models.StatusPending,
		NewStatus:      models.StatusVerified,
	})

	assert.NoError(t, err)
	assert.Equal(t, insertedID, id)
}

func TestStatusHistoryDatabase_FindPage_PaginatesNewestFirst(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.StatusHistory)
		*arg = []models.StatusHistory{{NewStatus: models.StatusResolved}}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.MatchedBy(func(opts *options.FindOptions) bool {
		return *opts.Limit == 20 && *opts.Skip == 20 && assert.ObjectsAreEqual(bson.M{"createdAt": -1}, opts.Sort)
	})).Return(cursor, nil)
	db.On("Collection", "statusHistory").Return(conn)

	historyDB := databases.NewStatusHistoryDatabase(db)
	records, err := historyDB.FindPage(context.Background(), bson.M{}, 20, 2)

	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
