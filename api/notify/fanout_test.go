package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/databases/mocks"
	"github.com/civiclens/civiclens-api/models"
)

func subscriber(id primitive.ObjectID, email string, lat, lon, radiusKm float64) models.User {
	return models.User{
		ID:          id,
		Email:       email,
		DisplayName: email,
		Location:    &models.GeoPoint{Latitude: lat, Longitude: lon},
		RadiusKm:    radiusKm,
	}
}

func TestFanout_NotifyNearby_FiltersByRadius(t *testing.T) {
	near := primitive.NewObjectID()
	far := primitive.NewObjectID()

	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return([]models.User{
		subscriber(near, "near@example.com", 6.001, -75.001, 5),
		subscriber(far, "far@example.com", 7.0, -76.0, 1),
	}, nil)

	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email}

	result := f.NotifyNearby(context.Background(), models.Report{
		ID:          primitive.NewObjectID(),
		Title:       "Broken streetlight",
		Description: "Dark corner at night",
		Location:    models.GeoPoint{Latitude: 6.0, Longitude: -75.0},
		AuthorID:    primitive.NewObjectID().Hex(),
	})

	assert.Equal(t, 1, result.Recipients)
	assert.True(t, realtime.deliveredTo(near.Hex()))
	assert.False(t, realtime.deliveredTo(far.Hex()))
	assert.True(t, email.sentTo("near@example.com"))
	assert.False(t, email.sentTo("far@example.com"))
}

func TestFanout_NotifyNearby_ExcludesAuthor(t *testing.T) {
	author := primitive.NewObjectID()
	other := primitive.NewObjectID()

	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return([]models.User{
		subscriber(author, "author@example.com", 6.0, -75.0, 5),
		subscriber(other, "other@example.com", 6.0, -75.0, 5),
	}, nil)

	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email}

	result := f.NotifyNearby(context.Background(), models.Report{
		ID:       primitive.NewObjectID(),
		Title:    "Pothole",
		Location: models.GeoPoint{Latitude: 6.0, Longitude: -75.0},
		AuthorID: author.Hex(),
	})

	assert.Equal(t, 1, result.Recipients)
	assert.False(t, realtime.deliveredTo(author.Hex()))
	assert.True(t, realtime.deliveredTo(other.Hex()))
}

func TestFanout_NotifyNearby_SkipsUsersWithoutLocation(t *testing.T) {
	located := primitive.NewObjectID()
	unlocated := primitive.NewObjectID()

	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return([]models.User{
		subscriber(located, "located@example.com", 6.0, -75.0, 5),
		{ID: unlocated, Email: "unlocated@example.com", RadiusKm: 5},
	}, nil)

	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email}

	result := f.NotifyNearby(context.Background(), models.Report{
		ID:       primitive.NewObjectID(),
		Title:    "Fallen tree",
		Location: models.GeoPoint{Latitude: 6.0, Longitude: -75.0},
		AuthorID: primitive.NewObjectID().Hex(),
	})

	assert.Equal(t, 1, result.Recipients)
	assert.Equal(t, 1, realtime.count())
}

func TestFanout_NotifyNearby_OneFailureNeverStopsTheOthers(t *testing.T) {
	broken := primitive.NewObjectID()
	healthy1 := primitive.NewObjectID()
	healthy2 := primitive.NewObjectID()

	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return([]models.User{
		subscriber(broken, "broken@example.com", 6.0, -75.0, 5),
		subscriber(healthy1, "healthy1@example.com", 6.0, -75.0, 5),
		subscriber(healthy2, "healthy2@example.com", 6.0, -75.0, 5),
	}, nil)

	realtime := &fakeRealtime{failFor: map[string]error{
		broken.Hex(): errors.New("connection reset"),
	}}
	email := &fakeEmail{failFor: map[string]error{
		"broken@example.com": errors.New("smtp 550"),
	}}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email, Workers: 2}

	result := f.NotifyNearby(context.Background(), models.Report{
		ID:       primitive.NewObjectID(),
		Title:    "Water main break",
		Location: models.GeoPoint{Latitude: 6.0, Longitude: -75.0},
		AuthorID: primitive.NewObjectID().Hex(),
	})

	assert.Equal(t, 3, result.Recipients)
	assert.Equal(t, int64(1), result.RealtimeFailures)
	assert.Equal(t, int64(1), result.EmailFailures)
	assert.True(t, realtime.deliveredTo(healthy1.Hex()))
	assert.True(t, realtime.deliveredTo(healthy2.Hex()))
	assert.True(t, email.sentTo("healthy1@example.com"))
	assert.True(t, email.sentTo("healthy2@example.com"))
	// the failed realtime push still gets an email attempt
	assert.Equal(t, 2, email.count())
}

func TestFanout_NotifyNearby_SubscriberLoadFailureIsSwallowed(t *testing.T) {
	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return(nil, errors.New("primary stepped down"))

	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email}

	result := f.NotifyNearby(context.Background(), models.Report{ID: primitive.NewObjectID()})

	assert.Equal(t, notify.FanoutResult{}, result)
	assert.Zero(t, realtime.count())
	assert.Zero(t, email.count())
}

func TestFanout_NotifyNearby_PayloadCarriesReportDetails(t *testing.T) {
	sub := primitive.NewObjectID()
	reportID := primitive.NewObjectID()

	users := &mocks.UserDatabase{}
	users.On("FindWithLocation", mock.Anything).Return([]models.User{
		subscriber(sub, "sub@example.com", 6.001, -75.001, 5),
	}, nil)

	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	f := notify.Fanout{Users: users, Realtime: realtime, Email: email}

	f.NotifyNearby(context.Background(), models.Report{
		ID:          reportID,
		Title:       "Graffiti",
		Description: "On the underpass wall",
		Location:    models.GeoPoint{Latitude: 6.0, Longitude: -75.0},
		AuthorID:    primitive.NewObjectID().Hex(),
	})

	if assert.Equal(t, 1, realtime.count()) {
		payload := realtime.delivered[0]
		assert.Equal(t, notify.KindProximityAlert, payload.Kind)
		assert.Equal(t, reportID.Hex(), payload.ReportID)
		assert.Equal(t, "Graffiti", payload.Title)
		assert.Equal(t, "On the underpass wall", payload.Body)
		assert.Greater(t, payload.DistanceKm, 0.0)
	}
}
