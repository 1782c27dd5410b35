package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_Feed(t *testing.T) {
	mockNotificationService := new(testutil.MockNotificationService)
	handler := NewNotificationHandler(mockNotificationService)
	app := newTestRouter(http.MethodGet, "/notifications", handler.Feed)

	feed := &models.NotificationFeed{
		Games: []models.GameNotifications{{
			ID:        5,
			Title:     "Game at Rucker Park",
			OwnerName: "Hooper",
			Date:      testGameDate,
			Messages:  []string{"Baller has joined your game", "You have been invited to a game"},
		}},
		Friends: []models.FriendNotification{{
			ID:      3,
			Member:  models.MemberSummary{ID: 7, Name: "Hooper"},
			Friend:  models.MemberSummary{ID: 9, Name: "Baller"},
			Message: "Baller has sent you a friend request",
		}},
	}
	mockNotificationService.On("Fetch", mock.Anything, int64(7)).Return(feed, nil)

	client := testutil.NewHTTPTestClient(t, app)
	rec := client.GET("/notifications", testutil.AuthHeader(testutil.GenerateTestToken(t, 7, "hooper")))

	testutil.AssertStatus(t, rec, http.StatusOK)

	var response models.NotificationFeed
	testutil.ParseJSON(t, rec, &response)
	require.Len(t, response.Games, 1)
	assert.Equal(t, feed.Games[0].Messages, response.Games[0].Messages)
	assert.Equal(t, "Baller", response.Friends[0].Friend.Name)
	mockNotificationService.AssertExpectations(t)
}

func TestNotificationHandler_List(t *testing.T) {
	mockNotificationService := new(testutil.MockNotificationService)
	handler := NewNotificationHandler(mockNotificationService)
	app := newTestRouter(http.MethodGet, "/notifications/all", handler.List)

	mockNotificationService.On("List", mock.Anything, int64(7)).Return([]models.Notification{
		{ID: 1, Member: models.MemberSummary{ID: 7}, Friend: &models.MemberSummary{ID: 9}, Message: "hi"},
	}, nil)

	rec := doRequest(app, http.MethodGet, "/notifications/all", testToken(t), nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []map[string]any
	testutil.ParseJSON(t, rec, &response)
	require.Len(t, response, 1)
	assert.Equal(t, "hi", response[0]["message"])
	assert.NotContains(t, response[0], "game")
}

func TestNotificationHandler_Clear(t *testing.T) {
	mockNotificationService := new(testutil.MockNotificationService)
	handler := NewNotificationHandler(mockNotificationService)
	all := newTestRouter(http.MethodDelete, "/notifications", handler.ClearAll)
	game := newTestRouter(http.MethodDelete, "/notifications/games/:id", handler.ClearGame)
	friends := newTestRouter(http.MethodDelete, "/notifications/friends", handler.ClearFriends)

	mockNotificationService.On("ClearAll", mock.Anything, int64(7)).Return(nil)
	mockNotificationService.On("ClearGame", mock.Anything, int64(7), int64(5)).Return(nil)
	mockNotificationService.On("ClearFriends", mock.Anything, int64(7)).Return(nil)

	headers := testutil.AuthHeader(testToken(t))

	rec := testutil.NewHTTPTestClient(t, all).DELETE("/notifications", headers)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notifications cleared")

	rec = testutil.NewHTTPTestClient(t, game).DELETE("/notifications/games/5", headers)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "game notifications cleared")

	rec = testutil.NewHTTPTestClient(t, friends).DELETE("/notifications/friends", headers)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "friend notifications cleared")

	mockNotificationService.AssertExpectations(t)
}

func TestNotificationHandler_ClearGame_UnknownGame(t *testing.T) {
	mockNotificationService := new(testutil.MockNotificationService)
	handler := NewNotificationHandler(mockNotificationService)
	app := newTestRouter(http.MethodDelete, "/notifications/games/:id", handler.ClearGame)

	mockNotificationService.On("ClearGame", mock.Anything, int64(7), int64(404)).Return(services.ErrGameNotFound)

	rec := doRequest(app, http.MethodDelete, "/notifications/games/404", testToken(t), nil)

	testutil.AssertError(t, rec, http.StatusNotFound, "Game not found")
}
