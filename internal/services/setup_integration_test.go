package services_test

import (
	"testing"

	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/internal/testutil"
)

type stack struct {
	db            *testutil.TestDB
	fixtures      *testutil.Fixtures
	notifications *services.NotificationService
	games         *services.GameService
	scores        *services.ScoreService
	members       *services.MemberService
	tokens        *services.TokenService
}

// setupTest starts a database and wires every service against it.
func setupTest(t *testing.T) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := testutil.SetupTestDB(t)
	codes := services.NewCodeAllocator()
	notifications := services.NewNotificationService(tdb.DB)
	return &stack{
		db:            tdb,
		fixtures:      testutil.NewFixtures(tdb.DB),
		notifications: notifications,
		games:         services.NewGameService(tdb.DB, codes, notifications),
		scores:        services.NewScoreService(tdb.DB, notifications),
		members:       services.NewMemberService(tdb.DB, codes, notifications, 4),
		tokens:        services.NewTokenService(tdb.DB),
	}
}

func score(v int) *int { return &v }
