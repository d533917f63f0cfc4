package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/testutil"
	"go.uber.org/goleak"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpiredTokens(context.Context) (int64, error) {
	p.calls.Add(1)
	return 0, p.err
}

func runSweeper(ctx context.Context, purger TokenPurger, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sweepTokens(ctx, purger, interval, zerolog.Nop())
	}()
	return done
}

func TestSweepTokensRunsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	purger := &countingPurger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := runSweeper(ctx, purger, 5*time.Millisecond)

	require.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestSweepTokensSurvivesErrors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	purger := &countingPurger{err: errors.New("database is locked")}
	ctx, cancel := context.WithCancel(context.Background())
	done := runSweeper(ctx, purger, 5*time.Millisecond)

	require.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestSweepTokensDeletesExpiredRefreshTokens(t *testing.T) {
	database := testutil.NewDB(t)
	repos := repositories.NewRepositories(database)
	svc := services.NewServices(services.Dependencies{
		Repos: repos,
		JWT: auth.NewJWTService(auth.JWTConfig{
			SecretKey:       "sweeper-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: time.Hour,
			TokenIssuer:     "alumnihub-test",
		}),
		Logger: zerolog.Nop(),
	})
	user := testutil.CreateUser(t, database)
	ctx := context.Background()
	now := db.Now()
	require.NoError(t, repos.TokenRepository.CreateToken(ctx, "stale", user.ID, now.Add(-time.Hour)))
	require.NoError(t, repos.TokenRepository.CreateToken(ctx, "live", user.ID, now.Add(time.Hour)))

	sweepCtx, cancel := context.WithCancel(ctx)
	done := runSweeper(sweepCtx, svc.Auth, time.Hour)
	require.Eventually(t, func() bool {
		_, err := repos.TokenRepository.GetToken(ctx, "stale")
		return errors.Is(err, apperrors.ErrTokenNotFound)
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	_, err := repos.TokenRepository.GetToken(ctx, "live")
	assert.NoError(t, err)
}
