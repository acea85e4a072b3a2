// Command radarly-check verifies that a set of Radarly credentials works:
// it authenticates, fetches the current user and reports the quota state.
// Transient failures are retried with exponential backoff, so it can run
// from CI or a cron probe.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	radarly "github.com/linkfluence/radarly-go"
	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
	"github.com/linkfluence/radarly-go/pkg/types"
)

func main() {
	runID := uuid.NewString()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", runID))

	config, err := radarly.ConfigFromEnv()
	if err != nil {
		logger.Fatal("missing credentials", zap.Error(err))
	}
	config.Logger = logger

	client, err := radarly.NewClient(config)
	if err != nil {
		logger.Fatal("failed to create client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	user, err := checkConnectivity(ctx, client, logger)
	if err != nil {
		logger.Error("connectivity check failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("credentials are valid",
		zap.String("email", user.Email),
		zap.Int("projects", len(user.Projects)))

	for _, quota := range client.RateLimits() {
		fmt.Printf("%s: %d/%d used, resets %s\n",
			quota.Endpoint, quota.Used, quota.Max, quota.Reset.Format(time.RFC3339))
	}
}

// checkConnectivity authenticates and fetches the current user, retrying
// transient failures. Bad credentials are permanent and fail immediately.
func checkConnectivity(ctx context.Context, client *radarly.Client, logger *zap.Logger) (*types.User, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxInterval = 15 * time.Second

	operation := func() (*types.User, error) {
		user, err := client.CurrentUser(ctx)
		if err != nil {
			switch err.(type) {
			case *pkgerrs.AuthError, *pkgerrs.ConfigError:
				return nil, backoff.Permanent(err)
			}
			logger.Warn("check attempt failed, will retry", zap.Error(err))
			return nil, err
		}
		return user, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(90*time.Second),
	)
}
