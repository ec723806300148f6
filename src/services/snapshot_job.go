package services

import (
	"context"
	"fmt"

	"assetmanager/src/models"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"

	"github.com/sirupsen/logrus"
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// SnapshotJob writes today's snapshot for every user in that user's preferred currency.
type SnapshotJob struct {
	users     UserLister
	portfolio *PortfolioService
}

func NewSnapshotJob(users UserLister, portfolio *PortfolioService) *SnapshotJob {
	return &SnapshotJob{users: users, portfolio: portfolio}
}

// Run processes users one at a time. A failing user is logged and counted and the batch
// moves on; only failing to list users aborts the run.
func (j *SnapshotJob) Run(ctx context.Context) (*schemas.SnapshotRunResult, error) {
	logger := utils.LoggerFromContext(ctx)

	users, err := j.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot run: %w", err)
	}

	result := &schemas.SnapshotRunResult{Users: len(users)}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		currency := user.PreferredCurrency
		if currency == "" {
			currency = utils.DefaultCurrency
		}

		created, err := j.portfolio.ensureTodaySnapshot(ctx, user.ID, currency)
		switch {
		case err != nil:
			result.Failed++
			logger.WithError(err).WithField("user_id", user.ID).Error("snapshot failed")
		case created:
			result.Created++
		default:
			result.Skipped++
		}
	}

	logger.WithFields(logrus.Fields{
		"users":   result.Users,
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("snapshot run finished")
	return result, nil
}
