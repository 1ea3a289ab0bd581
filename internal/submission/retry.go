package submission

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryingSubmitter retries temporary delivery failures with a fixed delay
// between attempts
type RetryingSubmitter struct {
	next       Submitter
	maxRetries int
	retryDelay time.Duration
	logger     *logrus.Logger
}

func NewRetryingSubmitter(next Submitter, maxRetries int, retryDelay time.Duration, logger *logrus.Logger) *RetryingSubmitter {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingSubmitter{
		next:       next,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (r *RetryingSubmitter) Submit(ctx context.Context, s Submission) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.logger.WithField("submission_id", s.ID).Infof("Retrying submission, attempt %d of %d", attempt, r.maxRetries)
			if werr := sleep(ctx, r.retryDelay); werr != nil {
				return werr
			}
		}

		err = r.next.Submit(ctx, s)
		if err == nil || !errors.Is(err, ErrTemporary) || ctx.Err() != nil {
			return err
		}

		r.logger.WithError(err).WithField("submission_id", s.ID).Warn("Submission attempt failed")
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
