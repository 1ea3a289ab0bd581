package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultDelay = 2 * time.Second

var (
	ErrSubmissionFailed = errors.New("failed to send results, please try again")
	// ErrTemporary marks failures worth retrying
	ErrTemporary = errors.New("temporary delivery failure")
)

// Submitter delivers a player's results to the outside world
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// Submission is one "email me my checklist" request
type Submission struct {
	ID         string
	Email      string
	WantsTrial bool
	Params     TemplateParams
}

// TemplateParams are the values rendered into the results email
type TemplateParams struct {
	UserEmail       string `json:"user_email"`
	UserName        string `json:"user_name"`
	PropertyAddress string `json:"property_address"`
	FinalROI        string `json:"final_roi"`
	InvestorRank    string `json:"investor_rank"`
	TotalProfit     string `json:"total_profit"`
	FinalARV        string `json:"final_arv"`
	WantsTrial      string `json:"wants_trial"`
}

// UserName is the local part of the address
func UserName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// DelaySubmitter stands in for the external call: it waits for the
// configured delay and then always succeeds
type DelaySubmitter struct {
	delay  time.Duration
	logger *logrus.Logger
}

func NewDelaySubmitter(delay time.Duration, logger *logrus.Logger) *DelaySubmitter {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &DelaySubmitter{delay: delay, logger: logger}
}

func (d *DelaySubmitter) Submit(ctx context.Context, s Submission) error {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	d.logger.WithFields(logrus.Fields{
		"submission_id": s.ID,
		"user_name":     s.Params.UserName,
		"wants_trial":   s.WantsTrial,
	}).Info("Simulated results email sent")
	return nil
}
