package submission

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const resultsSubject = "Your Fix & Flip renovation checklist"

var resultsEmailHTML = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Segoe UI, Roboto, Arial, sans-serif; color: #333;">
  <h1>Nice flip, {{.UserName}}!</h1>
  <p>Here is how your renovation of <strong>{{.PropertyAddress}}</strong> turned out:</p>
  <ul>
    <li><strong>Investor rank:</strong> {{.InvestorRank}}</li>
    <li><strong>Final ROI:</strong> {{.FinalROI}}</li>
    <li><strong>Total profit:</strong> {{.TotalProfit}}</li>
    <li><strong>Final ARV:</strong> {{.FinalARV}}</li>
  </ul>
  <p>Checklist for your next flip: check comps before you buy, budget 10% for surprises,
  and spend first where buyers look first: kitchen, baths, curb appeal.</p>
  {{if eq .WantsTrial "Yes"}}<p>We'll also be in touch about your free trial.</p>{{end}}
</body>
</html>`))

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSubmitter emails the results through SendGrid
type SendGridSubmitter struct {
	client    mailClient
	fromName  string
	fromEmail string
	logger    *logrus.Logger
}

func NewSendGridSubmitter(apiKey, fromName, fromEmail string, logger *logrus.Logger) *SendGridSubmitter {
	return newSendGridSubmitter(sendgrid.NewSendClient(apiKey), fromName, fromEmail, logger)
}

func newSendGridSubmitter(client mailClient, fromName, fromEmail string, logger *logrus.Logger) *SendGridSubmitter {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &SendGridSubmitter{
		client:    client,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

func (s *SendGridSubmitter) Submit(ctx context.Context, sub Submission) error {
	msg, err := s.buildMessage(sub)
	if err != nil {
		return err
	}

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.WithError(err).WithField("submission_id", sub.ID).Error("SendGrid request failed")
		return fmt.Errorf("%w: %w: %v", ErrSubmissionFailed, ErrTemporary, err)
	}
	if resp.StatusCode >= 300 {
		s.logger.WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"status":        resp.StatusCode,
			"body":          resp.Body,
		}).Error("SendGrid rejected results email")
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %w: sendgrid status %d", ErrSubmissionFailed, ErrTemporary, resp.StatusCode)
		}
		return fmt.Errorf("%w: sendgrid status %d", ErrSubmissionFailed, resp.StatusCode)
	}

	s.logger.WithField("submission_id", sub.ID).Info("Results email sent")
	return nil
}

func (s *SendGridSubmitter) buildMessage(sub Submission) (*mail.SGMailV3, error) {
	var html bytes.Buffer
	if err := resultsEmailHTML.Execute(&html, sub.Params); err != nil {
		return nil, fmt.Errorf("failed to render results email: %w", err)
	}

	plain := fmt.Sprintf(
		"Property: %s\nInvestor rank: %s\nFinal ROI: %s\nTotal profit: %s\nFinal ARV: %s\nFree trial: %s\n",
		sub.Params.PropertyAddress,
		sub.Params.InvestorRank,
		sub.Params.FinalROI,
		sub.Params.TotalProfit,
		sub.Params.FinalARV,
		sub.Params.WantsTrial,
	)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(sub.Params.UserName, sub.Email)
	return mail.NewSingleEmail(from, resultsSubject, to, plain, html.String()), nil
}
