package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/realtime"
	"amazonia/pkg/utils"
)

const (
	AlertKindCoins      = "coins"
	AlertKindRedemption = "redemption"
	AlertKindBroadcast  = "broadcast"

	frameTypeAlert = "alert"

	alertsPath = "/alerts"
)

// Pusher delivers frames to connected clients.
type Pusher interface {
	SendToUser(userID string, frame realtime.Frame) int
}

// AlertNotifier stores an alert for one user and pushes it live.
// Failures are logged, never returned: alerts follow a committed change.
type AlertNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, severity, kind string)
}

type AlertServiceInterface interface {
	AlertNotifier
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p utils.Pagination) ([]response_models.AlertResponse, int64, error)
	MarkRead(ctx context.Context, userID, alertID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, alertID uuid.UUID) error
	Broadcast(ctx context.Context, req request_models.BroadcastAlertRequest) (int, error)
}

type AlertService struct {
	alerts repositories.AlertRepository
	users  repositories.UserRepository
	pusher Pusher
	mail   IMailService
	appURL string
}

// NewAlertService wires alert storage and live delivery. Critical
// broadcasts are also emailed, through mail, to users with no live
// connection; appURL is where the email links to.
func NewAlertService(alerts repositories.AlertRepository, users repositories.UserRepository, pusher Pusher, mail IMailService, appURL string) AlertServiceInterface {
	return &AlertService{alerts: alerts, users: users, pusher: pusher, mail: mail, appURL: appURL}
}

func (s *AlertService) Notify(ctx context.Context, userID uuid.UUID, title, message, severity, kind string) {
	alert := &db_models.UserAlert{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Severity: severity,
		Kind:     kind,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Str("kind", kind).Msg("failed to store alert")
		return
	}
	s.push(*alert)
}

func (s *AlertService) push(alert db_models.UserAlert) int {
	if s.pusher == nil {
		return 0
	}
	return s.pusher.SendToUser(alert.UserID.String(), realtime.Frame{
		Type: frameTypeAlert,
		Data: toAlertResponse(alert),
	})
}

func (s *AlertService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p utils.Pagination) ([]response_models.AlertResponse, int64, error) {
	alerts, total, err := s.alerts.List(ctx, userID, unreadOnly, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	out := make([]response_models.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return out, total, nil
}

func (s *AlertService) MarkRead(ctx context.Context, userID, alertID uuid.UUID) error {
	return storeErr(s.alerts.MarkRead(ctx, userID, alertID))
}

func (s *AlertService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.alerts.MarkAllRead(ctx, userID)
	return n, storeErr(err)
}

func (s *AlertService) Delete(ctx context.Context, userID, alertID uuid.UUID) error {
	return storeErr(s.alerts.Delete(ctx, userID, alertID))
}

func (s *AlertService) Broadcast(ctx context.Context, req request_models.BroadcastAlertRequest) (int, error) {
	severity := req.Severity
	if severity == "" {
		severity = db_models.SeverityInfo
	}

	recipients, err := s.users.ListRecipients(ctx)
	if err != nil {
		return 0, storeErr(err)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	alerts := make([]db_models.UserAlert, 0, len(recipients))
	for _, r := range recipients {
		alerts = append(alerts, db_models.UserAlert{
			UserID:   r.ID,
			Title:    req.Title,
			Message:  req.Message,
			Severity: severity,
			Kind:     AlertKindBroadcast,
		})
	}
	if err := s.alerts.CreateBatch(ctx, alerts); err != nil {
		return 0, storeErr(err)
	}

	delivered, emailed := 0, 0
	for i, a := range alerts {
		live := s.push(a)
		delivered += live
		if live == 0 && severity == db_models.SeverityCritical && s.emailAlert(ctx, recipients[i], a) {
			emailed++
		}
	}
	logging.Ctx(ctx).Info().
		Int("recipients", len(alerts)).
		Int("delivered_live", delivered).
		Int("emailed", emailed).
		Str("severity", severity).
		Msg("alert broadcast")
	return len(alerts), nil
}

// emailAlert reaches a user who is not connected. Failures are logged.
func (s *AlertService) emailAlert(ctx context.Context, to repositories.Recipient, alert db_models.UserAlert) bool {
	if s.mail == nil || to.Email == "" {
		return false
	}
	link := strings.TrimRight(s.appURL, "/") + alertsPath
	if err := s.mail.SendMailToNotifyUser(ctx, to.Email, alert.Title, alert.Message, "Open alerts", link); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", to.ID.String()).Msg("failed to email critical alert")
		return false
	}
	return true
}

func toAlertResponse(a db_models.UserAlert) response_models.AlertResponse {
	return response_models.AlertResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Message:   a.Message,
		Severity:  a.Severity,
		Kind:      a.Kind,
		Read:      a.ReadAt != nil,
		CreatedAt: utils.FormatUnixLocal(a.CreatedAt),
	}
}

func coinsEarnedMessage(amount int64, what string) string {
	return fmt.Sprintf("You earned %d AmaCoins for %s.", amount, what)
}
