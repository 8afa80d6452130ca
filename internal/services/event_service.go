package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"
)

type EventServiceInterface interface {
	List(ctx context.Context, filter request_models.EventFilter, p utils.Pagination) ([]response_models.EventResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.EventResponse, error)
	Create(ctx context.Context, req request_models.EventRequest) (*response_models.EventResponse, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.EventRequest) (*response_models.EventResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CheckIn(ctx context.Context, userID, eventID uuid.UUID, at utils.Coordinate) (*response_models.CheckInResponse, error)
}

type EventService struct {
	events  repositories.EventRepository
	visits  repositories.VisitRepository
	alerts  AlertNotifier
	checkin config.CheckinConfig
	now     func() time.Time
}

func NewEventService(
	events repositories.EventRepository,
	visits repositories.VisitRepository,
	alerts AlertNotifier,
	cfg *config.Config,
) EventServiceInterface {
	return &EventService{
		events:  events,
		visits:  visits,
		alerts:  alerts,
		checkin: cfg.Checkin,
		now:     time.Now,
	}
}

func (s *EventService) List(ctx context.Context, filter request_models.EventFilter, p utils.Pagination) ([]response_models.EventResponse, int64, error) {
	events, total, err := s.events.List(ctx, filter, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out, total, nil
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*response_models.EventResponse, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(*event)
	return &resp, nil
}

func (s *EventService) find(ctx context.Context, id uuid.UUID) (*db_models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if event == nil {
		return nil, utils.ErrEventNotFound
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, req request_models.EventRequest) (*response_models.EventResponse, error) {
	event := &db_models.Event{}
	applyEventRequest(event, req)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, storeErr(err)
	}

	logging.Ctx(ctx).Info().Str("event_id", event.ID.String()).Msg("event created")
	resp := toEventResponse(*event)
	return &resp, nil
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, req request_models.EventRequest) (*response_models.EventResponse, error) {
	event, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEventRequest(event, req)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, storeErr(err)
	}
	resp := toEventResponse(*event)
	return &resp, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.events.Delete(ctx, id))
}

// CheckIn opens EarlyWindow before the event starts and closes when it ends.
func (s *EventService) CheckIn(ctx context.Context, userID, eventID uuid.UUID, at utils.Coordinate) (resp *response_models.CheckInResponse, err error) {
	defer func() {
		metrics.RecordCheckIn(db_models.VisitTargetEvent, checkInOutcome(err))
	}()

	event, err := s.find(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.After(event.EndsAt) {
		return nil, utils.ErrEventEnded
	}
	if now.Before(event.StartsAt.Add(-s.checkin.EarlyWindow)) {
		return nil, utils.ErrEventNotStarted
	}

	radius := radiusOrDefault(event.CheckinRadiusM, s.checkin.RadiusMeters)
	distance, err := geofence(utils.Coordinate{Latitude: event.Latitude, Longitude: event.Longitude}, at, radius)
	if err != nil {
		return nil, err
	}

	visit, balance, err := s.visits.CheckInEvent(ctx, repositories.CheckInInput{
		UserID:    userID,
		TargetID:  event.ID,
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
		DistanceM: distance,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	logging.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Str("event_id", event.ID.String()).
		Float64("distance_m", distance).
		Int64("coins", visit.CoinsAwarded).
		Msg("event check-in")

	if visit.CoinsAwarded > 0 {
		metrics.RecordCoins(db_models.CoinReasonEventCheckin, visit.CoinsAwarded)
		s.alerts.Notify(ctx, userID, "Check-in confirmed",
			coinsEarnedMessage(visit.CoinsAwarded, "checking in at "+event.Title),
			db_models.SeverityInfo, AlertKindCoins)
	}

	return &response_models.CheckInResponse{Visit: toVisitResponse(*visit), Balance: balance}, nil
}

func applyEventRequest(e *db_models.Event, req request_models.EventRequest) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = req.Description
	e.Category = req.Category
	e.LocationName = req.LocationName
	e.Latitude = req.Latitude
	e.Longitude = req.Longitude
	e.StartsAt = req.StartsAt
	e.EndsAt = req.EndsAt
	e.Capacity = req.Capacity
	e.CoinReward = req.CoinReward
	e.CheckinRadiusM = req.CheckinRadiusM
	e.Tags = pq.StringArray(req.Tags)
	e.ImageURL = req.ImageURL
}

func toEventResponse(e db_models.Event) response_models.EventResponse {
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return response_models.EventResponse{
		ID:             e.ID.String(),
		Title:          e.Title,
		Description:    e.Description,
		Category:       e.Category,
		LocationName:   e.LocationName,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		StartsAt:       utils.FormatRFC3339Local(e.StartsAt),
		EndsAt:         utils.FormatRFC3339Local(e.EndsAt),
		Capacity:       e.Capacity,
		CoinReward:     e.CoinReward,
		CheckinRadiusM: e.CheckinRadiusM,
		Tags:           tags,
		ImageURL:       e.ImageURL,
	}
}
