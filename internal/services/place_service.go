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
	"amazonia/pkg/assistant"
	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"
)

type PlaceServiceInterface interface {
	// List sorts by distance when the filter carries an origin.
	List(ctx context.Context, filter request_models.NearbyFilter, p utils.Pagination) ([]response_models.PlaceResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.PlaceResponse, error)
	Create(ctx context.Context, req request_models.PlaceRequest) (*response_models.PlaceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.PlaceRequest) (*response_models.PlaceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CheckIn(ctx context.Context, userID, placeID uuid.UUID, at utils.Coordinate) (*response_models.CheckInResponse, error)
	RefreshEmbedding(ctx context.Context, place *db_models.Place) error
}

type PlaceService struct {
	places     repositories.PlaceRepository
	embeddings repositories.PlaceEmbeddingRepository
	embedder   assistant.Embedder
	visits     repositories.VisitRepository
	alerts     AlertNotifier
	checkin    config.CheckinConfig
}

func NewPlaceService(
	places repositories.PlaceRepository,
	embeddings repositories.PlaceEmbeddingRepository,
	embedder assistant.Embedder,
	visits repositories.VisitRepository,
	alerts AlertNotifier,
	cfg *config.Config,
) PlaceServiceInterface {
	return &PlaceService{
		places:     places,
		embeddings: embeddings,
		embedder:   embedder,
		visits:     visits,
		alerts:     alerts,
		checkin:    cfg.Checkin,
	}
}

func (s *PlaceService) List(ctx context.Context, filter request_models.NearbyFilter, p utils.Pagination) ([]response_models.PlaceResponse, int64, error) {
	if !filter.HasOrigin() {
		places, total, err := s.places.List(ctx, filter, p)
		if err != nil {
			return nil, 0, storeErr(err)
		}
		out := make([]response_models.PlaceResponse, 0, len(places))
		for _, pl := range places {
			out = append(out, toPlaceResponse(pl, nil))
		}
		return out, total, nil
	}

	origin := utils.Coordinate{Latitude: *filter.Lat, Longitude: *filter.Lon}
	if !utils.ValidCoordinate(origin) {
		return nil, 0, utils.ErrInvalidCoordinates
	}

	candidates, err := s.places.Nearby(ctx, filter)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	sorted := sortByDistance(candidates, origin, filter.RadiusM, func(pl db_models.Place) utils.Coordinate {
		return utils.Coordinate{Latitude: pl.Latitude, Longitude: pl.Longitude}
	})

	window := pageSlice(sorted, p)
	out := make([]response_models.PlaceResponse, 0, len(window))
	for _, l := range window {
		out = append(out, toPlaceResponse(l.item, distancePtr(l.distance)))
	}
	return out, int64(len(sorted)), nil
}

func (s *PlaceService) Get(ctx context.Context, id uuid.UUID) (*response_models.PlaceResponse, error) {
	place, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPlaceResponse(*place, nil)
	return &resp, nil
}

func (s *PlaceService) find(ctx context.Context, id uuid.UUID) (*db_models.Place, error) {
	place, err := s.places.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if place == nil {
		return nil, utils.ErrPlaceNotFound
	}
	return place, nil
}

func (s *PlaceService) Create(ctx context.Context, req request_models.PlaceRequest) (*response_models.PlaceResponse, error) {
	place := &db_models.Place{}
	applyPlaceRequest(place, req)
	if err := s.places.Create(ctx, place); err != nil {
		return nil, storeErr(err)
	}

	s.refreshBestEffort(ctx, place)
	resp := toPlaceResponse(*place, nil)
	return &resp, nil
}

func (s *PlaceService) Update(ctx context.Context, id uuid.UUID, req request_models.PlaceRequest) (*response_models.PlaceResponse, error) {
	place, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPlaceRequest(place, req)
	if err := s.places.Update(ctx, place); err != nil {
		return nil, storeErr(err)
	}

	s.refreshBestEffort(ctx, place)
	resp := toPlaceResponse(*place, nil)
	return &resp, nil
}

func (s *PlaceService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.places.Delete(ctx, id))
}

func (s *PlaceService) refreshBestEffort(ctx context.Context, place *db_models.Place) {
	if err := s.RefreshEmbedding(ctx, place); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("place_id", place.ID.String()).Msg("failed to refresh place embedding")
	}
}

func (s *PlaceService) RefreshEmbedding(ctx context.Context, place *db_models.Place) error {
	if s.embedder == nil {
		return nil
	}
	content := placeEmbeddingContent(place)
	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return err
	}
	return s.embeddings.Upsert(ctx, &db_models.PlaceEmbedding{
		PlaceID:   place.ID,
		Content:   content,
		Embedding: vector,
		UpdatedAt: time.Now().Unix(),
	})
}

func placeEmbeddingContent(p *db_models.Place) string {
	parts := []string{p.Name, p.Category, p.Description, p.Address, p.OpeningHours}
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ". ")
}

func (s *PlaceService) CheckIn(ctx context.Context, userID, placeID uuid.UUID, at utils.Coordinate) (resp *response_models.CheckInResponse, err error) {
	defer func() {
		metrics.RecordCheckIn(db_models.VisitTargetPlace, checkInOutcome(err))
	}()

	place, err := s.find(ctx, placeID)
	if err != nil {
		return nil, err
	}

	radius := radiusOrDefault(place.CheckinRadiusM, s.checkin.RadiusMeters)
	distance, err := geofence(utils.Coordinate{Latitude: place.Latitude, Longitude: place.Longitude}, at, radius)
	if err != nil {
		return nil, err
	}

	visit, balance, err := s.visits.CheckInPlace(ctx, repositories.CheckInInput{
		UserID:    userID,
		TargetID:  place.ID,
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
		DistanceM: distance,
		Cooldown:  s.checkin.PlaceCooldown,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	logging.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Str("place_id", place.ID.String()).
		Float64("distance_m", distance).
		Int64("coins", visit.CoinsAwarded).
		Msg("place check-in")

	if visit.CoinsAwarded > 0 {
		metrics.RecordCoins(db_models.CoinReasonPlaceCheckin, visit.CoinsAwarded)
		s.alerts.Notify(ctx, userID, "Check-in confirmed",
			coinsEarnedMessage(visit.CoinsAwarded, "visiting "+place.Name),
			db_models.SeverityInfo, AlertKindCoins)
	}

	return &response_models.CheckInResponse{Visit: toVisitResponse(*visit), Balance: balance}, nil
}

func applyPlaceRequest(p *db_models.Place, req request_models.PlaceRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = req.Category
	p.Address = req.Address
	p.Latitude = req.Latitude
	p.Longitude = req.Longitude
	p.OpeningHours = req.OpeningHours
	p.CoinReward = req.CoinReward
	p.CheckinRadiusM = req.CheckinRadiusM
	p.Images = pq.StringArray(req.Images)
}

func toPlaceResponse(p db_models.Place, distance *float64) response_models.PlaceResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return response_models.PlaceResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Address:        p.Address,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		OpeningHours:   p.OpeningHours,
		CoinReward:     p.CoinReward,
		CheckinRadiusM: p.CheckinRadiusM,
		Images:         images,
		DistanceM:      distance,
	}
}
