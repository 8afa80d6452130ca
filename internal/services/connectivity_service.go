package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"
)

type ConnectivityServiceInterface interface {
	List(ctx context.Context, filter request_models.NearbyFilter, freeOnly bool, p utils.Pagination) ([]response_models.SpotResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.SpotResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req request_models.CreateSpotRequest) (*response_models.SpotResponse, error)
	Report(ctx context.Context, userID, spotID uuid.UUID, req request_models.SpotReportRequest) (*response_models.SpotResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ConnectivityService struct {
	spots   repositories.ConnectivityRepository
	alerts  AlertNotifier
	rewards config.RewardsConfig
}

func NewConnectivityService(spots repositories.ConnectivityRepository, alerts AlertNotifier, cfg *config.Config) ConnectivityServiceInterface {
	return &ConnectivityService{spots: spots, alerts: alerts, rewards: cfg.Rewards}
}

func (s *ConnectivityService) List(ctx context.Context, filter request_models.NearbyFilter, freeOnly bool, p utils.Pagination) ([]response_models.SpotResponse, int64, error) {
	if !filter.HasOrigin() {
		spots, total, err := s.spots.List(ctx, freeOnly, p)
		if err != nil {
			return nil, 0, storeErr(err)
		}
		out := make([]response_models.SpotResponse, 0, len(spots))
		for _, sp := range spots {
			out = append(out, toSpotResponse(sp, nil))
		}
		return out, total, nil
	}

	origin := utils.Coordinate{Latitude: *filter.Lat, Longitude: *filter.Lon}
	if !utils.ValidCoordinate(origin) {
		return nil, 0, utils.ErrInvalidCoordinates
	}
	candidates, err := s.spots.Nearby(ctx, filter, freeOnly)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	sorted := sortByDistance(candidates, origin, filter.RadiusM, func(sp db_models.ConnectivitySpot) utils.Coordinate {
		return utils.Coordinate{Latitude: sp.Latitude, Longitude: sp.Longitude}
	})

	window := pageSlice(sorted, p)
	out := make([]response_models.SpotResponse, 0, len(window))
	for _, l := range window {
		out = append(out, toSpotResponse(l.item, distancePtr(l.distance)))
	}
	return out, int64(len(sorted)), nil
}

func (s *ConnectivityService) Get(ctx context.Context, id uuid.UUID) (*response_models.SpotResponse, error) {
	spot, err := s.spots.FindSpot(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if spot == nil {
		return nil, utils.ErrSpotNotFound
	}
	resp := toSpotResponse(*spot, nil)
	return &resp, nil
}

func (s *ConnectivityService) Create(ctx context.Context, userID uuid.UUID, req request_models.CreateSpotRequest) (*response_models.SpotResponse, error) {
	at := utils.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !utils.ValidCoordinate(at) {
		return nil, utils.ErrInvalidCoordinates
	}

	spot := &db_models.ConnectivitySpot{
		Name:             strings.TrimSpace(req.Name),
		SSID:             strings.TrimSpace(req.SSID),
		Latitude:         at.Latitude,
		Longitude:        at.Longitude,
		IsFree:           req.IsFree,
		PasswordRequired: req.PasswordRequired,
		ReportedBy:       &userID,
	}
	spot.ApplyReport(req.Quality, req.DownloadMbps, req.UploadMbps)

	coins, err := s.spots.CreateSpot(ctx, spot, repositories.SpotRewardRules{
		Coins:    s.rewards.ConnectivitySpotCoins,
		DailyCap: s.rewards.ConnectivitySpotDailyCap,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	logging.Ctx(ctx).Info().Str("user_id", userID.String()).Str("spot_id", spot.ID.String()).Msg("connectivity spot created")
	if coins > 0 {
		metrics.RecordCoins(db_models.CoinReasonConnectivitySpot, coins)
		s.alerts.Notify(ctx, userID, "Thanks for mapping Wi-Fi",
			coinsEarnedMessage(coins, "adding "+spot.Name),
			db_models.SeverityInfo, AlertKindCoins)
	}

	resp := toSpotResponse(*spot, nil)
	resp.CoinsAwarded = coins
	return &resp, nil
}

func (s *ConnectivityService) Report(ctx context.Context, userID, spotID uuid.UUID, req request_models.SpotReportRequest) (*response_models.SpotResponse, error) {
	report := &db_models.ConnectivityReport{
		SpotID:       spotID,
		UserID:       userID,
		Quality:      req.Quality,
		DownloadMbps: req.DownloadMbps,
		UploadMbps:   req.UploadMbps,
	}

	spot, coins, err := s.spots.AddReport(ctx, report, repositories.SpotRewardRules{
		Coins:    s.rewards.ConnectivityReportCoins,
		Cooldown: s.rewards.ConnectivityReportCooldown,
		DailyCap: s.rewards.ConnectivityReportDailyCap,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	if coins > 0 {
		metrics.RecordCoins(db_models.CoinReasonConnectivityReport, coins)
		s.alerts.Notify(ctx, userID, "Report received",
			coinsEarnedMessage(coins, "rating "+spot.Name),
			db_models.SeverityInfo, AlertKindCoins)
	}

	resp := toSpotResponse(*spot, nil)
	resp.CoinsAwarded = coins
	return &resp, nil
}

func (s *ConnectivityService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.spots.DeleteSpot(ctx, id))
}

func toSpotResponse(sp db_models.ConnectivitySpot, distance *float64) response_models.SpotResponse {
	return response_models.SpotResponse{
		ID:               sp.ID.String(),
		Name:             sp.Name,
		SSID:             sp.SSID,
		Latitude:         sp.Latitude,
		Longitude:        sp.Longitude,
		Quality:          sp.Quality,
		DownloadMbps:     sp.DownloadMbps,
		UploadMbps:       sp.UploadMbps,
		IsFree:           sp.IsFree,
		PasswordRequired: sp.PasswordRequired,
		ReportCount:      sp.ReportCount,
		UpdatedAt:        utils.FormatUnixLocal(sp.UpdatedAt),
		DistanceM:        distance,
	}
}
