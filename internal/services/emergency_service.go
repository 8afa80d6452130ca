package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/utils"
)

// emergencyNumbers are the national hotlines, reachable without data.
var emergencyNumbers = []response_models.EmergencyNumber{
	{Number: "190", Service: "police", Description: "Polícia Militar"},
	{Number: "192", Service: "ambulance", Description: "SAMU, mobile emergency care"},
	{Number: "193", Service: "fire", Description: "Corpo de Bombeiros"},
	{Number: "199", Service: "civil_defense", Description: "Defesa Civil"},
	{Number: "180", Service: "women", Description: "Central de Atendimento à Mulher"},
	{Number: "100", Service: "human_rights", Description: "Disque Direitos Humanos"},
}

type EmergencyServiceInterface interface {
	List(ctx context.Context, serviceType string, filter request_models.NearbyFilter, p utils.Pagination) ([]response_models.EmergencyServiceResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.EmergencyServiceResponse, error)
	Nearest(ctx context.Context, serviceType string, at utils.Coordinate) (*response_models.EmergencyServiceResponse, error)
	Numbers() []response_models.EmergencyNumber
	Create(ctx context.Context, req request_models.EmergencyServiceRequest) (*response_models.EmergencyServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.EmergencyServiceRequest) (*response_models.EmergencyServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmergencyService struct {
	services repositories.EmergencyRepository
}

func NewEmergencyService(services repositories.EmergencyRepository) EmergencyServiceInterface {
	return &EmergencyService{services: services}
}

func (s *EmergencyService) List(ctx context.Context, serviceType string, filter request_models.NearbyFilter, p utils.Pagination) ([]response_models.EmergencyServiceResponse, int64, error) {
	if !filter.HasOrigin() {
		items, total, err := s.services.List(ctx, serviceType, p)
		if err != nil {
			return nil, 0, storeErr(err)
		}
		out := make([]response_models.EmergencyServiceResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toEmergencyResponse(it, nil))
		}
		return out, total, nil
	}

	origin := utils.Coordinate{Latitude: *filter.Lat, Longitude: *filter.Lon}
	if !utils.ValidCoordinate(origin) {
		return nil, 0, utils.ErrInvalidCoordinates
	}
	all, err := s.services.All(ctx, serviceType)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	sorted := sortByDistance(all, origin, filter.RadiusM, emergencyCoordinate)

	window := pageSlice(sorted, p)
	out := make([]response_models.EmergencyServiceResponse, 0, len(window))
	for _, l := range window {
		out = append(out, toEmergencyResponse(l.item, distancePtr(l.distance)))
	}
	return out, int64(len(sorted)), nil
}

func (s *EmergencyService) Get(ctx context.Context, id uuid.UUID) (*response_models.EmergencyServiceResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEmergencyResponse(*item, nil)
	return &resp, nil
}

func (s *EmergencyService) find(ctx context.Context, id uuid.UUID) (*db_models.EmergencyService, error) {
	item, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if item == nil {
		return nil, utils.ErrEmergencyNotFound
	}
	return item, nil
}

func (s *EmergencyService) Nearest(ctx context.Context, serviceType string, at utils.Coordinate) (*response_models.EmergencyServiceResponse, error) {
	if !utils.ValidCoordinate(at) {
		return nil, utils.ErrInvalidCoordinates
	}
	all, err := s.services.All(ctx, serviceType)
	if err != nil {
		return nil, storeErr(err)
	}
	sorted := sortByDistance(all, at, 0, emergencyCoordinate)
	if len(sorted) == 0 {
		return nil, utils.ErrNoNearbyEmergency
	}
	resp := toEmergencyResponse(sorted[0].item, distancePtr(sorted[0].distance))
	return &resp, nil
}

func (s *EmergencyService) Numbers() []response_models.EmergencyNumber {
	out := make([]response_models.EmergencyNumber, len(emergencyNumbers))
	copy(out, emergencyNumbers)
	return out
}

func (s *EmergencyService) Create(ctx context.Context, req request_models.EmergencyServiceRequest) (*response_models.EmergencyServiceResponse, error) {
	item := &db_models.EmergencyService{}
	applyEmergencyRequest(item, req)
	if err := s.services.Create(ctx, item); err != nil {
		return nil, storeErr(err)
	}
	resp := toEmergencyResponse(*item, nil)
	return &resp, nil
}

func (s *EmergencyService) Update(ctx context.Context, id uuid.UUID, req request_models.EmergencyServiceRequest) (*response_models.EmergencyServiceResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEmergencyRequest(item, req)
	if err := s.services.Update(ctx, item); err != nil {
		return nil, storeErr(err)
	}
	resp := toEmergencyResponse(*item, nil)
	return &resp, nil
}

func (s *EmergencyService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.services.Delete(ctx, id))
}

func emergencyCoordinate(e db_models.EmergencyService) utils.Coordinate {
	return utils.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
}

func applyEmergencyRequest(e *db_models.EmergencyService, req request_models.EmergencyServiceRequest) {
	e.Name = strings.TrimSpace(req.Name)
	e.Type = req.Type
	e.Phone = strings.TrimSpace(req.Phone)
	e.Address = req.Address
	e.Latitude = req.Latitude
	e.Longitude = req.Longitude
	e.Open24h = req.Open24h
}

func toEmergencyResponse(e db_models.EmergencyService, distance *float64) response_models.EmergencyServiceResponse {
	return response_models.EmergencyServiceResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Type:      e.Type,
		Phone:     e.Phone,
		Address:   e.Address,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Open24h:   e.Open24h,
		DistanceM: distance,
	}
}
