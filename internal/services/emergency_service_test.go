package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

type fakeEmergencyRepo struct {
	items []db_models.EmergencyService
}

func (r *fakeEmergencyRepo) Create(_ context.Context, e *db_models.EmergencyService) error {
	ensureID(&e.BaseModel)
	r.items = append(r.items, *e)
	return nil
}

func (r *fakeEmergencyRepo) Update(_ context.Context, e *db_models.EmergencyService) error {
	for i := range r.items {
		if r.items[i].ID == e.ID {
			r.items[i] = *e
			return nil
		}
	}
	return utils.ErrEmergencyNotFound
}

func (r *fakeEmergencyRepo) Delete(_ context.Context, id uuid.UUID) error {
	return utils.ErrEmergencyNotFound
}

func (r *fakeEmergencyRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.EmergencyService, error) {
	for _, e := range r.items {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEmergencyRepo) List(_ context.Context, serviceType string, p utils.Pagination) ([]db_models.EmergencyService, int64, error) {
	all, _ := r.All(context.Background(), serviceType)
	return pageSlice(all, p), int64(len(all)), nil
}

func (r *fakeEmergencyRepo) All(_ context.Context, serviceType string) ([]db_models.EmergencyService, error) {
	var out []db_models.EmergencyService
	for _, e := range r.items {
		if serviceType == "" || e.Type == serviceType {
			out = append(out, e)
		}
	}
	return out, nil
}

func emergencyFixture() EmergencyServiceInterface {
	repo := &fakeEmergencyRepo{}
	for _, e := range []db_models.EmergencyService{
		{Name: "Hospital far", Type: "hospital", Latitude: docas.Latitude + 0.05, Longitude: docas.Longitude},
		{Name: "Hospital near", Type: "hospital", Latitude: docas.Latitude + 0.01, Longitude: docas.Longitude},
		{Name: "Police", Type: "police", Latitude: docas.Latitude, Longitude: docas.Longitude + 0.001},
	} {
		e := e
		_ = repo.Create(context.Background(), &e)
	}
	return NewEmergencyService(repo)
}

func TestEmergencyService_Nearest(t *testing.T) {
	svc := emergencyFixture()

	tests := []struct {
		serviceType string
		want        string
		wantErr     error
	}{
		{"", "Police", nil},
		{"hospital", "Hospital near", nil},
		{"pharmacy", "", utils.ErrNoNearbyEmergency},
	}
	for _, tt := range tests {
		got, err := svc.Nearest(context.Background(), tt.serviceType, docas)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Nearest(%q) error = %v", tt.serviceType, err)
		}
		if err != nil {
			continue
		}
		if got.Name != tt.want || got.DistanceM == nil {
			t.Errorf("Nearest(%q) = %+v, want %s", tt.serviceType, got, tt.want)
		}
	}

	if _, err := svc.Nearest(context.Background(), "", utils.Coordinate{Latitude: -91}); !errors.Is(err, utils.ErrInvalidCoordinates) {
		t.Errorf("invalid origin error = %v", err)
	}
}

func TestEmergencyService_ListSortsWhenOriginGiven(t *testing.T) {
	svc := emergencyFixture()
	lat, lon := docas.Latitude, docas.Longitude

	got, total, err := svc.List(context.Background(), "hospital",
		request_models.NearbyFilter{Lat: &lat, Lon: &lon}, utils.NewPagination(1, 20))
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || got[0].Name != "Hospital near" || got[1].Name != "Hospital far" {
		t.Errorf("List() = %+v", got)
	}
}

func TestEmergencyService_Numbers(t *testing.T) {
	svc := emergencyFixture()
	numbers := svc.Numbers()

	want := map[string]bool{"190": true, "192": true, "193": true, "199": true, "180": true, "100": true}
	if len(numbers) != len(want) {
		t.Fatalf("got %d numbers", len(numbers))
	}
	for _, n := range numbers {
		if !want[n.Number] {
			t.Errorf("unexpected number %s", n.Number)
		}
	}

	numbers[0].Number = "000"
	if svc.Numbers()[0].Number != "190" {
		t.Error("Numbers() exposes shared state")
	}
}
