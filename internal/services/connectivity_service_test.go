package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/utils"
)

type fakeSpotRepo struct {
	spots    map[uuid.UUID]*db_models.ConnectivitySpot
	credits  map[uuid.UUID]int64
	rewarded map[string]int
	reported map[[2]uuid.UUID]bool
	rules    []repositories.SpotRewardRules
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{
		spots:    map[uuid.UUID]*db_models.ConnectivitySpot{},
		credits:  map[uuid.UUID]int64{},
		rewarded: map[string]int{},
		reported: map[[2]uuid.UUID]bool{},
	}
}

func (r *fakeSpotRepo) pay(userID uuid.UUID, reason string, rules repositories.SpotRewardRules) int64 {
	key := userID.String() + reason
	if rules.Coins <= 0 || (rules.DailyCap > 0 && r.rewarded[key] >= rules.DailyCap) {
		return 0
	}
	r.rewarded[key]++
	r.credits[userID] += rules.Coins
	return rules.Coins
}

func (r *fakeSpotRepo) CreateSpot(_ context.Context, spot *db_models.ConnectivitySpot, rules repositories.SpotRewardRules) (int64, error) {
	r.rules = append(r.rules, rules)
	ensureID(&spot.BaseModel)
	cp := *spot
	r.spots[spot.ID] = &cp
	r.reported[[2]uuid.UUID{spot.ID, *spot.ReportedBy}] = true
	return r.pay(*spot.ReportedBy, db_models.CoinReasonConnectivitySpot, rules), nil
}

func (r *fakeSpotRepo) FindSpot(_ context.Context, id uuid.UUID) (*db_models.ConnectivitySpot, error) {
	if s, ok := r.spots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSpotRepo) List(_ context.Context, freeOnly bool, p utils.Pagination) ([]db_models.ConnectivitySpot, int64, error) {
	all, _ := r.Nearby(context.Background(), request_models.NearbyFilter{}, freeOnly)
	return pageSlice(all, p), int64(len(all)), nil
}

func (r *fakeSpotRepo) Nearby(_ context.Context, _ request_models.NearbyFilter, freeOnly bool) ([]db_models.ConnectivitySpot, error) {
	var out []db_models.ConnectivitySpot
	for _, s := range r.spots {
		if !freeOnly || s.IsFree {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSpotRepo) AddReport(_ context.Context, report *db_models.ConnectivityReport, rules repositories.SpotRewardRules) (*db_models.ConnectivitySpot, int64, error) {
	r.rules = append(r.rules, rules)
	s, ok := r.spots[report.SpotID]
	if !ok {
		return nil, 0, utils.ErrSpotNotFound
	}
	key := [2]uuid.UUID{report.SpotID, report.UserID}
	if rules.Cooldown > 0 && r.reported[key] {
		return nil, 0, utils.ErrSpotReportedRecently
	}
	r.reported[key] = true
	s.ApplyReport(report.Quality, report.DownloadMbps, report.UploadMbps)
	var coins int64
	if *s.ReportedBy != report.UserID {
		coins = r.pay(report.UserID, db_models.CoinReasonConnectivityReport, rules)
	}
	cp := *s
	return &cp, coins, nil
}

func (r *fakeSpotRepo) DeleteSpot(_ context.Context, id uuid.UUID) error {
	if _, ok := r.spots[id]; !ok {
		return utils.ErrSpotNotFound
	}
	delete(r.spots, id)
	return nil
}

func connectivityConfig() *config.Config {
	return &config.Config{Rewards: config.RewardsConfig{
		ConnectivitySpotCoins:      15,
		ConnectivityReportCoins:    5,
		ConnectivityReportCooldown: 24 * time.Hour,
		ConnectivitySpotDailyCap:   2,
		ConnectivityReportDailyCap: 10,
	}}
}

func TestConnectivityService_CreateAndReport(t *testing.T) {
	repo := newFakeSpotRepo()
	notifier := &fakeNotifier{}
	svc := NewConnectivityService(repo, notifier, connectivityConfig())
	ctx := context.Background()
	user := uuid.New()

	lat, lon, down := docas.Latitude, docas.Longitude, 40.0
	created, err := svc.Create(ctx, user, request_models.CreateSpotRequest{
		Name: " Docas Wi-Fi ", Latitude: &lat, Longitude: &lon, Quality: 4, DownloadMbps: &down, IsFree: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Name != "Docas Wi-Fi" || created.Quality != 4 || created.ReportCount != 1 || created.CoinsAwarded != 15 {
		t.Errorf("created = %+v", created)
	}

	reported, err := svc.Report(ctx, uuid.New(), uuid.MustParse(created.ID), request_models.SpotReportRequest{Quality: 2})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if reported.Quality != 3 || reported.ReportCount != 2 || reported.DownloadMbps != 40 || reported.CoinsAwarded != 5 {
		t.Errorf("reported = %+v", reported)
	}
	if len(notifier.sent) != 2 || notifier.sent[0].userID != user {
		t.Errorf("notifications = %+v", notifier.sent)
	}
}

func TestConnectivityService_Errors(t *testing.T) {
	svc := NewConnectivityService(newFakeSpotRepo(), &fakeNotifier{}, connectivityConfig())
	ctx := context.Background()

	if _, err := svc.Report(ctx, uuid.New(), uuid.New(), request_models.SpotReportRequest{Quality: 3}); !errors.Is(err, utils.ErrSpotNotFound) {
		t.Errorf("Report(unknown) error = %v", err)
	}
	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, utils.ErrSpotNotFound) {
		t.Errorf("Get(unknown) error = %v", err)
	}
	bad := 95.0
	lon := 0.0
	if _, err := svc.Create(ctx, uuid.New(), request_models.CreateSpotRequest{Name: "x", Latitude: &bad, Longitude: &lon, Quality: 3}); !errors.Is(err, utils.ErrInvalidCoordinates) {
		t.Errorf("Create(bad coords) error = %v", err)
	}
}

func TestConnectivityService_ListNearestFirst(t *testing.T) {
	repo := newFakeSpotRepo()
	svc := NewConnectivityService(repo, &fakeNotifier{}, connectivityConfig())
	ctx := context.Background()
	user := uuid.New()

	for i, offset := range []float64{0.02, 0.001, 0.01} {
		lat, lon := docas.Latitude+offset, docas.Longitude
		_, err := svc.Create(ctx, user, request_models.CreateSpotRequest{
			Name: []string{"far", "near", "mid"}[i], Latitude: &lat, Longitude: &lon, Quality: 3, IsFree: i != 2,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	lat, lon := docas.Latitude, docas.Longitude
	got, total, err := svc.List(ctx, request_models.NearbyFilter{Lat: &lat, Lon: &lon}, false, utils.NewPagination(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(got) != 2 || got[0].Name != "near" || got[1].Name != "mid" || got[0].DistanceM == nil {
		t.Errorf("List() = %+v (total %d)", got, total)
	}

	free, total, _ := svc.List(ctx, request_models.NearbyFilter{Lat: &lat, Lon: &lon}, true, utils.NewPagination(1, 20))
	if total != 2 || free[0].Name != "near" || free[1].Name != "far" {
		t.Errorf("free-only List() = %+v", free)
	}
}

func TestConnectivityService_RewardLimits(t *testing.T) {
	repo := newFakeSpotRepo()
	notifier := &fakeNotifier{}
	svc := NewConnectivityService(repo, notifier, connectivityConfig())
	ctx := context.Background()
	creator := uuid.New()

	lat, lon := docas.Latitude, docas.Longitude
	var spotID string
	var earned []int64
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, creator, request_models.CreateSpotRequest{
			Name: "Quiosque", Latitude: &lat, Longitude: &lon, Quality: 5,
		})
		if err != nil {
			t.Fatal(err)
		}
		earned = append(earned, created.CoinsAwarded)
		spotID = created.ID
	}
	if earned[0] != 15 || earned[1] != 15 || earned[2] != 0 {
		t.Errorf("creation rewards = %v, want the third over the daily cap", earned)
	}

	rules := repo.rules[0]
	if rules.Coins != 15 || rules.DailyCap != 2 || rules.Cooldown != 0 {
		t.Errorf("create rules = %+v", rules)
	}

	if _, err := svc.Report(ctx, creator, uuid.MustParse(spotID), request_models.SpotReportRequest{Quality: 5}); !errors.Is(err, utils.ErrSpotReportedRecently) {
		t.Errorf("creator self-report error = %v, want ErrSpotReportedRecently", err)
	}

	visitor := uuid.New()
	first, err := svc.Report(ctx, visitor, uuid.MustParse(spotID), request_models.SpotReportRequest{Quality: 1})
	if err != nil {
		t.Fatal(err)
	}
	if first.CoinsAwarded != 5 || first.ReportCount != 2 {
		t.Errorf("first report = %+v", first)
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Report(ctx, visitor, uuid.MustParse(spotID), request_models.SpotReportRequest{Quality: 1}); !errors.Is(err, utils.ErrSpotReportedRecently) {
			t.Fatalf("repeat report %d error = %v", i, err)
		}
	}
	if repo.credits[visitor] != 5 {
		t.Errorf("visitor credits = %d, want 5", repo.credits[visitor])
	}
	if got := repo.spots[uuid.MustParse(spotID)].ReportCount; got != 2 {
		t.Errorf("report count = %d, repeats must not reach the rolling mean", got)
	}
	if last := repo.rules[len(repo.rules)-1]; last.Cooldown != 24*time.Hour || last.DailyCap != 10 || last.Coins != 5 {
		t.Errorf("report rules = %+v", last)
	}

	// two creation rewards and one report reward
	if len(notifier.sent) != 3 {
		t.Errorf("notifications = %d, want 3", len(notifier.sent))
	}
}
