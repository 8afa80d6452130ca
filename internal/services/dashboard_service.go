package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	resp "amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
)

const dashboardTopN = 10

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange, now time.Time) resp.TimeRange {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = now.UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30)
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func toSeries(rows []repositories.BucketSum) resp.CountSeries {
	out := resp.CountSeries{Points: make([]resp.SeriesPoint, 0, len(rows))}
	for _, r := range rows {
		out.Points = append(out.Points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
		out.Total += r.Sum
	}
	return out
}

func toTopTargets(rows []repositories.TargetRow) ([]resp.TopTarget, error) {
	out := make([]resp.TopTarget, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.TargetID)
		if err != nil {
			return nil, fmt.Errorf("invalid target id %q in dashboard: %w", r.TargetID, err)
		}
		out = append(out, resp.TopTarget{ID: id, Name: r.Name, Visits: r.Count})
	}
	return out, nil
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng, s.now())
	report := &resp.DashboardReport{Range: rng}
	var err error

	// ---------- Core counts ----------
	k := &report.KPIs
	if k.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, storeErr(err)
	}
	if k.NewUsers, err = s.repo.CountNewUsers(ctx, rng.Start, rng.End); err != nil {
		return nil, storeErr(err)
	}
	if k.EventCheckins, err = s.repo.CountVisits(ctx, db_models.VisitTargetEvent, rng.Start, rng.End); err != nil {
		return nil, storeErr(err)
	}
	if k.PlaceCheckins, err = s.repo.CountVisits(ctx, db_models.VisitTargetPlace, rng.Start, rng.End); err != nil {
		return nil, storeErr(err)
	}
	if k.PendingRedemptions, err = s.repo.CountRedemptionsByStatus(ctx, db_models.RedemptionPending); err != nil {
		return nil, storeErr(err)
	}
	if k.ClaimedRedemptions, err = s.repo.CountRedemptionsByStatus(ctx, db_models.RedemptionClaimed); err != nil {
		return nil, storeErr(err)
	}
	if k.ConnectivitySpots, err = s.repo.CountSpots(ctx); err != nil {
		return nil, storeErr(err)
	}

	flow, err := s.repo.CoinFlow(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, storeErr(err)
	}
	k.CoinsIssued, k.CoinsSpent = flow.Issued, flow.Spent

	quiz, err := s.repo.QuizStats(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, storeErr(err)
	}
	k.QuizAttempts = quiz.Attempts
	if quiz.Attempts > 0 {
		k.QuizPassRatePct = float64(quiz.Passed) * 100.0 / float64(quiz.Attempts)
	}

	// ---------- Series ----------
	newUsers, err := s.repo.NewUsersSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, storeErr(err)
	}
	report.NewUsers = toSeries(newUsers)

	checkins, err := s.repo.CheckinSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, storeErr(err)
	}
	report.Checkins = toSeries(checkins)

	coins, err := s.repo.CoinsIssuedSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, storeErr(err)
	}
	report.CoinsIssued = toSeries(coins)

	// ---------- Top places / events ----------
	placeRows, err := s.repo.TopTargets(ctx, db_models.VisitTargetPlace, rng.Start, rng.End, dashboardTopN)
	if err != nil {
		return nil, storeErr(err)
	}
	if report.TopPlaces, err = toTopTargets(placeRows); err != nil {
		return nil, storeErr(err)
	}
	eventRows, err := s.repo.TopTargets(ctx, db_models.VisitTargetEvent, rng.Start, rng.End, dashboardTopN)
	if err != nil {
		return nil, storeErr(err)
	}
	if report.TopEvents, err = toTopTargets(eventRows); err != nil {
		return nil, storeErr(err)
	}

	// ---------- Recent redemptions ----------
	recentRows, err := s.repo.RecentRedemptions(ctx, dashboardTopN)
	if err != nil {
		return nil, storeErr(err)
	}
	report.RecentRedemptions = make([]resp.RecentRedemption, 0, len(recentRows))
	for _, r := range recentRows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, storeErr(fmt.Errorf("invalid redemption id %q in dashboard: %w", r.ID, err))
		}
		report.RecentRedemptions = append(report.RecentRedemptions, resp.RecentRedemption{
			ID:          id,
			Code:        r.Code,
			Status:      r.Status,
			CostCoins:   r.CostCoins,
			RewardTitle: r.RewardTitle,
			UserEmail:   r.UserEmail,
			CreatedAt:   time.Unix(r.CreatedAt, 0).UTC(),
			ClaimedAt:   r.ClaimedAt,
		})
	}

	return report, nil
}
