package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountUsers(ctx context.Context) (int64, error)
	CountNewUsers(ctx context.Context, start, end time.Time) (int64, error)
	CountVisits(ctx context.Context, targetType string, start, end time.Time) (int64, error)
	CountRedemptionsByStatus(ctx context.Context, status string) (int64, error)
	CountSpots(ctx context.Context) (int64, error)
	CoinFlow(ctx context.Context, start, end time.Time) (CoinFlowRow, error)
	QuizStats(ctx context.Context, start, end time.Time) (QuizStatsRow, error)

	// Time series
	NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	CheckinSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	CoinsIssuedSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)

	// Most visited places and events in the window
	TopTargets(ctx context.Context, targetType string, start, end time.Time, limit int) ([]TargetRow, error)

	RecentRedemptions(ctx context.Context, limit int) ([]RecentRedemptionRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type CoinFlowRow struct {
	Issued int64 `gorm:"column:issued"`
	Spent  int64 `gorm:"column:spent"`
}

type QuizStatsRow struct {
	Attempts int64 `gorm:"column:attempts"`
	Passed   int64 `gorm:"column:passed"`
}

type TargetRow struct {
	TargetID string `gorm:"column:target_id"`
	Name     string `gorm:"column:name"`
	Count    int64  `gorm:"column:count"`
}

type RecentRedemptionRow struct {
	ID          string     `gorm:"column:id"`
	Code        string     `gorm:"column:code"`
	Status      string     `gorm:"column:status"`
	CostCoins   int64      `gorm:"column:cost_coins"`
	CreatedAt   int64      `gorm:"column:created_at"`
	ClaimedAt   *time.Time `gorm:"column:claimed_at"`
	RewardTitle string     `gorm:"column:reward_title"`
	UserEmail   string     `gorm:"column:email"`
}

// ---------- Helpers ----------

// dateTrunc buckets a column holding UNIX seconds, in tz when one is given.
// The caller passes interval (and tz) as query arguments in that order.
func dateTrunc(interval, tz string, unixColumn string) string {
	if tz == "" {
		return "date_trunc(?, to_timestamp(" + unixColumn + "))"
	}
	return "date_trunc(?, timezone(?, to_timestamp(" + unixColumn + ")))"
}

func truncArgs(interval, tz string) []interface{} {
	if tz == "" {
		return []interface{}{interval}
	}
	return []interface{}{interval, tz}
}

// ---------- Counts ----------
func (r *dashboardRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.User{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewUsers(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountVisits(ctx context.Context, targetType string, start, end time.Time) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).
		Model(&db_models.Visit{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix())
	if targetType != "" {
		q = q.Where("target_type = ?", targetType)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountRedemptionsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Redemption{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountSpots(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.ConnectivitySpot{}).Count(&n).Error
	return n, err
}

// CoinFlow sums credits and debits separately. Spent is reported positive and
// refunds count as issued.
func (r *dashboardRepository) CoinFlow(ctx context.Context, start, end time.Time) (CoinFlowRow, error) {
	var row CoinFlowRow
	err := r.db.WithContext(ctx).
		Model(&db_models.CoinTransaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS issued,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS spent`).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Scan(&row).Error
	return row, err
}

func (r *dashboardRepository) QuizStats(ctx context.Context, start, end time.Time) (QuizStatsRow, error) {
	var row QuizStatsRow
	err := r.db.WithContext(ctx).
		Model(&db_models.QuizAttempt{}).
		Select("COUNT(*) AS attempts, COUNT(*) FILTER (WHERE passed) AS passed").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Scan(&row).Error
	return row, err
}

// ---------- Series ----------
func (r *dashboardRepository) NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	truncExpr := dateTrunc(interval, tz, "created_at")
	err := r.db.WithContext(ctx).
		Table("users").
		Select(truncExpr+" AS bucket, COUNT(*) AS sum", truncArgs(interval, tz)...).
		Where("deleted_at IS NULL").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CheckinSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	truncExpr := dateTrunc(interval, tz, "created_at")
	err := r.db.WithContext(ctx).
		Table("visits").
		Select(truncExpr+" AS bucket, COUNT(*) AS sum", truncArgs(interval, tz)...).
		Where("deleted_at IS NULL").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CoinsIssuedSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	truncExpr := dateTrunc(interval, tz, "created_at")
	err := r.db.WithContext(ctx).
		Table("coin_transactions").
		Select(truncExpr+" AS bucket, SUM(amount) AS sum", truncArgs(interval, tz)...).
		Where("deleted_at IS NULL").
		Where("amount > 0").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

// ---------- Top targets ----------
func (r *dashboardRepository) TopTargets(ctx context.Context, targetType string, start, end time.Time, limit int) ([]TargetRow, error) {
	var rows []TargetRow
	q := r.db.WithContext(ctx).Table("visits v")
	switch targetType {
	case db_models.VisitTargetEvent:
		q = q.Select("v.target_id, e.title AS name, COUNT(*) AS count").
			Joins("JOIN events e ON e.id = v.target_id").
			Group("v.target_id, e.title")
	default:
		q = q.Select("v.target_id, p.name AS name, COUNT(*) AS count").
			Joins("JOIN places p ON p.id = v.target_id").
			Group("v.target_id, p.name")
	}
	err := q.
		Where("v.deleted_at IS NULL").
		Where("v.target_type = ?", targetType).
		Where("v.created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ---------- Recent redemptions ----------
func (r *dashboardRepository) RecentRedemptions(ctx context.Context, limit int) ([]RecentRedemptionRow, error) {
	var rows []RecentRedemptionRow
	err := r.db.WithContext(ctx).
		Table("redemptions rd").
		Select(`
			rd.id,
			rd.code,
			rd.status,
			rd.cost_coins,
			rd.created_at,
			rd.claimed_at,
			rw.title AS reward_title,
			u.email`).
		Joins("LEFT JOIN rewards rw ON rw.id = rd.reward_id").
		Joins("LEFT JOIN users u ON u.id = rd.user_id").
		Where("rd.deleted_at IS NULL").
		Order("rd.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
