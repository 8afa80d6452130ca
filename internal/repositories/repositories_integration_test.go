//go:build integration

package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/testinfra"
	"amazonia/pkg/utils"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	if !testinfra.IsDockerAvailable() {
		fmt.Println("Skipping repository integration tests: Docker not available")
		os.Exit(0)
	}

	ctx := context.Background()
	pg, err := testinfra.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres container: %v\n", err)
		os.Exit(1)
	}
	testDB = pg.DB

	code := m.Run()
	pg.Terminate(ctx)
	os.Exit(code)
}

func seedUser(t *testing.T, balance int64) *db_models.User {
	t.Helper()
	u := &db_models.User{
		Name:         "Visitante",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         db_models.RoleUser,
		CoinBalance:  balance,
	}
	if err := testDB.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func balanceOf(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	balance, err := NewCoinRepository(testDB).Balance(context.Background(), userID)
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	return balance
}

func ledgerRows(t *testing.T, userID uuid.UUID, reason string) int64 {
	t.Helper()
	var n int64
	if err := testDB.Model(&db_models.CoinTransaction{}).
		Where("user_id = ? AND reason = ?", userID, reason).
		Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestApplyCoins_NeverGoesNegative(t *testing.T) {
	user := seedUser(t, 10)

	err := testDB.Transaction(func(tx *gorm.DB) error {
		_, err := applyCoins(tx, user.ID, -15, db_models.CoinReasonRedemption, nil)
		return err
	})
	if !errors.Is(err, utils.ErrInsufficientCoins) {
		t.Fatalf("overdraw error = %v, want ErrInsufficientCoins", err)
	}
	if got := balanceOf(t, user.ID); got != 10 {
		t.Errorf("balance after rejected debit = %d, want 10", got)
	}
	if n := ledgerRows(t, user.ID, db_models.CoinReasonRedemption); n != 0 {
		t.Errorf("ledger rows after rejected debit = %d", n)
	}

	var balance int64
	err = testDB.Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = applyCoins(tx, user.ID, -10, db_models.CoinReasonRedemption, nil)
		return err
	})
	if err != nil || balance != 0 {
		t.Fatalf("exact debit = %d, %v", balance, err)
	}

	// The check constraint backs the guard for writes that skip applyCoins.
	if err := testDB.Model(&db_models.User{}).Where("id = ?", user.ID).
		Update("coin_balance", -1).Error; err == nil {
		t.Error("negative balance accepted by the database")
	}

	if err := testDB.Transaction(func(tx *gorm.DB) error {
		_, err := applyCoins(tx, uuid.New(), 5, db_models.CoinReasonQuiz, nil)
		return err
	}); !errors.Is(err, utils.ErrAccountNotFound) {
		t.Errorf("credit to unknown user error = %v", err)
	}
}

func seedEvent(t *testing.T, capacity int, reward int64) *db_models.Event {
	t.Helper()
	now := time.Now()
	event := &db_models.Event{
		Title:      "Roda de carimbó",
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
		Capacity:   capacity,
		CoinReward: reward,
	}
	if err := testDB.Create(event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func TestCheckInEvent_CapacityUnderConcurrency(t *testing.T) {
	repo := NewVisitRepository(testDB)
	event := seedEvent(t, 2, 10)

	users := make([]*db_models.User, 5)
	for i := range users {
		users[i] = seedUser(t, 0)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, _, err := repo.CheckInEvent(context.Background(), CheckInInput{UserID: userID, TargetID: event.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, utils.ErrEventFull):
				full++
			default:
				t.Errorf("CheckInEvent() error = %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	if ok != 2 || full != 3 {
		t.Errorf("admitted %d, rejected full %d; want 2 and 3", ok, full)
	}
	var visits int64
	testDB.Model(&db_models.Visit{}).Where("event_id = ?", event.ID).Count(&visits)
	if visits != 2 {
		t.Errorf("stored visits = %d, want 2", visits)
	}
}

func TestCheckInEvent_OncePerUser(t *testing.T) {
	repo := NewVisitRepository(testDB)
	ctx := context.Background()
	event := seedEvent(t, 0, 25)
	user := seedUser(t, 0)

	_, balance, err := repo.CheckInEvent(ctx, CheckInInput{UserID: user.ID, TargetID: event.ID})
	if err != nil || balance != 25 {
		t.Fatalf("first check-in = %d, %v", balance, err)
	}
	if _, _, err := repo.CheckInEvent(ctx, CheckInInput{UserID: user.ID, TargetID: event.ID}); !errors.Is(err, utils.ErrAlreadyCheckedIn) {
		t.Errorf("second check-in error = %v, want ErrAlreadyCheckedIn", err)
	}

	// The unique index holds even when the count check is bypassed.
	eventID := event.ID
	dup := &db_models.Visit{UserID: user.ID, TargetType: db_models.VisitTargetEvent, TargetID: event.ID, EventID: &eventID}
	if err := testDB.Create(dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate visit insert error = %v, want ErrDuplicatedKey", err)
	}
	if got := balanceOf(t, user.ID); got != 25 {
		t.Errorf("balance = %d, want a single reward", got)
	}

	if _, _, err := repo.CheckInEvent(ctx, CheckInInput{UserID: user.ID, TargetID: uuid.New()}); !errors.Is(err, utils.ErrEventNotFound) {
		t.Errorf("unknown event error = %v", err)
	}
}

func TestCheckInPlace_Cooldown(t *testing.T) {
	repo := NewVisitRepository(testDB)
	ctx := context.Background()
	place := &db_models.Place{Name: "Mercado Ver-o-Peso", CoinReward: 8}
	if err := testDB.Create(place).Error; err != nil {
		t.Fatal(err)
	}
	user := seedUser(t, 0)

	in := CheckInInput{UserID: user.ID, TargetID: place.ID, Cooldown: time.Hour}
	if _, _, err := repo.CheckInPlace(ctx, in); err != nil {
		t.Fatalf("first check-in error = %v", err)
	}
	if _, _, err := repo.CheckInPlace(ctx, in); !errors.Is(err, utils.ErrCheckinCooldown) {
		t.Errorf("repeat within cooldown error = %v, want ErrCheckinCooldown", err)
	}

	in.Cooldown = 0
	_, balance, err := repo.CheckInPlace(ctx, in)
	if err != nil || balance != 16 {
		t.Errorf("check-in without cooldown = %d, %v; want 16", balance, err)
	}
}

func TestRecordAttempt_CoinsOnFirstPassOnly(t *testing.T) {
	repo := NewQuizRepository(testDB)
	ctx := context.Background()
	quiz := &db_models.Quiz{Title: "Fauna amazônica", CoinReward: 30, PassPercent: 60}
	if err := repo.Create(ctx, quiz); err != nil {
		t.Fatal(err)
	}
	user := seedUser(t, 0)

	attempts := []struct {
		passed bool
		want   int64
	}{
		{passed: false, want: 0},
		{passed: true, want: 30},
		{passed: true, want: 0},
	}
	for i, a := range attempts {
		attempt := &db_models.QuizAttempt{UserID: user.ID, QuizID: quiz.ID, Passed: a.passed, Total: 5}
		if _, err := repo.RecordAttempt(ctx, attempt, quiz.CoinReward); err != nil {
			t.Fatalf("attempt %d error = %v", i, err)
		}
		if attempt.CoinsAwarded != a.want {
			t.Errorf("attempt %d coins = %d, want %d", i, attempt.CoinsAwarded, a.want)
		}
	}

	if got := balanceOf(t, user.ID); got != 30 {
		t.Errorf("balance = %d, want 30", got)
	}
	_, total, err := repo.ListAttemptsByUser(ctx, user.ID, utils.NewPagination(1, 10))
	if err != nil || total != 3 {
		t.Errorf("ListAttemptsByUser() total = %d, %v", total, err)
	}
}

func TestRedeemAndCancel_StockAndRefund(t *testing.T) {
	repo := NewRewardRepository(testDB)
	ctx := context.Background()
	reward := &db_models.Reward{Title: "Cuia de tacacá", CostCoins: 30, Stock: 1, Active: true}
	if err := repo.Create(ctx, reward); err != nil {
		t.Fatal(err)
	}
	rich, poor, late := seedUser(t, 50), seedUser(t, 10), seedUser(t, 100)

	if _, _, err := repo.Redeem(ctx, poor.ID, reward.ID, "AMZ-POOR"); !errors.Is(err, utils.ErrInsufficientCoins) {
		t.Errorf("poor redeem error = %v", err)
	}

	redemption, balance, err := repo.Redeem(ctx, rich.ID, reward.ID, "AMZ-RICH")
	if err != nil || balance != 20 {
		t.Fatalf("Redeem() = %d, %v", balance, err)
	}
	if _, _, err := repo.Redeem(ctx, late.ID, reward.ID, "AMZ-LATE"); !errors.Is(err, utils.ErrOutOfStock) {
		t.Errorf("redeem past stock error = %v, want ErrOutOfStock", err)
	}

	cancelled, balance, err := repo.Cancel(ctx, redemption.ID)
	if err != nil || balance != 50 || cancelled.Status != db_models.RedemptionCancelled {
		t.Fatalf("Cancel() = %+v, %d, %v", cancelled, balance, err)
	}
	if _, _, err := repo.Cancel(ctx, redemption.ID); !errors.Is(err, utils.ErrRedemptionNotOpen) {
		t.Errorf("second cancel error = %v", err)
	}
	if _, err := repo.Claim(ctx, redemption.ID); !errors.Is(err, utils.ErrRedemptionNotOpen) {
		t.Errorf("claim after cancel error = %v", err)
	}

	stored, _ := repo.FindByID(ctx, reward.ID)
	if stored.Stock != 1 {
		t.Errorf("stock after refund = %d, want 1", stored.Stock)
	}
	if n := ledgerRows(t, rich.ID, db_models.CoinReasonRefund); n != 1 {
		t.Errorf("refund ledger rows = %d", n)
	}
}

func seedSpot(t *testing.T, repo ConnectivityRepository, creator uuid.UUID, rules SpotRewardRules) (*db_models.ConnectivitySpot, int64) {
	t.Helper()
	spot := &db_models.ConnectivitySpot{Name: "Estação das Docas", Latitude: -1.4497, Longitude: -48.4996, ReportedBy: &creator}
	spot.ApplyReport(4, nil, nil)
	coins, err := repo.CreateSpot(context.Background(), spot, rules)
	if err != nil {
		t.Fatalf("CreateSpot() error = %v", err)
	}
	return spot, coins
}

func TestConnectivity_CreatorCannotFarmReports(t *testing.T) {
	repo := NewConnectivityRepository(testDB)
	ctx := context.Background()
	creator := seedUser(t, 0)
	reportRules := SpotRewardRules{Coins: 1, Cooldown: 24 * time.Hour, DailyCap: 10}

	spot, coins := seedSpot(t, repo, creator.ID, SpotRewardRules{Coins: 5, DailyCap: 3})
	if coins != 5 {
		t.Fatalf("creation coins = %d, want 5", coins)
	}

	for i := 0; i < 100; i++ {
		report := &db_models.ConnectivityReport{SpotID: spot.ID, UserID: creator.ID, Quality: 5}
		if _, _, err := repo.AddReport(ctx, report, reportRules); !errors.Is(err, utils.ErrSpotReportedRecently) {
			t.Fatalf("self report %d error = %v", i, err)
		}
	}

	stored, _ := repo.FindSpot(ctx, spot.ID)
	if stored.ReportCount != 1 || stored.Quality != 4 {
		t.Errorf("spot after self reports = %d reports, quality %v", stored.ReportCount, stored.Quality)
	}
	if got := balanceOf(t, creator.ID); got != 5 {
		t.Errorf("creator balance = %d, want only the creation reward", got)
	}

	// Past the cooldown the creator may rate the spot but is not paid.
	_, awarded, err := repo.AddReport(ctx,
		&db_models.ConnectivityReport{SpotID: spot.ID, UserID: creator.ID, Quality: 3},
		SpotRewardRules{Coins: 1})
	if err != nil || awarded != 0 {
		t.Errorf("creator report without cooldown = %d, %v; want 0 coins", awarded, err)
	}
}

func TestConnectivity_ReportCooldownPerSpot(t *testing.T) {
	repo := NewConnectivityRepository(testDB)
	ctx := context.Background()
	creator, visitor := seedUser(t, 0), seedUser(t, 0)
	rules := SpotRewardRules{Coins: 1, Cooldown: 24 * time.Hour}

	first, _ := seedSpot(t, repo, creator.ID, SpotRewardRules{})
	second, _ := seedSpot(t, repo, creator.ID, SpotRewardRules{})

	spot, awarded, err := repo.AddReport(ctx, &db_models.ConnectivityReport{SpotID: first.ID, UserID: visitor.ID, Quality: 2}, rules)
	if err != nil || awarded != 1 || spot.ReportCount != 2 || spot.Quality != 3 {
		t.Fatalf("first report = %+v, %d, %v", spot, awarded, err)
	}
	if _, _, err := repo.AddReport(ctx, &db_models.ConnectivityReport{SpotID: first.ID, UserID: visitor.ID, Quality: 2}, rules); !errors.Is(err, utils.ErrSpotReportedRecently) {
		t.Errorf("repeat report error = %v, want ErrSpotReportedRecently", err)
	}
	if _, awarded, err := repo.AddReport(ctx, &db_models.ConnectivityReport{SpotID: second.ID, UserID: visitor.ID, Quality: 5}, rules); err != nil || awarded != 1 {
		t.Errorf("report on another spot = %d, %v", awarded, err)
	}
	if _, _, err := repo.AddReport(ctx, &db_models.ConnectivityReport{SpotID: uuid.New(), UserID: visitor.ID, Quality: 5}, rules); !errors.Is(err, utils.ErrSpotNotFound) {
		t.Errorf("unknown spot error = %v", err)
	}
	if got := balanceOf(t, visitor.ID); got != 2 {
		t.Errorf("visitor balance = %d, want 2", got)
	}
}

func TestConnectivity_DailyCaps(t *testing.T) {
	repo := NewConnectivityRepository(testDB)
	ctx := context.Background()
	creator, visitor := seedUser(t, 0), seedUser(t, 0)

	var created []*db_models.ConnectivitySpot
	var earned []int64
	for i := 0; i < 3; i++ {
		spot, coins := seedSpot(t, repo, creator.ID, SpotRewardRules{Coins: 5, DailyCap: 2})
		created = append(created, spot)
		earned = append(earned, coins)
	}
	if earned[0] != 5 || earned[1] != 5 || earned[2] != 0 {
		t.Errorf("creation coins = %v, want [5 5 0]", earned)
	}
	if n := ledgerRows(t, creator.ID, db_models.CoinReasonConnectivitySpot); n != 2 {
		t.Errorf("creation ledger rows = %d, want 2", n)
	}

	rules := SpotRewardRules{Coins: 1, Cooldown: time.Hour, DailyCap: 1}
	for i, spot := range created[:2] {
		_, awarded, err := repo.AddReport(ctx, &db_models.ConnectivityReport{SpotID: spot.ID, UserID: visitor.ID, Quality: 3}, rules)
		if err != nil {
			t.Fatal(err)
		}
		if want := []int64{1, 0}[i]; awarded != want {
			t.Errorf("report %d coins = %d, want %d", i, awarded, want)
		}
	}
}

func TestConnectivity_NearbyNearestFirst(t *testing.T) {
	repo := NewConnectivityRepository(testDB)
	creator := seedUser(t, 0)

	// Far outside Belém so other tests' spots do not interleave.
	origin := db_models.ConnectivitySpot{Latitude: 10.5, Longitude: 20.5}
	for _, offset := range []float64{0.03, 0.001, 0.01} {
		spot := &db_models.ConnectivitySpot{Name: fmt.Sprintf("spot %.3f", offset),
			Latitude: origin.Latitude + offset, Longitude: origin.Longitude, ReportedBy: &creator.ID}
		if _, err := repo.CreateSpot(context.Background(), spot, SpotRewardRules{}); err != nil {
			t.Fatal(err)
		}
	}

	spots, err := repo.Nearby(context.Background(), request_models.NearbyFilter{
		Lat: &origin.Latitude, Lon: &origin.Longitude, RadiusM: 10000,
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 3 || spots[0].Name != "spot 0.001" || spots[2].Name != "spot 0.030" {
		t.Errorf("Nearby() order = %v", spotNames(spots))
	}
}

func spotNames(spots []db_models.ConnectivitySpot) []string {
	out := make([]string, len(spots))
	for i, s := range spots {
		out[i] = s.Name
	}
	return out
}

func TestChatRepository_SameSecondTurnOrder(t *testing.T) {
	repo := NewChatRepository(testDB)
	ctx := context.Background()
	user := seedUser(t, 0)
	session := uuid.New()
	second := time.Now().Unix()

	for _, m := range []*db_models.ChatMessage{
		{UserID: user.ID, SessionID: session, Role: db_models.ChatRoleUser, Content: "onde comer açaí?"},
		{UserID: user.ID, SessionID: session, Role: db_models.ChatRoleAssistant, Content: "No Ver-o-Peso."},
		{UserID: user.ID, SessionID: session, Role: db_models.ChatRoleUser, Content: "e tacacá?"},
		{UserID: user.ID, SessionID: session, Role: db_models.ChatRoleAssistant, Content: "Na Praça da República."},
	} {
		m.CreatedAt = second
		if err := repo.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
		if m.Seq == 0 {
			t.Fatal("sequence not assigned on insert")
		}
	}

	recent, err := repo.Recent(ctx, user.ID, session, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"No Ver-o-Peso.", "e tacacá?", "Na Praça da República."}
	for i, m := range recent {
		if m.Content != want[i] {
			t.Fatalf("Recent() = %v, want %v", chatContents(recent), want)
		}
	}

	history, _, err := repo.History(ctx, user.ID, &session, utils.NewPagination(1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 || history[0].Content != "Na Praça da República." || history[3].Content != "onde comer açaí?" {
		t.Errorf("History() = %v, want newest first", chatContents(history))
	}

	sessions, err := repo.Sessions(ctx, user.ID)
	if err != nil || len(sessions) != 1 || sessions[0].Preview != "onde comer açaí?" {
		t.Errorf("Sessions() = %+v, %v", sessions, err)
	}
}

func chatContents(msgs []db_models.ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
