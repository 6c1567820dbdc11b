package service

import (
	"context"
	"sync"
	"testing"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/token"
)

var testLog = logger.New("washride-test", "error")

func claimsFor(acc *models.Account) *token.Claims {
	return &token.Claims{AccountID: acc.ID, Role: acc.Role, Status: acc.Status}
}

func newTripFixture() (*fakeStorage, *fakeCache, TripService) {
	f := newFakeStorage()
	cache := newFakeCache()
	svc := NewTripService(f, cache, nil, testLog)
	return f, cache, svc
}

func TestClaimExclusivity(t *testing.T) {
	f, _, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	trip := f.seedTrip(owner.ID, models.TripOpen)

	const drivers = 20
	var wg sync.WaitGroup
	results := make(chan error, drivers)
	winners := make(chan int64, drivers)

	for i := 0; i < drivers; i++ {
		driver := f.seedAccount(models.RoleDriver, models.StatusActive)
		wg.Add(1)
		go func(d *models.Account) {
			defer wg.Done()
			got, err := svc.Accept(context.Background(), claimsFor(d), trip.ID)
			if err != nil {
				results <- err
				return
			}
			if got.AssignedDriverID == nil || *got.AssignedDriverID != d.ID {
				t.Errorf("winner got trip assigned to someone else")
			}
			winners <- d.ID
			results <- nil
		}(driver)
	}
	wg.Wait()
	close(results)
	close(winners)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if !apperr.Is(err, apperr.Conflict) {
			t.Fatalf("loser got %v, want Conflict", err)
		}
		conflicts++
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful claim, got %d", successes)
	}
	if conflicts != drivers-1 {
		t.Fatalf("expected %d conflicts, got %d", drivers-1, conflicts)
	}

	winner := <-winners
	stored, _ := f.Trip().GetByID(context.Background(), trip.ID)
	if stored.Status != models.TripAccepted {
		t.Fatalf("trip status = %s, want accepted", stored.Status)
	}
	if stored.AssignedDriverID == nil || *stored.AssignedDriverID != winner {
		t.Fatal("stored assigned driver does not match the winner")
	}

	// a claim after the race settles also loses
	late := f.seedAccount(models.RoleDriver, models.StatusActive)
	if _, err := svc.Accept(context.Background(), claimsFor(late), trip.ID); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("late claim got %v, want Conflict", err)
	}
}

func TestAcceptMissingTripIsConflict(t *testing.T) {
	f, _, svc := newTripFixture()
	driver := f.seedAccount(models.RoleDriver, models.StatusActive)

	_, err := svc.Accept(context.Background(), claimsFor(driver), 9999)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("got %v, want Conflict for missing trip", err)
	}
}

func TestStatusGating(t *testing.T) {
	f, _, svc := newTripFixture()

	cases := []struct {
		name  string
		actor *models.Account
		run   func(actor *token.Claims) error
	}{
		{
			"pending owner cannot create a trip",
			f.seedAccount(models.RoleOwner, models.StatusPendingOnboarding),
			func(a *token.Claims) error {
				_, err := svc.Create(context.Background(), a, TripInput{PickupAddress: "A", DropoffAddress: "B"})
				return err
			},
		},
		{
			"pending driver cannot accept",
			f.seedAccount(models.RoleDriver, models.StatusPendingApproval),
			func(a *token.Claims) error {
				_, err := svc.Accept(context.Background(), a, 1)
				return err
			},
		},
		{
			"suspended driver cannot browse the feed",
			f.seedAccount(models.RoleDriver, models.StatusSuspended),
			func(a *token.Claims) error {
				_, err := svc.OpenFeed(context.Background(), a)
				return err
			},
		},
		{
			"driver cannot create a trip even when active",
			f.seedAccount(models.RoleDriver, models.StatusActive),
			func(a *token.Claims) error {
				_, err := svc.Create(context.Background(), a, TripInput{PickupAddress: "A", DropoffAddress: "B"})
				return err
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(claimsFor(c.actor)); !apperr.Is(err, apperr.Unauthorized) {
				t.Fatalf("got %v, want Unauthorized", err)
			}
		})
	}

	if trips, _ := f.Trip().GetOpen(context.Background()); len(trips) != 0 {
		t.Fatalf("gated calls must not create trips, found %d", len(trips))
	}
}

func TestAdvanceRestrictedToAssignedDriver(t *testing.T) {
	f, _, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	winner := f.seedAccount(models.RoleDriver, models.StatusActive)
	other := f.seedAccount(models.RoleDriver, models.StatusActive)
	trip := f.seedTrip(owner.ID, models.TripOpen)

	if _, err := svc.Accept(context.Background(), claimsFor(winner), trip.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if _, err := svc.Advance(context.Background(), claimsFor(other), trip.ID, models.TripInProgress); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("non-assigned driver got %v, want Conflict", err)
	}

	// completed before in_progress is out of order
	if _, err := svc.Advance(context.Background(), claimsFor(winner), trip.ID, models.TripCompleted); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("out-of-order completion got %v, want Conflict", err)
	}

	got, err := svc.Advance(context.Background(), claimsFor(winner), trip.ID, models.TripInProgress)
	if err != nil {
		t.Fatalf("in_progress failed: %v", err)
	}
	if got.Status != models.TripInProgress {
		t.Fatalf("status = %s, want in_progress", got.Status)
	}

	got, err = svc.Advance(context.Background(), claimsFor(winner), trip.ID, models.TripCompleted)
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if got.Status != models.TripCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestDriverCancelClearsAssignment(t *testing.T) {
	f, _, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	driver := f.seedAccount(models.RoleDriver, models.StatusActive)
	trip := f.seedTrip(owner.ID, models.TripOpen)

	if _, err := svc.Accept(context.Background(), claimsFor(driver), trip.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	got, err := svc.Advance(context.Background(), claimsFor(driver), trip.ID, models.TripCancelled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got.Status != models.TripCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if got.AssignedDriverID != nil {
		t.Fatal("cancelled trip must not keep an assigned driver")
	}
}

func TestOwnerCancelOpenTrip(t *testing.T) {
	f, _, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	trip := f.seedTrip(owner.ID, models.TripOpen)

	got, err := svc.Advance(context.Background(), claimsFor(owner), trip.ID, models.TripCancelled)
	if err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}
	if got.Status != models.TripCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}

	// a second cancel finds nothing open
	if _, err := svc.Advance(context.Background(), claimsFor(owner), trip.ID, models.TripCancelled); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("repeat cancel got %v, want Conflict", err)
	}
}

func TestOpenFeedCacheAside(t *testing.T) {
	f, cache, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	driver := f.seedAccount(models.RoleDriver, models.StatusActive)
	f.seedTrip(owner.ID, models.TripOpen)

	first, err := svc.OpenFeed(context.Background(), claimsFor(driver))
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("feed length = %d, want 1", len(first))
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// second read is served from cache; the fake store sees no change
	second, err := svc.OpenFeed(context.Background(), claimsFor(driver))
	if err != nil {
		t.Fatalf("cached feed failed: %v", err)
	}
	if len(second) != 1 || cache.sets != 1 {
		t.Fatalf("expected cache hit, sets = %d", cache.sets)
	}

	// accepting invalidates the feed
	if _, err := svc.Accept(context.Background(), claimsFor(driver), first[0].ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	third, err := svc.OpenFeed(context.Background(), claimsFor(driver))
	if err != nil {
		t.Fatalf("refreshed feed failed: %v", err)
	}
	if len(third) != 0 {
		t.Fatalf("feed after claim = %d trips, want 0", len(third))
	}
}

func TestDriverEarnings(t *testing.T) {
	f, _, svc := newTripFixture()
	owner := f.seedAccount(models.RoleOwner, models.StatusActive)
	driver := f.seedAccount(models.RoleDriver, models.StatusActive)

	for i := 0; i < 3; i++ {
		trip := f.seedTrip(owner.ID, models.TripOpen)
		if _, err := svc.Accept(context.Background(), claimsFor(driver), trip.ID); err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if _, err := svc.Advance(context.Background(), claimsFor(driver), trip.ID, models.TripInProgress); err != nil {
			t.Fatalf("in_progress failed: %v", err)
		}
		if _, err := svc.Advance(context.Background(), claimsFor(driver), trip.ID, models.TripCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
	}

	summary, err := svc.DriverEarnings(context.Background(), claimsFor(driver))
	if err != nil {
		t.Fatalf("earnings failed: %v", err)
	}
	if summary.TotalCompleted != 3 || summary.TotalEarned != 300 {
		t.Fatalf("earnings = %d trips / %d, want 3 / 300", summary.TotalCompleted, summary.TotalEarned)
	}
}
