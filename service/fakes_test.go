package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/models"
	"washride/storage"
)

// fakeStorage backs the service tests with in-memory tables. The mutex
// stands in for Postgres row-level atomicity: every conditional update
// checks its filter and writes under the same lock.
type fakeStorage struct {
	mu sync.Mutex

	nextID   int64
	accounts map[int64]*models.Account
	drivers  map[int64]*models.DriverProfile
	centers  map[int64]*models.CenterProfile
	vehicles map[int64]*models.Vehicle
	trips    map[int64]*models.Trip
	bookings map[int64]*models.WashBooking
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		accounts: make(map[int64]*models.Account),
		drivers:  make(map[int64]*models.DriverProfile),
		centers:  make(map[int64]*models.CenterProfile),
		vehicles: make(map[int64]*models.Vehicle),
		trips:    make(map[int64]*models.Trip),
		bookings: make(map[int64]*models.WashBooking),
	}
}

func (f *fakeStorage) Account() storage.IAccountStorage { return (*fakeAccounts)(f) }
func (f *fakeStorage) Vehicle() storage.IVehicleStorage { return (*fakeVehicles)(f) }
func (f *fakeStorage) Trip() storage.ITripStorage       { return (*fakeTrips)(f) }
func (f *fakeStorage) Booking() storage.IBookingStorage { return (*fakeBookings)(f) }
func (f *fakeStorage) Close()                           {}
func (f *fakeStorage) GetPool() *pgxpool.Pool           { return nil }

func (f *fakeStorage) id() int64 {
	f.nextID++
	return f.nextID
}

// seedAccount inserts an account directly, bypassing registration.
func (f *fakeStorage) seedAccount(role models.Role, status models.AccountStatus) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	acc := &models.Account{
		ID:        id,
		Email:     fmt.Sprintf("%s%d@example.com", strings.ToLower(string(role)), id),
		FullName:  "Test " + string(role),
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.accounts[acc.ID] = acc
	return acc
}

func (f *fakeStorage) seedTrip(ownerID int64, status models.TripStatus) *models.Trip {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &models.Trip{
		ID:             f.id(),
		OwnerID:        ownerID,
		PickupAddress:  "A",
		DropoffAddress: "B",
		Price:          100,
		Currency:       "USD",
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.trips[t.ID] = t
	return t
}

type fakeAccounts fakeStorage

func (f *fakeAccounts) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *acc
	cp.ID = (*fakeStorage)(f).id()
	cp.Status = models.StatusPendingOnboarding
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.Email == email {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) GetPendingApproval(ctx context.Context) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Account
	for _, acc := range f.accounts {
		if acc.Status == models.StatusPendingApproval {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAccounts) UpsertDriverProfile(ctx context.Context, p *models.DriverProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.drivers[p.UserID] = &cp
	return nil
}

func (f *fakeAccounts) GetDriverProfile(ctx context.Context, userID int64) (*models.DriverProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.drivers[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeAccounts) UpsertCenterProfile(ctx context.Context, p *models.CenterProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.centers[p.UserID] = &cp
	return nil
}

func (f *fakeAccounts) GetCenterProfile(ctx context.Context, userID int64) (*models.CenterProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.centers[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeAccounts) MarkPendingApproval(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return false, nil
	}
	if acc.Status != models.StatusPendingOnboarding && acc.Status != models.StatusPendingApproval {
		return false, nil
	}
	acc.Status = models.StatusPendingApproval
	acc.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeAccounts) Decide(ctx context.Context, id int64, status models.AccountStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok || acc.Status != models.StatusPendingApproval {
		return false, nil
	}
	acc.Status = status
	acc.UpdatedAt = time.Now()
	return true, nil
}

type fakeVehicles fakeStorage

func (f *fakeVehicles) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	cp.ID = (*fakeStorage)(f).id()
	cp.CreatedAt = time.Now()
	f.vehicles[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeVehicles) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicles) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		if v.OwnerID == ownerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVehicles) GetPendingApproval(ctx context.Context) ([]*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		if !v.Approved {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVehicles) SetApproved(ctx context.Context, id int64, approved bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return false, nil
	}
	v.Approved = approved
	return true, nil
}

type fakeTrips fakeStorage

func (f *fakeTrips) Create(ctx context.Context, t *models.Trip) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	cp.ID = (*fakeStorage)(f).id()
	cp.Status = models.TripOpen
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.trips[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTrips) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTrips) GetOpen(ctx context.Context) ([]*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Trip
	for _, t := range f.trips {
		if t.Status == models.TripOpen {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTrips) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Trip
	for _, t := range f.trips {
		if t.OwnerID == ownerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTrips) GetByDriver(ctx context.Context, driverID int64) ([]*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Trip
	for _, t := range f.trips {
		if t.AssignedDriverID != nil && *t.AssignedDriverID == driverID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTrips) Claim(ctx context.Context, tripID, driverID int64) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok || t.Status != models.TripOpen {
		return nil, nil
	}
	d := driverID
	t.Status = models.TripAccepted
	t.AssignedDriverID = &d
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (f *fakeTrips) Advance(ctx context.Context, tripID, driverID int64, from, to models.TripStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok || t.Status != from || t.AssignedDriverID == nil || *t.AssignedDriverID != driverID {
		return false, nil
	}
	t.Status = to
	if to == models.TripCancelled {
		t.AssignedDriverID = nil
	}
	t.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeTrips) CancelOpen(ctx context.Context, tripID, ownerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok || t.Status != models.TripOpen || t.OwnerID != ownerID {
		return false, nil
	}
	t.Status = models.TripCancelled
	t.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeTrips) DriverEarnings(ctx context.Context, driverID int64) (*models.EarningsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &models.EarningsSummary{}
	for _, t := range f.trips {
		if t.Status == models.TripCompleted && t.AssignedDriverID != nil && *t.AssignedDriverID == driverID {
			summary.TotalCompleted++
			summary.TotalEarned += t.Price
		}
	}
	return summary, nil
}

type fakeBookings fakeStorage

func (f *fakeBookings) Create(ctx context.Context, b *models.WashBooking) (*models.WashBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	cp.ID = (*fakeStorage)(f).id()
	cp.Status = models.BookingPending
	cp.CreatedAt = time.Now()
	f.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id int64) (*models.WashBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) GetByOwner(ctx context.Context, ownerID int64) ([]*models.WashBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WashBooking
	for _, b := range f.bookings {
		if b.OwnerID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookings) GetByCenter(ctx context.Context, centerID int64) ([]*models.WashBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WashBooking
	for _, b := range f.bookings {
		if b.CenterID == centerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookings) Advance(ctx context.Context, id, centerID int64, from, to models.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from || b.CenterID != centerID {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeBookings) CancelPending(ctx context.Context, id, ownerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != models.BookingPending || b.OwnerID != ownerID {
		return false, nil
	}
	b.Status = models.BookingCancelled
	return true, nil
}

func (f *fakeBookings) CenterEarnings(ctx context.Context, centerID int64) (*models.EarningsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &models.EarningsSummary{}
	for _, b := range f.bookings {
		if b.Status == models.BookingCompleted && b.CenterID == centerID {
			summary.TotalCompleted++
			summary.TotalEarned += b.Price
		}
	}
	return summary, nil
}

// fakeCache is a plain map cache; nil-safe methods are not needed since
// every service receives one.
type fakeCache struct {
	mu      sync.Mutex
	storage map[string]string
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{storage: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.storage[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.storage[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.storage, k)
	}
	return nil
}
