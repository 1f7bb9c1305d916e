package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
)

// In-memory repository fakes backing the service tests. Not-found reads
// surface pgx.ErrNoRows the way the real repositories do.

type fakePropertyRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{items: map[string]*domain.Property{}}
}

func (r *fakePropertyRepo) Create(_ context.Context, property *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *property
	r.items[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) Update(_ context.Context, property *domain.Property) error {
	return r.Create(nil, property)
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	property, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *property
	return &clone, nil
}

func (r *fakePropertyRepo) ListWithFilter(_ context.Context, filter repository.PropertyFilter) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Property
	for _, property := range r.items {
		if filter.OwnerID != nil && property.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.ListedOnly && !property.IsListed {
			continue
		}
		result = append(result, *property)
	}
	return result, nil
}

type fakeApplicationRepo struct {
	mu         sync.Mutex
	items      map[string]*domain.PropertyApplication
	properties *fakePropertyRepo
	lastFilter repository.ApplicationFilter
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{items: map[string]*domain.PropertyApplication{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.PropertyApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *app
	r.items[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *domain.PropertyApplication) error {
	return r.Create(nil, app)
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.PropertyApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) ListWithFilter(_ context.Context, filter repository.ApplicationFilter) ([]domain.PropertyApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	var result []domain.PropertyApplication
	for _, app := range r.items {
		if filter.ApplicantID != nil && app.ApplicantID != *filter.ApplicantID {
			continue
		}
		if filter.PropertyID != nil && app.PropertyID != *filter.PropertyID {
			continue
		}
		if filter.PropertyOwnerID != nil && !r.ownedBy(app.PropertyID, *filter.PropertyOwnerID) {
			continue
		}
		result = append(result, *app)
	}
	return result, nil
}

func (r *fakeApplicationRepo) ownedBy(propertyID, ownerID string) bool {
	if r.properties == nil {
		return false
	}
	property, err := r.properties.GetByID(nil, propertyID)
	return err == nil && property.OwnerID == ownerID
}

type fakeSettingsRepo struct {
	settings *domain.ApplicationSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*domain.ApplicationSettings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings *domain.ApplicationSettings) error {
	r.settings = settings
	return nil
}

type fakePaymentRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{items: map[string]*domain.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *payment
	r.items[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *domain.Payment) error {
	return r.Create(nil, payment)
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *payment
	return &clone, nil
}

func (r *fakePaymentRepo) GetByIntentID(_ context.Context, intentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.items {
		if payment.GatewayIntentID == intentID {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePaymentRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Payment
	for _, payment := range r.items {
		if payment.UserID == userID {
			result = append(result, *payment)
		}
	}
	return result, nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{items: map[string]*domain.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *sub
	r.items[sub.ID] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *domain.Subscription) error {
	return r.Create(nil, sub)
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sub
	return &clone, nil
}

func (r *fakeSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Subscription
	for _, sub := range r.items {
		if sub.UserID == userID {
			result = append(result, *sub)
		}
	}
	return result, nil
}

type fakeWorkOrderRepo struct {
	mu         sync.Mutex
	items      map[string]*domain.WorkOrder
	lastFilter repository.WorkOrderFilter
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{items: map[string]*domain.WorkOrder{}}
}

func (r *fakeWorkOrderRepo) Create(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	r.items[order.ID] = &clone
	return nil
}

func (r *fakeWorkOrderRepo) Update(_ context.Context, order *domain.WorkOrder) error {
	return r.Create(nil, order)
}

func (r *fakeWorkOrderRepo) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	return &clone, nil
}

func (r *fakeWorkOrderRepo) ListWithFilter(_ context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	var result []domain.WorkOrder
	for _, order := range r.items {
		result = append(result, *order)
	}
	return result, nil
}

type fakeLeaseRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Lease
}

func newFakeLeaseRepo() *fakeLeaseRepo {
	return &fakeLeaseRepo{items: map[string]*domain.Lease{}}
}

func (r *fakeLeaseRepo) Create(_ context.Context, lease *domain.Lease) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *lease
	r.items[lease.ID] = &clone
	return nil
}

func (r *fakeLeaseRepo) Update(_ context.Context, lease *domain.Lease) error {
	return r.Create(nil, lease)
}

func (r *fakeLeaseRepo) GetByID(_ context.Context, id string) (*domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lease, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *lease
	return &clone, nil
}

func (r *fakeLeaseRepo) ListWithFilter(_ context.Context, filter repository.LeaseFilter) ([]domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Lease
	for _, lease := range r.items {
		if filter.LandlordID != nil && lease.LandlordID != *filter.LandlordID {
			continue
		}
		if filter.TenantID != nil && lease.TenantID != *filter.TenantID {
			continue
		}
		result = append(result, *lease)
	}
	return result, nil
}

func (r *fakeLeaseRepo) CreateRenewal(_ context.Context, current, renewal *domain.Lease) error {
	if err := r.Update(nil, current); err != nil {
		return err
	}
	return r.Create(nil, renewal)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{items: map[string]*domain.User{}}
	for _, user := range users {
		r.items[user.ID] = user
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.items {
		if string(user.Email) == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type enqueuedJob struct {
	Type    string
	Payload map[string]any
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, jobType string, payload map[string]any) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, enqueuedJob{Type: jobType, Payload: payload})
	return "job-1", nil
}
