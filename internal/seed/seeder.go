package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"

	"github.com/google/uuid"
)

// Options controls how much demo data the seeder creates.
type Options struct {
	Owners             int
	PropertiesPerOwner int
}

// Seeder populates demo accounts and listed properties for local
// development environments.
type Seeder struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	logger     *zap.Logger
}

// NewSeeder constructs the seeder.
func NewSeeder(pool *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return &Seeder{
		users:      repository.NewUserRepository(pool),
		properties: repository.NewPropertyRepository(pool),
		logger:     logger,
	}
}

type metroWeight struct {
	name   string
	weight int
}

// Skewed toward the larger markets so list filters return uneven,
// realistic result sets.
var metroAreas = []metroWeight{
	{"Seattle", 5},
	{"Portland", 3},
	{"Austin", 3},
	{"Denver", 2},
	{"Raleigh", 1},
}

var propertyTypes = []domain.PropertyType{
	domain.PropertyTypeApartment,
	domain.PropertyTypeApartment,
	domain.PropertyTypeHouse,
	domain.PropertyTypeCondo,
	domain.PropertyTypeTownhouse,
}

// Run creates demo owners, each with listed properties spread across
// metro areas.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Owners <= 0 {
		opts.Owners = 5
	}
	if opts.PropertiesPerOwner <= 0 {
		opts.PropertiesPerOwner = 4
	}

	hash, err := auth.HashPassword("demo-password", 0)
	if err != nil {
		return err
	}

	created := 0
	for i := 0; i < opts.Owners; i++ {
		email, err := domain.NewEmail(fmt.Sprintf("owner%02d@example.com", i+1))
		if err != nil {
			return err
		}
		owner := &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: hash,
			FullName:     fmt.Sprintf("Demo Owner %02d", i+1),
			Role:         domain.RolePropertyOwner,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, owner); err != nil {
			return fmt.Errorf("seed owner %s: %w", owner.FullName, err)
		}

		for j := 0; j < opts.PropertiesPerOwner; j++ {
			if err := s.seedProperty(ctx, owner, j); err != nil {
				return err
			}
			created++
		}
	}

	s.logger.Info("seed complete",
		zap.Int("owners", opts.Owners),
		zap.Int("properties", created))
	return nil
}

func (s *Seeder) seedProperty(ctx context.Context, owner *domain.User, n int) error {
	metro := pickMetro()
	bedrooms := 1 + rand.Intn(4)
	rent := domain.Money{Amount: int64(90000 + rand.Intn(250)*1000), Currency: "USD"}

	address, err := domain.NewPropertyAddress(
		fmt.Sprintf("%d Main St", 100+rand.Intn(9000)),
		metro, "WA", fmt.Sprintf("98%03d", rand.Intn(1000)), "US")
	if err != nil {
		return err
	}

	property, err := domain.NewProperty(domain.PropertyParams{
		OwnerID:     owner.ID,
		Title:       fmt.Sprintf("%s %d-bed in %s", propertyTypes[n%len(propertyTypes)], bedrooms, metro),
		Description: "Seeded demo listing",
		Address:     address,
		Type:        propertyTypes[n%len(propertyTypes)],
		Bedrooms:    bedrooms,
		Bathrooms:   1 + rand.Intn(2),
		MonthlyRent: rent,
		MetroArea:   metro,
	})
	if err != nil {
		return err
	}
	if err := property.List(); err != nil {
		return err
	}
	property.PullEvents()

	if err := s.properties.Create(ctx, property); err != nil {
		return fmt.Errorf("seed property %s: %w", property.Title, err)
	}
	return nil
}

func pickMetro() string {
	total := 0
	for _, m := range metroAreas {
		total += m.weight
	}
	n := rand.Intn(total)
	for _, m := range metroAreas {
		if n < m.weight {
			return m.name
		}
		n -= m.weight
	}
	return metroAreas[0].name
}
