package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// Container agrupa todos los repositorios sobre una única conexión.
type Container struct {
	db               *gorm.DB
	log              *log.Logger
	registrationRepo RegistrationRepository
	participantRepo  ParticipantRepository
	badgeRepo        BadgeRepository
	eventRepo        EventRepository
}

// NewContainer creates a new repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:               db,
		log:              logger.Repository("postgres_container"),
		registrationRepo: NewPostgresRegistrationRepository(db),
		participantRepo:  NewPostgresParticipantRepository(db),
		badgeRepo:        NewPostgresBadgeRepository(db),
		eventRepo:        NewPostgresEventRepository(db),
	}
}

// Registrations returns the registration repository
func (c *Container) Registrations() RegistrationRepository {
	return c.registrationRepo
}

// Participants returns the participant repository
func (c *Container) Participants() ParticipantRepository {
	return c.participantRepo
}

// Badges returns the badge repository
func (c *Container) Badges() BadgeRepository {
	return c.badgeRepo
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// Health performs a health check on the database connection and each table
func (c *Container) Health() error {
	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, table := range []string{"registrations", "participants", "badges", "events"} {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("repository %s health check failed: %w", table, err)
		}
	}

	return nil
}

// GetDB returns the underlying database connection (for advanced usage)
func (c *Container) GetDB() *gorm.DB {
	return c.db
}

// Close gracefully shuts down the container and closes database connections
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		return nil
	}

	if err := Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.registrationRepo = nil
	c.participantRepo = nil
	c.badgeRepo = nil
	c.eventRepo = nil
	c.db = nil

	return nil
}
