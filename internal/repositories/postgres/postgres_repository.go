package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edusarathi/content-service/internal/cache"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	curriculum  repositories.CurriculumRepository
	quiz        repositories.QuizRepository
	lecturePlan repositories.LecturePlanRepository
	slideDeck   repositories.SlideDeckRepository
	mindMap     repositories.MindMapRepository
	rating      repositories.RatingRepository
	sheet       repositories.SheetRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.initStores(config.DB, cacheManager)
	return repo
}

func (r *PostgreSQLRepository) initStores(db *gorm.DB, cm *cache.CacheManager) {
	r.curriculum = NewArtifactPostgreSQL(db, cm, models.KindCurriculum,
		func(c *models.Curriculum) uint { return c.ID },
		func(c *models.Curriculum) string { return c.CreatedBy })
	r.quiz = NewArtifactPostgreSQL(db, cm, models.KindQuiz,
		func(q *models.Quiz) uint { return q.ID },
		func(q *models.Quiz) string { return q.CreatedBy })
	r.lecturePlan = NewArtifactPostgreSQL(db, cm, models.KindLecturePlan,
		func(p *models.LecturePlan) uint { return p.ID },
		func(p *models.LecturePlan) string { return p.CreatedBy })
	r.slideDeck = NewArtifactPostgreSQL(db, cm, models.KindSlideDeck,
		func(d *models.SlideDeck) uint { return d.ID },
		func(d *models.SlideDeck) string { return d.CreatedBy })
	r.mindMap = NewArtifactPostgreSQL(db, cm, models.KindMindMap,
		func(m *models.MindMap) uint { return m.ID },
		func(m *models.MindMap) string { return m.CreatedBy })
	r.rating = NewRatingPostgreSQL(db, cm)
	r.sheet = NewSheetPostgreSQL(db, cm)
}

func (r *PostgreSQLRepository) Curriculum() repositories.CurriculumRepository {
	return r.curriculum
}

func (r *PostgreSQLRepository) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *PostgreSQLRepository) LecturePlan() repositories.LecturePlanRepository {
	return r.lecturePlan
}

func (r *PostgreSQLRepository) SlideDeck() repositories.SlideDeckRepository {
	return r.slideDeck
}

func (r *PostgreSQLRepository) MindMap() repositories.MindMapRepository {
	return r.mindMap
}

func (r *PostgreSQLRepository) Rating() repositories.RatingRepository {
	return r.rating
}

func (r *PostgreSQLRepository) Sheet() repositories.SheetRepository {
	return r.sheet
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.initStores(tx, r.cacheManager)
		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize validates connections and builds the repository instance
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
