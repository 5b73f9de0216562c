package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo      repositories.Repository
	chain     *ai.Chain
	publisher events.Publisher
	logger    utils.Logger
	validator *validator.Validator

	curriculum  CurriculumService
	quiz        QuizService
	lecturePlan LecturePlanService
	slideDeck   SlideDeckService
	mindMap     MindMapService
	attempt     AttemptService
	grading     GradingService
	translate   TranslateService
	export      ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager wires every business service against the shared
// repository, provider chain and event publisher.
func NewServiceManager(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) ServiceManager {
	sm := &serviceManager{
		repo:      repo,
		chain:     chain,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
	sm.initialize()
	return sm
}

func (sm *serviceManager) initialize() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return
	}

	sm.curriculum = NewCurriculumService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.quiz = NewQuizService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.lecturePlan = NewLecturePlanService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.slideDeck = NewSlideDeckService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.mindMap = NewMindMapService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.attempt = NewAttemptService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.grading = NewGradingService(sm.repo, sm.chain, sm.publisher, sm.logger, sm.validator)
	sm.translate = NewTranslateService(sm.chain, sm.validator)
	sm.export = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("service manager initialized")
}

func (sm *serviceManager) Curriculum() CurriculumService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.curriculum
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.quiz
}

func (sm *serviceManager) LecturePlan() LecturePlanService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lecturePlan
}

func (sm *serviceManager) SlideDeck() SlideDeckService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.slideDeck
}

func (sm *serviceManager) MindMap() MindMapService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.mindMap
}

func (sm *serviceManager) Attempt() AttemptService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.attempt
}

func (sm *serviceManager) Grading() GradingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.grading
}

func (sm *serviceManager) Translate() TranslateService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.translate
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.export
}

func (sm *serviceManager) AIChain() *ai.Chain {
	return sm.chain
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("failed to close repository", "error", err)
	}

	sm.shutdown = true
	return nil
}
