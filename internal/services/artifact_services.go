package services

import (
	"context"
	"encoding/json"

	"github.com/edusarathi/content-service/internal/ai"
	"github.com/edusarathi/content-service/internal/events"
	"github.com/edusarathi/content-service/internal/models"
	"github.com/edusarathi/content-service/internal/repositories"
	"github.com/edusarathi/content-service/internal/utils"
	"github.com/edusarathi/content-service/internal/validator"
)

func NewCurriculumService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) CurriculumService {
	return newArtifactService(repo.Curriculum(), repo.Rating(), chain, publisher, logger, v, artifactHooks[models.Curriculum, models.GenerateCurriculumRequest]{
		kind:       models.KindCurriculum,
		notFound:   ErrCurriculumNotFound,
		build:      ai.BuildCurriculum,
		meta:       func(c *models.Curriculum) *models.ArtifactMeta { return &c.ArtifactMeta },
		usage:      func(c *models.Curriculum) *models.UsageStats { return &c.Usage },
		id:         func(c *models.Curriculum) uint { return c.ID },
		countViews: true,
		setRatings: func(c *models.Curriculum, rs []models.Rating) {
			c.Ratings = rs
			c.AverageRating = models.AverageRating(rs)
		},
		setContent: func(c *models.Curriculum, raw json.RawMessage) error {
			var units []models.CurriculumUnit
			if err := json.Unmarshal(raw, &units); err != nil {
				return err
			}
			c.Units = models.MustJSON(units)
			c.RecalculateTotals()
			return nil
		},
	})
}

func NewQuizService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) QuizService {
	return newArtifactService(repo.Quiz(), repo.Rating(), chain, publisher, logger, v, artifactHooks[models.Quiz, models.GenerateQuizRequest]{
		kind:     models.KindQuiz,
		notFound: ErrQuizNotFound,
		build:    ai.BuildQuiz,
		meta:     func(q *models.Quiz) *models.ArtifactMeta { return &q.ArtifactMeta },
		usage:    func(q *models.Quiz) *models.UsageStats { return &q.Usage },
		id:       func(q *models.Quiz) uint { return q.ID },
		setRatings: func(q *models.Quiz, rs []models.Rating) {
			q.Ratings = rs
			q.AverageRating = models.AverageRating(rs)
		},
		setContent: func(q *models.Quiz, raw json.RawMessage) error {
			var questions []models.QuizQuestion
			if err := json.Unmarshal(raw, &questions); err != nil {
				return err
			}
			q.Questions = models.MustJSON(questions)
			q.RecalculateTotals()
			return nil
		},
		// Answer sheets are removed alongside the quiz as a separate,
		// unguarded operation.
		afterDelete: func(ctx context.Context, id uint) error {
			return repo.Sheet().DeleteByQuiz(ctx, id)
		},
	})
}

func NewLecturePlanService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) LecturePlanService {
	return newArtifactService(repo.LecturePlan(), repo.Rating(), chain, publisher, logger, v, artifactHooks[models.LecturePlan, models.GenerateLecturePlanRequest]{
		kind:     models.KindLecturePlan,
		notFound: ErrLecturePlanNotFound,
		build:    ai.BuildLecturePlan,
		meta:     func(p *models.LecturePlan) *models.ArtifactMeta { return &p.ArtifactMeta },
		usage:    func(p *models.LecturePlan) *models.UsageStats { return &p.Usage },
		id:       func(p *models.LecturePlan) uint { return p.ID },
		setRatings: func(p *models.LecturePlan, rs []models.Rating) {
			p.Ratings = rs
			p.AverageRating = models.AverageRating(rs)
		},
		setContent: func(p *models.LecturePlan, raw json.RawMessage) error {
			var activities []models.LectureActivity
			if err := json.Unmarshal(raw, &activities); err != nil {
				return err
			}
			p.Activities = models.MustJSON(activities)
			p.RecalculateTotals()
			return nil
		},
	})
}

func NewSlideDeckService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) SlideDeckService {
	return newArtifactService(repo.SlideDeck(), repo.Rating(), chain, publisher, logger, v, artifactHooks[models.SlideDeck, models.GenerateSlidesRequest]{
		kind:       models.KindSlideDeck,
		notFound:   ErrSlideDeckNotFound,
		build:      ai.BuildSlideDeck,
		meta:       func(d *models.SlideDeck) *models.ArtifactMeta { return &d.ArtifactMeta },
		usage:      func(d *models.SlideDeck) *models.UsageStats { return &d.Usage },
		id:         func(d *models.SlideDeck) uint { return d.ID },
		countViews: true,
		setRatings: func(d *models.SlideDeck, rs []models.Rating) {
			d.Ratings = rs
			d.AverageRating = models.AverageRating(rs)
		},
		setContent: func(d *models.SlideDeck, raw json.RawMessage) error {
			var slides []models.Slide
			if err := json.Unmarshal(raw, &slides); err != nil {
				return err
			}
			d.Slides = models.MustJSON(slides)
			d.RecalculateTotals()
			return nil
		},
	})
}

func NewMindMapService(repo repositories.Repository, chain *ai.Chain, publisher events.Publisher, logger utils.Logger, v *validator.Validator) MindMapService {
	return newArtifactService(repo.MindMap(), repo.Rating(), chain, publisher, logger, v, artifactHooks[models.MindMap, models.GenerateMindMapRequest]{
		kind:       models.KindMindMap,
		notFound:   ErrMindMapNotFound,
		build:      ai.BuildMindMap,
		meta:       func(m *models.MindMap) *models.ArtifactMeta { return &m.ArtifactMeta },
		usage:      func(m *models.MindMap) *models.UsageStats { return &m.Usage },
		id:         func(m *models.MindMap) uint { return m.ID },
		countViews: true,
		setRatings: func(m *models.MindMap, rs []models.Rating) {
			m.Ratings = rs
			m.AverageRating = models.AverageRating(rs)
		},
		setContent: func(m *models.MindMap, raw json.RawMessage) error {
			var graph struct {
				Nodes []models.MindMapNode `json:"nodes"`
				Edges []models.MindMapEdge `json:"edges"`
			}
			if err := json.Unmarshal(raw, &graph); err != nil {
				return err
			}
			m.Nodes = models.MustJSON(graph.Nodes)
			m.Edges = models.MustJSON(graph.Edges)
			m.RecalculateTotals()
			return nil
		},
	})
}
