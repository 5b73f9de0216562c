package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Curriculum struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ArtifactMeta `json:"meta" gorm:"embedded"`

	Duration        string         `json:"duration" gorm:"size:50" validate:"required,max=50"` // e.g. "1 year", "6 months"
	VisionStatement string         `json:"vision_statement" gorm:"type:text"`
	Objectives      datatypes.JSON `json:"objectives" gorm:"type:jsonb"` // []string

	// Content tree stored as JSONB: units with objectives, concepts and
	// per-unit assessments.
	Units              datatypes.JSON `json:"units" gorm:"type:jsonb"`
	AssessmentStrategy datatypes.JSON `json:"assessment_strategy" gorm:"type:jsonb"`
	Resources          datatypes.JSON `json:"resources" gorm:"type:jsonb"`

	TotalUnits int `json:"total_units"`

	Usage      UsageStats     `json:"usage" gorm:"embedded;embeddedPrefix:usage_"`
	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Ratings []Rating `json:"ratings,omitempty" gorm:"polymorphic:Artifact;polymorphicValue:curriculum"`

	AverageRating float64 `json:"average_rating" gorm:"-"`
}

func (Curriculum) TableName() string {
	return "curricula"
}

// ===== CURRICULUM CONTENT SCHEMAS =====

type CurriculumUnit struct {
	UnitNumber         int                   `json:"unitNumber"`
	Title              string                `json:"title"`
	Duration           string                `json:"duration"`
	Description        string                `json:"description"`
	EssentialQuestions []string              `json:"essentialQuestions"`
	LearningObjectives []LearningObjective   `json:"learningObjectives"`
	KeyVocabulary      []string              `json:"keyVocabulary"`
	Concepts           []CurriculumConcept   `json:"concepts"`
	Assessments        CurriculumAssessments `json:"assessments"`
}

type LearningObjective struct {
	Objective        string `json:"objective"`
	BloomsLevel      string `json:"bloomsLevel"`
	AssessmentMethod string `json:"assessmentMethod"`
}

type CurriculumConcept struct {
	Concept              string   `json:"concept"`
	Description          string   `json:"description"`
	RealWorldConnections []string `json:"realWorldConnections"`
	Prerequisites        []string `json:"prerequisites"`
}

type CurriculumAssessments struct {
	Formative []string `json:"formative"`
	Summative []string `json:"summative"`
	Rubrics   []string `json:"rubrics"`
}

type AssessmentStrategy struct {
	Philosophy           string   `json:"philosophy"`
	FormativeAssessments []string `json:"formativeAssessments"`
	SummativeAssessments []string `json:"summativeAssessments"`
}

type CurriculumResources struct {
	Textbooks              []TextbookRef `json:"textbooks"`
	SupplementaryMaterials []string      `json:"supplementaryMaterials"`
}

type TextbookRef struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// RecalculateTotals recomputes derived counts from the content tree. It is
// invoked explicitly by every write path and is idempotent.
func (c *Curriculum) RecalculateTotals() {
	c.TotalUnits = lenJSONArray(c.Units)
}
