package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LecturePlan struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ArtifactMeta `json:"meta" gorm:"embedded"`

	Duration   int            `json:"duration" gorm:"default:45"` // minutes
	Objectives datatypes.JSON `json:"objectives" gorm:"type:jsonb"`

	// []LectureActivity
	Activities  datatypes.JSON `json:"activities" gorm:"type:jsonb"`
	Resources   datatypes.JSON `json:"resources" gorm:"type:jsonb"`
	Assessments datatypes.JSON `json:"assessments" gorm:"type:jsonb"`
	Homework    *string        `json:"homework" gorm:"type:text"`

	TotalActivities int `json:"total_activities"`

	Usage      UsageStats     `json:"usage" gorm:"embedded;embeddedPrefix:usage_"`
	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Ratings []Rating `json:"ratings,omitempty" gorm:"polymorphic:Artifact;polymorphicValue:lecture_plan"`

	AverageRating float64 `json:"average_rating" gorm:"-"`
}

func (LecturePlan) TableName() string {
	return "lecture_plans"
}

type LectureActivity struct {
	Phase          string   `json:"phase"` // warmup, instruction, practice, closure
	Title          string   `json:"title"`
	Duration       int      `json:"duration"` // minutes
	Description    string   `json:"description"`
	TeacherActions []string `json:"teacherActions"`
	StudentActions []string `json:"studentActions"`
	Materials      []string `json:"materials"`
}

func (p *LecturePlan) RecalculateTotals() {
	p.TotalActivities = lenJSONArray(p.Activities)
}
