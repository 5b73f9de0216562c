package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SlideDeck struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ArtifactMeta `json:"meta" gorm:"embedded"`

	Theme string `json:"theme" gorm:"size:50;default:light"`

	// []Slide
	Slides datatypes.JSON `json:"slides" gorm:"type:jsonb"`

	TotalSlides int `json:"total_slides"`

	Usage      UsageStats     `json:"usage" gorm:"embedded;embeddedPrefix:usage_"`
	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Ratings []Rating `json:"ratings,omitempty" gorm:"polymorphic:Artifact;polymorphicValue:slide_deck"`

	AverageRating float64 `json:"average_rating" gorm:"-"`
}

func (SlideDeck) TableName() string {
	return "slide_decks"
}

type Slide struct {
	SlideNumber  int      `json:"slideNumber"`
	Title        string   `json:"title"`
	Layout       string   `json:"layout"` // title, bullets, two_column, image
	BulletPoints []string `json:"bulletPoints,omitempty"`
	SpeakerNotes string   `json:"speakerNotes,omitempty"`
	ImagePrompt  string   `json:"imagePrompt,omitempty"`
}

func (d *SlideDeck) RecalculateTotals() {
	d.TotalSlides = lenJSONArray(d.Slides)
}
