package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MindMap struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ArtifactMeta `json:"meta" gorm:"embedded"`

	Layout string `json:"layout" gorm:"size:30;default:radial"`

	// []MindMapNode and []MindMapEdge
	Nodes datatypes.JSON `json:"nodes" gorm:"type:jsonb"`
	Edges datatypes.JSON `json:"edges" gorm:"type:jsonb"`

	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`

	Usage      UsageStats     `json:"usage" gorm:"embedded;embeddedPrefix:usage_"`
	Generation GenerationMeta `json:"generation" gorm:"embedded;embeddedPrefix:gen_"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Ratings []Rating `json:"ratings,omitempty" gorm:"polymorphic:Artifact;polymorphicValue:mindmap"`

	AverageRating float64 `json:"average_rating" gorm:"-"`
}

func (MindMap) TableName() string {
	return "mindmaps"
}

type MindMapNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Level int    `json:"level"` // 0 = root
	Notes string `json:"notes,omitempty"`
	Color string `json:"color,omitempty"`
}

type MindMapEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

func (m *MindMap) RecalculateTotals() {
	m.TotalNodes = lenJSONArray(m.Nodes)
	m.TotalEdges = lenJSONArray(m.Edges)
}
