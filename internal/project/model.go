// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package project defines the story project model and its persistence.
package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PROJECT MODEL
// =============================================================================

// Project is one story project: its cast, plot skeleton and chapters.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Synopsis    string    `json:"synopsis,omitempty"`

	Characters []Character `json:"characters"`
	Plot       *Plot       `json:"plot,omitempty"`
	Chapters   []Chapter   `json:"chapters"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Character is a member of the story's cast.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age,omitempty"`
	Description string `json:"description"`
	Role        string `json:"role"`
	Personality string `json:"personality"`
	Background  string `json:"background"`
}

// Plot is the story's structural skeleton.
type Plot struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Genre      string `json:"genre"`
	Theme      string `json:"theme"`
	Setting    string `json:"setting"`
	Conflict   string `json:"conflict"`
	Resolution string `json:"resolution"`
	Acts       []Act  `json:"acts"`
}

// Act is one ordered act within a plot.
type Act struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Chapter is one ordered chapter of prose.
type Chapter struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	WordCount int    `json:"word_count"`
}

// Meta is the listing view of a project, cheap enough for pickers.
type Meta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ChapterCount int       `json:"chapter_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// New creates an empty project with a fresh id and timestamps.
func New(title, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Characters:  []Character{},
		Chapters:    []Chapter{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewChapter creates a chapter with a fresh id and a computed word count.
func NewChapter(title, content string, order int) Chapter {
	return Chapter{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Order:     order,
		WordCount: CountWords(content),
	}
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// WordCount sums the word counts of every chapter.
func (p *Project) WordCount() int {
	total := 0
	for _, ch := range p.Chapters {
		total += ch.WordCount
	}
	return total
}

// Touch bumps the modification timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
