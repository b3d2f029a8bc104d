// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages diary entries.

A post belongs to the identity that wrote it. Private posts are visible to
their author only; that rule and row ownership are enforced by the remote
platform's row-level security, and ownership is checked here as well before
every update or delete.
*/
package post

import (
	"time"

	"github.com/taibuivan/diary/internal/platform/constants"
)

// # Domain Entities

// Post is a diary entry as returned by the remote platform.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Title         *string   `json:"title"`
	Content       string    `json:"content"`
	Mood          *Mood     `json:"mood"`
	Weather       *Weather  `json:"weather"`
	DiaryDate     string    `json:"diary_date"`
	IsPrivate     bool      `json:"is_private"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Author display fields. Only the *_with_author views resolve them;
	// reads of the base table carry the placeholder.
	AuthorName  *string `json:"author_name"`
	AuthorEmail string  `json:"author_email"`

	// Rendered glyphs.
	MoodEmoji    string `json:"mood_emoji"`
	WeatherEmoji string `json:"weather_emoji"`
}

// withPlaceholderAuthor marks the author as unresolved.
func (p *Post) withPlaceholderAuthor() *Post {
	p.AuthorName = nil
	p.AuthorEmail = constants.UnknownAuthorEmail
	return p
}

// decorate fills the rendered glyphs.
func (p *Post) decorate() *Post {
	p.MoodEmoji = UnknownMoodEmoji
	if p.Mood != nil {
		p.MoodEmoji = p.Mood.Emoji()
	}
	p.WeatherEmoji = UnknownWeatherEmoji
	if p.Weather != nil {
		p.WeatherEmoji = p.Weather.Emoji()
	}
	if p.AuthorEmail == "" {
		p.AuthorEmail = constants.UnknownAuthorEmail
	}
	return p
}

// # Inputs

// CreateInput is what a caller may set on a new post. The author is never
// part of it; it comes from the session.
type CreateInput struct {
	Title     *string  `json:"title"`
	Content   string   `json:"content"`
	Mood      *Mood    `json:"mood"`
	Weather   *Weather `json:"weather"`
	DiaryDate string   `json:"diary_date"`
	IsPrivate bool     `json:"is_private"`
}

// UpdateInput holds the fields to change; nil fields are left alone.
type UpdateInput struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Mood      *Mood    `json:"mood"`
	Weather   *Weather `json:"weather"`
	DiaryDate *string  `json:"diary_date"`
	IsPrivate *bool    `json:"is_private"`
}

// Draft is the insert payload built from a [CreateInput] and the session.
type Draft struct {
	AuthorID  string   `json:"author_id"`
	Title     *string  `json:"title"`
	Content   string   `json:"content"`
	Mood      *Mood    `json:"mood"`
	Weather   *Weather `json:"weather"`
	DiaryDate string   `json:"diary_date"`
	IsPrivate bool     `json:"is_private"`
}

// # Messages

const (
	MessageNotFound       = "일기를 찾을 수 없습니다"
	MessageContentMissing = "오늘 하루에 대한 내용을 작성해주세요."
	MessageNotOwner       = "본인이 작성한 일기만 수정하거나 삭제할 수 있습니다"
	MessageTableMissing   = "📝 posts 테이블을 먼저 생성해주세요!"
	MessageNothingToEdit  = "수정할 내용이 없습니다"
	MessageListFailed     = "일기 조회 실패"
)

// Global field names for validation
const (
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldDiaryDate = "diary_date"
	FieldMood      = "mood"
	FieldWeather   = "weather"
	FieldIsPrivate = "is_private"
)
