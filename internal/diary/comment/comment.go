// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment manages cheer messages left on diary entries.

Comments are non-essential to reading a post: listing them never fails, it
degrades to an empty list. Writing one requires a signed-in identity, which
becomes the author.
*/
package comment

import (
	"time"

	"github.com/taibuivan/diary/internal/platform/constants"
)

// Comment is a cheer message on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author display fields. Only comments_with_author resolves them.
	AuthorName  *string `json:"author_name"`
	AuthorEmail string  `json:"author_email"`
}

func (c *Comment) withPlaceholderAuthor() *Comment {
	c.AuthorName = nil
	c.AuthorEmail = constants.UnknownAuthorEmail
	return c
}

// Draft is the insert payload.
type Draft struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

// # Messages

const (
	MessageNotFound       = "응원 메시지를 찾을 수 없습니다"
	MessageContentMissing = "응원 메시지를 입력해주세요"
	MessageNotOwner       = "본인이 작성한 응원 메시지만 수정하거나 삭제할 수 있습니다"
	MessageTableMissing   = "comments 테이블을 먼저 생성해주세요. Supabase에서 SQL을 실행하세요."
)

const (
	FieldContent = "content"
	FieldPostID  = "post_id"
)
