// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"strings"

	"github.com/taibuivan/diary/pkg/textfold"
)

// FilterPosts keeps the posts whose title or content contains term, ignoring
// case. It works on an already loaded list and makes no remote call; a blank
// term keeps everything. The input slice is not modified.
func FilterPosts(posts []*Post, term string) []*Post {
	term = strings.TrimSpace(term)
	filtered := make([]*Post, 0, len(posts))

	for _, post := range posts {
		title := ""
		if post.Title != nil {
			title = *post.Title
		}
		if textfold.ContainsAny(term, title, post.Content) {
			filtered = append(filtered, post)
		}
	}

	return filtered
}
