// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/diary/internal/diary/comment"
)

// CommentLister loads the comments shown under a post.
type CommentLister interface {
	GetCommentsByPost(context context.Context, postID string) []*comment.Comment
}

// Detail is a post together with its comments.
type Detail struct {
	Post     *Post              `json:"post"`
	Comments []*comment.Comment `json:"comments"`
}

/*
LoadDetail fetches a post and its comments concurrently.

Description: A failed post load fails the whole call and cancels the comment
fetch. A failed comment load only yields an empty comment list.

Parameters:
  - context: context.Context
  - postID: string

Returns:
  - *Detail: Comments are never nil
  - error: NOT_FOUND from [Service.GetPost]
*/
func (service *Service) LoadDetail(context context.Context, comments CommentLister, postID string) (*Detail, error) {
	group, groupContext := errgroup.WithContext(context)
	detail := &Detail{}

	group.Go(func() error {
		post, err := service.GetPost(groupContext, postID)
		if err != nil {
			return err
		}
		detail.Post = post
		return nil
	})

	group.Go(func() error {
		detail.Comments = comments.GetCommentsByPost(groupContext, postID)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if detail.Comments == nil {
		detail.Comments = []*comment.Comment{}
	}
	return detail, nil
}
