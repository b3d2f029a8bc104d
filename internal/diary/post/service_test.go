// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/diary/comment"
	"github.com/taibuivan/diary/internal/diary/post"
	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/dberr"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/platform/supabase/supabasetest"
)

type fixture struct {
	fake     *supabasetest.Server
	posts    *post.Service
	comments *comment.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := supabasetest.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		fake:     fake,
		posts:    post.NewService(post.NewRemoteRepository(fake.Client()), logger),
		comments: comment.NewService(comment.NewRemoteRepository(fake.Client()), logger),
	}
}

type seeded struct {
	authorID  string
	content   string
	diaryDate string
	createdAt string
	private   bool
}

func (f *fixture) seed(p seeded) string {
	id := uuid.NewString()
	f.fake.Seed("posts", supabasetest.Row{
		"id":         id,
		"author_id":  p.authorID,
		"title":      nil,
		"content":    p.content,
		"mood":       nil,
		"weather":    nil,
		"diary_date": p.diaryDate,
		"is_private": p.private,
		"created_at": p.createdAt,
		"updated_at": p.createdAt,
	})
	return id
}

func ptr[T any](value T) *T {
	return &value
}

/*
TestService_WriteAndCheer walks one entry from writing to a cheer message
and the detail view.
*/
func TestService_WriteAndCheer(t *testing.T) {
	f := newFixture(t)
	writer := supabasetest.NewUser("writer@example.com")
	friend := supabasetest.NewUser("friend@example.com")

	mood := post.MoodHappy
	created, err := f.posts.CreatePost(writer.Context(t), post.CreateInput{
		Content:   "  좋은 하루  ",
		Mood:      &mood,
		DiaryDate: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "좋은 하루", created.Content)
	assert.Equal(t, writer.ID, created.AuthorID)
	assert.Equal(t, "😊", created.MoodEmoji)
	assert.Equal(t, post.UnknownWeatherEmoji, created.WeatherEmoji)
	assert.False(t, created.IsPrivate)

	_, err = f.comments.CreateComment(friend.Context(t), created.ID, "힘내세요")
	require.NoError(t, err)

	detail, err := f.posts.LoadDetail(context.Background(), f.comments, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "좋은 하루", detail.Post.Content)
	assert.Nil(t, detail.Post.AuthorName)
	assert.Equal(t, constants.UnknownAuthorEmail, detail.Post.AuthorEmail)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "힘내세요", detail.Comments[0].Content)
	assert.Equal(t, friend.ID, detail.Comments[0].AuthorID)

	feed, err := f.posts.GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, created.ID, feed[0].ID)
}

/*
TestService_CommentsCount verifies the comment count on the feed, on a single
post and on an updated post.
*/
func TestService_CommentsCount(t *testing.T) {
	f := newFixture(t)
	writer := supabasetest.NewUser("writer@example.com")
	friend := supabasetest.NewUser("friend@example.com")

	cheered, err := f.posts.CreatePost(writer.Context(t), post.CreateInput{Content: "좋은 하루", DiaryDate: "2026-03-02"})
	require.NoError(t, err)
	quiet, err := f.posts.CreatePost(writer.Context(t), post.CreateInput{Content: "조용한 하루", DiaryDate: "2026-03-01"})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(friend.Context(t), cheered.ID, "힘내세요")
	require.NoError(t, err)

	feed, err := f.posts.GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, cheered.ID, feed[0].ID)
	assert.Equal(t, 1, feed[0].CommentsCount)
	assert.Equal(t, 0, feed[1].CommentsCount)

	single, err := f.posts.GetPost(context.Background(), cheered.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, single.CommentsCount)

	updated, err := f.posts.UpdatePost(writer.Context(t), cheered.ID, post.UpdateInput{Title: ptr("응원받은 날")})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CommentsCount)

	single, err = f.posts.GetPost(context.Background(), quiet.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, single.CommentsCount)
}

/*
TestService_CreatePostRejections verifies that invalid input and anonymous
callers are turned away before any remote call.
*/
func TestService_CreatePostRejections(t *testing.T) {
	f := newFixture(t)
	user := supabasetest.NewUser("someone@example.com")

	tests := []struct {
		name     string
		ctx      func(testing.TB) context.Context
		input    post.CreateInput
		wantCode string
		wantMsg  string
	}{
		{
			name:     "blank content",
			ctx:      user.Context,
			input:    post.CreateInput{Content: "   "},
			wantCode: apperr.CodeValidation,
			wantMsg:  post.MessageContentMissing,
		},
		{
			name:     "malformed date",
			ctx:      user.Context,
			input:    post.CreateInput{Content: "좋은 하루", DiaryDate: "03/01/2026"},
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "anonymous",
			ctx:      func(testing.TB) context.Context { return context.Background() },
			input:    post.CreateInput{Content: "좋은 하루"},
			wantCode: apperr.CodeAuthRequired,
			wantMsg:  constants.MessageLoginRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.CreatePost(tt.ctx(t), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	assert.Zero(t, f.fake.Calls("posts"))
}

/*
TestService_CreatePostDefaults verifies the default diary date and the
normalisation of blank optional fields.
*/
func TestService_CreatePostDefaults(t *testing.T) {
	f := newFixture(t)
	post.SetClock(f.posts, func() time.Time {
		return time.Date(2026, 5, 17, 23, 30, 0, 0, time.UTC)
	})
	user := supabasetest.NewUser("someone@example.com")

	empty := post.Mood("")
	created, err := f.posts.CreatePost(user.Context(t), post.CreateInput{
		Title:     ptr("   "),
		Content:   "비 오는 날",
		Mood:      &empty,
		IsPrivate: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-05-17", created.DiaryDate)
	assert.Nil(t, created.Title)
	assert.Nil(t, created.Mood)
	assert.Equal(t, post.UnknownMoodEmoji, created.MoodEmoji)
	assert.True(t, created.IsPrivate)
}

/*
TestService_GetAllPostsOrder verifies diary date descending, then creation time descending.
*/
func TestService_GetAllPostsOrder(t *testing.T) {
	f := newFixture(t)
	author := uuid.NewString()

	f.seed(seeded{authorID: author, content: "old", diaryDate: "2026-01-01", createdAt: "2026-01-05T00:00:00.000000Z"})
	f.seed(seeded{authorID: author, content: "new morning", diaryDate: "2026-02-01", createdAt: "2026-02-01T08:00:00.000000Z"})
	f.seed(seeded{authorID: author, content: "new evening", diaryDate: "2026-02-01", createdAt: "2026-02-01T20:00:00.000000Z"})

	posts, err := f.posts.GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "new evening", posts[0].Content)
	assert.Equal(t, "new morning", posts[1].Content)
	assert.Equal(t, "old", posts[2].Content)
}

/*
TestService_PrivatePosts verifies that private entries are visible to their author only.
*/
func TestService_PrivatePosts(t *testing.T) {
	f := newFixture(t)
	author := supabasetest.NewUser("author@example.com")
	stranger := supabasetest.NewUser("stranger@example.com")

	f.seed(seeded{authorID: author.ID, content: "public", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})
	secret := f.seed(seeded{authorID: author.ID, content: "secret", diaryDate: "2026-01-02", createdAt: "2026-01-02T00:00:00.000000Z", private: true})

	mine, err := f.posts.GetAllPosts(author.Context(t))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.posts.GetAllPosts(stranger.Context(t))
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "public", theirs[0].Content)

	_, err = f.posts.GetPost(stranger.Context(t), secret)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	got, err := f.posts.GetPost(author.Context(t), secret)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Content)
}

/*
TestService_GetAllPostsUnavailable verifies the empty list and the reason
when the feed cannot be read.
*/
func TestService_GetAllPostsUnavailable(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		f := newFixture(t)
		f.fake.DropTable("posts")

		posts, err := f.posts.GetAllPosts(context.Background())
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
		assert.True(t, apperr.HasCode(err, apperr.CodeRemoteUnavailable))
		assert.Equal(t, post.MessageTableMissing, err.Error())
	})

	t.Run("platform down", func(t *testing.T) {
		f := newFixture(t)
		f.fake.Close()

		posts, err := f.posts.GetAllPosts(context.Background())
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
		assert.True(t, apperr.HasCode(err, apperr.CodeRemoteUnavailable))
		assert.Equal(t, dberr.MessageUnavailable, err.Error())
	})
}

/*
TestService_GetPostMissing verifies that any failed lookup reads as NOT_FOUND.
*/
func TestService_GetPostMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.GetPost(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, post.MessageNotFound, err.Error())

	f.fake.Close()
	_, err = f.posts.GetPost(context.Background(), uuid.NewString())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_Ownership verifies that only the author may edit or remove a post.
*/
func TestService_Ownership(t *testing.T) {
	f := newFixture(t)
	author := supabasetest.NewUser("author@example.com")
	stranger := supabasetest.NewUser("stranger@example.com")
	id := f.seed(seeded{authorID: author.ID, content: "mine", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})

	tests := []struct {
		name     string
		ctx      func(testing.TB) context.Context
		id       string
		wantCode string
	}{
		{"anonymous", func(testing.TB) context.Context { return context.Background() }, id, apperr.CodeAuthRequired},
		{"stranger", stranger.Context, id, apperr.CodeForbidden},
		{"unknown post", author.Context, uuid.NewString(), apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name+" update", func(t *testing.T) {
			_, err := f.posts.UpdatePost(tt.ctx(t), tt.id, post.UpdateInput{Content: ptr("hijacked")})
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
		t.Run(tt.name+" delete", func(t *testing.T) {
			err := f.posts.DeletePost(tt.ctx(t), tt.id)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}

	rows := f.fake.Rows("posts")
	require.Len(t, rows, 1)
	assert.Equal(t, "mine", rows[0]["content"])
}

/*
TestService_UpdatePost verifies partial edits by the author.
*/
func TestService_UpdatePost(t *testing.T) {
	f := newFixture(t)
	author := supabasetest.NewUser("author@example.com")
	id := f.seed(seeded{authorID: author.ID, content: "mine", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})
	ctx := author.Context(t)

	weather := post.WeatherRainy
	updated, err := f.posts.UpdatePost(ctx, id, post.UpdateInput{
		Title:     ptr("비"),
		Weather:   &weather,
		IsPrivate: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "mine", updated.Content)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "비", *updated.Title)
	assert.Equal(t, "🌧️", updated.WeatherEmoji)
	assert.True(t, updated.IsPrivate)

	tests := []struct {
		name  string
		input post.UpdateInput
	}{
		{"nothing to change", post.UpdateInput{}},
		{"blank content", post.UpdateInput{Content: ptr("  ")}},
		{"blank date", post.UpdateInput{DiaryDate: ptr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.UpdatePost(ctx, id, tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}
}

/*
TestService_DeletePostCascades verifies that removing a post removes its comments.
*/
func TestService_DeletePostCascades(t *testing.T) {
	f := newFixture(t)
	author := supabasetest.NewUser("author@example.com")
	friend := supabasetest.NewUser("friend@example.com")
	id := f.seed(seeded{authorID: author.ID, content: "mine", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})

	_, err := f.comments.CreateComment(friend.Context(t), id, "힘내세요")
	require.NoError(t, err)

	require.NoError(t, f.posts.DeletePost(author.Context(t), id))
	assert.Empty(t, f.fake.Rows("posts"))
	assert.Empty(t, f.fake.Rows("comments"))
}

/*
TestService_SearchAndUserPosts verifies the author view listings.
*/
func TestService_SearchAndUserPosts(t *testing.T) {
	f := newFixture(t)
	author := uuid.NewString()
	other := uuid.NewString()

	f.seed(seeded{authorID: author, content: "Rainy Monday", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})
	f.seed(seeded{authorID: other, content: "rain again", diaryDate: "2026-01-02", createdAt: "2026-01-02T00:00:00.000000Z"})
	f.seed(seeded{authorID: author, content: "sunny", diaryDate: "2026-01-03", createdAt: "2026-01-03T00:00:00.000000Z"})

	found, err := f.posts.SearchPosts(context.Background(), " RAIN ")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "rain again", found[0].Content)
	assert.Equal(t, "Rainy Monday", found[1].Content)

	mine, err := f.posts.GetUserPosts(context.Background(), author)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "sunny", mine[0].Content)
	assert.Equal(t, constants.UnknownAuthorEmail, mine[0].AuthorEmail)
	assert.Zero(t, mine[0].CommentsCount)
}

// failingLister stands in for a comment source whose reads always fail.
type failingLister struct{}

func (failingLister) GetCommentsByPost(context.Context, string) []*comment.Comment {
	return nil
}

/*
TestService_LoadDetail verifies the failure rules of the detail view.
*/
func TestService_LoadDetail(t *testing.T) {
	f := newFixture(t)
	author := uuid.NewString()
	id := f.seed(seeded{authorID: author, content: "mine", diaryDate: "2026-01-01", createdAt: "2026-01-01T00:00:00.000000Z"})

	t.Run("comments unavailable", func(t *testing.T) {
		detail, err := f.posts.LoadDetail(context.Background(), failingLister{}, id)
		require.NoError(t, err)
		assert.Equal(t, "mine", detail.Post.Content)
		assert.NotNil(t, detail.Comments)
		assert.Empty(t, detail.Comments)
	})

	t.Run("comments table missing", func(t *testing.T) {
		f.fake.DropTable("comments")
		detail, err := f.posts.LoadDetail(context.Background(), f.comments, id)
		require.NoError(t, err)
		assert.Empty(t, detail.Comments)
	})

	t.Run("post missing", func(t *testing.T) {
		detail, err := f.posts.LoadDetail(context.Background(), f.comments, uuid.NewString())
		assert.Nil(t, detail)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

// rejectingRepository answers the probe but fails every listing with a
// platform rejection no classification covers.
type rejectingRepository struct {
	post.Repository
}

func (rejectingRepository) Probe(context.Context) error {
	return nil
}

func (rejectingRepository) ListPosts(context.Context) ([]*post.Post, error) {
	return nil, &supabase.Error{Status: http.StatusBadRequest, Code: "42703", Message: "column posts.diary_date does not exist"}
}

/*
TestService_GetAllPostsRejected verifies a failed listing keeps the remote reason.
*/
func TestService_GetAllPostsRejected(t *testing.T) {
	service := post.NewService(rejectingRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	posts, err := service.GetAllPosts(context.Background())
	require.Error(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Equal(t, post.MessageListFailed+": column posts.diary_date does not exist", err.Error())
}
