package schema

// DiaryCommentTable represents the 'public.comments' table
type DiaryCommentTable struct {
	Table     string
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// DiaryComment is the schema definition for public.comments
var DiaryComment = DiaryCommentTable{
	Table:     "comments",
	ID:        "id",
	PostID:    "post_id",
	AuthorID:  "author_id",
	Content:   "content",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t DiaryCommentTable) Columns() []string {
	return []string{t.ID, t.PostID, t.AuthorID, t.Content, t.CreatedAt, t.UpdatedAt}
}

// DiaryCommentWithAuthorView represents the 'public.comments_with_author' view
type DiaryCommentWithAuthorView struct {
	DiaryCommentTable
	AuthorName  string
	AuthorEmail string
}

// DiaryCommentWithAuthor is the schema definition for public.comments_with_author
var DiaryCommentWithAuthor = DiaryCommentWithAuthorView{
	DiaryCommentTable: DiaryCommentTable{
		Table:     "comments_with_author",
		ID:        DiaryComment.ID,
		PostID:    DiaryComment.PostID,
		AuthorID:  DiaryComment.AuthorID,
		Content:   DiaryComment.Content,
		CreatedAt: DiaryComment.CreatedAt,
		UpdatedAt: DiaryComment.UpdatedAt,
	},
	AuthorName:  "author_name",
	AuthorEmail: "author_email",
}
