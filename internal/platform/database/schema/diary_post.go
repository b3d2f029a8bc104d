package schema

// DiaryPostTable represents the 'public.posts' table
type DiaryPostTable struct {
	Table     string
	ID        string
	AuthorID  string
	Title     string
	Content   string
	Mood      string
	Weather   string
	DiaryDate string
	IsPrivate string
	CreatedAt string
	UpdatedAt string
}

// DiaryPost is the schema definition for public.posts
var DiaryPost = DiaryPostTable{
	Table:     "posts",
	ID:        "id",
	AuthorID:  "author_id",
	Title:     "title",
	Content:   "content",
	Mood:      "mood",
	Weather:   "weather",
	DiaryDate: "diary_date",
	IsPrivate: "is_private",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// DiaryPostCommentsCount is the computed column backed by public.comments_count(posts).
// PostgREST only returns it when the select list names it.
const DiaryPostCommentsCount = "comments_count"

// SelectWithCount is the select list for base-table reads: every column plus
// the computed comment count.
func (t DiaryPostTable) SelectWithCount() string {
	return "*," + DiaryPostCommentsCount
}

func (t DiaryPostTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Title, t.Content, t.Mood, t.Weather, t.DiaryDate, t.IsPrivate, t.CreatedAt, t.UpdatedAt}
}

// DiaryPostWithAuthorView represents the 'public.posts_with_author' view
type DiaryPostWithAuthorView struct {
	DiaryPostTable
	AuthorName    string
	AuthorEmail   string
	CommentsCount string
}

// DiaryPostWithAuthor is the schema definition for public.posts_with_author
var DiaryPostWithAuthor = DiaryPostWithAuthorView{
	DiaryPostTable: DiaryPostTable{
		Table:     "posts_with_author",
		ID:        DiaryPost.ID,
		AuthorID:  DiaryPost.AuthorID,
		Title:     DiaryPost.Title,
		Content:   DiaryPost.Content,
		Mood:      DiaryPost.Mood,
		Weather:   DiaryPost.Weather,
		DiaryDate: DiaryPost.DiaryDate,
		IsPrivate: DiaryPost.IsPrivate,
		CreatedAt: DiaryPost.CreatedAt,
		UpdatedAt: DiaryPost.UpdatedAt,
	},
	AuthorName:    "author_name",
	AuthorEmail:   "author_email",
	CommentsCount: DiaryPostCommentsCount,
}
