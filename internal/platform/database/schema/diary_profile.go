package schema

// DiaryProfileTable represents the 'public.profiles' table
type DiaryProfileTable struct {
	Table     string
	ID        string
	FullName  string
	Bio       string
	Phone     string
	Website   string
	Location  string
	AvatarURL string
	CreatedAt string
	UpdatedAt string
}

// DiaryProfile is the schema definition for public.profiles
var DiaryProfile = DiaryProfileTable{
	Table:     "profiles",
	ID:        "id",
	FullName:  "full_name",
	Bio:       "bio",
	Phone:     "phone",
	Website:   "website",
	Location:  "location",
	AvatarURL: "avatar_url",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t DiaryProfileTable) Columns() []string {
	return []string{t.ID, t.FullName, t.Bio, t.Phone, t.Website, t.Location, t.AvatarURL, t.CreatedAt, t.UpdatedAt}
}
