package model

// Types mirroring the blog API payloads.

type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CreatedDate string `json:"created_date"`
	PostsCount  int    `json:"posts_count"`
}

// DisplayName is what pages show for a user: full name when any part of
// it is set, otherwise the email.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

type Author struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Snippet       string    `json:"snippet,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Author        Author    `json:"author"`
	PublishedDate string    `json:"published_date"`
}

// PostPage is the canonical shape every post listing is normalized to,
// whether the server answered with a paginated envelope or a bare list.
type PostPage struct {
	Items      []Post
	TotalCount int
	TotalPages int
}
