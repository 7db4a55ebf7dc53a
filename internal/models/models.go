package models

import "time"

type User struct {
	ID       int64  `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// BlogPost is a full blogcontent row. Author is only filled by lookups that
// join the user table.
type BlogPost struct {
	ID        int64     `json:"blogId"`
	AuthorID  int64     `json:"blogAuthor"`
	Topic     *string   `json:"blogTopic"`
	Title     *string   `json:"blogTitle"`
	Content   *string   `json:"blogContent"`
	Privacy   *bool     `json:"privacy"`
	Status    *bool     `json:"status"`
	CreatedOn time.Time `json:"createdOn"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Author    string    `json:"author,omitempty"`
}

// IsPrivate treats a NULL privacy column as public.
func (p *BlogPost) IsPrivate() bool {
	return p.Privacy != nil && *p.Privacy
}

func (p *BlogPost) IsActive() bool {
	return p.Status != nil && *p.Status
}

func (p *BlogPost) IsPublic() bool {
	return p.Privacy != nil && !*p.Privacy
}

type BlogSummary struct {
	ID        int64     `json:"blogId"`
	Topic     *string   `json:"blogTopic"`
	Title     *string   `json:"blogTitle"`
	CreatedOn time.Time `json:"createdOn"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Author    string    `json:"author"`
}

// BlogUpdate carries every writable column. Nil fields are stored as NULL.
type BlogUpdate struct {
	Topic   *string
	Title   *string
	Content *string
	Privacy *bool
	Status  *bool
}

type Comment struct {
	ID          int64     `json:"commentId"`
	BlogID      int64     `json:"blogId"`
	Content     string    `json:"commentContent"`
	CommentedOn time.Time `json:"commentedOn"`
	Status      bool      `json:"status"`
}

type CommentView struct {
	ID          int64     `json:"commentId"`
	Content     string    `json:"commentContent"`
	CommentedOn time.Time `json:"commentedOn"`
}
