package service

import "fmt"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is what every operation fails with. Message is safe to show to
// clients; Err holds the underlying cause and is never sent back.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func storeError(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// Client-facing messages.
const (
	MsgSignupFieldsRequired = "All fields required"
	MsgUserExists           = "User or Email already exists"
	MsgSignupOK             = "Signup successful"
	MsgLoginFieldsRequired  = "Email and password required"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgAuthDatabase         = "Database error"

	MsgFetchBlogs      = "Error fetching blogs"
	MsgBlogNotFound    = "Blog not found"
	MsgBlogForbidden   = "You do not have permission to view this blog"
	MsgFetchBlog       = "Error fetching blog"
	MsgBlogFieldsReq   = "Required fields missing"
	MsgBlogCreated     = "Blog created successfully"
	MsgCreateBlog      = "Error creating blog"
	MsgFetchUserBlogs  = "Error fetching user blogs"
	MsgAuthorRequired  = "Author ID required"
	MsgNotAuthorized   = "Not authorized"
	MsgBlogUpdated     = "Blog updated successfully"
	MsgUpdateBlog      = "Error updating blog"
	MsgFetchComments   = "Error fetching comments"
	MsgCommentFieldReq = "Blog ID and comment content required"
	MsgCommentAdded    = "Comment added"
	MsgAddComment      = "Error adding comment"
	MsgCommentDeleted  = "Comment deleted"
	MsgDeleteComment   = "Error deleting comment"
)
