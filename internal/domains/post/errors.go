package post

import "errors"

// Repository-level errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Service-level (business logic) errors
var (
	// ErrNotPostAuthor: only the author may mutate or delete a post
	ErrNotPostAuthor = errors.New("only the author can modify this post")

	// ErrInvalidCoverImage: upload failed decode-based validation
	ErrInvalidCoverImage = errors.New("invalid cover image")
)
