package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// MessageContainer narrows an inbox listing to one side of the conversation.
type MessageContainer string

const (
	ContainerAll    MessageContainer = "all"
	ContainerInbox  MessageContainer = "inbox"
	ContainerOutbox MessageContainer = "outbox"
)

// MessageParams are the query parameters of an inbox listing.
type MessageParams struct {
	Username   string           `form:"-"`
	PageNumber int              `form:"pageNumber"`
	PageSize   int              `form:"pageSize"`
	Container  MessageContainer `form:"container"`
}

// Normalized clamps paging into range and defaults the container.
func (p MessageParams) Normalized() MessageParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	// Keep Offset from overflowing int.
	if p.PageNumber > math.MaxInt/p.PageSize {
		p.PageNumber = math.MaxInt / p.PageSize
	}
	switch p.Container {
	case ContainerInbox, ContainerOutbox:
	default:
		p.Container = ContainerAll
	}
	return p
}

// Offset is the number of rows skipped before the current page.
func (p MessageParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// MessagePage is one page of an inbox listing plus metadata for the full set.
type MessagePage struct {
	Items       []Message
	CurrentPage int
	PageSize    int
	TotalCount  int64
	TotalPages  int
}

// NewMessagePage builds a page; TotalPages is ceil(total / pageSize).
func NewMessagePage(items []Message, total int64, pageNumber, pageSize int) *MessagePage {
	if items == nil {
		items = []Message{}
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &MessagePage{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  pages,
	}
}

// PaginationHeader is serialized into the "Pagination" response header.
type PaginationHeader struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
}

// PaginatedMessageResponse is the body of an inbox listing.
type PaginatedMessageResponse struct {
	Items       []MessageResponse `json:"items"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	TotalCount  int64             `json:"totalCount"`
	TotalPages  int               `json:"totalPages"`
}
