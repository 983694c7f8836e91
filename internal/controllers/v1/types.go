package v1

import (
	dt_uuid "github.com/dentora/backend/internal/uuid"
)

type URIID struct {
	ID dt_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// URIItem addresses an item within a budget.
type URIItem struct {
	URIID
	ItemID dt_uuid.UUID `uri:"itemId" binding:"required" format:"UUID"` // ID of the item
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
