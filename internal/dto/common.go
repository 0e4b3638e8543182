package dto

// ListParams carries token-based pagination parameters shared by list endpoints.
type ListParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}
