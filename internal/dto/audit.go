package dto

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// ListTimelineResponse is the paginated audit timeline for one entity.
type ListTimelineResponse struct {
	Entries   []domain.AuditLogEntry `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
