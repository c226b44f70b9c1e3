package worker

import (
	"github.com/spec-kit/blog-service/internal/service"
)

// StartAuditWorker registers the audit subscribers on the event bus.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
