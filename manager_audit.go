package docAuth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

const (
	auditEventLogin         = "login"
	auditEventLoginRejected = "login_rejected"
	auditEventLogout        = "logout"
	auditEventRehydrate     = "rehydrate"
)

// AuditErrorCode is the stable error label recorded on failed audit events.
type AuditErrorCode string

const (
	auditErrTokenMissing   AuditErrorCode = "token_missing"
	auditErrTokenMalformed AuditErrorCode = "token_malformed"
	auditErrTokenExpired   AuditErrorCode = "token_expired"
	auditErrProfileInvalid AuditErrorCode = "profile_invalid"
	auditErrPersistFailed  AuditErrorCode = "persist_failed"
	auditErrUnavailable    AuditErrorCode = "backend_unavailable"
	auditErrInternal       AuditErrorCode = "internal_error"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subject string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: m.now().UTC(),
		EventType: eventType,
		Subject:   subject,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrTokenMissing):
		return auditErrTokenMissing
	case errors.Is(err, ErrTokenMalformed):
		return auditErrTokenMalformed
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrProfileInvalid):
		return auditErrProfileInvalid
	case errors.Is(err, ErrSessionPersistFailed):
		return auditErrPersistFailed
	case errors.Is(err, ErrManagerNotReady), errors.Is(err, ErrStoreRequired):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
