package service

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/web-academy/academy-api/internal/models"
)

// normalizeEmail canonicalizes an address before storage or lookup so the
// unique constraint cannot be sidestepped by casing.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUnique(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// sameTenant reports whether a resource institute (nil means global) is
// visible to the given tenant. An empty tenant sees everything.
func sameTenant(tenant string, institute *string) bool {
	if tenant == "" {
		return true
	}
	return institute != nil && *institute == tenant
}

// canManage applies the admin reach rule: a super-admin manages every
// institute, an institute admin only their own.
func canManage(actor *models.User, institute *string) bool {
	if !actor.IsAdmin() {
		return false
	}
	return sameTenant(actor.Tenant(), institute)
}
