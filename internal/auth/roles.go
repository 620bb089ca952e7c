package auth

import "github.com/campus-kit/helpdesk/internal/domain"

// IsStaffRole reports whether the role belongs to helpdesk personnel.
func IsStaffRole(role domain.AccountRole) bool {
	switch role {
	case domain.AccountRoleStaff, domain.AccountRoleAdmin, domain.AccountRoleITAdmin, domain.AccountRoleHostelAdmin:
		return true
	default:
		return false
	}
}

// SenderRoleFor maps an account role to the chat side it writes from.
func SenderRoleFor(role domain.AccountRole) domain.SenderRole {
	if IsStaffRole(role) {
		return domain.SenderRoleStaff
	}
	return domain.SenderRoleStudent
}
