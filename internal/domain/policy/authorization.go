// Package policy decides who may act on whose record.
package policy

import (
	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// Operation is a kind of action on a user record.
type Operation string

const (
	OpCreate          Operation = "CREATE"
	OpLogin           Operation = "LOGIN"
	OpRead            Operation = "READ"
	OpList            Operation = "LIST"
	OpUpdate          Operation = "UPDATE"
	OpUpdateProfile   Operation = "UPDATE_PROFILE"
	OpDelete          Operation = "DELETE"
	OpAssignRole      Operation = "ASSIGN_ROLE"
	OpPromoteAdmin    Operation = "PROMOTE_ADMIN"
	OpSetProfessional Operation = "SET_PROFESSIONAL"
	OpUnlock          Operation = "UNLOCK"
)

// Operations lists every operation kind.
var Operations = []Operation{
	OpCreate, OpLogin, OpRead, OpList, OpUpdate, OpUpdateProfile,
	OpDelete, OpAssignRole, OpPromoteAdmin, OpSetProfessional, OpUnlock,
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Decide is deny-by-default; each role has an explicit allow list.
func Decide(callerRole entity.Role, callerID, targetID string, op Operation) Decision {
	switch callerRole {
	case entity.RoleAdmin:
		return Allow
	case entity.RoleManager:
		if op == OpDelete || op == OpPromoteAdmin {
			return Deny
		}
		return Allow
	case entity.RoleAuthenticated:
		self := callerID != "" && callerID == targetID
		if self && (op == OpRead || op == OpUpdateProfile) {
			return Allow
		}
	case entity.RoleAnonymous:
		if op == OpCreate || op == OpLogin {
			return Allow
		}
	}
	return Deny
}

// Authorize returns Forbidden when Decide denies.
func Authorize(callerRole entity.Role, callerID, targetID string, op Operation) error {
	if Decide(callerRole, callerID, targetID, op) == Deny {
		return apperror.ErrForbidden
	}
	return nil
}

// RoleChangeOps returns the extra operations implied by assigning role.
func RoleChangeOps(role entity.Role) []Operation {
	if !role.Elevated() {
		return nil
	}
	ops := []Operation{OpAssignRole}
	if role == entity.RoleAdmin {
		ops = append(ops, OpPromoteAdmin)
	}
	return ops
}
