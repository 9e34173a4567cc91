// Package repository implements MySQL persistence for users and tasks.
// This file defines the sentinel errors shared by the repositories.  Higher
// layers compare against these values to pick the client-facing response;
// anything else bubbling out of a repository is treated as a storage fault.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registration hits the unique email
// constraint.  It is reported in preference to ErrUsernameExists when both
// values collide.
var ErrEmailExists = errors.New("email already registered")

// ErrUsernameExists is returned when registration hits the unique username
// constraint.
var ErrUsernameExists = errors.New("username already registered")

// ErrTitleExists is returned when a task create or update would give one
// user two tasks with the same title.  Different users may reuse titles.
var ErrTitleExists = errors.New("task title already exists for this user")

// ErrNotFound is returned when a task does not exist for the given owner.
// A task owned by someone else is deliberately indistinguishable from a
// task that does not exist.
var ErrNotFound = errors.New("not found")

// isDuplicate reports whether err is a MySQL duplicate-entry violation
// (error 1062) on the named unique key.  The unique constraints are the
// authoritative uniqueness guard; the pre-insert lookups only exist to give
// deterministic error ordering.
func isDuplicate(err error, key string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") && strings.Contains(msg, strings.ToLower(key))
}
