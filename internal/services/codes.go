package services

import (
	"strings"

	"github.com/google/uuid"
)

const (
	inviteCodeLength = 8

	// codeAttempts bounds how often a colliding invite or task code is
	// regenerated before giving up.
	codeAttempts = 5
)

func newInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:inviteCodeLength]
}

func newTaskCode() string {
	return "task-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
