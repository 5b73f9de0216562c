package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrCurriculumNotFound  = errors.New("curriculum not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrLecturePlanNotFound = errors.New("lecture plan not found")
	ErrSlideDeckNotFound   = errors.New("slide deck not found")
	ErrMindMapNotFound     = errors.New("mind map not found")
	ErrSheetNotFound       = errors.New("answer sheet not found")

	ErrAttemptLimitReached     = errors.New("attempt limit reached for this quiz")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrSheetNotSubmitted       = errors.New("answer sheet has not been submitted")
	ErrSheetNotGradable        = errors.New("answer sheet cannot be graded in its current status")

	ErrInvalidStatusChange = errors.New("invalid artifact status change")
)

// ===== TYPED ERRORS =====

// PermissionError reports that a user may not perform an operation on a
// resource. Handlers translate it to 403.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// BusinessRuleError reports a domain rule violation. Handlers translate it
// to 422.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
	}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}
