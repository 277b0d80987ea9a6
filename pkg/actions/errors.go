package actions

import (
	stderrors "errors"
	"fmt"
	"strings"

	apperrors "github.com/goliatone/go-errors"

	"github.com/aretw0/lienzo/pkg/validate"
)

// Error codes carried by action failures.
const (
	CodeNodeNotFound     = "NODE_NOT_FOUND"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeValidationFailed = "VALIDATION_FAILED"
)

var (
	ErrNodeNotFound = apperrors.New("node not found", apperrors.CategoryBadInput).
			WithTextCode(CodeNodeNotFound)
	ErrInvalidArgument = apperrors.New("invalid argument", apperrors.CategoryBadInput).
				WithTextCode(CodeInvalidArgument)
	ErrValidationFailed = apperrors.New("validation failed", apperrors.CategoryValidation).
				WithTextCode(CodeValidationFailed)
)

// ErrorCode returns the text code of an action error, or "" when err did
// not come from this package.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// Issues returns the validation errors behind a VALIDATION_FAILED error.
func Issues(err error) []validate.Issue {
	var verr *validate.Error
	if stderrors.As(err, &verr) {
		return verr.Issues
	}
	return nil
}

func actionError(base *apperrors.Error, action, message string, metadata map[string]any) *apperrors.Error {
	err := base.Clone()
	err.Message = message
	md := map[string]any{"action": action}
	for k, v := range metadata {
		md[k] = v
	}
	return err.WithMetadata(md)
}

func nodeNotFound(action, nodeID string) error {
	return actionError(ErrNodeNotFound, action,
		fmt.Sprintf("node %q does not exist in the canvas", nodeID),
		map[string]any{"node_id": nodeID})
}

func invalidArgument(action, format string, args ...any) error {
	return actionError(ErrInvalidArgument, action, fmt.Sprintf(format, args...), nil)
}

func validationFailed(action string, res validate.Result) error {
	msgs := make([]string, len(res.Errors))
	for i, issue := range res.Errors {
		msgs[i] = issue.Message
	}
	err := actionError(ErrValidationFailed, action,
		fmt.Sprintf("canvas invalid after %s: %s", action, strings.Join(msgs, ", ")),
		map[string]any{"errors": msgs})
	err.Source = &validate.Error{Issues: res.Errors}
	return err
}
