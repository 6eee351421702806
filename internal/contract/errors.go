package contract

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped errors.
const (
	ToolLaunchFailedCode  = "TOOL_LAUNCH_FAILED"
	ToolTimeoutCode       = "TOOL_TIMEOUT"
	CommentPostFailedCode = "COMMENT_POST_FAILED"
	ConfigInvalidCode     = "CONFIG_INVALID"
)

// WrapLaunchError marks err as a failure to start an external tool.
func WrapLaunchError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "external tool could not be started: "+err.Error()).
		WithTextCode(ToolLaunchFailedCode)
}

// WrapTimeoutError marks err as an external tool exceeding its time budget.
func WrapTimeoutError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "external tool timed out: "+err.Error()).
		WithTextCode(ToolTimeoutCode)
}

// WrapCommentError marks err as a failure of the pull request comment step.
func WrapCommentError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "posting report comment failed: "+err.Error()).
		WithTextCode(CommentPostFailedCode)
}

// WrapConfigError marks err as invalid user configuration.
func WrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration: "+err.Error()).
		WithTextCode(ConfigInvalidCode)
}
