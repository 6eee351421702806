package contract

import (
	"context"

	"github.com/huangsam/qualitygate/schema"
	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing.
type MockCommandRunner struct {
	mock.Mock
}

var _ CommandRunner = &MockCommandRunner{} // Compile-time check

// Run implements the CommandRunner interface.
func (m *MockCommandRunner) Run(ctx context.Context, dir string, command string) ([]byte, int, error) {
	args := m.Called(ctx, dir, command)
	out, _ := args.Get(0).([]byte)
	return out, args.Int(1), args.Error(2)
}

// MockCommentPoster is a mock implementation of CommentPoster for testing.
type MockCommentPoster struct {
	mock.Mock
}

var _ CommentPoster = &MockCommentPoster{} // Compile-time check

// Post implements the CommentPoster interface.
func (m *MockCommentPoster) Post(ctx context.Context, target CommentTarget, markdown string) error {
	args := m.Called(ctx, target, markdown)
	return args.Error(0)
}

// MockSink is a mock implementation of Sink for testing.
type MockSink struct {
	mock.Mock
}

var _ Sink = &MockSink{} // Compile-time check

// Emit implements the Sink interface.
func (m *MockSink) Emit(ctx context.Context, report schema.QualityReport, markdown string) error {
	args := m.Called(ctx, report, markdown)
	return args.Error(0)
}
