package outwriter

import (
	"context"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
)

// CommentSink posts the Markdown report on a pull request.
type CommentSink struct {
	poster contract.CommentPoster
	target contract.CommentTarget
}

var _ contract.Sink = &CommentSink{} // Compile-time check

// NewCommentSink creates a sink that posts through poster to target.
func NewCommentSink(poster contract.CommentPoster, target contract.CommentTarget) *CommentSink {
	return &CommentSink{poster: poster, target: target}
}

// Emit implements the Sink interface. The report is posted exactly as rendered.
func (s *CommentSink) Emit(ctx context.Context, _ schema.QualityReport, markdown string) error {
	if err := s.poster.Post(ctx, s.target, markdown); err != nil {
		return contract.WrapCommentError(err)
	}
	contract.LogInfo("💬 Posted report to %s#%d", s.target.Repo, s.target.Number)
	return nil
}
