package audit

import (
	"context"

	"github.com/plumehq/plume/pkg/log"
)

// Audit actions.
const (
	ActionCreatePost    = "post.create"
	ActionEditPost      = "post.edit"
	ActionDeletePost    = "post.delete"
	ActionCreateComment = "comment.create"
	ActionFollow        = "follow.create"
	ActionUnfollow      = "follow.remove"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, userID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}
