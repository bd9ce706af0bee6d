package utils

import (
	"context"

	"production-system/pkg/contextkeys"
	apperrors "production-system/pkg/errors"
)

func GetOperatorIDFromCtx(ctx context.Context) (uint64, error) {
	operatorID, ok := ctx.Value(contextkeys.OperatorIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrOperatorIDNotFoundInContext
	}
	return operatorID, nil
}
