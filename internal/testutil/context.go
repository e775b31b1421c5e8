package testutil

import (
	"context"

	"github.com/vidinfra/commtrack/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, "test_user")
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
