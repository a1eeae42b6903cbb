package utils

import (
	"context"

	"github.com/gamedex/catalog_backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyActor         = appctx.ContextKeyActor
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

// SystemActor is recorded on history rows written outside an authenticated
// request (migrations, dispatchers, tests).
const SystemActor = "system"

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetActorFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyActor)
}

// ActorOrSystem never fails; absent actors collapse to the system label.
func ActorOrSystem(ctx context.Context) string {
	if actor, ok := GetActorFromContext(ctx); ok && actor != "" {
		return actor
	}
	return SystemActor
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetActorInContext(ctx context.Context, actor string) context.Context {
	return appctx.Set(ctx, ContextKeyActor, actor)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
