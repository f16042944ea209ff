package bump

import "context"

type arenaCtxKeyType string

const arenaCtxKey arenaCtxKeyType = "_bumpArenaCtxK"

// WithArena allows you to bind ctx with target arena
// and then receive it from ctx using GetArena and GetArenaOrDefault methods.
func WithArena(ctx context.Context, arena *Arena) context.Context {
	return context.WithValue(ctx, arenaCtxKey, arena)
}

// GetArena allows you to receive arena associated with this ctx.
// Returns arena and true if there was some association.
func GetArena(ctx context.Context) (*Arena, bool) {
	value := ctx.Value(arenaCtxKey)
	if value == nil {
		return nil, false
	}
	arena, ok := value.(*Arena)
	if !ok {
		return nil, false
	}
	return arena, true
}

// GetArenaOrDefault allows you to receive arena associated with this ctx.
// Returns associated arena or defaultArena if there was no association.
func GetArenaOrDefault(ctx context.Context, defaultArena *Arena) *Arena {
	ctxArena, ok := GetArena(ctx)
	if !ok {
		return defaultArena
	}
	return ctxArena
}
