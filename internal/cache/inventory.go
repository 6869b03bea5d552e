package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	TagSlugKeyPrefix  = "tag:slug:%s"
	ResponseKeyPrefix = "resp:%s:%s"
	RevokedKeyPrefix  = "blacklist:%s"
)

const (
	UserTTL = 5 * time.Minute
	// Tags are never renamed or deleted, so the lookup can live long.
	TagTTL = 30 * time.Minute
	// ResponseTTL is the default lifetime of an anonymous cached response.
	ResponseTTL = 60 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TagSlugKey(slug string) string {
	return fmt.Sprintf(TagSlugKeyPrefix, slug)
}

// ResponseKey identifies a cached response by method and the full request URI,
// query string included, so each q/page combination gets its own entry.
func ResponseKey(method, requestURI string) string {
	return fmt.Sprintf(ResponseKeyPrefix, method, requestURI)
}

func RevokedKey(jti string) string {
	return fmt.Sprintf(RevokedKeyPrefix, jti)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
