package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	CategoryKeyPrefix = "category:%s"
	LocationKeyPrefix = "location:%s"
	ProfileKeyPrefix  = "profile:%s"
	IndexFirstPageKey = "posts:index:p1"
)

// TTLs are short on purpose: a scheduled post crossing its publication
// moment may be served stale for at most one index TTL.
const (
	PostTTL     = 5 * time.Minute
	CategoryTTL = 10 * time.Minute
	LocationTTL = 10 * time.Minute
	ProfileTTL  = 5 * time.Minute
	IndexTTL    = 1 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

func LocationKey(slug string) string {
	return fmt.Sprintf(LocationKeyPrefix, slug)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateIndex(ctx context.Context) {
	Invalidate(ctx, IndexFirstPageKey)
}

func InvalidateCategory(ctx context.Context, slug string) {
	Invalidate(ctx, CategoryKey(slug))
}

func InvalidateLocation(ctx context.Context, slug string) {
	Invalidate(ctx, LocationKey(slug))
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}
