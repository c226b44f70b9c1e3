package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// Slugify lowercases the title and reduces it to [a-z0-9-] with single dashes.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}

// slugExistsFunc reports whether a slug is taken by a post other than excludeID.
type slugExistsFunc func(ctx context.Context, slug string, excludeID int64) (bool, error)

// uniqueSlug appends -1, -2, ... to the base slug until it is free.
func uniqueSlug(ctx context.Context, title string, excludeID int64, exists slugExistsFunc) (string, error) {
	base := Slugify(title)
	slug := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(counter)
	}
}
