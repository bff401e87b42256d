// Package assets fetches result artifacts (segmentation masks, annotated
// images) referenced by server-relative URLs in classification responses.
// Fetched artifacts are cached for a short time so re-rendering a result does
// not re-download its images.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/medicoin/imaging-client/internal/apiclient"
	"github.com/medicoin/imaging-client/internal/serviceerr"
)

const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// Asset is one fetched artifact.
type Asset struct {
	URL         string
	ContentType string
	Content     []byte
}

// Resolver resolves server-relative artifact paths against the processing
// service origin and fetches them through its authenticated client.
type Resolver struct {
	api   *apiclient.Client
	cache *gocache.Cache
}

func NewResolver(api *apiclient.Client) *Resolver {
	return &Resolver{
		api:   api,
		cache: gocache.New(defaultTTL, defaultCleanupInterval),
	}
}

// ResolveURL turns a server-relative artifact path into an absolute URL on
// the processing service origin. Absolute URLs pass through unchanged.
func (r *Resolver) ResolveURL(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", serviceerr.New(serviceerr.CodeValidation, "empty artifact reference")
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", errors.Join(serviceerr.New(serviceerr.CodeValidation, "invalid artifact reference"), err)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}

	return r.api.BaseURL().JoinPath(parsed.Path).String(), nil
}

// Fetch downloads the artifact at the given reference, serving repeats from
// the cache until the entry expires. Only artifacts on the processing
// service origin are fetched; an absolute reference to another host is
// rejected instead of being silently rewritten onto this origin.
func (r *Resolver) Fetch(ctx context.Context, ref string) (*Asset, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil, serviceerr.New(serviceerr.CodeValidation, "empty artifact reference")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Join(serviceerr.New(serviceerr.CodeValidation, "invalid artifact reference"), err)
	}
	if parsed.IsAbs() && parsed.Host != r.api.BaseURL().Host {
		return nil, serviceerr.New(serviceerr.CodeValidation, "artifact reference points outside the processing service")
	}

	resolved := r.api.BaseURL().JoinPath(parsed.Path)
	resolved.RawQuery = parsed.RawQuery
	key := resolved.String()

	if cached, found := r.cache.Get(key); found {
		if asset, ok := cached.(*Asset); ok {
			return asset, nil
		}
	}

	resp, err := r.api.Get(ctx, parsed.RequestURI())
	if err != nil {
		return nil, fmt.Errorf("fetching artifact %q: %w", key, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(serviceerr.ErrMalformedResponse, err)
	}

	asset := &Asset{
		URL:         key,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}
	r.cache.SetDefault(key, asset)

	return asset, nil
}
