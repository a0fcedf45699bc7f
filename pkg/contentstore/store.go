// Package contentstore defines access to content-addressed JSON documents.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Store fetches and uploads JSON documents addressed by content id.
type Store interface {
	// Get downloads the document referenced by ref and decodes it into out.
	// ref may be a bare content id, an ipfs:// URI or a gateway URL.
	Get(ctx context.Context, ref string, out any) error

	// Put uploads v as JSON and returns its content id.
	Put(ctx context.Context, v any) (string, error)
}

// ErrInvalidRef is returned for references that carry no content id.
var ErrInvalidRef = errors.New("invalid content reference")

const (
	ipfsScheme = "ipfs://"
	ipfsPath   = "/ipfs/"
)

// ContentID extracts the content id, plus any sub-path, from a reference.
func ContentID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	switch {
	case ref == "":
		return "", ErrInvalidRef
	case strings.HasPrefix(ref, ipfsScheme):
		ref = strings.TrimPrefix(ref, ipfsScheme)
		ref = strings.TrimPrefix(ref, "ipfs/")
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidRef, err)
		}
		idx := strings.Index(u.Path, ipfsPath)
		if idx == -1 {
			return "", fmt.Errorf("%w: %s has no %s path", ErrInvalidRef, ref, ipfsPath)
		}
		ref = u.Path[idx+len(ipfsPath):]
	}

	ref = strings.Trim(ref, "/")
	if ref == "" || strings.ContainsAny(ref, " ?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	return ref, nil
}

// GatewayURI returns the canonical gateway URL of a content id.
func GatewayURI(gateway, cid string) string {
	return strings.TrimRight(gateway, "/") + ipfsPath + cid
}
