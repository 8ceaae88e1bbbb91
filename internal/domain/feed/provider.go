package feed

import "context"

// Provider supplies the current feed document. Implementations own
// transport, retry and caching policy; callers treat any error as "no data".
type Provider interface {
	FetchDocument(ctx context.Context) (*Document, error)
}
