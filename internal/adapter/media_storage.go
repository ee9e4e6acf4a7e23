package adapter

import "context"

// AssetDescriptor is what the external media host reports back for a stored
// asset.
type AssetDescriptor struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
}

// MediaStorage is the Media Upload Gateway: a thin adapter over the external
// image host. Callers treat every method as a blocking network round trip
// and surface failures as local errors without retrying.
type MediaStorage interface {
	Upload(ctx context.Context, data []byte) (*AssetDescriptor, error)
	Delete(ctx context.Context, publicID string) error
	URLFor(publicID string) string
}
