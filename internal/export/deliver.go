package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xxxsen/clinicbill/internal/filestore"
)

// Deliverer offers a rendered file to the user: an HTTP attachment, a file
// in a directory, an object in a bucket.
type Deliverer interface {
	Deliver(ctx context.Context, file File) error
}

type DelivererFunc func(ctx context.Context, file File) error

func (f DelivererFunc) Deliver(ctx context.Context, file File) error {
	return f(ctx, file)
}

type storeDeliverer struct {
	store  filestore.Store
	prefix string
}

// ToStore saves each file under prefix+file.Name in the given store.
func ToStore(store filestore.Store, prefix string) Deliverer {
	return &storeDeliverer{store: store, prefix: prefix}
}

func (d *storeDeliverer) Deliver(ctx context.Context, file File) error {
	key := d.prefix + file.Name
	reader := filestore.NopCloser(bytes.NewReader(file.Content))
	if err := d.store.Save(ctx, key, reader, int64(len(file.Content)), file.ContentType); err != nil {
		return fmt.Errorf("deliver %s: %w", key, err)
	}
	return nil
}
