package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
)

var ErrUploadFailed = errors.InternalServer("UPLOAD_FAILED", "asset upload failed")

// AssetStore is the object-store collaborator: it stores uploaded bytes
// under a generated key and returns a public URL. The rest of the system
// only ever consumes the returned URL strings.
type AssetStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
}
