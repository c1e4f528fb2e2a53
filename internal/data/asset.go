package data

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"feedback-service/internal/biz"
	"feedback-service/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type assetStore struct {
	dir     string
	baseURL string
	log     *log.Helper
}

// NewAssetStore builds the object-store collaborator on local disk: bytes
// go under <dir>/<folder>/<uuid>.<ext> and the returned URL is served from
// the configured public base.
func NewAssetStore(c *conf.Assets, logger log.Logger) biz.AssetStore {
	return &assetStore{
		dir:     c.Dir,
		baseURL: strings.TrimSuffix(c.PublicBaseURL, "/"),
		log:     log.NewHelper(logger),
	}
}

func (s *assetStore) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.WithContext(ctx).Errorf("asset mkdir: %v", err)
		return "", biz.ErrUploadFailed
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		s.log.WithContext(ctx).Errorf("asset write: %v", err)
		return "", biz.ErrUploadFailed
	}
	return s.baseURL + "/" + folder + "/" + name, nil
}
