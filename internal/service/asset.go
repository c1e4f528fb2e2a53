package service

import (
	"context"

	"feedback-service/internal/biz"
)

// Folders the asset store accepts; anything else is rejected before the
// store is touched.
var assetFolders = map[string]bool{
	"logos":       true,
	"mood-images": true,
}

type AssetService struct {
	store biz.AssetStore
}

func NewAssetService(store biz.AssetStore) *AssetService {
	return &AssetService{store: store}
}

type UploadReply struct {
	URL string `json:"url"`
}

func (s *AssetService) Upload(ctx context.Context, sess *biz.Session, folder, filename string, data []byte) (*UploadReply, error) {
	if sess == nil {
		return nil, biz.ErrAuthRequired
	}
	if !assetFolders[folder] {
		folder = "logos"
	}
	url, err := s.store.Upload(ctx, folder, filename, data)
	if err != nil {
		return nil, err
	}
	return &UploadReply{URL: url}, nil
}
