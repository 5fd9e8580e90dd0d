package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StaticUploader は画像を外部ストレージへ送らず、配信ベースURL配下の
// 安定したURLに割り当てる。実ストレージ連携はこの型の差し替えで行う。
type StaticUploader struct {
	baseURL string
}

func NewStaticUploader(baseURL string) *StaticUploader {
	return &StaticUploader{baseURL: strings.TrimRight(baseURL, "/")}
}

func (u *StaticUploader) Upload(ctx context.Context, images []string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img == "" {
			continue
		}
		//すでにURLならそのまま使う
		if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
			urls = append(urls, img)
			continue
		}
		urls = append(urls, fmt.Sprintf("%s/media/%s", u.baseURL, uuid.NewString()))
	}
	return urls, nil
}
