package infra

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"amazonia/internal/config"
)

func TestNewObjectStorage_DisabledWithoutBucket(t *testing.T) {
	s, err := NewObjectStorage(context.Background(), config.StorageConfig{Region: "us-east-1"})
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Error("storage should be nil without a bucket")
	}
}

func TestPresignPut_SignsLocally(t *testing.T) {
	s, err := NewObjectStorage(context.Background(), config.StorageConfig{
		Region:     "us-east-1",
		Bucket:     "amazonia-photos",
		Endpoint:   "http://localhost:9000",
		AccessKey:  "minio",
		SecretKey:  "minio-secret",
		PresignTTL: 15 * time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}

	up, err := s.PresignPut(context.Background(), "visits/v1/p1.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("PresignPut() error = %v", err)
	}
	if up.Method != "PUT" {
		t.Errorf("method = %q", up.Method)
	}
	u, err := url.Parse(up.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u.Path, "/amazonia-photos/visits/v1/p1.jpg") {
		t.Errorf("path = %q, want path-style bucket key", u.Path)
	}
	if u.Query().Get("X-Amz-Expires") != "900" {
		t.Errorf("X-Amz-Expires = %q", u.Query().Get("X-Amz-Expires"))
	}
}

func TestModels_CoversEveryTable(t *testing.T) {
	if got := len(Models()); got != 17 {
		t.Errorf("len(Models()) = %d, want 17", got)
	}
}
