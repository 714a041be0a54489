package storage

import (
	"testing"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

func TestS3URLs(t *testing.T) {
	s := NewS3(config.S3Config{Bucket: "photos", Region: "us-east-1", AccessKey: "a", SecretKey: "b"})
	if got := s.URL("barbers/1/x.webp"); got != "https://photos.s3.us-east-1.amazonaws.com/barbers/1/x.webp" {
		t.Fatalf("unexpected url %s", got)
	}

	s = NewS3(config.S3Config{Bucket: "photos", Region: "auto", AccessKey: "a", SecretKey: "b", Endpoint: "http://minio:9000", PublicURL: "https://cdn.test/"})
	url := s.URL("barbers/1/x.webp")
	if url != "https://cdn.test/barbers/1/x.webp" {
		t.Fatalf("unexpected public url %s", url)
	}
	if key, ok := s.KeyFromURL(url); !ok || key != "barbers/1/x.webp" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}
	if _, ok := s.KeyFromURL("https://elsewhere/x"); ok {
		t.Fatalf("foreign url must not resolve")
	}
}
