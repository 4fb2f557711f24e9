package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/config"
)

func TestNewS3ArchiveValidation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     S3Config
		wantErr string
	}{
		{"missing_bucket", S3Config{AccessKey: "a", SecretKey: "s"}, "export bucket is required"},
		{"missing_access_key", S3Config{Bucket: "b", SecretKey: "s"}, "export access key is required"},
		{"missing_secret_key", S3Config{Bucket: "b", AccessKey: "a"}, "export secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Archive(ctx, tt.cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestS3ArchivePut(t *testing.T) {
	var gotMethod, gotPath, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	archive, err := NewS3Archive(context.Background(), S3Config{
		Bucket:       "exports-bucket",
		Endpoint:     server.URL,
		AccessKey:    "access",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	err = archive.Put(context.Background(), "exports/u1/report.csv", "text/csv", []byte("a,b"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/exports-bucket/exports/u1/report.csv", gotPath)
	assert.Equal(t, "text/csv", gotType)
	assert.Contains(t, gotBody, "a,b")
}

func TestExportKey(t *testing.T) {
	at := time.Date(2024, time.May, 20, 14, 30, 5, 0, time.FixedZone("WIB", 7*60*60))
	assert.Equal(t, "exports/user-1/20240520T073005Z-transactions.csv", ExportKey("user-1", at, "transactions.csv"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, ok := New(ctx, &config.Config{}, nil).(NopArchive)
	assert.True(t, ok)

	_, ok = New(ctx, &config.Config{ExportBucket: "b"}, nil).(NopArchive)
	assert.True(t, ok, "missing credentials disable the archive")

	_, ok = New(ctx, &config.Config{ExportBucket: "b", ExportAccessKey: "a", ExportSecretKey: "s", ExportEndpoint: "localhost:9000"}, nil).(*S3Archive)
	assert.True(t, ok)

	assert.NoError(t, NopArchive{}.Put(ctx, "k", "text/csv", nil))
}
