package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const schemeGCS = "gcs"

type GCS struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

// NewGCS memakai kredensial JSON jika diberikan, selain itu Application Default Credentials.
func NewGCS(ctx context.Context, bucket, credentialsJSON string) (*GCS, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client, bucket: bucket, now: time.Now}, nil
}

func (g *GCS) Store(ctx context.Context, folder string, data []byte, contentType string) (Object, error) {
	name := objectName(folder, contentType, g.now())

	wc := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return Object{}, err
	}
	if err := wc.Close(); err != nil {
		return Object{}, err
	}

	return Object{
		URL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name),
		Ref: schemeGCS + ":" + name,
	}, nil
}

func (g *GCS) Delete(ctx context.Context, ref string) error {
	scheme, name, err := splitRef(ref)
	if err != nil {
		return err
	}
	if scheme != schemeGCS {
		return fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}
	err = g.client.Bucket(g.bucket).Object(name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Close() error {
	return g.client.Close()
}
