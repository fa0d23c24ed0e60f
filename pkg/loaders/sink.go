package loaders

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

// Sink writes rendered images and their stats to a blob bucket
type Sink struct {
	bucket *blob.Bucket
	url    string
}

// OpenSink opens the bucket at url, for example file:///tmp/out or mem://
func OpenSink(ctx context.Context, url string) (*Sink, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "opening output bucket %q", url)
	}
	return &Sink{bucket: bucket, url: url}, nil
}

// Close releases the bucket
func (s *Sink) Close() error {
	return s.bucket.Close()
}

// Bucket exposes the underlying bucket
func (s *Sink) Bucket() *blob.Bucket {
	return s.bucket
}

// WriteRender stores img as render_<id>.png and stats as render_<id>.json,
// returning the generated id.
func (s *Sink) WriteRender(ctx context.Context, img image.Image, stats any) (string, error) {
	id := uuid.NewString()
	base := "render_" + id

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "encoding png")
	}
	if err := s.bucket.WriteAll(ctx, base+".png", buf.Bytes(), &blob.WriterOptions{ContentType: "image/png"}); err != nil {
		return "", errors.Wrapf(err, "writing %s.png to %s", base, s.url)
	}

	data, err := json.Marshal(stats, json.Deterministic(true))
	if err != nil {
		return "", errors.Wrap(err, "encoding stats")
	}
	if err := s.bucket.WriteAll(ctx, base+".json", data, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return "", errors.Wrapf(err, "writing %s.json to %s", base, s.url)
	}

	logger.Infof("wrote %s.png and %s.json to %s", base, base, s.url)
	return id, nil
}

// ReadStats decodes the stats written for id into out
func (s *Sink) ReadStats(ctx context.Context, id string, out any) error {
	data, err := s.bucket.ReadAll(ctx, "render_"+id+".json")
	if err != nil {
		return errors.Wrapf(err, "reading stats for %s", id)
	}
	return json.Unmarshal(data, out)
}
