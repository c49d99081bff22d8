package mongodb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlobStore keeps uploaded event images in a GridFS bucket
type BlobStore struct {
	bucket        *gridfs.Bucket
	publicBaseURL string
}

// NewBlobStore opens the named GridFS bucket. Public URLs are publicBaseURL
// joined with the stored path.
func NewBlobStore(db *mongo.Database, bucketName, publicBaseURL string) (*BlobStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}
	return &BlobStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Upload stores data under path and returns its public URL
func (s *BlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if _, err := s.bucket.UploadFromStream(path, bytes.NewReader(data), opts); err != nil {
		return "", err
	}
	return s.publicBaseURL + "/" + strings.TrimPrefix(path, "/"), nil
}

// Download writes the newest file stored under path to w and returns its content type
func (s *BlobStore) Download(ctx context.Context, path string, w io.Writer) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return "", err
		}
	}
	stream, err := s.bucket.OpenDownloadStreamByName(path)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return "", repositories.ErrNotFound
		}
		return "", err
	}
	defer stream.Close()

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && v != "" {
			contentType = v
		}
	}
	if _, err := io.Copy(w, stream); err != nil {
		return "", err
	}
	return contentType, nil
}
