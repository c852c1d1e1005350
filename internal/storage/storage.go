// Package storage keeps cached audio bytes on local disk or in an
// S3-compatible bucket (DigitalOcean Spaces).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// ErrNotExist is returned by Open for keys never stored.
var ErrNotExist = errors.New("storage: object does not exist")

type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type LocalStorage struct {
	dir string
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
	prefix string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func NewSpacesStorage(endpoint, region, bucket, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		prefix: "audio-cache",
	}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_./-]`)

// KeyFor turns an audio URL into a storage key: host and path, with every
// character outside [a-zA-Z0-9_./-] replaced and dot segments removed.
func KeyFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("storage: url %q has no host", rawURL)
	}
	clean := path.Clean("/" + u.Path)
	key := unsafeKeyChars.ReplaceAllString(u.Host+clean, "_")
	key = strings.ReplaceAll(key, "..", "_")
	return key, nil
}

func ContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

func (ls *LocalStorage) path(key string) string {
	return filepath.Join(ls.dir, filepath.FromSlash(key))
}

// Put writes atomically through a temp file so readers never see a
// partial object.
func (ls *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	dst := ls.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".part-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move cache file: %w", err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("[storage] cached locally")
	return nil
}

func (ls *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(ls.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return f, err
}

func (ss *SpacesStorage) objectKey(key string) string {
	return ss.prefix + "/" + key
}

func (ss *SpacesStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := ss.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(ss.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("[storage] failed to upload to Spaces")
		return fmt.Errorf("failed to upload to Spaces: %w", err)
	}
	return nil
}

func (ss *SpacesStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(ss.objectKey(key)),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read from Spaces: %w", err)
	}
	return out.Body, nil
}
