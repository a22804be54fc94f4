package app

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the loader uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config configures an S3 client for NewS3Client.
type S3Config struct {
	Region string
	// Endpoint overrides the S3 endpoint, for S3-compatible stores such as
	// MinIO. Path-style addressing is used when set.
	Endpoint string
}

// NewS3Client creates an S3 client from the default AWS configuration
// chain: environment variables, shared config and credentials files, then
// SSO and instance or task roles. Region overrides the configured region.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Loader is a read-only fs.FS over the objects of an S3 bucket below a
// key prefix. Templates are small, so objects are read fully on Open.
type S3Loader struct {
	client  S3API
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3Loader creates a loader for bucket. prefix is joined in front of
// every name ("templates" and "templates/" are equivalent).
func NewS3Loader(client S3API, bucket, prefix string) *S3Loader {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Loader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: 30 * time.Second,
	}
}

func (l *S3Loader) key(name string) string {
	if name == "." {
		return l.prefix
	}
	return l.prefix + name
}

// Open implements fs.FS.
func (l *S3Loader) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		entries, err := l.ReadDir(name)
		if err != nil {
			return nil, err
		}
		return &s3Dir{info: dirInfo(name), entries: entries}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}

	info := fileInfo{name: path.Base(name), size: int64(len(data))}
	if out.LastModified != nil {
		info.modTime = *out.LastModified
	}
	return &s3File{info: info, r: bytes.NewReader(data)}, nil
}

// ReadDir implements fs.ReadDirFS, listing one level below name. It lets
// fs.Glob match partials in a bucket.
func (l *S3Loader) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	prefix := l.key(name)
	if name != "." {
		prefix += "/"
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(l.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var entries []fs.DirEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
		}
		for _, p := range page.CommonPrefixes {
			if p.Prefix == nil {
				continue
			}
			dir := strings.TrimSuffix(strings.TrimPrefix(*p.Prefix, prefix), "/")
			if dir != "" {
				entries = append(entries, fs.FileInfoToDirEntry(dirInfo(dir)))
			}
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			base := strings.TrimPrefix(*obj.Key, prefix)
			if base == "" || strings.Contains(base, "/") {
				continue
			}
			info := fileInfo{name: base}
			if obj.Size != nil {
				info.size = *obj.Size
			}
			if obj.LastModified != nil {
				info.modTime = *obj.LastModified
			}
			entries = append(entries, fs.FileInfoToDirEntry(info))
		}
	}
	if len(entries) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func dirInfo(name string) fileInfo { return fileInfo{name: path.Base(name), dir: true} }

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return fi.modTime }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() any           { return nil }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

type s3File struct {
	info fileInfo
	r    *bytes.Reader
}

func (f *s3File) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *s3File) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *s3File) Close() error               { return nil }

type s3Dir struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *s3Dir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *s3Dir) Close() error               { return nil }

func (d *s3Dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *s3Dir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
