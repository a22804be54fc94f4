package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"io"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
)

// fakeS3 serves objects from memory. ListObjectsV2 returns one key per page
// to exercise pagination.
type fakeS3 struct {
	objects map[string]string
	gets    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.gets = append(f.gets, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		LastModified:  &modified,
	}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	seen := map[string]bool{}
	var items []string
	for key := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		if !seen[rest] {
			seen[rest] = true
			items = append(items, rest)
		}
	}
	sort.Strings(items)

	start := 0
	if in.ContinuationToken != nil {
		for i, item := range items {
			if item == *in.ContinuationToken {
				start = i
			}
		}
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if start < len(items) {
		item := items[start]
		if strings.HasSuffix(item, "/") {
			out.CommonPrefixes = []types.CommonPrefix{{Prefix: aws.String(prefix + item)}}
		} else {
			out.Contents = []types.Object{{
				Key:  aws.String(prefix + item),
				Size: aws.Int64(int64(len(f.objects[prefix+item]))),
			}}
		}
		if start+1 < len(items) {
			out.IsTruncated = aws.Bool(true)
			out.NextContinuationToken = aws.String(items[start+1])
		}
	}
	return out, nil
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{
		"site/layout.html":         `<div>{{template "partials/card.html" .}}</div>`,
		"site/partials/card.html":  `<p>{{.name}}</p>`,
		"site/partials/title.html": `<h1></h1>`,
		"other/layout.html":        `<span></span>`,
	}}
}

func TestS3Loader_Open(t *testing.T) {
	client := newFakeS3()
	loader := NewS3Loader(client, "bucket", "/site/")

	data, err := fs.ReadFile(loader, "partials/card.html")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `<p>{{.name}}</p>` {
		t.Errorf("ReadFile() = %q", data)
	}
	if diff := cmp.Diff([]string{"site/partials/card.html"}, client.gets); diff != "" {
		t.Errorf("GetObject keys (-want +got):\n%s", diff)
	}

	info, err := fs.Stat(loader, "layout.html")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name() != "layout.html" || info.IsDir() || info.ModTime().Year() != 2024 {
		t.Errorf("Stat() = %+v", info)
	}

	if _, err := loader.Open("missing.html"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want fs.ErrNotExist", err)
	}
	if _, err := loader.Open("../x"); !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("Open(../x) error = %v, want fs.ErrInvalid", err)
	}
}

func TestS3Loader_ReadDir(t *testing.T) {
	loader := NewS3Loader(newFakeS3(), "bucket", "site")

	entries, err := fs.ReadDir(loader, ".")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		got = append(got, name)
	}
	if diff := cmp.Diff([]string{"layout.html", "partials/"}, got); diff != "" {
		t.Errorf("ReadDir(.) (-want +got):\n%s", diff)
	}

	matches, err := fs.Glob(loader, "partials/*.html")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"partials/card.html", "partials/title.html"}, matches); diff != "" {
		t.Errorf("Glob() (-want +got):\n%s", diff)
	}

	if _, err := fs.ReadDir(loader, "nothing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDir(nothing) error = %v", err)
	}
}

func TestS3Loader_Environment(t *testing.T) {
	env := NewEnvironment(NewS3Loader(newFakeS3(), "bucket", "site"), WithPartials("partials/*.html"))
	tmpl, err := env.Lookup("missing.html", "layout.html")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"name": "s3"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "<div><p>s3</p></div>" {
		t.Errorf("got %q", got)
	}
}

func TestNewS3Client(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDTEMPLATES")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "token")

	ctx := context.Background()
	client, err := NewS3Client(ctx, S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", opts.Region)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" || !opts.UsePathStyle {
		t.Errorf("endpoint = %q, path style = %v", aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}
	creds, err := opts.Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if creds.AccessKeyID != "AKIDTEMPLATES" || creds.SessionToken != "token" {
		t.Errorf("credentials = %+v", creds)
	}

	client, err = NewS3Client(ctx, S3Config{})
	if err != nil {
		t.Fatal(err)
	}
	if opts := client.Options(); opts.Region != "us-east-1" || opts.BaseEndpoint != nil || opts.UsePathStyle {
		t.Errorf("defaults: region %q, endpoint %v, path style %v", opts.Region, opts.BaseEndpoint, opts.UsePathStyle)
	}
}
