package upload

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/formkit/pkg/field"
)

// HeadObjectAPI is the part of *s3.Client the field uses.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

var _ HeadObjectAPI = (*s3.Client)(nil)

// Object describes the uploaded object found by the last validation.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Option configures a Field.
type Option func(*Field)

// WithPrefix sets the key prefix objects are looked up under.
func WithPrefix(prefix string) Option {
	return func(f *Field) {
		f.prefix = prefix
	}
}

// WithMaxSize rejects objects larger than n bytes. Zero means no limit.
func WithMaxSize(n int64) Option {
	return func(f *Field) {
		f.maxSize = n
	}
}

// WithContentTypes restricts the accepted content types.
func WithContentTypes(types ...string) Option {
	return func(f *Field) {
		f.contentTypes = append(f.contentTypes, types...)
	}
}

// Required makes an empty field fail with msg.
func Required(msg string) Option {
	return func(f *Field) {
		f.required = msg
	}
}

// Field is a form field holding the key of an uploaded S3 object. It
// implements field.Named, field.Valuer, field.Validator and field.Resetter.
type Field struct {
	name         string
	client       HeadObjectAPI
	bucket       string
	prefix       string
	maxSize      int64
	contentTypes []string
	required     string

	mu     sync.RWMutex
	key    string
	object *Object
}

// NewField creates an upload field named name checking objects in bucket.
func NewField(name string, client HeadObjectAPI, bucket string, opts ...Option) *Field {
	f := &Field{name: name, client: client, bucket: bucket}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) Name() string {
	return f.name
}

// Value returns the object key, without the prefix.
func (f *Field) Value() any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.key
}

// SetValue sets the object key. Non-string values are formatted.
func (f *Field) SetValue(v any) {
	key, ok := v.(string)
	if !ok && v != nil {
		key = fmt.Sprint(v)
	}

	f.mu.Lock()
	f.key = strings.TrimSpace(key)
	f.object = nil
	f.mu.Unlock()
}

// Object returns the object found by the last passing validation.
func (f *Field) Object() (Object, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.object == nil {
		return Object{}, false
	}
	return *f.object, true
}

// Validate looks the object up. A missing object, an oversized object and
// a disallowed content type are reported as field errors; any other S3
// failure is returned.
func (f *Field) Validate(ctx context.Context) (field.Report, error) {
	f.mu.RLock()
	key := f.key
	f.mu.RUnlock()

	if key == "" {
		if f.required != "" {
			return field.Report{Name: f.name, Errors: []field.ErrorDescriptor{
				{Message: f.required, Type: field.SeverityError, Rule: "required"},
			}}, nil
		}
		return field.Pass(f.name), nil
	}

	out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.prefix + key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return f.fail("exists", "The uploaded file could not be found"), nil
		}
		return field.Report{}, fmt.Errorf("upload: head %s/%s: %w", f.bucket, f.prefix+key, err)
	}

	obj := Object{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if f.maxSize > 0 && obj.Size > f.maxSize {
		return f.fail("max_size", fmt.Sprintf("File must be at most %d bytes", f.maxSize)), nil
	}
	if len(f.contentTypes) > 0 && !slices.Contains(f.contentTypes, obj.ContentType) {
		return f.fail("content_type", fmt.Sprintf("Files of type %q are not accepted", obj.ContentType)), nil
	}

	f.mu.Lock()
	if f.key == key {
		f.object = &obj
	}
	f.mu.Unlock()
	return field.Pass(f.name), nil
}

func (f *Field) fail(rule, msg string) field.Report {
	return field.Report{Name: f.name, Errors: []field.ErrorDescriptor{
		{Message: msg, Type: field.SeverityError, Rule: rule},
	}}
}

// ResetField clears the key. Uploaded objects are left in the bucket.
func (f *Field) ResetField() {
	f.mu.Lock()
	f.key = ""
	f.object = nil
	f.mu.Unlock()
}
