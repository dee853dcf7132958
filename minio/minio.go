package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fspath"
	"github.com/jmgilman/go/treefs/minio/internal/errs"
	"github.com/jmgilman/go/treefs/minio/internal/pathutil"
)

const defaultMultipartThreshold = 5 * 1024 * 1024

// Backend implements core.Backend for MinIO/S3-compatible storage.
type Backend struct {
	client             *minio.Client
	bucket             string
	prefix             string // Optional prefix for all keys
	multipartThreshold int64  // Threshold for streaming uploads
}

// New creates a MinIO-backed backend.
// Returns error if configuration is invalid or the client cannot be created.
// The bucket is not contacted.
func New(cfg Config) (*Backend, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	threshold := cfg.MultipartThreshold
	if threshold <= 0 {
		threshold = defaultMultipartThreshold
	}

	return &Backend{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             pathutil.NormalizePrefix(cfg.Prefix),
		multipartThreshold: threshold,
	}, nil
}

// Ping checks that the bucket exists and is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	ok, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return errs.Translate(err)
	}
	if !ok {
		return fmt.Errorf("bucket %q: %w", b.bucket, fs.ErrNotExist)
	}
	return nil
}

// key maps a backend name to its object key.
func (b *Backend) key(name string) string {
	return pathutil.JoinPath(b.prefix, name)
}

// Stat returns a snapshot of the named node. An object at the key is a file;
// otherwise a marker object or any key under the prefix makes a directory.
func (b *Backend) Stat(ctx context.Context, name string) (core.Stat, error) {
	base := fspath.Base(fspath.Join("/", name))
	dir := core.Stat{Name: base, Mode: fs.ModeDir | 0o755}

	key := b.key(name)
	if key == "" {
		return dir, nil
	}

	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return core.Stat{Name: base, Size: info.Size, Mode: 0o644, ModTime: info.LastModified}, nil
	}
	if err = errs.Translate(err); !core.IsNotExist(err) {
		return core.Stat{}, errs.PathError("stat", name, err)
	}

	marker, err := b.client.StatObject(ctx, b.bucket, pathutil.DirKey(key), minio.StatObjectOptions{})
	if err == nil {
		dir.ModTime = marker.LastModified
		return dir, nil
	}
	if err = errs.Translate(err); !core.IsNotExist(err) {
		return core.Stat{}, errs.PathError("stat", name, err)
	}

	found, err := b.hasEntries(ctx, pathutil.DirKey(key))
	if err != nil {
		return core.Stat{}, errs.PathError("stat", name, err)
	}
	if !found {
		return core.Stat{}, errs.PathError("stat", name, fs.ErrNotExist)
	}
	return dir, nil
}

// hasEntries reports whether any object other than the marker of dirKey
// exists under dirKey.
func (b *Backend) hasEntries(ctx context.Context, dirKey string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    dirKey,
		Recursive: false,
	}) {
		if object.Err != nil {
			return false, errs.Translate(object.Err)
		}
		if object.Key != dirKey {
			return true, nil
		}
	}
	return false, nil
}

// List returns the sorted entry names of the named directory.
func (b *Backend) List(ctx context.Context, name string) ([]string, error) {
	st, err := b.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	if !st.IsDirectory() {
		return nil, errs.PathError("readdir", name, core.ErrNotDirectory)
	}

	dirKey := pathutil.DirKey(b.key(name))
	var names []string
	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    dirKey,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, errs.PathError("readdir", name, errs.Translate(object.Err))
		}
		entry, _ := pathutil.EntryName(dirKey, object.Key)
		if entry == "" || slices.Contains(names, entry) {
			continue
		}
		names = append(names, entry)
	}

	slices.Sort(names)
	return names, nil
}

// Open opens the named object.
// Reads stream the object. Writes buffer until the multipart threshold and
// then stream; content is committed by Close. O_APPEND downloads the current
// object first. O_RDWR is not supported.
func (b *Backend) Open(ctx context.Context, name string, flag int) (core.File, error) {
	if flag&os.O_RDWR != 0 {
		return nil, errs.PathErrorf("open", name, "%w: O_RDWR not supported in S3", core.ErrUnsupported)
	}

	st, err := b.Stat(ctx, name)
	exists := err == nil
	if err != nil && !core.IsNotExist(err) {
		return nil, err
	}
	if exists && st.IsDirectory() {
		return nil, errs.PathError("open", name, core.ErrIsDirectory)
	}

	key := b.key(name)
	if !core.IsWriteFlag(flag) {
		if !exists {
			return nil, errs.PathError("open", name, fs.ErrNotExist)
		}
		return newStreamingFile(ctx, b, key, name)
	}

	switch {
	case exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, errs.PathError("open", name, fs.ErrExist)
	case !exists && flag&os.O_CREATE == 0:
		return nil, errs.PathError("open", name, fs.ErrNotExist)
	}

	if !exists {
		shadowed, err := b.fileAncestor(ctx, name)
		if err != nil {
			return nil, err
		}
		if shadowed {
			return nil, errs.PathError("open", name, core.ErrNotDirectory)
		}
	}

	f := newFileWrite(b, key, name)
	if exists && flag&os.O_APPEND != 0 {
		if err := b.download(ctx, key, f.buffer); err != nil {
			return nil, errs.PathError("open", name, err)
		}
		f.bytesWritten = int64(f.buffer.Len())
	}
	return f, nil
}

// fileAncestor reports whether the nearest existing ancestor of name is a
// file object. Keys below a file would be unreachable by listing.
func (b *Backend) fileAncestor(ctx context.Context, name string) (bool, error) {
	for dir := fspath.Dir(fspath.Join("/", name)); dir != "/"; dir = fspath.Dir(dir) {
		st, err := b.Stat(ctx, dir)
		switch {
		case err == nil:
			return !st.IsDirectory(), nil
		case core.IsNotExist(err):
		default:
			return false, err
		}
	}
	return false, nil
}

// download copies the object at key into w.
func (b *Backend) download(ctx context.Context, key string, w io.Writer) error {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return errs.Translate(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	if _, err := io.Copy(w, obj); err != nil {
		return errs.Translate(err)
	}
	return nil
}

// MakeDirectory writes a directory marker object. The parent must exist.
func (b *Backend) MakeDirectory(ctx context.Context, name string, _ fs.FileMode) error {
	if _, err := b.Stat(ctx, name); err == nil {
		return errs.PathError("mkdir", name, fs.ErrExist)
	} else if !core.IsNotExist(err) {
		return err
	}

	if parent := fspath.Dir(fspath.Join("/", name)); parent != "/" {
		st, err := b.Stat(ctx, parent)
		if err != nil {
			return errs.PathError("mkdir", name, err)
		}
		if !st.IsDirectory() {
			return errs.PathError("mkdir", name, core.ErrNotDirectory)
		}
	}

	_, err := b.client.PutObject(ctx, b.bucket, pathutil.DirKey(b.key(name)), bytes.NewReader(nil), 0,
		minio.PutObjectOptions{ContentType: "application/x-directory"})
	if err != nil {
		return errs.PathError("mkdir", name, errs.Translate(err))
	}
	return nil
}

// Remove removes the named object. Directories fail with core.ErrIsDirectory.
func (b *Backend) Remove(ctx context.Context, name string) error {
	st, err := b.Stat(ctx, name)
	if err != nil {
		return err
	}
	if st.IsDirectory() {
		return errs.PathError("remove", name, core.ErrIsDirectory)
	}

	err = b.client.RemoveObject(ctx, b.bucket, b.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		return errs.PathError("remove", name, errs.Translate(err))
	}
	return nil
}

// RemoveDirectory removes the marker of the named empty directory. The root
// of the backend cannot be removed.
func (b *Backend) RemoveDirectory(ctx context.Context, name string) error {
	if pathutil.Normalize(name) == "." {
		return errs.PathError("rmdir", name, fs.ErrPermission)
	}

	st, err := b.Stat(ctx, name)
	if err != nil {
		return err
	}
	if !st.IsDirectory() {
		return errs.PathError("rmdir", name, core.ErrNotDirectory)
	}

	dirKey := pathutil.DirKey(b.key(name))
	found, err := b.hasEntries(ctx, dirKey)
	if err != nil {
		return errs.PathError("rmdir", name, err)
	}
	if found {
		return errs.PathError("rmdir", name, core.ErrNotEmpty)
	}

	err = b.client.RemoveObject(ctx, b.bucket, dirKey, minio.RemoveObjectOptions{})
	if err != nil {
		return errs.PathError("rmdir", name, errs.Translate(err))
	}
	return nil
}

// Chroot returns a backend whose keys are prefixed by dir. The node must
// exist.
func (b *Backend) Chroot(ctx context.Context, dir string) (core.Backend, error) {
	if _, err := b.Stat(ctx, dir); err != nil {
		return nil, err
	}

	return &Backend{
		client:             b.client,
		bucket:             b.bucket,
		prefix:             b.key(dir),
		multipartThreshold: b.multipartThreshold,
	}, nil
}

// Type returns FSTypeRemote.
func (b *Backend) Type() core.FSType {
	return core.FSTypeRemote
}

// Compile-time interface check.
var _ core.Backend = (*Backend)(nil)
