package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/minio/internal/errs"
)

// File is a write handle on a MinIO object. Small writes are buffered and
// uploaded by Close; once the buffer would exceed the multipart threshold the
// upload streams through a pipe.
type File struct {
	fs   *Backend
	key  string // Full S3 key (including prefix)
	name string // Original name provided to Open

	buffer       *bytes.Buffer  // Accumulates writes for small files
	pipeW        *io.PipeWriter // Streaming writer once threshold exceeded
	putRes       chan error     // Result from background PutObject when streaming
	bytesWritten int64
	closed       bool
}

// newFileWrite creates a File in write mode with an empty buffer.
func newFileWrite(b *Backend, key, name string) *File {
	return &File{
		fs:     b,
		key:    key,
		name:   name,
		buffer: new(bytes.Buffer),
	}
}

// Read is not supported on write handles.
func (f *File) Read(_ []byte) (int, error) {
	return 0, errs.PathError("read", f.name, fs.ErrInvalid)
}

// threshold returns the size at which writes switch to streaming.
func (f *File) threshold() int64 {
	if f.fs == nil || f.fs.multipartThreshold <= 0 {
		return defaultMultipartThreshold
	}
	return f.fs.multipartThreshold
}

// transitionToStreaming starts a background upload fed by a pipe, flushes
// the buffer into it and writes p.
// nolint:contextcheck // Background upload by design; io.Writer.Write cannot accept context
func (f *File) transitionToStreaming(p []byte) (int, error) {
	pr, pw := io.Pipe()
	f.pipeW = pw
	f.putRes = make(chan error, 1)

	go func() {
		_, err := f.fs.client.PutObject(
			context.Background(),
			f.fs.bucket,
			f.key,
			pr,
			-1,
			minio.PutObjectOptions{ContentType: "application/octet-stream"},
		)
		_ = pr.CloseWithError(err)
		f.putRes <- errs.Translate(err)
		close(f.putRes)
	}()

	if f.buffer.Len() > 0 {
		if _, err := f.pipeW.Write(f.buffer.Bytes()); err != nil {
			return 0, errs.PathError("write", f.name, err)
		}
	}
	f.buffer = nil

	n, err := f.pipeW.Write(p)
	f.bytesWritten += int64(n)
	if err != nil {
		return n, errs.PathError("write", f.name, err)
	}
	return n, nil
}

// Write appends p to the object content.
// nolint:contextcheck // io.Writer.Write signature cannot accept a context parameter
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errs.PathError("write", f.name, fs.ErrClosed)
	}

	if f.pipeW != nil {
		n, err := f.pipeW.Write(p)
		f.bytesWritten += int64(n)
		if err != nil {
			return n, errs.PathError("write", f.name, err)
		}
		return n, nil
	}

	// keep buffering while under the threshold, or when there is no client
	// to stream to (unit tests)
	if int64(f.buffer.Len()+len(p)) <= f.threshold() || f.fs == nil || f.fs.client == nil {
		n, _ := f.buffer.Write(p)
		f.bytesWritten += int64(n)
		return n, nil
	}

	return f.transitionToStreaming(p)
}

// Size returns the number of bytes the object will hold once committed.
func (f *File) Size() int64 {
	return f.bytesWritten
}

// Close commits the content. Closing twice fails with fs.ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return errs.PathError("close", f.name, fs.ErrClosed)
	}
	f.closed = true

	if f.pipeW != nil {
		_ = f.pipeW.Close()
		if err := <-f.putRes; err != nil {
			return errs.PathError("close", f.name, err)
		}
		return nil
	}
	if err := f.upload(context.Background()); err != nil {
		return errs.PathError("close", f.name, err)
	}
	return nil
}

// upload puts the buffered content as the object.
func (f *File) upload(ctx context.Context) error {
	if f.fs == nil || f.fs.client == nil {
		return errors.New("minio: no client configured")
	}
	_, err := f.fs.client.PutObject(
		ctx,
		f.fs.bucket,
		f.key,
		bytes.NewReader(f.buffer.Bytes()),
		int64(f.buffer.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	return errs.Translate(err)
}

// Name returns the name of the file as provided to Open.
func (f *File) Name() string {
	return f.name
}

// streamingFile provides streaming reads without buffering entire objects.
type streamingFile struct {
	fs     *Backend
	key    string
	name   string
	obj    *minio.Object
	size   int64
	offset int64 // Current read position for Seek
	closed bool
}

// newStreamingFile opens the object for streaming without downloading it.
func newStreamingFile(ctx context.Context, b *Backend, key, name string) (*streamingFile, error) {
	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, errs.PathError("open", name, errs.Translate(err))
	}

	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errs.PathError("open", name, errs.Translate(err))
	}

	return &streamingFile{
		fs:   b,
		key:  key,
		name: name,
		obj:  obj,
		size: info.Size,
	}, nil
}

// Read reads up to len(p) bytes into p from the streaming object.
func (f *streamingFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errs.PathError("read", f.name, fs.ErrClosed)
	}
	n, err := f.obj.Read(p)
	f.offset += int64(n)

	// only report EOF on a read that returned no data
	if n > 0 && errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

// Close closes the streaming file and releases resources.
func (f *streamingFile) Close() error {
	if f.closed {
		return errs.PathError("close", f.name, fs.ErrClosed)
	}
	f.closed = true
	return f.obj.Close()
}

// Name returns the name of the file.
func (f *streamingFile) Name() string {
	return f.name
}

// Write is not supported for read-only streaming files.
func (f *streamingFile) Write(_ []byte) (int, error) {
	return 0, errs.PathError("write", f.name, fs.ErrInvalid)
}

// Seek sets the read position for the next Read operation.
// It reopens the object with a range request starting at the new offset.
func (f *streamingFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, errs.PathError("seek", f.name, fs.ErrClosed)
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = f.offset + offset
	case io.SeekEnd:
		newOffset = f.size + offset
	default:
		return 0, errs.PathError("seek", f.name, fs.ErrInvalid)
	}

	if newOffset < 0 {
		return 0, errs.PathError("seek", f.name, fs.ErrInvalid)
	}
	if newOffset == f.offset {
		return newOffset, nil
	}

	_ = f.obj.Close()

	opts := minio.GetObjectOptions{}
	if newOffset > 0 {
		if err := opts.SetRange(newOffset, 0); err != nil {
			return 0, errs.PathError("seek", f.name, err)
		}
	}

	// nolint:contextcheck // io.Seeker cannot accept context; using background context
	obj, err := f.fs.client.GetObject(context.Background(), f.fs.bucket, f.key, opts)
	if err != nil {
		return 0, errs.PathError("seek", f.name, errs.Translate(err))
	}

	f.obj = obj
	f.offset = newOffset
	return newOffset, nil
}

// Compile-time interface checks.
var (
	_ core.File = (*File)(nil)

	_ core.File = (*streamingFile)(nil)
	_ io.Seeker = (*streamingFile)(nil)
)
