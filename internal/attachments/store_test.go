package attachments

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxsaver/internal/logging"
)

func TestDecode_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("hello"),
		{0xff, 0xfe, 0xfd, 0x00, 0x01},
		bytes.Repeat([]byte{0xfb, 0xef}, 100),
	}
	for _, in := range inputs {
		padded := base64.URLEncoding.EncodeToString(in)
		raw := base64.RawURLEncoding.EncodeToString(in)

		got, err := Decode(padded)
		require.NoError(t, err)
		assert.Equal(t, len(in), len(got))
		assert.True(t, bytes.Equal(in, got))

		got, err = Decode(raw)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(in, got))
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("not base64 !!")
	assert.Error(t, err)
}

func TestStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads", "nested")
	s := &Store{Dir: dir}

	saved, err := s.Save("a.jpg", "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), saved.Path)
	assert.Equal(t, 5, saved.Size)

	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestStore_Overwrites(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}

	_, err := s.Save("a.jpg", base64.URLEncoding.EncodeToString([]byte("first")))
	require.NoError(t, err)
	_, err = s.Save("a.jpg", base64.URLEncoding.EncodeToString([]byte("second")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_DecodeError(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}

	_, err := s.Save("bad.png", "%%%")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "bad.png", decodeErr.Filename)

	_, statErr := os.Stat(filepath.Join(dir, "bad.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_CaptureRaw(t *testing.T) {
	dir := t.TempDir()
	captureDir := t.TempDir()
	s := &Store{Dir: dir, CaptureRaw: true, CaptureDir: captureDir}

	_, err := s.Save("a.jpg", "aGVsbG8=")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(captureDir, "a.jpg.base64"))
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", string(raw))
}

func TestStore_CaptureHappensBeforeDecode(t *testing.T) {
	captureDir := t.TempDir()
	s := &Store{Dir: t.TempDir(), CaptureRaw: true, CaptureDir: captureDir}

	_, err := s.Save("bad.png", "%%%")
	require.Error(t, err)

	raw, err := os.ReadFile(filepath.Join(captureDir, "bad.png.base64"))
	require.NoError(t, err)
	assert.Equal(t, "%%%", string(raw))
}

func TestStore_Filenames(t *testing.T) {
	t.Run("sanitized by default", func(t *testing.T) {
		var buf bytes.Buffer
		dir := t.TempDir()
		s := &Store{Dir: dir, Logger: logging.New(&buf, false)}

		saved, err := s.Save("../escape.png", "aGk")
		require.NoError(t, err)
		assert.Equal(t, "__escape.png", saved.Filename)
		assert.Equal(t, filepath.Join(dir, "__escape.png"), saved.Path)
		assert.Contains(t, buf.String(), "rewrote unsafe attachment filename")
	})

	t.Run("kept when unsafe names are allowed", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "downloads")
		s := &Store{Dir: dir, AllowUnsafe: true}

		saved, err := s.Save("../escape.png", "aGk")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "escape.png"), saved.Path)
	})
}

func TestStore_Prepare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s := &Store{Dir: dir}

	require.NoError(t, s.Prepare())
	require.NoError(t, s.Prepare())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_PrepareFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := &Store{Dir: filepath.Join(blocker, "sub")}
	err := s.Prepare()
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)

	_, err = s.Save("a.jpg", "aGk")
	require.ErrorAs(t, err, &fsErr)
}
