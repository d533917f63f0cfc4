package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["resume"][0]
}

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, WithAllowedExtensions(".pdf"), WithMaxSize(1024))
	require.NoError(t, err)

	stored, err := ls.SaveFileWithPath(multipartHeader(t, "CV.PDF", []byte("%PDF-1.4")), "resumes")
	require.NoError(t, err)
	assert.Regexp(t, `^resumes/[0-9a-f-]{36}\.pdf$`, stored)

	content, err := os.ReadFile(ls.GetFullPath(stored))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, ls.DeleteFile(stored))
	_, err = os.Stat(ls.GetFullPath(stored))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, ls.DeleteFile(stored))
}

func TestSaveRejectsDisallowedFiles(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), WithAllowedExtensions(".pdf"), WithMaxSize(4))
	require.NoError(t, err)

	_, err = ls.SaveFileWithPath(multipartHeader(t, "run.exe", []byte("MZ")), "resumes")
	assert.ErrorIs(t, err, ErrFileRejected)

	_, err = ls.SaveFileWithPath(multipartHeader(t, "big.pdf", []byte("0123456789")), "resumes")
	assert.ErrorIs(t, err, ErrFileRejected)
}

func TestSaveNilHeader(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	stored, err := ls.SaveFileWithPath(nil, "resumes")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGetFullPathStaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "etc", "passwd"), ls.GetFullPath("../../etc/passwd"))
	assert.Empty(t, ls.GetFullPath(""))
}
