package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/uploads"
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func fileRequest(t *testing.T, field, name string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, _ = part.Write(body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func setup() (http.Handler, *testutil.MemStore) {
	store := testutil.NewMemStore("/files")
	logger := zap.NewNop()
	return uploads.Routes(uploads.NewHandler(store, 1024, uierrors.NewErrorLogger(logger), logger)), store
}

func signedIn(r *http.Request) *http.Request {
	return auth.WithTestUser(r, &auth.Principal{ID: primitive.NewObjectID().Hex(), Email: "u@example.com", Role: "user"})
}

func TestUpload_StoresFile(t *testing.T) {
	router, store := setup()

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, signedIn(fileRequest(t, "file", "notes.txt", []byte("dear diary"))))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Success  bool   `json:"success"`
		FilePath string `json:"filePath"`
		Data     struct {
			OriginalName string `json:"originalname"`
			Path         string `json:"path"`
			Size         int64  `json:"size"`
			MimeType     string `json:"mimetype"`
		} `json:"data"`
	}
	rec.DecodeJSON(t, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "notes.txt", resp.Data.OriginalName)
	assert.EqualValues(t, 10, resp.Data.Size)
	assert.True(t, strings.HasPrefix(resp.Data.Path, "uploads/"))
	assert.Equal(t, "/files/"+resp.Data.Path, resp.FilePath)
	assert.True(t, strings.HasPrefix(resp.Data.MimeType, "text/plain"))
	assert.True(t, store.Has(resp.Data.Path))
}

func TestUpload_Rejects(t *testing.T) {
	router, _ := setup()

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"anonymous", fileRequest(t, "file", "a.txt", []byte("x")), http.StatusUnauthorized},
		{"wrong field", signedIn(fileRequest(t, "image", "a.txt", []byte("x"))), http.StatusBadRequest},
		{"too large", signedIn(fileRequest(t, "file", "big.bin", bytes.Repeat([]byte("x"), 2048))), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, tt.req)
			rec.AssertStatus(t, tt.status)
		})
	}
}
