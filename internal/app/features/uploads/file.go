// internal/app/features/uploads/file.go
package uploads

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/fileupload"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const uploadDir = "uploads"

type fileData struct {
	OriginalName string `json:"originalname"`
	FileName     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	URL          string `json:"url"`
}

type uploadResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	FilePath string   `json:"filePath"`
	Data     fileData `json:"data"`
}

// HandleUpload handles POST /uploads/file (multipart "file").
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	hdr, err := fileupload.FormFile(w, r, "file", h.MaxBytes)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := fileupload.Save(ctx, h.Storage, uploadDir, hdr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store upload failed", err)
		return
	}

	uid, _ := authz.UserID(r)
	h.Log.Info("file uploaded",
		zap.String("user_id", uid.Hex()),
		zap.String("path", info.Path),
		zap.Int64("size", info.Size),
		zap.String("content_type", info.ContentType))

	jsonio.OK(w, uploadResponse{
		Success:  true,
		Message:  "File uploaded successfully",
		FilePath: info.URL,
		Data: fileData{
			OriginalName: info.OriginalName,
			FileName:     info.FileName,
			Path:         info.Path,
			Size:         info.Size,
			MimeType:     info.ContentType,
			URL:          info.URL,
		},
	})
}
