package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gyesanghoe/gyesanghoe/internal/blob"
	"github.com/gyesanghoe/gyesanghoe/internal/datasync"
	"github.com/gyesanghoe/gyesanghoe/internal/store"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

type PhotoHandler struct {
	blobs    *blob.Store
	photos   *store.MeetingPhotoStore
	meetings *store.MeetingStore
	syncer   *datasync.Syncer
	logger   *slog.Logger
}

func NewPhotoHandler(blobs *blob.Store, photos *store.MeetingPhotoStore, meetings *store.MeetingStore, syncer *datasync.Syncer, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{blobs: blobs, photos: photos, meetings: meetings, syncer: syncer, logger: logger}
}

func readMultipartFile(fh *multipart.FileHeader) (blob.File, error) {
	f, err := fh.Open()
	if err != nil {
		return blob.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return blob.File{}, err
	}
	return blob.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

type uploadMemberPhotoResponse struct {
	URL string `json:"url"`
}

// UploadMemberPhoto stores one profile photo and returns its public
// URL. The caller attaches the URL to the member on the next save.
func (h *PhotoHandler) UploadMemberPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	f, fh, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	url, err := h.blobs.Upload(r.Context(), blob.BucketMemberPhotos, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, blob.ErrFileTooLarge):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, blob.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "photo storage is not configured")
		default:
			h.logger.Error("upload member photo", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to upload photo")
		}
		return
	}

	writeJSON(w, http.StatusCreated, uploadMemberPhotoResponse{URL: url})
}

type photoUploadResult struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

type uploadMeetingPhotosResponse struct {
	Uploaded int                 `json:"uploaded"`
	Failed   int                 `json:"failed"`
	Results  []photoUploadResult `json:"results"`
}

// UploadMeetingPhotos accepts any number of files and reports a result
// per file. Successful uploads are attached to the meeting; a failed
// file is reported by name in the response instead of being dropped.
func (h *PhotoHandler) UploadMeetingPhotos(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	ctx := r.Context()
	meeting, err := h.meetings.GetByID(ctx, meetingID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "at least one photo is required")
		return
	}

	files := make([]blob.File, 0, len(headers))
	resp := uploadMeetingPhotosResponse{Results: make([]photoUploadResult, 0, len(headers))}
	for _, fh := range headers {
		f, err := readMultipartFile(fh)
		if err != nil {
			resp.Results = append(resp.Results, photoUploadResult{Name: fh.Filename, Error: "failed to read file"})
			resp.Failed++
			continue
		}
		files = append(files, f)
	}

	for _, res := range h.blobs.UploadBatch(ctx, blob.BucketMeetingPhotos, files) {
		if res.Err != nil {
			h.logger.Warn("upload meeting photo", "file", res.Name, "error", res.Err)
			resp.Results = append(resp.Results, photoUploadResult{Name: res.Name, Error: res.Err.Error()})
			resp.Failed++
			continue
		}
		if _, err := h.photos.Create(ctx, meetingID, res.URL); err != nil {
			h.logger.Error("record meeting photo", "file", res.Name, "error", err)
			resp.Results = append(resp.Results, photoUploadResult{Name: res.Name, Error: "uploaded but failed to record"})
			resp.Failed++
			continue
		}
		resp.Results = append(resp.Results, photoUploadResult{Name: res.Name, URL: res.URL})
		resp.Uploaded++
	}

	if resp.Uploaded > 0 {
		if err := h.syncer.LoadMeetings(ctx); err != nil {
			h.logger.Error("reload meetings", "error", err)
		}
	}

	status := http.StatusCreated
	if resp.Uploaded == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

// DeletePhoto removes a meeting photo record. The stored object is left
// in place; buckets are pruned out of band.
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx := r.Context()
	existing, err := h.photos.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	if err := h.photos.Delete(ctx, id); err != nil {
		h.logger.Error("delete photo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete photo")
		return
	}

	if err := h.syncer.LoadMeetings(ctx); err != nil {
		h.logger.Error("reload meetings", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
