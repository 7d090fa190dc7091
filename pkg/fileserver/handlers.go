package fileserver

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/filestore/pkg/storage"
)

// handlePut stores a multipart file under an auto-generated key.
// Form fields: file (required), prefix, tenant.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "missing file field")
		return
	}
	f.Close() // PutFile reopens from the header

	opts := []storage.Option{}
	if prefix := r.FormValue("prefix"); prefix != "" {
		opts = append(opts, storage.WithPrefix(prefix))
	}
	if tenant := r.FormValue("tenant"); tenant != "" {
		opts = append(opts, storage.WithTenant(tenant))
	}
	if len(s.rules) > 0 {
		opts = append(opts, storage.WithValidation(s.rules...))
	}

	info, err := storage.PutFile(r.Context(), s.store, fh, opts...)
	if err != nil {
		renderStorageError(w, err)
		return
	}

	s.log.InfoContext(r.Context(), "file stored",
		slog.String("key", info.Key),
		slog.Int64("size", info.Size),
	)
	writeJSON(w, http.StatusCreated, info)
}

// handleUpload stores a multipart file through the upload field, which
// delegates naming to the backend. Responds with the final stored name.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "missing file field")
		return
	}
	defer f.Close()

	if len(s.rules) > 0 {
		mimeType := storage.DetectMIME(fh)
		if err := storage.ValidateFile(fh, mimeType, s.rules...); err != nil {
			renderStorageError(w, err)
			return
		}
	}

	name, err := s.field.Save(r.Context(), nil, fh.Filename, f, fh.Size)
	if err != nil {
		renderStorageError(w, err)
		return
	}

	s.log.InfoContext(r.Context(), "file saved", slog.String("name", name))
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

// handleGet streams a stored file.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	rc, err := s.store.Get(r.Context(), key)
	if err != nil {
		renderStorageError(w, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", storage.MIMEOctetStream)
	}

	if _, err := io.Copy(w, rc); err != nil {
		s.log.ErrorContext(r.Context(), "response write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// handleDelete removes a stored file.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	if err := s.store.Delete(r.Context(), key); err != nil {
		renderStorageError(w, err)
		return
	}

	s.log.InfoContext(r.Context(), "file deleted", slog.String("key", key))
	w.WriteHeader(http.StatusNoContent)
}

// handleList returns metadata for keys under an optional prefix.
// Requires the backend to implement storage.Lister.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(storage.Lister)
	if !ok {
		writeError(w, http.StatusNotImplemented, "not_supported", "backend does not support listing")
		return
	}

	infos, err := lister.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		renderStorageError(w, err)
		return
	}
	if infos == nil {
		infos = []storage.FileInfo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": infos})
}

// handleURL resolves the public or signed URL for a key.
// Query parameters: signed (bool), expiry (seconds), download (filename).
func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	var opts []storage.URLOption
	if r.URL.Query().Get("signed") == "true" {
		var expiry time.Duration
		if raw := r.URL.Query().Get("expiry"); raw != "" {
			secs, err := strconv.Atoi(raw)
			if err != nil || secs <= 0 {
				writeError(w, http.StatusBadRequest, "bad_request", "invalid expiry")
				return
			}
			expiry = time.Duration(secs) * time.Second
		}
		opts = append(opts, storage.WithSigned(expiry))
	}
	if name := r.URL.Query().Get("download"); name != "" {
		opts = append(opts, storage.WithDownload(name))
	}

	u, err := s.store.URL(r.Context(), key, opts...)
	if err != nil {
		renderStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}
