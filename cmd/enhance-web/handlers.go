package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-enhancer/internal/enhance"
	"github.com/fpang/image-enhancer/internal/session"
	"github.com/fpang/image-enhancer/internal/stats"
)

// previewJPEGQuality is used when re-encoding preview thumbnails for
// the before/after panels. Display only; downloads use the payload from
// the committed run.
const previewJPEGQuality = 80

// DownloadFilename is the fixed name offered for the enhanced result.
const DownloadFilename = "enhanced-image.jpg"

// sessionResponse is the JSON shape shared by the create and stats
// endpoints. Enhanced is null until a run has committed.
type sessionResponse struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Params     enhance.Params    `json:"params"`
	Original   stats.ImageStats  `json:"original"`
	Enhanced   *stats.ImageStats `json:"enhanced"`
	Generation uint64            `json:"generation"`
}

func makeSessionResponse(sess *session.Session) sessionResponse {
	snap := sess.Snapshot()
	resp := sessionResponse{
		ID:         sess.ID,
		Filename:   snap.Source.Name,
		Params:     snap.Params,
		Original:   snap.SourceStats,
		Generation: snap.Generation,
	}
	if snap.HasEnhanced() {
		st := snap.EnhancedStats
		resp.Enhanced = &st
	}
	return resp
}

// POST /api/session
// Multipart upload with an "image" part. Validates the declared content
// type, decodes the payload, creates a session, and runs the pipeline
// once with default parameters (the transform runs on load, not only on
// slider changes).
func handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpError(w, http.StatusBadRequest, "multipart field 'image' is required")
		return
	}
	defer file.Close()

	// The only validation gate: the declared type must be an image type.
	if err := validateUploadType(header.Header.Get("Content-Type")); err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Upload rejected")
		httpError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httpError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	src, err := enhance.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Upload failed to decode")
		httpError(w, http.StatusUnprocessableEntity, "image could not be decoded")
		return
	}
	src.Name = sanitizeFilename(header.Filename)

	sess, err := store.Create(src, src.Stats())
	if err != nil {
		if errors.Is(err, session.ErrStoreFull) {
			httpError(w, http.StatusServiceUnavailable, "too many active sessions, close one and retry")
			return
		}
		httpError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	// Initial run with default slider positions. A failure here is
	// surfaced as a notice by the frontend; the session still exists
	// with its original image.
	runEnhancement(sess, enhance.DefaultParams())

	respondJSON(w, http.StatusOK, makeSessionResponse(sess))
}

// runEnhancement executes one synchronous pipeline pass for a session
// under the cancel-stale policy and reports whether its result was
// committed.
func runEnhancement(sess *session.Session, p enhance.Params) (committed bool, err error) {
	token, src := sess.Begin(p)
	res, err := enhance.Run(src, p)
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("Enhancement run failed, previous output kept")
		return false, err
	}
	return sess.Commit(token, res), nil
}

// handleSessionRoutes dispatches /api/session/{id}[/{action}].
func handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/session/")
	parts := strings.SplitN(rest, "/", 2)

	id := parts[0]
	if err := validateSessionID(id); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	// Session delete needs no lookup error for idempotency.
	if action == "" && r.Method == http.MethodDelete {
		store.Delete(id)
		respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
		return
	}

	sess, err := store.Get(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}

	switch action {
	case "enhance":
		handleEnhance(w, r, sess)
	case "stats":
		handleStats(w, r, sess)
	case "original":
		handleOriginal(w, r, sess)
	case "enhanced":
		handleEnhanced(w, r, sess)
	case "download":
		handleDownload(w, r, sess)
	default:
		httpError(w, http.StatusNotFound, "unknown endpoint")
	}
}

// POST /api/session/{id}/enhance
// Body: {"brightness": 120, "contrast": 90, "quality": 85, "targetDpi": 300}
// Runs the pipeline synchronously with the new parameters. If a later
// request began while this one was computing, the result is discarded
// and the response is flagged stale.
func handleEnhance(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var p enhance.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	committed, err := runEnhancement(sess, p)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "enhancement failed, previous result kept")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stale":   !committed,
		"session": makeSessionResponse(sess),
	})
}

// GET /api/session/{id}/stats
func handleStats(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, makeSessionResponse(sess))
}

// GET /api/session/{id}/original[?thumb=N]
// Serves the original payload, or a downscaled JPEG preview when thumb
// is given.
func handleOriginal(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := sess.Snapshot()

	maxDim, wantThumb, err := thumbParam(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if wantThumb {
		servePreview(w, snap.Source.Image, maxDim)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(snap.Source.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Source.Data)))
	w.Write(snap.Source.Data)
}

// GET /api/session/{id}/enhanced[?thumb=N]
func handleEnhanced(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := sess.Snapshot()
	if !snap.HasEnhanced() {
		httpError(w, http.StatusNotFound, "no enhanced output yet")
		return
	}

	// The enhanced payload changes with every committed run.
	w.Header().Set("Cache-Control", "no-store")

	maxDim, wantThumb, err := thumbParam(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if wantThumb {
		img, err := jpeg.Decode(bytes.NewReader(snap.Enhanced))
		if err != nil {
			log.Error().Err(err).Str("session", sess.ID).Msg("Failed to decode enhanced payload for preview")
			httpError(w, http.StatusInternalServerError, "preview generation failed")
			return
		}
		servePreview(w, img, maxDim)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Enhanced)))
	w.Write(snap.Enhanced)
}

// GET /api/session/{id}/download
// The enhanced JPEG with the fixed download filename.
func handleDownload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := sess.Snapshot()
	if !snap.HasEnhanced() {
		httpError(w, http.StatusNotFound, "no enhanced output yet")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Enhanced)))
	w.Write(snap.Enhanced)
}

// thumbParam parses the optional thumb query parameter. requested is
// false when the parameter is absent.
func thumbParam(r *http.Request) (maxDim int, requested bool, err error) {
	raw := r.URL.Query().Get("thumb")
	if raw == "" {
		return 0, false, nil
	}
	maxDim, convErr := strconv.Atoi(raw)
	if convErr != nil || maxDim < 16 || maxDim > enhance.DefaultPreviewMaxDimension {
		return 0, true, fmt.Errorf("thumb must be an integer between 16 and %d", enhance.DefaultPreviewMaxDimension)
	}
	return maxDim, true, nil
}

// servePreview writes a downscaled JPEG preview of img.
func servePreview(w http.ResponseWriter, img image.Image, maxDim int) {
	preview := enhance.Thumbnail(img, maxDim)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, preview, &jpeg.Options{Quality: previewJPEGQuality}); err != nil {
		log.Error().Err(err).Msg("Failed to encode preview")
		httpError(w, http.StatusInternalServerError, "preview generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// contentTypeFor maps a decoder format name to a MIME type.
func contentTypeFor(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
