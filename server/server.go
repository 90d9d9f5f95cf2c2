package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/examforge-project/examforge/exam"
	"github.com/examforge-project/examforge/imaging"
	"github.com/examforge-project/examforge/layout"
	"github.com/examforge-project/examforge/ocr"
	"github.com/examforge-project/examforge/pdf"
	"github.com/examforge-project/examforge/pkg/utils"
	"github.com/examforge-project/examforge/render"
	"github.com/examforge-project/examforge/storage"
)

// Server exposes the stitch and exam endpoints. The OCR provider and the
// optional archive store are injected; handlers hold no other state.
type Server struct {
	ocrClient     ocr.Client
	renderer      *render.Renderer
	archive       storage.Client
	archiveBucket string
}

func New(ocrClient ocr.Client, renderer *render.Renderer, archive storage.Client, archiveBucket string) *Server {
	return &Server{
		ocrClient:     ocrClient,
		renderer:      renderer,
		archive:       archive,
		archiveBucket: archiveBucket,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stitch", s.handleStitch)
	mux.HandleFunc("/api/stitch/pdf", s.handleStitchPDF)
	mux.HandleFunc("/api/exam/pdf", s.handleExamPDF)
	return mux
}

// handleStitch repaginates uploaded images and returns the pages as
// base64-encoded PNGs.
func (s *Server) handleStitch(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(w, r)
	if err != nil {
		return
	}

	pages, err := s.stitchPages(uploads, r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	encoded := make([]string, 0, len(pages))
	for i, page := range pages {
		data, err := imaging.EncodePNG(page)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode page %d", i+1))
			return
		}
		encoded = append(encoded, base64.StdEncoding.EncodeToString(data))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"pages": encoded})
}

// handleStitchPDF repaginates uploaded images and returns one PDF.
func (s *Server) handleStitchPDF(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(w, r)
	if err != nil {
		return
	}

	pages, err := s.stitchPages(uploads, r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	document, err := pdf.FromPages(pages)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.archiveArtifact(r.Context(), "stitch", document)
	writePDF(w, "output.pdf", document)
}

// handleExamPDF runs OCR over the uploads, reconstructs questions and
// returns them re-typeset as an exam-sheet PDF.
func (s *Server) handleExamPDF(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(w, r)
	if err != nil {
		return
	}

	questions, err := s.extractQuestions(r.Context(), uploads)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusBadRequest, "no questions recognized in the uploaded images")
		return
	}

	document, err := pdf.FromPages(s.renderer.Pages(questions))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.archiveArtifact(r.Context(), "exam", document)
	writePDF(w, "exam.pdf", document)
}

// stitchPages decodes, normalizes and packs the uploads. Grid mode crops
// the phone status bar and fits each screenshot to one grid cell; adaptive
// mode fits images to the content width and pairs narrow ones.
func (s *Server) stitchPages(uploads []upload, mode string) ([]image.Image, error) {
	grid := mode == "grid"
	var config layout.Config
	if grid {
		config = layout.GridConfig()
	} else {
		config = layout.AdaptiveConfig()
	}

	blocks := make([]layout.Block, 0, len(uploads))
	for i, u := range uploads {
		img, err := imaging.Decode(u.data)
		if err != nil {
			return nil, badRequest("file %d (%s): %v", i+1, u.name, err)
		}

		var scaled image.Image
		if grid {
			scaled = imaging.ScaleToWidth(imaging.CropStatusBar(imaging.FlattenWhite(img)), config.CellWidth())
		} else {
			scaled = imaging.ScaleToWidth(imaging.FlattenWhite(img), config.ContentWidth())
		}
		blocks = append(blocks, layout.Block{
			Width:  scaled.Bounds().Dx(),
			Height: scaled.Bounds().Dy(),
			Image:  scaled,
		})
	}

	stitcher := layout.NewStitcher(config)
	var pages []layout.Page
	if grid {
		pages = stitcher.LayoutGrid(blocks)
	} else {
		pages = stitcher.LayoutAdaptive(blocks)
	}

	return utils.Map(pages, func(page layout.Page) image.Image {
		return layout.RenderPage(page, config)
	}), nil
}

// extractQuestions runs OCR per upload and reconstructs one question per
// image. Images where nothing is recovered are skipped, not fatal.
func (s *Server) extractQuestions(ctx context.Context, uploads []upload) ([]exam.Question, error) {
	var questions []exam.Question
	for i, u := range uploads {
		img, err := imaging.Decode(u.data)
		if err != nil {
			return nil, badRequest("file %d (%s): %v", i+1, u.name, err)
		}

		payload, err := imaging.EncodeJPEG(imaging.FlattenWhite(img), 90)
		if err != nil {
			return nil, fmt.Errorf("file %d (%s): %w", i+1, u.name, err)
		}

		fragments, err := s.ocrClient.DetectText(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("OCR failed for file %d (%s): %w", i+1, u.name, err)
		}

		if question := exam.Reconstruct(fragments); !question.IsEmpty() {
			questions = append(questions, question)
		}
	}
	return questions, nil
}

func (s *Server) archiveArtifact(ctx context.Context, kind string, document []byte) {
	if s.archive == nil {
		return
	}
	object := fmt.Sprintf("%s-%d.pdf", kind, time.Now().UTC().Unix())
	if err := s.archive.SaveBytes(ctx, s.archiveBucket, object, document); err != nil {
		log.Printf("Failed to archive %s: %v", object, err)
	}
}

func writePDF(w http.ResponseWriter, filename string, document []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(document)
}

func writeError(w http.ResponseWriter, status int, message string) {
	log.Printf("Request failed (%d): %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(format string, args ...any) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

func statusFor(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
