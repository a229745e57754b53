package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/export"
	"github.com/matzehuels/shapeboard/pkg/render"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

const (
	defaultPreviewWidth = 400
	maxPreviewWidth     = 2000
)

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSceneView(s.ctrl.Snapshot(), s.ctrl.ShapeColor(), s.ctrl.IconColor()))
}

func (s *Server) respond(w http.ResponseWriter, ok bool) {
	writeJSON(w, http.StatusOK, changed{Changed: ok, Revision: s.ctrl.Revision()})
}

type shapeRequest struct {
	Kind  string `json:"kind"`
	Color string `json:"color"`
}

func (s *Server) handleSelectShape(w http.ResponseWriter, r *http.Request) {
	var req shapeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, err := scene.ParseShapeKind(req.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fill := s.ctrl.ShapeColor()
	if req.Color != "" {
		if fill, err = scene.ParseColor(req.Color); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	sh := s.ctrl.SelectBackgroundShape(kind, fill)
	writeJSON(w, http.StatusCreated, newShapeView(sh))
}

type colorRequest struct {
	Color string `json:"color"`
}

func (s *Server) parseColor(w http.ResponseWriter, r *http.Request) (scene.Color, bool) {
	var req colorRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	c, err := scene.ParseColor(req.Color)
	if err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	return c, true
}

func (s *Server) handleShapeColor(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.parseColor(w, r); ok {
		s.respond(w, s.ctrl.SetBackgroundColor(c))
	}
}

func (s *Server) handleIconColor(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.parseColor(w, r); ok {
		s.respond(w, s.ctrl.SetActiveIconColor(c))
	}
}

type iconRequest struct {
	Kind string `json:"kind"`
}

// handleAddIcon waits for the load so the response carries the new icon.
// Other requests keep being served while it waits.
func (s *Server) handleAddIcon(w http.ResponseWriter, r *http.Request) {
	var req iconRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, err := scene.ParseIconKind(req.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	icon, err := s.ctrl.AddIcon(r.Context(), kind).Wait(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := newIconView(icon, icon.ID)
	writeJSON(w, http.StatusCreated, changed{Changed: true, Revision: s.ctrl.Revision(), Icon: &v})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.ctrl.DeleteActiveSelection())
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	dup, ok := s.ctrl.DuplicateActiveSelection()
	if !ok {
		s.respond(w, false)
		return
	}
	v := newIconView(dup, dup.ID)
	writeJSON(w, http.StatusCreated, changed{Changed: true, Revision: s.ctrl.Revision(), Icon: &v})
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, s.ctrl.MoveActive(req.DX, req.DY))
}

type scaleRequest struct {
	Factor float64 `json:"factor"`
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !(req.Factor > 0) {
		s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "factor must be positive"))
		return
	}
	s.respond(w, s.ctrl.ScaleActive(req.Factor))
}

type selectRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, s.ctrl.Select(req.ID))
}

func (s *Server) handleSelectNext(w http.ResponseWriter, r *http.Request) {
	_, ok := s.ctrl.SelectNext()
	s.respond(w, ok)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ClearSelection()
	s.respond(w, true)
}

// handleExport answers with the artifact as an attachment. An unparsable
// scale falls back to 1 like any other invalid scale.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			scale = f
		}
	}

	a, err := s.exporter.Export(r.Context(), s.ctrl.Snapshot(), format, scale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("archive") == "1" {
		if s.archive == nil {
			s.writeError(w, r, apperr.New(apperr.ErrCodeUnsupported, "archiving is not configured"))
			return
		}
		loc, err := s.archive.Download(r.Context(), a)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("X-Archive-Location", loc)
	}
	export.WriteAttachment(w, a)
}

func (s *Server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	width := defaultPreviewWidth
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPreviewWidth {
			s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "width must be between 1 and %d", maxPreviewWidth))
			return
		}
		width = n
	}

	thumb := render.Thumbnail(render.Raster(s.ctrl.Snapshot()), width)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "encode preview"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePreviewSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(render.SVG(s.ctrl.Snapshot(), render.WithSelection()))
}

func (s *Server) handleOutlineDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(render.OutlineDOT(s.ctrl.Snapshot())))
}

func (s *Server) handleOutlineSVG(w http.ResponseWriter, r *http.Request) {
	out, err := render.OutlineSVG(r.Context(), render.OutlineDOT(s.ctrl.Snapshot()))
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "render outline"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(out)
}
