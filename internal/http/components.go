package http

import (
	"net/http"
	"strings"

	"showcase/internal/core"
	"showcase/internal/gallery"
	applog "showcase/internal/log"
)

type componentsView struct {
	Search     string
	Category   string
	Components []core.Component
	// Options counts are over the whole catalog, not the filtered list.
	Options []gallery.CategoryOption
}

func (s *Server) buildComponentsView(r *http.Request) (componentsView, error) {
	q := r.URL.Query()
	search := q.Get("search")
	category := strings.TrimSpace(q.Get("category"))
	if category == "" {
		category = core.SentinelAll
	}

	matched, err := core.FilterComponents(s.components, search, category)
	if err != nil {
		return componentsView{}, err
	}
	return componentsView{
		Search:     search,
		Category:   category,
		Components: matched,
		Options:    gallery.CategoryOptions(s.components),
	}, nil
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildComponentsView(r)
	if err != nil {
		s.sl.LogError(r.Context(), "Filtering components failed", err, applog.ComponentGallery, applog.OpFilter, nil)
		InternalServerError("表示に失敗しました").Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "components.html", view)
}

func (s *Server) handleComponentsPartial(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildComponentsView(r)
	if err != nil {
		s.sl.LogError(r.Context(), "Filtering components failed", err, applog.ComponentGallery, applog.OpFilter, nil)
		InternalServerError("表示に失敗しました").Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "components_partial", view)
}

func (s *Server) handleComponentDetail(w http.ResponseWriter, r *http.Request) {
	d, ok := gallery.Lookup(r.PathValue("id"))
	if !ok {
		s.render(w, r, http.StatusNotFound, "component_missing.html", nil)
		return
	}
	s.render(w, r, http.StatusOK, "component_detail.html", d)
}
