package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"showcase/internal/core"
	"showcase/internal/datasource"
	"showcase/internal/export"
	applog "showcase/internal/log"
)

// recordsView feeds data.html and the records_partial template.
type recordsView struct {
	Criteria   core.Criteria
	Records    []core.Record
	Stats      core.Stats
	Categories []string
	Statuses   []core.Status
	ExportURL  template.URL
	// Refresh marks a partial response; the category choices ride along out of band.
	Refresh bool
}

func (s *Server) buildRecordsView(ctx context.Context, query url.Values) (recordsView, error) {
	recs, err := s.loadRecords(ctx)
	if err != nil {
		return recordsView{}, err
	}
	c := ParseCriteria(query)
	matched, err := core.Filter(recs, c)
	if err != nil {
		return recordsView{}, err
	}
	cats, err := core.DistinctCategories(recs)
	if err != nil {
		return recordsView{}, err
	}
	if !c.IsZero() {
		s.sl.LogFiltered(ctx, c.SearchTerm, c.Category, c.Status, len(matched))
	}

	return recordsView{
		Criteria:   c,
		Records:    matched,
		Stats:      core.Aggregate(matched),
		Categories: core.SortedCategories(cats),
		Statuses:   core.Statuses(),
		ExportURL:  exportURL(c),
	}, nil
}

// exportURL carries the active constraints over to the xlsx download.
func exportURL(c core.Criteria) template.URL {
	q := url.Values{}
	if c.SearchTerm != "" {
		q.Set("search", c.SearchTerm)
	}
	if c.Category != core.SentinelAll {
		q.Set("category", c.Category)
	}
	if c.Status != core.SentinelAll {
		q.Set("status", c.Status)
	}
	u := "/data/export.xlsx"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return template.URL(u)
}

func (s *Server) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	fields := applog.NewFields()
	if errors.Is(err, context.DeadlineExceeded) {
		fields["error_type"] = applog.ErrorTypeTimeout
	}
	s.sl.LogError(r.Context(), "Loading records failed", err, applog.ComponentRecords, applog.OpList, fields)
	InternalServerError("データの読み込みに失敗しました").Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	count := 0
	if recs, err := s.loadRecords(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Record count unavailable", applog.FieldError, err)
	} else {
		count = len(recs)
	}
	s.render(w, r, http.StatusOK, "index.html", struct {
		RecordCount    int
		ComponentCount int
	}{count, len(s.components)})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildRecordsView(r.Context(), r.URL.Query())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "data.html", view)
}

// handleRecordsPartial re-renders stats and table for the current filters.
func (s *Server) handleRecordsPartial(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildRecordsView(r.Context(), r.URL.Query())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	view.Refresh = true
	s.render(w, r, http.StatusOK, "records_partial", view)
}

type recordJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Value     int64  `json:"value"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func toRecordJSON(rec core.Record) recordJSON {
	return recordJSON{
		ID:        rec.ID,
		Name:      rec.Name,
		Category:  rec.Category,
		Value:     rec.Value,
		Status:    string(rec.Status),
		CreatedAt: rec.CreatedAt,
	}
}

type statsJSON struct {
	TotalCount  int   `json:"totalCount"`
	TotalValue  int64 `json:"totalValue"`
	ActiveCount int   `json:"activeCount"`
}

type recordsResponse struct {
	Records    []recordJSON `json:"records"`
	Stats      statsJSON    `json:"stats"`
	Categories []string     `json:"categories"`
}

func (s *Server) handleRecordsJSON(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildRecordsView(r.Context(), r.URL.Query())
	if err != nil {
		s.sl.LogError(r.Context(), "Loading records failed", err, applog.ComponentRecords, applog.OpList, nil)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "records unavailable"})
		return
	}

	resp := recordsResponse{
		Records: make([]recordJSON, 0, len(view.Records)),
		Stats: statsJSON{
			TotalCount:  view.Stats.TotalCount,
			TotalValue:  view.Stats.TotalValue,
			ActiveCount: view.Stats.ActiveCount,
		},
		Categories: view.Categories,
	}
	for _, rec := range view.Records {
		resp.Records = append(resp.Records, toRecordJSON(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.ErrorContext(r.Context(), "Encoding records failed", applog.FieldError, err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	view, err := s.buildRecordsView(r.Context(), r.URL.Query())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view.Records, view.Stats); err != nil {
		s.sl.LogError(r.Context(), "Export failed", err, applog.ComponentExport, applog.OpExport, nil)
		InternalServerError("エクスポートに失敗しました").Write(w)
		return
	}
	s.appMetrics.exports.Add(1)

	NewHTMXResponse().
		Header("Content-Type", export.ContentType).
		Header("Content-Disposition", `attachment; filename="records.xlsx"`).
		Header("Cache-Control", "no-store").
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Parse body error", applog.FieldError, err)
		BadRequestError("リクエスト形式が正しくありません").Write(w)
		return
	}

	rec, err := ParseRecordInput(p)
	if err != nil {
		var fe *FieldError
		field := "record"
		if errors.As(err, &fe) {
			field = fe.Field
		}
		s.logger.DebugContext(r.Context(), "Record validation failed",
			applog.FieldError, err, "field", field, "error_type", applog.ErrorTypeValidation)
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	created, err := s.backend.CreateRecord(r.Context(), rec)
	if err != nil {
		s.sl.LogError(r.Context(), "Create record failed", err, applog.ComponentRecords, applog.OpCreate,
			applog.NewFields().WithRecord("", rec.Name, rec.Category, rec.Value, string(rec.Status)))
		InternalServerError("保存に失敗しました").Write(w)
		return
	}
	s.invalidateRecords()
	s.appMetrics.created.Add(1)
	s.sl.LogRecordCreated(r.Context(), created.ID, created.Name, created.Category, created.Value, string(created.Status))

	resp := NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordsChanged("created", created.ID).
		TriggerFormReset().
		TriggerSuccessNotification("「" + created.Name + "」を追加しました")
	if p.IsJSON() {
		body, err := json.Marshal(toRecordJSON(created))
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Encoding created record failed", applog.FieldError, err)
		}
		resp.Header("Content-Type", "application/json").Body(body).Write(w)
		return
	}
	resp.BodyHTML(`<div class="success">` + template.HTMLEscapeString(created.Name) + ` を追加しました</div>`).Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err == nil {
			id = p.Get("id")
		}
	}
	if id == "" {
		BadRequestError("IDが指定されていません").Write(w)
		return
	}

	if err := s.backend.DeleteRecord(r.Context(), id); err != nil {
		if errors.Is(err, datasource.ErrNotFound) {
			NotFoundError("レコードが見つかりません").Write(w)
			return
		}
		fields := applog.NewFields()
		fields[applog.FieldRecordID] = id
		s.sl.LogError(r.Context(), "Delete record failed", err, applog.ComponentRecords, applog.OpDelete, fields)
		InternalServerError("削除に失敗しました").Write(w)
		return
	}
	s.invalidateRecords()
	s.appMetrics.deleted.Add(1)
	s.sl.LogRecordDeleted(r.Context(), id)

	NewHTMXResponse().
		TriggerRecordsChanged("deleted", id).
		TriggerSuccessNotification("削除しました").
		Write(w)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "名前を入力してください"
	case errors.Is(err, core.ErrNameTooLong):
		return "名前は120文字以内で入力してください"
	case errors.Is(err, core.ErrEmptyCategory):
		return "カテゴリを入力してください"
	case errors.Is(err, core.ErrInvalidValue):
		return "価値が正しくありません"
	case errors.Is(err, core.ErrInvalidStatus):
		return "ステータスが正しくありません"
	case errors.Is(err, core.ErrInvalidDate):
		return "作成日はYYYY-MM-DD形式で入力してください"
	default:
		return "入力内容が正しくありません"
	}
}

// render executes a template into a buffer so that failures still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"error_type", applog.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	resp := NewHTMXResponse().Status(status)
	if err := resp.BodyTemplate(s.templates, name, data); err != nil {
		fields := applog.NewFields()
		fields["template"] = name
		s.sl.LogError(r.Context(), "Template execution failed", err, applog.ComponentTemplate, applog.OpRender, fields)
		InternalServerError("表示に失敗しました").Write(w)
		return
	}
	resp.Write(w)
}
