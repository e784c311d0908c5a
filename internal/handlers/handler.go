package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/vessel-reports/internal/adapters/imaging"
	"github.com/csg33k/vessel-reports/internal/adapters/inspection"
	"github.com/csg33k/vessel-reports/internal/adapters/pdf"
	"github.com/csg33k/vessel-reports/internal/adapters/rbd"
	"github.com/csg33k/vessel-reports/internal/adapters/templatesource"
	"github.com/csg33k/vessel-reports/internal/domain"
	"github.com/csg33k/vessel-reports/internal/ports"
	"github.com/csg33k/vessel-reports/internal/session"
	"github.com/csg33k/vessel-reports/internal/templates"
)

const (
	// SessionCookie carries the form-state session id.
	SessionCookie = "vr_session"

	// MaxUpload bounds a multipart inspection form.
	MaxUpload = 64 << 20

	previewWidth  = 400
	previewHeight = 300
	recentTrips   = 10
)

// Config wires the handler's collaborators.
type Config struct {
	Trips      ports.TripRepository
	Templates  ports.TemplateSource
	Mailer     ports.Mailer
	Inspection ports.InspectionGenerator
	Expense    ports.ExpenseGenerator
	Summary    ports.ExpenseSummary
	Sessions   *session.Store
	Catalog    *domain.VesselCatalog

	InspectionTemplate string
	RBDTemplate        string

	// Now defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	cfg Config
}

func New(cfg Config) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Catalog == nil {
		cfg.Catalog = domain.DefaultVesselCatalog()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewStore(12 * time.Hour)
	}
	return &Handler{cfg: cfg}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /inspection", h.inspectionForm)
	mux.HandleFunc("GET /inspection/vessels", h.vesselOptions)
	mux.HandleFunc("POST /inspection/rows", h.addRows)
	mux.HandleFunc("GET /inspection/uploads/{key}/preview", h.uploadPreview)
	mux.HandleFunc("POST /inspection/generate", h.generateInspection)
	mux.HandleFunc("GET /rbd", h.rbdForm)
	mux.HandleFunc("POST /rbd/save", h.saveTrip)
	mux.HandleFunc("POST /rbd/load", h.loadTrip)
	mux.HandleFunc("POST /rbd/generate", h.generateRBD)
	mux.HandleFunc("POST /rbd/summary", h.generateSummary)
	return mux
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	trips, err := h.cfg.Trips.ListTrips(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(trips) > recentTrips {
		trips = trips[:recentTrips]
	}
	render(w, r, templates.Index(templates.IndexData{Trips: trips, MailEnabled: h.mailEnabled()}))
}

// ── Inspection report ────────────────────────────────────────────────────────

func (h *Handler) inspectionForm(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)
	state := h.cfg.Sessions.Get(id)

	types := h.cfg.Catalog.TypeNames()
	selected := r.URL.Query().Get("type")
	if selected == "" && len(types) > 0 {
		selected = types[0]
	}
	render(w, r, templates.InspectionForm(templates.InspectionData{
		Types:        types,
		SelectedType: selected,
		Vessels:      h.cfg.Catalog.Vessels(selected),
		Today:        h.cfg.Now().Format(domain.StoredDate),
		BowPhotoKey:  session.BowPhotoKey,
		BowPhoto:     len(state.Uploads[session.BowPhotoKey]) > 0,
		Rows:         templates.DocumentationRows(state.Rows, state.Uploads, nil),
		MailEnabled:  h.mailEnabled(),
	}))
}

// vesselOptions renders the vessels of one type; the select posts its own
// name, "vessel_type", while links use "type".
func (h *Handler) vesselOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typeName := q.Get("type")
	if typeName == "" {
		typeName = q.Get("vessel_type")
	}
	render(w, r, templates.VesselOptions(h.cfg.Catalog.Vessels(typeName)))
}

// addRows grows the documentation grid. The enclosing form is posted along,
// so files picked so far are kept in the session and typed captions are
// rendered back into the new grid.
func (h *Handler) addRows(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(MaxUpload)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := h.sessionID(w, r)
	posted := formRows(r.MultipartForm, h.cfg.Sessions.Get(id).Rows)

	uploads := h.cfg.Sessions.Get(id).Uploads
	if r.MultipartForm != nil {
		keys := []string{session.BowPhotoKey}
		for i := range posted {
			keys = append(keys, session.DocumentationKey(i))
		}
		fresh, err := readUploads(r, keys)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		uploads = h.cfg.Sessions.MergeUploads(id, fresh)
	}

	captions := make(map[string]string)
	for i := range posted {
		if v := r.FormValue(templates.CaptionKey(i)); v != "" {
			captions[templates.CaptionKey(i)] = v
		}
	}

	n := h.cfg.Sessions.AddRows(id)
	render(w, r, templates.DocRows(templates.DocumentationRows(n, uploads, captions)))
}

func (h *Handler) uploadPreview(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data, ok := h.cfg.Sessions.Upload(c.Value, r.PathValue("key"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	thumb, err := imaging.Thumbnail(data, previewWidth, previewHeight)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Write(thumb)
}

func (h *Handler) generateInspection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUpload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := h.sessionID(w, r)
	rows := formRows(r.MultipartForm, h.cfg.Sessions.Get(id).Rows)

	keys := []string{session.BowPhotoKey}
	for i := range rows {
		keys = append(keys, session.DocumentationKey(i))
	}
	fresh, err := readUploads(r, keys)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uploads := h.cfg.Sessions.MergeUploads(id, fresh)

	report, err := h.parseInspection(r, uploads, rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tpl, err := h.cfg.Templates.Fetch(r.Context(), h.cfg.InspectionTemplate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.cfg.Inspection.Generate(r.Context(), tpl, report, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	name := inspection.FileName(report)

	if report.Recipient != "" {
		w.Header().Set("X-Report-Email", h.mailReport(r, report, name, buf.Bytes()))
	}
	download(w, name, inspection.ContentType, buf.Bytes())
}

func (h *Handler) parseInspection(r *http.Request, uploads map[string][]byte, rows int) (*domain.InspectionReport, error) {
	surveyDate, err := h.formDate(r, "survey_date")
	if err != nil {
		return nil, err
	}
	report := &domain.InspectionReport{
		VesselType: strings.TrimSpace(r.FormValue("vessel_type")),
		Vessel:     strings.TrimSpace(r.FormValue("vessel")),
		IMO:        strings.TrimSpace(r.FormValue("imo")),
		CallSign:   strings.TrimSpace(r.FormValue("callsign")),
		Place:      strings.TrimSpace(r.FormValue("place")),
		SurveyDate: surveyDate,
		Master:     strings.TrimSpace(r.FormValue("master")),
		Surveyor:   strings.TrimSpace(r.FormValue("surveyor")),
		BowPhoto:   uploads[session.BowPhotoKey],
		Recipient:  strings.TrimSpace(r.FormValue("email")),
	}
	for i := range rows {
		report.Documentation = append(report.Documentation, domain.DocumentationItem{
			Image:   uploads[session.DocumentationKey(i)],
			Caption: strings.TrimSpace(r.FormValue(templates.CaptionKey(i))),
		})
	}
	return report, nil
}

// mailReport sends the generated report and returns the outcome reported
// in the X-Report-Email header. A mail failure never fails the download.
func (h *Handler) mailReport(r *http.Request, report *domain.InspectionReport, name string, data []byte) string {
	if !h.mailEnabled() {
		slog.Warn("report e-mail requested but smtp is not configured", "to", report.Recipient)
		return "disabled"
	}
	err := h.cfg.Mailer.Send(r.Context(), report.Recipient,
		inspection.EmailSubject(report), inspection.EmailBody(report),
		ports.Attachment{Name: name, ContentType: inspection.ContentType, Data: data},
	)
	if err != nil {
		slog.Error("sending inspection report", "to", report.Recipient, "vessel", report.Vessel, "err", err)
		return "failed"
	}
	return "sent"
}

// ── RBD expense report ───────────────────────────────────────────────────────

func (h *Handler) rbdForm(w http.ResponseWriter, r *http.Request) {
	data := templates.RBDData{Trip: h.newTrip()}
	status := http.StatusOK
	if id := strings.TrimSpace(r.URL.Query().Get("trip_id")); id != "" {
		t, err := h.cfg.Trips.GetTrip(r.Context(), id)
		switch {
		case errors.Is(err, domain.ErrTripNotFound):
			data.Error = "Data perjalanan dinas " + id + " tidak ditemukan."
			status = http.StatusNotFound
		case err != nil:
			h.fail(w, r, err)
			return
		default:
			data.Trip = t
			data.Notice = "Data perjalanan dinas " + id + " dimuat."
		}
	}
	h.renderRBD(w, r, status, data)
}

func (h *Handler) saveTrip(w http.ResponseWriter, r *http.Request) {
	t, err := h.parseTrip(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data := templates.RBDData{Trip: t}
	status := http.StatusOK
	switch err := h.cfg.Trips.SaveTrip(r.Context(), t); {
	case errors.Is(err, domain.ErrTripIDRequired):
		data.Error = "Masukkan ID Perjalanan Dinas untuk menyimpan data."
		status = http.StatusBadRequest
	case err != nil:
		h.fail(w, r, err)
		return
	default:
		slog.Info("trip saved", "trip", t.ID)
		data.Notice = "Data perjalanan dinas " + t.ID + " tersimpan."
	}
	h.renderRBD(w, r, status, data)
}

func (h *Handler) loadTrip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.FormValue("trip_id"))
	if id == "" {
		http.Redirect(w, r, "/rbd", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/rbd?trip_id="+url.QueryEscape(id), http.StatusSeeOther)
}

func (h *Handler) generateRBD(w http.ResponseWriter, r *http.Request) {
	t, err := h.parseTrip(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tpl, err := h.cfg.Templates.Fetch(r.Context(), h.cfg.RBDTemplate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.cfg.Expense.Generate(r.Context(), tpl, t, h.cfg.Now(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, rbd.FileName(t), rbd.ContentType, buf.Bytes())
}

func (h *Handler) generateSummary(w http.ResponseWriter, r *http.Request) {
	t, err := h.parseTrip(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := h.cfg.Summary.GenerateTripSummary(r.Context(), t, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	name := strings.TrimSuffix(rbd.FileName(t), ".xlsx") + "_summary.pdf"
	download(w, name, pdf.ContentType, buf.Bytes())
}

// parseTrip reads the RBD form. Cost fields keep what the user typed.
func (h *Handler) parseTrip(r *http.Request) (*domain.Trip, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	t := h.newTrip()
	t.ID = strings.TrimSpace(r.FormValue("trip_id"))
	t.Purpose = strings.TrimSpace(r.FormValue("trip_purpose"))
	t.VesselCode = strings.TrimSpace(r.FormValue("vessel_code"))

	var err error
	if t.StartDate, err = h.formDate(r, "start_date"); err != nil {
		return nil, err
	}
	if t.EndDate, err = h.formDate(r, "end_date"); err != nil {
		return nil, err
	}
	for _, l := range t.Costs.Lines() {
		if _, ok := r.Form[l.Field]; ok {
			t.Costs.Set(l.Field, strings.TrimSpace(r.FormValue(l.Field)))
		}
	}
	return t, nil
}

func (h *Handler) newTrip() *domain.Trip {
	today := h.today()
	return &domain.Trip{StartDate: today, EndDate: today, Costs: domain.DefaultExpenseAmounts()}
}

func (h *Handler) renderRBD(w http.ResponseWriter, r *http.Request, status int, data templates.RBDData) {
	trips, err := h.cfg.Trips.ListTrips(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.Trips = trips
	renderStatus(w, r, status, templates.RBDForm(data))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (h *Handler) mailEnabled() bool {
	return h.cfg.Mailer != nil && h.cfg.Mailer.Enabled()
}

func (h *Handler) today() time.Time {
	now := h.cfg.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// formDate parses a yyyy-mm-dd form field; an empty field means today.
func (h *Handler) formDate(r *http.Request, key string) (time.Time, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return h.today(), nil
	}
	t, err := time.Parse(domain.StoredDate, v)
	if err != nil {
		return time.Time{}, errors.New("invalid " + key + ": " + v)
	}
	return t, nil
}

// sessionID returns the caller's session id, issuing a cookie on first use.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// fail maps an error to its HTTP status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTripNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTripIDRequired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTemplate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, templatesource.ErrFetch):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	} else {
		slog.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	http.Error(w, err.Error(), status)
}

var docFieldRE = regexp.MustCompile(`^doc_(?:img|cap)_(\d+)$`)

// formRows is the number of documentation slots posted, never fewer than
// least.
func formRows(form *multipart.Form, least int) int {
	n := least
	if form == nil {
		return n
	}
	check := func(key string) {
		if m := docFieldRE.FindStringSubmatch(key); m != nil {
			if i, err := strconv.Atoi(m[1]); err == nil && i < session.MaxRows && i+1 > n {
				n = i + 1
			}
		}
	}
	for k := range form.Value {
		check(k)
	}
	for k := range form.File {
		check(k)
	}
	return n
}

// readUploads returns the content of the posted files among keys. Missing
// or empty files are left out.
func readUploads(r *http.Request, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, key := range keys {
		f, _, err := r.FormFile(key)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			out[key] = data
		}
	}
	return out, nil
}

func download(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
