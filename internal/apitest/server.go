// Package apitest provides an in-memory double of the hotel service for
// client tests and local runs. It implements the same routes the real service
// exposes and keeps everything in process memory.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/hotel-staff-agent/internal/api"
)

// Device is the server-side view of one registered device.
type Device struct {
	DeviceID    string
	DisplayName string
	Status      string
	UserAgent   string
	Platform    string
	Fingerprint string
}

// StoredPhoto keeps one uploaded photo part.
type StoredPhoto struct {
	Name string
	MIME string
	Data []byte
}

// StoredReport is one submitted report with its decoded multipart fields.
type StoredReport struct {
	ID          int64
	Room        int
	Type        api.ReportCategory
	Description string
	CreatedAt   time.Time
	Photos      []StoredPhoto
	Done        bool
	DeviceID    string
}

type breakfastRow struct {
	entry api.BreakfastEntry
}

// Server is the fake hotel service. Construct it with NewServer and mount its
// Handler on an httptest.Server or a real listener.
type Server struct {
	mu        sync.Mutex
	devices   map[string]*Device
	reports   []*StoredReport
	nextID    int64
	breakfast map[string][]*breakfastRow
	now       func() time.Time

	router *mux.Router
}

// NewServer constructs an empty fake service.
func NewServer() *Server {
	s := &Server{
		devices:   make(map[string]*Device),
		breakfast: make(map[string][]*breakfastRow),
		nextID:    1,
		now:       time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/device/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/device/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/reports", s.handleSubmitReport).Methods(http.MethodPost)
	r.HandleFunc("/api/reports/open", s.handleOpenReports).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/mark-done", s.handleMarkDone).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/breakfast/day", s.handleBreakfastDay).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/breakfast/check", s.handleBreakfastCheck).Methods(http.MethodPost)
	s.router = r

	return s
}

// Handler returns the HTTP handler serving the fake routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Activate flips a registered device to ACTIVE.
func (s *Server) Activate(deviceID string) {
	s.setStatus(deviceID, "ACTIVE")
}

// Revoke flips a registered device to REVOKED.
func (s *Server) Revoke(deviceID string) {
	s.setStatus(deviceID, "REVOKED")
}

// SetDisplayName sets the server-assigned display name returned by the status
// endpoint.
func (s *Server) SetDisplayName(deviceID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.devices[deviceID]; ok {
		d.DisplayName = name
	}
}

// Device returns a copy of the registered device, if any.
func (s *Server) Device(deviceID string) (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return Device{}, false
	}
	return *d, true
}

// Reports returns copies of all submitted reports in submission order.
func (s *Server) Reports() []StoredReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, *r)
	}
	return out
}

// SeedBreakfastDay installs the attendee list for one date.
func (s *Server) SeedBreakfastDay(date string, entries ...api.BreakfastEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]*breakfastRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &breakfastRow{entry: e})
	}
	s.breakfast[date] = rows
}

func (s *Server) setStatus(deviceID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.devices[deviceID]; ok {
		d.Status = status
		return
	}
	s.devices[deviceID] = &Device{DeviceID: deviceID, Status: status}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.DeviceID == "" {
		http.Error(w, "device_id required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[req.DeviceID]
	if !ok {
		d = &Device{DeviceID: req.DeviceID, Status: "PENDING"}
		s.devices[req.DeviceID] = d
	}
	// Registration is an upsert; it never resets an assigned status.
	d.UserAgent = req.DeviceInfo.UserAgent
	d.Platform = req.DeviceInfo.Platform
	d.Fingerprint = req.DeviceInfo.Fingerprint
	if req.DisplayName != "" {
		d.DisplayName = req.DisplayName
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")

	s.mu.Lock()
	d, ok := s.devices[deviceID]
	var resp api.StatusResponse
	if ok {
		resp = api.StatusResponse{Status: d.Status, DisplayName: d.DisplayName}
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "unknown device", http.StatusNotFound)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	room, err := strconv.Atoi(r.FormValue("room"))
	if err != nil {
		http.Error(w, "invalid room", http.StatusBadRequest)
		return
	}
	epochMs, err := strconv.ParseInt(r.FormValue("createdAtEpochMs"), 10, 64)
	if err != nil {
		http.Error(w, "invalid createdAtEpochMs", http.StatusBadRequest)
		return
	}

	report := &StoredReport{
		Room:        room,
		Type:        api.ReportCategory(r.FormValue("type")),
		Description: r.FormValue("description"),
		CreatedAt:   time.UnixMilli(epochMs).UTC(),
		DeviceID:    r.Header.Get(api.DeviceIDHeader),
	}

	if form := r.MultipartForm; form != nil {
		for _, header := range form.File["photos"] {
			file, err := header.Open()
			if err != nil {
				http.Error(w, "unreadable photo part", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, "unreadable photo part", http.StatusBadRequest)
				return
			}
			report.Photos = append(report.Photos, StoredPhoto{
				Name: header.Filename,
				MIME: header.Header.Get("Content-Type"),
				Data: data,
			})
		}
	}

	s.mu.Lock()
	report.ID = s.nextID
	s.nextID++
	s.reports = append(s.reports, report)
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleOpenReports(w http.ResponseWriter, r *http.Request) {
	category := api.ReportCategory(r.URL.Query().Get("category"))

	s.mu.Lock()
	items := make([]api.Report, 0)
	for _, report := range s.reports {
		if report.Done || report.Type != category {
			continue
		}
		thumbs := make([]string, 0, len(report.Photos))
		for i := range report.Photos {
			thumbs = append(thumbs, fmt.Sprintf("/thumbs/%d/%d", report.ID, i))
		}
		items = append(items, api.Report{
			ID:            report.ID,
			Room:          report.Room,
			Type:          report.Type,
			Description:   report.Description,
			CreatedAt:     report.CreatedAt,
			ThumbnailURLs: thumbs,
		})
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"items": items})
}

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, report := range s.reports {
		if report.ID == id {
			report.Done = true
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "unknown report", http.StatusNotFound)
}

func (s *Server) handleBreakfastDay(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	s.mu.Lock()
	rows, ok := s.breakfast[date]
	resp := api.BreakfastDayResponse{Status: "MISSING", Items: []api.BreakfastEntry{}}
	if ok {
		resp.Status = "FOUND"
		for _, row := range rows {
			resp.Items = append(resp.Items, row.entry)
		}
	}
	s.mu.Unlock()

	writeJSON(w, resp)
}

func (s *Server) handleBreakfastCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Room int    `json:"room"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.breakfast[req.Date]
	if !ok {
		http.Error(w, "unknown date", http.StatusNotFound)
		return
	}
	for _, row := range rows {
		if row.entry.Room != req.Room {
			continue
		}
		now := s.now().UTC()
		row.entry.CheckedAt = &now
		row.entry.CheckedBy = r.Header.Get(api.DeviceIDHeader)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Error(w, "unknown room", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}
