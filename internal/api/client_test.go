package api_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/apitest"
	"github.com/example/hotel-staff-agent/internal/view"
)

type indicatorSpy struct {
	mu     sync.Mutex
	next   view.WorkToken
	begun  []view.WorkOptions
	open   map[view.WorkToken]bool
	errors []view.ErrorOptions
}

func newIndicatorSpy() *indicatorSpy {
	return &indicatorSpy{open: map[view.WorkToken]bool{}}
}

func (s *indicatorSpy) BeginWork(opts view.WorkOptions) view.WorkToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.begun = append(s.begun, opts)
	s.open[s.next] = true
	return s.next
}

func (s *indicatorSpy) EndWork(token view.WorkToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, token)
}

func (s *indicatorSpy) ReportError(opts view.ErrorOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, opts)
}

func (s *indicatorSpy) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

func newTestClient(t *testing.T, server *apitest.Server, deviceID string) (*api.Client, *indicatorSpy) {
	t.Helper()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	spy := newIndicatorSpy()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:   ts.URL,
		Indicator: spy,
		DeviceID:  func() string { return deviceID },
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, spy
}

func TestNewClient_RejectsRelativeBaseURL(t *testing.T) {
	if _, err := api.NewClient(api.ClientConfig{BaseURL: "/not-absolute"}); err == nil {
		t.Fatal("expected error for relative base URL")
	}
}

func TestRegisterDevice_UpsertsAndKeepsStatus(t *testing.T) {
	server := apitest.NewServer()
	client, _ := newTestClient(t, server, "dev-1")
	ctx := context.Background()

	req := api.RegisterRequest{
		DeviceID:    "dev-1",
		DisplayName: "Recepce 1",
		DeviceInfo:  api.DeviceInfo{UserAgent: "agent/1.0", Platform: "desktop", Fingerprint: "fp-1"},
	}
	if err := client.RegisterDevice(ctx, req); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}

	device, ok := server.Device("dev-1")
	if !ok {
		t.Fatal("device not registered")
	}
	if device.Status != "PENDING" {
		t.Fatalf("fresh device status = %q, want PENDING", device.Status)
	}
	if device.Fingerprint != "fp-1" || device.Platform != "desktop" {
		t.Fatalf("device info not stored: %+v", device)
	}

	// Re-registration after activation must not reset the status.
	server.Activate("dev-1")
	if err := client.RegisterDevice(ctx, req); err != nil {
		t.Fatalf("RegisterDevice again: %v", err)
	}
	if device, _ := server.Device("dev-1"); device.Status != "ACTIVE" {
		t.Fatalf("re-registration reset status to %q", device.Status)
	}
}

func TestDeviceStatus(t *testing.T) {
	server := apitest.NewServer()
	client, _ := newTestClient(t, server, "dev-1")
	ctx := context.Background()

	if err := client.RegisterDevice(ctx, api.RegisterRequest{DeviceID: "dev-1"}); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	server.Activate("dev-1")
	server.SetDisplayName("dev-1", "Údržba 2")

	resp, err := client.DeviceStatus(ctx, "dev-1")
	if err != nil {
		t.Fatalf("DeviceStatus: %v", err)
	}
	if resp.Status != "ACTIVE" || resp.DisplayName != "Údržba 2" {
		t.Fatalf("unexpected status response %+v", resp)
	}
}

func TestDeviceStatus_UnknownDeviceIsStatusError(t *testing.T) {
	server := apitest.NewServer()
	client, _ := newTestClient(t, server, "dev-1")

	_, err := client.DeviceStatus(context.Background(), "missing")
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != 404 || statusErr.Operation != "device-status" {
		t.Fatalf("unexpected StatusError %+v", statusErr)
	}
}

func TestSubmitReport_MultipartRoundTrip(t *testing.T) {
	server := apitest.NewServer()
	client, _ := newTestClient(t, server, "dev-9")

	created := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	submission := api.ReportSubmission{
		Category:    api.CategoryIssue,
		Room:        204,
		Description: "Kape kohoutek",
		CreatedAt:   created,
		Photos: []api.PhotoPart{
			{Name: "photo-1.jpg", MIME: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
			{Name: "photo-2.png", MIME: "image/png", Data: []byte{0x89, 0x50}},
		},
	}
	if err := client.SubmitReport(context.Background(), submission); err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}

	reports := server.Reports()
	if len(reports) != 1 {
		t.Fatalf("stored reports = %d, want 1", len(reports))
	}
	got := reports[0]
	if got.Room != 204 || got.Type != api.CategoryIssue || got.Description != "Kape kohoutek" {
		t.Fatalf("unexpected stored report %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.DeviceID != "dev-9" {
		t.Fatalf("device header not forwarded, got %q", got.DeviceID)
	}
	if len(got.Photos) != 2 {
		t.Fatalf("photos = %d, want 2", len(got.Photos))
	}
	if got.Photos[0].MIME != "image/jpeg" || got.Photos[1].MIME != "image/png" {
		t.Fatalf("per-part content types lost: %+v", got.Photos)
	}
	if got.Photos[0].Name != "photo-1.jpg" {
		t.Fatalf("photo name = %q", got.Photos[0].Name)
	}
}

func TestOpenReports_FiltersCategoryAndDone(t *testing.T) {
	server := apitest.NewServer()
	client, _ := newTestClient(t, server, "dev-1")
	ctx := context.Background()

	submit := func(category api.ReportCategory, room int) {
		t.Helper()
		err := client.SubmitReport(ctx, api.ReportSubmission{
			Category:  category,
			Room:      room,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("SubmitReport: %v", err)
		}
	}
	submit(api.CategoryFind, 101)
	submit(api.CategoryIssue, 204)
	submit(api.CategoryFind, 305)

	items, err := client.OpenReports(ctx, api.CategoryFind)
	if err != nil {
		t.Fatalf("OpenReports: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("open FIND items = %d, want 2", len(items))
	}

	if err := client.MarkReportDone(ctx, items[0].ID); err != nil {
		t.Fatalf("MarkReportDone: %v", err)
	}
	items, err = client.OpenReports(ctx, api.CategoryFind)
	if err != nil {
		t.Fatalf("OpenReports after done: %v", err)
	}
	if len(items) != 1 || items[0].Room != 305 {
		t.Fatalf("expected only room 305 left open, got %+v", items)
	}
}

func TestBreakfastDayAndCheckIn(t *testing.T) {
	server := apitest.NewServer()
	server.SeedBreakfastDay("2024-03-01",
		api.BreakfastEntry{Room: 101, Name: "Novák", Count: 2},
		api.BreakfastEntry{Room: 102, GuestName: "Svobodová", Count: 1},
	)
	client, _ := newTestClient(t, server, "dev-1")
	ctx := context.Background()

	day, err := client.BreakfastDay(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("BreakfastDay: %v", err)
	}
	if day.Status != "FOUND" || len(day.Items) != 2 {
		t.Fatalf("unexpected day %+v", day)
	}

	missing, err := client.BreakfastDay(ctx, "2024-03-02")
	if err != nil {
		t.Fatalf("BreakfastDay missing: %v", err)
	}
	if missing.Status != "MISSING" || len(missing.Items) != 0 {
		t.Fatalf("expected MISSING day, got %+v", missing)
	}

	if err := client.BreakfastCheckIn(ctx, "2024-03-01", 101); err != nil {
		t.Fatalf("BreakfastCheckIn: %v", err)
	}
	day, err = client.BreakfastDay(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("BreakfastDay after check-in: %v", err)
	}
	for _, item := range day.Items {
		if item.Room == 101 {
			if item.CheckedAt == nil || item.CheckedBy != "dev-1" {
				t.Fatalf("check-in not recorded: %+v", item)
			}
		}
	}
}

func TestEveryCallBracketsTheIndicator(t *testing.T) {
	server := apitest.NewServer()
	server.SeedBreakfastDay("2024-03-01", api.BreakfastEntry{Room: 101, Count: 1})
	client, spy := newTestClient(t, server, "dev-1")
	ctx := context.Background()

	if err := client.RegisterDevice(ctx, api.RegisterRequest{DeviceID: "dev-1"}); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if _, err := client.DeviceStatus(ctx, "dev-1"); err != nil {
		t.Fatalf("DeviceStatus: %v", err)
	}
	if _, err := client.BreakfastDay(ctx, "2024-03-01"); err != nil {
		t.Fatalf("BreakfastDay: %v", err)
	}
	// Failed calls must end their work bracket too.
	if _, err := client.DeviceStatus(ctx, "missing"); err == nil {
		t.Fatal("expected failure for unknown device")
	}

	if len(spy.begun) != 4 {
		t.Fatalf("begun work units = %d, want 4", len(spy.begun))
	}
	if spy.openCount() != 0 {
		t.Fatalf("unbalanced work brackets, %d still open", spy.openCount())
	}
	for _, opts := range spy.begun {
		if !opts.Blocking {
			t.Fatalf("API calls must begin blocking work, got %+v", opts)
		}
	}
}
