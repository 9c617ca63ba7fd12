package breakfast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/hotel-staff-agent/internal/activation"
	"github.com/example/hotel-staff-agent/internal/api"
)

type breakfastAPIStub struct {
	days    map[string]api.BreakfastDayResponse
	dayErr  error
	dayReqs []string

	checkErr  error
	checkedIn []string
}

func (s *breakfastAPIStub) BreakfastDay(ctx context.Context, date string) (api.BreakfastDayResponse, error) {
	s.dayReqs = append(s.dayReqs, date)
	if s.dayErr != nil {
		return api.BreakfastDayResponse{}, s.dayErr
	}
	return s.days[date], nil
}

func (s *breakfastAPIStub) BreakfastCheckIn(ctx context.Context, date string, room int) error {
	if s.checkErr != nil {
		return s.checkErr
	}
	s.checkedIn = append(s.checkedIn, date)
	return nil
}

type breakfastViewSpy struct {
	rendered        []DayView
	loadFailures    []Date
	checkInFailures []error
}

func (v *breakfastViewSpy) RenderDay(day DayView) {
	v.rendered = append(v.rendered, day)
}

func (v *breakfastViewSpy) ShowLoadFailure(date Date) {
	v.loadFailures = append(v.loadFailures, date)
}

func (v *breakfastViewSpy) ShowCheckInFailure(err error) {
	v.checkInFailures = append(v.checkInFailures, err)
}

func (v *breakfastViewSpy) lastDay(t *testing.T) DayView {
	t.Helper()
	if len(v.rendered) == 0 {
		t.Fatal("nothing rendered")
	}
	return v.rendered[len(v.rendered)-1]
}

func active() activation.Status  { return activation.StatusActive }
func revoked() activation.Status { return activation.StatusRevoked }

func TestLoadDay_SortsAndTotals(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{
		"2024-03-01": {Items: []api.BreakfastEntry{
			{Room: 102, Count: 1},
			{Room: 101, Count: 2},
		}},
	}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 1}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}

	day := v.lastDay(t)
	if day.Status != DayFound {
		t.Fatalf("status = %v, want FOUND", day.Status)
	}
	if len(day.Entries) != 2 || day.Entries[0].Room != 101 || day.Entries[1].Room != 102 {
		t.Fatalf("entries not sorted ascending: %+v", day.Entries)
	}
	if day.Total != 3 || !day.TotalKnown {
		t.Fatalf("total = %d known=%v, want 3 known", day.Total, day.TotalKnown)
	}
}

func TestLoadDay_MissingDateRendersUnavailableTotal(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 2}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}

	day := v.lastDay(t)
	if day.Status != DayMissing {
		t.Fatalf("status = %v, want MISSING", day.Status)
	}
	if day.TotalKnown {
		t.Fatal("total must render as unavailable, not zero")
	}
	if len(v.loadFailures) != 0 {
		t.Fatal("a missing day is not a load failure")
	}
}

func TestLoadDay_ServerDeclaredStatusWins(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{
		"2024-03-03": {Status: "FOUND", Items: nil},
	}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 3}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if day := v.lastDay(t); day.Status != DayFound {
		t.Fatalf("status = %v, want FOUND from server declaration", day.Status)
	}
}

func TestLoadDay_NormalizesNames(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{
		"2024-03-01": {Items: []api.BreakfastEntry{
			{Room: 101, Name: "Novák", GuestName: "ignored", Count: 1},
			{Room: 102, GuestName: "Svobodová", Count: 1},
			{Room: 103, GuestNameAlt: "Dvořák", Count: 1},
			{Room: 104, Count: 1},
		}},
	}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 1}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}

	day := v.lastDay(t)
	want := []string{"Novák", "Svobodová", "Dvořák", ""}
	for i, entry := range day.Entries {
		if entry.Name != want[i] {
			t.Errorf("entry %d name = %q, want %q", i, entry.Name, want[i])
		}
	}
}

func TestLoadDay_FailureIsDistinctFromMissing(t *testing.T) {
	stub := &breakfastAPIStub{dayErr: &api.StatusError{StatusCode: 502, Operation: "breakfast-day"}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 1}); err == nil {
		t.Fatal("expected load error")
	}
	if len(v.rendered) != 0 {
		t.Fatal("a failed load must not replace the rendered day")
	}
	if len(v.loadFailures) != 1 {
		t.Fatalf("expected load-failure state, got %v", v.loadFailures)
	}
}

func TestLoadDay_RequiresActiveStatus(t *testing.T) {
	stub := &breakfastAPIStub{}
	w := NewWorkflow(stub, revoked, &breakfastViewSpy{}, nil)

	if err := w.LoadDay(context.Background(), Date{2024, time.March, 1}); !errors.Is(err, ErrDeviceNotActive) {
		t.Fatalf("expected ErrDeviceNotActive, got %v", err)
	}
	if len(stub.dayReqs) != 0 {
		t.Fatal("inactive device must not hit the network")
	}
}

func TestNavigate_CalendarArithmetic(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)
	ctx := context.Background()

	if err := w.LoadDay(ctx, Date{2024, time.February, 29}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if err := w.Navigate(ctx, 1); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if got := w.CurrentDate(); got != (Date{2024, time.March, 1}) {
		t.Fatalf("navigate from leap day landed on %v, want 2024-03-01", got)
	}
	if last := stub.dayReqs[len(stub.dayReqs)-1]; last != "2024-03-01" {
		t.Fatalf("fetched %q, want 2024-03-01", last)
	}
}

func TestCheckIn_ReloadsSameDay(t *testing.T) {
	stub := &breakfastAPIStub{days: map[string]api.BreakfastDayResponse{
		"2024-03-01": {Items: []api.BreakfastEntry{{Room: 101, Count: 2}}},
	}}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)
	ctx := context.Background()

	if err := w.LoadDay(ctx, Date{2024, time.March, 1}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if err := w.CheckIn(ctx, 101); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	if len(stub.checkedIn) != 1 || stub.checkedIn[0] != "2024-03-01" {
		t.Fatalf("unexpected check-in calls %v", stub.checkedIn)
	}
	// Check-in triggers a reload of the same day.
	if len(stub.dayReqs) != 2 || stub.dayReqs[1] != "2024-03-01" {
		t.Fatalf("expected reload of 2024-03-01, got %v", stub.dayReqs)
	}
}

func TestCheckIn_FailureDoesNotMutateView(t *testing.T) {
	stub := &breakfastAPIStub{
		days:     map[string]api.BreakfastDayResponse{"2024-03-01": {Items: []api.BreakfastEntry{{Room: 101, Count: 2}}}},
		checkErr: &api.StatusError{StatusCode: 500, Operation: "breakfast-check-in"},
	}
	v := &breakfastViewSpy{}
	w := NewWorkflow(stub, active, v, nil)
	ctx := context.Background()

	if err := w.LoadDay(ctx, Date{2024, time.March, 1}); err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	renders := len(v.rendered)

	if err := w.CheckIn(ctx, 101); err == nil {
		t.Fatal("expected check-in error")
	}
	if len(v.rendered) != renders {
		t.Fatal("failed check-in must not re-render the day")
	}
	if len(v.checkInFailures) != 1 {
		t.Fatalf("expected one check-in failure, got %v", v.checkInFailures)
	}
}

func TestEntryChecked(t *testing.T) {
	now := time.Now()
	if (Entry{}).Checked() {
		t.Fatal("fresh entry should not be checked")
	}
	if !(Entry{CheckedAt: &now}).Checked() {
		t.Fatal("entry with timestamp should be checked")
	}
	if !(Entry{CheckedBy: "device-1"}).Checked() {
		t.Fatal("entry with agent should be checked")
	}
}
