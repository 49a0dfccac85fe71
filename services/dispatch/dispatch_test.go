package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	appointmentRepo "barberremind/database/repository/appointment"
	"barberremind/models"
)

// fakeAppointments is an in-memory AppointmentRepository.
type fakeAppointments struct {
	appts       map[string]models.Appointment
	phoneWrites map[string]string
	listErr     error
}

func newFakeAppointments(appts map[string]models.Appointment) *fakeAppointments {
	return &fakeAppointments{appts: appts, phoneWrites: make(map[string]string)}
}

func (f *fakeAppointments) ListByShopDate(ctx context.Context, shopID, date string) (map[string]models.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]models.Appointment, len(f.appts))
	for id, a := range f.appts {
		out[id] = a
	}
	return out, nil
}

func (f *fakeAppointments) SavePhone(ctx context.Context, shopID, date, apptID, phone string) error {
	f.phoneWrites[apptID] = phone
	a := f.appts[apptID]
	a.Phone = phone
	f.appts[apptID] = a
	return nil
}

func (f *fakeAppointments) MarkSent(ctx context.Context, shopID, date, apptID, providerMessageID string, at time.Time) error {
	a, ok := f.appts[apptID]
	if !ok {
		return fmt.Errorf("appointment %s not found", apptID)
	}
	if a.Sent {
		return appointmentRepo.ErrAlreadySent
	}
	a.Sent = true
	a.ProviderMessageID = providerMessageID
	a.SentAt = at.UTC().Format(time.RFC3339)
	f.appts[apptID] = a
	return nil
}

func (f *fakeAppointments) Create(ctx context.Context, shopID, date, apptID string, appt models.Appointment) error {
	f.appts[apptID] = appt
	return nil
}

// fakeShops is an in-memory ShopRepository.
type fakeShops struct {
	info  models.ShopInfo
	usage map[string]int
	total int
}

func newFakeShops(name string) *fakeShops {
	return &fakeShops{info: models.ShopInfo{Name: name}, usage: make(map[string]int)}
}

func (f *fakeShops) GetInfo(ctx context.Context, shopID string) (models.ShopInfo, error) {
	return f.info, nil
}

func (f *fakeShops) SetInfo(ctx context.Context, shopID string, info models.ShopInfo) error {
	f.info = info
	return nil
}

func (f *fakeShops) SetUsageForDate(ctx context.Context, shopID, date string, count int) error {
	f.usage[date] = count
	return nil
}

func (f *fakeShops) AddToTotal(ctx context.Context, shopID string, delta int) error {
	f.total += delta
	return nil
}

func (f *fakeShops) ListUsage(ctx context.Context) ([]models.ShopUsage, error) {
	return []models.ShopUsage{{ShopID: "s1", ShopName: f.info.Name, TotalSent: int64(f.total)}}, nil
}

// fakeGateway records sends and can fail for chosen phone numbers.
type fakeGateway struct {
	sends   []sentMessage
	failFor map[string]bool
}

type sentMessage struct {
	to   string
	body string
}

func (g *fakeGateway) Send(ctx context.Context, to, body string) (string, error) {
	if g.failFor[to] {
		return "", errors.New("gateway rejected message")
	}
	g.sends = append(g.sends, sentMessage{to: to, body: body})
	return fmt.Sprintf("SM%04d", len(g.sends)), nil
}

// heldLock always reports the lease as taken.
type heldLock struct{}

func (heldLock) Acquire(ctx context.Context, key string) (bool, error) { return false, nil }
func (heldLock) Release(ctx context.Context, key string)              {}

func newService(appts *fakeAppointments, shops *fakeShops, gw *fakeGateway) *DefaultDispatchService {
	return &DefaultDispatchService{
		Appointments:  appts,
		Shops:         shops,
		Gateway:       gw,
		CountryPrefix: "972",
		PhoneFormat:   FormatInternational,
	}
}

func TestDispatch_MissingParameters(t *testing.T) {
	svc := newService(newFakeAppointments(nil), newFakeShops("Gal"), &fakeGateway{})
	for _, req := range []models.DispatchRequest{
		{Date: "2024-01-01"},
		{ShopID: "s1"},
		{},
	} {
		if _, err := svc.Dispatch(context.Background(), req); !errors.Is(err, ErrMissingParameters) {
			t.Errorf("Dispatch(%+v): got %v, want ErrMissingParameters", req, err)
		}
	}
}

func TestDispatch_NoAppointments(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(newFakeAppointments(nil), newFakeShops("Gal"), gw)

	res, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 0 || res.Sent != 0 {
		t.Errorf("got %+v, want zero attempted and sent", res)
	}
	if res.Status == "" {
		t.Error("empty batch must carry a descriptive status")
	}
	if len(gw.sends) != 0 {
		t.Errorf("gateway called %d times for an empty batch", len(gw.sends))
	}
}

func TestDispatch_SkipsAlreadySent(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "+972501111111", Time: "10:00", Sent: true},
		"a2": {Name: "Noa", Phone: "0502222222", Time: "11:00"},
	})
	shops := newFakeShops("Gal")
	gw := &fakeGateway{}
	svc := newService(appts, shops, gw)

	res, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 2 || res.Sent != 1 || res.Skipped != 1 {
		t.Errorf("got %+v, want attempted=2 sent=1 skipped=1", res)
	}
	if len(gw.sends) != 1 {
		t.Fatalf("gateway called %d times, want 1", len(gw.sends))
	}
	if gw.sends[0].to != "+972502222222" {
		t.Errorf("sent to %q, want normalized pending appointment", gw.sends[0].to)
	}
	if shops.usage["2024-01-01"] != 1 {
		t.Errorf("usage = %d, want 1", shops.usage["2024-01-01"])
	}
	if !appts.appts["a2"].Sent || appts.appts["a2"].ProviderMessageID == "" {
		t.Errorf("pending appointment not recorded as sent: %+v", appts.appts["a2"])
	}
}

func TestDispatch_RepeatedCallIsIdempotent(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "0501111111", Time: "10:00"},
	})
	svc := newService(appts, newFakeShops("Gal"), &fakeGateway{})
	ctx := context.Background()
	req := models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"}

	if _, err := svc.Dispatch(ctx, req); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	recorded := appts.appts["a1"]

	res, err := svc.Dispatch(ctx, req)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if res.Sent != 0 || res.Attempted != 1 {
		t.Errorf("second dispatch got %+v, want sent=0 attempted=1", res)
	}
	if appts.appts["a1"] != recorded {
		t.Errorf("second dispatch changed recorded state: %+v vs %+v", appts.appts["a1"], recorded)
	}
}

func TestDispatch_GatewayFailureDoesNotAbortBatch(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "0501111111", Time: "10:00"},
		"a2": {Name: "Noa", Phone: "0502222222", Time: "11:00"},
		"a3": {Name: "Avi", Phone: "0503333333", Time: "12:00"},
	})
	gw := &fakeGateway{failFor: map[string]bool{"+972502222222": true}}
	shops := newFakeShops("Gal")
	svc := newService(appts, shops, gw)

	res, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 3 || res.Sent != 2 || res.Skipped != 1 {
		t.Errorf("got %+v, want attempted=3 sent=2 skipped=1", res)
	}
	if appts.appts["a2"].Sent {
		t.Error("failed appointment must stay pending for retry")
	}
	if !appts.appts["a1"].Sent || !appts.appts["a3"].Sent {
		t.Error("surrounding appointments must still be processed")
	}
	if shops.usage["2024-01-01"] != 2 || shops.total != 2 {
		t.Errorf("usage=%d total=%d, want 2 and 2", shops.usage["2024-01-01"], shops.total)
	}
}

func TestDispatch_CounterOverwriteAndTotalAccumulation(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "A", Phone: "0501111111", Time: "10:00"},
		"a2": {Name: "B", Phone: "0502222222", Time: "10:30"},
		"a3": {Name: "C", Phone: "0503333333", Time: "11:00"},
	})
	shops := newFakeShops("Gal")
	svc := newService(appts, shops, &fakeGateway{})
	ctx := context.Background()
	req := models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"}

	if _, err := svc.Dispatch(ctx, req); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if shops.usage["2024-01-01"] != 3 || shops.total != 3 {
		t.Fatalf("after first batch: usage=%d total=%d", shops.usage["2024-01-01"], shops.total)
	}

	// Five new bookings arrive for the same date.
	for i := 4; i <= 8; i++ {
		id := fmt.Sprintf("a%d", i)
		appts.appts[id] = models.Appointment{
			Name:  id,
			Phone: fmt.Sprintf("05044444%02d", i),
			Time:  "12:00",
		}
	}

	res, err := svc.Dispatch(ctx, req)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if res.Sent != 5 {
		t.Fatalf("second batch sent = %d, want 5", res.Sent)
	}
	if shops.usage["2024-01-01"] != 5 {
		t.Errorf("per-date usage = %d, want overwrite to 5", shops.usage["2024-01-01"])
	}
	if shops.total != 8 {
		t.Errorf("cumulative total = %d, want 8", shops.total)
	}
}

func TestDispatch_SkipsAppointmentsWithMissingFields(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Time: "10:00"},            // no phone
		"a2": {Name: "Noa", Phone: "0502222222"},      // no time
		"a3": {Name: "Avi", Phone: " ", Time: "12:00"}, // blank phone
	})
	gw := &fakeGateway{}
	svc := newService(appts, newFakeShops("Gal"), gw)

	res, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempted != 3 || res.Sent != 0 || res.Skipped != 3 {
		t.Errorf("got %+v, want all skipped", res)
	}
	if len(gw.sends) != 0 {
		t.Errorf("gateway called %d times", len(gw.sends))
	}
	for id, a := range appts.appts {
		if a.Sent {
			t.Errorf("invalid appointment %s was marked sent", id)
		}
	}
}

func TestDispatch_CachesCanonicalPhone(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "050-111 1111", Time: "10:00"},
	})
	svc := newService(appts, newFakeShops("Gal"), &fakeGateway{})

	if _, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := appts.phoneWrites["a1"]; got != "+972501111111" {
		t.Errorf("canonical phone write = %q, want +972501111111", got)
	}
}

func TestDispatch_TemplateResolution(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "0501111111", Time: "10:00"},
	})
	gw := &fakeGateway{}
	svc := newService(appts, newFakeShops("Gal"), gw)
	svc.DefaultTemplate = "default for {{name}}"

	req := models.DispatchRequest{ShopID: "s1", Date: "2024-01-01", Template: "custom {{name}} {{time}} with {{barber}}"}
	if _, err := svc.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.sends[0].body != "custom Dan 10:00 with Gal" {
		t.Errorf("caller template not used: %q", gw.sends[0].body)
	}

	appts.appts["a1"] = models.Appointment{Name: "Dan", Phone: "0501111111", Time: "10:00"}
	req.Template = ""
	if _, err := svc.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.sends[1].body != "default for Dan" {
		t.Errorf("configured default not used: %q", gw.sends[1].body)
	}
}

func TestDispatch_LockHeld(t *testing.T) {
	svc := newService(newFakeAppointments(nil), newFakeShops("Gal"), &fakeGateway{})
	svc.Lock = heldLock{}

	_, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"})
	if !errors.Is(err, ErrDispatchInProgress) {
		t.Errorf("got %v, want ErrDispatchInProgress", err)
	}
}

func TestDispatch_ListErrorSurfaces(t *testing.T) {
	appts := newFakeAppointments(nil)
	appts.listErr = errors.New("store unreachable")
	svc := newService(appts, newFakeShops("Gal"), &fakeGateway{})

	if _, err := svc.Dispatch(context.Background(), models.DispatchRequest{ShopID: "s1", Date: "2024-01-01"}); err == nil {
		t.Error("store failure on load must surface to the caller")
	}
}

func TestDispatch_BarberNameFallback(t *testing.T) {
	appts := newFakeAppointments(map[string]models.Appointment{
		"a1": {Name: "Dan", Phone: "0501111111", Time: "10:00"},
	})
	gw := &fakeGateway{}
	svc := newService(appts, newFakeShops(""), gw)

	req := models.DispatchRequest{ShopID: "s1", Date: "2024-01-01", Template: "by {{barber}}"}
	if _, err := svc.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gw.sends[0].body, FallbackShopName) {
		t.Errorf("message %q does not use the fallback shop name", gw.sends[0].body)
	}
}
