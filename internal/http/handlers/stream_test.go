package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/broadcast"
	"courier-dispatch/internal/domain"
	mw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

type stubSnapshots struct {
	pending func(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error)
	get     func(ctx context.Context, id string) (domain.Order, error)
}

func (s stubSnapshots) ListPending(ctx context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
	return s.pending(ctx, class)
}

func (s stubSnapshots) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.get(ctx, id)
}

type sseEvent struct {
	name string
	data string
}

// readEvents parses the SSE body until n named events arrive or the stream ends.
func readEvents(t *testing.T, body *bufio.Reader, n int) []sseEvent {
	t.Helper()

	var (
		out []sseEvent
		cur sseEvent
	)
	for len(out) < n {
		line, err := body.ReadString('\n')
		if err != nil {
			return out
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		case line == "" && cur.name != "":
			out = append(out, cur)
			cur = sseEvent{}
		}
	}
	return out
}

type stubCouriers struct {
	mu      sync.Mutex
	records map[string]domain.Availability
}

func (s *stubCouriers) Get(_ context.Context, courierID string) (domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.records[courierID]
	if !ok {
		return domain.Availability{}, apperr.ErrNotFound
	}
	return a, nil
}

func (s *stubCouriers) set(a domain.Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[a.CourierID] = a
}

func newStreamServer(t *testing.T, hub *broadcast.Hub, snaps snapshotSource) *httptest.Server {
	t.Helper()
	return newCourierStreamServer(t, hub, snaps, nil, time.Hour)
}

func newCourierStreamServer(
	t *testing.T,
	hub *broadcast.Hub,
	snaps snapshotSource,
	couriers availabilityReader,
	keepAlive time.Duration,
) *httptest.Server {
	t.Helper()

	h := NewStreamHandler(hub, snaps, couriers, keepAlive, nil)
	r := chi.NewRouter()
	r.Use(mw.Identity(logx.Nop()))
	r.Get("/stream/pending", h.Pending)
	r.Get("/stream/orders/{id}", h.Order)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func openStream(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	return openStreamAs(t, url, "", "")
}

func openStreamAs(t *testing.T, url, callerID string, role mw.Role) *bufio.Reader {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if callerID != "" {
		req.Header.Set(mw.HeaderCallerID, callerID)
		req.Header.Set(mw.HeaderCallerRole, string(role))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

func TestStreamHandler_PendingSnapshotThenEvents(t *testing.T) {
	t.Parallel()

	hub := broadcast.NewHub(8, nil, nil)
	called := make(chan struct{}, 1)
	srv := newStreamServer(t, hub, stubSnapshots{
		pending: func(_ context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
			called <- struct{}{}
			return []domain.Order{sampleOrder("o-old", domain.StatusPending)}, nil
		},
	})

	body := openStream(t, srv.URL+"/stream/pending?vehicle_class=moto")
	<-called

	evs := readEvents(t, body, 1)
	require.Len(t, evs, 1)
	require.Equal(t, "snapshot", evs[0].name)
	var snap []orderDTO
	require.NoError(t, json.Unmarshal([]byte(evs[0].data), &snap))
	require.Len(t, snap, 1)
	require.Equal(t, "o-old", snap[0].ID)

	cargo := sampleOrder("o-cargo", domain.StatusPending)
	cargo.VehicleClass = domain.VehicleMotoCarguero
	require.NoError(t, hub.PublishNewPending(context.Background(), cargo))
	require.NoError(t, hub.PublishNewPending(context.Background(), sampleOrder("o-new", domain.StatusPending)))
	require.NoError(t, hub.PublishStatusChange(context.Background(), sampleOrder("o-new", domain.StatusAccepted)))

	evs = readEvents(t, body, 2)
	require.Len(t, evs, 2)
	require.Equal(t, string(broadcast.EventPending), evs[0].name)
	require.Contains(t, evs[0].data, `"id":"o-new"`)
	require.Equal(t, string(broadcast.EventRetracted), evs[1].name)
	require.Contains(t, evs[1].data, `"status":"accepted"`)
}

func TestStreamHandler_ResyncAfterEviction(t *testing.T) {
	t.Parallel()

	hub := broadcast.NewHub(1, nil, nil)
	called := make(chan struct{})
	release := make(chan struct{})
	srv := newStreamServer(t, hub, stubSnapshots{
		pending: func(context.Context, *domain.VehicleClass) ([]domain.Order, error) {
			close(called)
			<-release
			return nil, nil
		},
	})

	respCh := make(chan *bufio.Reader, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/stream/pending", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			close(respCh)
			return
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		respCh <- bufio.NewReader(resp.Body)
	}()

	// подписка уже создана, а снапшот ещё не отдан: переполняем буфер
	<-called
	for i := 0; i < 3; i++ {
		require.NoError(t, hub.PublishNewPending(context.Background(), sampleOrder("o-flood", domain.StatusPending)))
	}
	require.Equal(t, 0, hub.Subscribers())
	close(release)

	body, ok := <-respCh
	require.True(t, ok)
	evs := readEvents(t, body, 4)
	require.Len(t, evs, 3)
	require.Equal(t, "snapshot", evs[0].name)
	require.Equal(t, string(broadcast.EventPending), evs[1].name)
	require.Equal(t, "resync", evs[2].name)
}

func TestStreamHandler_OrderEndsOnTerminalStatus(t *testing.T) {
	t.Parallel()

	hub := broadcast.NewHub(8, nil, nil)
	called := make(chan struct{}, 1)
	srv := newStreamServer(t, hub, stubSnapshots{
		get: func(_ context.Context, id string) (domain.Order, error) {
			called <- struct{}{}
			return sampleOrder(id, domain.StatusAccepted), nil
		},
	})

	body := openStream(t, srv.URL+"/stream/orders/o-1")
	<-called

	for _, st := range []domain.OrderStatus{domain.StatusInTransit, domain.StatusDelivered} {
		require.NoError(t, hub.PublishStatusChange(context.Background(), sampleOrder("o-1", st)))
	}

	evs := readEvents(t, body, 10)
	require.Len(t, evs, 3)
	require.Equal(t, "snapshot", evs[0].name)
	require.Contains(t, evs[1].data, `"status":"in_transit"`)
	require.Contains(t, evs[2].data, `"status":"delivered"`)
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStreamHandler_OrderNotFound(t *testing.T) {
	t.Parallel()

	hub := broadcast.NewHub(8, nil, nil)
	srv := newStreamServer(t, hub, stubSnapshots{
		get: func(context.Context, string) (domain.Order, error) {
			return domain.Order{}, apperr.ErrNotFound
		},
	})

	resp, err := http.Get(srv.URL + "/stream/orders/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func pendingAs(t *testing.T, url, callerID string, role mw.Role) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set(mw.HeaderCallerID, callerID)
	req.Header.Set(mw.HeaderCallerRole, string(role))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestStreamHandler_PendingRejectsIneligibleCallers(t *testing.T) {
	t.Parallel()

	cargo := domain.VehicleMotoCarguero
	couriers := &stubCouriers{records: map[string]domain.Availability{
		"off-duty": {CourierID: "off-duty", Available: false},
		"cargo":    {CourierID: "cargo", Available: true, VehicleClass: &cargo},
	}}
	hub := broadcast.NewHub(8, nil, nil)
	srv := newCourierStreamServer(t, hub, stubSnapshots{
		pending: func(context.Context, *domain.VehicleClass) ([]domain.Order, error) {
			t.Error("snapshot must not be read for an ineligible caller")
			return nil, nil
		},
	}, couriers, time.Hour)

	tests := []struct {
		name   string
		query  string
		caller string
		role   mw.Role
	}{
		{"courier without record", "?vehicle_class=moto_carguero", "ghost", mw.RoleCourier},
		{"offline courier", "?vehicle_class=moto_carguero", "off-duty", mw.RoleCourier},
		{"class mismatch", "?vehicle_class=moto", "cargo", mw.RoleCourier},
		{"client", "", "client-1", mw.RoleClient},
	}
	for _, tt := range tests {
		require.Equalf(t, http.StatusForbidden, pendingAs(t, srv.URL+"/stream/pending"+tt.query, tt.caller, tt.role), tt.name)
	}
	require.Zero(t, hub.Subscribers())
}

func TestStreamHandler_PendingScopedToRegisteredClass(t *testing.T) {
	t.Parallel()

	cargo := domain.VehicleMotoCarguero
	couriers := &stubCouriers{records: map[string]domain.Availability{
		"cargo": {CourierID: "cargo", Available: true, VehicleClass: &cargo},
	}}
	hub := broadcast.NewHub(8, nil, nil)
	snapClass := make(chan *domain.VehicleClass, 1)
	srv := newCourierStreamServer(t, hub, stubSnapshots{
		pending: func(_ context.Context, class *domain.VehicleClass) ([]domain.Order, error) {
			snapClass <- class
			return nil, nil
		},
	}, couriers, time.Hour)

	body := openStreamAs(t, srv.URL+"/stream/pending", "cargo", mw.RoleCourier)
	got := <-snapClass
	require.NotNil(t, got)
	require.Equal(t, cargo, *got)
	require.Len(t, readEvents(t, body, 1), 1)

	moto := sampleOrder("o-moto", domain.StatusPending)
	big := sampleOrder("o-cargo", domain.StatusPending)
	big.VehicleClass = cargo
	require.NoError(t, hub.PublishNewPending(context.Background(), moto))
	require.NoError(t, hub.PublishNewPending(context.Background(), big))

	evs := readEvents(t, body, 1)
	require.Len(t, evs, 1)
	require.Contains(t, evs[0].data, `"id":"o-cargo"`)
}

func TestStreamHandler_PendingEndsWhenCourierGoesOffline(t *testing.T) {
	t.Parallel()

	moto := domain.VehicleMoto
	couriers := &stubCouriers{records: map[string]domain.Availability{
		"c-1": {CourierID: "c-1", Available: true, VehicleClass: &moto},
	}}
	hub := broadcast.NewHub(8, nil, nil)
	srv := newCourierStreamServer(t, hub, stubSnapshots{
		pending: func(context.Context, *domain.VehicleClass) ([]domain.Order, error) { return nil, nil },
	}, couriers, time.Hour)

	body := openStreamAs(t, srv.URL+"/stream/pending", "c-1", mw.RoleCourier)
	require.Len(t, readEvents(t, body, 1), 1)

	require.Eventually(t, func() bool { return hub.CloseCourier("c-1") == 1 }, time.Second, 10*time.Millisecond)
	require.Empty(t, readEvents(t, body, 1))
	require.NoError(t, hub.PublishNewPending(context.Background(), sampleOrder("o-late", domain.StatusPending)))
	require.Zero(t, hub.Subscribers())
}

func TestStreamHandler_PendingRecheckClosesStaleCourier(t *testing.T) {
	t.Parallel()

	moto := domain.VehicleMoto
	couriers := &stubCouriers{records: map[string]domain.Availability{
		"c-2": {CourierID: "c-2", Available: true, VehicleClass: &moto},
	}}
	hub := broadcast.NewHub(8, nil, nil)
	srv := newCourierStreamServer(t, hub, stubSnapshots{
		pending: func(context.Context, *domain.VehicleClass) ([]domain.Order, error) { return nil, nil },
	}, couriers, 20*time.Millisecond)

	body := openStreamAs(t, srv.URL+"/stream/pending", "c-2", mw.RoleCourier)
	require.Len(t, readEvents(t, body, 1), 1)

	// другой инстанс перевёл курьера в offline, локальный hub об этом не знает
	couriers.set(domain.Availability{CourierID: "c-2", Available: false})
	require.Empty(t, readEvents(t, body, 1))
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}
