package events_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientevents "carmarket/internal/client/events"
	"carmarket/internal/inventory/domain/entities"
)

func streamServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, frame := range frames {
			_, _ = fmt.Fprint(w, frame)
			flusher.Flush()
		}

		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	return server
}

func receive(t *testing.T, snapshots <-chan []*entities.Car) []*entities.Car {
	t.Helper()

	select {
	case cars, ok := <-snapshots:
		require.True(t, ok, "channel closed before a snapshot arrived")
		return cars
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	server := streamServer(t, []string{
		"event: carUpdated\ndata: [{\"id\":\"car-1\"},{\"id\":\"car-2\"}]\n\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := clientevents.NewSubscriber(server.URL, server.Client())

	snapshots, err := subscriber.Subscribe(ctx)
	require.NoError(t, err)

	cars := receive(t, snapshots)
	require.Len(t, cars, 2)
	assert.Equal(t, "car-1", cars[0].ID)
	assert.Equal(t, "car-2", cars[1].ID)
}

func TestSubscribeIgnoresOtherEvents(t *testing.T) {
	server := streamServer(t, []string{
		"event: ping\ndata: {}\n\n",
		"event: carUpdated\ndata: [{\"id\":\"car-1\"}]\n\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := clientevents.NewSubscriber(server.URL, server.Client())

	snapshots, err := subscriber.Subscribe(ctx)
	require.NoError(t, err)

	cars := receive(t, snapshots)
	require.Len(t, cars, 1)
	assert.Equal(t, "car-1", cars[0].ID)
}

func TestSubscribeSkipsMalformedPayload(t *testing.T) {
	server := streamServer(t, []string{
		"event: carUpdated\ndata: not-json\n\n",
		"event: carUpdated\ndata: [{\"id\":\"car-1\"}]\n\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriber := clientevents.NewSubscriber(server.URL, server.Client())

	snapshots, err := subscriber.Subscribe(ctx)
	require.NoError(t, err)

	cars := receive(t, snapshots)
	require.Len(t, cars, 1)
	assert.Equal(t, "car-1", cars[0].ID)
}

func TestSubscribeRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	subscriber := clientevents.NewSubscriber(server.URL, server.Client())

	snapshots, err := subscriber.Subscribe(context.Background())
	require.Error(t, err)
	assert.Nil(t, snapshots)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestSubscribeClosesChannelOnContextCancel(t *testing.T) {
	server := streamServer(t, []string{
		"event: carUpdated\ndata: [{\"id\":\"car-1\"}]\n\n",
	})

	ctx, cancel := context.WithCancel(context.Background())

	subscriber := clientevents.NewSubscriber(server.URL, server.Client())

	snapshots, err := subscriber.Subscribe(ctx)
	require.NoError(t, err)

	receive(t, snapshots)

	cancel()

	select {
	case _, ok := <-snapshots:
		assert.False(t, ok, "channel must close after context cancel")
	case <-time.After(3 * time.Second):
		t.Fatal("channel did not close after context cancel")
	}
}
