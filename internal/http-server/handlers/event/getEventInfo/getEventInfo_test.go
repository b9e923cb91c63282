package getEventInfo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketing/internal/http-server/handlers/event/getEventInfo/mocks"
	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/models"
	"ticketing/internal/storage"
)

func TestGetEventInfoHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testTime := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	testEvent := models.EventListing{
		Event:         models.Event{ID: 1, Name: "Concert", VenueID: 2, Start: testTime, End: testTime.Add(3 * time.Hour)},
		VenueName:     "Arena",
		VenueLocation: "Main st. 1",
		Tickets: []models.TicketType{
			{EventID: 1, Type: "VIP", Price: decimal.NewFromInt(20), Availability: 50},
			{EventID: 1, Type: "General", Price: decimal.NewFromInt(10), Availability: 200},
		},
	}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.EventGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "Success with ticket types",
			eventID: "1",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("Event", mock.Anything, int64(1)).Return(testEvent, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var response EventInfoResponse
				err := json.Unmarshal([]byte(body), &response)
				require.NoError(t, err)

				assert.Equal(t, "OK", response.Status)
				require.NotNil(t, response.Event)
				assert.Equal(t, int64(1), response.Event.ID)
				assert.Equal(t, "Arena", response.Event.VenueName)
				require.Len(t, response.Event.Tickets, 2)
				assert.Equal(t, "General", response.Event.Tickets[1].Type)
			},
		},
		{
			name:           "Invalid event ID format",
			eventID:        "invalid",
			mockSetup:      func(m *mocks.EventGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id format"}`,
		},
		{
			name:    "Event not found",
			eventID: "999",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("Event", mock.Anything, int64(999)).
					Return(models.EventListing{}, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Internal server error",
			eventID: "1",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("Event", mock.Anything, int64(1)).Return(models.EventListing{}, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get event information"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewEventGetter(t)
			tc.mockSetup(mockGetter)

			router := chi.NewRouter()
			router.Get("/events/{event_id}", New(logger, mockGetter))

			req, err := http.NewRequest(http.MethodGet, "/events/"+tc.eventID, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestHandlerWithoutChiContext(t *testing.T) {
	t.Parallel()

	handler := New(slogdiscard.NewDiscardLogger(), mocks.NewEventGetter(t))

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "event id is required")
}

func TestHandlerWithChiContext(t *testing.T) {
	t.Parallel()

	mockGetter := mocks.NewEventGetter(t)
	handler := New(slogdiscard.NewDiscardLogger(), mockGetter)

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("event_id", "123")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	mockGetter.On("Event", mock.Anything, int64(123)).Return(models.EventListing{Event: models.Event{ID: 123}}, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
