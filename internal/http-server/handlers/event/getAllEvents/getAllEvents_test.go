package getAllEvents

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketing/internal/http-server/handlers/event/getAllEvents/mocks"
	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/models"
)

func TestGetAllEventsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testTime := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	testEvents := []models.EventListing{
		{
			Event:     models.Event{ID: 1, Name: "Concert", VenueID: 2, Start: testTime, End: testTime.Add(3 * time.Hour)},
			VenueName: "Arena",
			Tickets: []models.TicketType{
				{EventID: 1, Type: "VIP", Price: decimal.NewFromInt(20), Availability: 50},
			},
		},
		{
			Event:     models.Event{ID: 2, Name: "Play", VenueID: 3, Start: testTime.Add(24 * time.Hour)},
			VenueName: "Theatre",
		},
	}

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.EventsGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Success with events",
			mockSetup: func(m *mocks.EventsGetter) {
				m.On("ListEvents", mock.Anything).Return(testEvents, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var response EventsResponse
				err := json.Unmarshal([]byte(body), &response)
				require.NoError(t, err)

				assert.Equal(t, "OK", response.Status)
				assert.Equal(t, "", response.Error)
				require.Len(t, response.Events, 2)
				assert.Equal(t, "Concert", response.Events[0].Name)
				assert.Equal(t, "Arena", response.Events[0].VenueName)
				require.Len(t, response.Events[0].Tickets, 1)
				assert.Equal(t, 50, response.Events[0].Tickets[0].Availability)
				assert.Equal(t, "Play", response.Events[1].Name)
			},
		},
		{
			name: "Success with empty events",
			mockSetup: func(m *mocks.EventsGetter) {
				m.On("ListEvents", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","events":[]}`,
		},
		{
			name: "Internal server error",
			mockSetup: func(m *mocks.EventsGetter) {
				m.On("ListEvents", mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get events"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewEventsGetter(t)
			tc.mockSetup(mockGetter)

			handler := New(logger, mockGetter)

			req, err := http.NewRequest(http.MethodGet, "/events/getAll", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestNilEventsResponse(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	responseOK(rr, req, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","events":[]}`, rr.Body.String())
}
