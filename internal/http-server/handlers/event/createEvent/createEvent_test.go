package createEvent

import (
	"bytes"
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

	"ticketing/internal/http-server/handlers/event/createEvent/mocks"
	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/models"
	"ticketing/internal/services/event"
	"ticketing/internal/storage"
)

const validBody = `{
	"event_name": "Concert",
	"event_start": "2026-09-01T19:00:00Z",
	"event_end": "2026-09-01T22:00:00Z",
	"description": "Live music",
	"event_type": "music",
	"venue_id": 2,
	"tickets": [
		{"ticket_type": "VIP", "price": 20, "availability": 50},
		{"ticket_type": "General", "price": "9.99", "availability": 200}
	]
}`

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	organizer := models.Identity{ID: 3, Role: models.RoleOrganizer}

	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	matchesCommand := mock.MatchedBy(func(cmd event.CreateCommand) bool {
		return cmd.Name == "Concert" &&
			cmd.VenueID == 2 &&
			cmd.Start.Equal(start) &&
			cmd.End.Equal(start.Add(3*time.Hour)) &&
			len(cmd.Tickets) == 2 &&
			cmd.Tickets[0].Price.Equal(decimal.NewFromInt(20)) &&
			cmd.Tickets[1].Price.Equal(decimal.RequireFromString("9.99")) &&
			cmd.Tickets[1].Availability == 200
	})

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.EventCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, organizer, matchesCommand).Return(models.EventListing{
					Event:     models.Event{ID: 123, Name: "Concert", VenueID: 2, OrganizerID: 3},
					VenueName: "Arena",
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp EventResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, "Event created successfully.", resp.Message)
				assert.Equal(t, int64(123), resp.Event.ID)
				assert.Equal(t, "Arena", resp.Event.VenueName)
			},
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name: "Invalid date format",
			requestBody: `{
				"event_name": "Concert",
				"event_start": "tomorrow",
				"event_end": "2026-09-01T22:00:00Z",
				"description": "Live music",
				"venue_id": 2,
				"tickets": [{"ticket_type": "VIP", "price": 20, "availability": 50}]
			}`,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:        "Venue already booked",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, organizer, matchesCommand).
					Return(models.EventListing{}, storage.ErrVenueConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"venue is already booked for this time"}`,
		},
		{
			name:        "End before start",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, organizer, matchesCommand).
					Return(models.EventListing{}, errors.Join(event.ErrInvalidEvent, errors.New("event end must be after event start")))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Unknown venue",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, organizer, matchesCommand).
					Return(models.EventListing{}, storage.ErrVenueNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"venue not found"}`,
		},
		{
			name:        "Internal server error",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, organizer, matchesCommand).
					Return(models.EventListing{}, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to add event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			tc.mockSetup(mockCreator)

			handler := New(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/events/createEvent", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithIdentity(req.Context(), organizer))

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

func TestResponseCreated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	responseCreated(rr, req, models.EventListing{Event: models.Event{ID: 456}})

	assert.Equal(t, http.StatusCreated, rr.Code)

	var actualResponse EventResponse
	err := json.Unmarshal(rr.Body.Bytes(), &actualResponse)
	require.NoError(t, err)

	assert.Equal(t, "OK", actualResponse.Status)
	assert.Equal(t, "", actualResponse.Error)
	assert.Equal(t, int64(456), actualResponse.Event.ID)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	mockCreator := mocks.NewEventCreator(t)
	handler := New(logger, mockCreator)

	testCases := []struct {
		name           string
		requestBody    string
		expectedFields []string
	}{
		{
			name:           "Missing all required fields",
			requestBody:    `{}`,
			expectedFields: []string{"Name", "Start", "End", "Description", "VenueID", "Tickets"},
		},
		{
			name: "No ticket types",
			requestBody: `{
				"event_name": "Concert",
				"event_start": "2026-09-01T19:00:00Z",
				"event_end": "2026-09-01T22:00:00Z",
				"description": "Live music",
				"venue_id": 2,
				"tickets": []
			}`,
			expectedFields: []string{"Tickets"},
		},
		{
			name: "Ticket without label",
			requestBody: `{
				"event_name": "Concert",
				"event_start": "2026-09-01T19:00:00Z",
				"event_end": "2026-09-01T22:00:00Z",
				"description": "Live music",
				"venue_id": 2,
				"tickets": [{"price": 20, "availability": 50}]
			}`,
			expectedFields: []string{"Type"},
		},
		{
			name: "Negative availability",
			requestBody: `{
				"event_name": "Concert",
				"event_start": "2026-09-01T19:00:00Z",
				"event_end": "2026-09-01T22:00:00Z",
				"description": "Live music",
				"venue_id": 2,
				"tickets": [{"ticket_type": "VIP", "price": 20, "availability": -1}]
			}`,
			expectedFields: []string{"Availability"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/events/createEvent", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithIdentity(req.Context(), models.Identity{ID: 3, Role: models.RoleOrganizer}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			body := rr.Body.String()
			assert.Contains(t, body, `"status":"Error"`)
			for _, field := range tc.expectedFields {
				assert.Contains(t, body, field)
			}
		})
	}
}
