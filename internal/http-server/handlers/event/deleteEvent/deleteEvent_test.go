package deleteEvent

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ticketing/internal/http-server/handlers/event/deleteEvent/mocks"
	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/models"
	"ticketing/internal/services/event"
	"ticketing/internal/storage"
)

func TestDeleteEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	admin := models.Identity{ID: 1, Role: models.RoleAdmin}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.EventDeleter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: "10",
			mockSetup: func(m *mocks.EventDeleter) {
				m.On("DeleteEvent", mock.Anything, admin, int64(10)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","message":"Event deleted successfully."}`,
		},
		{
			name:           "Invalid event id",
			eventID:        "x",
			mockSetup:      func(m *mocks.EventDeleter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id format"}`,
		},
		{
			name:    "Not found",
			eventID: "10",
			mockSetup: func(m *mocks.EventDeleter) {
				m.On("DeleteEvent", mock.Anything, admin, int64(10)).Return(storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Forbidden",
			eventID: "10",
			mockSetup: func(m *mocks.EventDeleter) {
				m.On("DeleteEvent", mock.Anything, admin, int64(10)).Return(event.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only the organizer of the event or an admin may change it"}`,
		},
		{
			name:    "Internal server error",
			eventID: "10",
			mockSetup: func(m *mocks.EventDeleter) {
				m.On("DeleteEvent", mock.Anything, admin, int64(10)).Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to delete event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockDeleter := mocks.NewEventDeleter(t)
			tc.mockSetup(mockDeleter)

			router := chi.NewRouter()
			router.Delete("/events/deleteEvent/{event_id}", New(logger, mockDeleter))

			req := httptest.NewRequest(http.MethodDelete, "/events/deleteEvent/"+tc.eventID, nil)
			req = req.WithContext(mwauth.WithIdentity(req.Context(), admin))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
