package errmap

import (
	"errors"
	"net/http"
	"strings"

	"ticketing/internal/inventory"
	"ticketing/internal/lib/jwt"
	"ticketing/internal/pricing"
	"ticketing/internal/services/auth"
	"ticketing/internal/services/booking"
	"ticketing/internal/services/event"
	"ticketing/internal/services/payment"
	"ticketing/internal/storage"
	"ticketing/internal/venue"
)

// InternalMessage is returned to clients instead of the detail of an unexpected error.
const InternalMessage = "internal server error"

type kind struct {
	errs   []error
	status int
}

var kinds = []kind{
	// not found or not owned by the caller
	{
		errs: []error{
			storage.ErrEventNotFound,
			storage.ErrVenueNotFound,
			storage.ErrTicketTypeNotFound,
			storage.ErrBookingNotFound,
			storage.ErrPaymentNotFound,
			storage.ErrUserNotFound,
		},
		status: http.StatusNotFound,
	},
	// invalid input
	{
		errs: []error{
			booking.ErrInvalidBooking,
			payment.ErrInvalidPayment,
			event.ErrInvalidEvent,
			auth.ErrInvalidUser,
			pricing.ErrInvalidQuantity,
			inventory.ErrInvalidQuantity,
			venue.ErrInvalidInterval,
		},
		status: http.StatusBadRequest,
	},
	// conflicts
	{
		errs: []error{
			storage.ErrInsufficientInventory,
			storage.ErrVenueConflict,
			storage.ErrUserExists,
			storage.ErrTicketTypeExists,
			booking.ErrBookingNotEditable,
			payment.ErrAlreadyPaid,
			payment.ErrInsufficientPayment,
		},
		status: http.StatusBadRequest,
	},
	{
		errs: []error{
			auth.ErrInvalidCredentials,
		},
		status: http.StatusUnauthorized,
	},
	{
		errs: []error{
			jwt.ErrInvalidToken,
			event.ErrForbidden,
			payment.ErrForbidden,
		},
		status: http.StatusForbidden,
	},
}

// Status maps an error returned by the services to an HTTP status and the
// message shown to the client. Business conflicts are reported as 400; handlers
// that need 409 check for the sentinel first. Unknown errors map to 500 with a
// generic message.
func Status(err error) (int, string) {
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.status, message(err, target)
			}
		}
	}

	return http.StatusInternalServerError, InternalMessage
}

// message drops the operation prefixes added while the error travelled up,
// keeping the sentinel text and any detail appended after it.
func message(err, target error) string {
	msg := err.Error()
	if i := strings.Index(msg, target.Error()); i >= 0 {
		return msg[i:]
	}

	return target.Error()
}
