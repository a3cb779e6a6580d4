package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vaxslots/internal/booking"
	"vaxslots/pkg/types"
)

// outcomeHeader carries the classified booking outcome, since the body
// alone does not separate an unknown center from a store failure.
const outcomeHeader = "X-Booking-Outcome"

const (
	msgUpdated       = "Vaccination center updated successfully"
	msgUpdateFailed  = "Error updating vaccination center"
	msgRemoved       = "Vaccination center removed successfully"
	msgRemoveFailed  = "Error removing vaccination center"
	msgBooked        = "Booking successful"
	msgNoSlots       = "No available slots for booking"
	msgFetchFailed   = "Error fetching available slots"
	msgBookingFailed = "Error updating available slots"
)

// listCentersHandler godoc
// @Summary      List vaccination centers
// @Tags         centers
// @Produce      json
// @Success      200  {array}   types.Center
// @Router       /getVaccinationCenters [get]
func listCentersHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		centers, err := svc.ListCenters(r.Context())
		if err != nil {
			logError(err, "list centers")
			writeJSON(w, "Error")
			return
		}
		if centers == nil {
			centers = []types.Center{}
		}
		writeJSON(w, centers)
	}
}

// addCenterHandler godoc
// @Summary      Add a vaccination center
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        body  body      types.CenterRequest  true  "Center"
// @Success      200   {string}  string  "Success or Error"
// @Router       /addVaccinationCenter [post]
func addCenterHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CenterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if _, err := svc.AddCenter(r.Context(), req); err != nil {
			writeJSON(w, "Error")
			return
		}
		writeJSON(w, "Success")
	}
}

// updateCenterHandler godoc
// @Summary      Update a vaccination center's details
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Center ID"
// @Param        body  body      types.CenterRequest  true  "Center"
// @Success      200   {object}  types.ActionResponse
// @Router       /updateVaccinationCenter/{id} [put]
func updateCenterHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeFailure(w, msgUpdateFailed)
			return
		}
		var req types.CenterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.UpdateCenter(r.Context(), id, req); err != nil {
			writeFailure(w, msgUpdateFailed)
			return
		}
		writeJSON(w, types.ActionResponse{Success: true, Message: msgUpdated})
	}
}

// removeCenterHandler godoc
// @Summary      Remove a vaccination center
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        body  body      types.CenterRef  true  "Center reference"
// @Success      200   {object}  types.ActionResponse
// @Router       /removeVaccinationCenter [post]
func removeCenterHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CenterRef
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.RemoveCenter(r.Context(), int64(req.ID)); err != nil {
			writeFailure(w, msgRemoveFailed)
			return
		}
		writeJSON(w, types.ActionResponse{Success: true, Message: msgRemoved})
	}
}

// bookCenterHandler godoc
// @Summary      Book one slot at a vaccination center
// @Tags         centers
// @Accept       json
// @Produce      json
// @Param        body  body      types.CenterRef  true  "Center reference"
// @Success      200   {object}  types.ActionResponse
// @Header       200   {string}  X-Booking-Outcome  "success, no_slots, not_found, invalid or store_error"
// @Router       /bookVaccinationCenter [post]
func bookCenterHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CenterRef
		if !decodeJSON(w, r, &req) {
			return
		}
		// Tie the booking to both the client connection and the server lifecycle.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		_, err := svc.Book(ctx, int64(req.ID))
		w.Header().Set(outcomeHeader, booking.Outcome(err))
		switch {
		case err == nil:
			writeJSON(w, types.ActionResponse{Success: true, Message: msgBooked})
		case booking.IsNoSlots(err):
			writeFailure(w, msgNoSlots)
		case booking.IsNotFound(err), booking.IsValidation(err):
			writeFailure(w, msgFetchFailed)
		default:
			writeFailure(w, msgBookingFailed)
		}
	}
}
