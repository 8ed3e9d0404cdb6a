package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aalvaropc/railbook/internal/domain"
)

const maxBodyBytes = 1 << 16

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &domain.OpError{Op: "httpapi.decode", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}
	return nil
}

func (a *API) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	id, err := a.deps.Accounts.SignUp(req.Name, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, statusBody{Status: "signup_success", UserID: id})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	id, err := a.deps.Accounts.Login(req.Name, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusBody{Status: "login_success", UserID: id})
}

func (a *API) listTrains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, trainsBody{Trains: toTrainDTOs(a.deps.Trains.List())})
}

func (a *API) searchTrains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trains, err := a.deps.Trains.Search(q.Get("source"), q.Get("destination"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainsBody{Trains: toTrainDTOs(trains)})
}

func (a *API) getTrain(w http.ResponseWriter, r *http.Request) {
	t, err := a.deps.Trains.Get(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrainDTO(t))
}

func (a *API) book(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	t, err := a.deps.Bookings.Book(req.UserID, req.TrainID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTicketDTO(t))
}

func (a *API) listBookings(w http.ResponseWriter, r *http.Request) {
	tickets, err := a.deps.Bookings.List(mux.Vars(r)["userId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]ticketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketDTO(t))
	}
	writeJSON(w, http.StatusOK, ticketsBody{Tickets: out})
}

func (a *API) cancel(w http.ResponseWriter, r *http.Request) {
	err := a.deps.Bookings.Cancel(mux.Vars(r)["ticketId"], r.URL.Query().Get("userId"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusBody{Status: "cancelled"})
}
