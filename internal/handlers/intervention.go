package handlers

import (
	"net/http"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/services"
)

type InterventionHandler struct {
	svc *services.InterventionService
}

func NewInterventionHandler(svc *services.InterventionService) *InterventionHandler {
	return &InterventionHandler{svc: svc}
}

// Create logs an intervention for the client in the path.
func (h *InterventionHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	in, err := rawFields(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	i, err := h.svc.Create(r.Context(), clientID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Result{
		Redirect: clientURL(clientID),
		Message:  "Intervention logged successfully!",
		Data:     i,
	})
}

// List returns the records of the client in the path.
func (h *InterventionHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	list, err := h.svc.ListForClient(r.Context(), clientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: list})
}

func (h *InterventionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	i, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: i})
}

func (h *InterventionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	in, err := rawFields(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	i, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(i.ClientID),
		Message:  "Intervention updated successfully!",
		Data:     i,
	})
}

func (h *InterventionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	i, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(i.ClientID),
		Message:  "Intervention record deleted successfully!",
	})
}
