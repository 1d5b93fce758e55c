package handlers

import (
	"net/http"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/services"
)

type HourPurchaseHandler struct {
	svc *services.HourPurchaseService
}

func NewHourPurchaseHandler(svc *services.HourPurchaseService) *HourPurchaseHandler {
	return &HourPurchaseHandler{svc: svc}
}

// Create records an hour purchase for the client in the path.
func (h *HourPurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.svc.Create(r.Context(), clientID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Result{
		Redirect: clientURL(clientID),
		Message:  "Hour purchase recorded successfully!",
		Data:     p,
	})
}

// List returns the records of the client in the path.
func (h *HourPurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *HourPurchaseHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: p})
}

func (h *HourPurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(p.ClientID),
		Message:  "Hour purchase updated successfully!",
		Data:     p,
	})
}

func (h *HourPurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	p, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(p.ClientID),
		Message:  "Hour purchase record deleted successfully!",
	})
}
