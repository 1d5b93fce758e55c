package handlers

import (
	"net/http"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/services"
)

type ContractHandler struct {
	svc *services.ContractService
}

func NewContractHandler(svc *services.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

// Create adds a contract to the client in the path.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	c, err := h.svc.Create(r.Context(), clientID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Result{
		Redirect: clientURL(clientID),
		Message:  "Contract added successfully!",
		Data:     c,
	})
}

// List returns the records of the client in the path.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *ContractHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: c})
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	c, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(c.ClientID),
		Message:  "Contract updated successfully!",
		Data:     c,
	})
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	c, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(c.ClientID),
		Message:  "Contract deleted successfully!",
	})
}
