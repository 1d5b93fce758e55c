package handlers

import (
	"fmt"
	"net/http"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/services"
)

type ClientHandler struct {
	svc *services.ClientService
}

func NewClientHandler(svc *services.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: clients})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := rawFields(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Result{
		Redirect: "/clients",
		Message:  fmt.Sprintf("Client %q added successfully!", c.Name),
		Data:     c,
	})
}

// View returns the client with its dependents and balance.
func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: d})
}

func (h *ClientHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	b, err := h.svc.Balance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{Data: b})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		Redirect: clientURL(c.ID),
		Message:  fmt.Sprintf("Client %q updated successfully!", c.Name),
		Data:     c,
	})
}

// ConfirmDelete previews what a delete of the client would remove. Nothing is
// written.
func (h *ClientHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	c, deps, err := h.svc.DeletePreview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: clientURL(c.ID) + "/delete",
		Message:  fmt.Sprintf("Delete client %q and all related data?", c.Name),
		Data: struct {
			Client     any `json:"client"`
			Dependents any `json:"dependents"`
		}{c, deps},
	})
}

// Delete removes the client and everything it owns.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}
	c, report, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Result{
		Redirect: "/clients",
		Message:  fmt.Sprintf("Client %q and all related data deleted successfully!", c.Name),
		Data:     report,
	})
}
