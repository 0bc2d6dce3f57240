package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/marketboost/storefront/internal/view"
)

// ViewHandler serves the rendered drawer fragments and relays drawer
// interactions back into the cart. Pages keep their copy fresh over the
// websocket; the GET endpoints exist for the initial render.
type ViewHandler struct {
	view *view.CartView
	hub  *view.Hub

	upgrader websocket.Upgrader
}

func NewViewHandler(v *view.CartView, hub *view.Hub) *ViewHandler {
	return &ViewHandler{
		view: v,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Fragments are same-site; the pages never POST over the socket.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *ViewHandler) GetDrawer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(h.view.DrawerHTML()))
}

func (h *ViewHandler) GetBadge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(h.view.BadgeHTML()))
}

func (h *ViewHandler) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	h.view.Open()
	respondJSON(w, http.StatusOK, map[string]bool{"open": h.view.IsOpen()})
}

func (h *ViewHandler) CloseDrawer(w http.ResponseWriter, r *http.Request) {
	h.view.Close()
	respondJSON(w, http.StatusOK, map[string]bool{"open": h.view.IsOpen()})
}

func (h *ViewHandler) ToggleDrawer(w http.ResponseWriter, r *http.Request) {
	h.view.Toggle()
	respondJSON(w, http.StatusOK, map[string]bool{"open": h.view.IsOpen()})
}

func (h *ViewHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	h.view.IncrementItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ViewHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	h.view.DecrementItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ViewHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	h.view.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ViewHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.view.Checkout())
}

// ServeWS upgrades the connection and seeds it with the current badge
// and drawer so a freshly opened page does not wait for the next
// mutation.
func (h *ViewHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	h.hub.Add(conn)

	seed := []view.FragmentMessage{
		{Fragment: view.FragmentBadge, HTML: h.view.BadgeHTML()},
		{Fragment: view.FragmentDrawer, HTML: h.view.DrawerHTML()},
	}
	for _, msg := range seed {
		if err := h.hub.Send(conn, msg.Fragment, msg.HTML); err != nil {
			h.hub.Remove(conn)
			return
		}
	}

	// The socket is push-only; drain reads until the client goes away.
	go func() {
		defer h.hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
