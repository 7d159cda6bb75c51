package http

import (
	"net/http"

	"github.com/robertarktes/lumiere-hotel/internal/auth"
)

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid JSON body")
		return
	}

	res, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.SignInInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid JSON body")
		return
	}

	res, err := h.auth.SignIn(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
