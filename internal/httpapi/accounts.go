package httpapi

import (
	"net/http"
	"strings"

	"vaxslots/pkg/types"
)

// signupHandler godoc
// @Summary      Register a user
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      types.SignupRequest  true  "User"
// @Success      200   {object}  types.InsertResult
// @Router       /signup [post]
func signupHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SignupRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeJSON(w, "Error")
			return
		}
		res, err := accounts.CreateUser(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			logError(err, "signup")
			writeJSON(w, "Error")
			return
		}
		writeJSON(w, res)
	}
}

// loginHandler godoc
// @Summary      Check user credentials
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      types.LoginRequest  true  "Credentials"
// @Success      200   {string}  string  "Success, Failed or Error"
// @Router       /login [post]
func loginHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ok, err := accounts.CheckCredentials(r.Context(), req.Email, req.Password)
		switch {
		case err != nil:
			logError(err, "login")
			writeJSON(w, "Error")
		case ok:
			writeJSON(w, "Success")
		default:
			writeJSON(w, "Failed")
		}
	}
}
