package httpapi

import (
	"net/http"
	"testing"

	"vaxslots/pkg/types"
)

func TestSignupAndLogin(t *testing.T) {
	accts := &fakeAccounts{}
	mux := NewMux(&fakeService{}, accts, nil)

	rr := do(t, mux, http.MethodPost, "/signup", `{"name":"Asha","email":"asha@example.com","password":"pw"}`)
	res := decodeBody[types.InsertResult](t, rr)
	if res.AffectedRows != 1 || res.InsertID != 1 {
		t.Fatalf("signup: %+v", res)
	}

	cases := []struct {
		body string
		want string
	}{
		{`{"email":"asha@example.com","password":"pw"}`, "Success"},
		{`{"email":"asha@example.com","password":"nope"}`, "Failed"},
		{`{"email":"ghost@example.com","password":"pw"}`, "Failed"},
	}
	for _, tc := range cases {
		if got := decodeBody[string](t, do(t, mux, http.MethodPost, "/login", tc.body)); got != tc.want {
			t.Fatalf("login %s = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestSignup_Errors(t *testing.T) {
	accts := &fakeAccounts{}
	mux := NewMux(&fakeService{}, accts, nil)

	if got := decodeBody[string](t, do(t, mux, http.MethodPost, "/signup", `{"name":"x","email":"","password":"pw"}`)); got != "Error" {
		t.Fatalf("missing email: %q", got)
	}
	do(t, mux, http.MethodPost, "/signup", `{"email":"a@b.c","password":"pw"}`)
	if got := decodeBody[string](t, do(t, mux, http.MethodPost, "/signup", `{"email":"a@b.c","password":"pw"}`)); got != "Error" {
		t.Fatalf("duplicate: %q", got)
	}
}

func TestLogin_StoreError(t *testing.T) {
	mux := NewMux(&fakeService{}, &fakeAccounts{checkErr: errStoreDown}, nil)
	if got := decodeBody[string](t, do(t, mux, http.MethodPost, "/login", `{"email":"a","password":"b"}`)); got != "Error" {
		t.Fatalf("got %q", got)
	}
}

func TestAccountsRoutesAbsentWithoutAccounts(t *testing.T) {
	mux := NewMux(&fakeService{}, nil, nil)
	if rr := do(t, mux, http.MethodPost, "/login", `{}`); rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
}
