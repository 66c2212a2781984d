package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/microchain/foundation/validate"
	"github.com/ardanlabs/microchain/foundation/web"
)

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := struct {
			Name    string `json:"name"`
			TraceID string `json:"trace_id"`
		}{
			Name:    web.Param(r, "name"),
			TraceID: v.TraceID,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/hello/:name", h, mw("route"))

	fail := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", fail)

	r := httptest.NewRequest(http.MethodGet, "/v1/hello/bill", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"bill"`) {
		t.Logf("got: %d %s", w.Code, w.Body.String())
		t.Fatalf("Should be able to route to the grouped handler.")
	}

	if len(order) != 2 || order[0] != "app" || order[1] != "route" {
		t.Fatalf("Should run app middleware before route middleware, got %v", order)
	}

	r = httptest.NewRequest(http.MethodGet, "/fail", nil)
	app.ServeHTTP(httptest.NewRecorder(), r)

	select {
	case <-shutdown:
	default:
		t.Fatalf("Should signal shutdown on a shutdown error.")
	}
}

func Test_Decode(t *testing.T) {
	type newTx struct {
		Sender string `json:"sender" validate:"required"`
		Amount int64  `json:"amount"`
	}

	var tx newTx

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender":"A","amount":10,"extra":true}`))
	if err := web.Decode(r, &tx); err != nil {
		t.Fatalf("Should be able to decode the payload: %s", err)
	}

	if tx.Sender != "A" || tx.Amount != 10 {
		t.Fatalf("Should get back the decoded values, got %+v", tx)
	}

	tx = newTx{}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":10}`))
	if err := web.Decode(r, &tx); !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors, got %v", err)
	}

	tx = newTx{}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"ten"}`))
	if err := web.Decode(r, &tx); err == nil || validate.IsFieldErrors(err) {
		t.Fatalf("Should get back a decode error, got %v", err)
	}
}
