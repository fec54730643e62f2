package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"slug": "rode-rozen"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data["slug"] != "rode-rozen" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation",
			err:     pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"),
			status:  http.StatusBadRequest,
			code:    string(pkgerrors.CodeValidation),
			message: "quantity must be positive",
		},
		{
			name:   "not found",
			err:    pkgerrors.New(pkgerrors.CodeNotFound, "order not found"),
			status: http.StatusNotFound,
			code:   string(pkgerrors.CodeNotFound),
		},
		{
			name:   "state conflict",
			err:    pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered"),
			status: http.StatusUnprocessableEntity,
			code:   string(pkgerrors.CodeStateConflict),
		},
		{
			name:    "untyped error hides the message",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    string(pkgerrors.CodeInternal),
			message: "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			var envelope types.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if envelope.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, envelope.Error.Code)
			}
			if tc.message != "" && envelope.Error.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, envelope.Error.Message)
			}
		})
	}
}

func TestWriteCSVHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCSV(rec, "orders-2026-08-30.csv", []byte("number\nORD-2026-000001\n"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="orders-2026-08-30.csv"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if rec.Body.String() != "number\nORD-2026-000001\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
