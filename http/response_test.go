package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	camhttp "github.com/sagarc03/camupload/http"
	"github.com/stretchr/testify/assert"
)

func TestStatusPage(t *testing.T) {
	page := camhttp.StatusPage(http.StatusOK, camhttp.MsgAccepted)

	want := "<!DOCTYPE html>\n" +
		"<html><head><title>200 - OK</title></head>" +
		"<body><header><h1>200 - OK</h1></header>" +
		"<section><p>Image accepted</p></section></body></html>"
	assert.Equal(t, want, page)
}

func TestStatusPage_EscapesMessage(t *testing.T) {
	page := camhttp.StatusPage(http.StatusBadRequest, `<script>alert("x")</script>`)

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
}

func TestWriteStatusPage(t *testing.T) {
	rec := httptest.NewRecorder()

	camhttp.WriteStatusPage(rec, http.StatusMethodNotAllowed, camhttp.MsgMethodNotAllowed)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.Contains(t, rec.Body.String(), "405 - Method Not Allowed")
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "too large",
			err:     &http.MaxBytesError{Limit: 10},
			code:    http.StatusRequestEntityTooLarge,
			message: camhttp.MsgTooLarge,
		},
		{
			name:    "wrapped too large",
			err:     fmt.Errorf("could not copy file contents: %w", &http.MaxBytesError{Limit: 10}),
			code:    http.StatusRequestEntityTooLarge,
			message: camhttp.MsgTooLarge,
		},
		{
			name:    "generic",
			err:     errors.New("open /srv/images/site1: permission denied"),
			code:    http.StatusInternalServerError,
			message: camhttp.MsgUploadError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			camhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.NotContains(t, rec.Body.String(), "/srv/images")
		})
	}
}
