package http

import (
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
)

const statusPage = "<!DOCTYPE html>\n" +
	"<html><head><title>%[1]d - %[2]s</title></head>" +
	"<body><header><h1>%[1]d - %[2]s</h1></header>" +
	"<section><p>%[3]s</p></section></body></html>"

// StatusPage renders the HTML document sent for every status code.
func StatusPage(code int, message string) string {
	return fmt.Sprintf(statusPage, code, http.StatusText(code), html.EscapeString(message))
}

// WriteStatusPage writes a text/html status page. It must be called at most
// once per response.
func WriteStatusPage(w http.ResponseWriter, code int, message string) {
	body := StatusPage(code, message)

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

// HandleError writes the status page for an error raised while storing an
// upload. Oversized bodies get 413, everything else a generic 500 that does
// not reveal paths or error details.
func HandleError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		WriteStatusPage(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
		return
	}

	WriteStatusPage(w, http.StatusInternalServerError, MsgUploadError)
}
