// Package http provides the HTTP front end of the camupload image server.
//
// Every path and every method reach the same Handler:
//
//   - POST stores the body as a JPEG under
//     <base>/<site>/<camera>/YYYY/MM/DD/HH/YYYYMMDD-HHMMSS-uuuuuu.jpg,
//     where site and camera are the first two path segments
//   - GET answers with a "ready" status page
//   - HEAD answers 200 with no body
//   - anything else gets 405 with an Allow header
//
// Responses are small HTML status pages; see StatusPage.
//
// # Authentication
//
// Uploads are checked by a camupload.Authenticator before the content type is
// looked at. A token authenticator rejects with 400, a basic authenticator
// rejects with 401 and a WWW-Authenticate challenge:
//
//	auth := camupload.NewTokenAuth("s3cret")
//	// or
//	auth := camupload.NewBasicAuth("camupload", keybackend.NewMapCredentialStore(users))
//
// # Usage
//
//	root, _ := os.OpenRoot("/srv/images")
//	store := filesystem.NewFileStorage(root)
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Authenticator: auth,
//	    Logger:        logger,
//	    Metrics:       metrics.NewCollector(),
//	    MaxUploadSize: 20 << 20,
//	}, store)
//	http.ListenAndServe(":9980", handler.Router())
//
// # Middleware
//
// Router installs RequestLogger and Recoverer, plus chi's RealIP when
// TrustProxy is set and a CORS handler when CORS.Enabled is true. Both
// RequestLogger and Recoverer can be used on their own.
package http
