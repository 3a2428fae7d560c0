// Package camupload provides the core of an image upload server for network
// cameras that push JPEG snapshots over HTTP.
//
// Cameras POST images to /{site}/{camera}/... and every accepted image is
// written below a fixed, time-partitioned layout:
//
//	<upload.path>/<site>/<camera>/<YYYY>/<MM>/<DD>/<HH>/<YYYYMMDD-HHMMSS-ffffff>.jpg
//
// That layout is the only durable contract of the server; downstream tools
// browse it directly.
//
// # Key Components
//
//   - Path builder: UploadSite, UploadCamera, TargetPath and BuildTargetPath
//     derive the target from the request path and the local wall clock.
//   - Authenticator: TokenAuth (shared token in the query string) or
//     BasicAuth (HTTP basic credentials), selected once at startup.
//   - Method: an explicit tag for request method dispatch.
//
// See the http package for the request handler and the filesystem package
// for the storage writer.
package camupload
