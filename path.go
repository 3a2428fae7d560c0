package camupload

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSite is used when the request path has no site segment.
	DefaultSite = "defaultSite"
	// DefaultCamera is used when the request path has no camera segment.
	DefaultCamera = "defaultCamera"

	siteIndex   = 1
	cameraIndex = 2

	fileTimeLayout = "20060102-150405"
	fileExt        = ".jpg"
)

// UploadSite returns the second segment of the request path split on "/",
// or DefaultSite when there is none. A query string is ignored.
func UploadSite(uri string) string {
	return uriSegment(uri, siteIndex, DefaultSite)
}

// UploadCamera returns the third segment of the request path split on "/",
// or DefaultCamera when there is none.
func UploadCamera(uri string) string {
	return uriSegment(uri, cameraIndex, DefaultCamera)
}

func uriSegment(uri string, idx int, fallback string) string {
	p, _, _ := strings.Cut(uri, "?")
	p, _, _ = strings.Cut(p, "#")

	segments := strings.Split(p, "/")
	if len(segments) <= idx {
		return fallback
	}

	seg := segments[idx]
	if !isValidSegment(seg) {
		return fallback
	}
	return seg
}

// isValidSegment reports whether seg can be used as a single directory name.
func isValidSegment(seg string) bool {
	if seg == "" || seg == "." || seg == ".." {
		return false
	}
	if strings.ContainsAny(seg, `\`) {
		return false
	}
	for _, r := range seg {
		if r == 0 || r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// TargetDir returns site/camera/YYYY/MM/DD/HH for the given time.
func TargetDir(site, camera string, now time.Time) string {
	return filepath.Join(
		site,
		camera,
		strconv.Itoa(now.Year()),
		pad2(int(now.Month())),
		pad2(now.Day()),
		pad2(now.Hour()),
	)
}

// TargetFileName returns YYYYMMDD-HHMMSS-ffffff.jpg, where ffffff is the
// microsecond part of now.
func TargetFileName(now time.Time) string {
	return fmt.Sprintf("%s-%06d%s", now.Format(fileTimeLayout), now.Nanosecond()/1000, fileExt)
}

// TargetPath returns the upload target relative to the upload base.
func TargetPath(site, camera string, now time.Time) string {
	return filepath.Join(TargetDir(site, camera, now), TargetFileName(now))
}

// BuildTargetPath returns the full upload target below base. The handler
// does not call it: it passes TargetPath to the store, whose os.Root is
// the base.
func BuildTargetPath(base, site, camera string, now time.Time) string {
	return filepath.Join(base, TargetPath(site, camera, now))
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
