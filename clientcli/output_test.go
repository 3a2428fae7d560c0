package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sagarc03/camupload/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		formatter := clientcli.NewFormatter(true, false)
		_, ok := formatter.(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		formatter := clientcli.NewFormatter(false, true)
		hf, ok := formatter.(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatPush(t *testing.T) {
	results := []clientcli.PushResult{
		{LocalPath: "snap.jpg", Site: "hq", Camera: "lobby", Size: 2048, StatusCode: 200, Message: "Image accepted"},
		{LocalPath: "", Size: 10, StatusCode: 200, Message: "Image accepted"},
		{LocalPath: "bad.jpg", Err: errors.New("server error: 400 - Missing or invalid upload token")},
	}

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatPush(&buf, results))

		output := buf.String()
		assert.Contains(t, output, "Pushed: snap.jpg -> hq/lobby (2.0 KB)")
		assert.Contains(t, output, "200 Image accepted")
		assert.Contains(t, output, "Pushed: (stdin) -> (default)/(default) (10 B)")
		assert.Contains(t, output, "Error: bad.jpg - server error: 400")
	})

	t.Run("quiet prints only errors", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatPush(&buf, results))

		assert.NotContains(t, buf.String(), "Pushed")
		assert.Contains(t, buf.String(), "Error: bad.jpg")
	})
}

func TestHumanFormatter_FormatPing(t *testing.T) {
	var buf bytes.Buffer
	err := (&clientcli.HumanFormatter{}).FormatPing(&buf, clientcli.PingResult{
		Endpoint:   "http://localhost:9980/",
		StatusCode: 200,
		Message:    "Image upload server ready",
		Latency:    1500 * time.Microsecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9980/: Image upload server ready (200, 2ms)\n", buf.String())
}

func TestJSONFormatter_FormatPush(t *testing.T) {
	results := []clientcli.PushResult{
		{LocalPath: "snap.jpg", Site: "hq", Camera: "lobby", Size: 2048, StatusCode: 200, Message: "Image accepted"},
		{LocalPath: "bad.jpg", Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatPush(&buf, results))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "snap.jpg", decoded[0]["local_path"])
	assert.Equal(t, float64(2048), decoded[0]["size_bytes"])
	assert.NotContains(t, decoded[0], "error")
	assert.Equal(t, "boom", decoded[1]["error"])
	assert.NotContains(t, decoded[1], "status_code")
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatError(&buf, errors.New("nope")))

	assert.JSONEq(t, `{"error":"nope"}`, buf.String())
}

func TestHumanFormatter_FormatProfileList(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "lobby", Endpoint: "http://lobby:9980", Token: "abcdefghijkl"},
		{Name: "gate", Endpoint: "http://gate:9980", Username: "cam", Password: "pw"},
		{Name: "open", Endpoint: "http://open:9980"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, profiles, "gate", false))

	output := buf.String()
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "token abcd...ijkl")
	assert.Contains(t, output, "* gate")
	assert.Contains(t, output, "basic cam")
	assert.Contains(t, output, "(none)")
	assert.NotContains(t, output, "abcdefghijkl")
}

func TestHumanFormatter_FormatProfileList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, nil, "", false))

	assert.Equal(t, "No profiles configured\n", buf.String())
}

func TestHumanFormatter_FormatProfileShow(t *testing.T) {
	profile := clientcli.Profile{Name: "gate", Endpoint: "http://gate:9980", Username: "cam", Password: "hunter2", Site: "hq"}

	t.Run("masked", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileShow(&buf, profile, true, false))

		output := buf.String()
		assert.Contains(t, output, "Name:     gate (default)")
		assert.Contains(t, output, "Password: ********")
		assert.Contains(t, output, "Token:    (not set)")
		assert.Contains(t, output, "Camera:   (default)")
		assert.NotContains(t, output, "hunter2")
	})

	t.Run("show secrets", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileShow(&buf, profile, false, true))

		assert.Contains(t, buf.String(), "Password: hunter2")
		assert.Contains(t, buf.String(), "Name:     gate\n")
	})
}

func TestJSONFormatter_FormatProfileShow(t *testing.T) {
	profile := clientcli.Profile{Name: "lobby", Endpoint: "http://lobby:9980", Token: "abcdefghijkl"}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileShow(&buf, profile, true, false))

	assert.JSONEq(t, `{
		"name": "lobby",
		"endpoint": "http://lobby:9980",
		"token": "abcd...ijkl",
		"default": true
	}`, buf.String())
}
