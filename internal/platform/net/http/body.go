package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	perr "marketingetl/internal/platform/errors"

	"github.com/tidwall/gjson"
)

// MaxBody caps how much of one response is read
const MaxBody = 32 << 20

// Do sends req and returns the JSON body of a 2xx response
//
// transport failures and non-2xx statuses are SourceUnavailable; a non-JSON
// body is SourceSchema. errMsgPath is the gjson path of the provider's error
// message, used to describe non-2xx responses
func Do(hc *http.Client, req *http.Request, errMsgPath string) (gjson.Result, error) {
	resp, err := hc.Do(req)
	if err != nil {
		// the client error repeats the request URL, query secrets included
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = Redact(req.URL)
		}
		return gjson.Result{}, perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "%s %s", req.Method, Redact(req.URL))
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return gjson.Result{}, perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "read %s", Redact(req.URL))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if errMsgPath != "" && gjson.ValidBytes(b) {
			msg = gjson.GetBytes(b, errMsgPath).String()
		}
		if msg == "" {
			msg = tail(b, 512)
		}
		return gjson.Result{}, perr.SourceUnavailablef("%s %s: status %d: %s", req.Method, Redact(req.URL), resp.StatusCode, msg)
	}

	if !gjson.ValidBytes(b) {
		return gjson.Result{}, perr.SourceSchemaf("%s %s: body is not valid json", req.Method, Redact(req.URL))
	}
	return gjson.ParseBytes(b), nil
}

// Array returns the array at path or a SourceSchema error naming it
func Array(body gjson.Result, path string) ([]gjson.Result, error) {
	v := body.Get(path)
	if !v.Exists() || !v.IsArray() {
		return nil, perr.WithField(perr.SourceSchemaf("response has no %q array", path), path)
	}
	return v.Array(), nil
}

func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
