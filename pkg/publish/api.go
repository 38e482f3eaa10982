package publish

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/archscape/pkg/buildinfo"
	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/httputil"
	"github.com/matzehuels/archscape/pkg/observability"
)

const apiContentType = "application/json; charset=UTF-8"

// WorkspaceAPI uploads the workspace document to a workspace API with
// PUT {URL}/workspace/{ID}. Requests are signed with an HMAC-SHA256 of the
// method, path, body digest, content type and nonce.
type WorkspaceAPI struct {
	URL    string
	ID     int64
	Key    string
	Secret string
	Client *http.Client

	// Now overrides the clock used for nonces.
	Now func() time.Time
}

func (a *WorkspaceAPI) Name() string { return "api" }

// Target is the upload URL.
func (a *WorkspaceAPI) Target() string { return strings.TrimRight(a.URL, "/") + a.path() }

func (a *WorkspaceAPI) path() string { return "/workspace/" + strconv.FormatInt(a.ID, 10) }

func (a *WorkspaceAPI) Publish(ctx context.Context, p Payload) error {
	if a.Key == "" || a.Secret == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "workspace API key and secret are required")
	}
	if err := errors.ValidateURL(a.URL); err != nil {
		return err
	}
	return httputil.RetryWithBackoff(ctx, func() error {
		return a.put(ctx, p.JSON)
	})
}

func (a *WorkspaceAPI) put(ctx context.Context, body []byte) error {
	path := a.path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.Target(), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "workspace API request")
	}
	a.sign(req, path, body)
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	hooks := observability.HTTP()
	host := hostOf(a.URL)
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "upload workspace %d", a.ID))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "workspace API rejected credentials for workspace %d", a.ID)
	}
	return httputil.CheckStatus(resp, respBody)
}

// sign sets the Content-MD5, Nonce and X-Authorization headers.
func (a *WorkspaceAPI) sign(req *http.Request, path string, body []byte) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	digest := md5.Sum(body)
	md5Hex := hex.EncodeToString(digest[:])
	nonce := strconv.FormatInt(now().UnixMilli(), 10)

	req.Header.Set("Content-Type", apiContentType)
	req.Header.Set("Content-MD5", base64.StdEncoding.EncodeToString([]byte(md5Hex)))
	req.Header.Set("Nonce", nonce)
	req.Header.Set("X-Authorization", a.Key+":"+Signature(a.Secret, req.Method, path, md5Hex, apiContentType, nonce))
}

// Signature computes the authorization token for one request: the base64
// encoding of the hex HMAC-SHA256 over the newline-terminated method, path,
// hex body digest, content type and nonce.
func Signature(secret, method, path, md5Hex, contentType, nonce string) string {
	content := method + "\n" + path + "\n" + md5Hex + "\n" + contentType + "\n" + nonce + "\n"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(content))
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(mac.Sum(nil))))
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Host
}

