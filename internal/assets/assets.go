// Package assets uploads catalog imagery to the image CDN and derives the
// transformation URLs the storefront consumes.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"merchdesk/backend/internal/domain"
	"merchdesk/backend/internal/xid"
)

var ErrNotConfigured = errors.New("asset uploads not configured")

// MaxUploadBytes bounds a single image upload.
const MaxUploadBytes = 8 << 20

var derivedVariants = map[string]string{
	"thumb": "c_fill,w_200,h_200",
	"card":  "c_fit,w_640",
	"zoom":  "c_fit,w_1600",
}

type Uploader struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewUploader(baseURL, cloudName, apiKey, apiSecret string) *Uploader {
	return &Uploader{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *Uploader) Configured() bool {
	return u != nil && u.baseURL != "" && u.cloudName != ""
}

// Upload pushes one image to the CDN and returns its public ID plus the
// derived transformation URLs the storefront uses for each slot.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader) (*domain.AssetUploadResponse, error) {
	if !u.Configured() {
		return nil, ErrNotConfigured
	}

	publicID := xid.New("img")
	timestamp := time.Now().UTC().Unix()
	params := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", timestamp),
	}
	params["signature"] = u.sign(params)
	params["api_key"] = u.apiKey

	body, contentType, bytesWritten, err := encodeMultipart(filename, file, params)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cdn upload returned status %d", resp.StatusCode)
	}

	return &domain.AssetUploadResponse{
		PublicID:    publicID,
		URL:         u.deliveryURL(publicID, ""),
		DerivedURLs: u.derivedURLs(publicID),
		Bytes:       bytesWritten,
		UploadedAt:  time.Unix(timestamp, 0).UTC().Format(time.RFC3339),
	}, nil
}

// DerivedURLs rebuilds the transformation URLs for an already uploaded image,
// used when serving products that reference a stored public ID.
func (u *Uploader) DerivedURLs(publicID string) map[string]string {
	if !u.Configured() || publicID == "" {
		return nil
	}
	return u.derivedURLs(publicID)
}

func (u *Uploader) derivedURLs(publicID string) map[string]string {
	out := make(map[string]string, len(derivedVariants))
	for name, transform := range derivedVariants {
		out[name] = u.deliveryURL(publicID, transform)
	}
	return out
}

func (u *Uploader) deliveryURL(publicID string, transform string) string {
	if transform == "" {
		return fmt.Sprintf("%s/%s/image/%s", u.baseURL, u.cloudName, publicID)
	}
	return fmt.Sprintf("%s/%s/image/%s/%s", u.baseURL, u.cloudName, transform, publicID)
}

// sign produces the CDN's request signature: parameters sorted by key, joined
// as key=value pairs with '&', then the API secret appended and SHA-1 hashed.
func (u *Uploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString(u.apiSecret)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func encodeMultipart(filename string, file io.Reader, params map[string]string) (io.Reader, string, int64, error) {
	var buf strings.Builder
	writer := multipart.NewWriter(&buf)

	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", 0, err
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", 0, err
	}
	written, err := io.Copy(part, io.LimitReader(file, MaxUploadBytes))
	if err != nil {
		return nil, "", 0, err
	}
	if err := writer.Close(); err != nil {
		return nil, "", 0, err
	}

	return strings.NewReader(buf.String()), writer.FormDataContentType(), written, nil
}
