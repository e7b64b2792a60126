package imagestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploads are capped at 800px wide and recompressed server-side; larger
// images are scaled down, never cropped.
const uploadTransformation = "c_limit,q_auto:good,w_800"

type Cloudinary struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string, httpClient *http.Client) *Cloudinary {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if folder == "" {
		folder = "faculty_wears"
	}
	return &Cloudinary{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		folder:     folder,
		baseURL:    "https://api.cloudinary.com",
		httpClient: httpClient,
		now:        time.Now,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Result    string `json:"result"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", errors.New("cloudinary credentials are not set")
	}
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}
	if !allowedFile(filename) {
		return "", ErrUnsupportedType
	}

	params := map[string]string{
		"folder":         c.folder,
		"public_id":      uuid.NewString(),
		"timestamp":      strconv.FormatInt(c.now().Unix(), 10),
		"transformation": uploadTransformation,
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := mw.WriteField("api_key", c.apiKey); err != nil {
		return "", err
	}
	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	cr, err := c.do(req)
	if err != nil {
		return "", err
	}
	if cr.SecureURL == "" {
		return "", errors.New("cloudinary response has no secure_url")
	}
	return cr.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, imageURL string) error {
	params := map[string]string{
		"public_id": PublicIDFromURL(imageURL),
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cr, err := c.do(req)
	if err != nil {
		return err
	}
	if cr.Result != "ok" {
		return fmt.Errorf("cloudinary destroy result %q", cr.Result)
	}
	return nil
}

func (c *Cloudinary) do(req *http.Request) (*cloudinaryResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr cloudinaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("cloudinary status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if cr.Error != nil {
			msg = cr.Error.Message
		}
		return nil, fmt.Errorf("cloudinary status %d: %s", resp.StatusCode, msg)
	}
	return &cr, nil
}

// sign computes the Cloudinary request signature: SHA-1 over the params
// sorted by key, joined as key=value with &, with the API secret appended.
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString(c.apiSecret)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
