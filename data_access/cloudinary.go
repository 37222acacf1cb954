package data_access

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Pyxyll/web-api-ca/models"
)

// CloudinaryClient uploads and deletes profile images through Cloudinary's
// REST API using signed requests.
type CloudinaryClient struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	baseURL    string
	httpClient *http.Client
}

func NewCloudinaryClient(cloudName, apiKey, apiSecret, folder string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		baseURL:   "https://api.cloudinary.com/v1_1",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *CloudinaryClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// sign computes the SHA-1 signature over the sorted request parameters plus
// the API secret, per Cloudinary's signed-request scheme.
func (c *CloudinaryClient) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// Upload stores the image and returns its URL plus the public id needed to
// delete it again.
func (c *CloudinaryClient) Upload(ctx context.Context, data []byte) (*models.ProfileImage, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	publicID := fmt.Sprintf("profile_%s_%06d", timestamp, rand.Intn(1000000))

	params := url.Values{}
	params.Set("folder", c.folder)
	params.Set("public_id", publicID)
	params.Set("timestamp", timestamp)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, k := range []string{"folder", "public_id", "timestamp"} {
		if err := writer.WriteField(k, params.Get(k)); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, err
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error uploading image: %w", err)
	}
	defer resp.Body.Close()

	var uploadResp cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, fmt.Errorf("error decoding upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if uploadResp.Error.Message != "" {
			return nil, fmt.Errorf("image upload failed: %s", uploadResp.Error.Message)
		}
		return nil, fmt.Errorf("image upload failed with status %d", resp.StatusCode)
	}

	return &models.ProfileImage{
		URL:      uploadResp.SecureURL,
		PublicID: uploadResp.PublicID,
	}, nil
}

// Destroy removes an uploaded image. An empty public id is a no-op.
func (c *CloudinaryClient) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("timestamp", timestamp)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error deleting image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image delete failed with status %d", resp.StatusCode)
	}
	return nil
}
