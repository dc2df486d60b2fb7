package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store uploads images through Cloudinary's signed upload endpoint.
type Store struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	baseURL   string
	http      *http.Client
	now       func() time.Time
}

func New(cloudName, apiKey, apiSecret, folder string) (*Store, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary config missing required fields")
	}
	return &Store{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		baseURL:   "https://api.cloudinary.com",
		http:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}, nil
}

// signature computes the SHA-1 request signature over the sorted
// signed parameters, per Cloudinary's upload API contract.
func (s *Store) signature(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Store) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	publicID := uuid.NewString()

	signed := map[string]string{
		"timestamp": timestamp,
		"public_id": publicID,
	}
	if s.folder != "" {
		signed["folder"] = s.folder
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"api_key":   s.apiKey,
		"signature": s.signature(signed),
	}
	for k, v := range signed {
		fields[k] = v
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return "", err
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("cloudinary response malformed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload rejected: %s", parsed.Error.Message)
	}
	if parsed.SecureURL == "" {
		return "", errors.New("cloudinary returned no secure_url")
	}

	return parsed.SecureURL, nil
}
