package main

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/and161185/goph-vault/internal/convert"
	"github.com/and161185/goph-vault/internal/passgen"
)

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server: %d", e.Status)
	}
	return fmt.Sprintf("server: %d %s", e.Status, e.Message)
}

// apiClient talks to the vault HTTP API.
type apiClient struct {
	base    string
	token   string
	tls     *tls.Config
	timeout time.Duration
}

func loadTLS(caPath string, insecure bool) (*tls.Config, error) {
	if insecure {
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // dev flag
	}
	if caPath == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

func (c *apiClient) url(path string) string {
	return strings.TrimRight(c.base, "/") + path
}

func (c *apiClient) do(a *fiber.Agent, out any) error {
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if c.tls != nil {
		a.TLSConfig(c.tls)
	}
	if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code >= fiber.StatusBadRequest {
		var er convert.ErrorResponse
		_ = json.Unmarshal(body, &er)
		return &apiError{Status: code, Message: er.Error}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *apiClient) login(password string) (convert.LoginResponse, error) {
	var out convert.LoginResponse
	err := c.do(fiber.Post(c.url("/api/auth/login")).JSON(convert.LoginRequest{Password: password}), &out)
	return out, err
}

type sessionInfo struct {
	IssuedAt  int64 `json:"issuedAt"`
	ExpiresAt int64 `json:"expiresAt"`
}

func (c *apiClient) session() (sessionInfo, error) {
	var out sessionInfo
	err := c.do(fiber.Get(c.url("/api/auth/session")), &out)
	return out, err
}

func (c *apiClient) list() ([]convert.RecordDTO, error) {
	var out []convert.RecordDTO
	err := c.do(fiber.Get(c.url("/api/items")), &out)
	return out, err
}

func (c *apiClient) get(id int64) (convert.RecordDTO, error) {
	var out convert.RecordDTO
	err := c.do(fiber.Get(c.url("/api/items/"+strconv.FormatInt(id, 10))), &out)
	return out, err
}

func (c *apiClient) create(in convert.RecordRequest) (convert.RecordDTO, error) {
	var out convert.RecordDTO
	err := c.do(fiber.Post(c.url("/api/items")).JSON(in), &out)
	return out, err
}

func (c *apiClient) update(id int64, in convert.RecordRequest) (convert.RecordDTO, error) {
	var out convert.RecordDTO
	err := c.do(fiber.Put(c.url("/api/items/"+strconv.FormatInt(id, 10))).JSON(in), &out)
	return out, err
}

func (c *apiClient) remove(id int64) error {
	return c.do(fiber.Delete(c.url("/api/items/"+strconv.FormatInt(id, 10))), nil)
}

func (c *apiClient) generate(p passgen.Policy) (string, error) {
	var out convert.PasswordResponse
	err := c.do(fiber.Get(c.url("/api/generate-password")).QueryString(policyQuery(p)), &out)
	return out.Password, err
}

// policyQuery encodes a policy the way the server reads it.
func policyQuery(p passgen.Policy) string {
	q := url.Values{}
	q.Set("length", strconv.Itoa(p.Length))
	q.Set("uppercase", strconv.FormatBool(p.Uppercase))
	q.Set("lowercase", strconv.FormatBool(p.Lowercase))
	q.Set("numbers", strconv.FormatBool(p.Digits))
	q.Set("symbols", strconv.FormatBool(p.Symbols))
	q.Set("excludeSimilar", strconv.FormatBool(p.ExcludeAmbiguous))
	return q.Encode()
}
