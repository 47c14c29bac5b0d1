package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"

	// recordPageLimit is the fixed page size of the record browser.
	recordPageLimit = 50
)

type ObjectDescriptor struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	LabelPlural string `json:"labelPlural"`
	Createable  bool   `json:"createable"`
	Updateable  bool   `json:"updateable"`
	Deletable   bool   `json:"deletable"`
}

type FieldDescriptor struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Length     int    `json:"length,omitempty"`
	Required   bool   `json:"required"`
	Createable bool   `json:"createable"`
	Updateable bool   `json:"updateable"`
	// PicklistValues is empty for every type but picklist.
	PicklistValues []PicklistValue `json:"picklistValues"`
}

type PicklistValue struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	Active       bool   `json:"active"`
	DefaultValue bool   `json:"defaultValue"`
}

type RecordPage struct {
	Records   []Record `json:"records"`
	TotalSize int      `json:"totalSize"`
	Done      bool     `json:"done"`
}

type BulkCreateRequest struct {
	Count    int            `json:"count"`
	Template map[string]any `json:"template"`
}

// MutationResult is the body of every create and delete response. The
// backend reports failures as success=false with a message, usually with a
// 400 status.
type MutationResult struct {
	Success bool   `json:"success"`
	Created int    `json:"created,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DataAPI is the backend surface the console drives.
type DataAPI interface {
	ListObjects(ctx context.Context) ([]ObjectDescriptor, error)
	ListFields(ctx context.Context, objectName string) ([]FieldDescriptor, error)
	ListRecords(ctx context.Context, objectName string, limit int) (*RecordPage, error)
	BulkCreate(ctx context.Context, objectName string, req BulkCreateRequest) (*MutationResult, error)
	DeleteRecord(ctx context.Context, objectName, recordID string) (*MutationResult, error)
}

type Client struct {
	client *http.Client
	apiURL string
}

func NewClient(apiURL string, client *http.Client) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: client,
	}
}

func (c *Client) ListObjects(ctx context.Context) ([]ObjectDescriptor, error) {
	var objects []ObjectDescriptor
	if err := c.get(ctx, c.endpoint("objects"), &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

func (c *Client) ListFields(ctx context.Context, objectName string) ([]FieldDescriptor, error) {
	var fields []FieldDescriptor
	if err := c.get(ctx, c.endpoint(objectName, "fields"), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) ListRecords(ctx context.Context, objectName string, limit int) (*RecordPage, error) {
	u := fmt.Sprintf("%s?limit=%d", c.endpoint(objectName, "records"), limit)

	page := &RecordPage{}
	if err := c.get(ctx, u, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) BulkCreate(ctx context.Context, objectName string, req BulkCreateRequest) (*MutationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	result := &MutationResult{}
	if err := c.mutate(ctx, http.MethodPost, c.endpoint(objectName, "bulk-create"), body, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteRecord(ctx context.Context, objectName, recordID string) (*MutationResult, error) {
	result := &MutationResult{}
	if err := c.mutate(ctx, http.MethodDelete, c.endpoint(objectName, recordID), nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.apiURL + "/api/data/" + strings.Join(escaped, "/")
}

// get requires a 200 response; error bodies of the form {"error": "..."}
// are folded into the returned error.
func (c *Client) get(ctx context.Context, u string, into any) error {
	res, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return statusError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(into); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// mutate decodes the body whatever the status code.
func (c *Client) mutate(ctx context.Context, method, u string, body []byte, into *MutationResult) error {
	res, err := c.do(ctx, method, u, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(into); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("unexpected status code: %d", res.StatusCode)
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return res, nil
}

func statusError(res *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, body.Error)
	}
	return fmt.Errorf("unexpected status code: %d", res.StatusCode)
}
