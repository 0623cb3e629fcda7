// Package content reads courses and exams from the headless CMS and writes the
// one field the platform edits (exam questions).
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound = errors.New("content not found")
	errNoToken  = errors.New("content write token is not configured")
)

type Options struct {
	BaseURL    string
	Dataset    string
	APIVersion string
	// Token is required for writes; reads of a public dataset work without it.
	Token   string
	Timeout time.Duration
}

type Client struct {
	http    *resty.Client
	dataset string
	version string
	token   string
	log     logrus.FieldLogger
}

func NewClient(opts Options, log logrus.FieldLogger) *Client {
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.Token != "" {
		c.SetAuthToken(opts.Token)
	}
	return &Client{
		http:    c,
		dataset: opts.Dataset,
		version: opts.APIVersion,
		token:   opts.Token,
		log:     log.WithField("component", "content"),
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type apiError struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) path(op string) string {
	return fmt.Sprintf("/v%s/data/%s/%s", c.version, op, c.dataset)
}

// fetch runs a GROQ query and decodes its result into dest. A null result leaves
// dest untouched.
func (c *Client) fetch(ctx context.Context, groq string, params map[string]interface{}, dest interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", groq)
	for name, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode param %s", name)
		}
		req.SetQueryParam("$"+name, string(b))
	}

	resp, err := req.Get(c.path("query"))
	if err != nil {
		return errors.Wrap(err, "content query")
	}
	if resp.IsError() {
		return statusError(resp)
	}

	var body queryResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return errors.Wrap(err, "decode query response")
	}
	if len(body.Result) == 0 || string(body.Result) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body.Result, dest), "decode query result")
}

func statusError(resp *resty.Response) error {
	var apiErr apiError
	if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Description != "" {
		return errors.Errorf("content api: %s: %s", resp.Status(), apiErr.Error.Description)
	}
	return errors.Errorf("content api: %s", resp.Status())
}

// readFailed logs a read error. Read methods then return their zero value, so a
// backend outage looks like missing content to callers.
func (c *Client) readFailed(err error, query string) {
	c.log.WithError(err).WithField("query", query).Error("content read failed")
}

type mutation struct {
	Patch *patch `json:"patch,omitempty"`
}

type patch struct {
	ID  string                 `json:"id"`
	Set map[string]interface{} `json:"set"`
}

func (c *Client) mutate(ctx context.Context, mutations ...mutation) error {
	if c.token == "" {
		return errNoToken
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("returnIds", "true").
		SetBody(map[string]interface{}{"mutations": mutations}).
		Post(c.path("mutate"))
	if err != nil {
		return errors.Wrap(err, "content mutate")
	}
	if resp.IsError() {
		return statusError(resp)
	}
	return nil
}
