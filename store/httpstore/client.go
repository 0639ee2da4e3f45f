// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httpstore implements [store.Client] over a plain HTTP/JSON
// document API. It is the reference remote transport: any server exposing
//
//	GET    /collections/{collection}/documents          — list
//	GET    /collections/{collection}/documents/{key}    — fetch one
//	PUT    /collections/{collection}/documents/{key}    — upsert (If-Match)
//	DELETE /collections/{collection}/documents/{key}    — delete (If-Match)
//
// with ETag revision headers plugs straight in. HTTP statuses are mapped
// to the transport-agnostic sentinel errors of the store package so
// callers never see status codes.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-cloud-sync/internal/logger"
	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

// Token is the opaque bearer credential the HTTP store understands. Pass
// it as the Credentials handle of a destination; the client attaches it as
// an Authorization header and never persists it.
type Token string

// Config holds construction-time settings for the client.
type Config struct {
	// BaseURL is the root endpoint of the document API.
	BaseURL string

	// Timeout bounds each HTTP request. Defaults to 15s.
	Timeout time.Duration
}

// Client is an HTTP-backed document store client. Safe for concurrent use.
type Client struct {
	client *resty.Client
	log    *logger.Logger
}

var _ store.Client = (*Client)(nil)

func New(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{client: cli, log: log}
}

func documentPath(collection, key string) string {
	return fmt.Sprintf("/collections/%s/documents/%s", url.PathEscape(collection), url.PathEscape(key))
}

func collectionPath(collection string) string {
	return fmt.Sprintf("/collections/%s/documents", url.PathEscape(collection))
}

// request builds an authenticated request for the destination. The
// credentials handle is interpreted as a bearer [Token]; any other handle
// type means the destination carries no credentials this client can use.
func (c *Client) request(ctx context.Context, dst models.Destination) *resty.Request {
	req := c.client.R().SetContext(ctx)

	switch token := dst.Credentials.(type) {
	case Token:
		c.warnIfExpired(string(token))
		req.SetHeader("Authorization", "Bearer "+string(token))
	case string:
		c.warnIfExpired(token)
		req.SetHeader("Authorization", "Bearer "+token)
	}

	return req
}

// Get implements [store.Client].
func (c *Client) Get(ctx context.Context, dst models.Destination, key string) (models.Document, models.Revision, error) {
	resp, err := c.request(ctx, dst).Get(documentPath(dst.Collection, key))
	if err != nil {
		return nil, models.RevisionNone, store.Transient(fmt.Errorf("get request: %w", err))
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, models.RevisionNone, err
	}

	doc, err := decodeDocument(resp.Body())
	if err != nil {
		return nil, models.RevisionNone, fmt.Errorf("decode get response: %w", err)
	}

	return doc, revisionFrom(resp), nil
}

// Put implements [store.Client]. The expected revision travels as an
// If-Match header; the server answers 412 when it no longer matches and
// 201 when the write created the document.
func (c *Client) Put(ctx context.Context, dst models.Destination, key string, doc models.Document, expected models.Revision) (store.PutResult, error) {
	req := c.request(ctx, dst).
		SetHeader("Content-Type", "application/json").
		SetBody(doc)
	if !expected.IsNone() {
		req.SetHeader("If-Match", string(expected))
	}

	resp, err := req.Put(documentPath(dst.Collection, key))
	if err != nil {
		return store.PutResult{}, store.Transient(fmt.Errorf("put request: %w", err))
	}
	if err = mapHTTPError(resp); err != nil {
		return store.PutResult{}, err
	}

	return store.PutResult{
		Revision: revisionFrom(resp),
		Created:  resp.StatusCode() == 201,
	}, nil
}

// Delete implements [store.Client].
func (c *Client) Delete(ctx context.Context, dst models.Destination, key string, expected models.Revision) error {
	req := c.request(ctx, dst)
	if !expected.IsNone() {
		req.SetHeader("If-Match", string(expected))
	}

	resp, err := req.Delete(documentPath(dst.Collection, key))
	if err != nil {
		return store.Transient(fmt.Errorf("delete request: %w", err))
	}

	return mapHTTPError(resp)
}

// List implements [store.Client].
func (c *Client) List(ctx context.Context, dst models.Destination) ([]store.KeyedDocument, error) {
	resp, err := c.request(ctx, dst).Get(collectionPath(dst.Collection))
	if err != nil {
		return nil, store.Transient(fmt.Errorf("list request: %w", err))
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []listItem
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err = dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	out := make([]store.KeyedDocument, 0, len(items))
	for _, item := range items {
		out = append(out, store.KeyedDocument{
			Key:      item.Key,
			Document: item.Document,
			Revision: models.Revision(item.Revision),
		})
	}

	return out, nil
}

type listItem struct {
	Key      string          `json:"key"`
	Revision string          `json:"revision"`
	Document models.Document `json:"document"`
}

func decodeDocument(body []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func revisionFrom(resp *resty.Response) models.Revision {
	return models.Revision(strings.Trim(resp.Header().Get("ETag"), `"`))
}
