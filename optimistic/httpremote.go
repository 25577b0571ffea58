// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ktanabe/meetslot/models"
)

// HTTPRemote talks to a meetslot server, addressing the project through
// a share token. It maps the server's 409/422 bodies back into the
// error taxonomy so the executor can classify outcomes.
type HTTPRemote struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func (r *HTTPRemote) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *HTTPRemote) url(path string) string {
	return r.BaseURL + "/p/" + r.Token + path
}

// Execute performs the single network attempt for a mutation.
func (r *HTTPRemote) Execute(ctx context.Context, m Mutation) (any, error) {
	switch m := m.(type) {
	case *SetResponse:
		path := "/responses/" + m.ParticipantID + "/" + m.CandidateID
		body := models.ResponseInput{Mark: m.Mark, Comment: m.Comment, Version: m.Version}
		method := http.MethodPost
		if m.Version > 0 {
			method = http.MethodPut
		}
		var out models.Response
		if err := r.do(ctx, method, path, body, &out); err != nil {
			return nil, err
		}
		return out, nil

	case *ClearResponse:
		path := "/responses/" + m.ParticipantID + "/" + m.CandidateID
		body := models.VersionedRequest{Version: m.Version}
		return nil, r.do(ctx, http.MethodDelete, path, body, nil)

	case *EditCandidate:
		var out models.Candidate
		if err := r.do(ctx, http.MethodPut, "/candidates/"+m.CandidateID, m.Input, &out); err != nil {
			return nil, err
		}
		return out, nil

	case *EditMeta:
		var out models.ProjectMeta
		if err := r.do(ctx, http.MethodPut, "/meta", m.Input, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported mutation %T", m)
}

// FetchSnapshot retrieves the authoritative project snapshot.
func (r *HTTPRemote) FetchSnapshot(ctx context.Context) (models.ProjectSnapshot, error) {
	var snap models.ProjectSnapshot
	err := r.do(ctx, http.MethodGet, "", nil, &snap)
	return snap, err
}

func (r *HTTPRemote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.url(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var er models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return &models.ConflictError{Kind: er.Kind, Reason: er.Reason, Latest: er.Latest}
	case http.StatusUnprocessableEntity:
		return &models.ValidationError{Fields: er.Fields}
	case http.StatusNotFound:
		return models.NewNotFoundError(er.Kind, er.Message)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Message)
}
