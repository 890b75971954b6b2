package coverbe

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/coverletter"
)

// Generate posts the form to the generation endpoint and returns a
// [coverletter.Stream] over the event-stream response. Closing the stream
// cancels the request.
func (c *Client) Generate(ctx context.Context, req coverletter.GenerateRequest) (coverletter.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("coverbe: %w", err)
	}
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, fmt.Errorf("coverbe: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	httpReq, err := c.newRequest(ctx, http.MethodPost, generatePath, bytes.NewReader(body), true)
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", eventStreamType)

	resp, err := c.do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		defer cancel()
		defer resp.Body.Close()
		return nil, parseHTTPError(resp, nil, "")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, eventStreamType) {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("coverbe: got %q: %w", ct, coverletter.ErrBadResponseType)
	}

	log := c.logger.With().Str("request_id", httpReq.Header.Get(requestIDHeader)).Logger()
	return newStream(resp.Body, cancel, log, c.requireComplete), nil
}

// encodeForm writes the generation form as multipart/form-data.
func encodeForm(req coverletter.GenerateRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("job_requirements", req.JobRequirements); err != nil {
		return nil, "", err
	}
	if req.HumanScale > 0 {
		if err := w.WriteField("human_scale", strconv.Itoa(req.HumanScale)); err != nil {
			return nil, "", err
		}
	}
	if req.OptionalInfo != "" {
		if err := w.WriteField("optional_info", req.OptionalInfo); err != nil {
			return nil, "", err
		}
	}
	if req.CV != nil {
		part, err := w.CreateFormFile("cv", req.CV.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(req.CV.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
