package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/pii"
)

type Job = jobs.Job

type JobRequest struct {
	Name    string
	Content io.Reader

	Categories []pii.Category
}

type JobService struct {
	Options []RequestOption
}

func NewJobService(opts ...RequestOption) JobService {
	return JobService{
		Options: opts,
	}
}

func (r *JobService) New(ctx context.Context, input JobRequest, opts ...RequestOption) (*Job, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	file, err := w.CreateFormFile("file", input.Name)

	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(file, input.Content); err != nil {
		return nil, err
	}

	if len(input.Categories) > 0 {
		var categories []string

		for _, category := range input.Categories {
			categories = append(categories, string(category))
		}

		w.WriteField("categories", strings.Join(categories, ","))
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/jobs", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, convertError(resp)
	}

	var job Job

	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *JobService) List(ctx context.Context, opts ...RequestOption) ([]Job, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/jobs", nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result []Job

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *JobService) Get(ctx context.Context, id string, opts ...RequestOption) (*Job, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/jobs/"+id, nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, jobs.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var job Job

	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

// Wait polls a job until it completes or fails.
func (r *JobService) Wait(ctx context.Context, id string, interval time.Duration, opts ...RequestOption) (*Job, error) {
	for {
		job, err := r.Get(ctx, id, opts...)

		if err != nil {
			return nil, err
		}

		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-time.After(interval):
		}
	}
}

func (r *JobService) Download(ctx context.Context, id string, w io.Writer, opts ...RequestOption) error {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/jobs/"+id+"/download", nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return convertError(resp)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

func (r *JobService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "DELETE", c.URL+"/v1/jobs/"+id, nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return convertError(resp)
	}

	return nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if text := strings.TrimSpace(string(data)); text != "" {
		return fmt.Errorf("%s: %s", resp.Status, text)
	}

	return errors.New(resp.Status)
}
