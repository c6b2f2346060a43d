package marketplace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Tasks talks to the task service.
type Tasks struct {
	client *apiclient.Client
}

func NewTasks(tasks *apiclient.Client) *Tasks {
	return &Tasks{client: tasks}
}

// Photo is an image file attached to a task.
type Photo struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (t *Tasks) Create(ctx context.Context, req TaskRequest) (Task, error) {
	return apiclient.Send[Task](ctx, t.client, http.MethodPost, "/tasks", nil, req)
}

func (t *Tasks) Get(ctx context.Context, id int64) (Task, error) {
	path, err := expand("/tasks/{id}", p("id", id))
	if err != nil {
		return Task{}, err
	}

	return apiclient.Get[Task](ctx, t.client, path, nil)
}

func (t *Tasks) Update(ctx context.Context, id int64, req TaskRequest) (Task, error) {
	path, err := expand("/tasks/{id}", p("id", id))
	if err != nil {
		return Task{}, err
	}

	return apiclient.Send[Task](ctx, t.client, http.MethodPut, path, nil, req)
}

func (t *Tasks) Delete(ctx context.Context, id int64) error {
	path, err := expand("/tasks/{id}", p("id", id))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, t.client, http.MethodDelete, path, nil, nil)
}

func (t *Tasks) Publish(ctx context.Context, id int64) (Task, error) {
	return t.transition(ctx, id, "publish")
}

func (t *Tasks) Complete(ctx context.Context, id int64) (Task, error) {
	return t.transition(ctx, id, "complete")
}

func (t *Tasks) Cancel(ctx context.Context, id int64) (Task, error) {
	return t.transition(ctx, id, "cancel")
}

func (t *Tasks) Assign(ctx context.Context, id, taskerID int64) (Task, error) {
	path, err := expand("/tasks/{id}/assign", p("id", id))
	if err != nil {
		return Task{}, err
	}

	q, err := newQuery().add("taskerId", taskerID).build()
	if err != nil {
		return Task{}, err
	}

	return apiclient.Send[Task](ctx, t.client, http.MethodPatch, path, q, nil)
}

func (t *Tasks) transition(ctx context.Context, id int64, action string) (Task, error) {
	path, err := expand("/tasks/{id}/{action}", p("id", id), p("action", action))
	if err != nil {
		return Task{}, err
	}

	return apiclient.Send[Task](ctx, t.client, http.MethodPatch, path, nil, nil)
}

func (t *Tasks) MyTasks(ctx context.Context, params TaskSearchParams) (Page[Task], error) {
	return t.list(ctx, "/tasks/my-tasks", params)
}

func (t *Tasks) MyAssignments(ctx context.Context, params TaskSearchParams) (Page[Task], error) {
	return t.list(ctx, "/tasks/my-assignments", params)
}

func (t *Tasks) Search(ctx context.Context, params TaskSearchParams) (Page[Task], error) {
	return t.list(ctx, "/tasks/search", params)
}

func (t *Tasks) list(ctx context.Context, path string, params TaskSearchParams) (Page[Task], error) {
	q := newQuery()
	opt(q, "categoryId", params.CategoryID)
	opt(q, "minBudget", params.MinBudget)
	opt(q, "maxBudget", params.MaxBudget)
	opt(q, "location", params.Location)
	opt(q, "isRemote", params.IsRemote)
	opt(q, "priority", params.Priority)
	opt(q, "status", params.Status)
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)
	opt(q, "sortBy", params.SortBy)
	opt(q, "sortDirection", params.SortDirection)

	values, err := q.build()
	if err != nil {
		return Page[Task]{}, err
	}

	return apiclient.Get[Page[Task]](ctx, t.client, path, values)
}

// UploadImage attaches a single image to the task.
func (t *Tasks) UploadImage(ctx context.Context, taskID int64, image Photo) error {
	path, err := expand("/tasks/{id}/images", p("id", taskID))
	if err != nil {
		return err
	}

	body, contentType, err := multipartBody("image", []Photo{image})
	if err != nil {
		return err
	}

	_, err = t.client.Do(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
	})

	return err
}

// UploadPhotos attaches photos to the task in one multipart request.
func (t *Tasks) UploadPhotos(ctx context.Context, taskID int64, photos []Photo) (Task, error) {
	if len(photos) == 0 {
		return Task{}, errors.New("no photos to upload")
	}

	path, err := expand("/tasks/{id}/photos", p("id", taskID))
	if err != nil {
		return Task{}, err
	}

	body, contentType, err := multipartBody("photos", photos)
	if err != nil {
		return Task{}, err
	}

	return apiclient.Call[Task](ctx, t.client, apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
	})
}

func (t *Tasks) SetPrimaryImage(ctx context.Context, taskID, imageID int64) error {
	path, err := expand("/tasks/{id}/images/{imageId}/set-primary", p("id", taskID), p("imageId", imageID))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, t.client, http.MethodPatch, path, nil, nil)
}

func (t *Tasks) DeleteImage(ctx context.Context, taskID, imageID int64) error {
	path, err := expand("/tasks/{id}/images/{imageId}", p("id", taskID), p("imageId", imageID))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, t.client, http.MethodDelete, path, nil, nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody buffers the form so the request can be replayed after a
// token refresh.
func multipartBody(field string, files []Photo) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(f.FileName)))

		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(f.Data)
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating form part for %s: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("writing form part for %s: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
