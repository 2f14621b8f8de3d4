package httpx

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
	"github.com/teemtee/tmt-web/internal/format"
	"github.com/teemtee/tmt-web/internal/service"
)

// taskOut is the JSON response shape for asynchronous tasks.
type taskOut struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Result            *string `json:"result"`
	StatusCallbackURL string  `json:"status_callback_url"`
}

// toTaskOut converts a task record into the client response. Failed tasks
// surface their error message in the result field.
func (h *apiHandlers) toTaskOut(task model.Task, outFormat format.Format) taskOut {
	result := task.Result
	if task.Status == model.TaskStatusFailure {
		result = task.Error
	}
	return taskOut{
		ID:                task.ID,
		Status:            string(task.Status),
		Result:            result,
		StatusCallbackURL: h.statusCallbackURL(task.ID, outFormat == format.HTML),
	}
}

// handleRoot processes a request for test, plan, or both.
//
// Returns test/plan information in the requested format. For HTML format,
// returns a status page that keeps polling until the final result is ready.
// Requests without parameters are redirected to the API documentation.
func (h *apiHandlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if len(q) == 0 {
		http.Redirect(w, r, h.docsURL, http.StatusTemporaryRedirect)
		return
	}

	outFormat, err := format.Parse(q.Get("format"))
	if err != nil {
		WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// An existing task id means the client is polling for results.
	if taskID := q.Get("task-id"); taskID != "" {
		h.writeTaskResult(w, r, taskID, outFormat)
		return
	}

	req := requestFromQuery(q, outFormat)
	if detail := validateParameters(q); detail != "" {
		h.logger.Warn("invalid request parameters", "detail", detail)
		WriteDetail(w, http.StatusBadRequest, detail)
		return
	}

	if h.sync {
		h.processSync(w, r, req, outFormat)
		return
	}

	id, err := h.tasks.Execute(r.Context(), func(ctx context.Context) (string, error) {
		return h.metadata.ProcessRequest(ctx, req)
	})
	if err != nil {
		h.logger.Error("failed to create task", "error", err)
		WriteDetail(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	if outFormat == format.HTML {
		page, renderErr := format.RenderStatusPage(format.StatusPageData{
			TaskID:      id,
			Status:      model.TaskStatusPending,
			CallbackURL: h.statusCallbackURL(id, true),
		})
		if renderErr != nil {
			h.logger.Error("failed to render status page", "task_id", id, "error", renderErr)
			WriteDetail(w, http.StatusInternalServerError, renderErr.Error())
			return
		}
		writeContent(w, format.HTML.ContentType(), page)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read task", "task_id", id, "error", err)
		WriteDetail(w, http.StatusInternalServerError, "Failed to read task")
		return
	}
	WriteJSON(w, http.StatusOK, h.toTaskOut(task, outFormat))
}

// requestFromQuery extracts the metadata request parameters.
func requestFromQuery(q url.Values, outFormat format.Format) service.Request {
	return service.Request{
		TestURL:  q.Get("test-url"),
		TestName: q.Get("test-name"),
		TestRef:  q.Get("test-ref"),
		TestPath: q.Get("test-path"),
		PlanURL:  q.Get("plan-url"),
		PlanName: q.Get("plan-name"),
		PlanRef:  q.Get("plan-ref"),
		PlanPath: q.Get("plan-path"),
		Format:   outFormat,
	}
}

// validateParameters checks the url/name pairing rules for new task
// creation. Returns an empty string when the parameters are acceptable.
func validateParameters(q url.Values) string {
	testURL, testName := q.Get("test-url"), q.Get("test-name")
	planURL, planName := q.Get("plan-url"), q.Get("plan-name")

	if (testURL == "") != (testName == "") {
		return "Both test-url and test-name must be provided together"
	}
	if (planURL == "") != (planName == "") {
		return "Both plan-url and plan-name must be provided together"
	}
	if testURL == "" && testName == "" && planURL == "" && planName == "" {
		return "At least one of test or plan parameters must be provided"
	}
	return ""
}

// processSync resolves the request inline instead of dispatching a task.
func (h *apiHandlers) processSync(w http.ResponseWriter, r *http.Request, req service.Request, outFormat format.Format) {
	result, err := h.metadata.ProcessRequest(r.Context(), req)
	if err != nil {
		h.logger.Warn("request failed", "error", err)
		WriteDetail(w, statusForError(err), err.Error())
		return
	}
	writeContent(w, outFormat.ContentType(), result)
}

// statusForError maps resolution errors onto HTTP status codes using the
// same message classification applied to stored task failures.
func statusForError(err error) int {
	switch {
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsValidationMessage(err.Error()):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeTaskResult reconciles a finished or in-flight task into a response.
func (h *apiHandlers) writeTaskResult(w http.ResponseWriter, r *http.Request, taskID string, outFormat format.Format) {
	task, err := h.tasks.Get(r.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to read task", "task_id", taskID, "error", err)
		WriteDetail(w, http.StatusInternalServerError, "Failed to read task")
		return
	}

	if task.Status == model.TaskStatusFailure {
		msg := "Unknown error"
		if task.Error != nil && *task.Error != "" {
			msg = *task.Error
		}
		if core.IsNotFoundMessage(msg) {
			WriteDetail(w, http.StatusNotFound, msg)
			return
		}
		WriteDetail(w, http.StatusInternalServerError, msg)
		return
	}

	if task.Status == model.TaskStatusSuccess && task.Result != nil {
		h.writeFormattedResult(w, *task.Result, outFormat)
		return
	}

	WriteJSON(w, http.StatusOK, h.toTaskOut(task, outFormat))
}

// writeFormattedResult renders a stored task result in the requested
// format. Results that no longer deserialize are assumed to be
// pre-formatted and returned as-is.
func (h *apiHandlers) writeFormattedResult(w http.ResponseWriter, result string, outFormat format.Format) {
	rendered := result
	if obj, err := format.Deserialize(result); err == nil {
		formatted, formatErr := format.FormatData(obj, outFormat)
		if formatErr != nil {
			h.logger.Error("error handling task result", "error", formatErr)
			WriteDetail(w, http.StatusInternalServerError, "Error handling task result: "+formatErr.Error())
			return
		}
		rendered = formatted
	}
	writeContent(w, outFormat.ContentType(), rendered)
}

func writeContent(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
