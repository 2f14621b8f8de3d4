package httpx

import (
	"net/http"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
	"github.com/teemtee/tmt-web/internal/format"
)

// taskIDParam extracts and validates the task-id query parameter. A missing
// parameter and a present-but-empty one are reported differently, matching
// required-parameter semantics.
func taskIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("task-id") {
		WriteDetail(w, http.StatusUnprocessableEntity, "task-id is required")
		return "", false
	}
	taskID := q.Get("task-id")
	if taskID == "" {
		WriteDetail(w, http.StatusBadRequest, "task-id is required")
		return "", false
	}
	return taskID, true
}

// handleStatus returns the status of an asynchronous task.
func (h *apiHandlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to read task", "task_id", taskID, "error", err)
		WriteDetail(w, http.StatusInternalServerError, "Failed to read task")
		return
	}

	// Unknown and expired ids fail with a "not found" error message.
	if task.Status == model.TaskStatusFailure && task.Error != nil && core.IsNotFoundMessage(*task.Error) {
		WriteDetail(w, http.StatusNotFound, *task.Error)
		return
	}

	WriteJSON(w, http.StatusOK, h.toTaskOut(task, format.JSON))
}

// handleStatusHTML returns the status of an asynchronous task as a
// self-refreshing HTML page. Finished tasks redirect to the root endpoint
// for result rendering.
func (h *apiHandlers) handleStatusHTML(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to read task", "task_id", taskID, "error", err)
		WriteDetail(w, http.StatusInternalServerError, "Failed to read task")
		return
	}

	if task.Status == model.TaskStatusSuccess && task.Result != nil {
		http.Redirect(w, r, h.baseURL+"/?task-id="+taskID, http.StatusSeeOther)
		return
	}

	result := ""
	if task.Result != nil {
		result = *task.Result
	}
	if task.Status == model.TaskStatusFailure && task.Error != nil {
		result = *task.Error
	}

	page, err := format.RenderStatusPage(format.StatusPageData{
		TaskID:      taskID,
		Status:      task.Status,
		CallbackURL: h.statusCallbackURL(taskID, true),
		Result:      result,
	})
	if err != nil {
		h.logger.Error("failed to render status page", "task_id", taskID, "error", err)
		WriteDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeContent(w, format.HTML.ContentType(), page)
}
