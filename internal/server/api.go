package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Mobin10111010/Planning/internal/advisory"
	"github.com/Mobin10111010/Planning/internal/reminder"
	"github.com/Mobin10111010/Planning/internal/stats"
	"github.com/Mobin10111010/Planning/internal/task"
)

// App holds the wired components the handlers depend on.
type App struct {
	Store     *task.Store
	Stats     *stats.Engine
	Reminders *reminder.Scheduler
	Surface   *reminder.PanelSurface
	Advisory  *advisory.Client

	BootNow time.Time
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	store := app.Store

	Handle(mux, rr, "GET /api/tasks", "List tasks", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, store.Tasks())
	})

	Handle(mux, rr, "POST /api/tasks", "Create task", `{"title":"morning run","description":"5k before work"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}
		if body.Title == "" {
			http.Error(w, "title is required", 400)
			return
		}

		t := store.Add(r.Context(), task.Fields{Title: body.Title, Description: body.Description})
		writeJSON(w, t)
	})

	Handle(mux, rr, "GET /api/tasks/{id}", "Get one task", "", func(w http.ResponseWriter, r *http.Request) {
		t, ok := store.Get(r.PathValue("id"))
		if !ok {
			http.Error(w, "task not found", 404)
			return
		}
		writeJSON(w, t)
	})

	Handle(mux, rr, "PATCH /api/tasks/{id}", "Update task fields", `{"title":"evening run"}`, func(w http.ResponseWriter, r *http.Request) {
		var body task.Patch
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		t, ok := store.Update(r.Context(), r.PathValue("id"), body)
		if !ok {
			http.Error(w, "task not found", 404)
			return
		}
		writeJSON(w, t)
	})

	Handle(mux, rr, "DELETE /api/tasks/{id}", "Delete task and reverse its points", "", func(w http.ResponseWriter, r *http.Request) {
		if !store.Delete(r.Context(), r.PathValue("id")) {
			http.Error(w, "task not found", 404)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	})

	Handle(mux, rr, "POST /api/tasks/{id}/day/{index}", "Set the status for one day of the week", `{"status":"complete"}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		day, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			http.Error(w, "invalid day index", 400)
			return
		}

		var body struct {
			Status task.Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		if _, ok := store.Get(id); !ok {
			http.Error(w, "task not found", 404)
			return
		}

		store.SetDayStatus(r.Context(), id, day, body.Status)

		t, _ := store.Get(id)
		writeJSON(w, map[string]any{"task": t, "progress": store.Progress()})
	})

	Handle(mux, rr, "POST /api/tasks/{id}/complete", "Mark task completed", `{}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := store.Get(id); !ok {
			http.Error(w, "task not found", 404)
			return
		}
		store.MarkComplete(r.Context(), id)
		t, _ := store.Get(id)
		writeJSON(w, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/fail", "Mark task failed", `{}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := store.Get(id); !ok {
			http.Error(w, "task not found", 404)
			return
		}
		store.MarkFailed(r.Context(), id)
		t, _ := store.Get(id)
		writeJSON(w, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/break", "Toggle break state", `{}`, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := store.Get(id); !ok {
			http.Error(w, "task not found", 404)
			return
		}
		store.ToggleBreak(r.Context(), id)
		t, _ := store.Get(id)
		writeJSON(w, t)
	})

	Handle(mux, rr, "POST /api/week/new", "Reset every task to a fresh week", `{}`, func(w http.ResponseWriter, r *http.Request) {
		tasks := store.StartNewWeek(r.Context())
		writeJSON(w, map[string]any{"tasks": tasks, "progress": store.Progress()})
	})

	Handle(mux, rr, "GET /api/level", "Current level and points", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, store.Progress())
	})

	Handle(mux, rr, "GET /api/stats", "Weekly and total tallies", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, app.Stats.Weekly())
	})

	Handle(mux, rr, "GET /api/stats/prediction", "Success prediction", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, app.Stats.Prediction())
	})

	Handle(mux, rr, "GET /api/reminders", "List reminders, optionally for one task", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, app.Reminders.Reminders(r.URL.Query().Get("task")))
	})

	Handle(mux, rr, "POST /api/reminders", "Schedule a reminder", `{"taskId":"1738500000000000000","time":"2026-02-05T09:00:00Z","message":"shoes on"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TaskID  string    `json:"taskId"`
			Time    time.Time `json:"time"`
			Message string    `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		rem := app.Reminders.Add(r.Context(), body.TaskID, body.Time, body.Message)
		if rem == nil {
			http.Error(w, "task not found", 404)
			return
		}
		writeJSON(w, rem)
	})

	Handle(mux, rr, "DELETE /api/reminders/{id}", "Delete a reminder", "", func(w http.ResponseWriter, r *http.Request) {
		if !app.Reminders.Delete(r.Context(), r.PathValue("id")) {
			http.Error(w, "reminder not found", 404)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	})

	Handle(mux, rr, "GET /api/notifications", "Reminders currently showing", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, app.Surface.Panels())
	})

	Handle(mux, rr, "POST /api/notifications/{id}/dismiss", "Dismiss a shown reminder", `{}`, func(w http.ResponseWriter, r *http.Request) {
		app.Surface.Dismiss(r.PathValue("id"))
		writeJSON(w, map[string]string{"status": "ok"})
	})

	Handle(mux, rr, "POST /api/advisory/suggestions", "Ask the assistant for scheduling advice", `{"title":"morning run"}`, func(w http.ResponseWriter, r *http.Request) {
		var data any
		_ = json.NewDecoder(r.Body).Decode(&data)
		writeJSON(w, app.Advisory.TaskSuggestions(r.Context(), data))
	})

	Handle(mux, rr, "POST /api/advisory/prediction", "Ask the assistant for a success outlook", `{"title":"morning run"}`, func(w http.ResponseWriter, r *http.Request) {
		var data any
		_ = json.NewDecoder(r.Body).Decode(&data)
		writeJSON(w, app.Advisory.TaskPrediction(r.Context(), data))
	})

	Handle(mux, rr, "POST /api/advisory/rest", "Ask the assistant where breaks should go", `{}`, func(w http.ResponseWriter, r *http.Request) {
		var data any
		_ = json.NewDecoder(r.Body).Decode(&data)
		writeJSON(w, app.Advisory.RestAnalysis(r.Context(), data))
	})

	Handle(mux, rr, "POST /api/advisory/motivation", "Ask the assistant for encouragement", `{}`, func(w http.ResponseWriter, r *http.Request) {
		var data any
		_ = json.NewDecoder(r.Body).Decode(&data)
		writeJSON(w, app.Advisory.MotivationalMessage(r.Context(), data))
	})

	Handle(mux, rr, "GET /api/routes", "List registered routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	Handle(mux, rr, "GET /api/health", "Liveness probe", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok", "uptime": time.Since(app.BootNow).String()})
	})
}
