package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"eisenhower-matrix/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Matrix, resolver DragResolver, settings SettingsStore, logger *log.Logger) {
	e.GET("/healthz", healthz())

	e.GET("/api/matrix", getMatrix(store))
	e.DELETE("/api/matrix", clearMatrix(store, logger))

	q := e.Group("/api/quadrants/:quadrant/todos")
	q.GET("", listTodos(store))
	q.POST("", createTodo(store))
	q.PATCH("/:id", editTodo(store))
	q.DELETE("/:id", deleteTodo(store))
	q.POST("/:id/toggle", toggleTodo(store))
	q.POST("/:id/expand", expandTodo(store))

	e.GET("/api/todos/:id/location", locateTodo(store))
	e.POST("/api/moves", postMove(store))
	e.POST("/api/drag/start", dragStart(resolver))
	e.POST("/api/drag/end", dragEnd(resolver))

	e.GET("/api/settings", getSettings(settings, logger))
	e.PUT("/api/settings", putSettings(settings, logger))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

func fail(c echo.Context, status int, stage, msg string) error {
	metricsFrom(c).SetErrorStage(stage)
	return c.JSON(status, errorResponse{Error: msg})
}

func decodeBody(c echo.Context, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func timed(c echo.Context, fn func()) {
	start := time.Now()
	fn()
	metricsFrom(c).ObserveStore(time.Since(start))
}

func quadrantParam(c echo.Context) (domain.Quadrant, bool) {
	q, err := domain.ParseQuadrant(c.Param("quadrant"))
	return q, err == nil
}

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func getMatrix(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		var snap domain.Snapshot
		timed(c, func() { snap = store.Snapshot() })
		metricsFrom(c).SetTodosReturned(snap.Len())
		return c.JSON(http.StatusOK, snap)
	}
}

func clearMatrix(store Matrix, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("confirm") != "true" {
			return fail(c, http.StatusPreconditionRequired, "confirmation", "clearing all data requires confirm=true")
		}
		timed(c, store.Clear)
		logger.WithField("remote", c.RealIP()).Warn("all matrix data cleared via api")
		return c.NoContent(http.StatusNoContent)
	}
}

func listTodos(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, ok := quadrantParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "quadrant", domain.ErrUnknownQuadrant.Error())
		}
		var todos []domain.Todo
		timed(c, func() { todos = store.Todos(q) })
		metricsFrom(c).SetTodosReturned(len(todos))
		return c.JSON(http.StatusOK, todos)
	}
}

func createTodo(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, ok := quadrantParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "quadrant", domain.ErrUnknownQuadrant.Error())
		}
		var req createTodoRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		req.Text = strings.TrimSpace(req.Text)
		req.Description = strings.TrimSpace(req.Description)
		if !domain.ValidText(req.Text) {
			return fail(c, http.StatusUnprocessableEntity, "validate", "text must not be empty")
		}
		if err := domain.ValidateDueDate(req.DueDate); err != nil {
			return fail(c, http.StatusBadRequest, "validate", err.Error())
		}
		var (
			todo  domain.Todo
			added bool
		)
		timed(c, func() { todo, added = store.Add(q, req.Text, req.Description, req.DueDate) })
		if !added {
			return fail(c, http.StatusUnprocessableEntity, "store", "todo rejected")
		}
		return c.JSON(http.StatusCreated, todo)
	}
}

func editTodo(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, ok := quadrantParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "quadrant", domain.ErrUnknownQuadrant.Error())
		}
		id, ok := idParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "id", "todo not found")
		}
		var u domain.Update
		if err := decodeBody(c, &u); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		if u.Empty() {
			return fail(c, http.StatusBadRequest, "validate", "update carries no fields")
		}
		trimUpdate(&u)
		if u.Text != nil && !domain.ValidText(*u.Text) {
			return fail(c, http.StatusUnprocessableEntity, "validate", "text must not be empty")
		}
		if u.DueDate != nil {
			if err := domain.ValidateDueDate(*u.DueDate); err != nil {
				return fail(c, http.StatusBadRequest, "validate", err.Error())
			}
		}
		var (
			todo   domain.Todo
			edited bool
		)
		timed(c, func() { todo, edited = store.Edit(q, id, u) })
		if !edited {
			return fail(c, http.StatusNotFound, "store", "todo not found")
		}
		return c.JSON(http.StatusOK, todo)
	}
}

// trimUpdate strips surrounding whitespace from the text fields of u.
// A blank description clears it.
func trimUpdate(u *domain.Update) {
	if u.Text != nil {
		text := strings.TrimSpace(*u.Text)
		u.Text = &text
	}
	if u.Description != nil {
		desc := strings.TrimSpace(*u.Description)
		u.Description = &desc
	}
}

// flagHandler serves the id-addressed operations that only report success.
func flagHandler(store Matrix, op func(domain.Quadrant, int64) bool, status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, ok := quadrantParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "quadrant", domain.ErrUnknownQuadrant.Error())
		}
		id, ok := idParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "id", "todo not found")
		}
		var done bool
		timed(c, func() { done = op(q, id) })
		if !done {
			return fail(c, http.StatusNotFound, "store", "todo not found")
		}
		if status == http.StatusNoContent {
			return c.NoContent(status)
		}
		todo, found := store.Get(id)
		if !found {
			return fail(c, http.StatusNotFound, "store", "todo not found")
		}
		return c.JSON(status, todo)
	}
}

func deleteTodo(store Matrix) echo.HandlerFunc {
	return flagHandler(store, store.Delete, http.StatusNoContent)
}

func toggleTodo(store Matrix) echo.HandlerFunc {
	return flagHandler(store, store.Toggle, http.StatusOK)
}

func expandTodo(store Matrix) echo.HandlerFunc {
	return flagHandler(store, store.ToggleExpanded, http.StatusOK)
}

func locateTodo(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := idParam(c)
		if !ok {
			return fail(c, http.StatusNotFound, "id", "todo not found")
		}
		var (
			loc   domain.Location
			found bool
		)
		timed(c, func() { loc, found = store.Find(id) })
		if !found {
			return fail(c, http.StatusNotFound, "store", "todo not found")
		}
		return c.JSON(http.StatusOK, loc)
	}
}

func postMove(store Matrix) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		if !req.SourceQuadrant.Valid() || !req.DestQuadrant.Valid() {
			return fail(c, http.StatusBadRequest, "validate", domain.ErrUnknownQuadrant.Error())
		}
		var moved bool
		timed(c, func() {
			moved = store.Move(req.SourceQuadrant, req.DestQuadrant, req.SourceIndex, req.DestIndex)
		})
		if !moved {
			return fail(c, http.StatusConflict, "store", "move had no effect")
		}
		return c.JSON(http.StatusOK, store.Snapshot())
	}
}

func dragStart(resolver DragResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dragStartRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		var (
			todo  domain.Todo
			found bool
		)
		timed(c, func() { todo, found = resolver.DragStart(req.ActiveID) })
		if !found {
			return fail(c, http.StatusNotFound, "store", "todo not found")
		}
		return c.JSON(http.StatusOK, todo)
	}
}

func dragEnd(resolver DragResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dragEndRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		var resp dragEndResponse
		timed(c, func() {
			mv, moved := resolver.DragEnd(req.ActiveID, req.OverID)
			resp.Moved = moved
			if moved {
				resp.Move = &mv
			}
		})
		return c.JSON(http.StatusOK, resp)
	}
}

func getSettings(settings SettingsStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := settings.Load(c.Request().Context())
		if err != nil {
			logger.WithError(err).Warn("unable to load settings; using defaults")
		}
		return c.JSON(http.StatusOK, s)
	}
}

func putSettings(settings SettingsStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var s domain.Settings
		if err := decodeBody(c, &s); err != nil {
			return fail(c, http.StatusBadRequest, "decode", "invalid body")
		}
		if err := settings.Save(c.Request().Context(), s); err != nil {
			if errors.Is(err, domain.ErrUnsupportedLanguage) {
				return fail(c, http.StatusBadRequest, "validate", err.Error())
			}
			logger.WithError(err).Error("save settings failed")
			return fail(c, http.StatusInternalServerError, "storage", "failed to save settings")
		}
		return c.JSON(http.StatusOK, s)
	}
}
