package api

import (
	"eisenhower-matrix/domain"
	"eisenhower-matrix/matrix"
)

const maxBodySize = 64 * 1024 // 64 KiB

// POST /api/quadrants/:quadrant/todos request body
type createTodoRequest struct {
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// POST /api/moves request body
type moveRequest struct {
	SourceQuadrant domain.Quadrant `json:"sourceQuadrant"`
	DestQuadrant   domain.Quadrant `json:"destQuadrant"`
	SourceIndex    int             `json:"sourceIndex"`
	DestIndex      int             `json:"destIndex"`
}

// POST /api/drag/start request body
type dragStartRequest struct {
	ActiveID string `json:"activeId"`
}

// POST /api/drag/end request body
type dragEndRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// POST /api/drag/end response body
type dragEndResponse struct {
	Moved bool         `json:"moved"`
	Move  *matrix.Move `json:"move,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
