// Package response writes the JSON envelope every endpoint answers with:
// {success, data|error, pagination?}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// Envelope is the top-level response body.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Detail     string            `json:"detail,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

type Pagination struct {
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

func NewPagination(info domain.PageInfo) *Pagination {
	return &Pagination{
		TotalCount:  info.TotalCount,
		TotalPages:  info.TotalPages,
		CurrentPage: info.CurrentPage,
		Limit:       info.Limit,
	}
}

// Responder renders envelopes and maps domain errors to status codes.
type Responder struct {
	logger       *logger.Logger
	metrics      *metrics.MetricsManager
	exposeDetail bool
}

// New returns a Responder. exposeDetail adds the underlying cause of a
// failure to the body and must be false in production.
func New(log *logger.Logger, m *metrics.MetricsManager, exposeDetail bool) *Responder {
	return &Responder{logger: log.Named("http"), metrics: m, exposeDetail: exposeDetail}
}

// JSON writes body as-is with the given status.
func (rs *Responder) JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rs.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (rs *Responder) OK(w http.ResponseWriter, data interface{}) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func (rs *Responder) Created(w http.ResponseWriter, data interface{}) {
	rs.JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func (rs *Responder) Page(w http.ResponseWriter, data interface{}, info domain.PageInfo) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: NewPagination(info)})
}

// Error translates err into a failure envelope and logs it with the
// request method and path.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	de := domain.AsError(err)
	status := de.Kind.HTTPStatus()

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("kind", string(de.Kind)),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		rs.logger.Error("Request failed", fields...)
	} else {
		rs.logger.Info("Request rejected", fields...)
	}
	if rs.metrics != nil {
		rs.metrics.APIErrorsTotal.WithLabelValues(string(de.Kind)).Inc()
	}

	body := Envelope{Success: false, Error: de.Message, Details: de.Details}
	if rs.exposeDetail {
		if cause := de.Unwrap(); cause != nil {
			body.Detail = cause.Error()
		}
	}
	rs.JSON(w, status, body)
}
