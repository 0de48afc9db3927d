package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
)

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// NotFoundErr
func NotFoundErr(msg string, err error) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, err)
}

// UpstreamErr is a failure of a collaborator: document generator, storage, queue or database.
func UpstreamErr(msg string, err error) Response {
	if msg == "" {
		msg = "upstream service error"
	}
	return Err(http.StatusBadGateway, msg, err)
}

// FromError maps a service error to its status code and response.
func FromError(err error) (int, Response) {
	var res Response
	switch {
	case errs.IsValidation(err):
		res = ParamErr(err.Error(), err)
	case errs.IsNotFound(err):
		res = NotFoundErr(err.Error(), err)
	case errs.IsCollaborator(err):
		res = UpstreamErr("", err)
	default:
		res = DBErr("", err)
	}
	return res.Code, res
}
