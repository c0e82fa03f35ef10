package code

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode int

const (
	Success     ErrCode = 0
	UnDefineErr ErrCode = 10000 + iota
	ParamErr
	UnLogin
	LoginFormatErr
	InvalidToken
	NoPermission
	LoginSetStateErr
	LoginStateErr
	LoginGetUserInfoErr
	LoginCallbackErr
	ExchangeTokenErr
	RefreshTokenParamErr
	RefreshTokenErr
	AccountQueryUserErr
)

// storage
const (
	RecordNotFound ErrCode = 20000 + iota
	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	DuplicateRecordErr
	StorageUnavailableErr
	ScopeLockErr
)

// sample registration
const (
	WellNotFound ErrCode = 30000 + iota
	WellAlreadyExistErr
	CoreNotFound
	UnknownSampleKindErr
	SampleValidateErr
	SampleNameConflictErr
	SampleIdentityErr
	SequenceAllocErr
)

// notify
const (
	NotifyActionAlreadyRegistryErr ErrCode = 40000 + iota
	NotifySendMsgErr
	NotifySubscribeErr
	UnmarshalWSDataErr
)

var codeMsg = map[ErrCode]string{
	Success:              "success",
	UnDefineErr:          "undefined error",
	ParamErr:             "parameter error",
	UnLogin:              "authentication required",
	LoginFormatErr:       "invalid authorization format",
	InvalidToken:         "invalid token",
	NoPermission:         "no permission",
	LoginSetStateErr:     "save login state failed",
	LoginStateErr:        "invalid login state",
	LoginGetUserInfoErr:  "get user info failed",
	LoginCallbackErr:     "login callback failed",
	ExchangeTokenErr:     "exchange token failed",
	RefreshTokenParamErr: "refresh token is required",
	RefreshTokenErr:      "refresh token failed",
	AccountQueryUserErr:  "query account user failed",

	RecordNotFound:        "record not found",
	QueryRecordErr:        "query record failed",
	CreateDataErr:         "create data failed",
	UpdateDataErr:         "update data failed",
	DuplicateRecordErr:    "record already exists",
	StorageUnavailableErr: "storage unavailable",
	ScopeLockErr:          "sequence scope is busy, retry later",

	WellNotFound:          "well not found",
	WellAlreadyExistErr:   "This well already exists.",
	CoreNotFound:          "core not found",
	UnknownSampleKindErr:  "unknown sample kind",
	SampleValidateErr:     "sample validation failed",
	SampleNameConflictErr: "sample name already exists",
	SampleIdentityErr:     "sample identity could not be computed",
	SequenceAllocErr:      "allocate sequence failed",

	NotifyActionAlreadyRegistryErr: "notify action already registered",
	NotifySendMsgErr:               "send notify message failed",
	NotifySubscribeErr:             "subscribe notify channel failed",
	UnmarshalWSDataErr:             "unmarshal websocket data failed",
}

var codeStatus = map[ErrCode]int{
	Success:               http.StatusOK,
	ParamErr:              http.StatusBadRequest,
	UnLogin:               http.StatusUnauthorized,
	LoginFormatErr:        http.StatusUnauthorized,
	InvalidToken:          http.StatusUnauthorized,
	NoPermission:          http.StatusForbidden,
	RefreshTokenParamErr:  http.StatusBadRequest,
	RecordNotFound:        http.StatusNotFound,
	DuplicateRecordErr:    http.StatusConflict,
	StorageUnavailableErr: http.StatusServiceUnavailable,
	ScopeLockErr:          http.StatusServiceUnavailable,
	WellNotFound:          http.StatusNotFound,
	WellAlreadyExistErr:   http.StatusConflict,
	CoreNotFound:          http.StatusNotFound,
	UnknownSampleKindErr:  http.StatusBadRequest,
	SampleValidateErr:     http.StatusBadRequest,
	SampleNameConflictErr: http.StatusConflict,
	SampleIdentityErr:     http.StatusUnprocessableEntity,
}

func (c ErrCode) String() string {
	if msg, ok := codeMsg[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code: %d", int(c))
}

func (c ErrCode) Error() string {
	return c.String()
}

func (c ErrCode) Int() int {
	return int(c)
}

// HTTPStatus 错误码对应的 http 状态码
func (c ErrCode) HTTPStatus() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (c ErrCode) WithMsg(msg string) *Error {
	return &Error{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Error {
	e := &Error{Code: c, err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}

// Error carries a code plus a detail message, it unwraps to both the code and the cause.
type Error struct {
	Code ErrCode
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Msg)
}

func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.err}
}

// FromErr returns the code carried by err, UnDefineErr when there is none.
func FromErr(err error) ErrCode {
	if err == nil {
		return Success
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr
}
