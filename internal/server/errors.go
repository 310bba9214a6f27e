// Package server provides the HTTP REST API for the job-hunting tracker.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/db"
	"github.com/jonathan/jobhunt-tracker/internal/gateway"
	"github.com/jonathan/jobhunt-tracker/internal/selection"
	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error       string             `json:"error"`
	Details     string             `json:"details,omitempty"`
	FailedPages []types.FailedPage `json:"failedPages,omitempty"`
}

const (
	msgInternal         = "サーバーエラーが発生しました"
	msgCompanyNotFound  = "企業が見つかりません"
	msgStepNotFound     = "選考ステップが見つかりません"
	msgInvalidBody      = "リクエストの形式が正しくありません"
	msgEmailTaken       = "このメールアドレスは既に登録されています"
	msgBadCredentials   = "メールアドレスまたはパスワードが正しくありません"
	msgPasswordMismatch = "現在のパスワードが正しくありません"
	msgUserNotFound     = "ユーザーが見つかりません"
	msgProviderDetails  = "生成AIサービスとの通信に失敗しました。しばらくしてから再度お試しください。"
	msgParseDetails     = "生成AIの応答を解析できませんでした"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		noUser       *ErrUserNotFound
		invalid      *ErrValidation
		stepNotFound *selection.NotFoundError
		stepErr      *selection.Error
		companyErr   *tracker.ValidationError
		gwInvalid    *gateway.ValidationError
		gwNoContent  *gateway.NoContentError
		gwProvider   *gateway.ProviderError
		gwParse      *gateway.ParseError
	)

	switch {
	case errors.As(err, &emailTaken), errors.Is(err, db.ErrEmailTaken):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &stepNotFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &stepErr), errors.As(err, &companyErr),
		errors.As(err, &gwInvalid), errors.As(err, &gwNoContent):
		return http.StatusBadRequest
	case errors.As(err, &gwProvider), errors.As(err, &gwParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody converts err into the response body. Internal causes and raw
// generated text never reach the client.
func errorBody(err error) ErrorResponse {
	var (
		gwInvalid    *gateway.ValidationError
		gwNoContent  *gateway.NoContentError
		gwProvider   *gateway.ProviderError
		gwParse      *gateway.ParseError
		stepNotFound *selection.NotFoundError
		stepErr      *selection.Error
		companyErr   *tracker.ValidationError
		invalid      *ErrValidation
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		noUser       *ErrUserNotFound
	)

	switch {
	case errors.As(err, &emailTaken), errors.Is(err, db.ErrEmailTaken):
		return ErrorResponse{Error: msgEmailTaken}
	case errors.As(err, &badCreds):
		return ErrorResponse{Error: msgBadCredentials}
	case errors.As(err, &mismatch):
		return ErrorResponse{Error: msgPasswordMismatch}
	case errors.As(err, &noUser):
		return ErrorResponse{Error: msgUserNotFound}
	case errors.As(err, &gwProvider):
		return ErrorResponse{Error: gwProvider.Message, Details: msgProviderDetails}
	case errors.As(err, &gwParse):
		return ErrorResponse{Error: gwParse.Message, Details: msgParseDetails}
	case errors.As(err, &gwNoContent):
		return ErrorResponse{Error: gwNoContent.Error(), FailedPages: gwNoContent.FailedPages}
	case errors.As(err, &gwInvalid):
		return ErrorResponse{Error: gwInvalid.Message, Details: gwInvalid.Field}
	case errors.As(err, &stepNotFound):
		return ErrorResponse{Error: msgStepNotFound, Details: stepNotFound.StepID}
	case errors.As(err, &stepErr):
		return ErrorResponse{Error: stepErr.Message}
	case errors.As(err, &companyErr):
		return ErrorResponse{Error: companyErr.Message, Details: companyErr.Field}
	case errors.As(err, &invalid):
		return ErrorResponse{Error: invalid.Message, Details: invalid.Field}
	case errors.Is(err, db.ErrNotFound):
		return ErrorResponse{Error: msgCompanyNotFound}
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return ErrorResponse{Error: msgInternal}
	}
	return ErrorResponse{Error: err.Error()}
}
