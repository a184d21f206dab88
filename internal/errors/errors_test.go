package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/campaignkit/session-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "combatant not found",
			expected: "NOT_FOUND: combatant not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid dice notation",
			expected: "INVALID_ARGUMENT: invalid dice notation",
		},
		{
			name:     "unavailable error",
			code:     errors.CodeUnavailable,
			message:  "redis unreachable",
			expected: "UNAVAILABLE: redis unreachable",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestConstructors() {
	s.Assert().Equal(errors.CodeNotFound, errors.NotFoundf("session %q not found", "abc").Code)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.InvalidArgument("bad input").Code)
	s.Assert().Equal(errors.CodeAlreadyExists, errors.AlreadyExists("duplicate").Code)
	s.Assert().Equal(errors.CodeInternal, errors.Internalf("boom: %d", 1).Code)
	s.Assert().Equal(errors.CodeUnavailable, errors.Unavailable("down").Code)
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	inner := errors.NotFound("combatant not found")
	wrapped := errors.Wrapf(inner, "removing %q", "Goblin")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().True(errors.IsNotFound(wrapped))
	s.Assert().Equal(inner, wrapped.Unwrap())
	s.Assert().Contains(wrapped.Error(), `removing "Goblin"`)
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "saving session")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Contains(wrapped.Error(), "connection refused")
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWithMeta() {
	err := errors.NotFound("session not found").
		WithMeta("session_id", "sess_1").
		WithMeta("campaign", "waterdeep")

	s.Assert().Equal("sess_1", err.Meta["session_id"])
	s.Assert().Equal("waterdeep", err.Meta["campaign"])
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(errors.NotFound("missing")))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain error")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Assert().Equal("missing", errors.GetMessage(errors.NotFound("missing")))
	s.Assert().Equal("plain error", errors.GetMessage(fmt.Errorf("plain error")))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code   errors.Code
		status int
	}{
		{errors.CodeOK, http.StatusOK},
		{errors.CodeInvalidArgument, http.StatusBadRequest},
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeAlreadyExists, http.StatusConflict},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.CodeUnavailable, http.StatusServiceUnavailable},
		{errors.Code("MYSTERY"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.code.String(), func() {
			s.Assert().Equal(tc.status, tc.code.HTTPStatus())
		})
	}
}

func (s *ErrorsTestSuite) TestIsPredicates() {
	s.Assert().True(errors.IsNotFound(errors.NotFound("x")))
	s.Assert().False(errors.IsNotFound(errors.Internal("x")))
	s.Assert().True(errors.IsInvalidArgument(errors.InvalidArgument("x")))
	s.Assert().True(errors.IsAlreadyExists(errors.AlreadyExists("x")))
	s.Assert().True(errors.IsUnavailable(errors.Unavailable("x")))
	s.Assert().False(errors.IsInternal(nil))
}
